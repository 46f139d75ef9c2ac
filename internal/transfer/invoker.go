package transfer

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/kevinfinalboss/replicator/internal/logger"
	"github.com/kevinfinalboss/replicator/pkg/types"
)

const DefaultCommand = "./pull-push.sh"

// Transferer copies the image behind a source reference to a target reference.
type Transferer interface {
	Transfer(ctx context.Context, sourceImage, targetImage string) *types.TransferOutcome
}

// Invoker runs an external pull/push command as
// `command [args...] <source> <target>`.
type Invoker struct {
	command string
	args    []string
	logger  *logger.Logger
}

func NewInvoker(cfg types.TransferConfig, logger *logger.Logger) *Invoker {
	command := cfg.Command
	if command == "" {
		command = DefaultCommand
	}
	return &Invoker{
		command: command,
		args:    cfg.Args,
		logger:  logger,
	}
}

func (i *Invoker) Transfer(ctx context.Context, sourceImage, targetImage string) *types.TransferOutcome {
	args := make([]string, 0, len(i.args)+2)
	args = append(args, i.args...)
	args = append(args, sourceImage, targetImage)

	i.logger.Info("transfer_started").
		Str("source", sourceImage).
		Str("target", targetImage).
		Str("command", i.command).
		Send()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, i.command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	outcome := &types.TransferOutcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			outcome.ExitCode = exitErr.ExitCode()
		} else {
			outcome.ExitCode = -1
			outcome.Err = err
		}

		i.logger.Error("transfer_failed").
			Str("source", sourceImage).
			Str("target", targetImage).
			Int("exit_code", outcome.ExitCode).
			Str("stderr", outcome.Stderr).
			Err(err).
			Send()
		return outcome
	}

	outcome.Success = true
	i.logger.Info("transfer_completed").
		Str("source", sourceImage).
		Str("target", targetImage).
		Dur("duration", outcome.Duration).
		Str("stdout", outcome.Stdout).
		Send()

	return outcome
}
