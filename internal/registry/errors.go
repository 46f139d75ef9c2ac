package registry

import (
	"errors"
	"fmt"

	ecrTypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/aws/smithy-go"
)

var ErrMalformedPolicy = errors.New("malformed repository policy")

// ControlPlaneError is a control-plane failure that survived the retry budget
// or was not retryable to begin with. It aborts the entry it occurred on.
type ControlPlaneError struct {
	Op         string
	Repository string
	Code       string
	Err        error
}

func newControlPlaneError(op, repository string, err error) *ControlPlaneError {
	cpErr := &ControlPlaneError{
		Op:         op,
		Repository: repository,
		Err:        err,
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		cpErr.Code = apiErr.ErrorCode()
	}

	return cpErr
}

func (e *ControlPlaneError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("ecr %s %s failed (%s): %v", e.Op, e.Repository, e.Code, e.Err)
	}
	return fmt.Sprintf("ecr %s %s failed: %v", e.Op, e.Repository, e.Err)
}

func (e *ControlPlaneError) Unwrap() error {
	return e.Err
}

func IsControlPlaneError(err error) bool {
	var cpErr *ControlPlaneError
	return errors.As(err, &cpErr)
}

func isRepositoryNotFound(err error) bool {
	var notFound *ecrTypes.RepositoryNotFoundException
	return errors.As(err, &notFound)
}

func isImageNotFound(err error) bool {
	var notFound *ecrTypes.ImageNotFoundException
	return errors.As(err, &notFound)
}

func isRepositoryAlreadyExists(err error) bool {
	var exists *ecrTypes.RepositoryAlreadyExistsException
	return errors.As(err, &exists)
}

func isInvalidParameter(err error) bool {
	var invalid *ecrTypes.InvalidParameterException
	return errors.As(err, &invalid)
}
