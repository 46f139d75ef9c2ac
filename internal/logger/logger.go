package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kevinfinalboss/replicator/pkg/types"
	"github.com/rs/zerolog"
)

const defaultLanguage = "en-US"

type Logger struct {
	logger   zerolog.Logger
	language string
	messages map[string]string
}

func New() *Logger {
	return newLogger(consoleWriter(os.Stdout), zerolog.InfoLevel, defaultLanguage)
}

func NewWithConfig(cfg *types.Config) *Logger {
	language := cfg.Settings.Language
	if language == "" {
		language = defaultLanguage
	}
	return newLogger(consoleWriter(os.Stdout), parseLogLevel(cfg.Settings.LogLevel), language)
}

// NewWithWriter emits JSON lines to w, mainly so callers can inspect what was logged.
func NewWithWriter(w io.Writer, level string) *Logger {
	l := &Logger{
		logger:   zerolog.New(w).Level(parseLogLevel(level)).With().Timestamp().Logger(),
		language: defaultLanguage,
	}
	l.loadMessages()
	return l
}

func newLogger(w io.Writer, level zerolog.Level, language string) *Logger {
	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()

	l := &Logger{
		logger:   logger,
		language: language,
	}
	l.loadMessages()
	return l
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("%-6s", i))
		},
	}
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) loadMessages() {
	messages, err := loadLocaleMessages(l.language)
	if err != nil {
		messages = getEmbeddedMessages(l.language)
	}
	l.messages = messages
}

func (l *Logger) GetMessage(key string) string {
	return l.getMessage(key)
}

func (l *Logger) getMessage(key string) string {
	if message, exists := l.messages[key]; exists {
		return message
	}

	if message, exists := getEmbeddedMessages(defaultLanguage)[key]; exists {
		return message
	}

	return key
}

func (l *Logger) Debug(key string) *zerolog.Event {
	return l.logger.Debug().Str("event", key).Str("message", l.getMessage(key))
}

func (l *Logger) Info(key string) *zerolog.Event {
	return l.logger.Info().Str("event", key).Str("message", l.getMessage(key))
}

func (l *Logger) Warn(key string) *zerolog.Event {
	return l.logger.Warn().Str("event", key).Str("message", l.getMessage(key))
}

func (l *Logger) Error(key string) *zerolog.Event {
	return l.logger.Error().Str("event", key).Str("message", l.getMessage(key))
}
