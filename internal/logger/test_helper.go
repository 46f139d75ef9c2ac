package logger

import (
	"io"

	"github.com/rs/zerolog"
)

func NewTest() *Logger {
	return &Logger{
		logger:   zerolog.New(io.Discard).Level(zerolog.Disabled),
		language: defaultLanguage,
		messages: getEmbeddedMessages(defaultLanguage),
	}
}
