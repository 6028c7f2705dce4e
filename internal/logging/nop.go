package logging

import "github.com/denispionicul/party/types"

// NopLogger discards all log output.
//
// This is the default when no logger is configured, eliminating nil checks
// at every log site.
type NopLogger struct{}

// Compile-time assertion that NopLogger implements Logger.
var _ types.Logger = (*NopLogger)(nil)

// NewNop creates a logger that discards everything.
func NewNop() *NopLogger {
	return &NopLogger{}
}

// Debug discards the message.
func (l *NopLogger) Debug(_ string, _ ...any) {}

// Info discards the message.
func (l *NopLogger) Info(_ string, _ ...any) {}

// Warn discards the message.
func (l *NopLogger) Warn(_ string, _ ...any) {}

// Error discards the message.
func (l *NopLogger) Error(_ string, _ ...any) {}

// Fatal discards the message without exiting; a silent logger should not
// terminate the process.
func (l *NopLogger) Fatal(_ string, _ ...any) {}
