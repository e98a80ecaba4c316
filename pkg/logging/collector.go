// pkg/logging/collector.go
package logging

import (
	"sync"

	"go.uber.org/zap"
)

// Message is one user-visible progress or diagnostic entry accumulated
// during a transform run.
type Message struct {
	Level string `json:"level"`
	Text  string `json:"message"`
}

// Collector logs through zap and simultaneously buffers messages so the
// caller can return them with the transform response. One collector is
// created per request and passed explicitly into every processor; there is
// no process-wide buffer.
type Collector struct {
	logger *zap.Logger

	mu       sync.Mutex
	messages []Message
}

// NewCollector wraps the given logger. A nil logger is replaced with a
// no-op one so processors never need to nil-check.
func NewCollector(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{logger: logger}
}

// Logger exposes the underlying zap logger for fields-only logging that
// should not appear in the user-visible message buffer.
func (c *Collector) Logger() *zap.Logger {
	return c.logger
}

// Info records an informational message.
func (c *Collector) Info(text string, fields ...zap.Field) {
	c.logger.Info(text, fields...)
	c.append("info", text)
}

// Warn records a warning.
func (c *Collector) Warn(text string, fields ...zap.Field) {
	c.logger.Warn(text, fields...)
	c.append("warning", text)
}

// Error records an error message.
func (c *Collector) Error(text string, fields ...zap.Field) {
	c.logger.Error(text, fields...)
	c.append("error", text)
}

// Messages returns a copy of everything collected so far.
func (c *Collector) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Collector) append(level, text string) {
	c.mu.Lock()
	c.messages = append(c.messages, Message{Level: level, Text: text})
	c.mu.Unlock()
}
