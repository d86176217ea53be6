package logger

import (
	"fmt"
	"strings"
	"sync"
)

// TestLogger is a Logger implementation for tests that captures all messages
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
	fields   map[string]interface{}
}

// LogMessage represents a captured log message
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

func (l *TestLogger) log(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	l.messages = append(l.messages, LogMessage{Level: level, Message: msg, Fields: merged})
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil) }
func (l *TestLogger) Fatal(msg string) { l.log("FATAL", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

// WithField returns a logger that records the field on every message.
// The captured message list is shared with the parent.
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &chainedTestLogger{parent: l, fields: merged}
}

func (l *TestLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

// GetMessages returns all captured log messages
func (l *TestLogger) GetMessages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	messages := make([]LogMessage, len(l.messages))
	copy(messages, l.messages)
	return messages
}

// GetMessagesByLevel returns all messages of a specific level
func (l *TestLogger) GetMessagesByLevel(level string) []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	var filtered []LogMessage
	for _, msg := range l.messages {
		if msg.Level == level {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// HasMessage checks if a message containing the given text was logged
func (l *TestLogger) HasMessage(text string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, msg := range l.messages {
		if strings.Contains(msg.Message, text) {
			return true
		}
	}
	return false
}

// Clear clears all captured messages
func (l *TestLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = l.messages[:0]
}

// String renders all captured messages, for debugging failed tests
func (l *TestLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder
	for _, msg := range l.messages {
		fmt.Fprintf(&b, "[%s] %s", msg.Level, msg.Message)
		if len(msg.Fields) > 0 {
			fmt.Fprintf(&b, " fields=%v", msg.Fields)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// chainedTestLogger routes messages back to the root TestLogger while
// carrying accumulated fields.
type chainedTestLogger struct {
	parent *TestLogger
	fields map[string]interface{}
}

func (c *chainedTestLogger) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	c.parent.log(level, msg, merged)
}

func (c *chainedTestLogger) Debug(msg string) { c.log("DEBUG", msg, nil) }
func (c *chainedTestLogger) Info(msg string)  { c.log("INFO", msg, nil) }
func (c *chainedTestLogger) Warn(msg string)  { c.log("WARN", msg, nil) }
func (c *chainedTestLogger) Error(msg string) { c.log("ERROR", msg, nil) }
func (c *chainedTestLogger) Fatal(msg string) { c.log("FATAL", msg, nil) }

func (c *chainedTestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	c.log("DEBUG", msg, fields)
}

func (c *chainedTestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	c.log("INFO", msg, fields)
}

func (c *chainedTestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	c.log("WARN", msg, fields)
}

func (c *chainedTestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	c.log("ERROR", msg, fields)
}

func (c *chainedTestLogger) WithField(key string, value interface{}) Logger {
	return c.WithFields(map[string]interface{}{key: value})
}

func (c *chainedTestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &chainedTestLogger{parent: c.parent, fields: merged}
}

func (c *chainedTestLogger) WithError(err error) Logger {
	if err == nil {
		return c
	}
	return c.WithField("error", err.Error())
}
