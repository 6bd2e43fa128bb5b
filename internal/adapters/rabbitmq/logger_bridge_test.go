package rabbitmq_adapter

import (
	"errors"
	"farmboard/internal/core/port"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bridgedEntry struct {
	level  string
	msg    string
	err    error
	fields port.Fields
}

type captureLogger struct {
	entries []bridgedEntry
}

func (c *captureLogger) Info(msg string, f port.Fields)            { c.add("info", msg, nil, f) }
func (c *captureLogger) Warn(msg string, f port.Fields)            { c.add("warn", msg, nil, f) }
func (c *captureLogger) Debug(msg string, f port.Fields)           { c.add("debug", msg, nil, f) }
func (c *captureLogger) Error(msg string, err error, f port.Fields) { c.add("error", msg, err, f) }
func (c *captureLogger) WithFields(port.Fields) port.LoggerPort    { return c }

func (c *captureLogger) add(level, msg string, err error, f port.Fields) {
	c.entries = append(c.entries, bridgedEntry{level: level, msg: msg, err: err, fields: f})
}

func TestPkgLoggerBridge_SplitsComponentPrefix(t *testing.T) {
	capture := &captureLogger{}
	bridge := NewPkgLoggerBridge(capture)

	bridge.Warn("ConnectionManager: detected closed connection, reconnecting")
	bridge.Info("Producer closed")

	require.Len(t, capture.entries, 2)
	assert.Equal(t, "detected closed connection, reconnecting", capture.entries[0].msg)
	assert.Equal(t, "ConnectionManager", capture.entries[0].fields["rabbit_component"])
	assert.Equal(t, "Producer closed", capture.entries[1].msg)
	assert.NotContains(t, capture.entries[1].fields, "rabbit_component")
}

func TestPkgLoggerBridge_NormalizesValues(t *testing.T) {
	capture := &captureLogger{}
	bridge := NewPkgLoggerBridge(capture)
	cause := errors.New("channel closed")

	bridge.Error(cause, "Publish failed",
		"exchange", "feed_exchange",
		"retry_in", 5*time.Second,
		"cause", cause,
		42, "numeric key",
		"dangling",
	)

	require.Len(t, capture.entries, 1)
	e := capture.entries[0]
	assert.Equal(t, "error", e.level)
	assert.ErrorIs(t, e.err, cause)
	assert.Equal(t, port.Fields{
		"exchange":       "feed_exchange",
		"retry_in":       "5s",
		"cause":          "channel closed",
		"42":             "numeric key",
		danglingValueKey: "dangling",
	}, e.fields)
}
