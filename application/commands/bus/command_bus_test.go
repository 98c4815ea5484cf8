package bus_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pursuit-backend/application/commands/bus"
)

// stubCommand is a minimal command with a failing validation path
type stubCommand struct {
	Title string
}

func (c *stubCommand) Validate() error {
	if c.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

// countingHandler records how often it was invoked
type countingHandler struct {
	calls int
}

func (h *countingHandler) Handle(ctx context.Context, cmd bus.Command) error {
	h.calls++
	return nil
}

// recordingLogger captures log calls for assertions
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	msg    string
	fields map[string]interface{}
}

func (l *recordingLogger) log(msg string, keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fields := make(map[string]interface{})
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, _ := keysAndValues[i].(string)
		fields[key] = keysAndValues[i+1]
	}
	l.entries = append(l.entries, logEntry{msg: msg, fields: fields})
}

func (l *recordingLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log(msg, keysAndValues...)
}

func (l *recordingLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log(msg, keysAndValues...)
}

func TestCommandBus_DispatchesToRegisteredHandler(t *testing.T) {
	// Arrange
	b := bus.NewCommandBus()
	handler := &countingHandler{}
	require.NoError(t, b.Register(&stubCommand{}, handler))

	// Act
	err := b.Send(context.Background(), &stubCommand{Title: "ship it"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, handler.calls)
}

func TestCommandBus_UnregisteredCommand(t *testing.T) {
	// Arrange
	b := bus.NewCommandBus()

	// Act
	err := b.Send(context.Background(), &stubCommand{Title: "orphan"})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, bus.ErrHandlerNotFound)
}

func TestValidationMiddleware_RejectsInvalidCommand(t *testing.T) {
	// Arrange
	handler := &countingHandler{}
	wrapped := bus.NewPipeline(bus.ValidationMiddleware()).Execute(handler)

	// Act
	err := wrapped.Handle(context.Background(), &stubCommand{})

	// Assert: the handler never ran and the sentinel is in the chain
	require.Error(t, err)
	assert.ErrorIs(t, err, bus.ErrValidationFailed)
	assert.Equal(t, 0, handler.calls)
}

func TestValidationMiddleware_PassesValidCommand(t *testing.T) {
	// Arrange
	handler := &countingHandler{}
	wrapped := bus.NewPipeline(bus.ValidationMiddleware()).Execute(handler)

	// Act
	err := wrapped.Handle(context.Background(), &stubCommand{Title: "ok"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, handler.calls)
}

func TestLoggingMiddleware_LogsPointerCommandTypeName(t *testing.T) {
	// Arrange: commands are registered and dispatched as pointers, so the
	// logged type must come from the element type, not the pointer
	logger := &recordingLogger{}
	handler := &countingHandler{}
	wrapped := bus.NewPipeline(bus.LoggingMiddleware(logger)).Execute(handler)

	// Act
	require.NoError(t, wrapped.Handle(context.Background(), &stubCommand{Title: "ok"}))

	// Assert
	require.NotEmpty(t, logger.entries)
	for _, entry := range logger.entries {
		assert.Equal(t, "stubCommand", entry.fields["type"])
	}
}
