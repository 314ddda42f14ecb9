package logger

import (
	"context"
	"fmt"
	"testing"
)

// mockLogLevel is a valid zapcore.Level value for testing.
const mockLogLevel int8 = 0 // zapcore.InfoLevel

func TestGetReturnsLoggerInstance(t *testing.T) {
	logger := Get(mockLogLevel)
	if logger == nil {
		t.Fatal("Get should return a non-nil logger")
	}
}

func TestGetReturnsSameInstanceOnSubsequentCalls(t *testing.T) {
	logger1 := Get(mockLogLevel)
	logger2 := Get(mockLogLevel)
	if logger1 != logger2 {
		t.Error("Get should return the same logger instance on subsequent calls")
	}
}

func TestGetReturnsNoopLoggerIfGlobalLoggerNil(t *testing.T) {
	// Save and restore globalLogrLogger for isolation
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	logger := Get(mockLogLevel)
	if logger == nil {
		t.Fatal("Get should return a logger (noop) if globalLogrLogger is nil")
	}
	if fmt.Sprintf("%T", logger) != "*logr.Logger" {
		t.Errorf("Get should return a logr.Logger type, got %T", logger)
	}
}

func TestWithLoggerAddsLoggerToContext(t *testing.T) {
	ctx := context.Background()
	logger := Get(mockLogLevel)
	newCtx := WithLogger(ctx, logger)

	got := newCtx.Value(loggerContextKey{})
	if got == nil {
		t.Fatal("WithLogger should add logger to context")
	}
	if got != logger {
		t.Error("WithLogger should store the provided logger in context")
	}
}

func TestWithLoggerReturnsSameContextIfLoggerAlreadySet(t *testing.T) {
	ctx := context.Background()
	logger := Get(mockLogLevel)
	ctx1 := WithLogger(ctx, logger)
	ctx2 := WithLogger(ctx1, logger)
	if ctx1 != ctx2 {
		t.Error("WithLogger should return the same context when the logger is unchanged")
	}
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	logger := Get(mockLogLevel)
	got := FromContext(context.Background())
	if got != logger {
		t.Error("FromContext should fall back to the global logger")
	}
}

func TestWithValuesReturnsNewLogger(t *testing.T) {
	logger := Get(mockLogLevel)
	augmented := WithValues(logger, "source", "test.csv")
	if augmented == nil {
		t.Fatal("WithValues should return a non-nil logger")
	}
	if augmented == logger {
		t.Error("WithValues should return a new logger instance")
	}
}
