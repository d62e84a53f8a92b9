package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.info)
	assert.NotNil(t, logger.warn)
	assert.NotNil(t, logger.error)
}

func TestLevels(t *testing.T) {
	logger := New()

	// None of the levels should panic
	logger.Info("upload finished: %s", "ok")
	logger.Warn("sweep degraded: %s", "reviews")
	logger.Error("store write failed: %v", assert.AnError)
}

func TestLogger_Formatting(t *testing.T) {
	logger := New()

	// Formatting with multiple args must not panic
	logger.Info("listing %s created by %s", "abc123", "user-1")
	logger.Error("failed to delete %d of %d dependents", 1, 3)
	logger.Warn("payment record for %s left stale", "PAY-42")
}
