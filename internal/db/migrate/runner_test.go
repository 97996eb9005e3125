package migrate

import (
	"errors"
	"strings"
	"testing"
)

func TestRun_EmptyDSN(t *testing.T) {
	err := Run("", "up")
	if err == nil {
		t.Fatal("Run with empty DSN should return error")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("error = %q, should mention DATABASE_URL", err.Error())
	}
}

func TestRun_InvalidDirection(t *testing.T) {
	for _, direction := range []string{"", "sideways", "UP", "Down"} {
		err := Run("postgres://localhost/test", direction)
		if err == nil {
			t.Errorf("Run with direction %q should return error", direction)
			continue
		}
		if !strings.Contains(err.Error(), "direction") {
			t.Errorf("direction %q: error = %q, should mention direction", direction, err.Error())
		}
	}
}

func TestRun_ValidDirectionReachesDatabase(t *testing.T) {
	// Both directions pass validation; the connection attempt then fails,
	// and that failure must not be a direction error.
	for _, direction := range []string{"up", "down"} {
		err := Run("postgres://localhost/nonexistent", direction)
		if err != nil && strings.Contains(err.Error(), "direction") {
			t.Errorf("direction %q should be accepted, got %q", direction, err.Error())
		}
	}
}

func TestRun_NeverReturnsErrNoChange(t *testing.T) {
	// ErrNoChange means "already at target"; Run treats it as success.
	err := Run("postgres://localhost/test", "up")
	if err != nil && errors.Is(err, ErrNoChange) {
		t.Error("Run should swallow ErrNoChange and return nil")
	}
}
