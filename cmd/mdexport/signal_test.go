package main

// Notes:
// - notifyContext: only the observable behavior is tested (context
//   creation, cancellation via stop(), parent propagation). Actual OS
//   signal delivery is non-deterministic and needs platform-specific
//   setup, so it is not simulated here.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"testing"
)

// ---------------------------------------------------------------------------
// TestNotifyContext - Context creation and cancellation behavior
// ---------------------------------------------------------------------------

func TestNotifyContext(t *testing.T) {
	t.Parallel()

	t.Run("returns non-nil context", func(t *testing.T) {
		t.Parallel()

		ctx, stop := notifyContext(context.Background())
		defer stop()

		if ctx == nil {
			t.Fatal("expected non-nil context")
		}
	})

	t.Run("context starts not cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, stop := notifyContext(context.Background())
		defer stop()

		select {
		case <-ctx.Done():
			t.Fatal("context cancelled before any signal or stop")
		default:
		}
	})

	t.Run("stop cancels the context", func(t *testing.T) {
		t.Parallel()

		ctx, stop := notifyContext(context.Background())
		stop()

		select {
		case <-ctx.Done():
		default:
			t.Fatal("context still live after stop()")
		}
	})

	t.Run("inherits parent cancellation", func(t *testing.T) {
		t.Parallel()

		parent, cancel := context.WithCancel(context.Background())
		ctx, stop := notifyContext(parent)
		defer stop()

		cancel()

		select {
		case <-ctx.Done():
		default:
			t.Fatal("child context still live after parent cancellation")
		}
	})
}
