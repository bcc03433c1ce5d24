package memfree

import (
	"context"
	"testing"
)

func TestReclaimBasic(t *testing.T) {
	result, err := Reclaim(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Reclaim() error = %v", err)
	}

	if result.Mode != ModeBasic && result.Mode != ModeFull {
		t.Errorf("Mode = %q, want basic or full", result.Mode)
	}

	if result.AvailableBefore == 0 {
		t.Error("AvailableBefore = 0, want a real measurement")
	}
	if result.AvailableAfter == 0 {
		t.Error("AvailableAfter = 0, want a real measurement")
	}

	// Freed is a clamped delta, never underflowing.
	if result.AvailableAfter <= result.AvailableBefore && result.Freed != 0 {
		t.Errorf("Freed = %d with non-positive delta", result.Freed)
	}

	if result.Elapsed <= 0 {
		t.Error("Elapsed not recorded")
	}
}

func TestReclaimCancelled(t *testing.T) {
	if canDropCaches() {
		t.Skip("cache drop path ignores cancellation after sync")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Measurement via gopsutil does not consult ctx deadline on all
	// platforms, so a cancelled context may still succeed; the call
	// must not panic or hang.
	_, _ = Reclaim(ctx, Options{Aggressive: true})
}
