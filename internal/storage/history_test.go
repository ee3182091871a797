package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestHistoryAppendCountPrune(t *testing.T) {
	t.Parallel()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"), time.Second)
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	defer h.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	entries := []struct {
		at   time.Time
		kind string
	}{
		{now.Add(-72 * time.Hour), DeliveryScheduled},
		{now.Add(-time.Hour), DeliveryScheduled},
		{now.Add(-time.Minute), DeliveryTest},
	}
	for _, e := range entries {
		if err := h.Append(ctx, e.at, 1, "08:00", e.kind); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	n, err := h.CountSince(ctx, now.Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("CountSince: %v", err)
	}
	if n != 2 {
		t.Fatalf("CountSince = %d, want 2", n)
	}

	pruned, err := h.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("Prune removed %d rows, want 1", pruned)
	}

	n, err = h.CountSince(ctx, now.Add(-100*time.Hour))
	if err != nil {
		t.Fatalf("CountSince after prune: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows after prune, got %d", n)
	}
}
