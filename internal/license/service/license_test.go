package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"timeclock-control-plane/internal/duration"
	"timeclock-control-plane/internal/license/domain"
)

type memWindowRepo struct {
	mu sync.Mutex
	m  map[string]*domain.Window
}

func newMemWindowRepo() *memWindowRepo {
	return &memWindowRepo{m: make(map[string]*domain.Window)}
}

func (r *memWindowRepo) Get(ctx context.Context, orgID string) (*domain.Window, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.m[orgID]
	if !ok {
		return nil, nil
	}
	w2 := *w
	return &w2, nil
}

func (r *memWindowRepo) Upsert(ctx context.Context, w *domain.Window) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w2 := *w
	r.m[w.OrgID] = &w2
	return nil
}

func (r *memWindowRepo) Deactivate(ctx context.Context, orgID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.m[orgID]; ok {
		w.Active = false
	}
	return nil
}

func (r *memWindowRepo) ListActiveBounded(ctx context.Context) ([]*domain.Window, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Window
	for _, w := range r.m {
		if w.Active && w.Span.IsBounded() {
			w2 := *w
			out = append(out, &w2)
		}
	}
	return out, nil
}

func newTestService(now time.Time) (*Service, *memWindowRepo) {
	repo := newMemWindowRepo()
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestGet_MaterializesDefaultWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	svc, repo := newTestService(now)
	ctx := context.Background()

	w, err := svc.Get(ctx, "org1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !w.Active || w.Span.IsBounded() || !w.WindowStart.Equal(now) {
		t.Errorf("default window = %+v, want active unbounded starting now", w)
	}
	// Default is persisted, not just returned.
	stored, _ := repo.Get(ctx, "org1")
	if stored == nil {
		t.Fatal("default window was not persisted")
	}
}

func TestSetAbsolute_ThenRemainingAndGating(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	svc, _ := newTestService(now)
	ctx := context.Background()

	w, err := svc.SetAbsolute(ctx, "org1", duration.Parse("30d"))
	if err != nil {
		t.Fatalf("SetAbsolute: %v", err)
	}
	left, ok := w.RemainingMs(now)
	if !ok || left != 30*duration.Day {
		t.Errorf("RemainingMs = %d, %v; want %d, true", left, ok, 30*duration.Day)
	}

	gated, err := svc.IsGated(ctx, "org1")
	if err != nil {
		t.Fatalf("IsGated: %v", err)
	}
	if gated {
		t.Error("fresh 30d window should not be gated")
	}
}

func TestSetRelative_ClampsAndConverts(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	svc, _ := newTestService(now)
	ctx := context.Background()

	// First access materializes unbounded; +delta converts to bounded delta.
	w, err := svc.SetRelative(ctx, "org1", duration.Hour)
	if err != nil {
		t.Fatalf("SetRelative: %v", err)
	}
	if ms, ok := w.Span.Millis(); !ok || ms != duration.Hour {
		t.Errorf("Span = %d, %v; want %d, true", ms, ok, duration.Hour)
	}

	// Large negative delta clamps at zero, never negative.
	w, err = svc.SetRelative(ctx, "org1", -999999999999)
	if err != nil {
		t.Fatalf("SetRelative negative: %v", err)
	}
	if ms, ok := w.Span.Millis(); !ok || ms != 0 {
		t.Errorf("Span after negative = %d, %v; want 0, true", ms, ok)
	}
	if left, ok := w.RemainingMs(now); !ok || left != 0 {
		t.Errorf("RemainingMs = %d, %v; want 0, true", left, ok)
	}
}

func TestIsGated_DeactivatesExpiredWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	svc, repo := newTestService(now)
	ctx := context.Background()

	repo.Upsert(ctx, &domain.Window{
		OrgID:       "org1",
		Active:      true,
		WindowStart: now.Add(-2 * time.Second),
		Span:        domain.Bounded(1000),
	})

	gated, err := svc.IsGated(ctx, "org1")
	if err != nil {
		t.Fatalf("IsGated: %v", err)
	}
	if !gated {
		t.Error("expired window should be gated")
	}
	stored, _ := repo.Get(ctx, "org1")
	if stored.Active {
		t.Error("expired window should have been deactivated")
	}
}

func TestDeactivate_KeepsWindowValues(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	svc, repo := newTestService(now)
	ctx := context.Background()

	if _, err := svc.SetAbsolute(ctx, "org1", duration.Day); err != nil {
		t.Fatalf("SetAbsolute: %v", err)
	}
	if err := svc.Deactivate(ctx, "org1"); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	stored, _ := repo.Get(ctx, "org1")
	if stored.Active {
		t.Error("window should be inactive")
	}
	if ms, ok := stored.Span.Millis(); !ok || ms != duration.Day {
		t.Errorf("Span = %d, %v; want %d, true (values kept)", ms, ok, duration.Day)
	}

	gated, err := svc.IsGated(ctx, "org1")
	if err != nil {
		t.Fatalf("IsGated: %v", err)
	}
	if !gated {
		t.Error("deactivated org should be gated")
	}
}
