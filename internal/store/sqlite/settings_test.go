package sqlite

import (
	"context"
	"testing"

	"github.com/HO1806/reeltrack/internal/domain"
)

func TestGetSettings_Defaults(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got != domain.DefaultSettings() {
		t.Errorf("got %+v, want defaults", got)
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := domain.Settings{
		ShowPosters:     false,
		DefaultSort:     domain.SortTitle,
		BestStreak:      12,
		CurrentStreak:   4,
		LastWatchedDate: "2026-02-28",
	}
	if err := s.SaveSettings(ctx, want); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	want.CurrentStreak = 5
	if err := s.SaveSettings(ctx, want); err != nil {
		t.Fatalf("SaveSettings (update): %v", err)
	}

	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestSaveSettings_EmptyLastWatched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveSettings(ctx, domain.DefaultSettings()); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got.LastWatchedDate != "" {
		t.Errorf("LastWatchedDate: got %q, want empty", got.LastWatchedDate)
	}
}
