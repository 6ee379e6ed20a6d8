package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/domain"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
)

func signedIn() *Session {
	s := New()
	s.Adopt(&backend.Session{
		AccessToken:  "at",
		RefreshToken: "rt",
		Account:      backend.Account{ID: "acct-1", Email: "a@b.co"},
	})
	s.Profile = &domain.Profile{ID: "acct-1", FullName: "Ada Lovelace", Role: domain.RoleInvestor}
	return s
}

func TestAdoptAndClear(t *testing.T) {
	s := signedIn()
	if !s.SignedIn() {
		t.Fatalf("expected signed in")
	}
	if got := backend.AccessToken(s.Context(context.Background())); got != "at" {
		t.Fatalf("context token %q", got)
	}
	id := s.ID
	s.PendingIdeaID = "idea-1"
	s.Clear()
	if s.SignedIn() || s.Profile != nil || s.PendingIdeaID != "" {
		t.Fatalf("clear left state behind: %+v", s)
	}
	if s.ID != id {
		t.Fatalf("clear must keep the id")
	}
	if got := backend.AccessToken(s.Context(context.Background())); got != "" {
		t.Fatalf("cleared session leaked token %q", got)
	}
}

func TestAdoptKeepsRefreshTokenWhenMissing(t *testing.T) {
	s := signedIn()
	s.Adopt(&backend.Session{AccessToken: "at2", Account: backend.Account{ID: "acct-1"}})
	if s.RefreshToken != "rt" || s.AccessToken != "at2" {
		t.Fatalf("got %+v", s)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	s := signedIn()
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// mutations after save are not visible until saved again
	s.Profile.FullName = "changed"

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Profile.FullName != "Ada Lovelace" || got.AccessToken != "at" {
		t.Fatalf("got %+v", got)
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s := New()
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	now = now.Add(30 * time.Second)
	if _, err := store.Get(ctx, s.ID); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expired entry should be dropped")
	}
}

func TestMemoryStoreSweepsOnSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		if err := store.Save(ctx, signedIn()); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	now = now.Add(2 * time.Minute)
	fresh := signedIn()
	if err := store.Save(ctx, fresh); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n := store.Len(); n != 1 {
		t.Fatalf("stored sessions = %d, want 1", n)
	}
	if _, err := store.Get(ctx, fresh.ID); err != nil {
		t.Fatalf("live session dropped: %v", err)
	}
}

func TestBlank(t *testing.T) {
	tests := []struct {
		name string
		sess *Session
		want bool
	}{
		{"new", New(), true},
		{"signed in", signedIn(), false},
		{"pending idea", &Session{ID: "x", PendingIdeaID: "idea-1"}, false},
	}
	for _, tt := range tests {
		if got := tt.sess.Blank(); got != tt.want {
			t.Errorf("%s: Blank() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	ctx := context.Background()
	store, err := NewRedisStore(logger.Nop(), addr, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer store.Close()

	s := signedIn()
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.AccountID != "acct-1" || got.Profile == nil || got.Profile.Role != domain.RoleInvestor {
		t.Fatalf("got %+v", got)
	}
	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
