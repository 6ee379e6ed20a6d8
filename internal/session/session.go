// Package session holds the shell's per-browser state: the backend tokens of
// the signed-in account, its loaded profile and the idea picked in the NDA
// modal. Each browser gets one Session, keyed by an opaque id.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/domain"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID           string          `json:"id"`
	AccessToken  string          `json:"access_token,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time       `json:"expires_at,omitempty"`
	AccountID    string          `json:"account_id,omitempty"`
	Email        string          `json:"email,omitempty"`
	Profile      *domain.Profile `json:"profile,omitempty"`
	// PendingIdeaID is the idea the NDA modal was opened for.
	PendingIdeaID string    `json:"pending_idea_id,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func New() *Session {
	return &Session{ID: uuid.NewString(), UpdatedAt: time.Now()}
}

func (s *Session) SignedIn() bool {
	return s != nil && s.AccessToken != "" && s.AccountID != ""
}

// Adopt copies a backend session into s.
func (s *Session) Adopt(b *backend.Session) {
	if b == nil {
		return
	}
	s.AccessToken = b.AccessToken
	if b.RefreshToken != "" {
		s.RefreshToken = b.RefreshToken
	}
	s.ExpiresAt = b.ExpiresAt
	s.AccountID = b.Account.ID
	s.Email = b.Account.Email
}

// Clear forgets everything but the id.
func (s *Session) Clear() {
	*s = Session{ID: s.ID, UpdatedAt: time.Now()}
}

// Context attaches the session's access token for backend calls.
func (s *Session) Context(ctx context.Context) context.Context {
	if s == nil || s.AccessToken == "" {
		return ctx
	}
	return backend.WithAccessToken(ctx, s.AccessToken)
}

// Blank reports whether s carries nothing worth persisting.
func (s *Session) Blank() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && s.AccountID == "" &&
		s.Profile == nil && s.PendingIdeaID == ""
}

func (s *Session) IsAdmin() bool { return s != nil && s.Profile != nil && s.Profile.IsAdmin }

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	return &out
}

type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
