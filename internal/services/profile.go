package services

import (
	"context"

	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/domain"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
	"github.com/yungbote/pitchbridge/internal/session"
)

const OwnIdeasEmpty = "No ideas posted yet. Share your first idea!"

type OwnIdeasView struct {
	Count int               `json:"count"`
	Ideas []domain.IdeaCard `json:"ideas"`
	Empty string            `json:"empty,omitempty"`
}

type ProfileService interface {
	ListOwnIdeas(ctx context.Context, sess *session.Session) *OwnIdeasView
}

type profileService struct {
	log    *logger.Logger
	tables backend.Tables
}

func NewProfileService(log *logger.Logger, tables backend.Tables) ProfileService {
	return &profileService{log: log.With("service", "ProfileService"), tables: tables}
}

// ListOwnIdeas renders the viewer's ideas with the viewer's own profile as owner.
func (ps *profileService) ListOwnIdeas(ctx context.Context, sess *session.Session) *OwnIdeasView {
	view := &OwnIdeasView{Ideas: []domain.IdeaCard{}}
	if sess.SignedIn() {
		q := backend.From(domain.TableIdeas).
			Where(backend.Eq("user_id", sess.AccountID)).
			OrderBy("created_at", true).
			OrderBy("id", true)
		var ideas []domain.Idea
		if err := ps.tables.Select(sess.Context(ctx), q, &ideas); err != nil {
			ps.log.Warn("Own ideas read failed", "account_id", sess.AccountID, "error", err)
		} else {
			owner := ownerOf(sess.Profile)
			for i := range ideas {
				ideas[i].Owner = owner
			}
			view.Ideas = domain.NewIdeaCards(ideas, sess.Profile)
		}
	}
	view.Count = len(view.Ideas)
	if view.Count == 0 {
		view.Empty = OwnIdeasEmpty
	}
	return view
}

func ownerOf(p *domain.Profile) *domain.Owner {
	if p == nil {
		return &domain.Owner{}
	}
	return &domain.Owner{FullName: p.FullName, Role: p.Role, AvatarColor: p.AvatarColor}
}
