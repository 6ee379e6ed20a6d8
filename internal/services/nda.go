package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/domain"
	"github.com/yungbote/pitchbridge/internal/platform/apierr"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
	"github.com/yungbote/pitchbridge/internal/session"
)

const (
	NoticeOwnIdea     = "⚠️ This is your own idea!"
	NoticeAgreeNDA    = "⚠️ Please agree to the NDA first"
	NoticeRequestSent = "✅ Request sent! Admin will schedule your call within 24h."
)

type ModalState struct {
	Open         bool   `json:"open"`
	IdeaID       string `json:"idea_id,omitempty"`
	Acknowledged bool   `json:"acknowledged"`
}

type ConfirmResult struct {
	Notice string     `json:"notice"`
	Modal  ModalState `json:"modal"`
}

type NDAService interface {
	OpenModal(ctx context.Context, sess *session.Session, ideaID, ownerID string) (*ModalState, error)
	Confirm(ctx context.Context, sess *session.Session, acknowledged bool) (*ConfirmResult, error)
	CloseModal(ctx context.Context, sess *session.Session) *ModalState
}

type ndaService struct {
	log    *logger.Logger
	tables backend.Tables
}

func NewNDAService(log *logger.Logger, tables backend.Tables) NDAService {
	return &ndaService{log: log.With("service", "NDAService"), tables: tables}
}

// OpenModal selects ideaID for an access request. The stored owner of the idea
// decides the own-idea refusal; ownerID from the caller only short-circuits it.
func (ns *ndaService) OpenModal(ctx context.Context, sess *session.Session, ideaID, ownerID string) (*ModalState, error) {
	if !sess.SignedIn() {
		return nil, errNotSignedIn
	}
	if ownerID != "" && ownerID == sess.AccountID {
		return nil, apierr.Forbidden("own_idea", NoticeOwnIdea)
	}
	ideaID = strings.TrimSpace(ideaID)
	if ideaID == "" {
		return nil, apierr.Invalid("missing_idea", "Idea id is required.")
	}
	idea, err := backend.One[domain.Idea](sess.Context(ctx), ns.tables,
		backend.From(domain.TableIdeas).Where(backend.Eq("id", ideaID)))
	if err != nil {
		if backend.IsNoRows(err) {
			return nil, apierr.New(http.StatusNotFound, "idea_not_found", errors.New("Idea not found."))
		}
		ns.log.Warn("idea owner lookup failed", "idea_id", ideaID, "error", err)
		return nil, remote(http.StatusBadGateway, "nda_failed", err)
	}
	if idea.UserID == sess.AccountID {
		return nil, apierr.Forbidden("own_idea", NoticeOwnIdea)
	}
	sess.PendingIdeaID = ideaID
	return &ModalState{Open: true, IdeaID: ideaID, Acknowledged: false}, nil
}

// Confirm files the NDA request for the idea the modal was opened on.
func (ns *ndaService) Confirm(ctx context.Context, sess *session.Session, acknowledged bool) (*ConfirmResult, error) {
	if !sess.SignedIn() {
		return nil, errNotSignedIn
	}
	if !acknowledged {
		return nil, apierr.Invalid("nda_not_acknowledged", NoticeAgreeNDA)
	}
	if sess.PendingIdeaID == "" {
		return nil, apierr.Invalid("no_idea_selected", "Open an idea before requesting access.")
	}
	row := map[string]any{
		"idea_id":     sess.PendingIdeaID,
		"investor_id": sess.AccountID,
		"status":      string(domain.StatusPending),
	}
	if err := ns.tables.Insert(sess.Context(ctx), domain.TableNdaRequests, row); err != nil {
		ns.log.Warn("NDA request insert failed", "idea_id", sess.PendingIdeaID, "error", err)
		return nil, remote(http.StatusBadGateway, "nda_failed", err)
	}
	sess.PendingIdeaID = ""
	return &ConfirmResult{Notice: NoticeRequestSent, Modal: ModalState{}}, nil
}

func (ns *ndaService) CloseModal(ctx context.Context, sess *session.Session) *ModalState {
	sess.PendingIdeaID = ""
	return &ModalState{}
}
