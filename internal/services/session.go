package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/domain"
	"github.com/yungbote/pitchbridge/internal/platform/apierr"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
	"github.com/yungbote/pitchbridge/internal/session"
)

const (
	minPasswordLength = 6

	MsgMissingFields      = "Please fill in all fields."
	MsgMissingRole        = "Please select your role."
	MsgWeakPassword       = "Password must be at least 6 characters."
	MsgMissingCredentials = "Please enter your email and password."
	NoticeLoggedOut       = "👋 Logged out. See you soon!"

	ViewLanding = "landing"
	ViewApp     = "app"
)

type SignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// EntryView is everything the app view needs right after sign-in.
type EntryView struct {
	View         string              `json:"view"`
	Profile      *domain.Profile     `json:"profile"`
	DisplayName  string              `json:"display_name"`
	Initials     string              `json:"initials"`
	AvatarColor  string              `json:"avatar_color"`
	RoleBadge    string              `json:"role_badge"`
	Capabilities domain.Capabilities `json:"capabilities"`
	Notice       string              `json:"notice"`
	Feed         *FeedView           `json:"feed"`
	Sidebar      *InvestorList       `json:"sidebar"`
}

type SignOutView struct {
	View   string `json:"view"`
	Notice string `json:"notice"`
}

type SessionService interface {
	SignUp(ctx context.Context, sess *session.Session, in SignUpInput) (*EntryView, error)
	SignIn(ctx context.Context, sess *session.Session, email, password string) (*EntryView, error)
	SignOut(ctx context.Context, sess *session.Session) *SignOutView
	// Restore re-enters the app from a stored session. A nil view means the
	// landing page.
	Restore(ctx context.Context, sess *session.Session) (*EntryView, error)
	Enter(ctx context.Context, sess *session.Session) *EntryView
}

type sessionService struct {
	log       *logger.Logger
	client    backend.Client
	feed      FeedService
	directory DirectoryService
	pickColor func() string
}

func NewSessionService(log *logger.Logger, client backend.Client, feed FeedService, directory DirectoryService) SessionService {
	return &sessionService{
		log:       log.With("service", "SessionService"),
		client:    client,
		feed:      feed,
		directory: directory,
		pickColor: randomPaletteColor,
	}
}

func randomPaletteColor() string {
	return domain.AvatarPalette[rand.IntN(len(domain.AvatarPalette))]
}

func (ss *sessionService) SignUp(ctx context.Context, sess *session.Session, in SignUpInput) (*EntryView, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	password := in.Password

	if name == "" || email == "" || password == "" {
		return nil, formError(SignUpLabel, apierr.Invalid("missing_fields", MsgMissingFields))
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return nil, formError(SignUpLabel, apierr.Invalid("missing_role", MsgMissingRole))
	}
	if len([]rune(password)) < minPasswordLength {
		return nil, formError(SignUpLabel, apierr.Invalid("weak_password", MsgWeakPassword))
	}

	res, err := ss.client.SignUp(ctx, email, password)
	if err != nil {
		ss.log.Warn("Sign-up rejected", "error", err)
		return nil, formError(SignUpLabel, remote(http.StatusBadRequest, "signup_failed", err))
	}
	sess.Clear()
	sess.AccountID = res.Account.ID
	sess.Email = res.Account.Email
	sess.Adopt(res.Session)

	row := map[string]any{
		"id":           res.Account.ID,
		"full_name":    name,
		"email":        strings.ToLower(email),
		"role":         string(role),
		"is_admin":     false,
		"is_verified":  false,
		"avatar_color": ss.pickColor(),
	}
	if err := ss.client.Insert(sess.Context(ctx), domain.TableProfiles, row); err != nil {
		ss.log.Warn("Profile insert failed", "account_id", res.Account.ID, "error", err)
		sess.Clear()
		return nil, formError(SignUpLabel, remote(http.StatusBadRequest, "profile_failed", err))
	}
	ss.log.Info("Account signed up", "account_id", res.Account.ID, "role", role)
	return ss.Enter(ctx, sess), nil
}

func (ss *sessionService) SignIn(ctx context.Context, sess *session.Session, email, password string) (*EntryView, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, formError(SignInLabel, apierr.Invalid("missing_credentials", MsgMissingCredentials))
	}
	res, err := ss.client.SignIn(ctx, email, password)
	if err != nil {
		ss.log.Info("Sign-in rejected", "error", err)
		return nil, formError(SignInLabel, remote(http.StatusBadRequest, "signin_failed", err))
	}
	sess.Clear()
	sess.AccountID = res.Account.ID
	sess.Email = res.Account.Email
	sess.Adopt(res.Session)
	return ss.Enter(ctx, sess), nil
}

// SignOut always succeeds for the caller; remote invalidation is best effort.
func (ss *sessionService) SignOut(ctx context.Context, sess *session.Session) *SignOutView {
	if sess.AccessToken != "" {
		if err := ss.client.SignOut(ctx, sess.AccessToken); err != nil {
			ss.log.Warn("Remote sign-out failed", "account_id", sess.AccountID, "error", err)
		}
	}
	sess.Clear()
	return &SignOutView{View: ViewLanding, Notice: NoticeLoggedOut}
}

func (ss *sessionService) Restore(ctx context.Context, sess *session.Session) (*EntryView, error) {
	if !sess.SignedIn() {
		return nil, nil
	}
	live, err := ss.client.GetSession(ctx, sess.AccessToken)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		live, err = ss.refresh(ctx, sess, err)
		if err != nil {
			return nil, nil
		}
	}
	sess.Adopt(live)
	return ss.Enter(ctx, sess), nil
}

func (ss *sessionService) refresh(ctx context.Context, sess *session.Session, cause error) (*backend.Session, error) {
	if sess.RefreshToken == "" {
		ss.log.Info("Stored session is no longer live", "account_id", sess.AccountID, "error", cause)
		sess.Clear()
		return nil, cause
	}
	live, err := ss.client.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		ss.log.Info("Session refresh failed", "account_id", sess.AccountID, "error", err)
		sess.Clear()
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return live, nil
}

// Enter loads the profile and builds the app view. A missing profile still
// enters, with the defaults for name and colour.
func (ss *sessionService) Enter(ctx context.Context, sess *session.Session) *EntryView {
	sess.Profile = nil
	if sess.AccountID != "" {
		p, err := backend.One[domain.Profile](sess.Context(ctx), ss.client,
			backend.From(domain.TableProfiles).Where(backend.Eq("id", sess.AccountID)))
		if err != nil {
			ss.log.Warn("Profile load failed", "account_id", sess.AccountID, "error", err)
		} else {
			sess.Profile = p
		}
	}

	name := sess.Profile.DisplayName("User")
	view := &EntryView{
		View:         ViewApp,
		Profile:      sess.Profile,
		DisplayName:  name,
		Initials:     domain.Initials(name),
		AvatarColor:  sess.Profile.Color(),
		Capabilities: domain.CapabilitiesFor(sess.Profile),
		Notice:       fmt.Sprintf("👋 Welcome back, %s!", domain.FirstName(name)),
	}
	if sess.Profile != nil {
		view.RoleBadge = sess.Profile.Role.Badge()
	}
	view.Feed = ss.feed.ListFeed(ctx, sess)
	view.Sidebar = ss.directory.Sidebar(ctx, sess)
	return view
}
