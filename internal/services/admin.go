package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/domain"
	"github.com/yungbote/pitchbridge/internal/platform/apierr"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
	"github.com/yungbote/pitchbridge/internal/session"
)

const (
	NoPendingVerifications = "No pending verifications."
	NoPendingRequests      = "No pending connect requests."
)

var partyEmbeds = []backend.Embed{
	{Alias: "from", Table: domain.TableProfiles, ForeignKey: "from_user_id", Columns: []string{"full_name"}},
	{Alias: "to", Table: domain.TableProfiles, ForeignKey: "to_user_id", Columns: []string{"full_name"}},
}

type Dashboard struct {
	IdeaCount          int64                        `json:"idea_count"`
	UserCount          int64                        `json:"user_count"`
	PendingCount       int                          `json:"pending_count"`
	RequestCount       int                          `json:"request_count"`
	Verifications      []domain.PendingVerification `json:"verifications"`
	Requests           []domain.PendingRequest      `json:"requests"`
	VerificationsEmpty string                       `json:"verifications_empty,omitempty"`
	RequestsEmpty      string                       `json:"requests_empty,omitempty"`
}

type AdminResult struct {
	Notice    string     `json:"notice"`
	Dashboard *Dashboard `json:"dashboard"`
}

type AdminService interface {
	LoadDashboard(ctx context.Context, sess *session.Session) *Dashboard
	ApproveInvestor(ctx context.Context, sess *session.Session, profileID, name string) (*AdminResult, error)
	// DenyInvestor only reports the decision; nothing is written.
	DenyInvestor(ctx context.Context, sess *session.Session, profileID, name string) *AdminResult
	ScheduleCall(ctx context.Context, sess *session.Session, requestID, from, to string) (*AdminResult, error)
}

type adminService struct {
	log    *logger.Logger
	tables backend.Tables
}

func NewAdminService(log *logger.Logger, tables backend.Tables) AdminService {
	return &adminService{log: log.With("service", "AdminService"), tables: tables}
}

// LoadDashboard runs its four reads concurrently. A failed read leaves its own
// section zero or empty and never cancels the others.
func (as *adminService) LoadDashboard(ctx context.Context, sess *session.Session) *Dashboard {
	ctx = sess.Context(ctx)
	var (
		g        errgroup.Group
		ideas    int64
		users    int64
		pending  []domain.Profile
		requests []domain.ConnectRequest
	)

	g.Go(func() error {
		n, err := as.tables.Count(ctx, domain.TableIdeas)
		if err != nil {
			as.log.Warn("Dashboard idea count failed", "error", err)
			return nil
		}
		ideas = n
		return nil
	})
	g.Go(func() error {
		n, err := as.tables.Count(ctx, domain.TableProfiles)
		if err != nil {
			as.log.Warn("Dashboard profile count failed", "error", err)
			return nil
		}
		users = n
		return nil
	})
	g.Go(func() error {
		q := backend.From(domain.TableProfiles).Where(
			backend.In("role", domain.InvestorRoles...),
			backend.Eq("is_verified", false),
		)
		var rows []domain.Profile
		if err := as.tables.Select(ctx, q, &rows); err != nil {
			as.log.Warn("Dashboard pending verifications failed", "error", err)
			return nil
		}
		pending = rows
		return nil
	})
	g.Go(func() error {
		q := backend.From(domain.TableConnectRequests).Where(backend.Eq("status", string(domain.StatusPending)))
		for _, e := range partyEmbeds {
			q = q.Embed(e)
		}
		var rows []domain.ConnectRequest
		if err := as.tables.Select(ctx, q, &rows); err != nil {
			as.log.Warn("Dashboard pending requests failed", "error", err)
			return nil
		}
		requests = rows
		return nil
	})
	_ = g.Wait()

	d := &Dashboard{
		IdeaCount:     ideas,
		UserCount:     users,
		PendingCount:  len(pending),
		RequestCount:  len(requests),
		Verifications: make([]domain.PendingVerification, 0, len(pending)),
		Requests:      make([]domain.PendingRequest, 0, len(requests)),
	}
	for _, p := range pending {
		d.Verifications = append(d.Verifications, domain.NewPendingVerification(p))
	}
	for _, r := range requests {
		d.Requests = append(d.Requests, domain.NewPendingRequest(r))
	}
	if len(d.Verifications) == 0 {
		d.VerificationsEmpty = NoPendingVerifications
	}
	if len(d.Requests) == 0 {
		d.RequestsEmpty = NoPendingRequests
	}
	return d
}

func (as *adminService) ApproveInvestor(ctx context.Context, sess *session.Session, profileID, name string) (*AdminResult, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, apierr.Invalid("missing_profile", "Profile id is required.")
	}
	err := as.tables.Update(sess.Context(ctx), domain.TableProfiles,
		map[string]any{"is_verified": true},
		backend.Eq("id", profileID),
	)
	if err != nil {
		as.log.Warn("Approve investor failed", "investor_id", profileID, "error", err)
		return nil, remote(http.StatusBadGateway, "approve_failed", err)
	}
	as.log.Info("Investor verified", "investor_id", profileID, "account_id", sess.AccountID)
	return &AdminResult{
		Notice:    fmt.Sprintf("✅ %s is now verified!", name),
		Dashboard: as.LoadDashboard(ctx, sess),
	}, nil
}

func (as *adminService) DenyInvestor(ctx context.Context, sess *session.Session, profileID, name string) *AdminResult {
	return &AdminResult{
		Notice:    fmt.Sprintf("❌ %s's request denied.", name),
		Dashboard: as.LoadDashboard(ctx, sess),
	}
}

func (as *adminService) ScheduleCall(ctx context.Context, sess *session.Session, requestID, from, to string) (*AdminResult, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return nil, apierr.Invalid("missing_request", "Request id is required.")
	}
	err := as.tables.Update(sess.Context(ctx), domain.TableConnectRequests,
		map[string]any{"status": string(domain.StatusScheduled)},
		backend.Eq("id", requestID),
	)
	if err != nil {
		as.log.Warn("Schedule call failed", "request_id", requestID, "error", err)
		return nil, remote(http.StatusBadGateway, "schedule_failed", err)
	}
	return &AdminResult{
		Notice:    fmt.Sprintf("📅 Zoom link sent to %s and %s!", from, to),
		Dashboard: as.LoadDashboard(ctx, sess),
	}, nil
}
