package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/domain"
	"github.com/yungbote/pitchbridge/internal/platform/apierr"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
	"github.com/yungbote/pitchbridge/internal/session"
)

const (
	DirectoryEmpty = "No verified investors yet."
	SidebarLimit   = 3
)

type InvestorList struct {
	Investors []domain.InvestorCard `json:"investors"`
	Empty     string                `json:"empty,omitempty"`
}

type ConnectResult struct {
	Notice string `json:"notice"`
}

type DirectoryService interface {
	// Directory is the full verified-investor page.
	Directory(ctx context.Context, sess *session.Session) *InvestorList
	// Sidebar is the capped preview next to the feed.
	Sidebar(ctx context.Context, sess *session.Session) *InvestorList
	ListVerifiedInvestors(ctx context.Context, sess *session.Session, limit int, focusFallback string) *InvestorList
	Connect(ctx context.Context, sess *session.Session, investorID, displayName string) (*ConnectResult, error)
}

type directoryService struct {
	log    *logger.Logger
	tables backend.Tables
}

func NewDirectoryService(log *logger.Logger, tables backend.Tables) DirectoryService {
	return &directoryService{log: log.With("service", "DirectoryService"), tables: tables}
}

func (ds *directoryService) Directory(ctx context.Context, sess *session.Session) *InvestorList {
	return ds.ListVerifiedInvestors(ctx, sess, 0, domain.DirectoryFocus)
}

func (ds *directoryService) Sidebar(ctx context.Context, sess *session.Session) *InvestorList {
	return ds.ListVerifiedInvestors(ctx, sess, SidebarLimit, domain.SidebarFocus)
}

func (ds *directoryService) ListVerifiedInvestors(ctx context.Context, sess *session.Session, limit int, focusFallback string) *InvestorList {
	q := backend.From(domain.TableProfiles).Where(
		backend.In("role", domain.InvestorRoles...),
		backend.Eq("is_verified", true),
	)
	if limit > 0 {
		q = q.WithLimit(limit)
	}
	var profiles []domain.Profile
	if err := ds.tables.Select(sess.Context(ctx), q, &profiles); err != nil {
		ds.log.Warn("Investor directory read failed", "error", err)
		return &InvestorList{Investors: []domain.InvestorCard{}, Empty: DirectoryEmpty}
	}
	out := &InvestorList{Investors: make([]domain.InvestorCard, 0, len(profiles))}
	for _, p := range profiles {
		// The filter is the backend's job; this keeps an unverified row out regardless.
		if !p.VisibleInDirectory() {
			continue
		}
		out.Investors = append(out.Investors, domain.NewInvestorCard(p, focusFallback))
	}
	if len(out.Investors) == 0 {
		out.Empty = DirectoryEmpty
	}
	return out
}

func (ds *directoryService) Connect(ctx context.Context, sess *session.Session, investorID, displayName string) (*ConnectResult, error) {
	investorID = strings.TrimSpace(investorID)
	if investorID == "" {
		return nil, apierr.Invalid("missing_investor", "Investor id is required.")
	}
	if !sess.SignedIn() {
		return nil, errNotSignedIn
	}
	row := map[string]any{
		"from_user_id": sess.AccountID,
		"to_user_id":   investorID,
		"status":       string(domain.StatusPending),
	}
	if err := ds.tables.Insert(sess.Context(ctx), domain.TableConnectRequests, row); err != nil {
		ds.log.Warn("Connect request insert failed", "investor_id", investorID, "error", err)
		return nil, remote(http.StatusBadGateway, "connect_failed", err)
	}
	return &ConnectResult{Notice: fmt.Sprintf("📩 Connection request sent to %s!", displayName)}, nil
}
