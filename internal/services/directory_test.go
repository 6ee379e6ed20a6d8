package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/backend/backendtest"
	"github.com/yungbote/pitchbridge/internal/domain"
)

func TestDirectoryOnlyListsVerifiedInvestors(t *testing.T) {
	f := newFixture(t, FeedOptions{})
	viewer := backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Ada", Role: domain.RoleEntrepreneur, IsVerified: true})
	backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Unverified Investor", Role: domain.RoleInvestor})
	backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Unverified Both", Role: domain.RoleBoth})
	inv := backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Ivy Capital", Role: domain.RoleInvestor, IsVerified: true, Focus: "Climate"})
	both := backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Bo Both", Role: domain.RoleBoth, IsVerified: true})

	list := f.directory.Directory(context.Background(), as(viewer))
	got := map[string]domain.InvestorCard{}
	for _, c := range list.Investors {
		got[c.ID] = c
		if !c.Verified {
			t.Fatalf("unverified profile listed: %+v", c)
		}
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 investors, got %+v", list.Investors)
	}
	if got[inv.Profile.ID].Focus != "Climate" || got[both.Profile.ID].Focus != domain.DirectoryFocus {
		t.Fatalf("focus fallback wrong: %+v", got)
	}
	if got[both.Profile.ID].Initials != "BB" {
		t.Fatalf("initials %+v", got[both.Profile.ID])
	}
}

func TestSidebarIsCapped(t *testing.T) {
	f := newFixture(t, FeedOptions{})
	viewer := backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Ada", Role: domain.RoleEntrepreneur})
	for i := 0; i < 4; i++ {
		backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: fmt.Sprintf("Investor %d", i), Role: domain.RoleInvestor, IsVerified: true})
	}
	side := f.directory.Sidebar(context.Background(), as(viewer))
	if len(side.Investors) != SidebarLimit {
		t.Fatalf("sidebar has %d", len(side.Investors))
	}
	for _, c := range side.Investors {
		if c.Focus != domain.SidebarFocus {
			t.Fatalf("sidebar focus %q", c.Focus)
		}
	}
	if full := f.directory.Directory(context.Background(), as(viewer)); len(full.Investors) != 4 {
		t.Fatalf("directory has %d", len(full.Investors))
	}
}

func TestDirectoryDegradesToEmpty(t *testing.T) {
	f := newFixture(t, FeedOptions{})
	viewer := backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Ada", Role: domain.RoleEntrepreneur})
	backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Ivy", Role: domain.RoleInvestor, IsVerified: true})

	f.fake.Fail("select:profiles", errors.New("timeout"))
	list := f.directory.Directory(context.Background(), as(viewer))
	if len(list.Investors) != 0 || list.Empty != DirectoryEmpty {
		t.Fatalf("got %+v", list)
	}
}

func TestConnectInsertsPendingRequest(t *testing.T) {
	f := newFixture(t, FeedOptions{})
	from := backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Ada", Role: domain.RoleEntrepreneur})
	to := backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Ivy Capital", Role: domain.RoleInvestor, IsVerified: true})

	res, err := f.directory.Connect(context.Background(), as(from), to.Profile.ID, "Ivy Capital")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if res.Notice != "📩 Connection request sent to Ivy Capital!" {
		t.Fatalf("notice %q", res.Notice)
	}
	// no duplicate check
	if _, err := f.directory.Connect(context.Background(), as(from), to.Profile.ID, "Ivy Capital"); err != nil {
		t.Fatalf("second Connect: %v", err)
	}

	var reqs []domain.ConnectRequest
	if err := f.fake.Select(context.Background(), backend.From(domain.TableConnectRequests), &reqs); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}
	for _, r := range reqs {
		if r.FromUserID != from.Profile.ID || r.ToUserID != to.Profile.ID || r.Status != domain.StatusPending {
			t.Fatalf("request %+v", r)
		}
	}
}
