package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/backend/backendtest"
	"github.com/yungbote/pitchbridge/internal/domain"
)

func adminFixture(t *testing.T) (*fixture, backendtest.Account) {
	t.Helper()
	f := newFixture(t, FeedOptions{})
	admin := backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Root Admin", Role: domain.RoleEntrepreneur, IsAdmin: true})
	return f, admin
}

func TestApproveInvestorMovesToDirectory(t *testing.T) {
	f, admin := adminFixture(t)
	jane := backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Jane Doe", Role: domain.RoleInvestor})
	ctx := context.Background()

	before := f.admin.LoadDashboard(ctx, as(admin))
	if before.PendingCount != 1 || before.Verifications[0].ID != jane.Profile.ID {
		t.Fatalf("pending before %+v", before)
	}
	if v := before.Verifications[0]; v.Initials != "JD" || v.Email != jane.Profile.Email || v.Role != domain.RoleInvestor {
		t.Fatalf("verification row %+v", v)
	}

	res, err := f.admin.ApproveInvestor(ctx, as(admin), jane.Profile.ID, "Jane")
	if err != nil {
		t.Fatalf("ApproveInvestor: %v", err)
	}
	if res.Notice != "✅ Jane is now verified!" {
		t.Fatalf("notice %q", res.Notice)
	}
	for _, v := range res.Dashboard.Verifications {
		if v.ID == jane.Profile.ID {
			t.Fatalf("approved investor still pending")
		}
	}
	if res.Dashboard.VerificationsEmpty != NoPendingVerifications {
		t.Fatalf("empty text %q", res.Dashboard.VerificationsEmpty)
	}

	dir := f.directory.Directory(ctx, as(admin))
	if len(dir.Investors) != 1 || dir.Investors[0].ID != jane.Profile.ID {
		t.Fatalf("directory %+v", dir.Investors)
	}
}

func TestDenyInvestorWritesNothing(t *testing.T) {
	f, admin := adminFixture(t)
	jane := backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Jane", Role: domain.RoleBoth})

	res := f.admin.DenyInvestor(context.Background(), as(admin), jane.Profile.ID, "Jane")
	if res.Notice != "❌ Jane's request denied." {
		t.Fatalf("notice %q", res.Notice)
	}
	if f.fake.Times("update:profiles") != 0 {
		t.Fatalf("deny must not write")
	}
	if res.Dashboard.PendingCount != 1 {
		t.Fatalf("denied investor stays pending: %+v", res.Dashboard)
	}
}

func TestScheduleCallClearsPendingRequest(t *testing.T) {
	f, admin := adminFixture(t)
	inv := backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Ivy Capital", Role: domain.RoleInvestor, IsVerified: true})
	ent := backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Ada Founder", Role: domain.RoleEntrepreneur})
	ctx := context.Background()

	if _, err := f.directory.Connect(ctx, as(inv), ent.Profile.ID, "Ada Founder"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	dash := f.admin.LoadDashboard(ctx, as(admin))
	if dash.RequestCount != 1 {
		t.Fatalf("requests %+v", dash)
	}
	req := dash.Requests[0]
	if req.FromName != "Ivy Capital" || req.ToName != "Ada Founder" || req.FromInitial != "I" || req.Detail != domain.ConnectRequestDetail {
		t.Fatalf("request row %+v", req)
	}

	res, err := f.admin.ScheduleCall(ctx, as(admin), req.ID, "A", "B")
	if err != nil {
		t.Fatalf("ScheduleCall: %v", err)
	}
	if res.Notice != "📅 Zoom link sent to A and B!" {
		t.Fatalf("notice %q", res.Notice)
	}
	if res.Dashboard.RequestCount != 0 || res.Dashboard.RequestsEmpty != NoPendingRequests {
		t.Fatalf("request still pending: %+v", res.Dashboard)
	}
	stored, err := backend.One[domain.ConnectRequest](ctx, f.fake, backend.From(domain.TableConnectRequests).Where(backend.Eq("id", req.ID)))
	if err != nil {
		t.Fatalf("load request: %v", err)
	}
	if stored.Status != domain.StatusScheduled {
		t.Fatalf("status %q", stored.Status)
	}
}

func TestDashboardPartialFailure(t *testing.T) {
	f, admin := adminFixture(t)
	backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Jane", Role: domain.RoleInvestor})
	backendtest.SeedIdea(t, f.fake, domain.Idea{UserID: admin.Profile.ID, Title: "t", Body: "b"})

	f.fake.Fail("count:ideas", errors.New("boom"))
	f.fake.Fail("select:connect_requests", errors.New("boom"))
	d := f.admin.LoadDashboard(context.Background(), as(admin))
	if d.IdeaCount != 0 || d.RequestCount != 0 {
		t.Fatalf("failed reads should read as zero: %+v", d)
	}
	if d.UserCount != 2 || d.PendingCount != 1 {
		t.Fatalf("healthy reads missing: %+v", d)
	}
	if d.RequestsEmpty != NoPendingRequests {
		t.Fatalf("failed list should show its empty state")
	}
}

func TestPendingRequestNamesDefault(t *testing.T) {
	f, admin := adminFixture(t)
	ctx := context.Background()
	if err := f.fake.Insert(ctx, domain.TableConnectRequests, map[string]any{
		"from_user_id": "11111111-1111-1111-1111-111111111111",
		"to_user_id":   admin.Profile.ID,
		"status":       "pending",
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	d := f.admin.LoadDashboard(ctx, as(admin))
	if len(d.Requests) != 1 || d.Requests[0].FromName != "Someone" || d.Requests[0].ToName != "Root Admin" {
		t.Fatalf("requests %+v", d.Requests)
	}
}
