package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/pitchbridge/internal/backend/backendtest"
	"github.com/yungbote/pitchbridge/internal/domain"
)

func TestListOwnIdeasUsesViewerAsOwner(t *testing.T) {
	f := newFixture(t, FeedOptions{})
	me := backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Bo Both", Role: domain.RoleBoth, AvatarColor: "#ff9f43"})
	other := backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Ada", Role: domain.RoleEntrepreneur})
	backendtest.SeedIdea(t, f.fake, domain.Idea{UserID: me.Profile.ID, Title: "mine", Body: "b"})
	backendtest.SeedIdea(t, f.fake, domain.Idea{UserID: other.Profile.ID, Title: "theirs", Body: "b"})

	view := f.profile.ListOwnIdeas(context.Background(), as(me))
	if view.Count != 1 || len(view.Ideas) != 1 || view.Empty != "" {
		t.Fatalf("view %+v", view)
	}
	card := view.Ideas[0]
	if card.Title != "mine" || card.OwnerName != "Bo Both" || card.OwnerColor != "#ff9f43" || card.OwnerRole != "Entrepreneur & Investor" {
		t.Fatalf("card %+v", card)
	}
	if !card.ShowRequestAccess {
		t.Fatalf("both-role viewer should see Request Access")
	}
}

func TestListOwnIdeasEmptyAndFailure(t *testing.T) {
	f := newFixture(t, FeedOptions{})
	me := backendtest.SeedAccount(t, f.fake, domain.Profile{FullName: "Ada", Role: domain.RoleEntrepreneur})

	view := f.profile.ListOwnIdeas(context.Background(), as(me))
	if view.Count != 0 || view.Empty != OwnIdeasEmpty {
		t.Fatalf("empty view %+v", view)
	}

	backendtest.SeedIdea(t, f.fake, domain.Idea{UserID: me.Profile.ID, Title: "mine", Body: "b"})
	f.fake.Fail("select:ideas", errors.New("down"))
	view = f.profile.ListOwnIdeas(context.Background(), as(me))
	if view.Count != 0 || view.Empty != OwnIdeasEmpty {
		t.Fatalf("failed read should degrade: %+v", view)
	}
}
