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
	FeedEmpty       = "No ideas posted yet. Be the first! 🚀"
	FeedError       = "Error loading ideas."
	NoticeIdeaLive  = "🚀 Your idea is live!"
	NoticeIdeaEmpty = "⚠️ Please add a title and description"
)

// ownerEmbed joins each idea to its owner's display fields.
var ownerEmbed = backend.Embed{
	Alias:      "profiles",
	Table:      domain.TableProfiles,
	ForeignKey: "user_id",
	Columns:    []string{"full_name", "role", "avatar_color"},
}

type IdeaInput struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	FundingAsk string `json:"funding_ask"`
	Category   string `json:"category"`
}

type FeedView struct {
	Ideas []domain.IdeaCard `json:"ideas"`
	Empty string            `json:"empty,omitempty"`
	Error string            `json:"error,omitempty"`
}

type CreateIdeaResult struct {
	Notice   string    `json:"notice"`
	Composer IdeaInput `json:"composer"`
	Feed     *FeedView `json:"feed"`
}

type LikeResult struct {
	ID    string `json:"id"`
	Likes int    `json:"likes"`
}

type FeedService interface {
	CreateIdea(ctx context.Context, sess *session.Session, in IdeaInput) (*CreateIdeaResult, error)
	ListFeed(ctx context.Context, sess *session.Session) *FeedView
	LikeIdea(ctx context.Context, sess *session.Session, ideaID string) (*LikeResult, error)
}

type FeedOptions struct {
	// AtomicLikes bumps likes in one backend write when the backend supports it.
	AtomicLikes bool
}

type feedService struct {
	log    *logger.Logger
	tables backend.Tables
	opts   FeedOptions
}

func NewFeedService(log *logger.Logger, tables backend.Tables, opts FeedOptions) FeedService {
	serviceLog := log.With("service", "FeedService")
	if opts.AtomicLikes {
		if _, ok := tables.(backend.Incrementer); !ok {
			serviceLog.Warn("Atomic likes requested but backend cannot increment; using read-modify-write")
		}
	}
	return &feedService{log: serviceLog, tables: tables, opts: opts}
}

func (fs *feedService) CreateIdea(ctx context.Context, sess *session.Session, in IdeaInput) (*CreateIdeaResult, error) {
	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	if title == "" || body == "" {
		return nil, apierr.Invalid("missing_idea_fields", NoticeIdeaEmpty)
	}
	if !sess.SignedIn() {
		return nil, errNotSignedIn
	}
	ask := strings.TrimSpace(in.FundingAsk)
	if ask == "" {
		ask = domain.DefaultFundingAsk
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = domain.DefaultCategory
	}

	row := map[string]any{
		"user_id":     sess.AccountID,
		"title":       title,
		"body":        body,
		"funding_ask": ask,
		"category":    category,
		"likes":       0,
	}
	if err := fs.tables.Insert(sess.Context(ctx), domain.TableIdeas, row); err != nil {
		fs.log.Warn("Idea insert failed", "account_id", sess.AccountID, "error", err)
		return nil, remote(http.StatusBadRequest, "post_failed", withNotice("❌ Error posting: %s", err))
	}

	return &CreateIdeaResult{
		Notice:   NoticeIdeaLive,
		Composer: IdeaInput{},
		Feed:     fs.ListFeed(ctx, sess),
	}, nil
}

// ListFeed never fails; a read error renders the error placeholder.
func (fs *feedService) ListFeed(ctx context.Context, sess *session.Session) *FeedView {
	q := backend.From(domain.TableIdeas).
		OrderBy("created_at", true).
		OrderBy("id", true).
		Embed(ownerEmbed)

	var ideas []domain.Idea
	if err := fs.tables.Select(sess.Context(ctx), q, &ideas); err != nil {
		fs.log.Warn("Feed read failed", "error", err)
		return &FeedView{Ideas: []domain.IdeaCard{}, Error: FeedError}
	}
	view := &FeedView{Ideas: domain.NewIdeaCards(ideas, sess.Profile)}
	if len(ideas) == 0 {
		view.Empty = FeedEmpty
	}
	return view
}

func (fs *feedService) LikeIdea(ctx context.Context, sess *session.Session, ideaID string) (*LikeResult, error) {
	ideaID = strings.TrimSpace(ideaID)
	if ideaID == "" {
		return nil, apierr.Invalid("missing_idea", "Idea id is required.")
	}
	ctx = sess.Context(ctx)
	filter := backend.Eq("id", ideaID)

	if inc, ok := fs.tables.(backend.Incrementer); ok && fs.opts.AtomicLikes {
		n, err := inc.Increment(ctx, domain.TableIdeas, "likes", 1, filter)
		if err != nil {
			return nil, fs.likeErr(ideaID, err)
		}
		return &LikeResult{ID: ideaID, Likes: n}, nil
	}

	// Read then write: concurrent likers can both write the same count.
	type likeRow struct {
		Likes int `json:"likes"`
	}
	cur, err := backend.One[likeRow](ctx, fs.tables, backend.From(domain.TableIdeas).Where(filter))
	if err != nil {
		return nil, fs.likeErr(ideaID, err)
	}
	next := cur.Likes + 1
	if err := fs.tables.Update(ctx, domain.TableIdeas, map[string]any{"likes": next}, filter); err != nil {
		return nil, fs.likeErr(ideaID, err)
	}
	return &LikeResult{ID: ideaID, Likes: next}, nil
}

func (fs *feedService) likeErr(ideaID string, err error) error {
	fs.log.Warn("Like failed", "idea_id", ideaID, "error", err)
	if errors.Is(err, backend.ErrNoRows) {
		return apierr.New(http.StatusNotFound, "idea_not_found", errors.New("Idea not found."))
	}
	return remote(http.StatusBadGateway, "like_failed", err)
}
