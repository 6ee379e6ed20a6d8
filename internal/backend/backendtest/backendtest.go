// Package backendtest provides an in-memory backend for tests: the SQL store on
// a private sqlite database, wrapped so tests can count calls, inject failures
// and pause operations.
package backendtest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/backend/sqlstore"
	"github.com/yungbote/pitchbridge/internal/domain"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
)

const Password = "secret123"

// Open returns a migrated SQL store on a fresh in-memory database.
func Open(tb testing.TB) *sqlstore.Store {
	tb.Helper()
	store, err := sqlstore.Open(logger.Nop(), sqlstore.Config{
		Driver:       sqlstore.DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		JWTSecretKey: "test-secret",
		AccessTTL:    time.Hour,
		RefreshTTL:   24 * time.Hour,
		PasswordCost: bcrypt.MinCost,
		Quiet:        true,
	})
	if err != nil {
		tb.Fatalf("open sqlstore: %v", err)
	}
	tb.Cleanup(func() { _ = store.Close() })
	return store
}

type Call struct {
	Op    string
	Table string
	Row   map[string]any
}

// Fake records every call made through it. Operation keys are "signup",
// "signin", "signout", "get_session", "refresh" and "<op>:<table>" for
// select, count, insert, update and increment.
type Fake struct {
	inner backend.Client

	mu     sync.Mutex
	calls  []Call
	fail   map[string]error
	before map[string]func()
}

var _ backend.Client = (*Fake)(nil)
var _ backend.Incrementer = (*Fake)(nil)

func New(tb testing.TB) *Fake {
	tb.Helper()
	return Wrap(Open(tb))
}

func Wrap(inner backend.Client) *Fake {
	return &Fake{inner: inner, fail: map[string]error{}, before: map[string]func(){}}
}

// Fail makes op return err until cleared with a nil err.
func (f *Fake) Fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, op)
		return
	}
	f.fail[op] = err
}

// Before runs fn ahead of every op call, outside the lock.
func (f *Fake) Before(op string, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fn == nil {
		delete(f.before, op)
		return
	}
	f.before[op] = fn
}

// Times is the number of recorded calls of op.
func (f *Fake) Times(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if key(c.Op, c.Table) == op {
			n++
		}
	}
	return n
}

// Total is the number of calls of any kind.
func (f *Fake) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Rows returns the payloads of op ("insert" or "update") calls on table.
func (f *Fake) Rows(op, table string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []map[string]any
	for _, c := range f.calls {
		if c.Op == op && c.Table == table {
			out = append(out, c.Row)
		}
	}
	return out
}

func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func key(op, table string) string {
	if table == "" {
		return op
	}
	return op + ":" + table
}

func (f *Fake) enter(op, table string, row map[string]any) error {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Op: op, Table: table, Row: row})
	hook := f.before[key(op, table)]
	err := f.fail[key(op, table)]
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return err
}

func (f *Fake) SignUp(ctx context.Context, email, password string) (*backend.AuthResult, error) {
	if err := f.enter("signup", "", nil); err != nil {
		return nil, err
	}
	return f.inner.SignUp(ctx, email, password)
}

func (f *Fake) SignIn(ctx context.Context, email, password string) (*backend.AuthResult, error) {
	if err := f.enter("signin", "", nil); err != nil {
		return nil, err
	}
	return f.inner.SignIn(ctx, email, password)
}

func (f *Fake) SignOut(ctx context.Context, accessToken string) error {
	if err := f.enter("signout", "", nil); err != nil {
		return err
	}
	return f.inner.SignOut(ctx, accessToken)
}

func (f *Fake) GetSession(ctx context.Context, accessToken string) (*backend.Session, error) {
	if err := f.enter("get_session", "", nil); err != nil {
		return nil, err
	}
	return f.inner.GetSession(ctx, accessToken)
}

func (f *Fake) Refresh(ctx context.Context, refreshToken string) (*backend.Session, error) {
	if err := f.enter("refresh", "", nil); err != nil {
		return nil, err
	}
	return f.inner.Refresh(ctx, refreshToken)
}

func (f *Fake) Select(ctx context.Context, q backend.Query, dest any) error {
	if err := f.enter("select", q.Table, nil); err != nil {
		return err
	}
	return f.inner.Select(ctx, q, dest)
}

func (f *Fake) Count(ctx context.Context, table string, filters ...backend.Filter) (int64, error) {
	if err := f.enter("count", table, nil); err != nil {
		return 0, err
	}
	return f.inner.Count(ctx, table, filters...)
}

func (f *Fake) Insert(ctx context.Context, table string, row map[string]any) error {
	if err := f.enter("insert", table, row); err != nil {
		return err
	}
	return f.inner.Insert(ctx, table, row)
}

func (f *Fake) Update(ctx context.Context, table string, fields map[string]any, filters ...backend.Filter) error {
	if err := f.enter("update", table, fields); err != nil {
		return err
	}
	return f.inner.Update(ctx, table, fields, filters...)
}

func (f *Fake) Increment(ctx context.Context, table, column string, by int, filters ...backend.Filter) (int, error) {
	if err := f.enter("increment", table, map[string]any{column: by}); err != nil {
		return 0, err
	}
	inc, ok := f.inner.(backend.Incrementer)
	if !ok {
		return 0, fmt.Errorf("backend cannot increment")
	}
	return inc.Increment(ctx, table, column, by, filters...)
}

func (f *Fake) Close() error { return f.inner.Close() }

type plain struct{ backend.Client }

// WithoutIncrement hides the Incrementer capability, as the REST backend does.
func WithoutIncrement(c backend.Client) backend.Client { return plain{c} }

// Account is a seeded account with its profile and live session.
type Account struct {
	Profile domain.Profile
	Session *backend.Session
}

// SeedAccount signs up an account and inserts its profile directly, bypassing
// call recording when c is a Fake.
func SeedAccount(tb testing.TB, c backend.Client, p domain.Profile) Account {
	tb.Helper()
	ctx := context.Background()
	if f, ok := c.(*Fake); ok {
		c = f.inner
	}
	if p.Email == "" {
		p.Email = uuid.NewString()[:8] + "@example.com"
	}
	res, err := c.SignUp(ctx, p.Email, Password)
	if err != nil {
		tb.Fatalf("seed signup %s: %v", p.Email, err)
	}
	p.ID = res.Account.ID
	if p.AvatarColor == "" {
		p.AvatarColor = domain.DefaultAvatarColor
	}
	row := map[string]any{
		"id":           p.ID,
		"full_name":    p.FullName,
		"email":        p.Email,
		"role":         string(p.Role),
		"is_admin":     p.IsAdmin,
		"is_verified":  p.IsVerified,
		"avatar_color": p.AvatarColor,
		"focus":        p.Focus,
	}
	if err := c.Insert(ctx, domain.TableProfiles, row); err != nil {
		tb.Fatalf("seed profile %s: %v", p.Email, err)
	}
	return Account{Profile: p, Session: res.Session}
}

// SeedIdea inserts an idea and returns its id.
func SeedIdea(tb testing.TB, c backend.Client, idea domain.Idea) string {
	tb.Helper()
	if f, ok := c.(*Fake); ok {
		c = f.inner
	}
	if idea.ID == "" {
		idea.ID = uuid.NewString()
	}
	row := map[string]any{
		"id":          idea.ID,
		"user_id":     idea.UserID,
		"title":       idea.Title,
		"body":        idea.Body,
		"funding_ask": idea.FundingAsk,
		"category":    idea.Category,
		"likes":       idea.Likes,
	}
	if !idea.CreatedAt.IsZero() {
		row["created_at"] = idea.CreatedAt
	}
	if err := c.Insert(context.Background(), domain.TableIdeas, row); err != nil {
		tb.Fatalf("seed idea %q: %v", idea.Title, err)
	}
	return idea.ID
}
