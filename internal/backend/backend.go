// Package backend is the contract between the application shell and the
// remote managed backend: password auth plus filtered reads and single-row
// writes over named tables. Access control lives behind this boundary.
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Account      Account   `json:"account"`
}

// AuthResult carries the created or signed-in account. Session is nil when the
// backend requires a confirmation step before issuing one.
type AuthResult struct {
	Account Account
	Session *Session
}

type Auth interface {
	SignUp(ctx context.Context, email, password string) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	SignOut(ctx context.Context, accessToken string) error
	GetSession(ctx context.Context, accessToken string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
}

type Tables interface {
	// Select decodes matching rows into dest, a pointer to a slice.
	Select(ctx context.Context, q Query, dest any) error
	Count(ctx context.Context, table string, filters ...Filter) (int64, error)
	Insert(ctx context.Context, table string, row map[string]any) error
	Update(ctx context.Context, table string, fields map[string]any, filters ...Filter) error
}

// Incrementer is implemented by backends that can bump a counter in one write.
type Incrementer interface {
	Increment(ctx context.Context, table, column string, by int, filters ...Filter) (int, error)
}

type Client interface {
	Auth
	Tables
	Close() error
}

type Op string

const (
	OpEq Op = "eq"
	OpIn Op = "in"
)

type Filter struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, value any) Filter { return Filter{Column: column, Op: OpEq, Value: value} }

func In[T any](column string, values ...T) Filter {
	vals := make([]any, 0, len(values))
	for _, v := range values {
		vals = append(vals, v)
	}
	return Filter{Column: column, Op: OpIn, Value: vals}
}

// Values returns the filter operand as a list.
func (f Filter) Values() []any {
	if vs, ok := f.Value.([]any); ok {
		return vs
	}
	return []any{f.Value}
}

type Order struct {
	Column string
	Desc   bool
}

// Embed joins a related row through a foreign key column of the queried table.
// The related row's id must equal the foreign key; it is attached under Alias.
type Embed struct {
	Alias      string
	Table      string
	ForeignKey string
	Columns    []string
}

type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	Order   []Order
	Limit   int
	Embeds  []Embed
}

func From(table string) Query { return Query{Table: table} }

func (q Query) Where(filters ...Filter) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), filters...)
	return q
}

func (q Query) OrderBy(column string, desc bool) Query {
	q.Order = append(append([]Order(nil), q.Order...), Order{Column: column, Desc: desc})
	return q
}

func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

func (q Query) Embed(e Embed) Query {
	q.Embeds = append(append([]Embed(nil), q.Embeds...), e)
	return q
}

// Error is a failure reported by the backend. Message is shown to users verbatim.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("backend error (%d)", e.Status)
}

var ErrNoRows = &Error{Status: 406, Code: "no_rows", Message: "JSON object requested, multiple (or no) rows returned"}

// One selects exactly one row.
func One[T any](ctx context.Context, t Tables, q Query) (*T, error) {
	var rows []T
	if err := t.Select(ctx, q.WithLimit(2), &rows); err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, ErrNoRows
	}
	return &rows[0], nil
}

func IsNoRows(err error) bool { return errors.Is(err, ErrNoRows) }

type accessTokenKey struct{}

// WithAccessToken attaches the acting account's token to calls made with ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

func AccessToken(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	tok, _ := ctx.Value(accessTokenKey{}).(string)
	return tok
}
