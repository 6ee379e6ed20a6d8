package rest

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/yungbote/pitchbridge/internal/backend"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type gotrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// gotrueSession decodes both a session response and the bare user returned
// when sign-up waits on email confirmation.
type gotrueSession struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	ExpiresAt    int64       `json:"expires_at"`
	User         *gotrueUser `json:"user"`

	ID    string `json:"id"`
	Email string `json:"email"`
}

func (g *gotrueSession) account() backend.Account {
	if g.User != nil {
		return backend.Account{ID: g.User.ID, Email: g.User.Email}
	}
	return backend.Account{ID: g.ID, Email: g.Email}
}

func (g *gotrueSession) session() *backend.Session {
	if g.AccessToken == "" {
		return nil
	}
	var exp time.Time
	switch {
	case g.ExpiresAt > 0:
		exp = time.Unix(g.ExpiresAt, 0)
	case g.ExpiresIn > 0:
		exp = time.Now().Add(time.Duration(g.ExpiresIn) * time.Second)
	}
	return &backend.Session{
		AccessToken:  g.AccessToken,
		RefreshToken: g.RefreshToken,
		ExpiresAt:    exp,
		Account:      g.account(),
	}
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*backend.AuthResult, error) {
	var out gotrueSession
	if _, err := c.do(ctx, call{method: http.MethodPost, path: "/auth/v1/signup", body: credentials{Email: email, Password: password}, bearer: c.anonKey}, &out); err != nil {
		return nil, err
	}
	return &backend.AuthResult{Account: out.account(), Session: out.session()}, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*backend.AuthResult, error) {
	var out gotrueSession
	q := url.Values{"grant_type": {"password"}}
	if _, err := c.do(ctx, call{method: http.MethodPost, path: "/auth/v1/token", query: q, body: credentials{Email: email, Password: password}, bearer: c.anonKey}, &out); err != nil {
		return nil, err
	}
	sess := out.session()
	if sess == nil {
		return nil, &backend.Error{Status: http.StatusBadGateway, Code: "no_session", Message: "sign-in returned no session"}
	}
	return &backend.AuthResult{Account: sess.Account, Session: sess}, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	_, err := c.do(ctx, call{method: http.MethodPost, path: "/auth/v1/logout", bearer: accessToken}, nil)
	return err
}

func (c *Client) GetSession(ctx context.Context, accessToken string) (*backend.Session, error) {
	if accessToken == "" {
		return nil, &backend.Error{Status: http.StatusUnauthorized, Code: "no_authorization", Message: "This endpoint requires a Bearer token"}
	}
	var user gotrueUser
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/auth/v1/user", bearer: accessToken}, &user); err != nil {
		return nil, err
	}
	return &backend.Session{
		AccessToken: accessToken,
		Account:     backend.Account{ID: user.ID, Email: user.Email},
	}, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*backend.Session, error) {
	var out gotrueSession
	q := url.Values{"grant_type": {"refresh_token"}}
	body := map[string]string{"refresh_token": refreshToken}
	if _, err := c.do(ctx, call{method: http.MethodPost, path: "/auth/v1/token", query: q, body: body, bearer: c.anonKey}, &out); err != nil {
		return nil, err
	}
	sess := out.session()
	if sess == nil {
		return nil, &backend.Error{Status: http.StatusBadGateway, Code: "no_session", Message: "refresh returned no session"}
	}
	return sess, nil
}
