// Package rest talks to a Supabase-compatible managed backend: GoTrue for
// auth under /auth/v1 and PostgREST for tables under /rest/v1.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/pitchbridge/internal/backend"
)

type Config struct {
	URL     string
	AnonKey string
	// Timeout bounds each call; zero leaves calls bounded only by the caller's context.
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	anonKey    string
	timeout    time.Duration
	httpClient *http.Client
}

var _ backend.Client = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("rest: backend url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("rest: bad backend url: %w", err)
	}
	anonKey := strings.TrimSpace(cfg.AnonKey)
	if anonKey == "" {
		return nil, errors.New("rest: anon key required")
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL:    baseURL,
		anonKey:    anonKey,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{Transport: tr},
	}, nil
}

// NewWithHTTPClient swaps the transport, mainly so tests avoid the network.
func NewWithHTTPClient(cfg Config, httpClient *http.Client) (*Client, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c, nil
}

func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	// bearer overrides the token carried by the context.
	bearer string
	prefer string
}

// do performs the call and returns the response headers. out may be nil.
func (c *Client) do(ctx context.Context, in call, out any) (http.Header, error) {
	var buf bytes.Buffer
	if in.body != nil {
		if err := json.NewEncoder(&buf).Encode(in.body); err != nil {
			return nil, err
		}
	}

	ctx2 := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		ctx2, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.baseURL + in.path
	if len(in.query) > 0 {
		target += "?" + encodeQuery(in.query)
	}
	req, err := http.NewRequestWithContext(ctx2, in.method, target, &buf)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, in, backend.AccessToken(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return resp.Header, decodeError(resp.StatusCode, raw)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || in.method == http.MethodHead {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.Header, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.Header, fmt.Errorf("decode %s %s: %w", in.method, in.path, err)
	}
	return resp.Header, nil
}

func (c *Client) setHeaders(req *http.Request, in call, ctxToken string) {
	req.Header.Set("apikey", c.anonKey)
	bearer := in.bearer
	if bearer == "" {
		bearer = ctxToken
	}
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if in.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if in.prefer != "" {
		req.Header.Set("Prefer", in.prefer)
	}
}

// encodeQuery keeps PostgREST punctuation readable; url.Values.Encode would
// escape the parentheses and commas of embeds and in-lists.
func encodeQuery(q url.Values) string {
	var b strings.Builder
	for _, k := range sortedKeys(q) {
		for _, v := range q[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(escapeValue(v))
		}
	}
	return b.String()
}

func escapeValue(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch r {
		case '(', ')', ',', '.', ':', '*', '-', '_':
			b.WriteRune(r)
		case ' ':
			b.WriteString("%20")
		default:
			b.WriteString(url.QueryEscape(string(r)))
		}
	}
	return b.String()
}

// errorBody covers both GoTrue and PostgREST error shapes.
type errorBody struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func decodeError(status int, raw []byte) error {
	be := &backend.Error{Status: status}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		be.Message = strings.TrimSpace(string(raw))
		if be.Message == "" {
			be.Message = http.StatusText(status)
		}
		return be
	}
	switch code := body.Code.(type) {
	case string:
		be.Code = code
	case float64:
		be.Code = fmt.Sprintf("%d", int(code))
	}
	if body.ErrorCode != "" {
		be.Code = body.ErrorCode
	}
	for _, m := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
		if strings.TrimSpace(m) != "" {
			be.Message = m
			break
		}
	}
	if be.Message == "" {
		be.Message = http.StatusText(status)
	}
	return be
}
