package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/yungbote/pitchbridge/internal/backend"
)

func (c *Client) Select(ctx context.Context, q backend.Query, dest any) error {
	params := url.Values{"select": {selectList(q)}}
	if err := addFilters(params, q.Filters); err != nil {
		return err
	}
	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts = append(parts, o.Column+"."+dir)
		}
		params.Set("order", strings.Join(parts, ","))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	_, err := c.do(ctx, call{method: http.MethodGet, path: tablePath(q.Table), query: params}, dest)
	return err
}

func (c *Client) Count(ctx context.Context, table string, filters ...backend.Filter) (int64, error) {
	params := url.Values{"select": {"*"}}
	if err := addFilters(params, filters); err != nil {
		return 0, err
	}
	hdr, err := c.do(ctx, call{method: http.MethodHead, path: tablePath(table), query: params, prefer: "count=exact"}, nil)
	if err != nil {
		return 0, err
	}
	return parseContentRange(hdr.Get("Content-Range"))
}

func (c *Client) Insert(ctx context.Context, table string, row map[string]any) error {
	_, err := c.do(ctx, call{method: http.MethodPost, path: tablePath(table), body: row, prefer: "return=minimal"}, nil)
	return err
}

func (c *Client) Update(ctx context.Context, table string, fields map[string]any, filters ...backend.Filter) error {
	if len(filters) == 0 {
		return &backend.Error{Status: http.StatusBadRequest, Code: "21000", Message: "UPDATE requires a WHERE clause"}
	}
	params := url.Values{}
	if err := addFilters(params, filters); err != nil {
		return err
	}
	_, err := c.do(ctx, call{method: http.MethodPatch, path: tablePath(table), query: params, body: fields, prefer: "return=minimal"}, nil)
	return err
}

func tablePath(table string) string { return "/rest/v1/" + url.PathEscape(table) }

// selectList renders columns plus embeds, e.g. "*,profiles:user_id(full_name,role)".
func selectList(q backend.Query) string {
	cols := "*"
	if len(q.Columns) > 0 {
		cols = strings.Join(q.Columns, ",")
	}
	parts := []string{cols}
	for _, e := range q.Embeds {
		inner := "*"
		if len(e.Columns) > 0 {
			inner = strings.Join(e.Columns, ",")
		}
		parts = append(parts, fmt.Sprintf("%s:%s(%s)", e.Alias, e.ForeignKey, inner))
	}
	return strings.Join(parts, ",")
}

func addFilters(params url.Values, filters []backend.Filter) error {
	for _, f := range filters {
		switch f.Op {
		case backend.OpEq, "":
			params.Add(f.Column, "eq."+formatValue(f.Value))
		case backend.OpIn:
			vals := f.Values()
			parts := make([]string, 0, len(vals))
			for _, v := range vals {
				parts = append(parts, quoteListItem(formatValue(v)))
			}
			params.Add(f.Column, "in.("+strings.Join(parts, ",")+")")
		default:
			return &backend.Error{Status: http.StatusBadRequest, Code: "PGRST100", Message: fmt.Sprintf("unsupported operator %q", f.Op)}
		}
	}
	return nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// quoteListItem quotes in-list items that contain PostgREST reserved characters.
func quoteListItem(s string) string {
	if !strings.ContainsAny(s, ",()\" ") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// parseContentRange reads the total from "0-9/42" or "*/42".
func parseContentRange(v string) (int64, error) {
	i := strings.LastIndex(v, "/")
	if i < 0 || i == len(v)-1 {
		return 0, fmt.Errorf("rest: missing count in Content-Range %q", v)
	}
	total := v[i+1:]
	if total == "*" {
		return 0, fmt.Errorf("rest: count not computed in Content-Range %q", v)
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("rest: bad Content-Range %q: %w", v, err)
	}
	return n, nil
}

func sortedKeys(q url.Values) []string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
