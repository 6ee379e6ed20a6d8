package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMetricsWritePrometheus(t *testing.T) {
	m := NewMetrics()
	m.ApiInflightInc()
	m.ObserveAPI("GET", "/api/feed", "200", 30*time.Millisecond)
	m.ObserveAPI("GET", "/api/feed", "200", 2*time.Second)
	m.ObserveBackend("select", "ideas", nil, time.Millisecond)
	m.ObserveBackend("insert", "ideas", errors.New("boom"), time.Millisecond)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`pitchbridge_http_requests_total{method="GET",route="/api/feed",status="200"} 2`,
		`pitchbridge_http_request_seconds_bucket{method="GET",route="/api/feed",le="0.05"} 1`,
		`pitchbridge_http_request_seconds_bucket{method="GET",route="/api/feed",le="+Inf"} 2`,
		`pitchbridge_http_inflight 1`,
		`pitchbridge_backend_calls_total{op="insert",table="ideas",status="error"} 1`,
		`pitchbridge_backend_calls_total{op="select",table="ideas",status="success"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"a", "b"}, []string{`x"y`})
	if got != `{a="x\"y",b="unknown"}` {
		t.Fatalf("labelString=%s", got)
	}
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" api-key = abc , bad, =x, team=pb ")
	if len(got) != 2 || got["api-key"] != "abc" || got["team"] != "pb" {
		t.Fatalf("ParseHeaders=%v", got)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("empty headers should be nil")
	}
}

func TestInitOTelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), nil, OtelConfig{})
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
