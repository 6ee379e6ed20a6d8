package ctxutil

import (
	"context"
	"testing"
)

func TestTraceAndRequestDataRoundTrip(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", RequestID: "r1"})
	ctx = WithRequestData(ctx, &RequestData{AccountID: "a1", SessionID: "s1"})

	td := GetTraceData(ctx)
	if td == nil || td.TraceID != "t1" || td.RequestID != "r1" {
		t.Fatalf("unexpected trace data: %+v", td)
	}
	rd := GetRequestData(ctx)
	if rd == nil || rd.AccountID != "a1" || rd.SessionID != "s1" {
		t.Fatalf("unexpected request data: %+v", rd)
	}
	if GetRequestData(context.Background()) != nil {
		t.Fatalf("expected nil request data on bare context")
	}
}
