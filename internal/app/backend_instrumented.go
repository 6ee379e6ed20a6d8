package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/observability"
)

var backendTracer = otel.Tracer("github.com/yungbote/pitchbridge/internal/backend")

// instrumentedBackend records a span and a metric sample per backend call.
type instrumentedBackend struct {
	inner   backend.Client
	metrics *observability.Metrics
}

// instrumentedIncrementer keeps the optional Incrementer capability visible
// through the wrapper.
type instrumentedIncrementer struct {
	*instrumentedBackend
	inc backend.Incrementer
}

func instrumentBackend(inner backend.Client, metrics *observability.Metrics) backend.Client {
	ib := &instrumentedBackend{inner: inner, metrics: metrics}
	if inc, ok := inner.(backend.Incrementer); ok {
		return &instrumentedIncrementer{instrumentedBackend: ib, inc: inc}
	}
	return ib
}

func (b *instrumentedBackend) start(ctx context.Context, op, table string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := backendTracer.Start(ctx, "backend."+op, trace.WithAttributes(
		attribute.String("backend.op", op),
		attribute.String("backend.table", table),
	))
	return ctx, func(err error) {
		if err != nil && !backend.IsNoRows(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		b.metrics.ObserveBackend(op, table, err, time.Since(start))
	}
}

func (b *instrumentedBackend) SignUp(ctx context.Context, email, password string) (*backend.AuthResult, error) {
	ctx, done := b.start(ctx, "signup", "")
	res, err := b.inner.SignUp(ctx, email, password)
	done(err)
	return res, err
}

func (b *instrumentedBackend) SignIn(ctx context.Context, email, password string) (*backend.AuthResult, error) {
	ctx, done := b.start(ctx, "signin", "")
	res, err := b.inner.SignIn(ctx, email, password)
	done(err)
	return res, err
}

func (b *instrumentedBackend) SignOut(ctx context.Context, accessToken string) error {
	ctx, done := b.start(ctx, "signout", "")
	err := b.inner.SignOut(ctx, accessToken)
	done(err)
	return err
}

func (b *instrumentedBackend) GetSession(ctx context.Context, accessToken string) (*backend.Session, error) {
	ctx, done := b.start(ctx, "get_session", "")
	s, err := b.inner.GetSession(ctx, accessToken)
	done(err)
	return s, err
}

func (b *instrumentedBackend) Refresh(ctx context.Context, refreshToken string) (*backend.Session, error) {
	ctx, done := b.start(ctx, "refresh", "")
	s, err := b.inner.Refresh(ctx, refreshToken)
	done(err)
	return s, err
}

func (b *instrumentedBackend) Select(ctx context.Context, q backend.Query, dest any) error {
	ctx, done := b.start(ctx, "select", q.Table)
	err := b.inner.Select(ctx, q, dest)
	done(err)
	return err
}

func (b *instrumentedBackend) Count(ctx context.Context, table string, filters ...backend.Filter) (int64, error) {
	ctx, done := b.start(ctx, "count", table)
	n, err := b.inner.Count(ctx, table, filters...)
	done(err)
	return n, err
}

func (b *instrumentedBackend) Insert(ctx context.Context, table string, row map[string]any) error {
	ctx, done := b.start(ctx, "insert", table)
	err := b.inner.Insert(ctx, table, row)
	done(err)
	return err
}

func (b *instrumentedBackend) Update(ctx context.Context, table string, fields map[string]any, filters ...backend.Filter) error {
	ctx, done := b.start(ctx, "update", table)
	err := b.inner.Update(ctx, table, fields, filters...)
	done(err)
	return err
}

func (b *instrumentedBackend) Close() error { return b.inner.Close() }

func (b *instrumentedIncrementer) Increment(ctx context.Context, table, column string, by int, filters ...backend.Filter) (int, error) {
	ctx, done := b.start(ctx, "increment", table)
	n, err := b.inc.Increment(ctx, table, column, by, filters...)
	done(err)
	return n, err
}
