package ctxutil

import "context"

type requestDataKey struct{}

// RequestData is filled in by the session middleware once the caller is known.
type RequestData struct {
	AccountID string
	SessionID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}
