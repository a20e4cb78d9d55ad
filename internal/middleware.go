package internal

import (
	"time"

	"github.com/go-kit/kit/endpoint"
	"golang.org/x/net/context"

	"github.com/derWhity/hackpulse/internal/ctxhelper"
)

// MakeEnsureUserLoggedIn returns a middleware that checks if the session token sent with the current call matches
// the active admin session
func MakeEnsureUserLoggedIn(as AuthService) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			if !as.Authorize(ctx, ctxhelper.Token(ctx)) {
				return nil, ErrNotLoggedIn
			}
			return next(ctx, request)
		}
	}
}

// SimulateLatency returns a middleware that delays every call by the given duration. A zero duration disables it.
func SimulateLatency(d time.Duration) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		if d <= 0 {
			return next
		}
		return func(ctx context.Context, request interface{}) (interface{}, error) {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-t.C:
			}
			return next(ctx, request)
		}
	}
}
