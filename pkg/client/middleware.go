package client

import (
	"log/slog"
	"net/http"
	"time"

	"readmark/pkg/session"
)

// Doer executes a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware decorates a Doer. The chain is composed once at client
// construction so every cross-cutting step is visible and orderable.
type Middleware func(next Doer) Doer

// chainMiddleware wraps base so that the first middleware listed is the
// outermost.
func chainMiddleware(base Doer, mws ...Middleware) Doer {
	wrapped := base
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = mws[i](wrapped)
	}
	return wrapped
}

// withBearerAuth reads the session store at dispatch time and attaches the
// token, when present, as a bearer credential.
func withBearerAuth(store session.Store) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if token, ok := store.Get(); ok {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			return next.Do(req)
		})
	}
}

// withLogging emits one slog line per request outcome, carrying the request
// id the pipeline assigned.
func withLogging(logger *slog.Logger) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			requestLogger := logger.With(
				"request_id", req.Header.Get(requestIDHeader),
				"method", req.Method,
				"path", req.URL.Path,
			)
			resp, err := next.Do(req)
			elapsed := time.Since(start)
			if err != nil {
				requestLogger.Warn("request failed", "error", err, "elapsed", elapsed)
				return nil, err
			}
			requestLogger.Debug("request done", "status", resp.StatusCode, "elapsed", elapsed)
			return resp, nil
		})
	}
}
