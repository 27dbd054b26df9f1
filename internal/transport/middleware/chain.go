package middleware

import "net/http"

// Middleware wraps an http.Handler with cross-cutting behavior.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware so the first argument is the outermost wrapper.
// The router relies on this ordering: RequestID must run before Logger so
// every access log line carries the request id, and Recovery must sit
// outside anything that can panic.
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}
