package web

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"budgetweb/internal/session"
)

// withRequestID tags every request with a fresh id and a request-scoped
// logger carrying it.
func (a *App) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		logger := a.logger.With("request_id", id, "method", r.Method, "path", r.URL.Path)

		ctx := context.WithValue(r.Context(), loggerContextKey, logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withLogging logs one line per request.
func (a *App) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.loggerFrom(r.Context()).Info(r.Context(), "request")
		next.ServeHTTP(w, r)
	})
}

// withSession hydrates the per-browser session store before the page
// renders. With no session cookie the request runs against a transient
// anonymous store; with one, the backend's current-user lookup decides.
// Any lookup failure is indistinguishable from "not logged in" (fail-closed,
// no retry).
func (a *App) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		ck, err := r.Cookie(a.cookieName)
		if err != nil || ck.Value == "" {
			store := session.NewStore()
			session.Hydrate(store, nil)
			ctx = context.WithValue(ctx, storeContextKey, store)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		user, err := a.backend.CurrentUser(ctx, ck.Value)
		if err != nil {
			// The cookie did not resolve to a user, so no store is retained
			// for it; a managed entry per arbitrary cookie value would let
			// clients grow the map without bound. Any store from a previous
			// successful hydration is dropped.
			a.loggerFrom(ctx).Warn(ctx, "current-user lookup failed, treating as logged out", "error", err.Error())
			a.sessions.Drop(ck.Value)

			store := session.NewStore()
			session.Hydrate(store, nil)
			ctx = context.WithValue(ctx, storeContextKey, store)
			ctx = context.WithValue(ctx, sessionIDContextKey, ck.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		store := a.sessions.For(ck.Value)
		session.Hydrate(store, user)

		ctx = context.WithValue(ctx, storeContextKey, store)
		ctx = context.WithValue(ctx, sessionIDContextKey, ck.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
