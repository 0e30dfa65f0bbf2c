// Package web serves the budgeting app's pages: marketing/landing content,
// the authentication flows, and the profile editor. Handlers validate form
// drafts locally, issue at most one backend call per submission, and mirror
// server-confirmed state into the per-browser session store.
package web

import (
	"context"

	"budgetweb/internal/logging"
	"budgetweb/internal/session"
)

type contextKey int

const (
	storeContextKey contextKey = iota
	sessionIDContextKey
	loggerContextKey
)

// storeFrom returns the request's session store. The hydration middleware
// always installs one, so a missing store is a wiring bug; a fresh
// anonymous store keeps such a request fail-closed.
func storeFrom(ctx context.Context) *session.Store {
	if st, ok := ctx.Value(storeContextKey).(*session.Store); ok {
		return st
	}
	return session.NewStore()
}

// sessionIDFrom returns the opaque backend session cookie value, or "".
func sessionIDFrom(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDContextKey).(string)
	return sid
}

// loggerFrom returns the request-scoped logger installed by middleware.
func (a *App) loggerFrom(ctx context.Context) logging.Logger {
	if l, ok := ctx.Value(loggerContextKey).(logging.Logger); ok {
		return l
	}
	return a.logger
}
