// Package session implements the client-side mirror of the server's
// authentication state: a Session value that is either authenticated or not,
// a Store that replaces that value wholesale on login/logout and notifies
// subscribers, and a Manager that keeps one Store per browser session.
package session

import "budgetweb/internal/models"

// Session is the client's belief about the current user. It is a tagged
// union: User is only meaningful when Authenticated is true.
type Session struct {
	Authenticated bool
	User          models.User
}

// Anonymous returns the unauthenticated Session value.
func Anonymous() Session {
	return Session{}
}
