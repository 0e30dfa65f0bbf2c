package session

import "budgetweb/internal/models"

// Hydrate seeds a Store from an optional server-fetched user record. A nil
// record means no valid session cookie existed or the lookup failed; both
// are treated as "not logged in" (fail-closed). Calling Hydrate again with
// a different input yields the result of the last call only.
func Hydrate(store *Store, user *models.User) {
	if user != nil {
		store.Login(*user)
		return
	}
	store.Logout()
}
