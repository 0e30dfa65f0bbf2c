// Package backend is the REST client for the budgeting backend. The client
// only ships validated payloads and decodes server responses; it never
// implements business rules itself. The session cookie is an opaque
// credential attached to authenticated requests and never parsed.
package backend

import (
	"context"

	"budgetweb/internal/models"
)

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	UniqueName  string `json:"unique_name"`
	DisplayName string `json:"display_name"`
}

// Upload is an in-memory file attached to a profile update.
type Upload struct {
	Filename string
	Data     []byte
}

// ProfileUpdate carries the optional fields of a profile edit. Empty string
// fields are omitted from the multipart body; a nil Avatar means no new
// avatar was chosen.
type ProfileUpdate struct {
	DisplayName string
	BirthDate   string
	AboutMe     string
	Pronouns    string
	GithubLink  string
	PhoneNumber string
	Avatar      *Upload
}

// Client defines the backend operations this web client consumes.
//
// Contract:
//   - Login: authenticate; returns the current-user record and the opaque
//     session id the server set via cookie.
//   - Register / RequestPasswordChange / ChangeUserPassword: return the
//     server-supplied confirmation message.
//   - UpdateUser: multipart profile patch; returns the updated user record.
//   - CurrentUser: cookie-authenticated lookup used during hydration.
//   - Logout: best-effort session invalidation; the response is ignored.
//
// All methods honor context cancellation.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Register(ctx context.Context, req RegisterRequest) (string, error)
	RequestPasswordChange(ctx context.Context, email string) (string, error)
	ChangeUserPassword(ctx context.Context, token, password string) (string, error)
	UpdateUser(ctx context.Context, sessionID string, upd ProfileUpdate) (*models.User, error)
	CurrentUser(ctx context.Context, sessionID string) (*models.User, error)
	Logout(ctx context.Context, sessionID string) error
}
