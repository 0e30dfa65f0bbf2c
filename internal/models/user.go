// Package models defines the user records this client mirrors from the
// backend. Field names follow the backend's JSON wire format; the client
// never derives or mutates these values on its own.
package models

import "time"

// User is the current-user record returned by the backend on login,
// profile update, and the current-user lookup.
type User struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	UniqueName  string  `json:"unique_name"`
	IsActive    bool    `json:"is_active"`
	IsStaff     bool    `json:"is_staff"`
	IsSuperuser bool    `json:"is_superuser"`
	Thumbnail   *string `json:"thumbnail"`
	// The backend spells this key "data_joined"; kept as-is for wire
	// compatibility.
	DateJoined time.Time `json:"data_joined"`
	Profile    Profile   `json:"profile"`
}

// Profile is the nested per-user profile. Optional fields are pointers so
// that "absent" and "empty" survive a round trip unchanged.
type Profile struct {
	ID          string  `json:"id"`
	PhoneNumber *string `json:"phone_number"`
	AboutMe     *string `json:"about_me"`
	Pronouns    *string `json:"pronouns"`
	AvatarLink  *string `json:"avatar_link"`
	BirthDate   *string `json:"birth_date"`
	GithubLink  *string `json:"github_link"`
}

// AvatarURL returns the profile avatar link or the empty string.
func (u User) AvatarURL() string {
	if u.Profile.AvatarLink != nil {
		return *u.Profile.AvatarLink
	}
	return ""
}
