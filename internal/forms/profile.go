package forms

import (
	"github.com/gabriel-vasile/mimetype"
)

// MaxAvatarSize is the largest avatar upload accepted locally (1 MiB).
// The backend enforces the same limit; rejecting here avoids the request.
const MaxAvatarSize = 1 << 20

// AvatarUpload is a chosen avatar file held in memory until submission.
type AvatarUpload struct {
	Filename string
	Data     []byte
}

// EditProfileForm is the profile editor draft. Everything but the display
// name is optional; empty optional fields are omitted from the request.
type EditProfileForm struct {
	DisplayName string `form:"display_name" validate:"required,min=2"`
	BirthDate   string `form:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	AboutMe     string `form:"about_me"`
	Pronouns    string `form:"pronouns"`
	GithubLink  string `form:"github_link"`
	PhoneNumber string `form:"phone_number"`
	Avatar      *AvatarUpload
}

func (f EditProfileForm) Validate() Errors {
	errs := check(f)

	if f.Avatar != nil {
		if msg := checkAvatar(f.Avatar); msg != "" {
			if errs == nil {
				errs = Errors{}
			}
			errs["avatar"] = msg
		}
	}
	return errs
}

// checkAvatar enforces the size cap and the jpeg/png allow-list. Content is
// sniffed rather than trusting the file extension.
func checkAvatar(a *AvatarUpload) string {
	if len(a.Data) > MaxAvatarSize {
		return "File size should be less than 1MB"
	}
	mt := mimetype.Detect(a.Data)
	if !mt.Is("image/jpeg") && !mt.Is("image/png") {
		return "Unsupported file format"
	}
	return ""
}
