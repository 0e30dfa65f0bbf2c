package web

import (
	"io"
	"net/http"

	"budgetweb/internal/backend"
	"budgetweb/internal/forms"
	"budgetweb/internal/models"
)

// maxProfileBody caps the multipart body we are willing to read. Larger
// than the avatar limit so an oversized file is rejected with the proper
// field message instead of a blunt transport error.
const maxProfileBody = 8 << 20

func (a *App) handleProfilePage(w http.ResponseWriter, r *http.Request) {
	current := storeFrom(r.Context()).Current()
	if !current.Authenticated {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	a.render(w, r, http.StatusOK, "profile", pageData{
		Title: "Your profile",
		Form:  profileFormFrom(current.User),
	})
}

func (a *App) handleProfileSubmit(w http.ResponseWriter, r *http.Request) {
	current := storeFrom(r.Context()).Current()
	if !current.Authenticated {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxProfileBody)
	if err := r.ParseMultipartForm(maxProfileBody); err != nil {
		a.render(w, r, http.StatusBadRequest, "profile", pageData{
			Title: "Your profile",
			Form:  profileFormFrom(current.User),
			Flash: flashError("Could not read the submitted form"),
		})
		return
	}

	form := forms.EditProfileForm{
		DisplayName: r.PostFormValue("display_name"),
		BirthDate:   r.PostFormValue("birth_date"),
		AboutMe:     r.PostFormValue("about_me"),
		Pronouns:    r.PostFormValue("pronouns"),
		GithubLink:  r.PostFormValue("github_link"),
		PhoneNumber: r.PostFormValue("phone_number"),
	}

	file, header, err := r.FormFile("avatar")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(io.LimitReader(file, forms.MaxAvatarSize+1))
		if readErr != nil {
			a.render(w, r, http.StatusUnprocessableEntity, "profile", pageData{
				Title: "Your profile",
				Form:  form,
				Flash: flashError("Could not read the avatar file"),
			})
			return
		}
		form.Avatar = &forms.AvatarUpload{Filename: header.Filename, Data: data}
	}

	if errs := form.Validate(); errs != nil {
		a.render(w, r, http.StatusUnprocessableEntity, "profile", pageData{
			Title:  "Your profile",
			Form:   form,
			Errors: errs,
		})
		return
	}

	upd := backend.ProfileUpdate{
		DisplayName: form.DisplayName,
		BirthDate:   form.BirthDate,
		AboutMe:     form.AboutMe,
		Pronouns:    form.Pronouns,
		GithubLink:  form.GithubLink,
		PhoneNumber: form.PhoneNumber,
	}
	if form.Avatar != nil {
		upd.Avatar = &backend.Upload{
			Filename: form.Avatar.Filename,
			Data:     form.Avatar.Data,
		}
	}

	updated, err := a.backend.UpdateUser(r.Context(), sessionIDFrom(r.Context()), upd)
	if err != nil {
		a.render(w, r, http.StatusUnprocessableEntity, "profile", pageData{
			Title: "Your profile",
			Form:  form,
			Flash: flashError(backend.Message(err)),
		})
		return
	}

	storeFrom(r.Context()).Login(*updated)

	setFlash(w, flashSuccess("Profile Updated", "Your profile has been updated"))
	http.Redirect(w, r, "/user/profile", http.StatusSeeOther)
}

// profileFormFrom prefills the editor with the mirrored user record.
func profileFormFrom(u models.User) forms.EditProfileForm {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	return forms.EditProfileForm{
		DisplayName: u.DisplayName,
		BirthDate:   deref(u.Profile.BirthDate),
		AboutMe:     deref(u.Profile.AboutMe),
		Pronouns:    deref(u.Profile.Pronouns),
		GithubLink:  deref(u.Profile.GithubLink),
		PhoneNumber: deref(u.Profile.PhoneNumber),
	}
}
