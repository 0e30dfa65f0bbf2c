package web

import (
	"net/http"

	"budgetweb/internal/backend"
	"budgetweb/internal/forms"
)

func (a *App) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "login", pageData{
		Title: "Sign in",
		Form:  forms.LoginForm{},
	})
}

// handleLoginSubmit validates the draft, then issues the single login call.
// On success the backend's session cookie is mirrored to the browser and the
// store is replaced with the confirmed user. On failure the server message
// is attached to both fields so the response does not disclose which one
// was wrong.
func (a *App) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.render(w, r, http.StatusBadRequest, "login", pageData{
			Title: "Sign in",
			Form:  forms.LoginForm{},
			Flash: flashError("Could not read the submitted form"),
		})
		return
	}

	form := forms.LoginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	if errs := form.Validate(); errs != nil {
		a.render(w, r, http.StatusUnprocessableEntity, "login", pageData{
			Title:  "Sign in",
			Form:   form,
			Errors: errs,
		})
		return
	}

	user, sid, err := a.backend.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		msg := backend.Message(err)
		a.render(w, r, http.StatusUnprocessableEntity, "login", pageData{
			Title:  "Sign in",
			Form:   form,
			Errors: forms.Errors{"email": msg, "password": msg},
			Flash:  flashError(msg),
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	a.sessions.For(sid).Login(*user)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "register", pageData{
		Title: "Create account",
		Form:  forms.RegisterForm{},
	})
}

func (a *App) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.render(w, r, http.StatusBadRequest, "register", pageData{
			Title: "Create account",
			Form:  forms.RegisterForm{},
			Flash: flashError("Could not read the submitted form"),
		})
		return
	}

	form := forms.RegisterForm{
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
		UniqueName:      r.PostFormValue("unique_name"),
		DisplayName:     r.PostFormValue("display_name"),
	}

	if errs := form.Validate(); errs != nil {
		a.render(w, r, http.StatusUnprocessableEntity, "register", pageData{
			Title:  "Create account",
			Form:   form,
			Errors: errs,
		})
		return
	}

	msg, err := a.backend.Register(r.Context(), backend.RegisterRequest{
		Email:       form.Email,
		Password:    form.Password,
		UniqueName:  form.UniqueName,
		DisplayName: form.DisplayName,
	})
	if err != nil {
		a.render(w, r, http.StatusUnprocessableEntity, "register", pageData{
			Title: "Create account",
			Form:  form,
			Flash: flashError(backend.Message(err)),
		})
		return
	}

	setFlash(w, flashSuccess("Success", msg))
	http.Redirect(w, r, "/auth/register", http.StatusSeeOther)
}

func (a *App) handleForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "forgot_password", pageData{
		Title: "Forgot password",
		Form:  forms.ForgotPasswordForm{},
	})
}

func (a *App) handleForgotPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.render(w, r, http.StatusBadRequest, "forgot_password", pageData{
			Title: "Forgot password",
			Form:  forms.ForgotPasswordForm{},
			Flash: flashError("Could not read the submitted form"),
		})
		return
	}

	form := forms.ForgotPasswordForm{Email: r.PostFormValue("email")}

	if errs := form.Validate(); errs != nil {
		a.render(w, r, http.StatusUnprocessableEntity, "forgot_password", pageData{
			Title:  "Forgot password",
			Form:   form,
			Errors: errs,
		})
		return
	}

	msg, err := a.backend.RequestPasswordChange(r.Context(), form.Email)
	if err != nil {
		a.render(w, r, http.StatusUnprocessableEntity, "forgot_password", pageData{
			Title: "Forgot password",
			Form:  form,
			Flash: flashError(backend.Message(err)),
		})
		return
	}

	setFlash(w, flashSuccess("Success", msg))
	http.Redirect(w, r, "/auth/forgot-password", http.StatusSeeOther)
}

func (a *App) handleResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "reset_password", pageData{
		Title: "Reset password",
		Form:  forms.ResetPasswordForm{},
		Token: r.URL.Query().Get("token"),
	})
}

// handleResetPasswordSubmit passes the opaque token from the URL straight
// through to the backend. Without a token no request is made at all.
func (a *App) handleResetPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.render(w, r, http.StatusBadRequest, "reset_password", pageData{
			Title: "Reset password",
			Form:  forms.ResetPasswordForm{},
			Flash: flashError("Could not read the submitted form"),
			Token: r.URL.Query().Get("token"),
		})
		return
	}

	token := r.URL.Query().Get("token")
	form := forms.ResetPasswordForm{
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}

	if token == "" {
		a.render(w, r, http.StatusUnprocessableEntity, "reset_password", pageData{
			Title: "Reset password",
			Form:  form,
			Flash: flashError("Token is missing"),
		})
		return
	}

	if errs := form.Validate(); errs != nil {
		a.render(w, r, http.StatusUnprocessableEntity, "reset_password", pageData{
			Title:  "Reset password",
			Form:   form,
			Errors: errs,
			Token:  token,
		})
		return
	}

	msg, err := a.backend.ChangeUserPassword(r.Context(), token, form.Password)
	if err != nil {
		a.render(w, r, http.StatusUnprocessableEntity, "reset_password", pageData{
			Title: "Reset password",
			Form:  form,
			Flash: flashError(backend.Message(err)),
			Token: token,
		})
		return
	}

	setFlash(w, flashSuccess("Success", msg))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout invokes the backend's logout endpoint, then clears the local
// session unconditionally. The cookie's server-side invalidation is
// authoritative; from here logout is best-effort.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	sid := sessionIDFrom(r.Context())

	if sid != "" {
		if err := a.backend.Logout(r.Context(), sid); err != nil {
			a.loggerFrom(r.Context()).Warn(r.Context(), "backend logout failed", "error", err.Error())
		}
		a.sessions.Drop(sid)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
