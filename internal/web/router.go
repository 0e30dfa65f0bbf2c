package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router builds the page routes. Every route runs behind request-id,
// logging, and session-hydration middleware.
func (a *App) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", a.handleLanding).Methods(http.MethodGet)
	r.HandleFunc("/healthz", a.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/auth/login", a.handleLoginPage).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", a.handleLoginSubmit).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", a.handleRegisterPage).Methods(http.MethodGet)
	r.HandleFunc("/auth/register", a.handleRegisterSubmit).Methods(http.MethodPost)
	r.HandleFunc("/auth/forgot-password", a.handleForgotPasswordPage).Methods(http.MethodGet)
	r.HandleFunc("/auth/forgot-password", a.handleForgotPasswordSubmit).Methods(http.MethodPost)
	r.HandleFunc("/auth/password/change-password", a.handleResetPasswordPage).Methods(http.MethodGet)
	r.HandleFunc("/auth/password/change-password", a.handleResetPasswordSubmit).Methods(http.MethodPost)

	r.HandleFunc("/user/profile", a.handleProfilePage).Methods(http.MethodGet)
	r.HandleFunc("/user/profile", a.handleProfileSubmit).Methods(http.MethodPost)
	r.HandleFunc("/logout", a.handleLogout).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(a.handleNotFound)

	r.Use(a.withRequestID, a.withLogging, a.withSession)
	return r
}
