package web

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"budgetweb/internal/backend"
	"budgetweb/internal/config"
	"budgetweb/internal/logging"
	"budgetweb/internal/models"
)

// ---- fake backend ----

// fakeBackend implements backend.Client for handler tests. Each method
// records the call and returns the preconfigured result.
type fakeBackend struct {
	Calls []string

	LoginUser *models.User
	LoginSID  string
	LoginErr  error

	LastLoginEmail    string
	LastLoginPassword string

	RegisterMsg string
	RegisterErr error
	LastRequest backend.RegisterRequest

	ForgotMsg string
	ForgotErr error
	LastEmail string

	ChangeMsg    string
	ChangeErr    error
	LastToken    string
	LastPassword string

	UpdatedUser *models.User
	UpdateErr   error
	LastUpdate  backend.ProfileUpdate

	CurrentUserRet *models.User
	CurrentUserErr error

	LogoutErr error
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	f.Calls = append(f.Calls, "Login")
	f.LastLoginEmail = email
	f.LastLoginPassword = password
	return f.LoginUser, f.LoginSID, f.LoginErr
}

func (f *fakeBackend) Register(ctx context.Context, req backend.RegisterRequest) (string, error) {
	f.Calls = append(f.Calls, "Register")
	f.LastRequest = req
	return f.RegisterMsg, f.RegisterErr
}

func (f *fakeBackend) RequestPasswordChange(ctx context.Context, email string) (string, error) {
	f.Calls = append(f.Calls, "RequestPasswordChange")
	f.LastEmail = email
	return f.ForgotMsg, f.ForgotErr
}

func (f *fakeBackend) ChangeUserPassword(ctx context.Context, token, password string) (string, error) {
	f.Calls = append(f.Calls, "ChangeUserPassword")
	f.LastToken = token
	f.LastPassword = password
	return f.ChangeMsg, f.ChangeErr
}

func (f *fakeBackend) UpdateUser(ctx context.Context, sessionID string, upd backend.ProfileUpdate) (*models.User, error) {
	f.Calls = append(f.Calls, "UpdateUser")
	f.LastUpdate = upd
	return f.UpdatedUser, f.UpdateErr
}

func (f *fakeBackend) CurrentUser(ctx context.Context, sessionID string) (*models.User, error) {
	f.Calls = append(f.Calls, "CurrentUser")
	return f.CurrentUserRet, f.CurrentUserErr
}

func (f *fakeBackend) Logout(ctx context.Context, sessionID string) error {
	f.Calls = append(f.Calls, "Logout")
	return f.LogoutErr
}

func (f *fakeBackend) called(method string) bool {
	for _, c := range f.Calls {
		if c == method {
			return true
		}
	}
	return false
}

// ---- helpers ----

func newTestApp(t *testing.T, fb *fakeBackend) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	app, err := NewApp(cfg, fb, logging.NewDiscard())
	require.NoError(t, err)
	return app
}

func do(t *testing.T, app *App, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	app.Router().ServeHTTP(rr, req)
	return rr
}

func postForm(t *testing.T, app *App, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(t, app, req)
}

func someUser() *models.User {
	return &models.User{
		ID:          "u1",
		Email:       "a@b.com",
		DisplayName: "Chloe",
		UniqueName:  "chloe42",
		IsActive:    true,
		DateJoined:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Profile:     models.Profile{ID: "p1"},
	}
}

// ---- login ----

func TestLoginPageRenders(t *testing.T) {
	app := newTestApp(t, &fakeBackend{})

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Sign in to your Budget App account")
}

func TestLoginSubmitMalformedBody(t *testing.T) {
	fb := &fakeBackend{}
	app := newTestApp(t, fb)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("email=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := do(t, app, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "Sign in to your Budget App account")
	require.Contains(t, rr.Body.String(), "Could not read the submitted form")
	require.False(t, fb.called("Login"))
}

func TestLoginSubmitInvalidEmailSkipsBackend(t *testing.T) {
	fb := &fakeBackend{}
	app := newTestApp(t, fb)

	rr := postForm(t, app, "/auth/login", url.Values{
		"email":    {"not-an-email"},
		"password": {"x"},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "Enter a valid email address")
	require.False(t, fb.called("Login"))
}

func TestLoginSubmitSuccess(t *testing.T) {
	fb := &fakeBackend{LoginUser: someUser(), LoginSID: "s3cret"}
	app := newTestApp(t, fb)

	rr := postForm(t, app, "/auth/login", url.Values{
		"email":    {"a@b.com"},
		"password": {"ab"},
	})

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/", rr.Header().Get("Location"))
	require.Equal(t, "a@b.com", fb.LastLoginEmail)

	var sessionCookie *http.Cookie
	for _, ck := range rr.Result().Cookies() {
		if ck.Name == "sessionid" {
			sessionCookie = ck
		}
	}
	require.NotNil(t, sessionCookie)
	require.Equal(t, "s3cret", sessionCookie.Value)

	st := app.sessions.For("s3cret")
	require.True(t, st.Current().Authenticated)
	require.Equal(t, "u1", st.Current().User.ID)
}

func TestLoginSubmitBackendFailureMarksBothFields(t *testing.T) {
	fb := &fakeBackend{LoginErr: &backend.Error{Message: "Invalid email or password.", Status: 400}}
	app := newTestApp(t, fb)

	rr := postForm(t, app, "/auth/login", url.Values{
		"email":    {"a@b.com"},
		"password": {"wrong-pass"},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	body := rr.Body.String()
	// Message attached to both fields plus the notification block.
	require.Equal(t, 3, strings.Count(body, "Invalid email or password."))
}

// ---- register ----

func TestRegisterSubmitPasswordMismatchSkipsBackend(t *testing.T) {
	fb := &fakeBackend{}
	app := newTestApp(t, fb)

	rr := postForm(t, app, "/auth/register", url.Values{
		"email":           {"a@b.com"},
		"password":        {"hunter2"},
		"confirmPassword": {"hunter3"},
		"unique_name":     {"chloe42"},
		"display_name":    {"Chloe"},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "Passwords don&#39;t match")
	require.False(t, fb.called("Register"))
}

func TestRegisterSubmitSuccessFlashesServerMessage(t *testing.T) {
	fb := &fakeBackend{RegisterMsg: "Check your email to confirm."}
	app := newTestApp(t, fb)

	rr := postForm(t, app, "/auth/register", url.Values{
		"email":           {"a@b.com"},
		"password":        {"hunter2"},
		"confirmPassword": {"hunter2"},
		"unique_name":     {"chloe42"},
		"display_name":    {"Chloe"},
	})

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/auth/register", rr.Header().Get("Location"))
	require.Equal(t, "chloe42", fb.LastRequest.UniqueName)

	// The message travels via the flash cookie and shows on the next render.
	req := httptest.NewRequest(http.MethodGet, "/auth/register", nil)
	for _, ck := range rr.Result().Cookies() {
		req.AddCookie(ck)
	}
	next := do(t, app, req)
	require.Contains(t, next.Body.String(), "Check your email to confirm.")
}

// ---- forgot password ----

func TestForgotPasswordSubmit(t *testing.T) {
	fb := &fakeBackend{ForgotMsg: "Reset link sent."}
	app := newTestApp(t, fb)

	rr := postForm(t, app, "/auth/forgot-password", url.Values{"email": {"a@b.com"}})

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "a@b.com", fb.LastEmail)
}

// ---- reset password ----

func TestResetPasswordMissingTokenSkipsBackend(t *testing.T) {
	fb := &fakeBackend{}
	app := newTestApp(t, fb)

	rr := postForm(t, app, "/auth/password/change-password", url.Values{
		"password":        {"new-pass"},
		"confirmPassword": {"new-pass"},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "Token is missing")
	require.False(t, fb.called("ChangeUserPassword"))
}

func TestResetPasswordSubmitPassesTokenThrough(t *testing.T) {
	fb := &fakeBackend{ChangeMsg: "Password changed."}
	app := newTestApp(t, fb)

	rr := postForm(t, app, "/auth/password/change-password?token=opaque-abc", url.Values{
		"password":        {"new-pass"},
		"confirmPassword": {"new-pass"},
	})

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/", rr.Header().Get("Location"))
	require.Equal(t, "opaque-abc", fb.LastToken)
	require.Equal(t, "new-pass", fb.LastPassword)
}

// ---- hydration / navbar ----

func TestHydrationRendersAuthenticatedNavbar(t *testing.T) {
	fb := &fakeBackend{CurrentUserRet: someUser()}
	app := newTestApp(t, fb)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sessionid", Value: "s3cret"})

	rr := do(t, app, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, fb.called("CurrentUser"))
	body := rr.Body.String()
	require.Contains(t, body, "Chloe")
	require.Contains(t, body, "Logout")
	require.NotContains(t, body, "Sign-In")
}

func TestHydrationFailClosedOnLookupError(t *testing.T) {
	fb := &fakeBackend{CurrentUserErr: errors.New("boom")}
	app := newTestApp(t, fb)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sessionid", Value: "stale"})

	rr := do(t, app, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Sign-In")
	require.Equal(t, 0, app.sessions.Len())
}

func TestHydrationRetainsNoStoresForUnresolvedCookies(t *testing.T) {
	fb := &fakeBackend{CurrentUserErr: errors.New("no such session")}
	app := newTestApp(t, fb)

	// Arbitrary cookie values must not accumulate managed stores.
	for i := 0; i < 1000; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: "bogus-" + strconv.Itoa(i)})
		rr := do(t, app, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	require.Equal(t, 0, app.sessions.Len())
}

func TestHydrationDropsStaleStoreOnLookupFailure(t *testing.T) {
	fb := &fakeBackend{LoginUser: someUser(), LoginSID: "s3cret", CurrentUserRet: someUser()}
	app := newTestApp(t, fb)

	postForm(t, app, "/auth/login", url.Values{
		"email":    {"a@b.com"},
		"password": {"ab"},
	})
	require.Equal(t, 1, app.sessions.Len())

	fb.CurrentUserErr = errors.New("session expired")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sessionid", Value: "s3cret"})
	do(t, app, req)

	require.Equal(t, 0, app.sessions.Len())
}

func TestHydrationWithoutCookieIsAnonymous(t *testing.T) {
	fb := &fakeBackend{}
	app := newTestApp(t, fb)

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.False(t, fb.called("CurrentUser"))
	require.Contains(t, rr.Body.String(), "Sign-In")
}

// ---- profile ----

func authedRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.AddCookie(&http.Cookie{Name: "sessionid", Value: "s3cret"})
	return req
}

func TestProfilePageRequiresAuth(t *testing.T) {
	app := newTestApp(t, &fakeBackend{})

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/user/profile", nil))

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/auth/login", rr.Header().Get("Location"))
}

func multipartBody(t *testing.T, fields map[string]string, avatarName string, avatar []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if avatarName != "" {
		fw, err := mw.CreateFormFile("avatar", avatarName)
		require.NoError(t, err)
		_, err = fw.Write(avatar)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestProfileSubmitSuccessUpdatesStore(t *testing.T) {
	updated := someUser()
	updated.DisplayName = "Chloe B."
	fb := &fakeBackend{CurrentUserRet: someUser(), UpdatedUser: updated}
	app := newTestApp(t, fb)

	body, contentType := multipartBody(t, map[string]string{
		"display_name": "Chloe B.",
		"pronouns":     "she/her",
	}, "", nil)

	req := authedRequest(http.MethodPost, "/user/profile", body)
	req.Header.Set("Content-Type", contentType)

	rr := do(t, app, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/user/profile", rr.Header().Get("Location"))
	require.Equal(t, "Chloe B.", fb.LastUpdate.DisplayName)
	require.Equal(t, "she/her", fb.LastUpdate.Pronouns)

	st := app.sessions.For("s3cret")
	require.Equal(t, "Chloe B.", st.Current().User.DisplayName)
}

func TestProfileSubmitOversizedAvatarSkipsBackend(t *testing.T) {
	fb := &fakeBackend{CurrentUserRet: someUser()}
	app := newTestApp(t, fb)

	huge := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0}, 1<<20)...)
	body, contentType := multipartBody(t, map[string]string{"display_name": "Chloe"}, "me.png", huge)

	req := authedRequest(http.MethodPost, "/user/profile", body)
	req.Header.Set("Content-Type", contentType)

	rr := do(t, app, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "File size should be less than 1MB")
	require.False(t, fb.called("UpdateUser"))
}

// ---- logout ----

func TestLogoutClearsStoreEvenWhenBackendFails(t *testing.T) {
	fb := &fakeBackend{CurrentUserRet: someUser(), LogoutErr: errors.New("backend down")}
	app := newTestApp(t, fb)

	rr := do(t, app, authedRequest(http.MethodPost, "/logout", nil))

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/", rr.Header().Get("Location"))
	require.True(t, fb.called("Logout"))
	require.Equal(t, 0, app.sessions.Len())

	var cleared bool
	for _, ck := range rr.Result().Cookies() {
		if ck.Name == "sessionid" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	require.True(t, cleared)
}

// ---- audit logging ----

// recordingLogger captures log messages for assertions.
type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	l.msgs = append(l.msgs, msg)
	l.mu.Unlock()
}

func (l *recordingLogger) Info(_ context.Context, msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Warn(_ context.Context, msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Error(_ context.Context, msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) With(_ ...any) logging.Logger                  { return l }

func (l *recordingLogger) count(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int
	for _, m := range l.msgs {
		if m == msg {
			n++
		}
	}
	return n
}

func TestAuditLogsTransitionsNotRehydrations(t *testing.T) {
	fb := &fakeBackend{LoginUser: someUser(), LoginSID: "s3cret", CurrentUserRet: someUser()}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	logger := &recordingLogger{}
	app, err := NewApp(cfg, fb, logger)
	require.NoError(t, err)

	postForm(t, app, "/auth/login", url.Values{
		"email":    {"a@b.com"},
		"password": {"ab"},
	})

	// Rehydrating the same authenticated session is not a transition.
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: "s3cret"})
		do(t, app, req)
	}
	require.Equal(t, 1, logger.count("session authenticated"))

	do(t, app, authedRequest(http.MethodPost, "/logout", nil))
	require.Equal(t, 1, logger.count("session cleared"))
}

// ---- misc ----

func TestHealthz(t *testing.T) {
	app := newTestApp(t, &fakeBackend{})

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t, &fakeBackend{})

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/no-such-page", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "Page not found")
}
