package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"budgetweb/internal/logging"
	"budgetweb/internal/models"
)

// HTTPClient is the production Client. It talks JSON to the backend except
// for the profile update, which is multipart. No timeout is configured here;
// the transport's defaults apply.
type HTTPClient struct {
	baseURL    string
	cookieName string
	httpClient *http.Client
	logger     logging.Logger
}

// NewHTTPClient builds a client for the backend at baseURL. cookieName is
// the name of the backend's session cookie (normally "sessionid").
func NewHTTPClient(baseURL, cookieName string, logger logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cookieName: cookieName,
		httpClient: &http.Client{},
		logger:     logger.With("component", "backend"),
	}
}

// messageResponse is the backend's confirmation envelope.
type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse is the backend's failure envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	body := map[string]string{"email": email, "password": password}

	resp, err := c.doJSON(ctx, http.MethodPost, "/users/login/", body, "")
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", c.decodeError(resp)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, "", fmt.Errorf("decoding login response: %w", err)
	}

	sessionID := c.sessionCookie(resp)
	if sessionID == "" {
		return nil, "", fmt.Errorf("login response carried no %s cookie", c.cookieName)
	}
	return &user, sessionID, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (string, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/users/register", req, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	return c.decodeMessage(resp)
}

func (c *HTTPClient) RequestPasswordChange(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}

	resp, err := c.doJSON(ctx, http.MethodPost, "/users/request-password-change", body, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	return c.decodeMessage(resp)
}

func (c *HTTPClient) ChangeUserPassword(ctx context.Context, token, password string) (string, error) {
	body := map[string]string{"token": token, "password": password}

	resp, err := c.doJSON(ctx, http.MethodPost, "/users/change-user-password", body, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	return c.decodeMessage(resp)
}

func (c *HTTPClient) UpdateUser(ctx context.Context, sessionID string, upd ProfileUpdate) (*models.User, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"display_name": upd.DisplayName,
		"birth_date":   upd.BirthDate,
		"about_me":     upd.AboutMe,
		"pronouns":     upd.Pronouns,
		"github_link":  upd.GithubLink,
		"phone_number": upd.PhoneNumber,
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := mw.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("writing %s field: %w", name, err)
		}
	}
	if upd.Avatar != nil {
		fw, err := mw.CreateFormFile("avatar", upd.Avatar.Filename)
		if err != nil {
			return nil, fmt.Errorf("writing avatar part: %w", err)
		}
		if _, err := fw.Write(upd.Avatar.Data); err != nil {
			return nil, fmt.Errorf("writing avatar bytes: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPatch, "/users/update_user", &buf, sessionID)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update user request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.decodeError(resp)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding updated user: %w", err)
	}
	return &user, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context, sessionID string) (*models.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/users/current-user", nil, sessionID)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("current-user request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.decodeError(resp)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding current user: %w", err)
	}
	return &user, nil
}

func (c *HTTPClient) Logout(ctx context.Context, sessionID string) error {
	resp, err := c.doJSON(ctx, http.MethodPost, "/users/logout/", nil, sessionID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// The response is ignored beyond the status line; logout is best-effort.
	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader, sessionID string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: sessionID})
	}
	return req, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, sessionID string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, reader, sessionID)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "backend request failed", "method", method, "path", path, "error", err.Error())
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// decodeMessage reads a {message} envelope, or the error envelope on a
// failure status.
func (c *HTTPClient) decodeMessage(resp *http.Response) (string, error) {
	if resp.StatusCode >= http.StatusBadRequest {
		return "", c.decodeError(resp)
	}
	var mr messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return "", fmt.Errorf("decoding message response: %w", err)
	}
	return mr.Message, nil
}

// decodeError turns a failure response into *Error. A body that is not the
// {error} envelope yields the generic message.
func (c *HTTPClient) decodeError(resp *http.Response) error {
	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Error == "" {
		return &Error{Message: unknownMessage, Status: resp.StatusCode}
	}
	return &Error{Message: er.Error, Status: resp.StatusCode}
}

// sessionCookie extracts the backend session cookie value from a response.
func (c *HTTPClient) sessionCookie(resp *http.Response) string {
	for _, ck := range resp.Cookies() {
		if ck.Name == c.cookieName {
			return ck.Value
		}
	}
	return ""
}
