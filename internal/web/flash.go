package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookieName = "budgetweb_flash"

// Flash is a one-shot notification shown on the next rendered page, the
// server-side equivalent of the toast. It travels in a short-lived cookie
// and is cleared as soon as it is read.
type Flash struct {
	Kind    string `json:"kind"` // "success" or "error"
	Title   string `json:"title"`
	Message string `json:"message"`
}

func flashSuccess(title, message string) *Flash {
	return &Flash{Kind: "success", Title: title, Message: message}
}

func flashError(message string) *Flash {
	return &Flash{Kind: "error", Title: "Error", Message: message}
}

// setFlash stores the notification for the next render.
func setFlash(w http.ResponseWriter, f *Flash) {
	payload, err := json.Marshal(f)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
	})
}

// popFlash reads and clears the pending notification, if any. A cookie that
// does not decode is dropped silently.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	ck, err := r.Cookie(flashCookieName)
	if err != nil || ck.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	payload, err := base64.URLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(payload, &f); err != nil {
		return nil
	}
	return &f
}
