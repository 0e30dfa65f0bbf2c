package web

import (
	"encoding/json"
	"net/http"
)

func (a *App) handleLanding(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "landing", pageData{Title: "Budget App"})
}

func (a *App) handleNotFound(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusNotFound, "not_found", pageData{Title: "Page not found"})
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
