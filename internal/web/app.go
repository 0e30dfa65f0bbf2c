package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"sync"

	"budgetweb/internal/backend"
	"budgetweb/internal/config"
	"budgetweb/internal/logging"
	"budgetweb/internal/session"
)

// App wires the router, the backend client, and the per-browser session
// stores into one HTTP server.
type App struct {
	cfg        *config.Config
	logger     logging.Logger
	backend    backend.Client
	sessions   *session.Manager
	templates  map[string]*template.Template
	cookieName string
}

// NewApp builds the application from configuration. The backend client is
// injected so tests can swap in a fake. Every session store the app creates
// gets an audit subscriber logging its transitions.
func NewApp(cfg *config.Config, client backend.Client, logger logging.Logger) (*App, error) {
	templates, err := newTemplates()
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:        cfg,
		logger:     logger.With("component", "web"),
		backend:    client,
		templates:  templates,
		cookieName: cfg.SessionCookieName,
	}
	a.sessions = session.NewManager(func(st *session.Store) {
		st.Subscribe(a.transitionLogger())
	})
	return a, nil
}

// transitionLogger returns a per-store audit subscriber. Rehydration replays
// the same authenticated state on every page request, so only actual changes
// are logged.
func (a *App) transitionLogger() func(session.Session) {
	var mu sync.Mutex
	var last session.Session

	return func(s session.Session) {
		mu.Lock()
		unchanged := s.Authenticated == last.Authenticated && s.User.ID == last.User.ID
		last = s
		mu.Unlock()
		if unchanged {
			return
		}

		ctx := context.Background()
		if s.Authenticated {
			a.logger.Info(ctx, "session authenticated", "user_id", s.User.ID)
			return
		}
		a.logger.Info(ctx, "session cleared")
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured timeout.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.cfg.ListenAddr,
		Handler:      a.Router(),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "serving pages", "addr", a.cfg.ListenAddr, "backend", a.cfg.BackendBaseURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	a.logger.Info(ctx, "shutting down")
	return srv.Shutdown(shutdownCtx)
}
