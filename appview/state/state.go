package state

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/smslycloud/codeweb/appview"
	"github.com/smslycloud/codeweb/appview/auth"
	"github.com/smslycloud/codeweb/appview/db"
	"github.com/smslycloud/codeweb/appview/pages"
	"github.com/smslycloud/codeweb/client"
	"github.com/smslycloud/codeweb/log"
	"github.com/smslycloud/codeweb/types"
)

type State struct {
	db     *db.DB
	auth   *auth.Auth
	pages  *pages.Pages
	config *appview.Config
	l      *slog.Logger
}

func Make(c *appview.Config, l *slog.Logger) (*State, error) {
	d, err := db.Make(c.DbPath)
	if err != nil {
		return nil, err
	}

	a, err := auth.Make(c, d)
	if err != nil {
		d.Close()
		return nil, err
	}

	return &State{
		db:     d,
		auth:   a,
		pages:  pages.NewPages(),
		config: c,
		l:      l,
	}, nil
}

func (s *State) Close() error {
	return s.db.Close()
}

// PurgeSessions drops expired sessions every interval until ctx is done.
func (s *State) PurgeSessions(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := s.db.PurgeExpired(ctx, now)
			if err != nil {
				s.l.Error("failed to purge sessions", "error", err)
				continue
			}
			if n > 0 {
				s.l.Info("purged expired sessions", "count", n)
			}
		}
	}
}

func (s *State) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := log.FromContext(ctx)

	switch r.Method {
	case http.MethodGet:
		if s.auth.GetToken(r) != "" {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		if err := s.pages.Login(w, pages.LoginParams{}); err != nil {
			l.Error("failed to render login", "error", err)
			s.pages.Error500(w)
		}
	case http.MethodPost:
		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")
		if username == "" || password == "" {
			s.pages.Notice(w, "login-msg", "Username and password are required.")
			return
		}

		session, err := s.auth.CreateSession(ctx, username, password)
		if err != nil {
			l.Warn("login failed", "username", username, "error", err)
			s.pages.Notice(w, "login-msg", client.Message(err, "Invalid credentials."))
			return
		}

		if err := s.auth.StoreSession(r, w, session.Token, session.User); err != nil {
			l.Error("storing session", "username", username, "error", err)
			s.pages.Notice(w, "login-msg", "Failed to sign in. Try again later.")
			return
		}

		l.Info("logged in", "username", session.User.Username)
		s.pages.HxRedirect(w, "/dashboard")
	}
}

// Signup creates an account at the API and signs the new user in.
func (s *State) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := log.FromContext(ctx)

	switch r.Method {
	case http.MethodGet:
		if s.auth.GetToken(r) != "" {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		if err := s.pages.Signup(w, pages.SignupParams{}); err != nil {
			l.Error("failed to render signup", "error", err)
			s.pages.Error500(w)
		}
	case http.MethodPost:
		req := types.RegisterRequest{
			Username: strings.TrimSpace(r.FormValue("username")),
			Email:    strings.TrimSpace(r.FormValue("email")),
			Password: r.FormValue("password"),
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			s.pages.Notice(w, "signup-msg", "Username, email and password are required.")
			return
		}

		session, err := s.auth.CreateAccount(ctx, req)
		if err != nil {
			l.Warn("signup failed", "username", req.Username, "error", err)
			s.pages.Notice(w, "signup-msg", client.Message(err, "Failed to create account."))
			return
		}

		if err := s.auth.StoreSession(r, w, session.Token, session.User); err != nil {
			l.Error("storing session", "username", req.Username, "error", err)
			s.pages.Notice(w, "signup-msg", "Account created, but signing in failed. Try logging in.")
			return
		}

		l.Info("signed up", "username", session.User.Username)
		s.pages.HxRedirect(w, "/dashboard")
	}
}

func (s *State) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.ClearSession(r, w); err != nil {
		log.FromContext(r.Context()).Error("failed to clear session", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *State) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(s))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	r.Get("/login", s.Login)
	r.Post("/login", s.Login)
	r.Get("/signup", s.Signup)
	r.Post("/signup", s.Signup)
	r.Post("/logout", s.Logout)
	r.Get("/healthz", s.Health)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s))

		r.Get("/dashboard", s.Dashboard)
		r.Get("/repos/new", s.NewRepo)
		r.Post("/repos/new", s.NewRepo)

		r.Route("/repos/{name}", func(r chi.Router) {
			r.Get("/", s.RepoIndex)
			r.Get("/commits", s.tabRedirect(pages.TabCommits))
			r.Get("/issues", s.tabRedirect(pages.TabIssues))

			r.Get("/issues/new", s.NewIssue)
			r.Post("/issues/new", s.NewIssue)

			r.Route("/issues/{issue}", func(r chi.Router) {
				r.Get("/", s.RepoSingleIssue)
				r.Post("/close", s.CloseIssue)
				r.Post("/reopen", s.ReopenIssue)
				r.Post("/comments", s.IssueComment)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.pages.Error404(w)
	})

	return r
}
