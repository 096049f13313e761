package state

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/smslycloud/codeweb/appview/db"
	"github.com/smslycloud/codeweb/client"
	"github.com/smslycloud/codeweb/log"
)

type Middleware func(http.Handler) http.Handler

type clientKey struct{}

// AuthMiddleware turns away requests without a session token before any
// API call is made, and hands the rest an API client bound to that token.
func AuthMiddleware(s *State) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := log.FromContext(r.Context())

			c, err := s.auth.AuthorizedClient(r)
			switch {
			case errors.Is(err, db.ErrSessionNotFound):
				l.Debug("not logged in, redirecting")
				redirectToLogin(w, r)
				return
			case err != nil:
				l.Error("session store failed", "error", err)
				s.pages.Error503(w)
				return
			}

			ctx := context.WithValue(r.Context(), clientKey{}, c)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger hands every request a logger carrying its method and
// path, and logs the outcome.
func RequestLogger(s *State) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			l := s.l.With("method", r.Method, "path", r.URL.Path)
			next.ServeHTTP(ww, r.WithContext(log.IntoContext(r.Context(), l)))

			l.Info("request",
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

func apiClient(r *http.Request) *client.Client {
	c, _ := r.Context().Value(clientKey{}).(*client.Client)
	return c
}

func isHtmx(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if isHtmx(r) {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}

	status := http.StatusTemporaryRedirect
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		status = http.StatusSeeOther
	}
	http.Redirect(w, r, "/login", status)
}

// expired handles a 401 from the API: the stored token is no longer any
// good, so the session goes and the user is sent back to /login. It
// reports whether it wrote a response.
func (s *State) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !client.IsUnauthorized(err) {
		return false
	}

	l := log.FromContext(r.Context())
	l.Info("api rejected session token, logging out")
	if err := s.auth.ClearSession(r, w); err != nil {
		l.Error("failed to clear session", "error", err)
	}
	redirectToLogin(w, r)
	return true
}
