package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/smslycloud/codeweb/appview"
	"github.com/smslycloud/codeweb/appview/db"
	"github.com/smslycloud/codeweb/client"
	"github.com/smslycloud/codeweb/types"
)

type Auth struct {
	Store       *sessions.CookieStore
	db          *db.DB
	apiEndpoint string
	ttl         time.Duration
}

// User is the logged in user as remembered by the session.
type User struct {
	Id       int64
	Username string
}

func Make(c *appview.Config, d *db.DB) (*Auth, error) {
	if c.CookieSecret == "" {
		return nil, errors.New("cookie secret is empty")
	}

	ttl := c.SessionTTL
	if ttl <= 0 {
		ttl = appview.DefaultSessionTTL
	}

	// the cookie lives exactly as long as the server-side row
	store := sessions.NewCookieStore([]byte(c.CookieSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   !c.Dev,
		SameSite: http.SameSiteLaxMode,
	}

	return &Auth{
		Store:       store,
		db:          d,
		apiEndpoint: c.APIEndpoint,
		ttl:         ttl,
	}, nil
}

// CreateSession exchanges credentials for a bearer token at the API.
func (a *Auth) CreateSession(ctx context.Context, username, password string) (*types.LoginResponse, error) {
	return client.New(a.apiEndpoint, "").Login(ctx, username, password)
}

// CreateAccount registers a new user at the API and signs them in.
func (a *Auth) CreateAccount(ctx context.Context, req types.RegisterRequest) (*types.LoginResponse, error) {
	c := client.New(a.apiEndpoint, "")
	if _, err := c.Register(ctx, req); err != nil {
		return nil, err
	}
	return c.Login(ctx, req.Username, req.Password)
}

func (a *Auth) StoreSession(r *http.Request, w http.ResponseWriter, token string, user types.User) error {
	s, err := a.db.AddSession(r.Context(), token, user.ID, user.Username, a.ttl)
	if err != nil {
		return err
	}

	clientSession, _ := a.Store.Get(r, appview.SessionName)
	clientSession.Values[appview.SessionId] = s.Id
	clientSession.Values[appview.SessionUsername] = user.Username
	return clientSession.Save(r, w)
}

func (a *Auth) session(r *http.Request) (*db.Session, error) {
	clientSession, err := a.Store.Get(r, appview.SessionName)
	if err != nil || clientSession.IsNew {
		return nil, db.ErrSessionNotFound
	}

	id, ok := clientSession.Values[appview.SessionId].(string)
	if !ok || id == "" {
		return nil, db.ErrSessionNotFound
	}

	return a.db.GetSession(r.Context(), id)
}

// GetToken returns the bearer token of the request's session, or "" when
// there is none.
func (a *Auth) GetToken(r *http.Request) string {
	s, err := a.session(r)
	if err != nil {
		return ""
	}
	return s.Token
}

func (a *Auth) GetUser(r *http.Request) *User {
	s, err := a.session(r)
	if err != nil {
		return nil
	}
	return &User{Id: s.UserId, Username: s.Username}
}

func (a *Auth) ClearSession(r *http.Request, w http.ResponseWriter) error {
	clientSession, _ := a.Store.Get(r, appview.SessionName)
	if id, ok := clientSession.Values[appview.SessionId].(string); ok && id != "" {
		if err := a.db.DeleteSession(r.Context(), id); err != nil {
			return err
		}
	}

	clientSession.Values = map[interface{}]interface{}{}
	clientSession.Options.MaxAge = -1
	return clientSession.Save(r, w)
}

// AuthorizedClient returns an API client carrying the session's token.
// It fails with db.ErrSessionNotFound when the request has no live
// session; any other error means the session store itself failed.
func (a *Auth) AuthorizedClient(r *http.Request) (*client.Client, error) {
	s, err := a.session(r)
	if err != nil {
		return nil, err
	}
	return client.New(a.apiEndpoint, s.Token), nil
}
