package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/smslycloud/codeweb/appview"
	"github.com/smslycloud/codeweb/appview/db"
	"github.com/smslycloud/codeweb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *Auth {
	t.Helper()
	d, err := db.Make(filepath.Join(t.TempDir(), "appview.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	a, err := Make(&appview.Config{
		CookieSecret: "0123456789abcdef0123456789abcdef",
		APIEndpoint:  "http://api.invalid",
		SessionTTL:   time.Hour,
		Dev:          true,
	}, d)
	require.NoError(t, err)
	return a
}

// withCookies copies the cookies a response set onto a fresh request.
func withCookies(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestNoSession(t *testing.T) {
	a := setup(t)
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Empty(t, a.GetToken(r))
	assert.Nil(t, a.GetUser(r))
	_, err := a.AuthorizedClient(r)
	assert.ErrorIs(t, err, db.ErrSessionNotFound)
}

func TestStoreAndRead(t *testing.T) {
	a := setup(t)

	rec := httptest.NewRecorder()
	err := a.StoreSession(httptest.NewRequest(http.MethodPost, "/login", nil), rec, "secret-token", types.User{ID: 3, Username: "alice"})
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, appview.SessionName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotContains(t, cookies[0].Value, "secret-token")

	r := withCookies(rec)
	assert.Equal(t, "secret-token", a.GetToken(r))
	assert.Equal(t, &User{Id: 3, Username: "alice"}, a.GetUser(r))

	c, err := a.AuthorizedClient(r)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestCookieLivesAsLongAsSession(t *testing.T) {
	a := setup(t)

	rec := httptest.NewRecorder()
	require.NoError(t, a.StoreSession(httptest.NewRequest(http.MethodPost, "/login", nil), rec, "tok", types.User{ID: 1, Username: "bob"}))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, int(time.Hour.Seconds()), cookies[0].MaxAge)
}

func TestStoreFailureIsNotMissingSession(t *testing.T) {
	a := setup(t)

	rec := httptest.NewRecorder()
	require.NoError(t, a.StoreSession(httptest.NewRequest(http.MethodPost, "/login", nil), rec, "tok", types.User{ID: 1, Username: "bob"}))
	r := withCookies(rec)

	require.NoError(t, a.db.Close())

	_, err := a.AuthorizedClient(r)
	require.Error(t, err)
	assert.NotErrorIs(t, err, db.ErrSessionNotFound)
}

func TestClearSession(t *testing.T) {
	a := setup(t)

	rec := httptest.NewRecorder()
	require.NoError(t, a.StoreSession(httptest.NewRequest(http.MethodPost, "/login", nil), rec, "tok", types.User{ID: 1, Username: "bob"}))
	r := withCookies(rec)

	require.NoError(t, a.ClearSession(r, httptest.NewRecorder()))

	// the old cookie now points at a deleted row
	assert.Empty(t, a.GetToken(r))
}

func TestMakeRequiresSecret(t *testing.T) {
	_, err := Make(&appview.Config{}, nil)
	assert.Error(t, err)
}
