package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smslycloud/codeweb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerHeader(t *testing.T) {
	var gotAuth, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "tok123").Repos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Equal(t, UserAgent, gotUA)
}

func TestNoTokenNoHeader(t *testing.T) {
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.Write([]byte(`{"token":"t","user":{"id":1,"username":"alice"}}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL, "").Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.False(t, hadAuth)
	assert.Equal(t, "t", resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestPaths(t *testing.T) {
	tests := []struct {
		name   string
		call   func(c *Client) error
		method string
		path   string
	}{
		{
			name:   "repos",
			call:   func(c *Client) error { _, err := c.Repos(context.Background()); return err },
			method: http.MethodGet,
			path:   "/api/repos",
		},
		{
			name:   "root tree",
			call:   func(c *Client) error { _, err := c.Tree(context.Background(), "demo", "", ""); return err },
			method: http.MethodGet,
			path:   "/api/repos/demo/tree/HEAD",
		},
		{
			name:   "nested tree",
			call:   func(c *Client) error { _, err := c.Tree(context.Background(), "demo", "main", "/src/pkg/"); return err },
			method: http.MethodGet,
			path:   "/api/repos/demo/tree/main/src/pkg",
		},
		{
			name:   "commits",
			call:   func(c *Client) error { _, err := c.Commits(context.Background(), "demo"); return err },
			method: http.MethodGet,
			path:   "/api/repos/demo/commits",
		},
		{
			name:   "issues",
			call:   func(c *Client) error { _, err := c.Issues(context.Background(), "demo"); return err },
			method: http.MethodGet,
			path:   "/api/repos/demo/issues",
		},
		{
			name:   "comments",
			call:   func(c *Client) error { _, err := c.Comments(context.Background(), "demo", 4); return err },
			method: http.MethodGet,
			path:   "/api/repos/demo/issues/4/comments",
		},
		{
			name: "set state",
			call: func(c *Client) error {
				return c.SetIssueState(context.Background(), "demo", 4, types.IssueClosed)
			},
			method: http.MethodPatch,
			path:   "/api/repos/demo/issues/4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var method, path string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				method, path = r.Method, r.URL.Path
				w.Write([]byte(`[]`))
			}))
			defer srv.Close()

			require.NoError(t, tt.call(New(srv.URL, "t")))
			assert.Equal(t, tt.method, method)
			assert.Equal(t, tt.path, path)
		})
	}
}

func TestSetIssueStateBody(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL, "t").SetIssueState(context.Background(), "demo", 1, types.IssueOpen))
	assert.Equal(t, map[string]string{"state": "open"}, body)
}

func TestListNonArrayIsEmpty(t *testing.T) {
	for _, payload := range []string{`{"message":"empty"}`, `null`, ``} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(payload))
		}))

		entries, err := New(srv.URL, "t").Tree(context.Background(), "demo", "", "")
		require.NoError(t, err, payload)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
		srv.Close()
	}
}

func TestListDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"aaaaaaaaaa","message":"init","author":"bob","date":"1700000000","mip_verified":true},
			{"id":"bbbbbbbbbb","message":"fix","author":"eve","date":"1700000100","mip_verified":false}
		]`))
	}))
	defer srv.Close()

	commits, err := New(srv.URL, "t").Commits(context.Background(), "demo")
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.True(t, commits[0].MIPVerified)
	assert.Equal(t, "aaaaaaa", commits[0].ShortID())
	assert.Equal(t, "eve", commits[1].Author)
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "flat error", status: http.StatusConflict, body: `{"error":"Repository name already taken"}`, message: "Repository name already taken"},
		{name: "envelope error", status: http.StatusNotFound, body: `{"error":{"code":"NOT_FOUND","message":"Issue not found"}}`, message: "Issue not found"},
		{name: "no body", status: http.StatusInternalServerError, body: ``, message: "internal server error"},
		{name: "html body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, message: "bad gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, "t").Issue(context.Background(), "demo", 1)
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsUnauthorized(&APIError{StatusCode: http.StatusUnauthorized}))
	assert.False(t, IsUnauthorized(&APIError{StatusCode: http.StatusForbidden}))
	assert.True(t, IsNotFound(&APIError{StatusCode: http.StatusNotFound}))

	assert.Equal(t, "Title is required", Message(&APIError{StatusCode: 400, Message: "Title is required"}, "Failed to create issue"))
	assert.Equal(t, "Failed to create issue", Message(&APIError{StatusCode: 500, Message: "internal server error"}, "Failed to create issue"))
	assert.Equal(t, "Failed to create issue", Message(io.EOF, "Failed to create issue"))
}

func TestLoginWithoutTokenFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"id":1}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").Login(context.Background(), "a", "b")
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST /api/auth/register", r.Method+" "+r.URL.Path)
		_, hadAuth := r.Header["Authorization"]
		assert.False(t, hadAuth)
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"User created successfully","user":{"id":9,"username":"carol","email":"c@example.com"}}`))
	}))
	defer srv.Close()

	u, err := New(srv.URL, "").Register(context.Background(), types.RegisterRequest{
		Username: "carol",
		Email:    "c@example.com",
		Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), u.ID)
	assert.Equal(t, map[string]string{"username": "carol", "email": "c@example.com", "password": "pw"}, got)
}

func TestRegisterConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"Username or email already exists"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").Register(context.Background(), types.RegisterRequest{Username: "carol"})
	require.Error(t, err)
	assert.Equal(t, "Username or email already exists", Message(err, "Failed to create account"))
}
