package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smslycloud/codeweb/types"
	"golang.org/x/xerrors"
)

const (
	UserAgent      = "smsly-code-web"
	DefaultTimeout = 10 * time.Second
	DefaultRef     = "HEAD"
)

// Client talks to the code API on behalf of a single user.
type Client struct {
	endpoint string
	http     *http.Client
}

// New returns a client for the API at endpoint. An empty token yields an
// unauthenticated client, which is only useful for Login and Register.
func New(endpoint, token string) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: BearerTransport{Token: token},
		},
	}
}

func repoPath(name string, rest ...string) string {
	elems := append([]string{"api", "repos", url.PathEscape(name)}, rest...)
	return "/" + strings.Join(elems, "/")
}

func issuePath(name string, id int64, rest ...string) string {
	return repoPath(name, append([]string{"issues", strconv.FormatInt(id, 10)}, rest...)...)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return xerrors.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return xerrors.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return xerrors.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return xerrors.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return xerrors.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

// list fetches a JSON array. Anything that isn't an array decodes to an
// empty list.
func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	items := []T{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return items, nil
	}
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, xerrors.Errorf("decoding %s: %w", path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*types.LoginResponse, error) {
	var resp types.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", types.LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, xerrors.New("login response carried no token")
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req types.RegisterRequest) (*types.User, error) {
	var resp types.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Me(ctx context.Context) (*types.User, error) {
	var u types.User
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Repos(ctx context.Context) ([]types.Repo, error) {
	return list[types.Repo](ctx, c, "/api/repos")
}

func (c *Client) NewRepo(ctx context.Context, req types.NewRepoRequest) (*types.Repo, error) {
	var repo types.Repo
	if err := c.do(ctx, http.MethodPost, "/api/repos", req, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// Tree lists the entries at treePath of ref. An empty ref means HEAD and
// an empty treePath means the root tree.
func (c *Client) Tree(ctx context.Context, name, ref, treePath string) ([]types.TreeEntry, error) {
	if ref == "" {
		ref = DefaultRef
	}
	p := repoPath(name, "tree", url.PathEscape(ref))
	if treePath = strings.Trim(treePath, "/"); treePath != "" {
		segs := strings.Split(treePath, "/")
		for i, s := range segs {
			segs[i] = url.PathEscape(s)
		}
		p += "/" + strings.Join(segs, "/")
	}
	return list[types.TreeEntry](ctx, c, p)
}

func (c *Client) Commits(ctx context.Context, name string) ([]types.Commit, error) {
	return list[types.Commit](ctx, c, repoPath(name, "commits"))
}

func (c *Client) Issues(ctx context.Context, name string) ([]types.Issue, error) {
	return list[types.Issue](ctx, c, repoPath(name, "issues"))
}

func (c *Client) NewIssue(ctx context.Context, name string, req types.NewIssueRequest) (*types.Issue, error) {
	var issue types.Issue
	if err := c.do(ctx, http.MethodPost, repoPath(name, "issues"), req, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *Client) Issue(ctx context.Context, name string, id int64) (*types.Issue, error) {
	var issue types.Issue
	if err := c.do(ctx, http.MethodGet, issuePath(name, id), nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *Client) SetIssueState(ctx context.Context, name string, id int64, state types.IssueState) error {
	return c.do(ctx, http.MethodPatch, issuePath(name, id), types.UpdateIssueRequest{State: state}, nil)
}

func (c *Client) Comments(ctx context.Context, name string, id int64) ([]types.Comment, error) {
	return list[types.Comment](ctx, c, issuePath(name, id, "comments"))
}

func (c *Client) NewComment(ctx context.Context, name string, id int64, body string) (*types.Comment, error) {
	var comment types.Comment
	err := c.do(ctx, http.MethodPost, issuePath(name, id, "comments"), types.NewCommentRequest{Body: body}, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
