package pages

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/smslycloud/codeweb/appview/auth"
	"github.com/smslycloud/codeweb/types"
)

//go:embed templates/*.html
var files embed.FS

type Pages struct {
	mu    sync.Mutex
	cache map[string]*template.Template
}

func NewPages() *Pages {
	return &Pages{
		cache: make(map[string]*template.Template),
	}
}

func (p *Pages) parse(file string) (*template.Template, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if tmpl, found := p.cache[file]; found {
		return tmpl, nil
	}

	tmpl, err := template.New("layout.html").
		Funcs(funcMap()).
		ParseFS(files, "templates/layout.html", "templates/"+file)
	if err != nil {
		return nil, err
	}

	p.cache[file] = tmpl
	return tmpl, nil
}

// execute renders into a buffer; nothing reaches w if the template fails.
func (p *Pages) execute(w io.Writer, file string, params any) error {
	tmpl, err := p.parse(file)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return err
	}

	if rw, ok := w.(http.ResponseWriter); ok {
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	_, err = buf.WriteTo(w)
	return err
}

type LoginParams struct {
	LoggedInUser *auth.User
}

func (p *Pages) Login(w io.Writer, params LoginParams) error {
	return p.execute(w, "login.html", params)
}

type SignupParams struct {
	LoggedInUser *auth.User
}

func (p *Pages) Signup(w io.Writer, params SignupParams) error {
	return p.execute(w, "signup.html", params)
}

type DashboardParams struct {
	LoggedInUser *auth.User
	Repos        []RepoInfo
}

func (p *Pages) Dashboard(w io.Writer, params DashboardParams) error {
	return p.execute(w, "dashboard.html", params)
}

type NewRepoParams struct {
	LoggedInUser *auth.User
}

func (p *Pages) NewRepo(w io.Writer, params NewRepoParams) error {
	return p.execute(w, "newrepo.html", params)
}

type RepoInfo struct {
	Name        string
	Description string
	IsPrivate   bool
}

func NewRepoInfo(r types.Repo) RepoInfo {
	return RepoInfo{
		Name:        r.Name,
		Description: r.Description,
		IsPrivate:   r.IsPrivate,
	}
}

func (r RepoInfo) Visibility() string {
	return types.Repo{IsPrivate: r.IsPrivate}.Visibility()
}

// Path is the escaped URL path of the repository page.
func (r RepoInfo) Path() string {
	return "/repos/" + url.PathEscape(r.Name)
}

const (
	TabCode    = "code"
	TabCommits = "commits"
	TabIssues  = "issues"
)

type RepoIndexParams struct {
	LoggedInUser *auth.User
	RepoInfo     RepoInfo
	ActiveTab    string
	CloneURL     string
	Files        []types.TreeEntry
	Commits      []types.Commit
	Issues       []types.Issue
}

func (p *Pages) RepoIndex(w io.Writer, params RepoIndexParams) error {
	return p.execute(w, "repo.html", params)
}

type RepoSingleIssueParams struct {
	LoggedInUser *auth.User
	RepoInfo     RepoInfo
	IssuePath    string
	Issue        *types.Issue
	Comments     []types.Comment
}

func (p *Pages) RepoSingleIssue(w io.Writer, params RepoSingleIssueParams) error {
	return p.execute(w, "issue.html", params)
}

type RepoNewIssueParams struct {
	LoggedInUser *auth.User
	RepoInfo     RepoInfo
}

func (p *Pages) RepoNewIssue(w io.Writer, params RepoNewIssueParams) error {
	return p.execute(w, "newissue.html", params)
}

type ErrorParams struct {
	LoggedInUser *auth.User
	Status       int
	Title        string
	Message      string
}

func (p *Pages) Error(w http.ResponseWriter, params ErrorParams) error {
	tmpl, err := p.parse("error.html")
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(params.Status)
	_, err = buf.WriteTo(w)
	return err
}

func (p *Pages) Error404(w http.ResponseWriter) error {
	return p.Error(w, ErrorParams{
		Status:  http.StatusNotFound,
		Title:   "Not found",
		Message: "The page you are looking for does not exist.",
	})
}

func (p *Pages) Error500(w http.ResponseWriter) error {
	return p.Error(w, ErrorParams{
		Status:  http.StatusInternalServerError,
		Title:   "Something went wrong",
		Message: "We encountered an error while processing your request.",
	})
}

func (p *Pages) Error503(w http.ResponseWriter) error {
	return p.Error(w, ErrorParams{
		Status:  http.StatusServiceUnavailable,
		Title:   "Service unavailable",
		Message: "Sessions cannot be checked right now. Try again later.",
	})
}
