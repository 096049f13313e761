package state

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/smslycloud/codeweb/appview/pages"
	"github.com/smslycloud/codeweb/client"
	"github.com/smslycloud/codeweb/log"
	"github.com/smslycloud/codeweb/types"
)

func (s *State) Dashboard(w http.ResponseWriter, r *http.Request) {
	l := log.FromContext(r.Context())

	repos, err := apiClient(r).Repos(r.Context())
	if err != nil {
		if s.expired(w, r, err) {
			return
		}
		l.Error("failed to fetch repos", "error", err)
	}

	infos := make([]pages.RepoInfo, 0, len(repos))
	for _, repo := range repos {
		infos = append(infos, pages.NewRepoInfo(repo))
	}

	err = s.pages.Dashboard(w, pages.DashboardParams{
		LoggedInUser: s.auth.GetUser(r),
		Repos:        infos,
	})
	if err != nil {
		l.Error("failed to render dashboard", "error", err)
		s.pages.Error500(w)
	}
}

func (s *State) NewRepo(w http.ResponseWriter, r *http.Request) {
	l := log.FromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		err := s.pages.NewRepo(w, pages.NewRepoParams{
			LoggedInUser: s.auth.GetUser(r),
		})
		if err != nil {
			l.Error("failed to render new repo form", "error", err)
			s.pages.Error500(w)
		}
	case http.MethodPost:
		name := strings.TrimSpace(r.FormValue("name"))
		if name == "" {
			s.pages.Notice(w, "repo-msg", "Repository name is required.")
			return
		}

		repo, err := apiClient(r).NewRepo(r.Context(), types.NewRepoRequest{
			Name:        name,
			Description: strings.TrimSpace(r.FormValue("description")),
			IsPrivate:   r.FormValue("is_private") == "on",
		})
		if err != nil {
			if s.expired(w, r, err) {
				return
			}
			l.Error("failed to create repo", "name", name, "error", err)
			s.pages.Notice(w, "repo-msg", client.Message(err, "Failed to create repository"))
			return
		}

		l.Info("created repo", "name", repo.Name)
		s.pages.HxLocation(w, "/dashboard")
	}
}

func activeTab(r *http.Request) string {
	switch tab := r.URL.Query().Get("tab"); tab {
	case pages.TabCommits, pages.TabIssues:
		return tab
	default:
		return pages.TabCode
	}
}

func (s *State) tabRedirect(tab string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, fmt.Sprintf("%s?tab=%s", repoInfo(r).Path(), tab), http.StatusSeeOther)
	}
}

type repoData struct {
	info    pages.RepoInfo
	files   []types.TreeEntry
	commits []types.Commit
	issues  []types.Issue
}

// fetchRepo loads everything the repository page shows. The calls run
// concurrently and each failure leaves its list empty. The returned error
// is only ever a 401, which the caller must act on.
func (s *State) fetchRepo(ctx context.Context, c *client.Client, name string) (*repoData, error) {
	d := &repoData{
		info:    pages.RepoInfo{Name: name},
		files:   []types.TreeEntry{},
		commits: []types.Commit{},
		issues:  []types.Issue{},
	}

	var (
		wg           sync.WaitGroup
		unauthorized atomic.Pointer[error]
	)

	check := func(what string, err error) bool {
		if err == nil {
			return true
		}
		if client.IsUnauthorized(err) {
			unauthorized.Store(&err)
		}
		log.FromContext(ctx).Error("failed to fetch "+what, "repo", name, "error", err)
		return false
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		repos, err := c.Repos(ctx)
		if !check("repos", err) {
			return
		}
		for _, repo := range repos {
			if repo.Name == name {
				d.info.Description = repo.Description
				d.info.IsPrivate = repo.IsPrivate
				break
			}
		}
	}()
	go func() {
		defer wg.Done()
		files, err := c.Tree(ctx, name, client.DefaultRef, "")
		if check("tree", err) {
			d.files = files
		}
	}()
	go func() {
		defer wg.Done()
		commits, err := c.Commits(ctx, name)
		if check("commits", err) {
			d.commits = commits
		}
	}()
	go func() {
		defer wg.Done()
		issues, err := c.Issues(ctx, name)
		if check("issues", err) {
			d.issues = issues
		}
	}()
	wg.Wait()

	if err := unauthorized.Load(); err != nil {
		return nil, *err
	}
	return d, nil
}

func (s *State) RepoIndex(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	d, err := s.fetchRepo(r.Context(), apiClient(r), name)
	if err != nil {
		s.expired(w, r, err)
		return
	}

	err = s.pages.RepoIndex(w, pages.RepoIndexParams{
		LoggedInUser: s.auth.GetUser(r),
		RepoInfo:     d.info,
		ActiveTab:    activeTab(r),
		CloneURL:     s.cloneURL(name),
		Files:        d.files,
		Commits:      d.commits,
		Issues:       d.issues,
	})
	if err != nil {
		log.FromContext(r.Context()).Error("failed to render repo", "repo", name, "error", err)
		s.pages.Error500(w)
	}
}

func (s *State) cloneURL(name string) string {
	return strings.TrimRight(s.config.GitEndpoint, "/") + "/" + url.PathEscape(name)
}
