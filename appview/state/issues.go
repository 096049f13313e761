package state

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/smslycloud/codeweb/appview/pages"
	"github.com/smslycloud/codeweb/client"
	"github.com/smslycloud/codeweb/log"
	"github.com/smslycloud/codeweb/types"
)

func repoInfo(r *http.Request) pages.RepoInfo {
	return pages.RepoInfo{Name: chi.URLParam(r, "name")}
}

func issuePath(info pages.RepoInfo, id int64) string {
	return fmt.Sprintf("%s/issues/%d", info.Path(), id)
}

func issueParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "issue"), 10, 64)
}

func (s *State) RepoSingleIssue(w http.ResponseWriter, r *http.Request) {
	info := repoInfo(r)
	l := log.FromContext(r.Context()).With("repo", info.Name)

	issueId, err := issueParam(r)
	if err != nil {
		l.Debug("bad issue id", "error", err)
		s.pages.Error404(w)
		return
	}
	l = l.With("issue", issueId)

	c := apiClient(r)
	issue, err := c.Issue(r.Context(), info.Name, issueId)
	if err != nil {
		if s.expired(w, r, err) {
			return
		}
		l.Error("failed to get issue", "error", err)
		s.pages.Error(w, pages.ErrorParams{
			LoggedInUser: s.auth.GetUser(r),
			Status:       http.StatusNotFound,
			Title:        "Issue not found",
			Message:      fmt.Sprintf("Issue #%d could not be loaded.", issueId),
		})
		return
	}

	comments, err := c.Comments(r.Context(), info.Name, issueId)
	if err != nil {
		if s.expired(w, r, err) {
			return
		}
		l.Error("failed to get comments", "error", err)
		comments = []types.Comment{}
	}

	err = s.pages.RepoSingleIssue(w, pages.RepoSingleIssueParams{
		LoggedInUser: s.auth.GetUser(r),
		RepoInfo:     info,
		IssuePath:    issuePath(info, issueId),
		Issue:        issue,
		Comments:     comments,
	})
	if err != nil {
		l.Error("failed to render issue", "error", err)
		s.pages.Error500(w)
	}
}

func (s *State) CloseIssue(w http.ResponseWriter, r *http.Request) {
	s.setIssueState(w, r, types.IssueClosed)
}

func (s *State) ReopenIssue(w http.ResponseWriter, r *http.Request) {
	s.setIssueState(w, r, types.IssueOpen)
}

// setIssueState moves the issue to the state the clicked button names,
// whatever the API currently reports.
func (s *State) setIssueState(w http.ResponseWriter, r *http.Request, state types.IssueState) {
	info := repoInfo(r)
	issueId, err := issueParam(r)
	if err != nil {
		http.Error(w, "bad issue id", http.StatusBadRequest)
		return
	}
	l := log.FromContext(r.Context()).With("repo", info.Name, "issue", issueId, "state", state)

	if err := apiClient(r).SetIssueState(r.Context(), info.Name, issueId, state); err != nil {
		if s.expired(w, r, err) {
			return
		}
		l.Error("failed to update issue state", "error", err)
		s.pages.Notice(w, "issue-action", client.Message(err, "Failed to update issue. Try again later."))
		return
	}

	l.Info("updated issue state")
	s.pages.HxLocation(w, issuePath(info, issueId))
}

func (s *State) IssueComment(w http.ResponseWriter, r *http.Request) {
	info := repoInfo(r)
	issueId, err := issueParam(r)
	if err != nil {
		http.Error(w, "bad issue id", http.StatusBadRequest)
		return
	}

	body := r.FormValue("body")
	if strings.TrimSpace(body) == "" {
		s.pages.Notice(w, "issue-comment", "Comment body is required.")
		return
	}

	comment, err := apiClient(r).NewComment(r.Context(), info.Name, issueId, body)
	if err != nil {
		if s.expired(w, r, err) {
			return
		}
		log.FromContext(r.Context()).Error("failed to create comment", "repo", info.Name, "issue", issueId, "error", err)
		s.pages.Notice(w, "issue-comment", client.Message(err, "Failed to create comment."))
		return
	}

	s.pages.HxLocation(w, fmt.Sprintf("%s#comment-%d", issuePath(info, issueId), comment.ID))
}

func (s *State) NewIssue(w http.ResponseWriter, r *http.Request) {
	info := repoInfo(r)
	l := log.FromContext(r.Context()).With("repo", info.Name)

	switch r.Method {
	case http.MethodGet:
		err := s.pages.RepoNewIssue(w, pages.RepoNewIssueParams{
			LoggedInUser: s.auth.GetUser(r),
			RepoInfo:     info,
		})
		if err != nil {
			l.Error("failed to render new issue form", "error", err)
			s.pages.Error500(w)
		}
	case http.MethodPost:
		title := strings.TrimSpace(r.FormValue("title"))
		body := r.FormValue("body")
		if title == "" {
			s.pages.Notice(w, "issues", "Title is required.")
			return
		}

		issue, err := apiClient(r).NewIssue(r.Context(), info.Name, types.NewIssueRequest{
			Title: title,
			Body:  body,
		})
		if err != nil {
			if s.expired(w, r, err) {
				return
			}
			l.Error("failed to create issue", "error", err)
			s.pages.Notice(w, "issues", client.Message(err, "Failed to create issue"))
			return
		}

		l.Info("created issue", "issue", issue.ID)
		s.pages.HxLocation(w, fmt.Sprintf("%s?tab=%s", info.Path(), pages.TabIssues))
	}
}
