package types

import "time"

type IssueState string

const (
	IssueOpen   IssueState = "open"
	IssueClosed IssueState = "closed"
)

type Issue struct {
	ID         int64      `json:"id"`
	RepoID     int64      `json:"repo_id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	CreatorID  int64      `json:"creator_id"`
	Creator    *User      `json:"creator,omitempty"`
	AssigneeID *int64     `json:"assignee_id,omitempty"`
	Assignee   *User      `json:"assignee,omitempty"`
	State      IssueState `json:"state"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (i Issue) IsOpen() bool {
	return i.State == IssueOpen
}

func (i Issue) CreatorName() string {
	if i.Creator == nil || i.Creator.Username == "" {
		return "Unknown"
	}
	return i.Creator.Username
}

type Comment struct {
	ID        int64     `json:"id"`
	IssueID   int64     `json:"issue_id"`
	UserID    int64     `json:"user_id"`
	User      *User     `json:"user,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Comment) AuthorName() string {
	if c.User == nil || c.User.Username == "" {
		return "Unknown"
	}
	return c.User.Username
}

type NewIssueRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type UpdateIssueRequest struct {
	State IssueState `json:"state"`
}

type NewCommentRequest struct {
	Body string `json:"body"`
}
