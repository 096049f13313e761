package types

import (
	"strconv"
	"time"
)

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Repo struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	IsPrivate     bool      `json:"is_private"`
	DefaultBranch string    `json:"default_branch,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Owner         *User     `json:"owner,omitempty"`
}

func (r Repo) Visibility() string {
	if r.IsPrivate {
		return "Private"
	}
	return "Public"
}

type NewRepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
}

// Commit as listed by the commits endpoint. Date is unix seconds
// encoded as a string.
type Commit struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Author      string `json:"author"`
	Date        string `json:"date"`
	MIPVerified bool   `json:"mip_verified"`
}

func (c Commit) When() time.Time {
	secs, err := strconv.ParseInt(c.Date, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}

func (c Commit) ShortID() string {
	return shortHash(c.ID)
}

func shortHash(id string) string {
	if len(id) <= 7 {
		return id
	}
	return id[:7]
}
