package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommitWhen(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
	}{
		{name: "epoch seconds", date: "1700000000", want: time.Unix(1700000000, 0)},
		{name: "empty", date: "", want: time.Time{}},
		{name: "garbage", date: "yesterday", want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Commit{Date: tt.date}
			assert.True(t, tt.want.Equal(c.When()))
		})
	}
}

func TestShortIDs(t *testing.T) {
	assert.Equal(t, "0123456", Commit{ID: "0123456789abcdef"}.ShortID())
	assert.Equal(t, "abc", TreeEntry{ID: "abc"}.ShortID())
}

func TestIssueIsOpen(t *testing.T) {
	assert.True(t, Issue{State: IssueOpen}.IsOpen())
	assert.False(t, Issue{State: IssueClosed}.IsOpen())
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Unknown", Issue{}.CreatorName())
	assert.Equal(t, "alice", Issue{Creator: &User{Username: "alice"}}.CreatorName())
	assert.Equal(t, "Unknown", Comment{User: &User{}}.AuthorName())
	assert.Equal(t, "Private", Repo{IsPrivate: true}.Visibility())
	assert.Equal(t, "Public", Repo{}.Visibility())
	assert.True(t, TreeEntry{Kind: KindTree}.IsTree())
}
