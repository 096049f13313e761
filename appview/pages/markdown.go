package pages

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	policy = bluemonday.UGCPolicy()
)

// renderMarkdown turns user supplied markdown into sanitized html. Issue
// and comment bodies come straight from other users, so raw html in them
// is stripped down to the UGC allowlist.
func renderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return policy.Sanitize(source)
	}
	return policy.SanitizeReader(&buf).String()
}
