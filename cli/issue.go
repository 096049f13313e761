package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/smslycloud/codeweb/client"
	"github.com/smslycloud/codeweb/types"
	"github.com/spf13/cobra"
)

func newIssueCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Track issues on a repository",
	}
	cmd.AddCommand(
		newIssueListCmd(o),
		newIssueViewCmd(o),
		newIssueCreateCmd(o),
		newIssueStateCmd(o, "close", types.IssueClosed),
		newIssueStateCmd(o, "reopen", types.IssueOpen),
		newIssueCommentCmd(o),
	)
	return cmd
}

func parseIssueID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid issue id %q", s)
	}
	return id, nil
}

func newIssueListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list REPO",
		Short: "List issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.authedClient()
			if err != nil {
				return err
			}

			issues, err := c.Issues(cmd.Context(), args[0])
			if err != nil {
				return o.apiErr(cmd, err)
			}

			out := cmd.OutOrStdout()
			if len(issues) == 0 {
				fmt.Fprintln(out, "No issues found.")
				return nil
			}

			table := newTable(out, "ID", "State", "Title", "Opened by", "Created")
			for _, i := range issues {
				table.Append([]string{
					fmt.Sprintf("#%d", i.ID),
					stateLabel(i.State),
					i.Title,
					i.CreatorName(),
					ago(i.CreatedAt),
				})
			}
			table.Render()
			return nil
		},
	}
}

func newIssueViewCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "view REPO ID",
		Short: "Show an issue and its comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIssueID(args[1])
			if err != nil {
				return err
			}
			c, err := o.authedClient()
			if err != nil {
				return err
			}

			issue, err := c.Issue(cmd.Context(), args[0], id)
			if err != nil {
				if client.IsNotFound(err) {
					return errors.New("issue not found")
				}
				return o.apiErr(cmd, err)
			}

			// comments degrade to none, like the issue page
			comments, err := c.Comments(cmd.Context(), args[0], id)
			if err != nil {
				if client.IsUnauthorized(err) {
					return o.apiErr(cmd, err)
				}
				warn(cmd, "could not load comments: %s", client.Message(err, err.Error()))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s #%d\n", color.New(color.Bold).Sprint(issue.Title), issue.ID)
			fmt.Fprintf(out, "%s  %s opened this issue %s\n\n", stateLabel(issue.State), issue.CreatorName(), ago(issue.CreatedAt))
			if body := strings.TrimSpace(issue.Body); body != "" {
				fmt.Fprintln(out, body)
			} else {
				fmt.Fprintln(out, "No description provided.")
			}

			for _, cm := range comments {
				fmt.Fprintf(out, "\n%s commented %s\n", color.CyanString(cm.AuthorName()), ago(cm.CreatedAt))
				fmt.Fprintln(out, strings.TrimSpace(cm.Body))
			}
			return nil
		},
	}
}

func newIssueCreateCmd(o *options) *cobra.Command {
	var req types.NewIssueRequest

	cmd := &cobra.Command{
		Use:   "create REPO",
		Short: "Open a new issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(req.Title) == "" {
				return errors.New("title is required")
			}
			c, err := o.authedClient()
			if err != nil {
				return err
			}

			issue, err := c.NewIssue(cmd.Context(), args[0], req)
			if err != nil {
				if client.IsUnauthorized(err) {
					return o.apiErr(cmd, err)
				}
				return fmt.Errorf("%s", client.Message(err, "Failed to create issue"))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Opened issue #%d on %s\n", color.GreenString("✓"), issue.ID, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Title, "title", "t", "", "issue title")
	cmd.Flags().StringVarP(&req.Body, "body", "b", "", "issue description (markdown)")
	return cmd
}

func newIssueStateCmd(o *options, verb string, state types.IssueState) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " REPO ID",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIssueID(args[1])
			if err != nil {
				return err
			}
			c, err := o.authedClient()
			if err != nil {
				return err
			}

			if err := c.SetIssueState(cmd.Context(), args[0], id, state); err != nil {
				return o.apiErr(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Issue #%d is now %s\n", id, stateLabel(state))
			return nil
		},
	}
}

func newIssueCommentCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "comment REPO ID BODY",
		Short: "Comment on an issue",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIssueID(args[1])
			if err != nil {
				return err
			}
			if strings.TrimSpace(args[2]) == "" {
				return errors.New("comment body is required")
			}
			c, err := o.authedClient()
			if err != nil {
				return err
			}

			if _, err := c.NewComment(cmd.Context(), args[0], id, args[2]); err != nil {
				if client.IsUnauthorized(err) {
					return o.apiErr(cmd, err)
				}
				return fmt.Errorf("%s", client.Message(err, "Failed to add comment"))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Commented on issue #%d\n", id)
			return nil
		},
	}
}
