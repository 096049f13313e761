package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/smslycloud/codeweb/client"
	"github.com/smslycloud/codeweb/types"
	"github.com/spf13/cobra"
)

func newRepoCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "List, create and browse repositories",
	}
	cmd.AddCommand(
		newRepoListCmd(o),
		newRepoCreateCmd(o),
		newRepoTreeCmd(o),
		newRepoLogCmd(o),
	)
	return cmd
}

func newRepoListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.authedClient()
			if err != nil {
				return err
			}

			repos, err := c.Repos(cmd.Context())
			if err != nil {
				return o.apiErr(cmd, err)
			}

			out := cmd.OutOrStdout()
			if len(repos) == 0 {
				fmt.Fprintln(out, "You don't have any repositories yet.")
				return nil
			}

			table := newTable(out, "Name", "Visibility", "Description")
			for _, r := range repos {
				desc := r.Description
				if desc == "" {
					desc = "No description provided."
				}
				table.Append([]string{r.Name, r.Visibility(), desc})
			}
			table.Render()
			return nil
		},
	}
}

func newRepoCreateCmd(o *options) *cobra.Command {
	var req types.NewRepoRequest

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.authedClient()
			if err != nil {
				return err
			}

			req.Name = args[0]
			repo, err := c.NewRepo(cmd.Context(), req)
			if err != nil {
				if client.IsUnauthorized(err) {
					return o.apiErr(cmd, err)
				}
				return fmt.Errorf("%s", client.Message(err, "Failed to create repository"))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s repository %s\n", color.GreenString("✓"), repo.Visibility(), repo.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "repository description")
	cmd.Flags().BoolVar(&req.IsPrivate, "private", false, "make the repository private")
	return cmd
}

func newRepoTreeCmd(o *options) *cobra.Command {
	var ref string

	cmd := &cobra.Command{
		Use:   "tree NAME [PATH]",
		Short: "List files at a ref",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.authedClient()
			if err != nil {
				return err
			}

			var treePath string
			if len(args) == 2 {
				treePath = args[1]
			}

			entries, err := c.Tree(cmd.Context(), args[0], ref, treePath)
			if err != nil {
				return o.apiErr(cmd, err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "This repository is empty.")
				return nil
			}

			table := newTable(out, "Type", "Name", "ID")
			for _, e := range entries {
				name := e.Name
				if e.IsTree() {
					name = color.BlueString(e.Name + "/")
				}
				table.Append([]string{e.Kind, name, e.ShortID()})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "ref", client.DefaultRef, "branch, tag or commit to list")
	return cmd
}

func newRepoLogCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "log NAME",
		Short: "Show the commit history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.authedClient()
			if err != nil {
				return err
			}

			commits, err := c.Commits(cmd.Context(), args[0])
			if err != nil {
				return o.apiErr(cmd, err)
			}

			out := cmd.OutOrStdout()
			if len(commits) == 0 {
				fmt.Fprintln(out, "No commits found.")
				return nil
			}

			for _, cm := range commits {
				line := fmt.Sprintf("%s %s", color.YellowString(cm.ShortID()), cm.Message)
				if cm.MIPVerified {
					line += " " + color.GreenString("[MIP Verified]")
				}
				fmt.Fprintln(out, line)
				fmt.Fprintf(out, "    %s committed %s\n", cm.Author, ago(cm.When()))
			}
			return nil
		},
	}
}
