package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/smslycloud/codeweb/client"
	"github.com/spf13/cobra"
)

const defaultEndpoint = "http://localhost:8080"

var errNotLoggedIn = errors.New("not logged in: run `smsly login`")

type options struct {
	apiEndpoint string
}

func NewRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:           "smsly",
		Short:         "Work with smsly code repositories and issues from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	endpoint := os.Getenv("SMSLY_API_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	root.PersistentFlags().StringVar(&o.apiEndpoint, "api", endpoint, "code API endpoint (env SMSLY_API_ENDPOINT)")

	root.AddCommand(
		newLoginCmd(o),
		newRegisterCmd(o),
		newLogoutCmd(o),
		newWhoamiCmd(o),
		newRepoCmd(o),
		newIssueCmd(o),
	)
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

// authedClient fails before any request when no token is stored.
func (o *options) authedClient() (*client.Client, error) {
	token, err := loadToken(o.apiEndpoint)
	if err != nil {
		return nil, err
	}
	return client.New(o.apiEndpoint, token), nil
}

// apiErr rewrites a 401 into a prompt to log in again and forgets the
// stale token.
func (o *options) apiErr(cmd *cobra.Command, err error) error {
	if client.IsUnauthorized(err) {
		if derr := deleteToken(o.apiEndpoint); derr != nil {
			warn(cmd, "could not remove stored token: %v", derr)
		}
		return errors.New("session expired: run `smsly login`")
	}
	return err
}

func warn(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("warning: "+format, args...))
}
