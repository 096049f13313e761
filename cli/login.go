package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/smslycloud/codeweb/client"
	"github.com/smslycloud/codeweb/types"
	"github.com/spf13/cobra"
)

func askInput(message string, v *string) error {
	if *v != "" {
		return nil
	}
	return survey.AskOne(&survey.Input{Message: message}, v, survey.WithValidator(survey.Required))
}

// readPassword takes the first line of stdin when fromStdin is set and
// prompts otherwise.
func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	var password string
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("reading password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	} else {
		if err := survey.AskOne(&survey.Password{Message: "Password:"}, &password, survey.WithValidator(survey.Required)); err != nil {
			return "", err
		}
	}
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}

func (o *options) signIn(cmd *cobra.Command, c *client.Client, username, password string) error {
	resp, err := c.Login(cmd.Context(), username, password)
	if err != nil {
		return fmt.Errorf("login failed: %s", client.Message(err, err.Error()))
	}

	if err := saveToken(o.apiEndpoint, resp.Token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Logged in to %s as %s\n", color.GreenString("✓"), o.apiEndpoint, resp.User.Username)
	return nil
}

func newLoginCmd(o *options) *cobra.Command {
	var username string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the API token in the system keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := askInput("Username:", &username); err != nil {
				return err
			}
			password, err := readPassword(cmd, passwordStdin)
			if err != nil {
				return err
			}

			return o.signIn(cmd, client.New(o.apiEndpoint, ""), username, password)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username to sign in with")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newRegisterCmd(o *options) *cobra.Command {
	var req types.RegisterRequest
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := askInput("Username:", &req.Username); err != nil {
				return err
			}
			if err := askInput("Email:", &req.Email); err != nil {
				return err
			}
			password, err := readPassword(cmd, passwordStdin)
			if err != nil {
				return err
			}
			req.Password = password

			c := client.New(o.apiEndpoint, "")
			if _, err := c.Register(cmd.Context(), req); err != nil {
				return fmt.Errorf("registration failed: %s", client.Message(err, err.Error()))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created account %s\n", color.GreenString("✓"), req.Username)

			return o.signIn(cmd, c, req.Username, req.Password)
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "username for the new account")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address for the new account")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newLogoutCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deleteToken(o.apiEndpoint); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged out of %s\n", o.apiEndpoint)
			return nil
		},
	}
}

func newWhoamiCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.authedClient()
			if err != nil {
				return err
			}

			u, err := c.Me(cmd.Context())
			if err != nil {
				return o.apiErr(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", u.Username, u.Email)
			return nil
		},
	}
}
