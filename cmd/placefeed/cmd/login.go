package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in and persist the session credential",
	Long: `Sign in with your email and password. On success the session
credential is stored locally (0600) and reused by later commands until
you run 'placefeed logout'.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	if err := app.app.Login(cmd.Context(), args[0], password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	sess := app.sessions.Session()
	fmt.Printf("Signed in as %s\n", sess.Email)
	fmt.Printf("Feed loaded: %d cards\n", len(app.feed.Cards()))
	return nil
}
