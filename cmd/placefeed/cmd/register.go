package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/placefeed/placefeed/internal/domain/popup"
	"github.com/placefeed/placefeed/internal/service"
)

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create an account",
	Long: `Create an account with your email and a password. Registration
does not sign you in; on success, continue with 'placefeed login'.`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	registerErr := app.sessions.Register(cmd.Context(), args[0], password)

	// The info dialog carries the outcome; render its fixed message.
	if info := app.popups.Active(); info.Kind == popup.KindInfoResult {
		if info.Success {
			fmt.Println(service.RegisterSuccessMessage)
			fmt.Printf("Sign in with: placefeed login %s\n", args[0])
		} else {
			fmt.Println(service.RegisterFailureMessage)
		}
	}

	if registerErr != nil {
		return fmt.Errorf("registration failed: %w", registerErr)
	}
	return nil
}
