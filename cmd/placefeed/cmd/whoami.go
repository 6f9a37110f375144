package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	if !app.app.Startup(cmd.Context()) {
		fmt.Println("Not signed in.")
		return nil
	}

	sess := app.sessions.Session()
	profile := app.feed.Profile()
	fmt.Printf("Email: %s\n", sess.Email)
	if profile.ID != "" {
		fmt.Printf("Name:  %s\n", profile.Name)
		fmt.Printf("About: %s\n", profile.About)
	}
	return nil
}
