package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/placefeed/placefeed/internal/adapter/outbound/state"
	"github.com/placefeed/placefeed/internal/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove local state (credential, optionally history)",
	Long: `Remove the stored session credential without contacting the
server. With --history, the local mutation history database is removed
as well.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

var resetHistory bool

func init() {
	resetCmd.Flags().BoolVar(&resetHistory, "history", false, "also remove the local history database")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	creds := state.NewFileCredentialStore(cfg.Credential.Path, newLogger(cfg))
	if err := creds.Clear(); err != nil {
		return err
	}
	fmt.Println("Credential removed.")

	if resetHistory {
		if err := os.Remove(cfg.History.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove history database: %w", err)
		}
		fmt.Println("History removed.")
	}
	return nil
}
