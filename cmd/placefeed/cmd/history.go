package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the local record of your mutations",
	Long: `Show the local record of mutations this client performed against
the feed (cards added, deleted, liked; profile edits). The record is kept
in a local sqlite database and never leaves the machine.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum records to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	if app.hist == nil {
		return errors.New("local history is disabled (see history.enabled in placefeed.yaml)")
	}

	records, err := app.hist.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No recorded mutations.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tOP\tSUBJECT\tDETAIL")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			rec.At.Format("2006-01-02 15:04:05"), rec.Op, rec.Subject, rec.Detail)
	}
	return w.Flush()
}
