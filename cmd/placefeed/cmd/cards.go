package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/placefeed/placefeed/internal/domain/feedfilter"
	"github.com/placefeed/placefeed/internal/domain/popup"
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "View and change the shared card feed",
}

var cardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the card feed",
	Long: `List the shared card feed in server order.

The --filter flag takes a CEL expression over these variables:
  name  (string) card caption
  owner (string) owning user ID
  likes (int)    number of likes
  liked (bool)   whether you liked the card
  mine  (bool)   whether you own the card

Examples:
  placefeed cards list --filter 'likes > 3'
  placefeed cards list --filter 'mine && !liked'
  placefeed cards list --filter 'name.contains("Peak")'`,
	Args: cobra.NoArgs,
	RunE: runCardsList,
}

var cardsShowCmd = &cobra.Command{
	Use:   "show <card-id>",
	Short: "Show one card in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runCardsShow,
}

var cardsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a card to the feed",
	Args:  cobra.NoArgs,
	RunE:  runCardsAdd,
}

var cardsDeleteCmd = &cobra.Command{
	Use:   "delete <card-id>",
	Short: "Delete one of your cards",
	Args:  cobra.ExactArgs(1),
	RunE:  runCardsDelete,
}

var cardsLikeCmd = &cobra.Command{
	Use:   "like <card-id>",
	Short: "Like a card, or unlike it if you already liked it",
	Args:  cobra.ExactArgs(1),
	RunE:  runCardsLike,
}

var (
	cardsListFilter string
	cardsAddName    string
	cardsAddURL     string
	cardsDeleteYes  bool
)

func init() {
	cardsListCmd.Flags().StringVar(&cardsListFilter, "filter", "", "CEL filter expression")
	cardsAddCmd.Flags().StringVar(&cardsAddName, "name", "", "card caption (2-30 characters)")
	cardsAddCmd.Flags().StringVar(&cardsAddURL, "image-url", "", "photo URL")
	_ = cardsAddCmd.MarkFlagRequired("name")
	_ = cardsAddCmd.MarkFlagRequired("image-url")
	cardsDeleteCmd.Flags().BoolVarP(&cardsDeleteYes, "yes", "y", false, "skip the confirmation prompt")

	cardsCmd.AddCommand(cardsListCmd, cardsShowCmd, cardsAddCmd, cardsDeleteCmd, cardsLikeCmd)
	rootCmd.AddCommand(cardsCmd)
}

func runCardsList(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := app.requireAuth(cmd.Context()); err != nil {
		return err
	}

	cards := app.feed.Cards()
	me := app.feed.Profile().ID

	if cardsListFilter != "" {
		filter, err := feedfilter.Compile(cardsListFilter)
		if err != nil {
			return err
		}
		cards, err = filter.Apply(cards, me)
		if err != nil {
			return err
		}
	}

	if len(cards) == 0 {
		fmt.Println("No cards.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLIKES\t\tIMAGE")
	for _, c := range cards {
		marks := ""
		if c.IsLikedBy(me) {
			marks += "♥"
		}
		if c.OwnedBy(me) {
			marks += "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", c.ID, c.Name, len(c.LikedBy), marks, c.ImageURL)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println("\n♥ liked by you   * yours")
	return nil
}

func runCardsShow(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := app.requireAuth(cmd.Context()); err != nil {
		return err
	}

	cards := app.feed.Cards()
	for i := range cards {
		if cards[i].ID == args[0] {
			app.popups.OpenWithCard(popup.KindViewPhoto, &cards[i])
			break
		}
	}
	shown := app.popups.Active()
	if shown.Kind != popup.KindViewPhoto {
		return fmt.Errorf("no card with ID %s in the feed", args[0])
	}
	defer app.popups.CloseAll()

	c := shown.Card
	me := app.feed.Profile().ID
	fmt.Printf("Name:  %s\n", c.Name)
	fmt.Printf("Image: %s\n", c.ImageURL)
	fmt.Printf("Likes: %d", len(c.LikedBy))
	if c.IsLikedBy(me) {
		fmt.Print(" (including yours)")
	}
	fmt.Println()
	if c.OwnedBy(me) {
		fmt.Println("Owner: you")
	} else {
		fmt.Printf("Owner: %s\n", c.OwnerID)
	}
	return nil
}

func runCardsAdd(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := app.requireAuth(cmd.Context()); err != nil {
		return err
	}

	app.popups.Open(popup.KindAddPlace)
	created, err := app.feed.AddCard(cmd.Context(), cardsAddName, cardsAddURL)
	if err != nil {
		// The form dialog stays open on failure; in CLI terms: same
		// command, corrected input.
		return fmt.Errorf("add card failed: %w", err)
	}

	fmt.Printf("Added %q (%s)\n", created.Name, created.ID)
	return nil
}

func runCardsDelete(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := app.requireAuth(cmd.Context()); err != nil {
		return err
	}

	cards := app.feed.Cards()
	var found bool
	for i := range cards {
		if cards[i].ID == args[0] {
			app.popups.OpenWithCard(popup.KindConfirmDelete, &cards[i])
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("no card with ID %s in the feed", args[0])
	}

	pending := app.popups.Active().Card
	if !cardsDeleteYes && !confirm(fmt.Sprintf("Delete card %q?", pending.Name)) {
		app.popups.CloseAll()
		fmt.Println("Aborted.")
		return nil
	}

	if err := app.feed.DeleteCard(cmd.Context()); err != nil {
		return fmt.Errorf("delete card failed: %w", err)
	}

	fmt.Printf("Deleted %q\n", pending.Name)
	return nil
}

func runCardsLike(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := app.requireAuth(cmd.Context()); err != nil {
		return err
	}

	updated, err := app.feed.ToggleLike(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("like toggle failed: %w", err)
	}

	if updated.IsLikedBy(app.feed.Profile().ID) {
		fmt.Printf("Liked %q (%d likes)\n", updated.Name, len(updated.LikedBy))
	} else {
		fmt.Printf("Unliked %q (%d likes)\n", updated.Name, len(updated.LikedBy))
	}
	return nil
}
