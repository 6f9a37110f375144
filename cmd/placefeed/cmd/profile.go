package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/placefeed/placefeed/internal/domain/popup"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and edit your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set your display name and bio",
	Args:  cobra.NoArgs,
	RunE:  runProfileSet,
}

var profileAvatarCmd = &cobra.Command{
	Use:   "avatar <image-url>",
	Short: "Set your avatar",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileAvatar,
}

var (
	profileSetName  string
	profileSetAbout string
)

func init() {
	profileSetCmd.Flags().StringVar(&profileSetName, "name", "", "display name (2-40 characters)")
	profileSetCmd.Flags().StringVar(&profileSetAbout, "about", "", "bio line (2-200 characters)")
	_ = profileSetCmd.MarkFlagRequired("name")
	_ = profileSetCmd.MarkFlagRequired("about")

	profileCmd.AddCommand(profileShowCmd, profileSetCmd, profileAvatarCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := app.requireAuth(cmd.Context()); err != nil {
		return err
	}

	p := app.feed.Profile()
	fmt.Printf("Name:   %s\n", p.Name)
	fmt.Printf("About:  %s\n", p.About)
	fmt.Printf("Avatar: %s\n", p.AvatarURL)
	fmt.Printf("ID:     %s\n", p.ID)
	return nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := app.requireAuth(cmd.Context()); err != nil {
		return err
	}

	app.popups.Open(popup.KindEditProfile)
	updated, err := app.feed.UpdateProfile(cmd.Context(), profileSetName, profileSetAbout)
	if err != nil {
		return fmt.Errorf("profile update failed: %w", err)
	}

	fmt.Printf("Profile updated: %s (%s)\n", updated.Name, updated.About)
	return nil
}

func runProfileAvatar(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := app.requireAuth(cmd.Context()); err != nil {
		return err
	}

	app.popups.Open(popup.KindEditAvatar)
	updated, err := app.feed.UpdateAvatar(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("avatar update failed: %w", err)
	}

	fmt.Printf("Avatar updated: %s\n", updated.AvatarURL)
	return nil
}
