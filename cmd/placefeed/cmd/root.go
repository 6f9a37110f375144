// Package cmd provides the CLI commands for placefeed.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/placefeed/placefeed/internal/config"
)

var (
	cfgFile     string
	flagServer  string
	flagVerbose bool
	flagTrace   bool
	flagMetrics bool
)

var rootCmd = &cobra.Command{
	Use:   "placefeed",
	Short: "placefeed - photo card feed client",
	Long: `placefeed is a command-line client for the placefeed photo sharing
service: a shared feed of photo cards that users can like, extend, and
curate, plus a small profile (name, bio, avatar).

Quick start:
  1. placefeed register you@example.com
  2. placefeed login you@example.com
  3. placefeed cards list

Configuration:
  Config is loaded from placefeed.yaml in the current directory,
  $HOME/.placefeed/, or /etc/placefeed/. Create a starter file with
  'placefeed config init'.

  Environment variables can override config values with the PLACEFEED_
  prefix. Example: PLACEFEED_SERVER_BASE_URL=https://api.example.com/v1`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./placefeed.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "override the API base URL")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagTrace, "trace", false, "print request traces to stdout")
	rootCmd.PersistentFlags().BoolVar(&flagMetrics, "metrics", false, "print request metrics to stdout on exit")
}

func initConfig() {
	config.InitViper(cfgFile)
}
