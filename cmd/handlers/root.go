package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"postforge/internal/config"
)

var (
	cfgFile string
	userID  string
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "postforge",
		Short: "Postforge generates scored LinkedIn posts from your profile and reference links.",
		Long: `Postforge is a CLI for LinkedIn content generation.

Store a professional profile, provider API keys and reference links, then
generate deduplicated topic ideas and drafted posts through the LLM provider
of your choice. Every post is scored for publishability before it lands in
the local database.`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .postforge.yaml)")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "default", "user id to operate as")

	rootCmd.AddCommand(NewModelsCmd())
	rootCmd.AddCommand(NewProfileCmd())
	rootCmd.AddCommand(NewKeysCmd())
	rootCmd.AddCommand(NewLinksCmd())
	rootCmd.AddCommand(NewTopicsCmd())
	rootCmd.AddCommand(NewPostsCmd())
	rootCmd.AddCommand(NewShareCmd())
	rootCmd.AddCommand(NewServeCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads the config file and environment before any command runs.
func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}
