package handlers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"postforge/internal/catalog"
)

// NewModelsCmd creates the models command group.
func NewModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the available AI models",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range catalog.Models() {
				marker := " "
				if m.ID == catalog.DefaultModelID {
					marker = "*"
				}
				fmt.Printf("%s %-28s %-10s %s\n", marker, m.ID, m.Provider, m.Description)
				if len(m.Capabilities) > 0 {
					fmt.Printf("  %-28s capabilities: %s\n", "", strings.Join(m.Capabilities, ", "))
				}
			}
			fmt.Println("\n* default model")
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "schemas",
		Short: "List the available post schema templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range catalog.Schemas() {
				fmt.Printf("%-24s %s\n", s.ID, s.Description)
			}
			return nil
		},
	})

	return cmd
}
