package handlers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"postforge/internal/catalog"
)

// NewKeysCmd creates the keys command group. Key values are write-only from
// the CLI; list shows provider names only.
func NewKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage provider API keys",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <provider> <key>",
		Short: "Store an API key for a provider",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			providerName, key := args[0], args[1]
			if !catalog.ValidProvider(providerName) {
				return fmt.Errorf("unknown provider %q, expected one of: %s",
					providerName, strings.Join(catalog.Providers(), ", "))
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.SaveAPIKey(cmd.Context(), userID, providerName, key); err != nil {
				return err
			}
			fmt.Printf("API key stored for %s\n", providerName)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List providers that have a stored key",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			providers, err := st.ListAPIKeyProviders(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if len(providers) == 0 {
				fmt.Println("No API keys stored. Run 'postforge keys set <provider> <key>'.")
				return nil
			}
			for _, p := range providers {
				fmt.Println(p)
			}
			return nil
		},
	})

	return cmd
}
