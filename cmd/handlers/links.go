package handlers

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLinksCmd creates the links command group.
func NewLinksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Manage the default reference links",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <url>...",
		Short: "Replace the stored reference links",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ReplaceReferenceLinks(cmd.Context(), userID, args); err != nil {
				return err
			}
			fmt.Printf("Stored %d reference link(s)\n", len(args))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all stored reference links",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ReplaceReferenceLinks(cmd.Context(), userID, nil); err != nil {
				return err
			}
			fmt.Println("Reference links cleared")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the stored reference links",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			urls, err := st.ListReferenceLinks(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if len(urls) == 0 {
				fmt.Println("No reference links stored.")
				return nil
			}
			for _, u := range urls {
				fmt.Println(u)
			}
			return nil
		},
	})

	return cmd
}
