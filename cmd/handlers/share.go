package handlers

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewShareCmd creates the share command. Sharing the same post twice returns
// the original share id.
func NewShareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share <post-id>",
		Short: "Create a public share link for a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[0])
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if _, err := st.GetPost(cmd.Context(), postID); err != nil {
				return err
			}

			shareID, err := st.SharePost(cmd.Context(), postID, userID)
			if err != nil {
				return err
			}
			fmt.Printf("Share id: %s\n", shareID)
			fmt.Printf("Serve it at /api/shares/%s\n", shareID)
			return nil
		},
	}
}
