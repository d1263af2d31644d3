package handlers

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"postforge/internal/core"
)

// NewProfileCmd creates the profile command group.
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the professional profile used in prompts",
	}

	cmd.AddCommand(newProfileSetCmd())
	cmd.AddCommand(newProfileShowCmd())
	return cmd
}

func newProfileSetCmd() *cobra.Command {
	var (
		career    string
		interests string
		ideals    string
		lang      string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			profile := core.UserProfile{
				UserID:    userID,
				Career:    career,
				Interests: interests,
				Ideals:    ideals,
				Lang:      lang,
			}
			if err := st.SaveProfile(cmd.Context(), profile); err != nil {
				return err
			}

			fmt.Printf("Profile saved for user %q\n", userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&career, "career", "", "professional field, e.g. 'software engineering'")
	cmd.Flags().StringVar(&interests, "interests", "", "comma-separated professional interests")
	cmd.Flags().StringVar(&ideals, "ideals", "", "professional values")
	cmd.Flags().StringVar(&lang, "lang", "en", "ISO language code for generated content")

	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			profile, err := st.GetProfile(cmd.Context(), userID)
			if errors.Is(err, core.ErrProfileNotFound) {
				fmt.Printf("No profile stored for user %q. Run 'postforge profile set' first.\n", userID)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Printf("User:      %s\n", profile.UserID)
			fmt.Printf("Career:    %s\n", profile.Career)
			fmt.Printf("Interests: %s\n", profile.Interests)
			fmt.Printf("Ideals:    %s\n", profile.Ideals)
			fmt.Printf("Language:  %s\n", profile.Lang)
			return nil
		},
	}
}
