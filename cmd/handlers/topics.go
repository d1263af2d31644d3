package handlers

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"postforge/internal/catalog"
	"postforge/internal/generate"
)

// NewTopicsCmd creates the topics command group.
func NewTopicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Generate and manage LinkedIn topic ideas",
	}

	cmd.AddCommand(newTopicsGenerateCmd())
	cmd.AddCommand(newTopicsListCmd())
	cmd.AddCommand(newTopicsDeleteCmd())
	return cmd
}

func newTopicsGenerateCmd() *cobra.Command {
	var (
		model        string
		links        []string
		instructions string
		amount       int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate topic ideas from your profile and reference links",
		Long: `Generate topic ideas through the selected model.

Reference links are scraped and summarized into prompt context; previously
generated topics are filtered out, so fewer than the requested amount may be
saved.

Examples:
  postforge topics generate
  postforge topics generate --model openai-gpt-4 --amount 10
  postforge topics generate --link https://example.com/article`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			gen := buildGenerator(st)
			topics, err := gen.GenerateTopics(cmd.Context(), userID, links, model, instructions, amount)
			if err != nil {
				return err
			}

			if len(topics) == 0 {
				fmt.Println("No new topics generated (all candidates were duplicates).")
				return nil
			}
			for _, t := range topics {
				fmt.Printf("%d  %s\n   %s\n", t.ID, t.Title, t.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", catalog.DefaultModelID, "model id (see 'postforge models')")
	cmd.Flags().StringSliceVar(&links, "link", nil, "reference link (repeatable, overrides stored links)")
	cmd.Flags().StringVar(&instructions, "instructions", "", "extra instructions for the prompt")
	cmd.Flags().IntVar(&amount, "amount", generate.DefaultAmount, "number of topics to request")

	return cmd
}

func newTopicsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			topics, err := st.ListTopics(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if len(topics) == 0 {
				fmt.Println("No topics stored. Run 'postforge topics generate'.")
				return nil
			}
			for _, t := range topics {
				fmt.Printf("%d  %s\n   %s\n", t.ID, t.Title, t.Description)
			}
			return nil
		},
	}
}

func newTopicsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a topic and its posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topicID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid topic id %q", args[0])
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeleteTopic(cmd.Context(), topicID, userID); err != nil {
				return err
			}
			fmt.Printf("Deleted topic %d\n", topicID)
			return nil
		},
	}
}
