package handlers

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"postforge/internal/catalog"
	"postforge/internal/core"
	"postforge/internal/generate"
	"postforge/internal/score"
)

// NewPostsCmd creates the posts command group.
func NewPostsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Generate and manage LinkedIn post drafts",
	}

	cmd.AddCommand(newPostsGenerateCmd())
	cmd.AddCommand(newPostsListCmd())
	cmd.AddCommand(newPostsShowCmd())
	cmd.AddCommand(newPostsDeleteCmd())
	return cmd
}

func newPostsGenerateCmd() *cobra.Command {
	var (
		topicID        int64
		model          string
		chainOfThought bool
		schema         string
		links          []string
		instructions   string
		amount         int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate post drafts for a topic",
		Long: `Generate post drafts for a stored topic.

With --cot, the model first writes one chain-of-thought reasoning per post,
then each post is generated from its reasoning in parallel. All drafts are
scored in a single pass before anything is saved.

Examples:
  postforge posts generate --topic 3
  postforge posts generate --topic 3 --cot --schema experience
  postforge posts generate --topic 3 --model deepseek-chat --amount 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if topicID == 0 {
				return fmt.Errorf("--topic is required")
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			gen := buildGenerator(st)
			posts, err := gen.GeneratePosts(cmd.Context(), generate.PostRequest{
				TopicID:           topicID,
				UserID:            userID,
				ModelID:           model,
				UseChainOfThought: chainOfThought,
				Schema:            schema,
				ExtraInstructions: instructions,
				ReferenceLinks:    links,
				Amount:            amount,
			})
			if err != nil {
				return err
			}

			for _, p := range posts {
				printPostSummary(p)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&topicID, "topic", 0, "topic id to generate posts for (required)")
	cmd.Flags().StringVar(&model, "model", catalog.DefaultModelID, "model id (see 'postforge models')")
	cmd.Flags().BoolVar(&chainOfThought, "cot", false, "use chain-of-thought generation")
	cmd.Flags().StringVar(&schema, "schema", "", "post schema template (see 'postforge models schemas')")
	cmd.Flags().StringSliceVar(&links, "link", nil, "reference link (repeatable)")
	cmd.Flags().StringVar(&instructions, "instructions", "", "extra instructions for the prompt")
	cmd.Flags().IntVar(&amount, "amount", generate.DefaultAmount, "number of posts to request")

	return cmd
}

func newPostsListCmd() *cobra.Command {
	var topicID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			posts, err := st.ListPosts(cmd.Context(), userID, topicID)
			if err != nil {
				return err
			}
			if len(posts) == 0 {
				fmt.Println("No posts stored. Run 'postforge posts generate'.")
				return nil
			}
			for _, p := range posts {
				printPostSummary(p)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&topicID, "topic", 0, "only show posts for this topic")
	return cmd
}

func newPostsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a post in full",
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

			p, err := st.GetPost(cmd.Context(), postID)
			if err != nil {
				return err
			}

			fmt.Printf("# %s\n\n%s\n", p.Title, p.Content)
			if p.ImageSuggestion != "" {
				fmt.Printf("\nImage suggestion: %s\n", p.ImageSuggestion)
			}
			if p.Reasoning != "" {
				fmt.Printf("\nReasoning:\n%s\n", p.Reasoning)
			}
			fmt.Printf("\nModel: %s  Publishability: %d/100\n", p.ModelUsed, score.Publishability(p.Scores))
			return nil
		},
	}
}

func newPostsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
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

			if err := st.DeletePost(cmd.Context(), postID, userID); err != nil {
				return err
			}
			fmt.Printf("Deleted post %d\n", postID)
			return nil
		},
	}
}

func printPostSummary(p core.Post) {
	excerpt := p.Content
	if len(excerpt) > 120 {
		excerpt = excerpt[:120] + "..."
	}
	fmt.Printf("%d  [%d/100]  %s\n   %s\n", p.ID, score.Publishability(p.Scores), p.Title, excerpt)
}
