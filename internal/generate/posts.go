package generate

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"postforge/internal/core"
	"postforge/internal/logger"
	"postforge/internal/provider"
	"postforge/internal/sanitize"
)

type postData struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	ImageSuggestion string `json:"image_suggestion"`
	reasoning       string
}

// PostRequest carries the parameters for one post-generation run.
type PostRequest struct {
	TopicID           int64
	UserID            string
	ModelID           string
	UseChainOfThought bool
	Schema            string
	ExtraInstructions string
	ReferenceLinks    []string
	Amount            int
}

// GeneratePosts runs the two-stage post pipeline for a topic: a generation
// stage (batched, or reasoning plus parallel per-post calls when
// chain-of-thought is on), then a single scoring pass, then persistence.
// Nothing is persisted until both stages succeed, and order is preserved
// end-to-end because posts and scores are correlated positionally.
func (g *Generator) GeneratePosts(ctx context.Context, req PostRequest) ([]core.Post, error) {
	if req.Amount < 1 {
		req.Amount = DefaultAmount
	}

	if err := g.llm.HasCredential(ctx, req.UserID, req.ModelID); err != nil {
		return nil, err
	}

	topic, err := g.store.GetTopic(ctx, req.TopicID, req.UserID)
	if err != nil {
		return nil, err
	}
	profile, err := g.store.GetProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	referencesContent, err := g.ingestor.Ingest(ctx, req.UserID, req.ModelID, req.ReferenceLinks)
	if err != nil {
		return nil, fmt.Errorf("failed to ingest reference links: %w", err)
	}

	var postsData []postData
	if req.UseChainOfThought {
		postsData, err = g.generateWithReasoning(ctx, req, topic, profile, referencesContent)
	} else {
		postsData, err = g.generateBatch(ctx, req, topic, profile, referencesContent)
	}
	if err != nil {
		return nil, err
	}

	scoresData, err := g.scorePosts(ctx, req, postsData)
	if err != nil {
		return nil, err
	}

	saved := make([]core.Post, 0, len(postsData))
	for i, post := range postsData {
		title := post.Title
		if title == "" {
			title = fmt.Sprintf("Post about %s", topic.Title)
		}

		persisted, err := g.store.InsertPost(ctx, core.Post{
			UserID:          req.UserID,
			TopicID:         req.TopicID,
			Title:           title,
			Content:         post.Content,
			Scores:          scoresAt(scoresData, i),
			Reasoning:       post.reasoning,
			ModelUsed:       req.ModelID,
			ImageSuggestion: post.ImageSuggestion,
			SchemaUsed:      req.Schema,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save post: %w", err)
		}
		saved = append(saved, persisted)
	}

	logger.Info("generated posts", "user_id", req.UserID, "topic_id", req.TopicID,
		"model", req.ModelID, "chain_of_thought", req.UseChainOfThought, "saved", len(saved))
	return saved, nil
}

// generateBatch asks for all posts in one call.
func (g *Generator) generateBatch(ctx context.Context, req PostRequest, topic core.Topic, profile core.UserProfile, referencesContent string) ([]postData, error) {
	prompt := postsBatchPrompt(topic, profile, req.Schema, referencesContent, req.ExtraInstructions, req.Amount)
	text, err := g.callModel(ctx, req.UserID, prompt, req.ModelID,
		provider.Options{Temperature: defaultTemperature, MaxTokens: postsMaxTokens})
	if err != nil {
		return nil, err
	}

	var postsData []postData
	if err := json.Unmarshal([]byte(sanitize.Sanitize(text)), &postsData); err != nil {
		return nil, &core.ParseError{Stage: "posts", Err: err}
	}
	return postsData, nil
}

// generateWithReasoning first asks for one reasoning string per future post,
// then fans out one generation call per reasoning string. Fan-out is bounded
// by the generator's concurrency cap; results keep their slot so ordering
// survives the parallelism.
func (g *Generator) generateWithReasoning(ctx context.Context, req PostRequest, topic core.Topic, profile core.UserProfile, referencesContent string) ([]postData, error) {
	prompt := reasoningPrompt(topic, profile, req.Schema, req.Amount)
	text, err := g.callModel(ctx, req.UserID, prompt, req.ModelID,
		provider.Options{Temperature: defaultTemperature})
	if err != nil {
		return nil, err
	}

	var reasonings []string
	if err := json.Unmarshal([]byte(sanitize.Sanitize(text)), &reasonings); err != nil {
		return nil, &core.ParseError{Stage: "reasoning", Err: err}
	}

	postsData := make([]postData, len(reasonings))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.maxConcurrency)

	for i, reasoning := range reasonings {
		group.Go(func() error {
			cleaned, repaired := sanitize.RepairReasoning(reasoning)
			if repaired {
				// The model ignored the requested format; worth flagging.
				logger.Warn("repaired malformed reasoning string",
					"topic_id", req.TopicID, "post_index", i)
			}

			postPrompt := singlePostPrompt(topic, profile, req.Schema, cleaned,
				referencesContent, req.ExtraInstructions)
			postText, err := g.callModel(groupCtx, req.UserID, postPrompt, req.ModelID,
				provider.Options{Temperature: defaultTemperature})
			if err != nil {
				return err
			}

			var post postData
			if err := json.Unmarshal([]byte(sanitize.Sanitize(postText)), &post); err != nil {
				return &core.ParseError{Stage: "posts", Err: fmt.Errorf("post %d: %w", i+1, err)}
			}
			post.reasoning = cleaned
			postsData[i] = post
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return postsData, nil
}

// scorePosts runs the single scoring pass over all generated posts. It is
// always one call regardless of amount or chain-of-thought mode.
func (g *Generator) scorePosts(ctx context.Context, req PostRequest, postsData []postData) ([]map[string]any, error) {
	prompt := scoringPrompt(postsData)
	text, err := g.callModel(ctx, req.UserID, prompt, req.ModelID,
		provider.Options{Temperature: scoringTemperature})
	if err != nil {
		return nil, err
	}

	var scoresData []map[string]any
	if err := json.Unmarshal([]byte(sanitize.Sanitize(text)), &scoresData); err != nil {
		return nil, &core.ParseError{Stage: "scores", Err: err}
	}
	return scoresData, nil
}

// scoresAt extracts the six sub-scores for post index i. Missing entries and
// non-numeric fields fall back to 0.5.
func scoresAt(scoresData []map[string]any, i int) core.PostScores {
	var raw map[string]any
	if i < len(scoresData) {
		raw = scoresData[i]
	}
	return core.PostScores{
		Engagement:     scoreField(raw, "engagement_score"),
		Attractiveness: scoreField(raw, "attractiveness_score"),
		Interest:       scoreField(raw, "interest_score"),
		Relevance:      scoreField(raw, "relevance_score"),
		Shareability:   scoreField(raw, "shareability_score"),
		Professional:   scoreField(raw, "professional_score"),
	}
}

func scoreField(raw map[string]any, key string) float64 {
	if raw == nil {
		return 0.5
	}
	value, ok := raw[key].(float64)
	if !ok {
		return 0.5
	}
	return value
}
