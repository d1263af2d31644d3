// Package generate implements the content-generation orchestration pipeline:
// topic generation with per-user dedup, and the two-stage (reasoning then
// generation) post pipeline with LLM scoring.
package generate

import (
	"context"
	"time"

	"postforge/internal/core"
	"postforge/internal/cost"
	"postforge/internal/logger"
	"postforge/internal/provider"
)

// Defaults for the generation entry points.
const (
	DefaultAmount         = 5
	defaultTemperature    = 0.7
	scoringTemperature    = 0.3
	postsMaxTokens        = 2048 * 4
	defaultMaxConcurrency = 5
)

// TextGenerator is the slice of the provider adapter the generators need.
type TextGenerator interface {
	GenerateText(ctx context.Context, userID, prompt, modelID string, opts provider.Options) (string, error)
	HasCredential(ctx context.Context, userID, modelID string) error
}

// ContextIngestor resolves reference links into prompt context.
type ContextIngestor interface {
	Ingest(ctx context.Context, userID, modelID string, urls []string) (string, error)
}

// Storage is the slice of the store the generators need.
type Storage interface {
	GetProfile(ctx context.Context, userID string) (core.UserProfile, error)
	ListReferenceLinks(ctx context.Context, userID string) ([]string, error)
	ListTopicHashes(ctx context.Context, userID string) (map[string]bool, error)
	InsertTopic(ctx context.Context, topic core.Topic) (core.Topic, error)
	InsertTopicHash(ctx context.Context, userID, hash string) error
	GetTopic(ctx context.Context, topicID int64, userID string) (core.Topic, error)
	InsertPost(ctx context.Context, post core.Post) (core.Post, error)
}

// ModelResolver maps a model id to its catalog entry. Satisfied by
// catalog.ModelByID.
type ModelResolver func(id string) (core.AIModel, error)

// Generator coordinates the topic and post pipelines.
type Generator struct {
	store          Storage
	ingestor       ContextIngestor
	llm            TextGenerator
	resolveModel   ModelResolver
	maxConcurrency int
}

// New creates a Generator. maxConcurrency caps the chain-of-thought per-post
// fan-out; values below one fall back to the default.
func New(store Storage, ingestor ContextIngestor, llm TextGenerator, resolveModel ModelResolver, maxConcurrency int) *Generator {
	if maxConcurrency < 1 {
		maxConcurrency = defaultMaxConcurrency
	}
	return &Generator{
		store:          store,
		ingestor:       ingestor,
		llm:            llm,
		resolveModel:   resolveModel,
		maxConcurrency: maxConcurrency,
	}
}

// callModel sends one prompt to the model, logging the estimated call cost.
func (g *Generator) callModel(ctx context.Context, userID, prompt, modelID string, opts provider.Options) (string, error) {
	if model, err := g.resolveModel(modelID); err == nil {
		estimate := cost.EstimateCall(model.Provider, prompt, opts.MaxTokens)
		logger.Debug("provider call",
			"provider", model.Provider,
			"model", modelID,
			"estimated_input_tokens", estimate.InputTokens,
			"estimated_cost_usd", estimate.TotalCost)
	}

	start := time.Now()
	text, err := g.llm.GenerateText(ctx, userID, prompt, modelID, opts)
	if err != nil {
		return "", err
	}
	logger.Debug("provider call complete", "model", modelID, "duration", time.Since(start).String())
	return text, nil
}
