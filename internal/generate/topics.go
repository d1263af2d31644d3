package generate

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"postforge/internal/core"
	"postforge/internal/logger"
	"postforge/internal/provider"
	"postforge/internal/sanitize"
)

type topicData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TopicHash computes the dedup-ledger hash for a topic title: the md5 of the
// lowercased title, hex encoded.
func TopicHash(title string) string {
	sum := md5.Sum([]byte(strings.ToLower(title)))
	return hex.EncodeToString(sum[:])
}

// GenerateTopics builds one prompt from the user's profile, ingested
// reference context and extra instructions, asks the model for topic
// candidates, deduplicates them against the user's hash ledger, and persists
// the survivors. Duplicates are discarded silently, so the result may hold
// fewer than amount topics.
func (g *Generator) GenerateTopics(ctx context.Context, userID string, referenceLinks []string, modelID, extraInstructions string, amount int) ([]core.Topic, error) {
	if amount < 1 {
		amount = DefaultAmount
	}

	// Fail fast on a missing credential before scraping or summarizing
	// anything.
	if err := g.llm.HasCredential(ctx, userID, modelID); err != nil {
		return nil, err
	}

	profile, err := g.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	links := referenceLinks
	if len(links) == 0 {
		links, err = g.store.ListReferenceLinks(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load reference links: %w", err)
		}
	}

	referencesContent, err := g.ingestor.Ingest(ctx, userID, modelID, links)
	if err != nil {
		return nil, fmt.Errorf("failed to ingest reference links: %w", err)
	}

	seen, err := g.store.ListTopicHashes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load topic hashes: %w", err)
	}

	prompt := topicsPrompt(profile, referencesContent, extraInstructions, amount)
	text, err := g.callModel(ctx, userID, prompt, modelID, provider.Options{Temperature: defaultTemperature})
	if err != nil {
		return nil, err
	}

	var topicsData []topicData
	if err := json.Unmarshal([]byte(sanitize.Sanitize(text)), &topicsData); err != nil {
		return nil, &core.ParseError{Stage: "topics", Err: err}
	}

	saved := make([]core.Topic, 0, len(topicsData))
	for _, candidate := range topicsData {
		if candidate.Title == "" {
			continue
		}

		hash := TopicHash(candidate.Title)
		if seen[hash] {
			// Already generated for this user at some point; never an error.
			logger.Debug("discarding duplicate topic", "user_id", userID, "title", candidate.Title)
			continue
		}
		seen[hash] = true

		topic, err := g.store.InsertTopic(ctx, core.Topic{
			UserID:      userID,
			Title:       candidate.Title,
			Description: candidate.Description,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save topic: %w", err)
		}
		if err := g.store.InsertTopicHash(ctx, userID, hash); err != nil {
			return nil, fmt.Errorf("failed to record topic hash: %w", err)
		}

		saved = append(saved, topic)
	}

	logger.Info("generated topics", "user_id", userID, "model", modelID,
		"requested", amount, "saved", len(saved), "duplicates", len(topicsData)-len(saved))
	return saved, nil
}
