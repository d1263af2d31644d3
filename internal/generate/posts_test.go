package generate

import (
	"context"
	"errors"
	"testing"

	"postforge/internal/core"
)

func insertTestTopic(t *testing.T, st interface {
	InsertTopic(ctx context.Context, topic core.Topic) (core.Topic, error)
}) core.Topic {
	t.Helper()
	topic, err := st.InsertTopic(context.Background(), core.Topic{
		UserID:      "u1",
		Title:       "Design Systems at Scale",
		Description: "Why shared components matter.",
	})
	if err != nil {
		t.Fatalf("InsertTopic failed: %v", err)
	}
	return topic
}

func TestGeneratePosts_Batch(t *testing.T) {
	llm := &scriptedLLM{
		batchResponse: `[
			{"title": "A", "content": "content A", "image_suggestion": "img A"},
			{"title": "B", "content": "content B", "image_suggestion": "img B"},
			{"title": "C", "content": "content C", "image_suggestion": "img C"}
		]`,
		scoresResponse: `[
			{"engagement_score": 0.1, "attractiveness_score": 0.1, "interest_score": 0.1, "relevance_score": 0.1, "shareability_score": 0.1, "professional_score": 0.1},
			{"engagement_score": 0.5, "attractiveness_score": 0.5, "interest_score": 0.5, "relevance_score": 0.5, "shareability_score": 0.5, "professional_score": 0.5},
			{"engagement_score": 0.9, "attractiveness_score": 0.9, "interest_score": 0.9, "relevance_score": 0.9, "shareability_score": 0.9, "professional_score": 0.9}
		]`,
	}
	gen, st := newTestGenerator(t, llm)
	topic := insertTestTopic(t, st)

	posts, err := gen.GeneratePosts(context.Background(), PostRequest{
		TopicID: topic.ID,
		UserID:  "u1",
		ModelID: "cohere-command",
		Amount:  3,
	})
	if err != nil {
		t.Fatalf("GeneratePosts failed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("saved %d posts, want 3", len(posts))
	}

	// Scores pair with posts by position.
	wantEngagement := []float64{0.1, 0.5, 0.9}
	wantTitles := []string{"A", "B", "C"}
	for i, p := range posts {
		if p.Title != wantTitles[i] {
			t.Errorf("post %d title = %q, want %q", i, p.Title, wantTitles[i])
		}
		if p.Scores.Engagement != wantEngagement[i] {
			t.Errorf("post %d engagement = %f, want %f", i, p.Scores.Engagement, wantEngagement[i])
		}
		if p.Reasoning != "" {
			t.Errorf("post %d has reasoning %q without chain-of-thought", i, p.Reasoning)
		}
	}

	if got := llm.callCount("batch"); got != 1 {
		t.Errorf("batch calls = %d, want 1", got)
	}
	if got := llm.callCount("scores"); got != 1 {
		t.Errorf("scoring calls = %d, want 1", got)
	}
}

func TestGeneratePosts_ChainOfThoughtCallAccounting(t *testing.T) {
	llm := &scriptedLLM{
		reasonResponse: `["reason one", "reason two", "reason three"]`,
		singleResponses: map[string]string{
			"reason one":   `{"title": "P1", "content": "c1", "image_suggestion": "i1"}`,
			"reason two":   `{"title": "P2", "content": "c2", "image_suggestion": "i2"}`,
			"reason three": `{"title": "P3", "content": "c3", "image_suggestion": "i3"}`,
		},
		scoresResponse: `[{}, {}, {}]`,
	}
	gen, st := newTestGenerator(t, llm)
	topic := insertTestTopic(t, st)

	posts, err := gen.GeneratePosts(context.Background(), PostRequest{
		TopicID:           topic.ID,
		UserID:            "u1",
		ModelID:           "cohere-command",
		UseChainOfThought: true,
		Amount:            3,
	})
	if err != nil {
		t.Fatalf("GeneratePosts failed: %v", err)
	}

	if got := llm.callCount("reasoning"); got != 1 {
		t.Errorf("reasoning calls = %d, want 1", got)
	}
	if got := llm.callCount("single"); got != 3 {
		t.Errorf("per-post calls = %d, want 3", got)
	}
	if got := llm.callCount("scores"); got != 1 {
		t.Errorf("scoring calls = %d, want 1", got)
	}

	// Each post keeps the reasoning that produced it, in slot order.
	wantReasonings := []string{"reason one", "reason two", "reason three"}
	wantTitles := []string{"P1", "P2", "P3"}
	for i, p := range posts {
		if p.Reasoning != wantReasonings[i] {
			t.Errorf("post %d reasoning = %q, want %q", i, p.Reasoning, wantReasonings[i])
		}
		if p.Title != wantTitles[i] {
			t.Errorf("post %d title = %q, want %q", i, p.Title, wantTitles[i])
		}
	}
}

func TestGeneratePosts_ScoreFallback(t *testing.T) {
	llm := &scriptedLLM{
		batchResponse: `[
			{"title": "A", "content": "a"},
			{"title": "B", "content": "b"}
		]`,
		// One malformed entry, one missing entirely.
		scoresResponse: `[{"engagement_score": "high"}]`,
	}
	gen, st := newTestGenerator(t, llm)
	topic := insertTestTopic(t, st)

	posts, err := gen.GeneratePosts(context.Background(), PostRequest{
		TopicID: topic.ID,
		UserID:  "u1",
		ModelID: "cohere-command",
		Amount:  2,
	})
	if err != nil {
		t.Fatalf("GeneratePosts failed: %v", err)
	}

	for i, p := range posts {
		if p.Scores.Engagement != 0.5 || p.Scores.Professional != 0.5 {
			t.Errorf("post %d scores = %+v, want 0.5 fallbacks", i, p.Scores)
		}
	}
}

func TestGeneratePosts_EmptyTitlePlaceholder(t *testing.T) {
	llm := &scriptedLLM{
		batchResponse:  `[{"title": "", "content": "body"}]`,
		scoresResponse: `[{}]`,
	}
	gen, st := newTestGenerator(t, llm)
	topic := insertTestTopic(t, st)

	posts, err := gen.GeneratePosts(context.Background(), PostRequest{
		TopicID: topic.ID,
		UserID:  "u1",
		ModelID: "cohere-command",
		Amount:  1,
	})
	if err != nil {
		t.Fatalf("GeneratePosts failed: %v", err)
	}
	if posts[0].Title != "Post about Design Systems at Scale" {
		t.Errorf("title = %q, want the topic-derived placeholder", posts[0].Title)
	}
}

func TestGeneratePosts_ScoringFailurePersistsNothing(t *testing.T) {
	llm := &scriptedLLM{
		batchResponse:  `[{"title": "A", "content": "a"}]`,
		scoresResponse: `not json`,
	}
	gen, st := newTestGenerator(t, llm)
	topic := insertTestTopic(t, st)

	_, err := gen.GeneratePosts(context.Background(), PostRequest{
		TopicID: topic.ID,
		UserID:  "u1",
		ModelID: "cohere-command",
		Amount:  1,
	})

	var parseErr *core.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
	if parseErr.Stage != "scores" {
		t.Errorf("stage = %q, want scores", parseErr.Stage)
	}

	stored, err := st.ListPosts(context.Background(), "u1", topic.ID)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("store holds %d posts after a scoring failure, want 0", len(stored))
	}
}

func TestGeneratePosts_ReasoningParseError(t *testing.T) {
	llm := &scriptedLLM{reasonResponse: `{"oops": "not an array"}`}
	gen, st := newTestGenerator(t, llm)
	topic := insertTestTopic(t, st)

	_, err := gen.GeneratePosts(context.Background(), PostRequest{
		TopicID:           topic.ID,
		UserID:            "u1",
		ModelID:           "cohere-command",
		UseChainOfThought: true,
		Amount:            2,
	})

	var parseErr *core.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
	if parseErr.Stage != "reasoning" {
		t.Errorf("stage = %q, want reasoning", parseErr.Stage)
	}
}

func TestGeneratePosts_UnknownTopic(t *testing.T) {
	llm := &scriptedLLM{}
	gen, _ := newTestGenerator(t, llm)

	_, err := gen.GeneratePosts(context.Background(), PostRequest{
		TopicID: 9999,
		UserID:  "u1",
		ModelID: "cohere-command",
	})
	if !errors.Is(err, core.ErrTopicNotFound) {
		t.Errorf("err = %v, want ErrTopicNotFound", err)
	}
}
