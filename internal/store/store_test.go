package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"postforge/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestNew_CreatesDatabaseFile(t *testing.T) {
	tmpDir := t.TempDir()
	st, err := New(tmpDir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer st.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "postforge.db")); os.IsNotExist(err) {
		t.Error("database file should be created")
	}
}

func TestProfileRoundtrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.GetProfile(ctx, "u1")
	if !errors.Is(err, core.ErrProfileNotFound) {
		t.Errorf("missing profile err = %v, want ErrProfileNotFound", err)
	}

	profile := core.UserProfile{
		UserID:    "u1",
		Career:    "design",
		Interests: "UX, typography",
		Ideals:    "clarity",
		Lang:      "de",
	}
	if err := st.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	got, err := st.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.Career != "design" || got.Interests != "UX, typography" || got.Lang != "de" {
		t.Errorf("profile = %+v", got)
	}

	// Upsert replaces fields.
	profile.Career = "engineering"
	if err := st.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("SaveProfile update failed: %v", err)
	}
	got, _ = st.GetProfile(ctx, "u1")
	if got.Career != "engineering" {
		t.Errorf("career = %q after update, want engineering", got.Career)
	}
}

func TestSaveProfile_DefaultsLang(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.SaveProfile(ctx, core.UserProfile{UserID: "u1"}); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	got, err := st.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.Lang != "en" {
		t.Errorf("lang = %q, want en default", got.Lang)
	}
}

func TestAPIKeys(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	key, err := st.GetAPIKey(ctx, "u1", "cohere")
	if err != nil {
		t.Fatalf("GetAPIKey failed: %v", err)
	}
	if key != "" {
		t.Errorf("missing key should be empty, got %q", key)
	}

	if err := st.SaveAPIKey(ctx, "u1", "cohere", "first"); err != nil {
		t.Fatalf("SaveAPIKey failed: %v", err)
	}
	if err := st.SaveAPIKey(ctx, "u1", "openai", "other"); err != nil {
		t.Fatalf("SaveAPIKey failed: %v", err)
	}
	// One key per (user, provider): saving again overwrites.
	if err := st.SaveAPIKey(ctx, "u1", "cohere", "second"); err != nil {
		t.Fatalf("SaveAPIKey upsert failed: %v", err)
	}

	key, _ = st.GetAPIKey(ctx, "u1", "cohere")
	if key != "second" {
		t.Errorf("key = %q, want second", key)
	}

	providers, err := st.ListAPIKeyProviders(ctx, "u1")
	if err != nil {
		t.Fatalf("ListAPIKeyProviders failed: %v", err)
	}
	if len(providers) != 2 || providers[0] != "cohere" || providers[1] != "openai" {
		t.Errorf("providers = %v", providers)
	}

	// Another user's keys are invisible.
	key, _ = st.GetAPIKey(ctx, "u2", "cohere")
	if key != "" {
		t.Errorf("cross-user key leak: %q", key)
	}
}

func TestReferenceLinks_Replace(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.ReplaceReferenceLinks(ctx, "u1", []string{"https://a", "https://b"}); err != nil {
		t.Fatalf("ReplaceReferenceLinks failed: %v", err)
	}
	if err := st.ReplaceReferenceLinks(ctx, "u1", []string{"https://c"}); err != nil {
		t.Fatalf("ReplaceReferenceLinks failed: %v", err)
	}

	urls, err := st.ListReferenceLinks(ctx, "u1")
	if err != nil {
		t.Fatalf("ListReferenceLinks failed: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://c" {
		t.Errorf("urls = %v, want full replacement", urls)
	}
}

func TestScrapedContentCache_WriteOnce(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	got, err := st.GetScrapedContent(ctx, "https://a")
	if err != nil {
		t.Fatalf("GetScrapedContent failed: %v", err)
	}
	if got != nil {
		t.Error("cache miss should return nil")
	}

	first := core.ScrapedContent{URL: "https://a", Title: "First", Content: "c", Summary: "s"}
	if err := st.CacheScrapedContent(ctx, first); err != nil {
		t.Fatalf("CacheScrapedContent failed: %v", err)
	}

	// A second write for the same URL is ignored, not refreshed.
	second := core.ScrapedContent{URL: "https://a", Title: "Second"}
	if err := st.CacheScrapedContent(ctx, second); err != nil {
		t.Fatalf("CacheScrapedContent second write failed: %v", err)
	}

	got, err = st.GetScrapedContent(ctx, "https://a")
	if err != nil {
		t.Fatalf("GetScrapedContent failed: %v", err)
	}
	if got == nil || got.Title != "First" {
		t.Errorf("cached entry = %+v, want the original write kept", got)
	}
}

func TestTopics(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	topic, err := st.InsertTopic(ctx, core.Topic{UserID: "u1", Title: "T1", Description: "d"})
	if err != nil {
		t.Fatalf("InsertTopic failed: %v", err)
	}
	if topic.ID == 0 {
		t.Error("inserted topic should carry its assigned id")
	}

	got, err := st.GetTopic(ctx, topic.ID, "u1")
	if err != nil {
		t.Fatalf("GetTopic failed: %v", err)
	}
	if got.Title != "T1" {
		t.Errorf("title = %q", got.Title)
	}

	// Ownership is enforced.
	if _, err := st.GetTopic(ctx, topic.ID, "u2"); !errors.Is(err, core.ErrTopicNotFound) {
		t.Errorf("cross-user GetTopic err = %v, want ErrTopicNotFound", err)
	}
}

func TestDeleteTopic_CascadesPosts(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	topic, err := st.InsertTopic(ctx, core.Topic{UserID: "u1", Title: "T1"})
	if err != nil {
		t.Fatalf("InsertTopic failed: %v", err)
	}
	post, err := st.InsertPost(ctx, core.Post{UserID: "u1", TopicID: topic.ID, Title: "P1", Content: "c"})
	if err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}

	if err := st.DeleteTopic(ctx, topic.ID, "u1"); err != nil {
		t.Fatalf("DeleteTopic failed: %v", err)
	}

	if _, err := st.GetTopic(ctx, topic.ID, "u1"); !errors.Is(err, core.ErrTopicNotFound) {
		t.Errorf("topic should be gone, err = %v", err)
	}
	if _, err := st.GetPost(ctx, post.ID); !errors.Is(err, core.ErrPostNotFound) {
		t.Errorf("posts should be deleted with their topic, err = %v", err)
	}
}

func TestTopicHashLedger(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	hashes, err := st.ListTopicHashes(ctx, "u1")
	if err != nil {
		t.Fatalf("ListTopicHashes failed: %v", err)
	}
	if len(hashes) != 0 {
		t.Errorf("fresh ledger has %d entries", len(hashes))
	}

	if err := st.InsertTopicHash(ctx, "u1", "abc123"); err != nil {
		t.Fatalf("InsertTopicHash failed: %v", err)
	}
	// Duplicate insert is a no-op, not an error.
	if err := st.InsertTopicHash(ctx, "u1", "abc123"); err != nil {
		t.Fatalf("duplicate InsertTopicHash failed: %v", err)
	}

	hashes, _ = st.ListTopicHashes(ctx, "u1")
	if len(hashes) != 1 || !hashes["abc123"] {
		t.Errorf("hashes = %v", hashes)
	}

	// Ledger is per user.
	other, _ := st.ListTopicHashes(ctx, "u2")
	if len(other) != 0 {
		t.Errorf("u2 ledger = %v, want empty", other)
	}
}

func TestPosts(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	topic, err := st.InsertTopic(ctx, core.Topic{UserID: "u1", Title: "T1"})
	if err != nil {
		t.Fatalf("InsertTopic failed: %v", err)
	}

	post := core.Post{
		UserID:  "u1",
		TopicID: topic.ID,
		Title:   "P1",
		Content: "content",
		Scores: core.PostScores{
			Engagement: 0.8, Attractiveness: 0.7, Interest: 0.9,
			Relevance: 0.85, Shareability: 0.75, Professional: 0.9,
		},
		Reasoning:       "because",
		ModelUsed:       "cohere-command",
		ImageSuggestion: "a sketch",
		SchemaUsed:      "experience",
	}
	saved, err := st.InsertPost(ctx, post)
	if err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	if saved.ID == 0 {
		t.Error("inserted post should carry its assigned id")
	}

	got, err := st.GetPost(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Scores.Engagement != 0.8 || got.Reasoning != "because" || got.ImageSuggestion != "a sketch" {
		t.Errorf("post = %+v", got)
	}

	// Empty reasoning survives the nullable column roundtrip as "".
	bare, err := st.InsertPost(ctx, core.Post{UserID: "u1", TopicID: topic.ID, Title: "P2", Content: "c"})
	if err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	got, _ = st.GetPost(ctx, bare.ID)
	if got.Reasoning != "" || got.ImageSuggestion != "" {
		t.Errorf("bare post = %+v, want empty optional fields", got)
	}

	all, err := st.ListPosts(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListPosts(0) = %d posts, want 2", len(all))
	}

	byTopic, err := st.ListPosts(ctx, "u1", topic.ID)
	if err != nil {
		t.Fatalf("ListPosts by topic failed: %v", err)
	}
	if len(byTopic) != 2 {
		t.Errorf("ListPosts(topic) = %d posts, want 2", len(byTopic))
	}

	if err := st.DeletePost(ctx, saved.ID, "u1"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := st.GetPost(ctx, saved.ID); !errors.Is(err, core.ErrPostNotFound) {
		t.Errorf("deleted post err = %v, want ErrPostNotFound", err)
	}
}

func TestSharePost_Idempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	topic, err := st.InsertTopic(ctx, core.Topic{UserID: "u1", Title: "T1"})
	if err != nil {
		t.Fatalf("InsertTopic failed: %v", err)
	}
	post, err := st.InsertPost(ctx, core.Post{UserID: "u1", TopicID: topic.ID, Title: "P1", Content: "c"})
	if err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}

	first, err := st.SharePost(ctx, post.ID, "u1")
	if err != nil {
		t.Fatalf("SharePost failed: %v", err)
	}
	second, err := st.SharePost(ctx, post.ID, "u1")
	if err != nil {
		t.Fatalf("SharePost repeat failed: %v", err)
	}
	if first != second {
		t.Errorf("sharing twice returned %q then %q, want the same id", first, second)
	}

	shared, err := st.GetSharedPost(ctx, first)
	if err != nil {
		t.Fatalf("GetSharedPost failed: %v", err)
	}
	if shared.ID != post.ID {
		t.Errorf("shared post id = %d, want %d", shared.ID, post.ID)
	}

	if _, err := st.GetSharedPost(ctx, "no-such-share"); !errors.Is(err, core.ErrShareNotFound) {
		t.Errorf("unknown share err = %v, want ErrShareNotFound", err)
	}
}
