// Package store persists profiles, credentials, reference links, the scrape
// cache, topics, the topic-hash ledger, posts and shares in a local SQLite
// database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"postforge/internal/core"
)

// Store wraps the SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (creating if necessary) the database under dataDir and ensures
// the schema exists.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "postforge.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

func (s *Store) initialize() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			career TEXT NOT NULL DEFAULT '',
			interests TEXT NOT NULL DEFAULT '',
			ideals TEXT NOT NULL DEFAULT '',
			lang TEXT NOT NULL DEFAULT 'en',
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS api_keys (
			user_id TEXT NOT NULL,
			provider TEXT NOT NULL,
			key_value TEXT NOT NULL,
			PRIMARY KEY (user_id, provider)
		);`,
		`CREATE TABLE IF NOT EXISTS reference_links (
			user_id TEXT NOT NULL,
			url TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS scraped_content (
			url TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			summary TEXT NOT NULL,
			fetched_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS topics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS generated_topics (
			user_id TEXT NOT NULL,
			topic_hash TEXT NOT NULL,
			PRIMARY KEY (user_id, topic_hash)
		);`,
		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			topic_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			engagement_score REAL NOT NULL,
			attractiveness_score REAL NOT NULL,
			interest_score REAL NOT NULL,
			relevance_score REAL NOT NULL,
			shareability_score REAL NOT NULL,
			professional_score REAL NOT NULL,
			reasoning TEXT,
			model_used TEXT NOT NULL,
			image_suggestion TEXT,
			schema_used TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS shares (
			id TEXT PRIMARY KEY,
			post_id INTEGER NOT NULL,
			user_id TEXT NOT NULL
		);`,
	}

	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Profiles ---

// SaveProfile inserts or updates a user's profile.
func (s *Store) SaveProfile(ctx context.Context, profile core.UserProfile) error {
	if profile.Lang == "" {
		profile.Lang = "en"
	}
	query := `
	INSERT INTO users (id, career, interests, ideals, lang, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET career = excluded.career, interests = excluded.interests,
	    ideals = excluded.ideals, lang = excluded.lang,
	    updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		profile.UserID, profile.Career, profile.Interests, profile.Ideals,
		profile.Lang, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a user's profile. Returns core.ErrProfileNotFound when
// the user has never saved one.
func (s *Store) GetProfile(ctx context.Context, userID string) (core.UserProfile, error) {
	query := `SELECT id, career, interests, ideals, lang, updated_at FROM users WHERE id = ?`

	var p core.UserProfile
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.Career, &p.Interests, &p.Ideals, &p.Lang, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return core.UserProfile{}, core.ErrProfileNotFound
	}
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("failed to scan profile: %w", err)
	}
	return p, nil
}

// --- API keys ---

// SaveAPIKey upserts the user's secret for a provider. Exactly one key per
// (user, provider) pair is kept.
func (s *Store) SaveAPIKey(ctx context.Context, userID, provider, keyValue string) error {
	query := `
	INSERT INTO api_keys (user_id, provider, key_value)
	VALUES (?, ?, ?)
	ON CONFLICT (user_id, provider) DO UPDATE SET key_value = excluded.key_value`

	_, err := s.db.ExecContext(ctx, query, userID, provider, keyValue)
	if err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	return nil
}

// GetAPIKey returns the stored key for a provider, or "" when none exists.
// Key values are never logged.
func (s *Store) GetAPIKey(ctx context.Context, userID, provider string) (string, error) {
	var key string
	err := s.db.QueryRowContext(ctx,
		`SELECT key_value FROM api_keys WHERE user_id = ? AND provider = ?`,
		userID, provider).Scan(&key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get API key: %w", err)
	}
	return key, nil
}

// ListAPIKeyProviders returns the providers the user has keys for. The key
// values themselves stay in the database.
func (s *Store) ListAPIKeyProviders(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT provider FROM api_keys WHERE user_id = ? ORDER BY provider`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	defer rows.Close()

	var providers []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

// --- Reference links ---

// ReplaceReferenceLinks replaces the user's entire saved link set. The old
// set is deleted first; this is full replacement, not a diff.
func (s *Store) ReplaceReferenceLinks(ctx context.Context, userID string, urls []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reference_links WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete reference links: %w", err)
	}
	for _, url := range urls {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reference_links (user_id, url) VALUES (?, ?)`, userID, url); err != nil {
			return fmt.Errorf("failed to insert reference link: %w", err)
		}
	}

	return tx.Commit()
}

// ListReferenceLinks returns the user's saved link URLs in insertion order.
func (s *Store) ListReferenceLinks(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url FROM reference_links WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reference links: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan reference link: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

// --- Scrape cache ---

// GetScrapedContent looks up the cache entry for a URL. Returns nil on a
// cache miss.
func (s *Store) GetScrapedContent(ctx context.Context, url string) (*core.ScrapedContent, error) {
	query := `SELECT url, title, content, summary, fetched_at FROM scraped_content WHERE url = ?`

	var c core.ScrapedContent
	err := s.db.QueryRowContext(ctx, query, url).Scan(
		&c.URL, &c.Title, &c.Content, &c.Summary, &c.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan scraped content: %w", err)
	}
	return &c, nil
}

// CacheScrapedContent stores a scrape result. Entries are written once per
// URL; a second write for the same URL is ignored rather than refreshed.
func (s *Store) CacheScrapedContent(ctx context.Context, c core.ScrapedContent) error {
	query := `
	INSERT INTO scraped_content (url, title, content, summary, fetched_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (url) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		c.URL, c.Title, c.Content, c.Summary, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to cache scraped content: %w", err)
	}
	return nil
}

// --- Topics ---

// InsertTopic persists a topic and returns it with its assigned id.
func (s *Store) InsertTopic(ctx context.Context, topic core.Topic) (core.Topic, error) {
	topic.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO topics (user_id, title, description, created_at) VALUES (?, ?, ?, ?)`,
		topic.UserID, topic.Title, topic.Description, topic.CreatedAt)
	if err != nil {
		return core.Topic{}, fmt.Errorf("failed to insert topic: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Topic{}, fmt.Errorf("failed to get topic id: %w", err)
	}
	topic.ID = id
	return topic, nil
}

// GetTopic retrieves a topic owned by the given user. Returns
// core.ErrTopicNotFound when it does not exist or belongs to someone else.
func (s *Store) GetTopic(ctx context.Context, topicID int64, userID string) (core.Topic, error) {
	query := `SELECT id, user_id, title, description, created_at FROM topics WHERE id = ? AND user_id = ?`

	var t core.Topic
	err := s.db.QueryRowContext(ctx, query, topicID, userID).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return core.Topic{}, core.ErrTopicNotFound
	}
	if err != nil {
		return core.Topic{}, fmt.Errorf("failed to scan topic: %w", err)
	}
	return t, nil
}

// ListTopics returns the user's topics, newest first.
func (s *Store) ListTopics(ctx context.Context, userID string) ([]core.Topic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, created_at FROM topics WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	var topics []core.Topic
	for rows.Next() {
		var t core.Topic
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// DeleteTopic removes a topic and its dependent posts.
func (s *Store) DeleteTopic(ctx context.Context, topicID int64, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM posts WHERE topic_id = ? AND user_id = ?`, topicID, userID); err != nil {
		return fmt.Errorf("failed to delete topic posts: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM topics WHERE id = ? AND user_id = ?`, topicID, userID); err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}

	return tx.Commit()
}

// --- Topic hash ledger ---

// ListTopicHashes returns all title hashes ever generated for the user. The
// ledger is append-only.
func (s *Store) ListTopicHashes(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT topic_hash FROM generated_topics WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list topic hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]bool)
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("failed to scan topic hash: %w", err)
		}
		hashes[h] = true
	}
	return hashes, rows.Err()
}

// InsertTopicHash appends a title hash to the user's dedup ledger.
func (s *Store) InsertTopicHash(ctx context.Context, userID, hash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generated_topics (user_id, topic_hash) VALUES (?, ?)
		 ON CONFLICT (user_id, topic_hash) DO NOTHING`,
		userID, hash)
	if err != nil {
		return fmt.Errorf("failed to insert topic hash: %w", err)
	}
	return nil
}

// --- Posts ---

// InsertPost persists a post and returns it with its assigned id.
func (s *Store) InsertPost(ctx context.Context, post core.Post) (core.Post, error) {
	post.CreatedAt = time.Now().UTC()
	query := `
	INSERT INTO posts (
		user_id, topic_id, title, content,
		engagement_score, attractiveness_score, interest_score,
		relevance_score, shareability_score, professional_score,
		reasoning, model_used, image_suggestion, schema_used, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query,
		post.UserID, post.TopicID, post.Title, post.Content,
		post.Scores.Engagement, post.Scores.Attractiveness, post.Scores.Interest,
		post.Scores.Relevance, post.Scores.Shareability, post.Scores.Professional,
		nullString(post.Reasoning), post.ModelUsed, nullString(post.ImageSuggestion),
		post.SchemaUsed, post.CreatedAt)
	if err != nil {
		return core.Post{}, fmt.Errorf("failed to insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Post{}, fmt.Errorf("failed to get post id: %w", err)
	}
	post.ID = id
	return post, nil
}

// ListPosts returns the user's posts, newest first. A topicID of 0 lists
// posts across all topics.
func (s *Store) ListPosts(ctx context.Context, userID string, topicID int64) ([]core.Post, error) {
	query := `
	SELECT id, user_id, topic_id, title, content,
	       engagement_score, attractiveness_score, interest_score,
	       relevance_score, shareability_score, professional_score,
	       reasoning, model_used, image_suggestion, schema_used, created_at
	FROM posts WHERE user_id = ?`
	args := []any{userID}
	if topicID != 0 {
		query += ` AND topic_id = ?`
		args = append(args, topicID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []core.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// GetPost retrieves a single post by id regardless of owner. Used to resolve
// shared posts.
func (s *Store) GetPost(ctx context.Context, postID int64) (core.Post, error) {
	query := `
	SELECT id, user_id, topic_id, title, content,
	       engagement_score, attractiveness_score, interest_score,
	       relevance_score, shareability_score, professional_score,
	       reasoning, model_used, image_suggestion, schema_used, created_at
	FROM posts WHERE id = ?`

	row := s.db.QueryRowContext(ctx, query, postID)
	return scanPost(row)
}

// DeletePost removes a post owned by the user.
func (s *Store) DeletePost(ctx context.Context, postID int64, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ? AND user_id = ?`, postID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// --- Shares ---

// SharePost creates a share for a post, or returns the existing share id when
// the same user has already shared it.
func (s *Store) SharePost(ctx context.Context, postID int64, userID string) (string, error) {
	var existing string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM shares WHERE post_id = ? AND user_id = ?`, postID, userID).Scan(&existing)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to look up share: %w", err)
	}

	shareID := uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO shares (id, post_id, user_id) VALUES (?, ?, ?)`,
		shareID, postID, userID); err != nil {
		return "", fmt.Errorf("failed to insert share: %w", err)
	}
	return shareID, nil
}

// GetSharedPost resolves a share id to the shared post.
func (s *Store) GetSharedPost(ctx context.Context, shareID string) (core.Post, error) {
	var postID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT post_id FROM shares WHERE id = ?`, shareID).Scan(&postID)
	if err == sql.ErrNoRows {
		return core.Post{}, core.ErrShareNotFound
	}
	if err != nil {
		return core.Post{}, fmt.Errorf("failed to look up share: %w", err)
	}
	return s.GetPost(ctx, postID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (core.Post, error) {
	var p core.Post
	var reasoning, imageSuggestion sql.NullString
	err := row.Scan(
		&p.ID, &p.UserID, &p.TopicID, &p.Title, &p.Content,
		&p.Scores.Engagement, &p.Scores.Attractiveness, &p.Scores.Interest,
		&p.Scores.Relevance, &p.Scores.Shareability, &p.Scores.Professional,
		&reasoning, &p.ModelUsed, &imageSuggestion, &p.SchemaUsed, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return core.Post{}, core.ErrPostNotFound
	}
	if err != nil {
		return core.Post{}, fmt.Errorf("failed to scan post: %w", err)
	}
	p.Reasoning = reasoning.String
	p.ImageSuggestion = imageSuggestion.String
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
