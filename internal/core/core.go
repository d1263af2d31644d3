package core

import "time"

// UserProfile holds the free-text profile fields that personalize every
// generation prompt.
type UserProfile struct {
	UserID    string    `json:"user_id"`
	Career    string    `json:"career"`
	Interests string    `json:"interests"`
	Ideals    string    `json:"ideals"`
	Lang      string    `json:"lang"` // ISO language code, defaults to "en"
	UpdatedAt time.Time `json:"updated_at"`
}

// ReferenceLink is a user-saved URL used as generation context.
type ReferenceLink struct {
	UserID string `json:"user_id"`
	URL    string `json:"url"`
}

// ScrapedContent is the cached result of scraping and summarizing a URL.
// Entries are written once per URL and treated as immutable afterwards.
type ScrapedContent struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Topic is a candidate subject for a post: a short title plus a one or two
// sentence description.
type Topic struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// PostScores holds the six 0.0-1.0 sub-scores the scoring pass assigns to a
// generated post.
type PostScores struct {
	Engagement     float64 `json:"engagement_score"`
	Attractiveness float64 `json:"attractiveness_score"`
	Interest       float64 `json:"interest_score"`
	Relevance      float64 `json:"relevance_score"`
	Shareability   float64 `json:"shareability_score"`
	Professional   float64 `json:"professional_score"`
}

// Post is a generated LinkedIn-style text artifact tied to a Topic.
type Post struct {
	ID              int64      `json:"id"`
	UserID          string     `json:"user_id"`
	TopicID         int64      `json:"topic_id"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Scores          PostScores `json:"scores"`
	Reasoning       string     `json:"reasoning,omitempty"` // empty when chain-of-thought was off
	ModelUsed       string     `json:"model_used"`
	ImageSuggestion string     `json:"image_suggestion,omitempty"`
	SchemaUsed      string     `json:"schema_used"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Share maps a post to an opaque share identifier. Sharing the same post by
// the same user again returns the existing id.
type Share struct {
	ID     string `json:"id"`
	PostID int64  `json:"post_id"`
	UserID string `json:"user_id"`
}

// AIModel describes one entry in the model catalog.
type AIModel struct {
	ID           string   `json:"id"`
	Provider     string   `json:"provider"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

// HasCapability reports whether the model advertises the given capability.
func (m AIModel) HasCapability(capability string) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// PostSchemaTemplate describes one of the named style presets that shape
// post-generation prompts.
type PostSchemaTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// langNames maps ISO language codes to the English names embedded in prompts.
var langNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"zh": "Chinese",
	"ja": "Japanese",
	"ko": "Korean",
}

// LangName returns the English name for an ISO language code, falling back to
// the code itself for unknown languages.
func LangName(code string) string {
	if name, ok := langNames[code]; ok {
		return name
	}
	return code
}
