// Package ingest resolves reference-link URLs into the textual context blocks
// embedded in generation prompts, using a cache-or-scrape-and-summarize
// strategy.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"postforge/internal/core"
	"postforge/internal/logger"
	"postforge/internal/provider"
)

// summaryWordLimit bounds the summary requested for freshly scraped content.
const summaryWordLimit = 950

// contentExcerptLimit is how much raw content is quoted in a context block.
const contentExcerptLimit = 1000

const summaryPromptTemplate = `Summarize the following web page content in at most %d words. Focus on the facts, arguments and insights that would matter to a professional audience. Write only the summary, no meta-commentary.

Title: %s

Content:
%s`

// TextGenerator is the slice of the provider adapter the ingestor needs.
type TextGenerator interface {
	GenerateText(ctx context.Context, userID, prompt, modelID string, opts provider.Options) (string, error)
}

// ContentScraper fetches a URL's title and text content. It may fail on
// network or parse errors.
type ContentScraper interface {
	Scrape(ctx context.Context, url string) (core.ScrapedContent, error)
}

// Cache is the slice of the store the ingestor needs.
type Cache interface {
	GetScrapedContent(ctx context.Context, url string) (*core.ScrapedContent, error)
	CacheScrapedContent(ctx context.Context, content core.ScrapedContent) error
}

// Ingestor turns a list of URLs into prompt context.
type Ingestor struct {
	cache     Cache
	scraper   ContentScraper
	generator TextGenerator
}

// New creates an Ingestor.
func New(cache Cache, scraper ContentScraper, generator TextGenerator) *Ingestor {
	return &Ingestor{cache: cache, scraper: scraper, generator: generator}
}

// Ingest resolves each URL independently, in order, into a context block and
// joins the blocks with blank lines. A URL that fails to scrape yields an
// error block instead of aborting the batch. An empty URL list returns ""
// without any network or LLM calls.
func (in *Ingestor) Ingest(ctx context.Context, userID, modelID string, urls []string) (string, error) {
	if len(urls) == 0 {
		return "", nil
	}

	blocks := make([]string, 0, len(urls))
	for _, url := range urls {
		block, err := in.ingestOne(ctx, userID, modelID, url)
		if err != nil {
			// Per-URL failure is isolated: report it inline and move on.
			logger.Warn("failed to ingest reference link", "url", url, "reason", err.Error())
			block = fmt.Sprintf("URL: %s\nError: Failed to scrape content", url)
		}
		blocks = append(blocks, block)
	}

	return strings.Join(blocks, "\n\n"), nil
}

func (in *Ingestor) ingestOne(ctx context.Context, userID, modelID, url string) (string, error) {
	cached, err := in.cache.GetScrapedContent(ctx, url)
	if err != nil {
		return "", fmt.Errorf("cache lookup failed: %w", err)
	}
	if cached != nil {
		return formatCachedBlock(*cached), nil
	}

	scraped, err := in.scraper.Scrape(ctx, url)
	if err != nil {
		return "", err
	}

	summary, err := in.summarize(ctx, userID, modelID, scraped)
	if err != nil {
		return "", err
	}
	scraped.Summary = summary

	if err := in.cache.CacheScrapedContent(ctx, scraped); err != nil {
		// A cache write failure shouldn't lose the freshly scraped context.
		logger.Warn("failed to cache scraped content", "url", url, "reason", err.Error())
	}

	return formatScrapedBlock(scraped), nil
}

func (in *Ingestor) summarize(ctx context.Context, userID, modelID string, c core.ScrapedContent) (string, error) {
	prompt := fmt.Sprintf(summaryPromptTemplate, summaryWordLimit, c.Title, c.Content)
	summary, err := in.generator.GenerateText(ctx, userID, prompt, modelID, provider.Options{})
	if err != nil {
		return "", fmt.Errorf("failed to summarize %s: %w", c.URL, err)
	}
	return strings.TrimSpace(summary), nil
}

func formatCachedBlock(c core.ScrapedContent) string {
	title := c.Title
	if title == "" {
		title = "Unknown"
	}
	summary := c.Summary
	if summary == "" {
		summary = "No summary available"
	}
	return fmt.Sprintf("URL: %s\nTitle: %s\nSummary: %s", c.URL, title, summary)
}

func formatScrapedBlock(c core.ScrapedContent) string {
	title := c.Title
	if title == "" {
		title = "Unknown"
	}
	excerpt := c.Content
	if len(excerpt) > contentExcerptLimit {
		excerpt = excerpt[:contentExcerptLimit] + "..."
	}
	return fmt.Sprintf("URL: %s\nTitle: %s\nContent: %s\nSummary: %s", c.URL, title, excerpt, c.Summary)
}
