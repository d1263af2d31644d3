// Package scrape resolves a URL into its title and readable text content.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"postforge/internal/core"
)

// Scraper fetches a URL and extracts its main textual content.
type Scraper struct {
	client    *http.Client
	userAgent string
}

// New creates a Scraper with the given request timeout and User-Agent.
func New(timeout time.Duration, userAgent string) *Scraper {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// mainContentSelectors are tried in order before falling back to the whole
// body.
var mainContentSelectors = []string{
	"article", "main", ".main-content", ".entry-content", ".post-content",
	".post-body", ".article-body",
	"[role='main']",
	".content", "#content",
}

var multiNewlineRegex = regexp.MustCompile(`(\n\s*){2,}`)

// Scrape fetches the URL and returns its title and cleaned text content.
func (s *Scraper) Scrape(ctx context.Context, url string) (core.ScrapedContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return core.ScrapedContent{}, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return core.ScrapedContent{}, fmt.Errorf("failed to fetch URL %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.ScrapedContent{}, fmt.Errorf("failed to fetch URL %s: status code %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return core.ScrapedContent{}, fmt.Errorf("failed to parse HTML from %s: %w", url, err)
	}

	title := extractTitle(doc, url)

	doc.Find("script, style, nav, footer, header, aside, form, iframe, noscript, .sidebar, #sidebar, .ad, .advertisement, .popup, .modal, .cookie-banner").Remove()

	content := extractText(doc)
	if content == "" {
		return core.ScrapedContent{}, fmt.Errorf("no readable content found at %s", url)
	}

	return core.ScrapedContent{
		URL:     url,
		Title:   title,
		Content: content,
	}, nil
}

func extractTitle(doc *goquery.Document, url string) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return url
}

func extractText(doc *goquery.Document) string {
	var textBuilder strings.Builder

	appendBlocks := func(s *goquery.Selection) {
		s.Find("p, h1, h2, h3, h4, h5, h6, li, blockquote, pre").Each(func(_ int, item *goquery.Selection) {
			text := strings.TrimSpace(item.Text())
			if text == "" {
				return
			}
			textBuilder.WriteString(text)
			textBuilder.WriteString("\n\n")
		})
	}

	for _, selector := range mainContentSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			appendBlocks(s)
		})
		if textBuilder.Len() > 0 {
			break
		}
	}

	if textBuilder.Len() == 0 {
		appendBlocks(doc.Find("body"))
	}

	cleaned := multiNewlineRegex.ReplaceAllString(textBuilder.String(), "\n")
	return strings.TrimSpace(cleaned)
}
