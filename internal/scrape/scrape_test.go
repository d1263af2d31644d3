package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestScrape_ArticleContent(t *testing.T) {
	server := serveHTML(t, `<html><head><title>Page Title</title></head>
<body>
<nav>Navigation junk</nav>
<article>
<h1>The Headline</h1>
<p>First paragraph of the article.</p>
<p>Second paragraph.</p>
</article>
<footer>Footer junk</footer>
</body></html>`)

	scraper := New(5*time.Second, "test-agent")
	got, err := scraper.Scrape(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}

	if got.Title != "Page Title" {
		t.Errorf("title = %q, want Page Title", got.Title)
	}
	if !strings.Contains(got.Content, "First paragraph of the article.") {
		t.Errorf("content missing article text: %q", got.Content)
	}
	if strings.Contains(got.Content, "Navigation junk") || strings.Contains(got.Content, "Footer junk") {
		t.Errorf("nav/footer should be stripped: %q", got.Content)
	}
	if got.URL != server.URL {
		t.Errorf("url = %q", got.URL)
	}
}

func TestScrape_PrefersOGTitle(t *testing.T) {
	server := serveHTML(t, `<html><head>
<meta property="og:title" content="Social Title">
<title>Tab Title</title>
</head><body><article><p>Body text here.</p></article></body></html>`)

	scraper := New(5*time.Second, "")
	got, err := scraper.Scrape(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}
	if got.Title != "Social Title" {
		t.Errorf("title = %q, want the og:title value", got.Title)
	}
}

func TestScrape_BodyFallback(t *testing.T) {
	server := serveHTML(t, `<html><head><title>T</title></head>
<body><div><p>Loose paragraph outside any main container.</p></div></body></html>`)

	scraper := New(5*time.Second, "")
	got, err := scraper.Scrape(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}
	if !strings.Contains(got.Content, "Loose paragraph") {
		t.Errorf("body fallback missed the text: %q", got.Content)
	}
}

func TestScrape_SendsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html><body><article><p>hi there</p></article></body></html>`))
	}))
	defer server.Close()

	scraper := New(5*time.Second, "postforge-test/1.0")
	if _, err := scraper.Scrape(context.Background(), server.URL); err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}
	if gotUA != "postforge-test/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestScrape_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	scraper := New(5*time.Second, "")
	if _, err := scraper.Scrape(context.Background(), server.URL); err == nil {
		t.Error("non-200 response should fail")
	}
}

func TestScrape_NoReadableContent(t *testing.T) {
	server := serveHTML(t, `<html><head><title>Empty</title></head><body><script>var x = 1;</script></body></html>`)

	scraper := New(5*time.Second, "")
	if _, err := scraper.Scrape(context.Background(), server.URL); err == nil {
		t.Error("page without readable text should fail")
	}
}
