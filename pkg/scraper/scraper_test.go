package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScraperConfig(t *testing.T) {
	config := ScraperConfig{
		BaseURL:        "https://example.com",
		MaxDepth:       5,
		RateLimit:      1.0,
		IgnorePatterns: []string{"/ignore/", "private"},
		Timeout:        10 * time.Second,
	}

	s, err := NewWithConfig(config)
	require.NoError(t, err)
	assert.Equal(t, config.BaseURL, s.config.BaseURL)
	assert.Equal(t, config.MaxDepth, s.config.MaxDepth)
	assert.Equal(t, "example.com", s.baseHost)

	_, err = NewWithConfig(ScraperConfig{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestShouldProcessURL(t *testing.T) {
	config := ScraperConfig{
		BaseURL:           "https://example.com",
		IgnorePatterns:    []string{"/ignore/", "private"},
		AllowedExtensions: []string{".html", "/"},
	}

	s, err := NewWithConfig(config)
	require.NoError(t, err)

	tests := []struct {
		url      string
		expected bool
	}{
		{"https://example.com/docs/", true},
		{"https://example.com/page.html", true},
		{"https://example.com/ignore/page.html", false},
		{"https://other-domain.com/page.html", false},
		{"https://example.com/file.pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			result := s.shouldProcessURL(tt.url)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCleanContent(t *testing.T) {
	assert.Equal(t, "Posting a job is easy.", cleanContent("  Posting a job\n\t is easy. Cookie Policy "))
}

func TestScrapeWithMockServer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`
			<html>
				<head><title>Help Center</title></head>
				<body>
					<nav>Menu</nav>
					<main>
						<h1>Posting jobs</h1>
						<p>Clients post jobs from the dashboard.</p>
						<a href="/guide.html">Guide</a>
						<a href="/guide.html#top">Guide again</a>
						<a href="/missing.html">Missing</a>
						<a href="https://elsewhere.example/">External</a>
					</main>
				</body>
			</html>
		`))
	})
	mux.HandleFunc("/guide.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Guide</title></head><body><article>Freelancers apply to jobs.</article></body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	var visited []string
	s, err := NewWithConfig(ScraperConfig{
		BaseURL:    server.URL + "/",
		MaxDepth:   1,
		RateLimit:  100,
		OnProgress: func(url string) { visited = append(visited, url) },
	})
	require.NoError(t, err)

	docs, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "Posting jobs Clients post jobs from the dashboard. Guide Guide again Missing External", docs[0].Content)
	assert.Equal(t, CategoryDocs, docs[0].Metadata.String("category"))
	assert.Equal(t, server.URL+"/", docs[0].Metadata.String("url"))
	assert.Equal(t, "Help Center", docs[0].Metadata.String("title"))

	assert.Equal(t, "Freelancers apply to jobs.", docs[1].Content)
	assert.Equal(t, server.URL+"/guide.html", docs[1].Metadata.String("url"))

	// the fragment link resolves to an already visited page
	assert.Len(t, visited, 3)
}

func TestScrapeStartPageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s, err := NewWithConfig(ScraperConfig{BaseURL: server.URL + "/", RateLimit: 100})
	require.NoError(t, err)

	_, err = s.Scrape(context.Background())
	assert.ErrorContains(t, err, "status code 500")
}
