package metadata

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"media-notify/internal/domain/media"
)

// DoubanClient looks up catalog metadata on Douban-style subject pages,
// keyed by id only (the subject page does not distinguish movie from TV).
// The site exposes no public JSON API, so the record is scraped from the
// page's semantic markup.
type DoubanClient struct {
	baseURL    string
	httpClient *http.Client
}

// browser-like UA; the subject pages reject the Go default
const doubanUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// NewDoubanClient creates a DoubanClient against the given base URL.
func NewDoubanClient(baseURL string, timeout time.Duration) *DoubanClient {
	return &DoubanClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SubjectURL returns the canonical subject page URL for an id.
func (c *DoubanClient) SubjectURL(id int64) string {
	return fmt.Sprintf("%s/subject/%d/", c.baseURL, id)
}

// Lookup fetches and parses the subject page for the given id.
// It returns (nil, nil) when the subject does not exist.
func (c *DoubanClient) Lookup(ctx context.Context, id int64) (*media.Record, error) {
	pageURL := c.SubjectURL(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", doubanUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch subject page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch subject page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse subject page: %w", err)
	}

	return parseSubjectPage(doc, pageURL), nil
}

// parseSubjectPage extracts the metadata record from the subject page's
// RDFa markup.
func parseSubjectPage(doc *goquery.Document, pageURL string) *media.Record {
	rec := &media.Record{URL: pageURL}

	rec.Title = strings.TrimSpace(doc.Find(`h1 span[property="v:itemreviewed"]`).First().Text())

	year := strings.TrimSpace(doc.Find("h1 span.year").First().Text())
	rec.Year = strings.Trim(year, "()")

	if s := strings.TrimSpace(doc.Find("strong.rating_num").First().Text()); s != "" {
		if rating, err := strconv.ParseFloat(s, 64); err == nil {
			rec.Rating = rating
		}
	}

	doc.Find(`span[property="v:genre"]`).Each(func(_ int, sel *goquery.Selection) {
		if g := strings.TrimSpace(sel.Text()); g != "" {
			rec.Genres = append(rec.Genres, g)
		}
	})

	rec.Intro = strings.TrimSpace(doc.Find(`span[property="v:summary"]`).First().Text())
	rec.ReleaseDate = strings.TrimSpace(doc.Find(`span[property="v:initialReleaseDate"]`).First().Text())

	if src, ok := doc.Find("#mainpic img").First().Attr("src"); ok {
		rec.CoverImage = src
	}

	rec.Country = parseCountry(doc.Find("#info").Text())

	return rec
}

// parseCountry pulls the 制片国家/地区 line out of the info block.
func parseCountry(info string) []string {
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "制片国家/地区:") {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(line, "制片国家/地区:"))
		var out []string
		for _, part := range strings.Split(value, "/") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}
