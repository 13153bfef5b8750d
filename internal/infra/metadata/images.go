package metadata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"media-notify/internal/domain/media"
)

// ScraperClient fetches presentation images from the internal scraper
// service, keyed by (media kind, catalog id, optional season number).
type ScraperClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewScraperClient creates a ScraperClient against the given base URL.
func NewScraperClient(baseURL string, timeout time.Duration) *ScraperClient {
	return &ScraperClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// scraperImages is the image set the scraper returns for one subject.
type scraperImages struct {
	MainBackground string `json:"main_background"`
	MainPoster     string `json:"main_poster"`
}

// Backdrop returns the main background image URL for the subject, or ""
// when the scraper has no image. A missing image is not an error; the card
// is rendered without a picture.
func (c *ScraperClient) Backdrop(ctx context.Context, kind media.Kind, tmdbID int64, seasonNumber *int) (string, error) {
	query := url.Values{}
	query.Set("media_type", string(kind))
	query.Set("tmdb_id", strconv.FormatInt(tmdbID, 10))
	if seasonNumber != nil {
		query.Set("season_number", strconv.Itoa(*seasonNumber))
	}

	endpoint := fmt.Sprintf("%s/api/v1/media/images?%s", c.baseURL, query.Encode())

	var images scraperImages
	if err := getJSON(ctx, c.httpClient, endpoint, &images); err != nil {
		if errors.Is(err, errNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("scraper images %d: %w", tmdbID, err)
	}
	return images.MainBackground, nil
}
