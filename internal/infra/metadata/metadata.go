// Package metadata implements the HTTP clients for the catalog metadata
// collaborators: the TMDB-style catalog API, the Douban-style subject pages,
// the internal scraper/image service and the platform user directory.
//
// Every client treats "not found" as absence rather than failure: the
// notification pipeline degrades to defaults when a source has nothing,
// so lookups return (nil, nil) or ("", nil) for missing subjects and
// reserve errors for transport and decoding problems.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"media-notify/internal/resilience/retry"
)

// getJSON performs a GET request and decodes a JSON response into out.
// A 404 response returns errNotFound so callers can map it to absence.
func getJSON(ctx context.Context, hc *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("GET %s", url),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errNotFound marks a lookup whose subject does not exist.
var errNotFound = fmt.Errorf("metadata: not found")
