package metadata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"media-notify/internal/domain/media"
)

// TMDBClient looks up catalog metadata on a TMDB-style API, keyed by
// (media kind, catalog id).
type TMDBClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewTMDBClient creates a TMDBClient against the given base URL.
func NewTMDBClient(baseURL, apiKey string, timeout time.Duration) *TMDBClient {
	return &TMDBClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// tmdbDetail is the subset of the detail endpoint response the card needs.
// Movie and TV payloads share the struct; the per-kind fields are split
// (title/name, release_date/first_air_date).
type tmdbDetail struct {
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	Overview     string  `json:"overview"`
	Genres       []struct {
		Name string `json:"name"`
	} `json:"genres"`
	ProductionCountries []struct {
		Name string `json:"name"`
	} `json:"production_countries"`
	OriginCountry []string `json:"origin_country"`
	PosterPath    string   `json:"poster_path"`
}

// Lookup fetches the catalog record for the given media kind and id.
// It returns (nil, nil) when the catalog has no such subject.
func (c *TMDBClient) Lookup(ctx context.Context, kind media.Kind, id int64) (*media.Record, error) {
	segment := "movie"
	if kind == media.TV {
		segment = "tv"
	}
	url := fmt.Sprintf("%s/3/%s/%d?api_key=%s&language=zh-CN", c.baseURL, segment, id, c.apiKey)

	var detail tmdbDetail
	if err := getJSON(ctx, c.httpClient, url, &detail); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("tmdb lookup %s/%d: %w", segment, id, err)
	}

	return detail.toRecord(segment, id), nil
}

func (d *tmdbDetail) toRecord(segment string, id int64) *media.Record {
	title := d.Title
	date := d.ReleaseDate
	if title == "" {
		title = d.Name
	}
	if date == "" {
		date = d.FirstAirDate
	}

	year := ""
	if len(date) >= 4 {
		year = date[:4]
	}

	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}

	country := make([]string, 0, len(d.ProductionCountries))
	for _, pc := range d.ProductionCountries {
		country = append(country, pc.Name)
	}
	if len(country) == 0 {
		country = d.OriginCountry
	}

	cover := ""
	if d.PosterPath != "" {
		cover = "https://image.tmdb.org/t/p/original" + d.PosterPath
	}

	return &media.Record{
		Title:       title,
		Year:        year,
		Rating:      d.VoteAverage,
		Genres:      genres,
		Country:     country,
		Intro:       d.Overview,
		ReleaseDate: date,
		URL:         fmt.Sprintf("https://www.themoviedb.org/%s/%d", segment, id),
		CoverImage:  cover,
	}
}
