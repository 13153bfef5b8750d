package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-notify/internal/domain/media"
	"media-notify/internal/domain/message"
)

// Fake collaborators. Call counts let tests assert which sources were
// consulted for a given payload shape.

type fakeCatalog struct {
	rec     *media.Record
	err     error
	calls   int
	gotKind media.Kind
	gotID   int64
}

func (f *fakeCatalog) Lookup(_ context.Context, kind media.Kind, id int64) (*media.Record, error) {
	f.calls++
	f.gotKind = kind
	f.gotID = id
	return f.rec, f.err
}

type fakeLibrary struct {
	rec   *media.Record
	err   error
	calls int
	gotID int64
}

func (f *fakeLibrary) Lookup(_ context.Context, id int64) (*media.Record, error) {
	f.calls++
	f.gotID = id
	return f.rec, f.err
}

func (f *fakeLibrary) SubjectURL(id int64) string {
	return fmt.Sprintf("https://movie.douban.com/subject/%d/", id)
}

type fakeImages struct {
	url       string
	err       error
	calls     int
	gotID     int64
	gotSeason *int
}

func (f *fakeImages) Backdrop(_ context.Context, _ media.Kind, tmdbID int64, seasonNumber *int) (string, error) {
	f.calls++
	f.gotID = tmdbID
	f.gotSeason = seasonNumber
	return f.url, f.err
}

type fakeUsers struct {
	name  string
	err   error
	calls int
}

func (f *fakeUsers) Nickname(_ context.Context, _ int64) (string, error) {
	f.calls++
	return f.name, f.err
}

type fakeChannel struct {
	name    string
	enabled bool
	err     error
	cards   []*message.Card
	texts   []string
}

func (f *fakeChannel) Name() string    { return f.name }
func (f *fakeChannel) IsEnabled() bool { return f.enabled }

func (f *fakeChannel) SendCard(_ context.Context, card *message.Card) error {
	f.cards = append(f.cards, card)
	return f.err
}

func (f *fakeChannel) SendText(_ context.Context, content string) error {
	f.texts = append(f.texts, content)
	return f.err
}

type routerFixture struct {
	catalog *fakeCatalog
	library *fakeLibrary
	images  *fakeImages
	users   *fakeUsers
	channel *fakeChannel
	router  *Router
}

func newFixture() *routerFixture {
	f := &routerFixture{
		catalog: &fakeCatalog{},
		library: &fakeLibrary{},
		images:  &fakeImages{},
		users:   &fakeUsers{},
		channel: &fakeChannel{name: "discord", enabled: true},
	}
	f.router = NewRouter(f.catalog, f.library, f.images, f.users, []Channel{f.channel})
	return f
}

func TestRouter_Route_UnknownEventType(t *testing.T) {
	f := newFixture()

	f.router.Route(context.Background(), "SomethingElse", map[string]any{"tmdb_id": float64(1)})

	assert.Zero(t, f.catalog.calls)
	assert.Empty(t, f.channel.cards)
	assert.Empty(t, f.channel.texts)
}

func TestRouter_Route_SiteError(t *testing.T) {
	f := newFixture()

	f.router.Route(context.Background(), "SiteError", map[string]any{
		"site_name": "SiteX",
		"reason":    "connection timed out",
	})

	require.Len(t, f.channel.texts, 1)
	assert.Equal(t, "访问SiteX异常，错误原因：connection timed out", f.channel.texts[0])
	assert.Empty(t, f.channel.cards)
	assert.Zero(t, f.catalog.calls, "site errors must not trigger metadata lookups")
	assert.Zero(t, f.images.calls)
}

func TestRouter_Route_NoMediaIdentifier(t *testing.T) {
	f := newFixture()

	f.router.Route(context.Background(), "DownloadCompleted", map[string]any{
		"title":      "Some Download",
		"media_type": "Movie",
	})

	assert.Empty(t, f.channel.cards, "events without an identifier must not produce a card")
	assert.Empty(t, f.channel.texts)
	assert.Zero(t, f.catalog.calls, "no lookup may happen before the identifier check")
	assert.Zero(t, f.library.calls)
	assert.Zero(t, f.images.calls)
	assert.Zero(t, f.users.calls)
}

func TestRouter_Route_DownloadCompleted(t *testing.T) {
	f := newFixture()
	f.catalog.rec = &media.Record{
		Title:   "沙丘",
		Year:    "2021",
		Genres:  []string{"科幻"},
		Country: []string{"美国"},
		Intro:   "A noble family becomes embroiled in a war.",
	}
	f.library.rec = &media.Record{
		URL:        "https://movie.douban.com/subject/3001114/",
		CoverImage: "https://img.example.org/cover.jpg",
	}
	f.images.url = "https://image.example.org/backdrop.jpg"

	f.router.Route(context.Background(), "DownloadCompleted", map[string]any{
		"media_type": "Movie",
		"tmdb_id":    float64(438631),
		"douban_id":  float64(3001114),
		"site_name":  "SiteX",
		"nickname":   "alice",
		"media_stream": map[string]any{
			"media_source": "WEB-DL",
			"resolution":   "1080p",
			"file_size":    "2.3GB",
		},
	})

	require.Len(t, f.channel.cards, 1)
	card := f.channel.cards[0]

	assert.Equal(t, "沙丘(2021)", card.Title)
	assert.Equal(t, "来自alice的资源下载完成", card.AuthorName)
	assert.Equal(t, "A noble family becomes embroiled in a war.", card.Description)
	assert.Equal(t, "https://movie.douban.com/subject/3001114/", card.URL, "link should fill from the secondary record")
	assert.Equal(t, "https://image.example.org/backdrop.jpg", card.ImageURL, "image service wins over the secondary cover")

	require.Len(t, card.Fields, 2)
	assert.Equal(t, "WEB-DL · 1080p · 2.3GB", card.Fields[0].Value)
	assert.Equal(t, "美国 科幻", card.Fields[1].Value)

	assert.Equal(t, 1, f.catalog.calls)
	assert.Equal(t, int64(438631), f.catalog.gotID)
	assert.Equal(t, media.Movie, f.catalog.gotKind)
	assert.Equal(t, 1, f.library.calls)
	assert.Equal(t, int64(3001114), f.library.gotID)
	assert.Zero(t, f.users.calls, "supplied nickname must skip the user lookup")
}

func TestRouter_Route_DownloadCompleted_SeriesTitle(t *testing.T) {
	f := newFixture()
	f.catalog.rec = &media.Record{Title: "Show", Year: "2020"}

	f.router.Route(context.Background(), "DownloadCompleted", map[string]any{
		"media_type":    "TV",
		"tmdb_id":       float64(100),
		"site_name":     "SiteX",
		"nickname":      "alice",
		"season_number": float64(3),
		"episodes":      []any{float64(5)},
	})

	require.Len(t, f.channel.cards, 1)
	assert.Equal(t, "Show(2020) - S03E05", f.channel.cards[0].Title)
	require.NotNil(t, f.images.gotSeason)
	assert.Equal(t, 3, *f.images.gotSeason)
}

func TestRouter_Route_DownloadCompleted_ManualDownload(t *testing.T) {
	f := newFixture()
	f.catalog.rec = &media.Record{Title: "沙丘", Year: "2021"}

	// no site_name: the download was not user-initiated from a site
	f.router.Route(context.Background(), "DownloadCompleted", map[string]any{
		"media_type": "Movie",
		"tmdb_id":    float64(438631),
	})

	require.Len(t, f.channel.cards, 1)
	assert.Equal(t, "下载完成", f.channel.cards[0].AuthorName)
}

func TestRouter_Route_DownloadStart(t *testing.T) {
	f := newFixture()
	f.catalog.rec = &media.Record{Title: "沙丘", Year: "2021"}

	t.Run("TC-1: should label site downloads with the nickname", func(t *testing.T) {
		f.channel.cards = nil
		f.router.Route(context.Background(), "DownloadStart", map[string]any{
			"media_type": "Movie",
			"tmdb_id":    float64(438631),
			"site_name":  "SiteX",
			"nickname":   "bob",
		})
		require.Len(t, f.channel.cards, 1)
		assert.Equal(t, "来自bob的资源开始下载", f.channel.cards[0].AuthorName)
	})

	t.Run("TC-2: should label manual downloads without a nickname", func(t *testing.T) {
		f.channel.cards = nil
		f.router.Route(context.Background(), "DownloadStart", map[string]any{
			"media_type": "Movie",
			"tmdb_id":    float64(438631),
		})
		require.Len(t, f.channel.cards, 1)
		assert.Equal(t, "来自手动下载", f.channel.cards[0].AuthorName)
	})
}

func TestRouter_Route_SubMedia(t *testing.T) {
	f := newFixture()
	f.catalog.rec = &media.Record{Title: "Show", Year: "2020"}

	// subscription payloads carry presentation-ready season/episode strings
	f.router.Route(context.Background(), "SubMedia", map[string]any{
		"type":          "TV",
		"tmdb_id":       float64(100),
		"nickname":      "carol",
		"season_number": "3",
		"episodes":      "全集",
	})

	require.Len(t, f.channel.cards, 1)
	card := f.channel.cards[0]
	assert.Equal(t, "新增来自carol的订阅", card.AuthorName)
	assert.Equal(t, "Show(2020) - S3E全集", card.Title, "subscription values pass through unnormalized")
}

func TestRouter_Route_NicknameFallback(t *testing.T) {
	t.Run("TC-1: should resolve nickname via user lookup", func(t *testing.T) {
		f := newFixture()
		f.catalog.rec = &media.Record{Title: "沙丘", Year: "2021"}
		f.users.name = "dave"

		f.router.Route(context.Background(), "SubMedia", map[string]any{
			"type":    "Movie",
			"tmdb_id": float64(438631),
			"uid":     float64(7),
		})

		require.Len(t, f.channel.cards, 1)
		assert.Equal(t, "新增来自dave的订阅", f.channel.cards[0].AuthorName)
		assert.Equal(t, 1, f.users.calls)
	})

	t.Run("TC-2: should fall back to the unknown user label on lookup failure", func(t *testing.T) {
		f := newFixture()
		f.catalog.rec = &media.Record{Title: "沙丘", Year: "2021"}
		f.users.err = errors.New("directory unavailable")

		f.router.Route(context.Background(), "SubMedia", map[string]any{
			"type":    "Movie",
			"tmdb_id": float64(438631),
			"uid":     float64(7),
		})

		require.Len(t, f.channel.cards, 1)
		assert.Equal(t, "新增来自未知用户的订阅", f.channel.cards[0].AuthorName)
	})

	t.Run("TC-3: should fall back to the unknown user label without a uid", func(t *testing.T) {
		f := newFixture()
		f.catalog.rec = &media.Record{Title: "沙丘", Year: "2021"}

		f.router.Route(context.Background(), "SubMedia", map[string]any{
			"type":    "Movie",
			"tmdb_id": float64(438631),
		})

		require.Len(t, f.channel.cards, 1)
		assert.Equal(t, "新增来自未知用户的订阅", f.channel.cards[0].AuthorName)
		assert.Zero(t, f.users.calls)
	})
}

func TestRouter_Route_CustomRecord(t *testing.T) {
	f := newFixture()
	f.images.url = "https://image.example.org/backdrop.jpg"
	// catalog and library records would lose to the custom record
	f.catalog.rec = &media.Record{Title: "wrong"}
	f.library.rec = &media.Record{Title: "also wrong"}

	f.router.Route(context.Background(), "DownloadCompleted", map[string]any{
		"media_type": "Movie",
		"tmdb_id":    float64(438631),
		"douban_id":  float64(3001114),
		"x_meta": map[string]any{
			"title":        "沙丘",
			"releaseYear":  "2021",
			"rating":       7.9,
			"genres":       []any{"科幻", "冒险"},
			"country":      []any{"美国"},
			"intro":        "Curated intro.",
			"premiereDate": "2021-10-22",
			"doubanId":     float64(3001114),
			"tmdbId":       float64(438631),
		},
	})

	require.Len(t, f.channel.cards, 1)
	card := f.channel.cards[0]

	assert.Equal(t, "沙丘(2021)", card.Title)
	assert.Equal(t, "Curated intro.", card.Description)
	assert.Equal(t, "https://movie.douban.com/subject/3001114/", card.URL)
	assert.Equal(t, "https://image.example.org/backdrop.jpg", card.ImageURL)

	assert.Zero(t, f.catalog.calls, "custom record must short-circuit the catalog lookup")
	assert.Zero(t, f.library.calls, "custom record must short-circuit the library lookup")
	assert.Equal(t, 1, f.images.calls, "image still resolves against the custom catalog id")
	assert.Equal(t, int64(438631), f.images.gotID)
}

func TestRouter_Route_LookupFailuresDegrade(t *testing.T) {
	f := newFixture()
	f.catalog.err = errors.New("catalog down")
	f.library.rec = &media.Record{Title: "沙丘", Year: "2021", CoverImage: "https://img.example.org/cover.jpg"}

	f.router.Route(context.Background(), "DownloadCompleted", map[string]any{
		"media_type": "Movie",
		"tmdb_id":    float64(438631),
		"douban_id":  float64(3001114),
	})

	require.Len(t, f.channel.cards, 1, "a failed lookup must not block the card")
	card := f.channel.cards[0]
	assert.Equal(t, "沙丘(2021)", card.Title, "secondary record fills in for the failed primary")
	assert.Equal(t, "https://img.example.org/cover.jpg", card.ImageURL, "secondary cover is the image fallback")
	assert.Zero(t, f.images.calls, "image service is only consulted when the primary resolved")
}

func TestRouter_Route_DeliveryFailureSwallowed(t *testing.T) {
	f := newFixture()
	f.catalog.rec = &media.Record{Title: "沙丘", Year: "2021"}
	f.channel.err = errors.New("webhook down")

	// must not panic or propagate
	f.router.Route(context.Background(), "DownloadCompleted", map[string]any{
		"media_type": "Movie",
		"tmdb_id":    float64(438631),
	})

	assert.Len(t, f.channel.cards, 1)
}

func TestRouter_Route_DisabledChannelSkipped(t *testing.T) {
	f := newFixture()
	f.catalog.rec = &media.Record{Title: "沙丘", Year: "2021"}
	f.channel.enabled = false

	f.router.Route(context.Background(), "DownloadCompleted", map[string]any{
		"media_type": "Movie",
		"tmdb_id":    float64(438631),
	})

	assert.Empty(t, f.channel.cards)
}

func TestRouter_ChannelHealth(t *testing.T) {
	f := newFixture()

	statuses := f.router.ChannelHealth()

	require.Len(t, statuses, 1)
	assert.Equal(t, "discord", statuses[0].Name)
	assert.True(t, statuses[0].Enabled)
	assert.False(t, statuses[0].CircuitBreakerOpen)
}
