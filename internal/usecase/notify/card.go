package notify

import (
	"fmt"
	"strings"

	"media-notify/internal/domain/event"
	"media-notify/internal/domain/media"
	"media-notify/internal/domain/message"
)

// cardData is everything the card builder needs: merged metadata plus the
// normalized presentation fields. Any field may be absent.
type cardData struct {
	Kind     media.Kind
	Meta     *media.Record
	ImageURL string
	Season   string
	Episodes string
	Stream   *event.StreamInfo
	FileSize string
}

// buildCard assembles the rich card message for one notification.
//
// The title is "{title}({year})"; for anything that is not a movie the
// season segment " - S{nn}" is appended when a season is present, then the
// episode segment "E{eps}" directly after it with no separator beyond the
// literal E.
func buildCard(author string, d cardData) *message.Card {
	meta := d.Meta
	if meta == nil {
		meta = &media.Record{}
	}

	title := fmt.Sprintf("%s(%s)", meta.Title, meta.Year)
	if d.Kind != media.Movie {
		if d.Season != "" {
			title += fmt.Sprintf(" - S%s", d.Season)
		}
		if d.Episodes != "" {
			title += fmt.Sprintf("E%s", d.Episodes)
		}
	}

	var fields []message.Field
	if quality, ok := qualityValue(d.Stream, d.FileSize); ok {
		fields = append(fields, message.Field{Name: "品质", Value: quality})
	}
	if style := styleValue(meta.Country, meta.Genres); style != "" {
		fields = append(fields, message.Field{Name: "风格", Value: style, Inline: true})
	}

	return &message.Card{
		Title:       title,
		Description: strings.TrimSpace(meta.Intro),
		URL:         meta.URL,
		AuthorName:  author,
		ImageURL:    d.ImageURL,
		Fields:      fields,
	}
}

// qualityValue joins the stream descriptors in fixed order (source,
// resolution, file size, release team) with " · ", then appends the
// top-level file size. Without stream info the value is just the top-level
// file size; the second return value is false when the field should be
// omitted entirely.
func qualityValue(stream *event.StreamInfo, fileSize string) (string, bool) {
	if stream == nil {
		if fileSize == "" {
			return "", false
		}
		return fileSize, true
	}

	var parts []string
	for _, p := range []string{stream.MediaSource, stream.Resolution, stream.FileSize, stream.ReleaseTeam, fileSize} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · "), true
}

// styleValue renders the style field: the country list joined by " · ",
// a single space, then the genre list joined by " · ". Empty when there
// are no genres. When the country list is empty the value keeps its
// leading space; the rendering downstream depends on the exact string.
func styleValue(country, genres []string) string {
	if len(genres) == 0 {
		return ""
	}
	return strings.Join(country, " · ") + " " + strings.Join(genres, " · ")
}
