// Package media defines the catalog metadata value types shared by the
// metadata clients and the notification pipeline, along with the merge rule
// that picks a best-available value per field when two providers answer.
package media

// Kind distinguishes movies from episodic series.
type Kind string

const (
	// Movie is a single feature film.
	Movie Kind = "Movie"

	// TV is an episodic series.
	TV Kind = "TV"
)

// ParseKind converts a payload media type value into a Kind.
// The second return value is false for unrecognized values.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case Movie, TV:
		return Kind(s), true
	default:
		return "", false
	}
}

// Record is a normalized catalog metadata record for one movie or series.
// A Record is produced per lookup and never mutated after it is fetched;
// its lifetime is scoped to processing a single event.
type Record struct {
	Title       string
	Year        string
	Rating      float64
	Genres      []string
	Country     []string
	Intro       string
	ReleaseDate string
	URL         string
	CoverImage  string
}

// Empty reports whether the record carries no usable fields.
func (r *Record) Empty() bool {
	if r == nil {
		return true
	}
	return r.Title == "" && r.Year == "" && r.Rating == 0 &&
		len(r.Genres) == 0 && len(r.Country) == 0 && r.Intro == "" &&
		r.ReleaseDate == "" && r.URL == "" && r.CoverImage == ""
}

// Merge combines two provider records field by field. For every field the
// primary provider's value wins when it is non-empty; otherwise the
// secondary provider's value is used. When only one record is present it is
// used outright; when neither is present Merge returns nil and the caller
// must tolerate all fields being absent.
//
// Merge deliberately does not touch CoverImage: the presentation image is
// resolved independently against the image service, with the secondary
// record's cover as the fallback, so both covers are carried through.
func Merge(primary, secondary *Record) *Record {
	if primary == nil {
		return secondary
	}
	if secondary == nil {
		return primary
	}

	merged := *primary
	if merged.Title == "" {
		merged.Title = secondary.Title
	}
	if merged.Year == "" {
		merged.Year = secondary.Year
	}
	if merged.Rating == 0 {
		merged.Rating = secondary.Rating
	}
	if len(merged.Genres) == 0 {
		merged.Genres = secondary.Genres
	}
	if len(merged.Country) == 0 {
		merged.Country = secondary.Country
	}
	if merged.Intro == "" {
		merged.Intro = secondary.Intro
	}
	if merged.ReleaseDate == "" {
		merged.ReleaseDate = secondary.ReleaseDate
	}
	if merged.URL == "" {
		merged.URL = secondary.URL
	}
	if merged.CoverImage == "" {
		merged.CoverImage = secondary.CoverImage
	}
	return &merged
}
