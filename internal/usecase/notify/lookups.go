package notify

import (
	"context"

	"media-notify/internal/domain/media"
)

// Collaborator interfaces consumed by the resolver. The concrete HTTP
// clients live in internal/infra/metadata; tests substitute fakes.

// CatalogLookup fetches catalog metadata keyed by (media kind, catalog id).
// This is the primary metadata provider: its fields win in a merge.
type CatalogLookup interface {
	Lookup(ctx context.Context, kind media.Kind, id int64) (*media.Record, error)
}

// LibraryLookup fetches catalog metadata keyed by id alone, the secondary
// provider. SubjectURL builds the canonical public page URL for an id,
// used as the link target for curated custom records.
type LibraryLookup interface {
	Lookup(ctx context.Context, id int64) (*media.Record, error)
	SubjectURL(id int64) string
}

// ImageLookup fetches a background image keyed by (media kind, catalog id,
// optional season number). An empty URL means no image is available, which
// is not an error.
type ImageLookup interface {
	Backdrop(ctx context.Context, kind media.Kind, tmdbID int64, seasonNumber *int) (string, error)
}

// UserLookup resolves a platform user id to a display nickname.
type UserLookup interface {
	Nickname(ctx context.Context, uid int64) (string, error)
}
