// Package event defines the domain events consumed by the notification
// adapter. Events arrive from the media management platform as a type name
// plus a loosely structured payload; this package provides the event kind
// enumeration and a typed accessor layer over the payload so that missing
// keys degrade to safe zero values instead of panics.
package event

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the type of a platform event.
type Kind string

// Recognized event kinds. Any other value is silently ignored by the router.
const (
	// DownloadCompleted fires when a media download finishes.
	DownloadCompleted Kind = "DownloadCompleted"

	// DownloadStart fires when a media download begins.
	DownloadStart Kind = "DownloadStart"

	// SubMedia fires when a new media subscription is created.
	SubMedia Kind = "SubMedia"

	// SiteError fires when an indexer site cannot be reached.
	SiteError Kind = "SiteError"
)

// ParseKind converts an event type name into a Kind.
// The second return value is false for unrecognized names.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case DownloadCompleted, DownloadStart, SubMedia, SiteError:
		return Kind(s), true
	default:
		return "", false
	}
}

// Payload is a read-only view over an event's key/value data.
//
// Payload keys are not fixed; which keys are present depends on the event
// source. All accessors return a zero value when the key is absent or has an
// incompatible type, preserving the "missing key, safe default" contract of
// the upstream event bus.
type Payload map[string]any

// Has reports whether the key is present with a non-nil value.
func (p Payload) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// String returns the value for key as a string, or "" when absent.
// Numeric values are formatted rather than dropped, since identifiers
// frequently arrive as JSON numbers.
func (p Payload) String(key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// Int returns the value for key as an int64. The second return value is
// false when the key is absent or not convertible to an integer.
func (p Payload) Int(key string) (int64, bool) {
	switch v := p[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Float returns the value for key as a float64, or 0 when absent.
func (p Payload) Float(key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	default:
		return 0
	}
}

// Strings returns the value for key as a string slice.
// A scalar string value is returned as a one-element slice.
func (p Payload) Strings(key string) []string {
	switch v := p[key].(type) {
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := fmt.Sprintf("%v", item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Ints returns the value for key as an int slice. A scalar numeric value is
// returned as a one-element slice; non-numeric entries are skipped.
func (p Payload) Ints(key string) []int {
	toInt := func(v any) (int, bool) {
		switch n := v.(type) {
		case int:
			return n, true
		case int64:
			return int(n), true
		case float64:
			return int(n), true
		case json.Number:
			i, err := n.Int64()
			return int(i), err == nil
		case string:
			i, err := strconv.Atoi(strings.TrimSpace(n))
			return i, err == nil
		default:
			return 0, false
		}
	}

	switch v := p[key].(type) {
	case []int:
		return v
	case []any:
		out := make([]int, 0, len(v))
		for _, item := range v {
			if n, ok := toInt(item); ok {
				out = append(out, n)
			}
		}
		return out
	default:
		if n, ok := toInt(p[key]); ok {
			return []int{n}
		}
		return nil
	}
}

// Map returns the value for key as a nested Payload, or nil when the key is
// absent or not a mapping.
func (p Payload) Map(key string) Payload {
	switch v := p[key].(type) {
	case Payload:
		return v
	case map[string]any:
		return Payload(v)
	default:
		return nil
	}
}

// StreamInfo describes a specific downloaded file variant.
// It is embedded in download event payloads under the "media_stream" key.
type StreamInfo struct {
	MediaSource string
	Resolution  string
	FileSize    string
	ReleaseTeam string
}

// Stream extracts the embedded stream info, or nil when the payload
// carries none.
func (p Payload) Stream() *StreamInfo {
	m := p.Map("media_stream")
	if m == nil {
		return nil
	}
	return &StreamInfo{
		MediaSource: m.String("media_source"),
		Resolution:  m.String("resolution"),
		FileSize:    m.String("file_size"),
		ReleaseTeam: m.String("release_team"),
	}
}
