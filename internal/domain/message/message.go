// Package message defines the chat message value types produced by the
// notification pipeline. A Card is the channel-agnostic representation of a
// rich message; delivery channels translate it into their own wire format.
package message

// Field is one labeled value rendered inside a card.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Card is a rich structured chat message with a title, an optional image and
// an ordered list of labeled fields. A Card is built fresh per notification,
// never mutated after construction, and handed directly to a delivery
// channel.
type Card struct {
	Title       string
	Description string
	URL         string
	AuthorName  string
	ImageURL    string
	Fields      []Field
}
