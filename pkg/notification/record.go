package notification

import (
	"time"

	"github.com/google/uuid"
)

// Colors used by the bridge. Values are 24-bit RGB.
const (
	ColorInfo    = 0x3498db
	ColorSuccess = 0x2ecc71
	ColorWarning = 0xe67e22
	ColorError   = 0xe74c3c

	DefaultColor = ColorInfo
)

// DefaultTitle is used for frames that carry no title.
const DefaultTitle = "Notification"

// Field is one named value shown with a notification.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Record is one notification ready for delivery. It is not modified after
// construction; consumers must treat Fields as read-only.
type Record struct {
	ID          string    `json:"id"`
	Type        string    `json:"type,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Footer      string    `json:"footer,omitempty"`
	Color       int       `json:"color"`
	Timestamp   time.Time `json:"timestamp"`
	Fields      []Field   `json:"fields,omitempty"`
}

// Option configures a Record built with New.
type Option func(*Record)

// WithDescription sets the description.
func WithDescription(desc string) Option {
	return func(r *Record) { r.Description = desc }
}

// WithColor sets the color. Zero keeps DefaultColor.
func WithColor(color int) Option {
	return func(r *Record) {
		if color != 0 {
			r.Color = color
		}
	}
}

// WithFooter sets the footer text.
func WithFooter(footer string) Option {
	return func(r *Record) { r.Footer = footer }
}

// WithTimestamp overrides the creation time.
func WithTimestamp(ts time.Time) Option {
	return func(r *Record) {
		if !ts.IsZero() {
			r.Timestamp = ts
		}
	}
}

// WithType tags the record with the producer's event type.
func WithType(typ string) Option {
	return func(r *Record) { r.Type = typ }
}

// WithFields appends fields.
func WithFields(fields ...Field) Option {
	return func(r *Record) { r.Fields = append(r.Fields, fields...) }
}

// New builds a record stamped with the current time and a fresh id.
func New(title string, opts ...Option) Record {
	r := Record{
		ID:        uuid.NewString(),
		Title:     title,
		Color:     DefaultColor,
		Timestamp: time.Now(),
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	return r
}

// Inline returns an inline field.
func Inline(name, value string) Field {
	return Field{Name: name, Value: value, Inline: true}
}

// Block returns a field rendered on its own line.
func Block(name, value string) Field {
	return Field{Name: name, Value: value, Inline: false}
}
