package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// frame mirrors the wire shape. Pointers distinguish absent values from zero values.
type frame struct {
	Type        string       `json:"type"`
	Title       flexString   `json:"title"`
	Description flexString   `json:"description"`
	Color       *json.Number `json:"color"`
	Timestamp   string       `json:"timestamp"`
	Fields      []frameField `json:"fields"`
}

type frameField struct {
	Name   flexString `json:"name"`
	Value  flexString `json:"value"`
	Inline *bool      `json:"inline"`
}

// flexString accepts JSON strings, numbers and booleans.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	switch string(b) {
	case "true", "false":
		*s = flexString(b)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err == nil {
		*s = flexString(b)
		return nil
	}
	return fmt.Errorf("expected string, number or boolean, got %s", b)
}

// timestampLayouts lists accepted timestamp formats, RFC 3339 first. Layouts
// without a zone are interpreted in local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// Decode parses one frame into a Record. received is used when the frame has
// no usable timestamp. Every failure wraps ErrDecode.
func Decode(raw []byte, received time.Time) (Record, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Record{}, fmt.Errorf("%w: expected a JSON object", ErrDecode)
	}

	var f frame
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&f); err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if dec.More() {
		return Record{}, fmt.Errorf("%w: trailing data after object", ErrDecode)
	}

	color := 0
	if f.Color != nil {
		n, err := f.Color.Int64()
		if err != nil {
			return Record{}, fmt.Errorf("%w: color %q is not an integer", ErrDecode, f.Color.String())
		}
		color = int(n)
	}

	fields := make([]Field, 0, len(f.Fields))
	for _, ff := range f.Fields {
		fields = append(fields, Field{
			Name:   string(ff.Name),
			Value:  string(ff.Value),
			Inline: ff.Inline == nil || *ff.Inline,
		})
	}

	return New(string(f.Title),
		WithType(f.Type),
		WithDescription(string(f.Description)),
		WithColor(color),
		WithTimestamp(parseTimestamp(f.Timestamp, received)),
		WithFields(fields...),
	), nil
}

func parseTimestamp(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts
		}
	}
	return fallback
}
