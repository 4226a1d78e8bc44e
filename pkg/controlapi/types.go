package controlapi

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Episode identifies one episode of a series.
type Episode struct {
	Series  string `json:"series"`
	Episode int    `json:"episode"`
}

// Status is the body of GET /status.
type Status struct {
	Running        bool     `json:"running"`
	LastCycle      Text     `json:"last_cycle"`
	NextRun        Text     `json:"next_run"`
	TotalAdded     int      `json:"total_added"`
	TotalNotFound  int      `json:"total_not_found"`
	CurrentEpisode *Episode `json:"current_episode"`
}

// MissingList is the body of GET /missing.
type MissingList struct {
	Episodes []Episode `json:"episodes"`
}

// SearchDetail is one line of a search report.
type SearchDetail struct {
	Series  string `json:"series"`
	Episode int    `json:"episode"`
	Status  string `json:"status"`
}

// SearchResult is the body of POST /search.
type SearchResult struct {
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	Processed int            `json:"processed"`
	Added     int            `json:"added"`
	NotFound  int            `json:"not_found"`
	Duration  Text           `json:"duration"`
	Details   []SearchDetail `json:"details"`
}

type searchRequest struct {
	Limit int `json:"limit"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Text is a display value the API may send as a string, a number or null.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		if f, err := n.Float64(); err == nil && f == float64(int64(f)) {
			*t = Text(strconv.FormatInt(int64(f), 10))
			return nil
		}
		*t = Text(n.String())
		return nil
	}
}

func (t Text) String() string { return string(t) }
