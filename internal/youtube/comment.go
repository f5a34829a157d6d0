package youtube

import (
	"encoding/json"
)

// Comment is one normalized comment or reply.
type Comment struct {
	CID     string `json:"cid"`
	Text    string `json:"text"`
	Time    string `json:"time"`
	Author  string `json:"author"`
	Channel string `json:"channel"`
	// Votes is never blank, a missing like count becomes "0".
	Votes string `json:"votes"`
	// Replies is passed through exactly as youtube sent it.
	Replies json.RawMessage `json:"replies"`
	Photo   string          `json:"photo"`
	Heart   bool            `json:"heart"`
	Reply   bool            `json:"reply"`

	// TimeParsed is the absolute publish time in epoch seconds, it is absent
	// whenever Time could not be parsed.
	TimeParsed *float64 `json:"time_parsed,omitempty"`
	// Paid is the label of the paid comment badge.
	Paid *string `json:"paid,omitempty"`
}

// Post is a community post item exactly as youtube returned it.
type Post map[string]any

type SortBy int

const (
	SortByPopular SortBy = 0
	SortByRecent  SortBy = 1
)
