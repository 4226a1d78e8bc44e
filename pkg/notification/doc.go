// Package notification defines the Record delivered to chat targets and the
// decoding of one frame into a Record.
//
// Frames are JSON objects:
//
//	{"title": "Added", "description": "...", "color": 3066993,
//	 "timestamp": "2024-05-01T12:00:00Z",
//	 "fields": [{"name": "Series", "value": "Foo", "inline": false}]}
//
// Missing or zero colors default to DefaultColor, a missing or unparsable
// timestamp defaults to the receipt time, fields are inline unless they say
// otherwise, and an empty title becomes DefaultTitle.
package notification
