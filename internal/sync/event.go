package sync

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EventType discriminates the five sync event kinds.
type EventType string

const (
	EventCreated EventType = "created"
	EventChanged EventType = "changed"
	EventRemoved EventType = "removed"
	EventMoved   EventType = "moved"
	EventFull    EventType = "full"
)

// Source tells the processor who produced an event. The extension sets
// self-writeback on events it echoes during a bulk write-back so the server
// can drop them, instead of relying on a process-wide suppression flag.
type Source string

const (
	SourceExternal      Source = "external"
	SourceSelfWriteback Source = "self-writeback"
)

// BookmarkRef is the url/title pair carried by created and full events.
type BookmarkRef struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// ChangeInfo carries the fields present in a changed event; either may be
// absent.
type ChangeInfo struct {
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
}

// Event is the decoded sync event. Only the fields relevant to Type are
// populated.
type Event struct {
	Type     EventType
	Source   Source
	Bookmark *BookmarkRef  // created
	Change   *ChangeInfo   // changed
	URL      string        // removed
	Items    []BookmarkRef // full
}

// ErrBadEvent marks an envelope the processor cannot decode. Callers
// translate it to a client error; nothing was persisted.
var ErrBadEvent = errors.New("malformed sync event")

type envelope struct {
	Type     string        `json:"type"`
	Source   string        `json:"source,omitempty"`
	Bookmark *BookmarkRef  `json:"bookmark,omitempty"`
	Change   *ChangeInfo   `json:"changeInfo,omitempty"`
	URL      string        `json:"url,omitempty"`
	Items    []BookmarkRef `json:"items,omitempty"`
}

// DecodeEvent parses a sync payload into a typed event. Unknown event types
// are rejected; unknown sources default to external.
func DecodeEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrBadEvent, err)
	}

	ev := Event{Source: SourceExternal}
	if Source(env.Source) == SourceSelfWriteback {
		ev.Source = SourceSelfWriteback
	}

	switch EventType(env.Type) {
	case EventCreated:
		ev.Type = EventCreated
		ev.Bookmark = env.Bookmark
	case EventChanged:
		ev.Type = EventChanged
		ev.Change = env.Change
	case EventRemoved:
		ev.Type = EventRemoved
		ev.URL = env.URL
		if ev.URL == "" && env.Bookmark != nil {
			ev.URL = env.Bookmark.URL
		}
	case EventMoved:
		ev.Type = EventMoved
	case EventFull:
		ev.Type = EventFull
		ev.Items = env.Items
	default:
		return Event{}, fmt.Errorf("%w: unknown type %q", ErrBadEvent, env.Type)
	}
	return ev, nil
}
