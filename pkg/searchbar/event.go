package searchbar

import "context"

// EventType identifies the outcome of a dispatch.
type EventType string

const (
	// EventCleared is emitted when an empty query cleared the container.
	EventCleared EventType = "cleared"
	// EventRendered is emitted when results replaced the container content.
	EventRendered EventType = "rendered"
	// EventFailed is emitted when the search failed. The container is left untouched.
	EventFailed EventType = "failed"
	// EventDiscarded is emitted when a search completed after a newer dispatch.
	EventDiscarded EventType = "discarded"
)

// Event describes the outcome of a dispatch. Results is the number of
// rendered results.
type Event struct {
	Type    EventType
	Query   string
	Results int
	Err     error
}

// Observer is notified at the end of each dispatch, while the dispatcher
// still holds its lock: the container can be read safely but Dispatch must
// not be called from an observer.
type Observer func(ctx context.Context, evt Event)
