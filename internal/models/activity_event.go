package models

import "time"

// Activity event types.
const (
	EventUserAdded    = "USER_ADDED"
	EventLogin        = "LOGIN"
	EventLoginFailed  = "LOGIN_FAILED"
	EventAuthorAdded  = "AUTHOR_ADDED"
	EventBookAdded    = "BOOK_ADDED"
	EventAuthorEdited = "AUTHOR_EDITED"
)

// ActivityEvent is a single entry of the activity log.
type ActivityEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // one of the Event* constants
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
