package notify

import "context"

// ActionKind tags the inline control attached to a message. The transport
// maps it to its own callback encoding; core code never sees raw callback
// strings.
type ActionKind string

const (
	ActionClaim   ActionKind = "claim"
	ActionRelease ActionKind = "release"
)

// Action is an inline control offering to claim or release a meeting.
type Action struct {
	Kind      ActionKind
	MeetingID string
}

// Message is one outbound notification, optionally carrying an action.
type Message struct {
	Text   string
	Action *Action
}

// Notifier delivers messages to a chat. Implementations must treat Send as
// best-effort blocking I/O; callers decide what a failure aborts.
type Notifier interface {
	Send(ctx context.Context, chatID int64, msg Message) error
}
