package domain

// Platform identifies the code-hosting platform an event came from.
type Platform string

const (
	PlatformGitHub Platform = "github"
	PlatformGitLab Platform = "gitlab"
)

// ActivityEvent is a single timestamped action from a platform's event
// feed. Timestamp is kept as the raw string the API returned; analyzers
// parse it and tolerate malformed values instead of aborting.
type ActivityEvent struct {
	ID        string
	Platform  Platform
	Kind      string // platform action label, e.g. "PushEvent" or "pushed to"
	Timestamp string // RFC3339 as received
	OwnerID   string // opaque project/repository identifier, "" when absent
}
