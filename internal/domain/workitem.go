package domain

import "time"

// WorkItemState is the lifecycle state of a merge request, pull
// request, or issue.
type WorkItemState string

const (
	StateOpened WorkItemState = "opened"
	StateClosed WorkItemState = "closed"
	StateMerged WorkItemState = "merged"
)

// WorkItem unifies merge requests, pull requests, and issues under one
// lifecycle model.
type WorkItem struct {
	Platform    Platform
	State       WorkItemState
	CreatedAt   time.Time
	ResolvedAt  *time.Time // merge/close time, nil when not resolved
	OwnerID     string
	Author      string
	Assignees   []string
	Description string
}
