package domain

import "time"

// StreakMetrics describes the longest run of consecutive active days.
// MaxStreakStart/End are "YYYY-MM-DD" strings, empty when there were no
// events.
type StreakMetrics struct {
	MaxStreak       int    `json:"max_streak"`
	MaxStreakStart  string `json:"max_streak_start,omitempty"`
	MaxStreakEnd    string `json:"max_streak_end,omitempty"`
	TotalActiveDays int    `json:"total_active_days"`
}

// TimeMetrics buckets events into time-of-day, day-of-week, ISO-week,
// and month histograms. Keys: hour 0-23, weekday 0-6 (0 = Sunday),
// ISO week 1-53, English month name.
type TimeMetrics struct {
	ByHour    map[int]int    `json:"by_hour"`
	ByWeekday map[int]int    `json:"by_weekday"`
	ByWeek    map[int]int    `json:"by_week"`
	ByMonth   map[string]int `json:"by_month"`
}

// ProjectContribution splits a project's event count into push-type and
// other actions.
type ProjectContribution struct {
	Total      int `json:"total"`
	PushCount  int `json:"push_count"`
	OtherCount int `json:"other_count"`
}

// ProjectCount is one entry of a top-projects ranking.
type ProjectCount struct {
	Project string `json:"project"`
	Count   int    `json:"count"`
}

// EventMetrics aggregates events by kind and by project.
type EventMetrics struct {
	TotalEvents            int                             `json:"total_events"`
	EventKindCounts        map[string]int                  `json:"event_kind_counts"`
	PerProjectCounts       map[string]int                  `json:"per_project_counts"`
	PerProjectContribution map[string]*ProjectContribution `json:"per_project_contribution"`
	TopProjects            []ProjectCount                  `json:"top_projects"`
	MostActiveMonth        string                          `json:"most_active_month"`
	// InvalidTimestamps counts events whose timestamp failed to parse.
	// They are still included in the tallies above.
	InvalidTimestamps int `json:"invalid_timestamps"`
}

// WorkItemMetrics aggregates merge requests or issues by lifecycle
// state. ProjectsInvolved preserves first-seen order.
type WorkItemMetrics struct {
	TotalCreated          int           `json:"total_created"`
	MergedCount           int           `json:"merged_count"`
	OpenedCount           int           `json:"opened_count"`
	ClosedCount           int           `json:"closed_count"`
	AverageResolutionTime time.Duration `json:"average_resolution_time"`
	ProjectsInvolved      []string      `json:"projects_involved"`
}

// PlatformMetrics holds every analysis result for one platform.
type PlatformMetrics struct {
	Platform      Platform        `json:"platform"`
	Handle        string          `json:"handle"`
	Events        EventMetrics    `json:"events"`
	Time          TimeMetrics     `json:"time"`
	Streak        StreakMetrics   `json:"streak"`
	MergeRequests WorkItemMetrics `json:"merge_requests"`
	Issues        WorkItemMetrics `json:"issues"`
	// ReviewedItems is a best-effort count of review participation
	// inferred from assignee lists and description mentions.
	ReviewedItems int `json:"reviewed_items"`
}

// Report is the merged result handed to the renderer. A nil platform
// pointer means that platform was not configured or its fetch failed.
type Report struct {
	Year   int              `json:"year"`
	Team   string           `json:"team,omitempty"`
	GitHub *PlatformMetrics `json:"github,omitempty"`
	GitLab *PlatformMetrics `json:"gitlab,omitempty"`
}
