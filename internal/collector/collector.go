package collector

import (
	"context"
	"time"

	"github.com/devreport/year-in-review/internal/domain"
)

// Collector defines the interface for fetching a user's activity from
// one platform. Implementations paginate sequentially, pace themselves
// through a RateLimiter, and surface upstream failures as typed
// apperrors.
type Collector interface {
	// Platform identifies which platform this collector talks to
	Platform() domain.Platform

	// CollectEvents retrieves the user's activity events within [since, until)
	CollectEvents(ctx context.Context, user string, since, until time.Time) ([]domain.ActivityEvent, error)

	// CollectMergeRequests retrieves merge/pull requests authored by the user
	CollectMergeRequests(ctx context.Context, user string, since, until time.Time) ([]domain.WorkItem, error)

	// CollectIssues retrieves issues authored by the user
	CollectIssues(ctx context.Context, user string, since, until time.Time) ([]domain.WorkItem, error)

	// ProjectName resolves an opaque owner identifier to a display name.
	// Implementations cache lookups for the collector's lifetime and
	// return "" when no name can be resolved.
	ProjectName(ctx context.Context, ownerID string) (string, error)
}

// YearRange returns the [start, end) window covering a calendar year in UTC.
func YearRange(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}
