package analyzer

import (
	"strings"
	"time"

	"github.com/devreport/year-in-review/internal/domain"
)

// AnalyzeWorkItems classifies merge requests or issues by lifecycle
// state and computes merge-latency statistics. States outside
// merged/opened/closed are not bucketed but still count toward
// TotalCreated and ProjectsInvolved. The resolution-time average is
// taken over the items that actually contributed a measured duration,
// which can be fewer than MergedCount when timestamps are missing.
func AnalyzeWorkItems(items []domain.WorkItem) domain.WorkItemMetrics {
	metrics := domain.WorkItemMetrics{ProjectsInvolved: []string{}}

	seen := make(map[string]struct{})
	var totalResolution time.Duration
	measured := 0

	for _, item := range items {
		metrics.TotalCreated++

		if item.OwnerID != "" {
			if _, ok := seen[item.OwnerID]; !ok {
				seen[item.OwnerID] = struct{}{}
				metrics.ProjectsInvolved = append(metrics.ProjectsInvolved, item.OwnerID)
			}
		}

		switch item.State {
		case domain.StateMerged:
			metrics.MergedCount++
			if !item.CreatedAt.IsZero() && item.ResolvedAt != nil {
				totalResolution += item.ResolvedAt.Sub(item.CreatedAt)
				measured++
			}
		case domain.StateOpened:
			metrics.OpenedCount++
		case domain.StateClosed:
			metrics.ClosedCount++
		}
	}

	if measured > 0 {
		metrics.AverageResolutionTime = totalResolution / time.Duration(measured)
	}
	return metrics
}

// CountReviewParticipation counts items the given user likely reviewed:
// items authored by someone else where the user appears among the
// assignees or is @mentioned in the description. Neither platform's
// event feed exposes review activity directly, so this is a best-effort
// approximation.
func CountReviewParticipation(items []domain.WorkItem, handle string) int {
	if handle == "" {
		return 0
	}
	mention := "@" + strings.ToLower(handle)
	count := 0
	for _, item := range items {
		if strings.EqualFold(item.Author, handle) {
			continue
		}
		if assignedTo(item, handle) || strings.Contains(strings.ToLower(item.Description), mention) {
			count++
		}
	}
	return count
}

func assignedTo(item domain.WorkItem, handle string) bool {
	for _, a := range item.Assignees {
		if strings.EqualFold(a, handle) {
			return true
		}
	}
	return false
}
