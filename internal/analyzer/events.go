package analyzer

import (
	"sort"
	"strings"

	"github.com/devreport/year-in-review/internal/domain"
)

// ProjectResolver maps an opaque owner identifier to a display name.
// Returning "" signals that no name could be resolved.
type ProjectResolver func(ownerID string) string

// EventOptions configures AnalyzeEvents. Both fields are optional.
type EventOptions struct {
	// Resolver turns owner identifiers into project display names. It
	// is called at most once per distinct owner per invocation.
	Resolver ProjectResolver
	// AllowList restricts analysis to projects whose resolved name
	// case-insensitively contains, or is contained by, any entry. The
	// match is bidirectional on purpose, to tolerate partial or renamed
	// project names on either side. Empty means no filtering.
	AllowList []string
}

const topProjectsLimit = 5

// AnalyzeEvents classifies and tallies events by kind and by owning
// project. Events whose resolved project name fails the allow-list are
// dropped entirely; everything else, including events with malformed
// timestamps, is counted.
func AnalyzeEvents(events []domain.ActivityEvent, opts EventOptions) domain.EventMetrics {
	metrics := domain.EventMetrics{
		EventKindCounts:        make(map[string]int),
		PerProjectCounts:       make(map[string]int),
		PerProjectContribution: make(map[string]*domain.ProjectContribution),
		TopProjects:            []domain.ProjectCount{},
	}

	resolved := make(map[string]string) // ownerID -> display name
	var projectOrder []string
	monthCounts := make(map[string]int)

	for _, ev := range events {
		name := projectName(ev.OwnerID, opts.Resolver, resolved)
		if !allowListed(name, opts.AllowList) {
			continue
		}

		metrics.TotalEvents++
		metrics.EventKindCounts[ev.Kind]++

		if _, ok := metrics.PerProjectCounts[name]; !ok {
			projectOrder = append(projectOrder, name)
			metrics.PerProjectContribution[name] = &domain.ProjectContribution{}
		}
		metrics.PerProjectCounts[name]++

		contrib := metrics.PerProjectContribution[name]
		contrib.Total++
		if isPushKind(ev.Kind) {
			contrib.PushCount++
		} else {
			contrib.OtherCount++
		}

		if t, err := parseTimestamp(ev.Timestamp); err != nil {
			metrics.InvalidTimestamps++
		} else {
			monthCounts[MonthName(t)]++
		}
	}

	metrics.TopProjects = topProjects(metrics.PerProjectCounts, projectOrder)
	metrics.MostActiveMonth = mostActiveMonth(monthCounts)
	return metrics
}

// projectName resolves an owner identifier through the memoization
// table, falling back to a synthetic name when resolution yields
// nothing and to "Unknown Project" when the identifier is absent.
func projectName(ownerID string, resolver ProjectResolver, cache map[string]string) string {
	if ownerID == "" {
		return "Unknown Project"
	}
	if name, ok := cache[ownerID]; ok {
		return name
	}
	name := ""
	if resolver != nil {
		name = resolver(ownerID)
	}
	if name == "" {
		name = "Project-" + ownerID
	}
	cache[ownerID] = name
	return name
}

func allowListed(name string, allowList []string) bool {
	if len(allowList) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, entry := range allowList {
		e := strings.ToLower(entry)
		if strings.Contains(lower, e) || strings.Contains(e, lower) {
			return true
		}
	}
	return false
}

// isPushKind reports whether an action label denotes a push. GitHub
// labels are CamelCase ("PushEvent"), GitLab action names lowercase
// ("pushed to"), so both casings of the marker are checked.
func isPushKind(kind string) bool {
	return strings.Contains(kind, "push") || strings.Contains(kind, "Push")
}

// topProjects ranks projects by count descending, keeping first-seen
// order between equal counts, and returns at most topProjectsLimit
// entries.
func topProjects(counts map[string]int, order []string) []domain.ProjectCount {
	ranked := make([]domain.ProjectCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, domain.ProjectCount{Project: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > topProjectsLimit {
		ranked = ranked[:topProjectsLimit]
	}
	return ranked
}

// mostActiveMonth picks the month with the highest count, breaking ties
// by calendar order. Empty string when no event carried a usable
// timestamp.
func mostActiveMonth(counts map[string]int) string {
	best := ""
	bestCount := 0
	for _, name := range monthNames {
		if counts[name] > bestCount {
			best = name
			bestCount = counts[name]
		}
	}
	return best
}
