package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/devreport/year-in-review/internal/domain"
)

var monthOrder = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// Render assembles the computed metrics into a Markdown document.
// Output is deterministic for identical input: every map is walked in a
// fixed key order so the report can be snapshot-tested.
func Render(r *domain.Report) string {
	var b strings.Builder

	title := fmt.Sprintf("# Year in Review %d", r.Year)
	if r.Team != "" {
		title = fmt.Sprintf("# %s — Year in Review %d", r.Team, r.Year)
	}
	b.WriteString(title + "\n")

	if r.GitHub != nil && r.GitLab != nil {
		writeCombinedOverview(&b, r)
	}
	if r.GitHub != nil {
		writePlatform(&b, "GitHub", r.GitHub)
	}
	if r.GitLab != nil {
		writePlatform(&b, "GitLab", r.GitLab)
	}

	return b.String()
}

func writeCombinedOverview(b *strings.Builder, r *domain.Report) {
	b.WriteString("\n## All Platforms\n\n")
	fmt.Fprintf(b, "- Total events: %d\n", r.GitHub.Events.TotalEvents+r.GitLab.Events.TotalEvents)
	fmt.Fprintf(b, "- Active days: %d (GitHub) + %d (GitLab)\n",
		r.GitHub.Streak.TotalActiveDays, r.GitLab.Streak.TotalActiveDays)
	fmt.Fprintf(b, "- Merge/pull requests created: %d\n",
		r.GitHub.MergeRequests.TotalCreated+r.GitLab.MergeRequests.TotalCreated)
	fmt.Fprintf(b, "- Issues created: %d\n",
		r.GitHub.Issues.TotalCreated+r.GitLab.Issues.TotalCreated)
}

func writePlatform(b *strings.Builder, label string, m *domain.PlatformMetrics) {
	fmt.Fprintf(b, "\n## %s", label)
	if m.Handle != "" {
		fmt.Fprintf(b, " — %s", m.Handle)
	}
	b.WriteString("\n")

	writeOverview(b, m)
	writeStreak(b, &m.Streak)
	writeTopProjects(b, &m.Events)
	writeTimePatterns(b, &m.Time)
	writeWorkItems(b, "Merge Requests", &m.MergeRequests)
	if m.ReviewedItems > 0 {
		fmt.Fprintf(b, "- Reviewed (approximate): %d\n", m.ReviewedItems)
	}
	writeWorkItems(b, "Issues", &m.Issues)
}

func writeOverview(b *strings.Builder, m *domain.PlatformMetrics) {
	b.WriteString("\n### Overview\n\n")
	fmt.Fprintf(b, "- Total events: %d\n", m.Events.TotalEvents)
	if m.Events.MostActiveMonth != "" {
		fmt.Fprintf(b, "- Most active month: %s\n", m.Events.MostActiveMonth)
	}
	if hour, ok := busiestKey(m.Time.ByHour, 0, 23); ok {
		fmt.Fprintf(b, "- Busiest hour: %02d:00\n", hour)
	}
	if day, ok := busiestKey(m.Time.ByWeekday, 0, 6); ok {
		fmt.Fprintf(b, "- Busiest day: %s\n", weekdayNames[day])
	}
	if m.Events.InvalidTimestamps > 0 {
		fmt.Fprintf(b, "- Events with unreadable timestamps: %d\n", m.Events.InvalidTimestamps)
	}
}

func writeStreak(b *strings.Builder, s *domain.StreakMetrics) {
	b.WriteString("\n### Streak\n\n")
	fmt.Fprintf(b, "- Active days: %d\n", s.TotalActiveDays)
	fmt.Fprintf(b, "- Longest streak: %d day(s)", s.MaxStreak)
	if s.MaxStreakStart != "" {
		fmt.Fprintf(b, " (%s to %s)", s.MaxStreakStart, s.MaxStreakEnd)
	}
	b.WriteString("\n")
}

func writeTopProjects(b *strings.Builder, e *domain.EventMetrics) {
	if len(e.TopProjects) == 0 {
		return
	}
	b.WriteString("\n### Top Projects\n\n")
	b.WriteString("| Project | Events | Pushes | Other |\n")
	b.WriteString("|---------|--------|--------|-------|\n")
	for _, p := range e.TopProjects {
		contrib := e.PerProjectContribution[p.Project]
		if contrib == nil {
			contrib = &domain.ProjectContribution{Total: p.Count}
		}
		fmt.Fprintf(b, "| %s | %d | %d | %d |\n",
			p.Project, p.Count, contrib.PushCount, contrib.OtherCount)
	}
}

func writeTimePatterns(b *strings.Builder, t *domain.TimeMetrics) {
	if len(t.ByMonth) == 0 {
		return
	}
	b.WriteString("\n### Monthly Activity\n\n")
	b.WriteString("| Month | Events |\n")
	b.WriteString("|-------|--------|\n")
	for _, month := range monthOrder {
		if count, ok := t.ByMonth[month]; ok {
			fmt.Fprintf(b, "| %s | %d |\n", month, count)
		}
	}
}

func writeWorkItems(b *strings.Builder, label string, w *domain.WorkItemMetrics) {
	if w.TotalCreated == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", label)
	fmt.Fprintf(b, "- Created: %d\n", w.TotalCreated)
	fmt.Fprintf(b, "- Merged: %d, Open: %d, Closed: %d\n",
		w.MergedCount, w.OpenedCount, w.ClosedCount)
	if w.AverageResolutionTime > 0 {
		fmt.Fprintf(b, "- Average time to merge: %s\n", humanizeDuration(w.AverageResolutionTime))
	}
	if len(w.ProjectsInvolved) > 0 {
		fmt.Fprintf(b, "- Projects involved: %d\n", len(w.ProjectsInvolved))
	}
}

// busiestKey returns the key with the highest count within [lo, hi],
// preferring the lower key on ties so output stays deterministic.
func busiestKey(counts map[int]int, lo, hi int) (int, bool) {
	best := -1
	bestCount := 0
	for k := lo; k <= hi; k++ {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

func humanizeDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	days := d / (24 * time.Hour)
	hours := (d % (24 * time.Hour)) / time.Hour
	minutes := (d % time.Hour) / time.Minute

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
