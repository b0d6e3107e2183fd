package analyzer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devreport/year-in-review/internal/domain"
)

func TestAnalyzeEventsTallies(t *testing.T) {
	events := []domain.ActivityEvent{
		{Kind: "PushEvent", Timestamp: localStamp(2025, 1, 5, 9), OwnerID: "101"},
		{Kind: "PushEvent", Timestamp: localStamp(2025, 1, 6, 9), OwnerID: "101"},
		{Kind: "IssuesEvent", Timestamp: localStamp(2025, 2, 1, 9), OwnerID: "101"},
		{Kind: "pushed to", Timestamp: localStamp(2025, 2, 2, 9), OwnerID: "202"},
	}

	names := map[string]string{"101": "backend", "202": "frontend"}
	metrics := AnalyzeEvents(events, EventOptions{
		Resolver: func(id string) string { return names[id] },
	})

	assert.Equal(t, 4, metrics.TotalEvents)
	assert.Equal(t, 2, metrics.EventKindCounts["PushEvent"])
	assert.Equal(t, 1, metrics.EventKindCounts["IssuesEvent"])
	assert.Equal(t, 3, metrics.PerProjectCounts["backend"])
	assert.Equal(t, 1, metrics.PerProjectCounts["frontend"])

	backend := metrics.PerProjectContribution["backend"]
	require.NotNil(t, backend)
	assert.Equal(t, 3, backend.Total)
	assert.Equal(t, 2, backend.PushCount)
	assert.Equal(t, 1, backend.OtherCount)

	frontend := metrics.PerProjectContribution["frontend"]
	require.NotNil(t, frontend)
	assert.Equal(t, 1, frontend.PushCount, "lowercase gitlab action labels count as pushes")
}

func TestAnalyzeEventsResolverCalledOncePerOwner(t *testing.T) {
	events := []domain.ActivityEvent{
		{Kind: "PushEvent", Timestamp: localStamp(2025, 1, 1, 9), OwnerID: "7"},
		{Kind: "PushEvent", Timestamp: localStamp(2025, 1, 2, 9), OwnerID: "7"},
		{Kind: "PushEvent", Timestamp: localStamp(2025, 1, 3, 9), OwnerID: "8"},
		{Kind: "PushEvent", Timestamp: localStamp(2025, 1, 4, 9), OwnerID: "7"},
	}

	calls := make(map[string]int)
	AnalyzeEvents(events, EventOptions{
		Resolver: func(id string) string {
			calls[id]++
			return "proj-" + id
		},
	})

	assert.Equal(t, map[string]int{"7": 1, "8": 1}, calls)
}

func TestAnalyzeEventsFallbackNames(t *testing.T) {
	events := []domain.ActivityEvent{
		{Kind: "PushEvent", Timestamp: localStamp(2025, 1, 1, 9), OwnerID: "42"},
		{Kind: "PushEvent", Timestamp: localStamp(2025, 1, 2, 9)},
	}

	metrics := AnalyzeEvents(events, EventOptions{
		Resolver: func(string) string { return "" },
	})

	assert.Equal(t, 1, metrics.PerProjectCounts["Project-42"])
	assert.Equal(t, 1, metrics.PerProjectCounts["Unknown Project"])
}

func TestAnalyzeEventsAllowList(t *testing.T) {
	events := []domain.ActivityEvent{
		{Kind: "PushEvent", Timestamp: localStamp(2025, 1, 1, 9), OwnerID: "1"},
		{Kind: "PushEvent", Timestamp: localStamp(2025, 1, 2, 9), OwnerID: "2"},
		{Kind: "PushEvent", Timestamp: localStamp(2025, 1, 3, 9), OwnerID: "3"},
	}
	names := map[string]string{"1": "team/billing-service", "2": "team/website", "3": "bill"}

	metrics := AnalyzeEvents(events, EventOptions{
		Resolver:  func(id string) string { return names[id] },
		AllowList: []string{"Billing"},
	})

	// "billing" is contained in "team/billing-service"; "bill" is
	// contained in "billing" (the match is bidirectional); "team/website"
	// matches neither way.
	assert.Equal(t, 2, metrics.TotalEvents)
	assert.Contains(t, metrics.PerProjectCounts, "team/billing-service")
	assert.Contains(t, metrics.PerProjectCounts, "bill")
	assert.NotContains(t, metrics.PerProjectCounts, "team/website")
}

func TestAnalyzeEventsTopProjects(t *testing.T) {
	var events []domain.ActivityEvent
	counts := map[string]int{"a": 3, "b": 7, "c": 1, "d": 5, "e": 4, "f": 2}
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		for i := 0; i < counts[id]; i++ {
			events = append(events, domain.ActivityEvent{
				Kind: "PushEvent", Timestamp: localStamp(2025, 1, 1+i, 9), OwnerID: id,
			})
		}
	}

	metrics := AnalyzeEvents(events, EventOptions{
		Resolver: func(id string) string { return "proj-" + id },
	})

	require.Len(t, metrics.TopProjects, 5)
	assert.Equal(t, domain.ProjectCount{Project: "proj-b", Count: 7}, metrics.TopProjects[0])
	assert.Equal(t, domain.ProjectCount{Project: "proj-d", Count: 5}, metrics.TopProjects[1])
	assert.Equal(t, "proj-e", metrics.TopProjects[2].Project)
}

func TestAnalyzeEventsTopProjectsTiesKeepInsertionOrder(t *testing.T) {
	events := []domain.ActivityEvent{
		{Kind: "PushEvent", Timestamp: localStamp(2025, 1, 1, 9), OwnerID: "first"},
		{Kind: "PushEvent", Timestamp: localStamp(2025, 1, 2, 9), OwnerID: "second"},
	}

	metrics := AnalyzeEvents(events, EventOptions{
		Resolver: func(id string) string { return id },
	})

	require.Len(t, metrics.TopProjects, 2)
	assert.Equal(t, "first", metrics.TopProjects[0].Project)
	assert.Equal(t, "second", metrics.TopProjects[1].Project)
}

func TestAnalyzeEventsMostActiveMonth(t *testing.T) {
	events := []domain.ActivityEvent{
		{Kind: "PushEvent", Timestamp: localStamp(2025, 3, 1, 9), OwnerID: "1"},
		{Kind: "PushEvent", Timestamp: localStamp(2025, 3, 2, 9), OwnerID: "1"},
		{Kind: "PushEvent", Timestamp: localStamp(2025, 9, 1, 9), OwnerID: "1"},
	}

	metrics := AnalyzeEvents(events, EventOptions{})
	assert.Equal(t, "March", metrics.MostActiveMonth)
}

func TestAnalyzeEventsInvalidTimestampsStillCounted(t *testing.T) {
	events := []domain.ActivityEvent{
		{Kind: "PushEvent", Timestamp: "garbage", OwnerID: "1"},
		{Kind: "PushEvent", Timestamp: localStamp(2025, 1, 1, 9), OwnerID: "1"},
	}

	metrics := AnalyzeEvents(events, EventOptions{})

	assert.Equal(t, 2, metrics.TotalEvents)
	assert.Equal(t, 2, metrics.EventKindCounts["PushEvent"])
	assert.Equal(t, 1, metrics.InvalidTimestamps)
	assert.Equal(t, "January", metrics.MostActiveMonth)
}

func TestAnalyzeEventsEmpty(t *testing.T) {
	metrics := AnalyzeEvents(nil, EventOptions{})

	assert.Zero(t, metrics.TotalEvents)
	assert.Empty(t, metrics.EventKindCounts)
	assert.Empty(t, metrics.TopProjects)
	assert.Empty(t, metrics.MostActiveMonth)
}

func TestAnalyzeEventsOrderIndependent(t *testing.T) {
	var events []domain.ActivityEvent
	for i := 0; i < 40; i++ {
		events = append(events, domain.ActivityEvent{
			Kind:      []string{"PushEvent", "IssuesEvent", "WatchEvent"}[i%3],
			Timestamp: localStamp(2025, 1, 1+i%27, 9),
			OwnerID:   []string{"x", "y"}[i%2],
		})
	}

	before := AnalyzeEvents(events, EventOptions{})

	shuffled := make([]domain.ActivityEvent, len(events))
	copy(shuffled, events)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	after := AnalyzeEvents(shuffled, EventOptions{})

	assert.Equal(t, before.EventKindCounts, after.EventKindCounts)
	assert.Equal(t, before.PerProjectCounts, after.PerProjectCounts)
	assert.Equal(t, before.TotalEvents, after.TotalEvents)
}
