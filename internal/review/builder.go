// Package review orchestrates collectors and the analyzer into a
// complete year-in-review report. The analyzer stays pure; everything
// touching the network lives here or in the collectors.
package review

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/devreport/year-in-review/internal/analyzer"
	"github.com/devreport/year-in-review/internal/collector"
	"github.com/devreport/year-in-review/internal/config"
	"github.com/devreport/year-in-review/internal/domain"
	apperrors "github.com/devreport/year-in-review/internal/errors"
)

// Builder fetches a year of activity from the configured platforms and
// runs the analysis over it.
type Builder struct {
	cfg    *config.Config
	logger *zap.Logger
	github collector.Collector
	gitlab collector.Collector
}

// NewBuilder wires collectors from the configuration. Platforms without
// a configured handle get no collector.
func NewBuilder(cfg *config.Config, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Builder{cfg: cfg, logger: logger}
	if cfg.GitHubConfigured() {
		b.github = collector.NewGitHubCollector(cfg.GitHubToken, cfg.PageSize, logger)
	}
	if cfg.GitLabConfigured() {
		b.gitlab = collector.NewGitLabCollector(cfg.GitLabBaseURL, cfg.GitLabToken, cfg.PageSize, cfg.RequestTimeout, logger)
	}
	return b
}

// Build fetches both platforms concurrently and returns the merged
// report. If one platform fails its section is omitted and the failure
// logged; Build errors only when every configured platform failed.
func (b *Builder) Build(ctx context.Context) (*domain.Report, error) {
	report := &domain.Report{Year: b.cfg.Year}
	if b.cfg.Team != nil {
		report.Team = b.cfg.Team.Name
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	run := func(c collector.Collector, handles []string, assign func(*domain.PlatformMetrics)) {
		defer wg.Done()
		metrics, err := b.buildPlatform(ctx, c, handles)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			b.logger.Warn("platform fetch failed, omitting section",
				zap.String("platform", string(c.Platform())),
				zap.Error(err))
			errs = append(errs, err)
			return
		}
		assign(metrics)
	}

	if b.github != nil {
		wg.Add(1)
		go run(b.github, b.cfg.GitHubHandles(), func(m *domain.PlatformMetrics) { report.GitHub = m })
	}
	if b.gitlab != nil {
		wg.Add(1)
		go run(b.gitlab, b.cfg.GitLabHandles(), func(m *domain.PlatformMetrics) { report.GitLab = m })
	}
	wg.Wait()

	if report.GitHub == nil && report.GitLab == nil {
		if len(errs) > 0 {
			return nil, errs[0]
		}
		return nil, apperrors.NewInternalError("no platform configured", nil)
	}
	return report, nil
}

// buildPlatform collects every handle's activity (one handle for a
// personal report, each member for a team report), concatenates it, and
// runs a single analysis pass.
func (b *Builder) buildPlatform(ctx context.Context, c collector.Collector, handles []string) (*domain.PlatformMetrics, error) {
	since, until := collector.YearRange(b.cfg.Year)

	var events []domain.ActivityEvent
	var mergeRequests, issues []domain.WorkItem

	for _, handle := range handles {
		evs, err := c.CollectEvents(ctx, handle, since, until)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)

		mrs, err := c.CollectMergeRequests(ctx, handle, since, until)
		if err != nil {
			return nil, err
		}
		mergeRequests = append(mergeRequests, mrs...)

		iss, err := c.CollectIssues(ctx, handle, since, until)
		if err != nil {
			return nil, err
		}
		issues = append(issues, iss...)
	}

	resolver := func(ownerID string) string {
		name, err := c.ProjectName(ctx, ownerID)
		if err != nil {
			b.logger.Debug("project name resolution failed",
				zap.String("platform", string(c.Platform())),
				zap.String("owner_id", ownerID),
				zap.Error(err))
			return ""
		}
		return name
	}

	metrics := &domain.PlatformMetrics{
		Platform: c.Platform(),
		Handle:   strings.Join(handles, ", "),
		Events: analyzer.AnalyzeEvents(events, analyzer.EventOptions{
			Resolver:  resolver,
			AllowList: b.cfg.AllowList,
		}),
		Time:          analyzer.AnalyzeTimePatterns(events),
		Streak:        analyzer.AnalyzeStreak(events),
		MergeRequests: analyzer.AnalyzeWorkItems(mergeRequests),
		Issues:        analyzer.AnalyzeWorkItems(issues),
	}

	for _, handle := range handles {
		metrics.ReviewedItems += analyzer.CountReviewParticipation(mergeRequests, handle)
	}

	return metrics, nil
}
