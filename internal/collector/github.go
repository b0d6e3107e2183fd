package collector

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v59/github"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/devreport/year-in-review/internal/domain"
	apperrors "github.com/devreport/year-in-review/internal/errors"
)

const githubDefaultRateLimit = 5000

// githubCollector implements Collector using the GitHub REST API
type githubCollector struct {
	client      *github.Client
	rateLimiter RateLimiter
	pageSize    int
	logger      *zap.Logger

	mu    sync.Mutex
	names map[string]string
}

// NewGitHubCollector creates a new GitHub collector
func NewGitHubCollector(token string, pageSize int, logger *zap.Logger) Collector {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	if logger == nil {
		logger = zap.NewNop()
	}
	return &githubCollector{
		client:      client,
		rateLimiter: NewRateLimiter(githubDefaultRateLimit, logger),
		pageSize:    pageSize,
		logger:      logger,
		names:       make(map[string]string),
	}
}

func (c *githubCollector) Platform() domain.Platform {
	return domain.PlatformGitHub
}

// CollectEvents retrieves the user's public activity feed within the
// window. The feed is reverse-chronological, so paging stops at the
// first event older than since.
func (c *githubCollector) CollectEvents(ctx context.Context, user string, since, until time.Time) ([]domain.ActivityEvent, error) {
	var all []domain.ActivityEvent
	opts := &github.ListOptions{PerPage: c.pageSize}

	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		events, resp, err := c.client.Activity.ListEventsPerformedByUser(ctx, user, false, opts)
		if err != nil {
			return nil, wrapGitHubError("list events for "+user, resp, err)
		}
		c.updateRateLimitFromResponse(resp)

		for _, ev := range events {
			createdAt := ev.GetCreatedAt().Time
			if createdAt.Before(since) {
				return all, nil
			}
			if !createdAt.Before(until) {
				continue
			}
			all = append(all, domain.ActivityEvent{
				ID:        uuid.New().String(),
				Platform:  domain.PlatformGitHub,
				Kind:      ev.GetType(),
				Timestamp: createdAt.Format(time.RFC3339),
				OwnerID:   ev.GetRepo().GetName(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// CollectMergeRequests retrieves pull requests authored by the user via
// the search API.
func (c *githubCollector) CollectMergeRequests(ctx context.Context, user string, since, until time.Time) ([]domain.WorkItem, error) {
	return c.searchWorkItems(ctx, user, "pr", since, until)
}

// CollectIssues retrieves issues authored by the user via the search API.
func (c *githubCollector) CollectIssues(ctx context.Context, user string, since, until time.Time) ([]domain.WorkItem, error) {
	return c.searchWorkItems(ctx, user, "issue", since, until)
}

func (c *githubCollector) searchWorkItems(ctx context.Context, user, itemType string, since, until time.Time) ([]domain.WorkItem, error) {
	query := "author:" + user +
		" type:" + itemType +
		" created:" + since.Format("2006-01-02") + ".." + until.AddDate(0, 0, -1).Format("2006-01-02")

	var all []domain.WorkItem
	opts := &github.SearchOptions{
		Sort:        "created",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: c.pageSize},
	}

	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		result, resp, err := c.client.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, wrapGitHubError("search "+itemType+"s for "+user, resp, err)
		}
		c.updateRateLimitFromResponse(resp)

		for _, issue := range result.Issues {
			all = append(all, githubWorkItem(issue))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func githubWorkItem(issue *github.Issue) domain.WorkItem {
	item := domain.WorkItem{
		Platform:    domain.PlatformGitHub,
		CreatedAt:   issue.GetCreatedAt().Time,
		OwnerID:     repoFromURL(issue.GetRepositoryURL()),
		Author:      issue.GetUser().GetLogin(),
		Description: issue.GetBody(),
	}

	for _, a := range issue.Assignees {
		item.Assignees = append(item.Assignees, a.GetLogin())
	}

	switch {
	case !issue.GetPullRequestLinks().GetMergedAt().IsZero():
		item.State = domain.StateMerged
		t := issue.GetPullRequestLinks().GetMergedAt().Time
		item.ResolvedAt = &t
	case issue.GetState() == "closed":
		item.State = domain.StateClosed
		if issue.ClosedAt != nil {
			t := issue.GetClosedAt().Time
			item.ResolvedAt = &t
		}
	case issue.GetState() == "open":
		item.State = domain.StateOpened
	default:
		item.State = domain.WorkItemState(issue.GetState())
	}

	return item
}

// ProjectName resolves a repository identifier. GitHub owner IDs are
// already "owner/repo" names, so resolution is a cached pass-through.
func (c *githubCollector) ProjectName(_ context.Context, ownerID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name, ok := c.names[ownerID]; ok {
		return name, nil
	}
	c.names[ownerID] = ownerID
	return ownerID, nil
}

// repoFromURL extracts "owner/repo" from an API repository URL like
// https://api.github.com/repos/owner/repo.
func repoFromURL(url string) string {
	const marker = "/repos/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return ""
	}
	return url[idx+len(marker):]
}

func wrapGitHubError(op string, resp *github.Response, err error) error {
	if resp != nil {
		switch resp.StatusCode {
		case 401:
			return apperrors.NewUnauthorizedError("github: " + op)
		case 403, 429:
			return apperrors.NewRateLimitedError("github: " + op)
		case 404:
			return apperrors.NewNotFoundError("github: " + op)
		}
	}
	return apperrors.NewFetchFailedError("github: "+op, err)
}

// updateRateLimitFromResponse updates the rate limiter from API response
func (c *githubCollector) updateRateLimitFromResponse(resp *github.Response) {
	if resp != nil && resp.Rate.Remaining >= 0 {
		c.rateLimiter.UpdateLimit(resp.Rate.Remaining, resp.Rate.Reset.Time)
	}
}
