package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devreport/year-in-review/internal/domain"
	apperrors "github.com/devreport/year-in-review/internal/errors"
)

const gitlabDefaultRateLimit = 2000

// gitlabCollector implements Collector against the GitLab REST API.
// There is no GitLab client library in use here; the API surface needed
// is small enough for plain HTTP.
type gitlabCollector struct {
	client      *http.Client
	baseURL     string
	token       string
	rateLimiter RateLimiter
	pageSize    int
	logger      *zap.Logger

	mu      sync.Mutex
	userIDs map[string]int
	names   map[string]string
}

// NewGitLabCollector creates a new GitLab collector
func NewGitLabCollector(baseURL, token string, pageSize int, timeout time.Duration, logger *zap.Logger) Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gitlabCollector{
		client:      &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		token:       token,
		rateLimiter: NewRateLimiter(gitlabDefaultRateLimit, logger),
		pageSize:    pageSize,
		logger:      logger,
		userIDs:     make(map[string]int),
		names:       make(map[string]string),
	}
}

func (c *gitlabCollector) Platform() domain.Platform {
	return domain.PlatformGitLab
}

type gitlabEvent struct {
	ActionName string `json:"action_name"`
	CreatedAt  string `json:"created_at"`
	ProjectID  int    `json:"project_id"`
}

type gitlabWorkItem struct {
	State       string          `json:"state"`
	CreatedAt   string          `json:"created_at"`
	MergedAt    *string         `json:"merged_at"`
	ClosedAt    *string         `json:"closed_at"`
	ProjectID   int             `json:"project_id"`
	Description string          `json:"description"`
	Author      gitlabUserRef   `json:"author"`
	Assignees   []gitlabUserRef `json:"assignees"`
}

type gitlabUserRef struct {
	Username string `json:"username"`
}

type gitlabProject struct {
	Name              string `json:"name"`
	PathWithNamespace string `json:"path_with_namespace"`
}

type gitlabUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// CollectEvents retrieves the user's contribution events within the window.
func (c *gitlabCollector) CollectEvents(ctx context.Context, user string, since, until time.Time) ([]domain.ActivityEvent, error) {
	userID, err := c.userID(ctx, user)
	if err != nil {
		return nil, err
	}

	// The events API filters with exclusive after/before dates.
	after := since.AddDate(0, 0, -1).Format("2006-01-02")
	before := until.Format("2006-01-02")

	var all []domain.ActivityEvent
	page := 1
	for {
		endpoint := fmt.Sprintf("%s/users/%d/events?after=%s&before=%s&per_page=%d&page=%d",
			c.baseURL, userID, after, before, c.pageSize, page)

		var events []gitlabEvent
		if err := c.getJSON(ctx, endpoint, &events); err != nil {
			return nil, err
		}
		if len(events) == 0 {
			break
		}

		for _, ev := range events {
			ownerID := ""
			if ev.ProjectID != 0 {
				ownerID = strconv.Itoa(ev.ProjectID)
			}
			all = append(all, domain.ActivityEvent{
				ID:        uuid.New().String(),
				Platform:  domain.PlatformGitLab,
				Kind:      ev.ActionName,
				Timestamp: ev.CreatedAt,
				OwnerID:   ownerID,
			})
		}
		page++
	}

	return all, nil
}

// CollectMergeRequests retrieves merge requests authored by the user.
func (c *gitlabCollector) CollectMergeRequests(ctx context.Context, user string, since, until time.Time) ([]domain.WorkItem, error) {
	return c.collectWorkItems(ctx, "merge_requests", user, since, until)
}

// CollectIssues retrieves issues authored by the user.
func (c *gitlabCollector) CollectIssues(ctx context.Context, user string, since, until time.Time) ([]domain.WorkItem, error) {
	return c.collectWorkItems(ctx, "issues", user, since, until)
}

func (c *gitlabCollector) collectWorkItems(ctx context.Context, resource, user string, since, until time.Time) ([]domain.WorkItem, error) {
	userID, err := c.userID(ctx, user)
	if err != nil {
		return nil, err
	}

	var all []domain.WorkItem
	page := 1
	for {
		endpoint := fmt.Sprintf("%s/%s?scope=all&author_id=%d&created_after=%s&created_before=%s&per_page=%d&page=%d",
			c.baseURL, resource, userID,
			url.QueryEscape(since.Format(time.RFC3339)),
			url.QueryEscape(until.Format(time.RFC3339)),
			c.pageSize, page)

		var items []gitlabWorkItem
		if err := c.getJSON(ctx, endpoint, &items); err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}

		for _, it := range items {
			all = append(all, c.workItem(it))
		}
		page++
	}

	return all, nil
}

func (c *gitlabCollector) workItem(it gitlabWorkItem) domain.WorkItem {
	item := domain.WorkItem{
		Platform:    domain.PlatformGitLab,
		State:       domain.WorkItemState(it.State),
		Author:      it.Author.Username,
		Description: it.Description,
	}
	if it.ProjectID != 0 {
		item.OwnerID = strconv.Itoa(it.ProjectID)
	}
	if t, err := time.Parse(time.RFC3339, it.CreatedAt); err == nil {
		item.CreatedAt = t
	}
	resolved := it.MergedAt
	if resolved == nil {
		resolved = it.ClosedAt
	}
	if resolved != nil {
		if t, err := time.Parse(time.RFC3339, *resolved); err == nil {
			item.ResolvedAt = &t
		}
	}
	for _, a := range it.Assignees {
		item.Assignees = append(item.Assignees, a.Username)
	}
	return item
}

// ProjectName resolves a numeric project ID to its namespaced path,
// caching results for the collector's lifetime. Unresolvable projects
// (deleted, private to the token) degrade to "" so the analysis can
// substitute a placeholder instead of failing.
func (c *gitlabCollector) ProjectName(ctx context.Context, ownerID string) (string, error) {
	c.mu.Lock()
	if name, ok := c.names[ownerID]; ok {
		c.mu.Unlock()
		return name, nil
	}
	c.mu.Unlock()

	endpoint := fmt.Sprintf("%s/projects/%s", c.baseURL, url.PathEscape(ownerID))
	var project gitlabProject
	if err := c.getJSON(ctx, endpoint, &project); err != nil {
		if apperrors.IsNotFound(err) {
			c.storeName(ownerID, "")
			return "", nil
		}
		return "", err
	}

	name := project.PathWithNamespace
	if name == "" {
		name = project.Name
	}
	c.storeName(ownerID, name)
	return name, nil
}

func (c *gitlabCollector) storeName(ownerID, name string) {
	c.mu.Lock()
	c.names[ownerID] = name
	c.mu.Unlock()
}

func (c *gitlabCollector) userID(ctx context.Context, user string) (int, error) {
	c.mu.Lock()
	if id, ok := c.userIDs[user]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	endpoint := fmt.Sprintf("%s/users?username=%s", c.baseURL, url.QueryEscape(user))
	var users []gitlabUser
	if err := c.getJSON(ctx, endpoint, &users); err != nil {
		return 0, err
	}
	if len(users) == 0 {
		return 0, apperrors.NewNotFoundError("gitlab user " + user)
	}

	c.mu.Lock()
	c.userIDs[user] = users[0].ID
	c.mu.Unlock()
	return users[0].ID, nil
}

// getJSON performs a rate-limited GET and decodes the JSON body.
func (c *gitlabCollector) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.NewInternalError("gitlab: build request", err)
	}
	if c.token != "" {
		req.Header.Set("PRIVATE-TOKEN", c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.NewFetchFailedError("gitlab: "+endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.NewUnauthorizedError("gitlab: " + endpoint)
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.NewRateLimitedError("gitlab: " + endpoint)
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError("gitlab resource " + endpoint)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return apperrors.NewFetchFailedError(
			fmt.Sprintf("gitlab: unexpected status %d from %s", resp.StatusCode, endpoint), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewFetchFailedError("gitlab: decode response from "+endpoint, err)
	}
	return nil
}
