package report

import (
	"fmt"
	"strings"

	"github.com/devreport/year-in-review/internal/domain"
)

// Filename derives the report's output filename:
// {platform}-year-in-review-{year}.md with platform one of gitlab,
// github, all-platforms, or a team slug. A non-empty override wins.
func Filename(r *domain.Report, override string) string {
	if override != "" {
		return override
	}

	scope := ""
	switch {
	case r.Team != "":
		scope = slugify(r.Team)
	case r.GitHub != nil && r.GitLab != nil:
		scope = "all-platforms"
	case r.GitLab != nil:
		scope = string(domain.PlatformGitLab)
	default:
		scope = string(domain.PlatformGitHub)
	}

	return fmt.Sprintf("%s-year-in-review-%d.md", scope, r.Year)
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "-")
}
