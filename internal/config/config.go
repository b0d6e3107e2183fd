package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// GitHub
	GitHubToken string
	GitHubUser  string

	// GitLab
	GitLabToken   string
	GitLabUser    string
	GitLabBaseURL string

	// Report
	Year       int
	AllowList  []string
	OutputFile string // overrides the derived filename when set

	// Fetching
	RequestTimeout time.Duration
	PageSize       int

	// Team report (optional YAML file)
	TeamFile string
	Team     *Team

	// API server
	APIHost string
	APIPort string
}

// Team describes a team-scoped report: a display name and the member
// handles per platform. An allow-list in the file extends the env one.
type Team struct {
	Name        string   `yaml:"name"`
	GitHubUsers []string `yaml:"github_users"`
	GitLabUsers []string `yaml:"gitlab_users"`
	AllowList   []string `yaml:"allow_list"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		GitHubToken:    getEnv("GITHUB_TOKEN", ""),
		GitHubUser:     getEnv("GITHUB_USER", ""),
		GitLabToken:    getEnv("GITLAB_TOKEN", ""),
		GitLabUser:     getEnv("GITLAB_USER", ""),
		GitLabBaseURL:  getEnv("GITLAB_BASE_URL", "https://gitlab.com/api/v4"),
		Year:           getEnvInt("REPORT_YEAR", time.Now().Year()),
		AllowList:      splitList(getEnv("PROJECT_ALLOWLIST", "")),
		OutputFile:     getEnv("OUTPUT_FILE", ""),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		PageSize:       getEnvInt("PAGE_SIZE", 100),
		TeamFile:       getEnv("TEAM_FILE", ""),
		APIHost:        getEnv("API_HOST", "localhost"),
		APIPort:        getEnv("API_PORT", "8080"),
	}

	if cfg.TeamFile != "" {
		team, err := loadTeam(cfg.TeamFile)
		if err != nil {
			return nil, err
		}
		cfg.Team = team
		cfg.AllowList = append(cfg.AllowList, team.AllowList...)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !c.GitHubConfigured() && !c.GitLabConfigured() {
		return &ConfigError{Field: "GITHUB_USER/GITLAB_USER", Message: "at least one platform must be configured"}
	}
	if c.GitHubConfigured() && c.GitHubToken == "" {
		return &ConfigError{Field: "GITHUB_TOKEN", Message: "GitHub token is required"}
	}
	if c.GitLabConfigured() && c.GitLabToken == "" {
		return &ConfigError{Field: "GITLAB_TOKEN", Message: "GitLab token is required"}
	}
	if c.Year < 2005 || c.Year > time.Now().Year() {
		return &ConfigError{Field: "REPORT_YEAR", Message: "must be a plausible calendar year"}
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return &ConfigError{Field: "PAGE_SIZE", Message: "must be between 1 and 100"}
	}
	return nil
}

// GitHubConfigured reports whether a GitHub fetch should run.
func (c *Config) GitHubConfigured() bool {
	if c.Team != nil {
		return len(c.Team.GitHubUsers) > 0
	}
	return c.GitHubUser != ""
}

// GitLabConfigured reports whether a GitLab fetch should run.
func (c *Config) GitLabConfigured() bool {
	if c.Team != nil {
		return len(c.Team.GitLabUsers) > 0
	}
	return c.GitLabUser != ""
}

// GitHubHandles returns the GitHub handles to fetch (one for a personal
// report, the team members otherwise).
func (c *Config) GitHubHandles() []string {
	if c.Team != nil {
		return c.Team.GitHubUsers
	}
	if c.GitHubUser == "" {
		return nil
	}
	return []string{c.GitHubUser}
}

// GitLabHandles returns the GitLab handles to fetch.
func (c *Config) GitLabHandles() []string {
	if c.Team != nil {
		return c.Team.GitLabUsers
	}
	if c.GitLabUser == "" {
		return nil
	}
	return []string{c.GitLabUser}
}

func loadTeam(path string) (*Team, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Field: "TEAM_FILE", Message: err.Error()}
	}
	var team Team
	if err := yaml.Unmarshal(data, &team); err != nil {
		return nil, &ConfigError{Field: "TEAM_FILE", Message: "invalid YAML: " + err.Error()}
	}
	if team.Name == "" {
		return nil, &ConfigError{Field: "TEAM_FILE", Message: "team name is required"}
	}
	return &team, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
