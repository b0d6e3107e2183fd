package main

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/devreport/year-in-review/internal/config"
	"github.com/devreport/year-in-review/internal/domain"
	"github.com/devreport/year-in-review/internal/report"
	"github.com/devreport/year-in-review/internal/review"
)

var (
	yearFlag int
	outFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "year-in-review",
	Short: "Code-hosting activity year-in-review generator",
	Long: `A CLI tool that fetches a year of GitHub and/or GitLab activity for a
user or team, computes contribution statistics, and writes a Markdown
year-in-review report.`,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the year-in-review report",
	Long:  `Fetch the configured platforms' activity for the target year and write the report.`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&yearFlag, "year", 0, "target calendar year (default REPORT_YEAR or current year)")
	generateCmd.Flags().StringVar(&outFlag, "out", "", "output filename (default derived from platforms and year)")

	rootCmd.AddCommand(generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if yearFlag != 0 {
		cfg.Year = yearFlag
	}
	if outFlag != "" {
		cfg.OutputFile = outFlag
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	fmt.Printf("Generating year in review for %d\n", cfg.Year)
	if cfg.Team != nil {
		fmt.Printf("Team: %s\n", cfg.Team.Name)
	}

	builder := review.NewBuilder(cfg, logger)
	fmt.Println("Collecting activity data...")
	result, err := builder.Build(context.Background())
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	filename := report.Filename(result, cfg.OutputFile)
	if err := os.WriteFile(filename, []byte(report.Render(result)), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("Report written to %s\n\n", filename)

	printSummary(result)
	return nil
}

func printSummary(r *domain.Report) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Platform", "Events", "Active Days", "Longest Streak", "MRs/PRs", "Issues"})

	appendRow := func(m *domain.PlatformMetrics) {
		if m == nil {
			return
		}
		table.Append([]string{
			string(m.Platform),
			fmt.Sprintf("%d", m.Events.TotalEvents),
			fmt.Sprintf("%d", m.Streak.TotalActiveDays),
			fmt.Sprintf("%d", m.Streak.MaxStreak),
			fmt.Sprintf("%d", m.MergeRequests.TotalCreated),
			fmt.Sprintf("%d", m.Issues.TotalCreated),
		})
	}
	appendRow(r.GitHub)
	appendRow(r.GitLab)
	table.Render()

	for _, m := range []*domain.PlatformMetrics{r.GitHub, r.GitLab} {
		if m == nil || len(m.Events.TopProjects) == 0 {
			continue
		}
		fmt.Printf("\nTop %s projects:\n", m.Platform)
		top := tablewriter.NewWriter(os.Stdout)
		top.SetHeader([]string{"Project", "Events"})
		for _, p := range m.Events.TopProjects {
			top.Append([]string{p.Project, fmt.Sprintf("%d", p.Count)})
		}
		top.Render()
	}
}
