package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/wp-autopub/internal/config"
	"github.com/wp-autopub/internal/database"
	"github.com/wp-autopub/internal/generator"
	"github.com/wp-autopub/internal/models"
	"github.com/wp-autopub/internal/quality"
	"github.com/wp-autopub/internal/repository"
	"github.com/wp-autopub/internal/service"
	"github.com/wp-autopub/internal/wordpress"
	"github.com/wp-autopub/pkg/logger"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4D96FF"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6BCB77"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: blogctl <command> [flags]

Commands:
  create   generate and publish a post for a topic
  preview  generate content without publishing
  list     list recent generation jobs
  retry    re-run a failed job as a draft
  stats    show job statistics
`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "create":
		runCreate(ctx, cfg, log, os.Args[2:])
	case "preview":
		runPreview(ctx, cfg, log, os.Args[2:])
	case "list":
		runList(ctx, cfg, log, os.Args[2:])
	case "retry":
		runRetry(ctx, cfg, log, os.Args[2:])
	case "stats":
		runStats(ctx, cfg, log, os.Args[2:])
	default:
		usage()
	}
}

func buildServices(cfg *config.Config, log zerolog.Logger) (*service.Services, *database.DB, error) {
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	repos := repository.New(db)
	collab := service.Collaborators{
		WordPress: wordpress.NewHTTPClient(cfg.WordPress, log),
		Content:   generator.New(cfg, repos.PromptLog, log),
		Image:     generator.NewImageGenerator(cfg, log),
		Quality:   quality.New(cfg, log),
	}
	return service.NewServices(repos, collab, cfg, log), db, nil
}

func runCreate(ctx context.Context, cfg *config.Config, log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	topic := fs.String("topic", "", "post topic (required)")
	mode := fs.String("mode", "draft", "publication mode: draft, publish or schedule")
	scheduledAt := fs.String("at", "", "RFC 3339 timestamp for schedule mode")
	categories := fs.String("categories", "", "comma-separated category names")
	tags := fs.String("tags", "", "comma-separated tag names")
	noImage := fs.Bool("no-image", false, "skip featured image generation")
	fs.Parse(args)

	if *topic == "" {
		fatal(fmt.Errorf("-topic is required"))
	}

	schedule := models.ScheduleInfo{Mode: models.ScheduleMode(*mode)}
	if *scheduledAt != "" {
		parsed, err := time.Parse(time.RFC3339, *scheduledAt)
		if err != nil {
			fatal(fmt.Errorf("parse -at: %w", err))
		}
		schedule.ScheduledAt = &parsed
	}
	if err := schedule.Validate(); err != nil {
		fatal(err)
	}

	services, db, err := buildServices(cfg, log)
	if err != nil {
		fatal(err)
	}
	defer db.Close()

	result, err := services.Blog.Publish(ctx, service.PublishRequest{
		Topic:         *topic,
		Schedule:      schedule,
		Categories:    splitList(*categories),
		Tags:          splitList(*tags),
		GenerateImage: !*noImage,
	})
	if err != nil {
		fatal(err)
	}

	verdict := okStyle.Render("passed")
	if !result.QualityPassed {
		verdict = failStyle.Render("failed (published as draft)")
	}
	lines := []string{
		titleStyle.Render(result.Title),
		fmt.Sprintf("%s %s", labelStyle.Render("job:"), result.JobID),
		fmt.Sprintf("%s %d (%s)", labelStyle.Render("post:"), result.WPPostID, result.Status),
		fmt.Sprintf("%s %s", labelStyle.Render("url:"), result.URL),
		fmt.Sprintf("%s %.0f, quality gate %s", labelStyle.Render("score:"), result.QualityScore, verdict),
	}
	for _, issue := range result.QualityIssues {
		lines = append(lines, fmt.Sprintf("  %s %s", failStyle.Render("!"), issue))
	}
	fmt.Println(boxStyle.Render(strings.Join(lines, "\n")))
}

func runPreview(ctx context.Context, cfg *config.Config, log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	topic := fs.String("topic", "", "post topic (required)")
	fs.Parse(args)

	if *topic == "" {
		fatal(fmt.Errorf("-topic is required"))
	}

	services, db, err := buildServices(cfg, log)
	if err != nil {
		fatal(err)
	}
	defer db.Close()

	content, err := services.Blog.GenerateOnly(ctx, *topic)
	if err != nil {
		fatal(err)
	}

	lines := []string{
		titleStyle.Render(content.Topic),
		fmt.Sprintf("%s %s", labelStyle.Render("slug:"), content.Slug),
		fmt.Sprintf("%s %s", labelStyle.Render("excerpt:"), content.Excerpt),
		labelStyle.Render("outline:"),
	}
	for i, section := range content.Outline {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, section))
	}
	fmt.Println(boxStyle.Render(strings.Join(lines, "\n")))
	fmt.Println(content.ContentHTML)
}

func runList(ctx context.Context, cfg *config.Config, log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("limit", 20, "maximum jobs to show")
	status := fs.String("status", "", "filter by status: started, completed or failed")
	fs.Parse(args)

	services, db, err := buildServices(cfg, log)
	if err != nil {
		fatal(err)
	}
	defer db.Close()

	jobs, err := services.Job.ListRecent(ctx, *limit, models.JobStatus(*status))
	if err != nil {
		fatal(err)
	}

	if len(jobs) == 0 {
		fmt.Println(labelStyle.Render("no jobs"))
		return
	}

	lines := make([]string, 0, len(jobs))
	for _, job := range jobs {
		mark := okStyle.Render("✓")
		switch job.Status {
		case models.JobStatusFailed:
			mark = failStyle.Render("✗")
		case models.JobStatusStarted:
			mark = labelStyle.Render("…")
		}
		line := fmt.Sprintf("%s %s  %s  %s", mark,
			job.CreatedAt.Format("2006-01-02 15:04"), shortID(job.ID), job.Topic)
		if job.ErrorMessage != "" {
			line += "  " + failStyle.Render(job.ErrorMessage)
		}
		lines = append(lines, line)
	}
	fmt.Println(boxStyle.Render(strings.Join(lines, "\n")))
}

func runRetry(ctx context.Context, cfg *config.Config, log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("retry", flag.ExitOnError)
	jobID := fs.String("job", "", "id of the failed job to retry (required)")
	fs.Parse(args)

	if *jobID == "" {
		fatal(fmt.Errorf("-job is required"))
	}

	services, db, err := buildServices(cfg, log)
	if err != nil {
		fatal(err)
	}
	defer db.Close()

	result, err := services.Blog.Retry(ctx, *jobID)
	if err != nil {
		fatal(err)
	}

	fmt.Println(boxStyle.Render(strings.Join([]string{
		titleStyle.Render("retry succeeded"),
		fmt.Sprintf("%s %s", labelStyle.Render("new job:"), result.JobID),
		fmt.Sprintf("%s %d (%s)", labelStyle.Render("post:"), result.WPPostID, result.Status),
		fmt.Sprintf("%s %s", labelStyle.Render("url:"), result.URL),
	}, "\n")))
}

func runStats(ctx context.Context, cfg *config.Config, log zerolog.Logger, args []string) {
	services, db, err := buildServices(cfg, log)
	if err != nil {
		fatal(err)
	}
	defer db.Close()

	stats, err := services.Job.Statistics(ctx)
	if err != nil {
		fatal(err)
	}

	lines := []string{
		titleStyle.Render("generation jobs"),
		fmt.Sprintf("%s %d", labelStyle.Render("total:"), stats.TotalJobs),
		fmt.Sprintf("%s %d", labelStyle.Render("today:"), stats.TodayJobs),
		fmt.Sprintf("%s %.1f%%", labelStyle.Render("success rate:"), stats.SuccessRate),
	}
	for status, count := range stats.StatusCounts {
		lines = append(lines, fmt.Sprintf("  %s %d", labelStyle.Render(string(status)+":"), count))
	}
	fmt.Println(boxStyle.Render(strings.Join(lines, "\n")))
}

// shortID abbreviates a job id for list output. Ids are UUIDs in practice,
// but the store accepts arbitrary text.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, failStyle.Render("error: ")+err.Error())
	os.Exit(1)
}
