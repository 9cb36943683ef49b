package claude

import (
	"context"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joshuadavidthomas/vibequota/internal/fetch"
	"github.com/joshuadavidthomas/vibequota/internal/models"
)

var (
	ansiPattern  = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	usagePattern = regexp.MustCompile(`█\s*([\d.]+)%\s*(?:\(([^)]+)\)|\[([^\]]+)\])`)
)

// CLIStrategy parses the usage panel printed by the Claude CLI.
type CLIStrategy struct{}

func (s *CLIStrategy) Kind() fetch.Kind { return fetch.KindCLI }
func (s *CLIStrategy) Name() string     { return "cli" }

func (s *CLIStrategy) IsAvailable(fetch.Context) bool {
	_, err := exec.LookPath("claude")
	return err == nil
}

func (s *CLIStrategy) Fetch(ctx context.Context, fc fetch.Context) fetch.FetchResult {
	cmd := exec.CommandContext(ctx, "claude", "/usage")
	output, err := cmd.Output()
	if err != nil {
		return fetch.ResultFail(fetch.Errorf(fetch.ErrCommandFailed, "claude CLI failed: "+err.Error()))
	}

	snapshot := s.parseCLIOutput(string(output))
	if snapshot == nil {
		return fetch.ResultFail(fetch.Errorf(fetch.ErrParse, "failed to parse claude CLI output"))
	}

	return fetch.ResultOK(*snapshot, "Claude CLI")
}

func (s *CLIStrategy) parseCLIOutput(output string) *models.UsageSnapshot {
	clean := ansiPattern.ReplaceAllString(output, "")

	var windows []models.RateWindow
	for _, line := range strings.Split(clean, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "█") {
			continue
		}
		matches := usagePattern.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		util, err := strconv.ParseFloat(matches[1], 64)
		if err != nil {
			continue
		}
		label := matches[2]
		if label == "" {
			label = matches[3]
		}
		if label == "" {
			label = "Usage"
		}

		windows = append(windows, models.RateWindow{
			Label:       strings.TrimSpace(label),
			UsedPercent: models.ClampPct(int(util)),
		})
	}

	if len(windows) == 0 {
		return nil
	}

	return &models.UsageSnapshot{
		Provider:  "claude",
		FetchedAt: time.Now().UTC(),
		Windows:   models.RankWindows(windows),
	}
}
