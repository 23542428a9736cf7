// Package boardseed seeds a running service with generated accounts and
// submissions, then verifies the resulting boards end to end.
package boardseed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/grandseiken/wiispace-board/pkg/logger"
)

// Run executes the complete seed-and-verify pass.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting board seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.NumPlayers),
		logger.Int("replays", config.NumReplays),
		logger.Int("workers", config.Workers),
	)

	client := newHTTPClient(config.Timeout)

	if err := checkServiceHealth(ctx, config, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	accountIDs, err := registerAccounts(ctx, config, client, stats)
	if err != nil {
		return fmt.Errorf("account registration failed: %w", err)
	}

	subs := generateSubmissions(ctx, config, accountIDs, stats)
	submitAll(ctx, config, client, subs, stats)

	if err := verifyBoards(ctx, config, client, stats); err != nil {
		return fmt.Errorf("board verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config, client *httpClient) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.BaseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := client.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	// Any 200 is healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.SubmissionsGenerated) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("playersRegistered", stats.PlayersRegistered),
		logger.Int("submissionsGenerated", stats.SubmissionsGenerated),
		logger.Int("submissionsAccepted", stats.SubmissionsAccepted),
		logger.Int("submissionsDuplicate", stats.SubmissionsDuplicate),
		logger.Int("submissionsFailed", stats.SubmissionsFailed),
		logger.Int("boardsVerified", stats.BoardsVerified),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("submissionsPerSecond", perSecond),
	)
}
