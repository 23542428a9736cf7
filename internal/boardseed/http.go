package boardseed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/grandseiken/wiispace-board/pkg/logger"
)

// httpClient wraps http.Client with a per-request timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{client: &http.Client{Timeout: timeout}}
}

func (c *httpClient) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func (c *httpClient) post(ctx context.Context, url string, in, out any) (int, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if out != nil && resp.StatusCode < http.StatusBadRequest {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// registerAccounts creates the run's accounts and returns their ids.
func registerAccounts(ctx context.Context, config *Config, client *httpClient, stats *Stats) ([]int64, error) {
	url := config.BaseURL + "/players"
	ids := make([]int64, 0, config.NumPlayers)
	for i := 0; i < config.NumPlayers; i++ {
		var created struct {
			ID int64 `json:"id"`
		}
		name := fmt.Sprintf("seed-player-%d-%d", time.Now().Unix(), i)
		status, err := client.post(ctx, url, map[string]string{"name": name}, &created)
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", name, err)
		}
		if status != http.StatusCreated {
			return nil, fmt.Errorf("register %s: status %d", name, status)
		}
		ids = append(ids, created.ID)
	}
	stats.PlayersRegistered = len(ids)
	logger.Get().Info(ctx, "registered accounts", logger.Int("count", len(ids)))
	return ids, nil
}

// submitAll posts the submissions concurrently through a worker pool.
func submitAll(ctx context.Context, config *Config, client *httpClient, subs []submission, stats *Stats) {
	logger.Get().Info(ctx, "submitting replays",
		logger.Int("count", len(subs)),
		logger.Int("workers", config.Workers),
	)

	url := config.BaseURL + "/replays"

	var accepted, duplicate, failed int64

	subChan := make(chan submission, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range subChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				var result submitResult
				status, err := client.post(ctx, url, sub, &result)
				switch {
				case err != nil:
					atomic.AddInt64(&failed, 1)
				case status == http.StatusCreated:
					atomic.AddInt64(&accepted, 1)
					if config.Verbose {
						logger.Get().Debug(ctx, "accepted",
							logger.Int64("id", result.ID),
							logger.Int("rank", result.Rank),
						)
					}
				case status == http.StatusConflict:
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			break
		case subChan <- sub:
		}
	}
	close(subChan)
	wg.Wait()

	stats.SubmissionsAccepted = int(atomic.LoadInt64(&accepted))
	stats.SubmissionsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.SubmissionsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "submission pass complete",
		logger.Int("accepted", stats.SubmissionsAccepted),
		logger.Int("duplicate", stats.SubmissionsDuplicate),
		logger.Int("failed", stats.SubmissionsFailed),
	)
}
