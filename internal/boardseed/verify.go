package boardseed

import (
	"context"
	"fmt"

	"github.com/grandseiken/wiispace-board/pkg/logger"
)

// Category index bounds: 5 modes and the aggregate, 5 player selectors.
const categoryCount = 30

// The time-scored mode occupies mode ordinal 1, selectors 5..9.
func timeScored(index int) bool { return index >= 5 && index < 10 }

// verifyBoards walks every category board and checks the ranking
// contract: ranks are contiguous from 1 and scores are monotonic in the
// board's direction.
func verifyBoards(ctx context.Context, config *Config, client *httpClient, stats *Stats) error {
	for index := 0; index < categoryCount; index++ {
		var page boardPage
		url := fmt.Sprintf("%s/boards/%d?page=0", config.BaseURL, index)
		if err := client.get(ctx, url, &page); err != nil {
			return fmt.Errorf("board %d: %w", index, err)
		}

		ascending := timeScored(index)
		for i, entry := range page.Entries {
			if entry.Rank != i+1 {
				return fmt.Errorf("board %d: entry %d has rank %d", index, i, entry.Rank)
			}
			if i == 0 {
				continue
			}
			prev := page.Entries[i-1].Score
			if ascending && entry.Score < prev {
				return fmt.Errorf("board %d: score %d after %d on an ascending board", index, entry.Score, prev)
			}
			if !ascending && entry.Score > prev {
				return fmt.Errorf("board %d: score %d after %d on a descending board", index, entry.Score, prev)
			}
		}
		stats.BoardsVerified++
	}

	logger.Get().Info(ctx, "boards verified", logger.Int("count", stats.BoardsVerified))
	return nil
}
