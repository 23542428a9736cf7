package boardseed

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/grandseiken/wiispace-board/pkg/logger"
)

// Mode tags in submission-weight order. GAME dominates, matching the
// distribution of real uploads; BOSS is time-scored and rare.
var modeWeights = []struct {
	tag    string
	weight int64
}{
	{"GAME", 50},
	{"HARD", 20},
	{"FAST", 15},
	{"WHAT", 10},
	{"BOSS", 5},
}

const totalModeWeight = 100

// Score generation bounds.
const (
	pointScoreRange = 5_000_000
	bossTimeMin     = 3 * 60 * 60  // three minutes at 60 ticks/second
	bossTimeRange   = 40 * 60 * 60 // up to about 43 minutes
	seedRange       = 1 << 31
)

// randInt64 returns a uniform random value in [0, n) using crypto/rand.
func randInt64(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// pickMode draws a mode tag from the weighted distribution.
func pickMode() string {
	roll := randInt64(totalModeWeight)
	for _, m := range modeWeights {
		if roll < m.weight {
			return m.tag
		}
		roll -= m.weight
	}
	return "GAME"
}

// generateSubmissions builds the run's submissions across the registered
// accounts. A configured percentage is emitted twice to exercise the
// duplicate rejection path.
func generateSubmissions(ctx context.Context, config *Config, accountIDs []int64, stats *Stats) []submission {
	logger.Get().Info(ctx, "generating submissions",
		logger.Int("count", config.NumReplays),
		logger.Int("players", len(accountIDs)),
	)

	subs := make([]submission, 0, config.NumReplays)
	for i := 0; i < config.NumReplays; i++ {
		uploader := accountIDs[randInt64(int64(len(accountIDs)))]
		mode := pickMode()
		score := randInt64(pointScoreRange)
		if mode == "BOSS" {
			score = bossTimeMin + randInt64(bossTimeRange)
		}
		subs = append(subs, submission{
			UploaderID:   uploader,
			Seed:         randInt64(seedRange),
			Version:      "1.3",
			Mode:         mode,
			Players:      int(randInt64(4)) + 1,
			Score:        score,
			ToolAssisted: randInt64(20) == 0,
			TeamName:     fmt.Sprintf("seed crew %d", uploader),
		})
	}

	// Re-send a slice of the generated submissions verbatim.
	dupes := len(subs) * config.DupePercent / 100
	for i := 0; i < dupes; i++ {
		subs = append(subs, subs[int(randInt64(int64(config.NumReplays)))])
	}

	stats.SubmissionsGenerated = len(subs)
	logger.Get().Info(ctx, "generated submissions",
		logger.Int("count", len(subs)),
		logger.Int("duplicates", dupes),
	)
	return subs
}
