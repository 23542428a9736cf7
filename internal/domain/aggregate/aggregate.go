// Package aggregate recomputes cumulative account scores from per-cell
// personal bests.
package aggregate

import (
	"context"

	"github.com/grandseiken/wiispace-board/internal/domain/category"
)

// BestScoreSource yields an account's best score in one exact category
// cell, if the account has any record there.
type BestScoreSource interface {
	BestScore(ctx context.Context, accountID int64, mode category.Mode, players int) (int64, bool, error)
}

// Totaler sums personal bests across every point-scored cell.
type Totaler struct {
	source BestScoreSource
}

// NewTotaler returns a Totaler reading bests from source.
func NewTotaler(source BestScoreSource) *Totaler {
	return &Totaler{source: source}
}

// Total recomputes the account's cumulative score from scratch: one best
// per point-scored mode and player count, summed. Boss cells never
// contribute. Cells with no record contribute zero, so an account with no
// uploads totals zero.
func (t *Totaler) Total(ctx context.Context, accountID int64) (int64, error) {
	var total int64
	for _, m := range category.PointModes() {
		for players := category.MinPlayers; players <= category.MaxPlayers; players++ {
			best, ok, err := t.source.BestScore(ctx, accountID, m, players)
			if err != nil {
				return 0, err
			}
			if ok {
				total += best
			}
		}
	}
	return total, nil
}
