// Package rank resolves the 1-based position of records, accounts and
// comments within their orderings.
package rank

import (
	"context"
	"errors"

	"github.com/grandseiken/wiispace-board/internal/domain/category"
)

// ErrNotFound is returned when the subject does not appear in the
// ordering it was ranked against.
var ErrNotFound = errors.New("subject not present in ordering")

// SnapshotSource yields consistent, fully ordered id listings. Each call
// is a single snapshot: position within the returned slice is the rank.
type SnapshotSource interface {
	CategorySnapshot(ctx context.Context, cat category.Category) ([]int64, error)
	AccountRanking(ctx context.Context) ([]int64, error)
	CommentThreadSnapshot(ctx context.Context, replayID int64) ([]int64, error)
}

// Resolver turns snapshots into 1-based ranks.
type Resolver struct {
	source SnapshotSource
}

// NewResolver returns a Resolver reading snapshots from source.
func NewResolver(source SnapshotSource) *Resolver {
	return &Resolver{source: source}
}

func position(ids []int64, id int64) (int, error) {
	for i, got := range ids {
		if got == id {
			return i + 1, nil
		}
	}
	return 0, ErrNotFound
}

// ReplayRank returns the record's 1-based position within its category's
// best-first ordering. Distinct records never share a rank: the ordering
// breaks score ties by insertion sequence.
func (r *Resolver) ReplayRank(ctx context.Context, cat category.Category, replayID int64) (int, error) {
	ids, err := r.source.CategorySnapshot(ctx, cat)
	if err != nil {
		return 0, err
	}
	return position(ids, replayID)
}

// AccountRank returns the account's 1-based position by cumulative score.
func (r *Resolver) AccountRank(ctx context.Context, accountID int64) (int, error) {
	ids, err := r.source.AccountRanking(ctx)
	if err != nil {
		return 0, err
	}
	return position(ids, accountID)
}

// CommentRank returns the comment's 1-based position within its replay's
// thread, oldest first.
func (r *Resolver) CommentRank(ctx context.Context, replayID, commentID int64) (int, error) {
	ids, err := r.source.CommentThreadSnapshot(ctx, replayID)
	if err != nil {
		return 0, err
	}
	return position(ids, commentID)
}
