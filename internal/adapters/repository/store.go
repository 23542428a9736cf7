// Package repository defines the persistence adapter the ranking engine
// reads and writes through, and its errors.
package repository

import (
	"context"

	"github.com/grandseiken/wiispace-board/internal/domain/category"
	"github.com/grandseiken/wiispace-board/internal/domain/model"
)

// Store provides the query shapes the engine needs against the relational
// store. Implementations own their internal concurrency control; each call
// observes one consistent snapshot, and a failed call surfaces an error,
// never a silent empty result.
type Store interface {
	// Accounts.
	Account(ctx context.Context, id int64) (model.Account, error)
	InsertAccount(ctx context.Context, a *model.Account) error
	AccountCount(ctx context.Context) (int, error)
	// AccountsByScore returns a window of accounts ordered by TotalScore
	// descending, ties broken by id ascending; AccountsByName orders by
	// display name ascending.
	AccountsByScore(ctx context.Context, offset, length int) ([]model.Account, error)
	AccountsByName(ctx context.Context, offset, length int) ([]model.Account, error)
	// UpdateTotalScore persists the aggregator's result onto the account.
	UpdateTotalScore(ctx context.Context, id int64, total int64) error
	UpdateAbout(ctx context.Context, id int64, about string) error
	// AccountRanking returns every account id ordered by TotalScore
	// descending from one consistent snapshot.
	AccountRanking(ctx context.Context) ([]int64, error)

	// Replays.
	Replay(ctx context.Context, id int64) (model.Replay, error)
	RandomReplay(ctx context.Context) (model.Replay, error)
	InsertReplay(ctx context.Context, r *model.Replay) error
	UpdateReplayComment(ctx context.Context, id int64, text string) error
	// IncrementDownloads bumps the retrieval counter and returns the new value.
	IncrementDownloads(ctx context.Context, id int64) (int64, error)
	// BestScore returns the account's single best score in one exact
	// category cell, or ok=false when the account has no record there.
	BestScore(ctx context.Context, accountID int64, mode category.Mode, players int) (int64, bool, error)
	// OrderedWindow returns one page of a category's records under the
	// given order mode.
	OrderedWindow(ctx context.Context, cat category.Category, order category.OrderMode, offset, length int) ([]model.Replay, error)
	Count(ctx context.Context, cat category.Category) (int, error)
	// RecordsByKey returns every record sharing the seed, for dedup checks.
	RecordsByKey(ctx context.Context, seed int64) ([]model.Replay, error)
	// CategorySnapshot returns the ids of every record in the category in
	// best-first order, from one consistent snapshot.
	CategorySnapshot(ctx context.Context, cat category.Category) ([]int64, error)
	// ModeUnlocked reports whether any record exists for the mode.
	ModeUnlocked(ctx context.Context, m category.Mode) (bool, error)
	ReplaysByAccount(ctx context.Context, accountID int64, offset, length int) ([]model.Replay, error)
	ReplayCountByAccount(ctx context.Context, accountID int64) (int, error)

	// Comments.
	Comment(ctx context.Context, id int64) (model.Comment, error)
	// CommentCount returns the number of comments across all threads.
	CommentCount(ctx context.Context) (int, error)
	InsertComment(ctx context.Context, c *model.Comment) error
	UpdateCommentText(ctx context.Context, id int64, text string) error
	// CommentsByReplay is ordered oldest-first; CommentsByAccount newest-first.
	CommentsByReplay(ctx context.Context, replayID int64, offset, length int) ([]model.Comment, error)
	CommentCountByReplay(ctx context.Context, replayID int64) (int, error)
	CommentsByAccount(ctx context.Context, accountID int64, offset, length int) ([]model.Comment, error)
	CommentCountByAccount(ctx context.Context, accountID int64) (int, error)
	// CommentThreadSnapshot returns the ids of a replay's comments oldest
	// first, from one consistent snapshot.
	CommentThreadSnapshot(ctx context.Context, replayID int64) ([]int64, error)
}
