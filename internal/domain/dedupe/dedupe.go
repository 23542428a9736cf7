// Package dedupe decides whether an incoming submission is a re-upload of
// an already stored record.
package dedupe

import (
	"context"
	"fmt"

	"github.com/grandseiken/wiispace-board/internal/domain/category"
	"github.com/grandseiken/wiispace-board/internal/domain/model"
)

// Key is the five-field dedup identity. Two submissions are the same event
// exactly when every field matches. The seed alone is not a unique key: it
// is a property of the game session, and distinct runs can collide on it.
type Key struct {
	Seed    int64
	Mode    category.Mode
	Players int
	Score   int64
	Version string
}

// KeyOf extracts the dedup identity from a submission.
func KeyOf(s model.Submission) Key {
	return Key{
		Seed:    s.Seed,
		Mode:    s.Mode,
		Players: s.Players,
		Score:   s.Score,
		Version: s.Version,
	}
}

// Matches reports whether the stored record carries this identity.
func (k Key) Matches(r model.Replay) bool {
	return r.Seed == k.Seed &&
		r.Mode == k.Mode &&
		r.Players == k.Players &&
		r.Score == k.Score &&
		r.Version == k.Version
}

// SeedLookup is the single store query the checker needs: every stored
// record sharing a seed.
type SeedLookup interface {
	RecordsByKey(ctx context.Context, seed int64) ([]model.Replay, error)
}

// Checker answers duplicate queries against the store. It must run
// strictly before any write on the ingestion path.
type Checker struct {
	store SeedLookup
}

// NewChecker creates a checker backed by the given lookup.
func NewChecker(store SeedLookup) *Checker {
	return &Checker{store: store}
}

// IsDuplicate reports whether a record with the given identity already
// exists. On a match it also returns the existing record's id so the
// caller can point the user at it.
func (c *Checker) IsDuplicate(ctx context.Context, key Key) (existingID int64, dup bool, err error) {
	records, err := c.store.RecordsByKey(ctx, key.Seed)
	if err != nil {
		return 0, false, fmt.Errorf("dedupe lookup for seed %d: %w", key.Seed, err)
	}
	for _, r := range records {
		if key.Matches(r) {
			return r.ID, true, nil
		}
	}
	return 0, false, nil
}
