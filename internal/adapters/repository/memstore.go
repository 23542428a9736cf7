package repository

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/grandseiken/wiispace-board/internal/domain/category"
	"github.com/grandseiken/wiispace-board/internal/domain/model"
)

// MemStore is an in-memory Store. A single RWMutex serializes access, so
// every call sees one consistent snapshot and the dedup-check-then-insert
// window of the relational layout does not exist here.
type MemStore struct {
	mu sync.RWMutex

	accounts map[int64]model.Account
	replays  map[int64]model.Replay
	comments map[int64]model.Comment

	nextAccountID int64
	nextReplayID  int64
	nextCommentID int64

	rng *rand.Rand
}

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithRandSeed makes RandomReplay deterministic, for tests.
func WithRandSeed(seed int64) Option {
	return func(s *MemStore) {
		s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // non-cryptographic pick
	}
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		accounts: make(map[int64]model.Account),
		replays:  make(map[int64]model.Replay),
		comments: make(map[int64]model.Comment),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // non-cryptographic pick
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Store = (*MemStore)(nil)

// Account returns the account with the given id.
func (s *MemStore) Account(_ context.Context, id int64) (model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return model.Account{}, ErrNotFound
	}
	return a, nil
}

// InsertAccount stores a new account and assigns its id.
func (s *MemStore) InsertAccount(_ context.Context, a *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAccountID++
	a.ID = s.nextAccountID
	if a.Registered.IsZero() {
		a.Registered = time.Now().UTC()
	}
	s.accounts[a.ID] = *a
	return nil
}

// AccountCount returns the number of registered accounts.
func (s *MemStore) AccountCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts), nil
}

func (s *MemStore) sortedAccounts(byScore bool) []model.Account {
	out := make([]model.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if byScore {
			if out[i].TotalScore != out[j].TotalScore {
				return out[i].TotalScore > out[j].TotalScore
			}
			return out[i].ID < out[j].ID
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func windowOf[T any](rows []T, offset, length int) []T {
	if offset < 0 || offset >= len(rows) || length <= 0 {
		return nil
	}
	end := offset + length
	if end > len(rows) {
		end = len(rows)
	}
	out := make([]T, end-offset)
	copy(out, rows[offset:end])
	return out
}

// AccountsByScore returns a window of accounts, highest total first.
func (s *MemStore) AccountsByScore(_ context.Context, offset, length int) ([]model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return windowOf(s.sortedAccounts(true), offset, length), nil
}

// AccountsByName returns a window of accounts in name order.
func (s *MemStore) AccountsByName(_ context.Context, offset, length int) ([]model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return windowOf(s.sortedAccounts(false), offset, length), nil
}

// UpdateTotalScore persists a recomputed cumulative score.
func (s *MemStore) UpdateTotalScore(_ context.Context, id int64, total int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	a.TotalScore = total
	s.accounts[id] = a
	return nil
}

// UpdateAbout replaces an account's profile blurb.
func (s *MemStore) UpdateAbout(_ context.Context, id int64, about string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	a.About = about
	s.accounts[id] = a
	return nil
}

// AccountRanking returns all account ids by TotalScore descending.
func (s *MemStore) AccountRanking(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.sortedAccounts(true)
	ids := make([]int64, len(rows))
	for i, a := range rows {
		ids[i] = a.ID
	}
	return ids, nil
}

// Replay returns the record with the given id.
func (s *MemStore) Replay(_ context.Context, id int64) (model.Replay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.replays[id]
	if !ok {
		return model.Replay{}, ErrNotFound
	}
	return r, nil
}

// RandomReplay returns an arbitrary stored record.
func (s *MemStore) RandomReplay(_ context.Context) (model.Replay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.replays) == 0 {
		return model.Replay{}, ErrNotFound
	}
	ids := make([]int64, 0, len(s.replays))
	for id := range s.replays {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return s.replays[ids[s.rng.Intn(len(ids))]], nil
}

// InsertReplay stores a new record and assigns its id and creation time.
func (s *MemStore) InsertReplay(_ context.Context, r *model.Replay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.replays {
		if existing.Seed == r.Seed && existing.Mode == r.Mode &&
			existing.Players == r.Players && existing.Score == r.Score &&
			existing.Version == r.Version {
			return ErrConflict
		}
	}
	s.nextReplayID++
	r.ID = s.nextReplayID
	if r.Created.IsZero() {
		r.Created = time.Now().UTC()
	}
	s.replays[r.ID] = *r
	return nil
}

// UpdateReplayComment replaces the uploader's free text on a record.
func (s *MemStore) UpdateReplayComment(_ context.Context, id int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.replays[id]
	if !ok {
		return ErrNotFound
	}
	r.Comment = text
	s.replays[id] = r
	return nil
}

// IncrementDownloads bumps the retrieval counter.
func (s *MemStore) IncrementDownloads(_ context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.replays[id]
	if !ok {
		return 0, ErrNotFound
	}
	r.Downloads++
	s.replays[id] = r
	return r.Downloads, nil
}

// BestScore returns the account's best score in one exact category cell.
func (s *MemStore) BestScore(_ context.Context, accountID int64, mode category.Mode, players int) (int64, bool, error) {
	cat, err := category.Exact(mode, players)
	if err != nil {
		return 0, false, err
	}
	better := cat.Ordering(category.OrderBestFirst)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best model.Replay
	found := false
	for _, r := range s.replays {
		if r.UploaderID != accountID || r.Mode != mode || r.Players != players {
			continue
		}
		if !found || better(r.Row(), best.Row()) {
			best = r
			found = true
		}
	}
	if !found {
		return 0, false, nil
	}
	return best.Score, true, nil
}

// categoryRows returns the category's records ordered per the order mode.
// Must be called with the lock held.
func (s *MemStore) categoryRows(cat category.Category, order category.OrderMode) []model.Replay {
	rows := make([]model.Replay, 0)
	for _, r := range s.replays {
		if cat.Includes(r.Mode, r.Players) {
			rows = append(rows, r)
		}
	}
	less := cat.Ordering(order)
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i].Row(), rows[j].Row()) })
	return rows
}

// OrderedWindow returns one page of a category's records.
func (s *MemStore) OrderedWindow(_ context.Context, cat category.Category, order category.OrderMode, offset, length int) ([]model.Replay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return windowOf(s.categoryRows(cat, order), offset, length), nil
}

// Count returns the number of records in the category.
func (s *MemStore) Count(_ context.Context, cat category.Category) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.replays {
		if cat.Includes(r.Mode, r.Players) {
			n++
		}
	}
	return n, nil
}

// RecordsByKey returns every record sharing the seed.
func (s *MemStore) RecordsByKey(_ context.Context, seed int64) ([]model.Replay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Replay
	for _, r := range s.replays {
		if r.Seed == seed {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CategorySnapshot returns the category's record ids in best-first order.
func (s *MemStore) CategorySnapshot(_ context.Context, cat category.Category) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.categoryRows(cat, category.OrderBestFirst)
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids, nil
}

// ModeUnlocked reports whether any record exists for the mode.
func (s *MemStore) ModeUnlocked(_ context.Context, m category.Mode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.replays {
		if r.Mode == m {
			return true, nil
		}
	}
	return false, nil
}

// ReplaysByAccount returns a window of an account's uploads, newest first.
func (s *MemStore) ReplaysByAccount(_ context.Context, accountID int64, offset, length int) ([]model.Replay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []model.Replay
	for _, r := range s.replays {
		if r.UploaderID == accountID {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Created.Equal(rows[j].Created) {
			return rows[i].Created.After(rows[j].Created)
		}
		return rows[i].ID > rows[j].ID
	})
	return windowOf(rows, offset, length), nil
}

// ReplayCountByAccount returns the number of an account's uploads.
func (s *MemStore) ReplayCountByAccount(_ context.Context, accountID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.replays {
		if r.UploaderID == accountID {
			n++
		}
	}
	return n, nil
}

// Comment returns the comment with the given id.
func (s *MemStore) Comment(_ context.Context, id int64) (model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return model.Comment{}, ErrNotFound
	}
	return c, nil
}

// CommentCount returns the number of comments across all threads.
func (s *MemStore) CommentCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.comments), nil
}

// InsertComment stores a new comment and assigns its id and timestamp.
func (s *MemStore) InsertComment(_ context.Context, c *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCommentID++
	c.ID = s.nextCommentID
	if c.Created.IsZero() {
		c.Created = time.Now().UTC()
	}
	s.comments[c.ID] = *c
	return nil
}

// UpdateCommentText replaces a comment's text.
func (s *MemStore) UpdateCommentText(_ context.Context, id int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return ErrNotFound
	}
	c.Text = text
	s.comments[id] = c
	return nil
}

// threadComments returns a replay's comments oldest first. Must be called
// with the lock held.
func (s *MemStore) threadComments(replayID int64) []model.Comment {
	var rows []model.Comment
	for _, c := range s.comments {
		if c.ReplayID == replayID {
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Created.Equal(rows[j].Created) {
			return rows[i].Created.Before(rows[j].Created)
		}
		return rows[i].ID < rows[j].ID
	})
	return rows
}

// CommentsByReplay returns a window of a replay's thread, oldest first.
func (s *MemStore) CommentsByReplay(_ context.Context, replayID int64, offset, length int) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return windowOf(s.threadComments(replayID), offset, length), nil
}

// CommentCountByReplay returns the length of a replay's thread.
func (s *MemStore) CommentCountByReplay(_ context.Context, replayID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.comments {
		if c.ReplayID == replayID {
			n++
		}
	}
	return n, nil
}

// CommentsByAccount returns a window of an account's comments, newest first.
func (s *MemStore) CommentsByAccount(_ context.Context, accountID int64, offset, length int) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []model.Comment
	for _, c := range s.comments {
		if c.AuthorID == accountID {
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Created.Equal(rows[j].Created) {
			return rows[i].Created.After(rows[j].Created)
		}
		return rows[i].ID > rows[j].ID
	})
	return windowOf(rows, offset, length), nil
}

// CommentCountByAccount returns the number of comments an account wrote.
func (s *MemStore) CommentCountByAccount(_ context.Context, accountID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.comments {
		if c.AuthorID == accountID {
			n++
		}
	}
	return n, nil
}

// CommentThreadSnapshot returns a replay's comment ids, oldest first.
func (s *MemStore) CommentThreadSnapshot(_ context.Context, replayID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.threadComments(replayID)
	ids := make([]int64, len(rows))
	for i, c := range rows {
		ids[i] = c.ID
	}
	return ids, nil
}
