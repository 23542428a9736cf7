package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/grandseiken/wiispace-board/internal/domain/category"
	"github.com/grandseiken/wiispace-board/internal/domain/model"
	"github.com/grandseiken/wiispace-board/pkg/metrics"
)

// accountRow is the relational mapping of model.Account.
type accountRow struct {
	ID         int64  `gorm:"primaryKey"`
	Name       string `gorm:"uniqueIndex;size:20"`
	About      string
	Registered time.Time
	TotalScore int64 `gorm:"index"`
}

func (accountRow) TableName() string { return "accounts" }

// replayRow is the relational mapping of model.Replay. The composite
// unique index is the dedup identity: a lost check-then-insert race
// surfaces as a constraint violation instead of a second row.
type replayRow struct {
	ID           int64  `gorm:"primaryKey"`
	Seed         int64  `gorm:"uniqueIndex:idx_dedup_identity;index"`
	Mode         string `gorm:"uniqueIndex:idx_dedup_identity;size:4;index:idx_category"`
	Players      int    `gorm:"uniqueIndex:idx_dedup_identity;index:idx_category"`
	Score        int64  `gorm:"uniqueIndex:idx_dedup_identity;index"`
	Version      string `gorm:"uniqueIndex:idx_dedup_identity;size:8"`
	ToolAssisted bool
	TeamName     string `gorm:"size:17"`
	Comment      string
	Created      time.Time `gorm:"index"`
	Downloads    int64
	UploaderID   int64 `gorm:"index"`
}

func (replayRow) TableName() string { return "replays" }

// commentRow is the relational mapping of model.Comment.
type commentRow struct {
	ID       int64 `gorm:"primaryKey"`
	AuthorID int64 `gorm:"index"`
	ReplayID int64 `gorm:"index"`
	Created  time.Time
	Text     string
}

func (commentRow) TableName() string { return "comments" }

// GormStore is the relational Store, backed by SQLite through GORM.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// OpenGormStore opens (or creates) the database at path and migrates the
// schema. Use ":memory:" for an ephemeral database.
func OpenGormStore(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrStoreUnavailable, path, err)
	}
	if err := db.AutoMigrate(&accountRow{}, &replayRow{}, &commentRow{}); err != nil {
		return nil, fmt.Errorf("%w: migrate: %v", ErrStoreUnavailable, err)
	}
	return &GormStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *GormStore) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return db.Close()
}

// translate maps driver errors onto the store's sentinel kinds.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return ErrConflict
	default:
		metrics.RecordStoreError()
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

// observeQuery records a read's latency from start.
func observeQuery(start time.Time) {
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
}

// observeUpdate records a write's latency from start.
func observeUpdate(start time.Time) {
	metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
}

func toAccount(r accountRow) model.Account {
	return model.Account{ID: r.ID, Name: r.Name, About: r.About, Registered: r.Registered, TotalScore: r.TotalScore}
}

func toReplay(r replayRow) (model.Replay, error) {
	m, err := category.ParseMode(r.Mode)
	if err != nil {
		return model.Replay{}, err
	}
	return model.Replay{
		ID:           r.ID,
		Seed:         r.Seed,
		Version:      r.Version,
		Mode:         m,
		Players:      r.Players,
		Score:        r.Score,
		ToolAssisted: r.ToolAssisted,
		TeamName:     r.TeamName,
		Comment:      r.Comment,
		Created:      r.Created,
		Downloads:    r.Downloads,
		UploaderID:   r.UploaderID,
	}, nil
}

func toReplays(rows []replayRow) ([]model.Replay, error) {
	out := make([]model.Replay, 0, len(rows))
	for _, r := range rows {
		m, err := toReplay(r)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func toComment(r commentRow) model.Comment {
	return model.Comment{ID: r.ID, AuthorID: r.AuthorID, ReplayID: r.ReplayID, Created: r.Created, Text: r.Text}
}

// categoryScope narrows a replay query to one category.
func categoryScope(cat category.Category) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if cat.AllModes {
			tx = tx.Where("mode <> ?", category.ModeBoss.Tag())
		} else {
			tx = tx.Where("mode = ?", cat.Mode.Tag())
		}
		if cat.Players != 0 {
			tx = tx.Where("players = ?", cat.Players)
		}
		return tx
	}
}

// orderClause renders the category's ordering as SQL, with the insertion
// sequence as the stable tie-breaker.
func orderClause(cat category.Category, order category.OrderMode) string {
	switch order {
	case category.OrderNewestFirst:
		return "created DESC, id DESC"
	case category.OrderOldestFirst:
		return "created ASC, id ASC"
	}
	if cat.ScoreAscending(order) {
		return "score ASC, id ASC"
	}
	return "score DESC, id ASC"
}

// Account returns the account with the given id.
func (s *GormStore) Account(ctx context.Context, id int64) (model.Account, error) {
	defer observeQuery(time.Now())
	var row accountRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return model.Account{}, translate(err)
	}
	return toAccount(row), nil
}

// InsertAccount stores a new account and assigns its id.
func (s *GormStore) InsertAccount(ctx context.Context, a *model.Account) error {
	defer observeUpdate(time.Now())
	if a.Registered.IsZero() {
		a.Registered = time.Now().UTC()
	}
	row := accountRow{Name: a.Name, About: a.About, Registered: a.Registered, TotalScore: a.TotalScore}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err)
	}
	a.ID = row.ID
	return nil
}

// AccountCount returns the number of registered accounts.
func (s *GormStore) AccountCount(ctx context.Context) (int, error) {
	defer observeQuery(time.Now())
	var n int64
	if err := s.db.WithContext(ctx).Model(&accountRow{}).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}

func (s *GormStore) accountWindow(ctx context.Context, order string, offset, length int) ([]model.Account, error) {
	defer observeQuery(time.Now())
	if length <= 0 {
		return nil, nil
	}
	var rows []accountRow
	err := s.db.WithContext(ctx).Order(order).Offset(offset).Limit(length).Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	out := make([]model.Account, len(rows))
	for i, r := range rows {
		out[i] = toAccount(r)
	}
	return out, nil
}

// AccountsByScore returns a window of accounts, highest total first.
func (s *GormStore) AccountsByScore(ctx context.Context, offset, length int) ([]model.Account, error) {
	return s.accountWindow(ctx, "total_score DESC, id ASC", offset, length)
}

// AccountsByName returns a window of accounts in name order.
func (s *GormStore) AccountsByName(ctx context.Context, offset, length int) ([]model.Account, error) {
	return s.accountWindow(ctx, "name ASC, id ASC", offset, length)
}

// UpdateTotalScore persists a recomputed cumulative score.
func (s *GormStore) UpdateTotalScore(ctx context.Context, id int64, total int64) error {
	defer observeUpdate(time.Now())
	res := s.db.WithContext(ctx).Model(&accountRow{}).Where("id = ?", id).Update("total_score", total)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAbout replaces an account's profile blurb.
func (s *GormStore) UpdateAbout(ctx context.Context, id int64, about string) error {
	defer observeUpdate(time.Now())
	res := s.db.WithContext(ctx).Model(&accountRow{}).Where("id = ?", id).Update("about", about)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AccountRanking returns all account ids by TotalScore descending. A
// single SELECT keeps the snapshot consistent.
func (s *GormStore) AccountRanking(ctx context.Context) ([]int64, error) {
	defer observeQuery(time.Now())
	var ids []int64
	err := s.db.WithContext(ctx).Model(&accountRow{}).
		Order("total_score DESC, id ASC").Pluck("id", &ids).Error
	if err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

// Replay returns the record with the given id.
func (s *GormStore) Replay(ctx context.Context, id int64) (model.Replay, error) {
	defer observeQuery(time.Now())
	var row replayRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return model.Replay{}, translate(err)
	}
	return toReplay(row)
}

// RandomReplay returns an arbitrary stored record.
func (s *GormStore) RandomReplay(ctx context.Context) (model.Replay, error) {
	defer observeQuery(time.Now())
	var row replayRow
	if err := s.db.WithContext(ctx).Order("RANDOM()").First(&row).Error; err != nil {
		return model.Replay{}, translate(err)
	}
	return toReplay(row)
}

// InsertReplay stores a new record. A duplicate identity returns
// ErrConflict via the composite unique index.
func (s *GormStore) InsertReplay(ctx context.Context, r *model.Replay) error {
	defer observeUpdate(time.Now())
	if r.Created.IsZero() {
		r.Created = time.Now().UTC()
	}
	row := replayRow{
		Seed:         r.Seed,
		Mode:         r.Mode.Tag(),
		Players:      r.Players,
		Score:        r.Score,
		Version:      r.Version,
		ToolAssisted: r.ToolAssisted,
		TeamName:     r.TeamName,
		Comment:      r.Comment,
		Created:      r.Created,
		Downloads:    r.Downloads,
		UploaderID:   r.UploaderID,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err)
	}
	r.ID = row.ID
	return nil
}

// UpdateReplayComment replaces the uploader's free text on a record.
func (s *GormStore) UpdateReplayComment(ctx context.Context, id int64, text string) error {
	defer observeUpdate(time.Now())
	res := s.db.WithContext(ctx).Model(&replayRow{}).Where("id = ?", id).Update("comment", text)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementDownloads bumps the retrieval counter in a single statement.
func (s *GormStore) IncrementDownloads(ctx context.Context, id int64) (int64, error) {
	defer observeUpdate(time.Now())
	res := s.db.WithContext(ctx).Model(&replayRow{}).Where("id = ?", id).
		Update("downloads", gorm.Expr("downloads + 1"))
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	var n int64
	err := s.db.WithContext(ctx).Model(&replayRow{}).Where("id = ?", id).Pluck("downloads", &n).Error
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// BestScore returns the account's best score in one exact category cell.
func (s *GormStore) BestScore(ctx context.Context, accountID int64, mode category.Mode, players int) (int64, bool, error) {
	defer observeQuery(time.Now())
	cat, err := category.Exact(mode, players)
	if err != nil {
		return 0, false, err
	}
	var scores []int64
	err = s.db.WithContext(ctx).Model(&replayRow{}).
		Where("uploader_id = ? AND mode = ? AND players = ?", accountID, mode.Tag(), players).
		Order(orderClause(cat, category.OrderBestFirst)).
		Limit(1).
		Pluck("score", &scores).Error
	if err != nil {
		return 0, false, translate(err)
	}
	if len(scores) == 0 {
		return 0, false, nil
	}
	return scores[0], true, nil
}

// OrderedWindow returns one page of a category's records.
func (s *GormStore) OrderedWindow(ctx context.Context, cat category.Category, order category.OrderMode, offset, length int) ([]model.Replay, error) {
	defer observeQuery(time.Now())
	if length <= 0 {
		return nil, nil
	}
	var rows []replayRow
	err := s.db.WithContext(ctx).Scopes(categoryScope(cat)).
		Order(orderClause(cat, order)).Offset(offset).Limit(length).Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return toReplays(rows)
}

// Count returns the number of records in the category.
func (s *GormStore) Count(ctx context.Context, cat category.Category) (int, error) {
	defer observeQuery(time.Now())
	var n int64
	err := s.db.WithContext(ctx).Model(&replayRow{}).Scopes(categoryScope(cat)).Count(&n).Error
	if err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}

// RecordsByKey returns every record sharing the seed.
func (s *GormStore) RecordsByKey(ctx context.Context, seed int64) ([]model.Replay, error) {
	defer observeQuery(time.Now())
	var rows []replayRow
	err := s.db.WithContext(ctx).Where("seed = ?", seed).Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return toReplays(rows)
}

// CategorySnapshot returns the category's record ids in best-first order.
// One SELECT per call: the ranking pass and the lookup share a snapshot.
func (s *GormStore) CategorySnapshot(ctx context.Context, cat category.Category) ([]int64, error) {
	defer observeQuery(time.Now())
	var ids []int64
	err := s.db.WithContext(ctx).Model(&replayRow{}).Scopes(categoryScope(cat)).
		Order(orderClause(cat, category.OrderBestFirst)).Pluck("id", &ids).Error
	if err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

// ModeUnlocked reports whether any record exists for the mode.
func (s *GormStore) ModeUnlocked(ctx context.Context, m category.Mode) (bool, error) {
	defer observeQuery(time.Now())
	var ids []int64
	err := s.db.WithContext(ctx).Model(&replayRow{}).Where("mode = ?", m.Tag()).Limit(1).Pluck("id", &ids).Error
	if err != nil {
		return false, translate(err)
	}
	return len(ids) > 0, nil
}

// ReplaysByAccount returns a window of an account's uploads, newest first.
func (s *GormStore) ReplaysByAccount(ctx context.Context, accountID int64, offset, length int) ([]model.Replay, error) {
	defer observeQuery(time.Now())
	if length <= 0 {
		return nil, nil
	}
	var rows []replayRow
	err := s.db.WithContext(ctx).Where("uploader_id = ?", accountID).
		Order("created DESC, id DESC").Offset(offset).Limit(length).Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return toReplays(rows)
}

// ReplayCountByAccount returns the number of an account's uploads.
func (s *GormStore) ReplayCountByAccount(ctx context.Context, accountID int64) (int, error) {
	defer observeQuery(time.Now())
	var n int64
	err := s.db.WithContext(ctx).Model(&replayRow{}).Where("uploader_id = ?", accountID).Count(&n).Error
	if err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}

// Comment returns the comment with the given id.
func (s *GormStore) Comment(ctx context.Context, id int64) (model.Comment, error) {
	defer observeQuery(time.Now())
	var row commentRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return model.Comment{}, translate(err)
	}
	return toComment(row), nil
}

// CommentCount returns the number of comments across all threads.
func (s *GormStore) CommentCount(ctx context.Context) (int, error) {
	defer observeQuery(time.Now())
	var n int64
	if err := s.db.WithContext(ctx).Model(&commentRow{}).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}

// InsertComment stores a new comment and assigns its id and timestamp.
func (s *GormStore) InsertComment(ctx context.Context, c *model.Comment) error {
	defer observeUpdate(time.Now())
	if c.Created.IsZero() {
		c.Created = time.Now().UTC()
	}
	row := commentRow{AuthorID: c.AuthorID, ReplayID: c.ReplayID, Created: c.Created, Text: c.Text}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err)
	}
	c.ID = row.ID
	return nil
}

// UpdateCommentText replaces a comment's text.
func (s *GormStore) UpdateCommentText(ctx context.Context, id int64, text string) error {
	defer observeUpdate(time.Now())
	res := s.db.WithContext(ctx).Model(&commentRow{}).Where("id = ?", id).Update("text", text)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CommentsByReplay returns a window of a replay's thread, oldest first.
func (s *GormStore) CommentsByReplay(ctx context.Context, replayID int64, offset, length int) ([]model.Comment, error) {
	defer observeQuery(time.Now())
	if length <= 0 {
		return nil, nil
	}
	var rows []commentRow
	err := s.db.WithContext(ctx).Where("replay_id = ?", replayID).
		Order("created ASC, id ASC").Offset(offset).Limit(length).Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	out := make([]model.Comment, len(rows))
	for i, r := range rows {
		out[i] = toComment(r)
	}
	return out, nil
}

// CommentCountByReplay returns the length of a replay's thread.
func (s *GormStore) CommentCountByReplay(ctx context.Context, replayID int64) (int, error) {
	defer observeQuery(time.Now())
	var n int64
	err := s.db.WithContext(ctx).Model(&commentRow{}).Where("replay_id = ?", replayID).Count(&n).Error
	if err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}

// CommentsByAccount returns a window of an account's comments, newest first.
func (s *GormStore) CommentsByAccount(ctx context.Context, accountID int64, offset, length int) ([]model.Comment, error) {
	defer observeQuery(time.Now())
	if length <= 0 {
		return nil, nil
	}
	var rows []commentRow
	err := s.db.WithContext(ctx).Where("author_id = ?", accountID).
		Order("created DESC, id DESC").Offset(offset).Limit(length).Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	out := make([]model.Comment, len(rows))
	for i, r := range rows {
		out[i] = toComment(r)
	}
	return out, nil
}

// CommentCountByAccount returns the number of comments an account wrote.
func (s *GormStore) CommentCountByAccount(ctx context.Context, accountID int64) (int, error) {
	defer observeQuery(time.Now())
	var n int64
	err := s.db.WithContext(ctx).Model(&commentRow{}).Where("author_id = ?", accountID).Count(&n).Error
	if err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}

// CommentThreadSnapshot returns a replay's comment ids, oldest first.
func (s *GormStore) CommentThreadSnapshot(ctx context.Context, replayID int64) ([]int64, error) {
	defer observeQuery(time.Now())
	var ids []int64
	err := s.db.WithContext(ctx).Model(&commentRow{}).Where("replay_id = ?", replayID).
		Order("created ASC, id ASC").Pluck("id", &ids).Error
	if err != nil {
		return nil, translate(err)
	}
	return ids, nil
}
