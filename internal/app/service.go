// Package service provides the core ranking service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	repository "github.com/grandseiken/wiispace-board/internal/adapters/repository"
	"github.com/grandseiken/wiispace-board/internal/domain/aggregate"
	"github.com/grandseiken/wiispace-board/internal/domain/category"
	"github.com/grandseiken/wiispace-board/internal/domain/dedupe"
	"github.com/grandseiken/wiispace-board/internal/domain/model"
	"github.com/grandseiken/wiispace-board/internal/domain/paging"
	"github.com/grandseiken/wiispace-board/internal/domain/rank"
	"github.com/grandseiken/wiispace-board/internal/domain/types"
	"github.com/grandseiken/wiispace-board/pkg/logger"
	"github.com/grandseiken/wiispace-board/pkg/metrics"
)

// Default page sizes, matching the site's board layouts.
const (
	defaultPlayersPerPage  = 48
	defaultReplaysPerPage  = 24
	defaultCommentsPerPage = 12

	// A zero time-mode score marks an unfinished run; it is stored as the
	// 100-minute cap so it sorts behind every real clear.
	timeModeCapScore = 360000

	minCommentLength = 2
)

// Service implements the API dependencies for the ranking system.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	checker  *dedupe.Checker
	totaler  *aggregate.Totaler
	resolver *rank.Resolver

	playersPerPage  int
	replaysPerPage  int
	commentsPerPage int

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the backing score store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithPlayersPerPage sets the player listing page size.
func WithPlayersPerPage(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.playersPerPage = n
		}
	}
}

// WithReplaysPerPage sets the scoreboard page size.
func WithReplaysPerPage(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.replaysPerPage = n
		}
	}
}

// WithCommentsPerPage sets the comment thread page size.
func WithCommentsPerPage(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.commentsPerPage = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		playersPerPage:  defaultPlayersPerPage,
		replaysPerPage:  defaultReplaysPerPage,
		commentsPerPage: defaultCommentsPerPage,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		s.store = repository.NewMemStore()
		s.logger.Info(ctx, "using in-memory store")
	}
	s.checker = dedupe.NewChecker(s.store)
	s.totaler = aggregate.NewTotaler(s.store)
	s.resolver = rank.NewResolver(s.store)

	s.started = true
	s.logger.Info(ctx, "ranking service started",
		logger.Int("playersPerPage", s.playersPerPage),
		logger.Int("replaysPerPage", s.replaysPerPage),
		logger.Int("commentsPerPage", s.commentsPerPage),
	)

	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "ranking service stopped")
}

// validate applies the submission acceptance rules.
func validate(sub model.Submission) error {
	if _, err := category.Exact(sub.Mode, sub.Players); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	if sub.Score < 0 {
		return fmt.Errorf("%w: negative score %d", ErrInvalidSubmission, sub.Score)
	}
	if strings.TrimSpace(sub.TeamName) == "" {
		return fmt.Errorf("%w: empty display name", ErrInvalidSubmission)
	}
	if sub.Version == "" {
		return fmt.Errorf("%w: empty version", ErrInvalidSubmission)
	}
	return nil
}

// Ingest runs the full submission pipeline: validation, duplicate
// rejection, insertion, rank resolution and cumulative total recompute.
// A duplicate returns a *DuplicateError carrying the existing record id.
func (s *Service) Ingest(ctx context.Context, sub model.Submission) (types.SubmitResult, error) {
	if err := validate(sub); err != nil {
		metrics.RecordSubmissionRejected()
		return types.SubmitResult{}, err
	}
	if _, err := s.store.Account(ctx, sub.UploaderID); err != nil {
		metrics.RecordSubmissionRejected()
		return types.SubmitResult{}, fmt.Errorf("%w: uploader %d: %v", ErrInvalidSubmission, sub.UploaderID, err)
	}

	if sub.Mode.TimeBased() && sub.Score == 0 {
		sub.Score = timeModeCapScore
	}

	key := dedupe.KeyOf(sub)
	existing, dup, err := s.checker.IsDuplicate(ctx, key)
	if err != nil {
		return types.SubmitResult{}, err
	}
	if dup {
		metrics.RecordSubmissionDuplicate()
		return types.SubmitResult{}, &DuplicateError{ExistingID: existing}
	}

	replay := model.Replay{
		Seed:         sub.Seed,
		Version:      sub.Version,
		Mode:         sub.Mode,
		Players:      sub.Players,
		Score:        sub.Score,
		ToolAssisted: sub.ToolAssisted,
		TeamName:     sub.TeamName,
		Comment:      sub.Comment,
		UploaderID:   sub.UploaderID,
	}
	if err := s.store.InsertReplay(ctx, &replay); err != nil {
		// A concurrent submission of the same identity may win the race
		// between the duplicate check and the insert; the store's unique
		// identity constraint turns the loss into a conflict.
		if errors.Is(err, repository.ErrConflict) {
			metrics.RecordSubmissionDuplicate()
			existing, _, derr := s.checker.IsDuplicate(ctx, key)
			if derr != nil {
				return types.SubmitResult{}, derr
			}
			return types.SubmitResult{}, &DuplicateError{ExistingID: existing}
		}
		return types.SubmitResult{}, err
	}
	metrics.RecordSubmissionAccepted()

	cat, _ := category.Exact(replay.Mode, replay.Players)
	position, err := s.replayRank(ctx, cat, replay.ID)
	if err != nil {
		return types.SubmitResult{}, err
	}

	total := s.recomputeTotal(ctx, replay.UploaderID)

	s.logger.Info(ctx, "submission accepted",
		logger.Int64("replay", replay.ID),
		logger.String("category", cat.String()),
		logger.Int("rank", position),
	)

	return types.SubmitResult{ID: replay.ID, Rank: position, Total: total}, nil
}

// recomputeTotal rebuilds and persists the uploader's cumulative score.
// Recompute failure after a successful insert is logged and swallowed:
// the record is on the boards, the cached total catches up on the next
// accepted submission.
func (s *Service) recomputeTotal(ctx context.Context, accountID int64) int64 {
	start := time.Now()
	total, err := s.totaler.Total(ctx, accountID)
	if err == nil {
		err = s.store.UpdateTotalScore(ctx, accountID, total)
	}
	if err != nil {
		metrics.RecordTotalRecomputeError()
		s.logger.Warn(ctx, "total recompute failed, keeping cached total",
			logger.Int64("account", accountID),
			logger.Error(err),
		)
		return 0
	}
	metrics.RecordTotalRecompute()
	metrics.RecordRecomputeLatency(float64(time.Since(start).Milliseconds()))
	return total
}

func (s *Service) replayRank(ctx context.Context, cat category.Category, replayID int64) (int, error) {
	start := time.Now()
	position, err := s.resolver.ReplayRank(ctx, cat, replayID)
	if err != nil {
		return 0, err
	}
	metrics.RecordRankLatency(float64(time.Since(start).Milliseconds()))
	return position, nil
}

// entryOf builds the scoreboard row view of a replay. Uploader names are
// resolved through the cache map so one page does one lookup per player.
func (s *Service) entryOf(ctx context.Context, r model.Replay, position int, names map[int64]string) (types.ReplayEntry, error) {
	name, ok := names[r.UploaderID]
	if !ok {
		account, err := s.store.Account(ctx, r.UploaderID)
		if err != nil {
			return types.ReplayEntry{}, err
		}
		name = account.Name
		names[r.UploaderID] = name
	}
	count, err := s.store.CommentCountByReplay(ctx, r.ID)
	if err != nil {
		return types.ReplayEntry{}, err
	}
	return types.ReplayEntry{
		Rank:         position,
		ID:           r.ID,
		PlayerName:   name,
		PlayerID:     r.UploaderID,
		Mode:         r.Mode.Tag(),
		Players:      r.Players,
		Score:        r.Score,
		ScoreDisplay: category.FormatScore(r.Mode, r.Score),
		ToolAssisted: r.ToolAssisted,
		TeamName:     r.TeamName,
		Version:      r.Version,
		Created:      r.Created,
		Downloads:    r.Downloads,
		CommentCount: count,
	}, nil
}

func linksOf(links []paging.Link) []types.PageLink {
	out := make([]types.PageLink, len(links))
	for i, l := range links {
		out[i] = types.PageLink{Page: l.Page, Label: l.Label, Ellipsis: l.Ellipsis, Current: l.Current}
	}
	return out
}

// Scoreboard returns one page of the category identified by the compact
// index selector, under the given presentation order. Out-of-range pages
// clamp to the nearest valid page.
func (s *Service) Scoreboard(ctx context.Context, index, order, page int) (types.ScoreboardPage, error) {
	cat, err := category.FromIndex(index)
	if err != nil {
		return types.ScoreboardPage{}, err
	}
	o := category.ParseOrder(order)

	total, err := s.store.Count(ctx, cat)
	if err != nil {
		return types.ScoreboardPage{}, err
	}
	w := paging.Clamp(total, s.replaysPerPage, page)
	rows, err := s.store.OrderedWindow(ctx, cat, o, w.Offset, w.Length)
	if err != nil {
		return types.ScoreboardPage{}, err
	}

	names := make(map[int64]string)
	entries := make([]types.ReplayEntry, 0, len(rows))
	for i, r := range rows {
		entry, err := s.entryOf(ctx, r, w.Offset+i+1, names)
		if err != nil {
			return types.ScoreboardPage{}, err
		}
		entries = append(entries, entry)
	}

	pageCount := paging.PageCount(total, s.replaysPerPage)
	out := types.ScoreboardPage{
		AllModes:  cat.AllModes,
		Players:   cat.Players,
		Order:     int(o),
		Total:     total,
		Page:      w.Page,
		PageCount: pageCount,
		Links:     linksOf(paging.PageLinks(pageCount, w.Page, false)),
		Entries:   entries,
	}
	if !cat.AllModes {
		out.Mode = cat.Mode.Tag()
	}
	return out, nil
}

// commentEntries builds the view rows of a thread window. Positions are
// oldest-first thread ranks starting at the window offset.
func (s *Service) commentEntries(ctx context.Context, comments []model.Comment, offset int, names map[int64]string) ([]types.CommentEntry, error) {
	entries := make([]types.CommentEntry, 0, len(comments))
	for i, c := range comments {
		name, ok := names[c.AuthorID]
		if !ok {
			account, err := s.store.Account(ctx, c.AuthorID)
			if err != nil {
				return nil, err
			}
			name = account.Name
			names[c.AuthorID] = name
		}
		entries = append(entries, types.CommentEntry{
			Rank:       offset + i + 1,
			ID:         c.ID,
			AuthorID:   c.AuthorID,
			AuthorName: name,
			ReplayID:   c.ReplayID,
			Created:    c.Created,
			Text:       c.Text,
		})
	}
	return entries, nil
}

// commentPage returns one tail-window page of a replay's thread: page 0
// holds the newest comments, higher pages reach back, and the first page
// of the thread may run short. The link strip is reversed to match.
func (s *Service) commentPage(ctx context.Context, replayID int64, page int) (types.CommentPage, error) {
	total, err := s.store.CommentCountByReplay(ctx, replayID)
	if err != nil {
		return types.CommentPage{}, err
	}
	w := paging.ClampTail(total, s.commentsPerPage, page)
	comments, err := s.store.CommentsByReplay(ctx, replayID, w.Offset, w.Length)
	if err != nil {
		return types.CommentPage{}, err
	}
	names := make(map[int64]string)
	entries, err := s.commentEntries(ctx, comments, w.Offset, names)
	if err != nil {
		return types.CommentPage{}, err
	}
	pageCount := paging.PageCount(total, s.commentsPerPage)
	return types.CommentPage{
		Total:     total,
		Page:      w.Page,
		PageCount: pageCount,
		Links:     linksOf(paging.PageLinks(pageCount, w.Page, true)),
		Entries:   entries,
	}, nil
}

// ReplayDetail returns the full view of one record, with the requested
// page of its comment thread.
func (s *Service) ReplayDetail(ctx context.Context, id int64, commentPage int) (types.ReplayDetail, error) {
	replay, err := s.store.Replay(ctx, id)
	if err != nil {
		return types.ReplayDetail{}, err
	}
	cat, err := category.Exact(replay.Mode, replay.Players)
	if err != nil {
		return types.ReplayDetail{}, err
	}
	position, err := s.replayRank(ctx, cat, replay.ID)
	if err != nil {
		return types.ReplayDetail{}, err
	}
	names := make(map[int64]string)
	entry, err := s.entryOf(ctx, replay, position, names)
	if err != nil {
		return types.ReplayDetail{}, err
	}
	comments, err := s.commentPage(ctx, id, commentPage)
	if err != nil {
		return types.ReplayDetail{}, err
	}
	return types.ReplayDetail{
		Entry:    entry,
		Seed:     replay.Seed,
		Comment:  replay.Comment,
		Comments: comments,
	}, nil
}

// CommentPageOf computes which tail-window page of the thread shows the
// comment, so a link can jump straight to it.
func (s *Service) CommentPageOf(ctx context.Context, replayID, commentID int64) (int, error) {
	position, err := s.resolver.CommentRank(ctx, replayID, commentID)
	if err != nil {
		return 0, err
	}
	total, err := s.store.CommentCountByReplay(ctx, replayID)
	if err != nil {
		return 0, err
	}
	// Tail windows are anchored at the thread's end: page 0 holds the
	// newest comments, so the page follows from distance to the end.
	return (total - position) / s.commentsPerPage, nil
}

// RandomReplayID returns the id of an arbitrary stored record.
func (s *Service) RandomReplayID(ctx context.Context) (int64, error) {
	replay, err := s.store.RandomReplay(ctx)
	if err != nil {
		return 0, err
	}
	return replay.ID, nil
}

// PlayerList returns one page of the player listing, ranked by cumulative
// score or ordered by name.
func (s *Service) PlayerList(ctx context.Context, byName bool, page int) (types.PlayerListPage, error) {
	total, err := s.store.AccountCount(ctx)
	if err != nil {
		return types.PlayerListPage{}, err
	}
	w := paging.Clamp(total, s.playersPerPage, page)
	var accounts []model.Account
	if byName {
		accounts, err = s.store.AccountsByName(ctx, w.Offset, w.Length)
	} else {
		accounts, err = s.store.AccountsByScore(ctx, w.Offset, w.Length)
	}
	if err != nil {
		return types.PlayerListPage{}, err
	}
	entries := make([]types.PlayerEntry, len(accounts))
	for i, a := range accounts {
		entries[i] = types.PlayerEntry{
			ID:         a.ID,
			Name:       a.Name,
			TotalScore: a.TotalScore,
			Registered: a.Registered,
		}
		if !byName {
			entries[i].Rank = w.Offset + i + 1
		}
	}
	pageCount := paging.PageCount(total, s.playersPerPage)
	return types.PlayerListPage{
		ByName:    byName,
		Total:     total,
		Page:      w.Page,
		PageCount: pageCount,
		Links:     linksOf(paging.PageLinks(pageCount, w.Page, false)),
		Entries:   entries,
	}, nil
}

// Register creates a new account. Names are unique; a clash surfaces the
// store's conflict error.
func (s *Service) Register(ctx context.Context, name string) (model.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Account{}, fmt.Errorf("%w: empty name", ErrInvalidSubmission)
	}
	account := model.Account{Name: name}
	if err := s.store.InsertAccount(ctx, &account); err != nil {
		return model.Account{}, err
	}
	return account, nil
}

// Profile returns the full view of an account: cumulative rank, per-cell
// personal bests and one page of its uploads, newest first.
func (s *Service) Profile(ctx context.Context, accountID int64, page int) (types.Profile, error) {
	account, err := s.store.Account(ctx, accountID)
	if err != nil {
		return types.Profile{}, err
	}

	position, err := s.resolver.AccountRank(ctx, accountID)
	if err != nil {
		if !errors.Is(err, rank.ErrNotFound) {
			return types.Profile{}, err
		}
		position = 0
	}

	var bests []types.CellBest
	for _, m := range category.PointModes() {
		for players := category.MinPlayers; players <= category.MaxPlayers; players++ {
			best, ok, err := s.store.BestScore(ctx, accountID, m, players)
			if err != nil {
				return types.Profile{}, err
			}
			if !ok {
				continue
			}
			bests = append(bests, types.CellBest{
				Mode:         m.Tag(),
				Players:      players,
				Score:        best,
				ScoreDisplay: category.FormatScore(m, best),
			})
		}
	}

	uploads, err := s.store.ReplayCountByAccount(ctx, accountID)
	if err != nil {
		return types.Profile{}, err
	}
	w := paging.Clamp(uploads, s.replaysPerPage, page)
	replays, err := s.store.ReplaysByAccount(ctx, accountID, w.Offset, w.Length)
	if err != nil {
		return types.Profile{}, err
	}
	names := map[int64]string{accountID: account.Name}
	entries := make([]types.ReplayEntry, 0, len(replays))
	for _, r := range replays {
		cat, err := category.Exact(r.Mode, r.Players)
		if err != nil {
			return types.Profile{}, err
		}
		cell, err := s.replayRank(ctx, cat, r.ID)
		if err != nil {
			return types.Profile{}, err
		}
		entry, err := s.entryOf(ctx, r, cell, names)
		if err != nil {
			return types.Profile{}, err
		}
		entries = append(entries, entry)
	}
	pageCount := paging.PageCount(uploads, s.replaysPerPage)

	return types.Profile{
		ID:         account.ID,
		Name:       account.Name,
		About:      account.About,
		Registered: account.Registered,
		TotalScore: account.TotalScore,
		Rank:       position,
		Bests:      bests,
		Uploads:    uploads,
		Replays:    entries,
		Page:       w.Page,
		PageCount:  pageCount,
		Links:      linksOf(paging.PageLinks(pageCount, w.Page, false)),
	}, nil
}

// ProfileComments returns one page of an account's comment history,
// newest first. Each entry carries its thread rank for jump links.
func (s *Service) ProfileComments(ctx context.Context, accountID int64, page int) (types.ProfileComments, error) {
	account, err := s.store.Account(ctx, accountID)
	if err != nil {
		return types.ProfileComments{}, err
	}
	total, err := s.store.CommentCountByAccount(ctx, accountID)
	if err != nil {
		return types.ProfileComments{}, err
	}
	w := paging.Clamp(total, s.commentsPerPage, page)
	comments, err := s.store.CommentsByAccount(ctx, accountID, w.Offset, w.Length)
	if err != nil {
		return types.ProfileComments{}, err
	}
	entries := make([]types.CommentEntry, 0, len(comments))
	for _, c := range comments {
		position, err := s.resolver.CommentRank(ctx, c.ReplayID, c.ID)
		if err != nil {
			return types.ProfileComments{}, err
		}
		entries = append(entries, types.CommentEntry{
			Rank:       position,
			ID:         c.ID,
			AuthorID:   c.AuthorID,
			AuthorName: account.Name,
			ReplayID:   c.ReplayID,
			Created:    c.Created,
			Text:       c.Text,
		})
	}
	pageCount := paging.PageCount(total, s.commentsPerPage)
	return types.ProfileComments{
		AccountID: accountID,
		Total:     total,
		Page:      w.Page,
		PageCount: pageCount,
		Links:     linksOf(paging.PageLinks(pageCount, w.Page, false)),
		Entries:   entries,
	}, nil
}

// UpdateAbout replaces an account's profile blurb.
func (s *Service) UpdateAbout(ctx context.Context, accountID int64, about string) error {
	return s.store.UpdateAbout(ctx, accountID, about)
}

// AddComment appends a comment to a replay's thread and returns its view
// with the assigned thread rank.
func (s *Service) AddComment(ctx context.Context, authorID, replayID int64, text string) (types.CommentEntry, error) {
	if len(strings.TrimSpace(text)) < minCommentLength {
		return types.CommentEntry{}, ErrInvalidComment
	}
	author, err := s.store.Account(ctx, authorID)
	if err != nil {
		return types.CommentEntry{}, err
	}
	if _, err := s.store.Replay(ctx, replayID); err != nil {
		return types.CommentEntry{}, err
	}
	comment := model.Comment{AuthorID: authorID, ReplayID: replayID, Text: text}
	if err := s.store.InsertComment(ctx, &comment); err != nil {
		return types.CommentEntry{}, err
	}
	metrics.RecordCommentPosted()
	position, err := s.resolver.CommentRank(ctx, replayID, comment.ID)
	if err != nil {
		return types.CommentEntry{}, err
	}
	return types.CommentEntry{
		Rank:       position,
		ID:         comment.ID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		ReplayID:   replayID,
		Created:    comment.Created,
		Text:       comment.Text,
	}, nil
}

// EditComment replaces a comment's text. Author only.
func (s *Service) EditComment(ctx context.Context, authorID, commentID int64, text string) error {
	if len(strings.TrimSpace(text)) < minCommentLength {
		return ErrInvalidComment
	}
	comment, err := s.store.Comment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != authorID {
		return fmt.Errorf("%w: comment %d belongs to account %d", ErrPermission, commentID, comment.AuthorID)
	}
	return s.store.UpdateCommentText(ctx, commentID, text)
}

// EditReplayComment replaces the uploader's free text on a record.
// Uploader only; an empty text clears it.
func (s *Service) EditReplayComment(ctx context.Context, uploaderID, replayID int64, text string) error {
	replay, err := s.store.Replay(ctx, replayID)
	if err != nil {
		return err
	}
	if replay.UploaderID != uploaderID {
		return fmt.Errorf("%w: replay %d belongs to account %d", ErrPermission, replayID, replay.UploaderID)
	}
	return s.store.UpdateReplayComment(ctx, replayID, text)
}

// Download bumps the retrieval counter and returns the served record's
// identifying fields.
func (s *Service) Download(ctx context.Context, id int64) (types.Download, error) {
	replay, err := s.store.Replay(ctx, id)
	if err != nil {
		return types.Download{}, err
	}
	count, err := s.store.IncrementDownloads(ctx, id)
	if err != nil {
		return types.Download{}, err
	}
	metrics.RecordDownloadServed()
	return types.Download{
		ID:        replay.ID,
		Seed:      replay.Seed,
		Mode:      replay.Mode.Tag(),
		Players:   replay.Players,
		Version:   replay.Version,
		Downloads: count,
	}, nil
}

// UnlockedModes reports, per mode tag, whether any record exists for it.
// The site hides a mode's board until its first clear arrives.
func (s *Service) UnlockedModes(ctx context.Context) (map[string]bool, error) {
	out := make(map[string]bool, 5)
	for _, m := range append(category.PointModes(), category.ModeBoss) {
		unlocked, err := s.store.ModeUnlocked(ctx, m)
		if err != nil {
			return nil, err
		}
		out[m.Tag()] = unlocked
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"playersPerPage":  s.playersPerPage,
		"replaysPerPage":  s.replaysPerPage,
		"commentsPerPage": s.commentsPerPage,
	}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	if accounts, err := s.store.AccountCount(ctx); err == nil {
		stats["totalAccounts"] = accounts
		metrics.UpdateTotalAccounts(accounts)
	}
	pointReplays, perr := s.store.Count(ctx, category.Category{AllModes: true})
	timeReplays, terr := s.store.Count(ctx, category.Category{Mode: category.ModeBoss})
	if perr == nil && terr == nil {
		stats["totalReplays"] = pointReplays + timeReplays
		metrics.UpdateTotalReplays(pointReplays + timeReplays)
	}
	if comments, err := s.store.CommentCount(ctx); err == nil {
		stats["totalComments"] = comments
		metrics.UpdateTotalComments(comments)
	}

	return stats
}
