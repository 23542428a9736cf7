package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/grandseiken/wiispace-board/internal/domain/category"
	"github.com/grandseiken/wiispace-board/internal/domain/model"
)

func mustInsertAccount(t *testing.T, s Store, name string) model.Account {
	t.Helper()
	a := model.Account{Name: name}
	if err := s.InsertAccount(context.Background(), &a); err != nil {
		t.Fatalf("insert account %q: %v", name, err)
	}
	return a
}

func mustInsertReplay(t *testing.T, s Store, r model.Replay) model.Replay {
	t.Helper()
	if err := s.InsertReplay(context.Background(), &r); err != nil {
		t.Fatalf("insert replay seed=%d score=%d: %v", r.Seed, r.Score, err)
	}
	return r
}

func TestMemStore_Accounts(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	if _, err := store.Account(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	alice := mustInsertAccount(t, store, "alice")
	bob := mustInsertAccount(t, store, "bob")
	if alice.ID == bob.ID {
		t.Fatalf("expected distinct ids, both %d", alice.ID)
	}

	got, err := store.Account(ctx, alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "alice" {
		t.Errorf("expected name alice, got %q", got.Name)
	}
	if got.Registered.IsZero() {
		t.Error("expected registration time to be set")
	}

	n, err := store.AccountCount(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 accounts, got %d", n)
	}

	if err := store.UpdateAbout(ctx, alice.ID, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = store.Account(ctx, alice.ID)
	if got.About != "hello" {
		t.Errorf("expected about to update, got %q", got.About)
	}

	if err := store.UpdateAbout(ctx, 999, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing account, got %v", err)
	}
}

func TestMemStore_AccountOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	carol := mustInsertAccount(t, store, "carol")
	alice := mustInsertAccount(t, store, "alice")
	bob := mustInsertAccount(t, store, "bob")

	for id, total := range map[int64]int64{carol.ID: 100, alice.ID: 300, bob.ID: 200} {
		if err := store.UpdateTotalScore(ctx, id, total); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	byScore, err := store.AccountsByScore(ctx, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantScore := []int64{alice.ID, bob.ID, carol.ID}
	for i, want := range wantScore {
		if byScore[i].ID != want {
			t.Errorf("score order[%d]: expected id %d, got %d", i, want, byScore[i].ID)
		}
	}

	byName, err := store.AccountsByName(ctx, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNames := []string{"alice", "bob", "carol"}
	for i, want := range wantNames {
		if byName[i].Name != want {
			t.Errorf("name order[%d]: expected %q, got %q", i, want, byName[i].Name)
		}
	}

	ranking, err := store.AccountRanking(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range wantScore {
		if ranking[i] != want {
			t.Errorf("ranking[%d]: expected id %d, got %d", i, want, ranking[i])
		}
	}

	window, err := store.AccountsByScore(ctx, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(window) != 1 || window[0].ID != bob.ID {
		t.Errorf("expected window [bob], got %v", window)
	}
}

func TestMemStore_InsertReplayConflict(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	uploader := mustInsertAccount(t, store, "alice")

	first := mustInsertReplay(t, store, model.Replay{
		Seed: 42, Version: "1.3", Mode: category.ModeNormal,
		Players: 2, Score: 1000, UploaderID: uploader.ID,
	})
	if first.ID == 0 {
		t.Fatal("expected id to be assigned")
	}
	if first.Created.IsZero() {
		t.Error("expected creation time to be set")
	}

	// Same five identity fields again.
	dup := model.Replay{
		Seed: 42, Version: "1.3", Mode: category.ModeNormal,
		Players: 2, Score: 1000, UploaderID: uploader.ID,
	}
	if err := store.InsertReplay(ctx, &dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Any single differing identity field is a fresh record.
	variants := []model.Replay{
		{Seed: 43, Version: "1.3", Mode: category.ModeNormal, Players: 2, Score: 1000},
		{Seed: 42, Version: "1.4", Mode: category.ModeNormal, Players: 2, Score: 1000},
		{Seed: 42, Version: "1.3", Mode: category.ModeHard, Players: 2, Score: 1000},
		{Seed: 42, Version: "1.3", Mode: category.ModeNormal, Players: 3, Score: 1000},
		{Seed: 42, Version: "1.3", Mode: category.ModeNormal, Players: 2, Score: 1001},
	}
	for i := range variants {
		variants[i].UploaderID = uploader.ID
		if err := store.InsertReplay(ctx, &variants[i]); err != nil {
			t.Errorf("variant %d: unexpected error: %v", i, err)
		}
	}

	byKey, err := store.RecordsByKey(ctx, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byKey) != 5 {
		t.Errorf("expected 5 records with seed 42, got %d", len(byKey))
	}
}

func TestMemStore_OrderedWindow(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	uploader := mustInsertAccount(t, store, "alice")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	scores := []int64{500, 100, 900, 300, 700}
	var ids []int64
	for i, score := range scores {
		r := mustInsertReplay(t, store, model.Replay{
			Seed: int64(i), Version: "1.3", Mode: category.ModeNormal,
			Players: 1, Score: score, Created: base.Add(time.Duration(i) * time.Minute),
			UploaderID: uploader.ID,
		})
		ids = append(ids, r.ID)
	}
	// A record from another cell must never leak into the window.
	mustInsertReplay(t, store, model.Replay{
		Seed: 99, Version: "1.3", Mode: category.ModeNormal,
		Players: 2, Score: 9999, UploaderID: uploader.ID,
	})

	cat, err := category.Exact(category.ModeNormal, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n, err := store.Count(ctx, cat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected count 5, got %d", n)
	}

	best, err := store.OrderedWindow(ctx, cat, category.OrderBestFirst, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantBest := []int64{900, 700, 500, 300, 100}
	for i, want := range wantBest {
		if best[i].Score != want {
			t.Errorf("best order[%d]: expected score %d, got %d", i, want, best[i].Score)
		}
	}

	worst, err := store.OrderedWindow(ctx, cat, category.OrderWorstFirst, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if worst[0].Score != 100 {
		t.Errorf("expected worst-first to lead with 100, got %d", worst[0].Score)
	}

	newest, err := store.OrderedWindow(ctx, cat, category.OrderNewestFirst, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(newest) != 2 || newest[0].ID != ids[4] || newest[1].ID != ids[3] {
		t.Errorf("unexpected newest-first window: %v", newest)
	}

	snapshot, err := store.CategorySnapshot(ctx, cat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantIDs := []int64{ids[2], ids[4], ids[0], ids[3], ids[1]}
	for i, want := range wantIDs {
		if snapshot[i] != want {
			t.Errorf("snapshot[%d]: expected id %d, got %d", i, want, snapshot[i])
		}
	}

	page, err := store.OrderedWindow(ctx, cat, category.OrderBestFirst, 3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 2 || page[0].Score != 300 || page[1].Score != 100 {
		t.Errorf("unexpected trailing window: %v", page)
	}
}

func TestMemStore_TimeScoredOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	uploader := mustInsertAccount(t, store, "alice")

	for i, score := range []int64{5400, 1800, 3600} {
		mustInsertReplay(t, store, model.Replay{
			Seed: int64(i), Version: "1.3", Mode: category.ModeBoss,
			Players: 1, Score: score, UploaderID: uploader.ID,
		})
	}

	cat, err := category.Exact(category.ModeBoss, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	best, err := store.OrderedWindow(ctx, cat, category.OrderBestFirst, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{1800, 3600, 5400}
	for i, w := range want {
		if best[i].Score != w {
			t.Errorf("time-scored order[%d]: expected %d, got %d", i, w, best[i].Score)
		}
	}
}

func TestMemStore_AggregateCategory(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	uploader := mustInsertAccount(t, store, "alice")

	mustInsertReplay(t, store, model.Replay{Seed: 1, Mode: category.ModeNormal, Players: 1, Score: 100, UploaderID: uploader.ID})
	mustInsertReplay(t, store, model.Replay{Seed: 2, Mode: category.ModeFast, Players: 3, Score: 200, UploaderID: uploader.ID})
	mustInsertReplay(t, store, model.Replay{Seed: 3, Mode: category.ModeBoss, Players: 1, Score: 300, UploaderID: uploader.ID})

	all := category.Category{AllModes: true}
	n, err := store.Count(ctx, all)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected aggregate count 2 (time-scored excluded), got %d", n)
	}

	unlocked, err := store.ModeUnlocked(ctx, category.ModeBoss)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !unlocked {
		t.Error("expected boss mode to be unlocked")
	}
	unlocked, err = store.ModeUnlocked(ctx, category.ModeHard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unlocked {
		t.Error("expected hard mode to remain locked")
	}
}

func TestMemStore_BestScore(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	alice := mustInsertAccount(t, store, "alice")
	bob := mustInsertAccount(t, store, "bob")

	mustInsertReplay(t, store, model.Replay{Seed: 1, Mode: category.ModeNormal, Players: 1, Score: 100, UploaderID: alice.ID})
	mustInsertReplay(t, store, model.Replay{Seed: 2, Mode: category.ModeNormal, Players: 1, Score: 300, UploaderID: alice.ID})
	mustInsertReplay(t, store, model.Replay{Seed: 3, Mode: category.ModeNormal, Players: 1, Score: 500, UploaderID: bob.ID})
	mustInsertReplay(t, store, model.Replay{Seed: 4, Mode: category.ModeBoss, Players: 1, Score: 1800, UploaderID: alice.ID})
	mustInsertReplay(t, store, model.Replay{Seed: 5, Mode: category.ModeBoss, Players: 1, Score: 3600, UploaderID: alice.ID})

	best, ok, err := store.BestScore(ctx, alice.ID, category.ModeNormal, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || best != 300 {
		t.Errorf("expected best 300, got %d ok=%v", best, ok)
	}

	// Time-scored cells pick the lowest score as the best.
	best, ok, err = store.BestScore(ctx, alice.ID, category.ModeBoss, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || best != 1800 {
		t.Errorf("expected best 1800, got %d ok=%v", best, ok)
	}

	_, ok, err = store.BestScore(ctx, alice.ID, category.ModeHard, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no best in an empty cell")
	}
}

func TestMemStore_ReplayUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	uploader := mustInsertAccount(t, store, "alice")
	r := mustInsertReplay(t, store, model.Replay{Seed: 1, Mode: category.ModeNormal, Players: 1, Score: 100, UploaderID: uploader.ID})

	if err := store.UpdateReplayComment(ctx, r.ID, "my best run"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := store.Replay(ctx, r.ID)
	if got.Comment != "my best run" {
		t.Errorf("expected comment to update, got %q", got.Comment)
	}

	for want := int64(1); want <= 3; want++ {
		n, err := store.IncrementDownloads(ctx, r.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != want {
			t.Errorf("expected downloads %d, got %d", want, n)
		}
	}

	if _, err := store.IncrementDownloads(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemStore_RandomReplay(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(WithRandSeed(1))

	if _, err := store.RandomReplay(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	uploader := mustInsertAccount(t, store, "alice")
	ids := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		r := mustInsertReplay(t, store, model.Replay{Seed: int64(i), Mode: category.ModeNormal, Players: 1, Score: int64(i), UploaderID: uploader.ID})
		ids[r.ID] = true
	}

	for i := 0; i < 20; i++ {
		r, err := store.RandomReplay(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ids[r.ID] {
			t.Fatalf("random pick returned unknown id %d", r.ID)
		}
	}
}

func TestMemStore_ReplaysByAccount(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	alice := mustInsertAccount(t, store, "alice")
	bob := mustInsertAccount(t, store, "bob")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var aliceIDs []int64
	for i := 0; i < 3; i++ {
		r := mustInsertReplay(t, store, model.Replay{
			Seed: int64(i), Mode: category.ModeNormal, Players: 1, Score: int64(i),
			Created: base.Add(time.Duration(i) * time.Hour), UploaderID: alice.ID,
		})
		aliceIDs = append(aliceIDs, r.ID)
	}
	mustInsertReplay(t, store, model.Replay{Seed: 10, Mode: category.ModeNormal, Players: 1, Score: 10, UploaderID: bob.ID})

	n, err := store.ReplayCountByAccount(ctx, alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 uploads, got %d", n)
	}

	rows, err := store.ReplaysByAccount(ctx, alice.ID, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{aliceIDs[2], aliceIDs[1], aliceIDs[0]}
	for i, w := range want {
		if rows[i].ID != w {
			t.Errorf("uploads[%d]: expected id %d, got %d", i, w, rows[i].ID)
		}
	}
}

func TestMemStore_Comments(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	alice := mustInsertAccount(t, store, "alice")
	bob := mustInsertAccount(t, store, "bob")
	r := mustInsertReplay(t, store, model.Replay{Seed: 1, Mode: category.ModeNormal, Players: 1, Score: 100, UploaderID: alice.ID})

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []int64
	for i := 0; i < 4; i++ {
		author := alice.ID
		if i%2 == 1 {
			author = bob.ID
		}
		c := model.Comment{
			AuthorID: author, ReplayID: r.ID,
			Created: base.Add(time.Duration(i) * time.Minute),
			Text:    "gg",
		}
		if err := store.InsertComment(ctx, &c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, c.ID)
	}

	n, err := store.CommentCountByReplay(ctx, r.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 comments, got %d", n)
	}
	n, err = store.CommentCount(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 comments overall, got %d", n)
	}

	thread, err := store.CommentsByReplay(ctx, r.ID, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range ids {
		if thread[i].ID != want {
			t.Errorf("thread[%d]: expected id %d, got %d", i, want, thread[i].ID)
		}
	}

	snapshot, err := store.CommentThreadSnapshot(ctx, r.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range ids {
		if snapshot[i] != want {
			t.Errorf("snapshot[%d]: expected id %d, got %d", i, want, snapshot[i])
		}
	}

	byBob, err := store.CommentsByAccount(ctx, bob.ID, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byBob) != 2 || byBob[0].ID != ids[3] || byBob[1].ID != ids[1] {
		t.Errorf("unexpected account comments: %v", byBob)
	}
	n, err = store.CommentCountByAccount(ctx, bob.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 comments by bob, got %d", n)
	}

	if err := store.UpdateCommentText(ctx, ids[0], "edited"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err := store.Comment(ctx, ids[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Text != "edited" {
		t.Errorf("expected edited text, got %q", c.Text)
	}

	if err := store.UpdateCommentText(ctx, 999, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
