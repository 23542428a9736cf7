// Package model contains domain records passed between layers.
package model

import (
	"time"

	"github.com/grandseiken/wiispace-board/internal/domain/category"
)

// Account is a registered player. TotalScore is a materialized,
// eventually-consistent sum of the account's best score per category; it is
// mutated only by the aggregator after a successful ingestion and is never
// recomputed from scratch on reads.
type Account struct {
	ID         int64
	Name       string // unique display name
	About      string // free-text profile blurb
	Registered time.Time
	TotalScore int64
}

// Replay is one uploaded score record. It belongs to exactly one uploader
// and is immutable after creation except for the uploader comment and the
// download counter.
type Replay struct {
	ID           int64
	Seed         int64 // random game-session seed; groups re-uploads, not unique
	Version      string
	Mode         category.Mode
	Players      int
	Score        int64
	ToolAssisted bool
	TeamName     string // display name snapshot chosen at upload time
	Comment      string // uploader's free text, mutable by the uploader only
	Created      time.Time
	Downloads    int64
	UploaderID   int64
}

// Row projects the replay onto the fields category comparators use.
func (r Replay) Row() category.Row {
	return category.Row{Score: r.Score, Created: r.Created, Seq: r.ID}
}

// Comment is a message on a replay's thread. Mutable by its author only.
type Comment struct {
	ID       int64
	AuthorID int64
	ReplayID int64
	Created  time.Time
	Text     string
}

// Submission carries the parsed fields of an uploaded replay. Extracting
// them from the replay file bytes is the uploader collaborator's concern;
// the engine only sees this record.
type Submission struct {
	UploaderID   int64
	Seed         int64
	Version      string
	Mode         category.Mode
	Players      int
	Score        int64
	ToolAssisted bool
	TeamName     string
	Comment      string
}
