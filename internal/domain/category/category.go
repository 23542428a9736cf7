// Package category defines the fixed taxonomy of leaderboard categories:
// the cross product of game mode and player count, plus their "all"
// aggregates, and the ordering rule each category imposes on its records.
package category

import (
	"fmt"
	"time"
)

// Mode is a closed enumeration of the game modes a replay can carry.
type Mode uint8

const (
	ModeNormal Mode = iota // point-scored, tag "GAME"
	ModeBoss               // time-scored, tag "BOSS"
	ModeHard               // point-scored, tag "HARD"
	ModeFast               // point-scored, tag "FAST"
	ModeSpecial            // point-scored, tag "WHAT"

	modeCount = 5
)

// modeTags are the wire/storage tags in mode-ordinal order.
var modeTags = [modeCount]string{"GAME", "BOSS", "HARD", "FAST", "WHAT"}

// allModesTag selects the aggregate view across every point-scored mode.
const allModesTag = "ALL"

// ParseMode maps a storage tag onto a Mode. Unknown tags are rejected at
// the boundary rather than falling through to a default mode.
func ParseMode(tag string) (Mode, error) {
	for i, t := range modeTags {
		if t == tag {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: mode %q", ErrInvalidCategory, tag)
}

// Tag returns the storage tag for m.
func (m Mode) Tag() string {
	if int(m) < len(modeTags) {
		return modeTags[m]
	}
	return "???"
}

// TimeBased reports whether the mode's score is elapsed time rather than
// points. Time-based scores rank ascending: a faster clear is a better one.
func (m Mode) TimeBased() bool { return m == ModeBoss }

// PointModes returns the modes that contribute to an account's cumulative
// score. The time-based mode is excluded: its scores are not comparable
// with point totals.
func PointModes() []Mode {
	return []Mode{ModeNormal, ModeHard, ModeFast, ModeSpecial}
}

// MinPlayers and MaxPlayers bound the player-count range of a replay.
const (
	MinPlayers = 1
	MaxPlayers = 4
)

// Category identifies one ranked leaderboard list. Players == 0 means
// "all player counts, unfiltered"; AllModes spans every point-scored mode
// and always excludes the time-based one.
type Category struct {
	Mode     Mode
	AllModes bool
	Players  int
}

// Resolve builds a Category from a mode tag and a player selector.
// The player selector accepts 1..4 or 0 for "all counts".
func Resolve(modeTag string, players int) (Category, error) {
	if players < 0 || players > MaxPlayers {
		return Category{}, fmt.Errorf("%w: player selector %d", ErrInvalidCategory, players)
	}
	if modeTag == allModesTag {
		return Category{AllModes: true, Players: players}, nil
	}
	m, err := ParseMode(modeTag)
	if err != nil {
		return Category{}, err
	}
	return Category{Mode: m, Players: players}, nil
}

// Exact builds the single-cell category for one mode and one player count.
func Exact(m Mode, players int) (Category, error) {
	if players < MinPlayers || players > MaxPlayers {
		return Category{}, fmt.Errorf("%w: player count %d", ErrInvalidCategory, players)
	}
	if int(m) >= modeCount {
		return Category{}, fmt.Errorf("%w: mode ordinal %d", ErrInvalidCategory, m)
	}
	return Category{Mode: m, Players: players}, nil
}

// Includes reports whether a record with the given mode and player count
// belongs to the category.
func (c Category) Includes(m Mode, players int) bool {
	if c.AllModes {
		if m.TimeBased() {
			return false
		}
	} else if m != c.Mode {
		return false
	}
	return c.Players == 0 || c.Players == players
}

// TimeBased reports whether the category ranks by elapsed time. The
// aggregate view never does: it excludes the time-based mode.
func (c Category) TimeBased() bool { return !c.AllModes && c.Mode.TimeBased() }

func (c Category) String() string {
	tag := allModesTag
	if !c.AllModes {
		tag = c.Mode.Tag()
	}
	if c.Players == 0 {
		return tag + "/*p"
	}
	return fmt.Sprintf("%s/%dp", tag, c.Players)
}

// Index encodes the category as the compact selector used by scoreboard
// URLs: 5*modeOrdinal + playerComponent, where the aggregate mode takes
// ordinal 5 and the player component maps counts 1..4 to 0..3 and the
// "all counts" selector to 4.
func (c Category) Index() int {
	mo := modeCount
	if !c.AllModes {
		mo = int(c.Mode)
	}
	return 5*mo + (c.Players+4)%5
}

// FromIndex decodes a compact selector. Valid indexes are 0..29.
func FromIndex(idx int) (Category, error) {
	if idx < 0 || idx >= 5*(modeCount+1) {
		return Category{}, fmt.Errorf("%w: category index %d", ErrInvalidCategory, idx)
	}
	mo := idx / 5
	players := (idx%5 + 1) % 5
	if mo == modeCount {
		return Category{AllModes: true, Players: players}, nil
	}
	return Category{Mode: Mode(mo), Players: players}, nil
}

// OrderMode selects a secondary presentation ordering for a category.
type OrderMode uint8

const (
	OrderBestFirst OrderMode = iota
	OrderWorstFirst
	OrderNewestFirst
	OrderOldestFirst
)

// ParseOrder maps the numeric order selector used by list URLs. Out-of-range
// values fall back to best-first, matching the site's behavior.
func ParseOrder(o int) OrderMode {
	switch o {
	case 1:
		return OrderWorstFirst
	case 2:
		return OrderNewestFirst
	case 3:
		return OrderOldestFirst
	default:
		return OrderBestFirst
	}
}

// ScoreAscending reports whether the given order mode sorts the category's
// scores ascending. Best-first resolves to ascending exactly when the
// category is time-based; reversing this indirection silently breaks the
// time-based leaderboard, so every ordering decision goes through it.
func (c Category) ScoreAscending(o OrderMode) bool {
	switch o {
	case OrderWorstFirst:
		return !c.TimeBased()
	default: // OrderBestFirst
		return c.TimeBased()
	}
}

// Row carries the fields a comparator needs: the score, the creation time
// and a monotonic insertion sequence for stable tie-breaking.
type Row struct {
	Score   int64
	Created time.Time
	Seq     int64
}

// Ordering returns the comparator for the category under the given order
// mode. The comparator reports whether a ranks strictly before b; equal
// primary keys fall back to the insertion sequence (later insert first
// under newest-first), so the ordering is total and deterministic.
func (c Category) Ordering(o OrderMode) func(a, b Row) bool {
	switch o {
	case OrderNewestFirst:
		return func(a, b Row) bool {
			if !a.Created.Equal(b.Created) {
				return a.Created.After(b.Created)
			}
			return a.Seq > b.Seq
		}
	case OrderOldestFirst:
		return func(a, b Row) bool {
			if !a.Created.Equal(b.Created) {
				return a.Created.Before(b.Created)
			}
			return a.Seq < b.Seq
		}
	}
	asc := c.ScoreAscending(o)
	return func(a, b Row) bool {
		if a.Score != b.Score {
			if asc {
				return a.Score < b.Score
			}
			return a.Score > b.Score
		}
		return a.Seq < b.Seq
	}
}

// FormatScore renders a score for display: point scores as plain integers,
// time-based scores as MM:SS at 60 ticks per second. Zero and anything at
// or past the 100-minute cap render as the "--:--" placeholder.
func FormatScore(m Mode, score int64) string {
	if !m.TimeBased() {
		return fmt.Sprintf("%d", score)
	}
	if score == 0 {
		return "--:--"
	}
	mins := score / (60 * 60)
	if mins >= 100 {
		return "--:--"
	}
	secs := (score / 60) % 60
	return fmt.Sprintf("%02d:%02d", mins, secs)
}
