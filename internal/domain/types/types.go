// Package types contains the read-side shapes returned to the HTTP API.
package types

import "time"

// PageLink is one entry in a rendered pagination strip. Label is the
// 1-based display number, which runs opposite to Page on reversed strips.
type PageLink struct {
	Page     int  `json:"page"`
	Label    int  `json:"label"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// ReplayEntry is one ranked row of a scoreboard.
type ReplayEntry struct {
	Rank         int       `json:"rank"`
	ID           int64     `json:"id"`
	PlayerName   string    `json:"player_name"`
	PlayerID     int64     `json:"player_id"`
	Mode         string    `json:"mode"`
	Players      int       `json:"players"`
	Score        int64     `json:"score"`
	ScoreDisplay string    `json:"score_display"`
	ToolAssisted bool      `json:"tool_assisted,omitempty"`
	TeamName     string    `json:"team_name,omitempty"`
	Version      string    `json:"version"`
	Created      time.Time `json:"created"`
	Downloads    int64     `json:"downloads"`
	CommentCount int       `json:"comment_count"`
}

// ScoreboardPage is one page of a category's scoreboard.
type ScoreboardPage struct {
	Mode      string        `json:"mode"`
	AllModes  bool          `json:"all_modes,omitempty"`
	Players   int           `json:"players,omitempty"`
	Order     int           `json:"order"`
	Total     int           `json:"total"`
	Page      int           `json:"page"`
	PageCount int           `json:"page_count"`
	Links     []PageLink    `json:"links"`
	Entries   []ReplayEntry `json:"entries"`
}

// CommentEntry is one comment of a replay thread or profile listing.
type CommentEntry struct {
	Rank       int       `json:"rank"`
	ID         int64     `json:"id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	ReplayID   int64     `json:"replay_id"`
	Created    time.Time `json:"created"`
	Text       string    `json:"text"`
}

// CommentPage is one tail-window page of a replay's comment thread.
type CommentPage struct {
	Total     int            `json:"total"`
	Page      int            `json:"page"`
	PageCount int            `json:"page_count"`
	Links     []PageLink     `json:"links"`
	Entries   []CommentEntry `json:"entries"`
}

// ReplayDetail is the full view of one stored record.
type ReplayDetail struct {
	Entry    ReplayEntry `json:"entry"`
	Seed     int64       `json:"seed"`
	Comment  string      `json:"comment,omitempty"`
	Comments CommentPage `json:"comments"`
}

// PlayerEntry is one row of the player listing.
type PlayerEntry struct {
	Rank       int       `json:"rank,omitempty"`
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	TotalScore int64     `json:"total_score"`
	Registered time.Time `json:"registered"`
}

// PlayerListPage is one page of the player listing.
type PlayerListPage struct {
	ByName    bool          `json:"by_name,omitempty"`
	Total     int           `json:"total"`
	Page      int           `json:"page"`
	PageCount int           `json:"page_count"`
	Links     []PageLink    `json:"links"`
	Entries   []PlayerEntry `json:"entries"`
}

// CellBest is an account's personal best in one exact category cell.
type CellBest struct {
	Mode         string `json:"mode"`
	Players      int    `json:"players"`
	Score        int64  `json:"score"`
	ScoreDisplay string `json:"score_display"`
}

// Profile is the full view of one account.
type Profile struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	About      string        `json:"about,omitempty"`
	Registered time.Time     `json:"registered"`
	TotalScore int64         `json:"total_score"`
	Rank       int           `json:"rank"`
	Bests      []CellBest    `json:"bests"`
	Uploads    int           `json:"uploads"`
	Replays    []ReplayEntry `json:"replays"`
	PageCount  int           `json:"page_count"`
	Page       int           `json:"page"`
	Links      []PageLink    `json:"links"`
}

// ProfileComments is one page of an account's comment history.
type ProfileComments struct {
	AccountID int64          `json:"account_id"`
	Total     int            `json:"total"`
	Page      int            `json:"page"`
	PageCount int            `json:"page_count"`
	Links     []PageLink     `json:"links"`
	Entries   []CommentEntry `json:"entries"`
}

// SubmitResult reports the outcome of an accepted replay submission.
type SubmitResult struct {
	ID    int64 `json:"id"`
	Rank  int   `json:"rank"`
	Total int64 `json:"total_score"`
}

// Download is a served replay retrieval.
type Download struct {
	ID        int64  `json:"id"`
	Seed      int64  `json:"seed"`
	Mode      string `json:"mode"`
	Players   int    `json:"players"`
	Version   string `json:"version"`
	Downloads int64  `json:"downloads"`
}
