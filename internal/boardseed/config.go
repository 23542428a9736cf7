package boardseed

import "time"

// Config holds configuration for the board seeding run.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumPlayers  int           // Number of accounts to register
	NumReplays  int           // Number of submissions to generate
	DupePercent int           // Percentage of submissions re-sent as duplicates
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	Verbose     bool          // Enable verbose logging
}

// submission mirrors the wire shape of POST /replays.
type submission struct {
	UploaderID   int64  `json:"uploader_id"`
	Seed         int64  `json:"seed"`
	Version      string `json:"version"`
	Mode         string `json:"mode"`
	Players      int    `json:"players"`
	Score        int64  `json:"score"`
	ToolAssisted bool   `json:"tool_assisted"`
	TeamName     string `json:"team_name"`
	Comment      string `json:"comment"`
}

// submitResult mirrors the response of POST /replays.
type submitResult struct {
	ID    int64 `json:"id"`
	Rank  int   `json:"rank"`
	Total int64 `json:"total_score"`
}

// boardPage mirrors the subset of GET /boards/{index} the verifier reads.
type boardPage struct {
	Total   int `json:"total"`
	Entries []struct {
		Rank  int   `json:"rank"`
		ID    int64 `json:"id"`
		Score int64 `json:"score"`
	} `json:"entries"`
}

// Stats holds seeding run statistics.
type Stats struct {
	PlayersRegistered    int
	SubmissionsGenerated int
	SubmissionsAccepted  int
	SubmissionsDuplicate int
	SubmissionsFailed    int
	BoardsVerified       int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
