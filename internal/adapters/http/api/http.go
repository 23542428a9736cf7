// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	repository "github.com/grandseiken/wiispace-board/internal/adapters/repository"
	service "github.com/grandseiken/wiispace-board/internal/app"
	"github.com/grandseiken/wiispace-board/internal/domain/category"
	"github.com/grandseiken/wiispace-board/internal/domain/model"
	"github.com/grandseiken/wiispace-board/internal/domain/rank"
	"github.com/grandseiken/wiispace-board/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	BoardDependencies
	ReplayDependencies
	PlayerDependencies
	CommentDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	boardHandler   *BoardHandler
	replayHandler  *ReplayHandler
	playerHandler  *PlayerHandler
	commentHandler *CommentHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		boardHandler:   NewBoardHandler(deps),
		replayHandler:  NewReplayHandler(deps),
		playerHandler:  NewPlayerHandler(deps),
		commentHandler: NewCommentHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/boards/modes", MetricsMiddleware(s.boardHandler.HandleGetModes, "board_modes"))
	mux.HandleFunc("/boards/", MetricsMiddleware(s.boardHandler.HandleGetBoard, "boards"))
	mux.HandleFunc("/replays/random", MetricsMiddleware(s.replayHandler.HandleGetRandom, "replay_random"))
	mux.HandleFunc("/replays/", MetricsMiddleware(s.replayHandler.HandleReplay, "replays"))
	mux.HandleFunc("/replays", MetricsMiddleware(s.replayHandler.HandlePostReplay, "replay_submit"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playerHandler.HandlePlayer, "players"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playerHandler.HandlePlayers, "player_list"))
	mux.HandleFunc("/comments/", MetricsMiddleware(s.commentHandler.HandleComment, "comments"))
	mux.HandleFunc("/comments", MetricsMiddleware(s.commentHandler.HandlePostComment, "comment_post"))
}

// submitRequest mirrors the upload form fields for POST /replays.
type submitRequest struct {
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

func (s submitRequest) submission() (model.Submission, error) {
	mode, err := category.ParseMode(s.Mode)
	if err != nil {
		return model.Submission{}, err
	}
	return model.Submission{
		UploaderID:   s.UploaderID,
		Seed:         s.Seed,
		Version:      s.Version,
		Mode:         mode,
		Players:      s.Players,
		Score:        s.Score,
		ToolAssisted: s.ToolAssisted,
		TeamName:     s.TeamName,
		Comment:      s.Comment,
	}, nil
}

type duplicateResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	ExistingID int64  `json:"existing_id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service-layer sentinel kinds onto HTTP
// statuses. Duplicates carry the existing record id in the payload.
func writeServiceError(w http.ResponseWriter, err error) {
	var dup *service.DuplicateError
	switch {
	case errors.As(err, &dup):
		writeJSON(w, http.StatusConflict, duplicateResponse{
			Code:       "duplicate",
			Message:    err.Error(),
			ExistingID: dup.ExistingID,
		})
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, rank.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, service.ErrPermission):
		writeError(w, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, service.ErrInvalidSubmission),
		errors.Is(err, service.ErrInvalidComment),
		errors.Is(err, category.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// queryInt reads an integer query parameter with a fallback default.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// pathID parses the numeric id segment of a resource path.
func pathID(segment string) (int64, bool) {
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Re-exported read shapes, so handler tests stay within this package.
type (
	ScoreboardPage = types.ScoreboardPage
	ReplayDetail   = types.ReplayDetail
	PlayerListPage = types.PlayerListPage
	Profile        = types.Profile
	SubmitResult   = types.SubmitResult
)
