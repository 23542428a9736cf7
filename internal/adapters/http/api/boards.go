// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/grandseiken/wiispace-board/internal/domain/types"
)

// BoardDependencies defines the interface for scoreboard reads.
type BoardDependencies interface {
	Scoreboard(ctx context.Context, index, order, page int) (types.ScoreboardPage, error)
	UnlockedModes(ctx context.Context) (map[string]bool, error)
}

// BoardHandler handles scoreboard requests.
type BoardHandler struct {
	deps BoardDependencies
}

// NewBoardHandler creates a new scoreboard handler.
func NewBoardHandler(deps BoardDependencies) *BoardHandler {
	return &BoardHandler{deps: deps}
}

// HandleGetBoard handles GET /boards/{index}?order=N&page=N requests.
// The index is the compact category selector 0..29.
func (h *BoardHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	segment := strings.TrimPrefix(r.URL.Path, "/boards/")
	index, err := strconv.Atoi(segment)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	page, err := h.deps.Scoreboard(r.Context(), index, queryInt(r, "order", 0), queryInt(r, "page", 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleGetModes handles GET /boards/modes requests, reporting which
// modes have been unlocked by a first clear.
func (h *BoardHandler) HandleGetModes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	modes, err := h.deps.UnlockedModes(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, modes)
}
