// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/grandseiken/wiispace-board/internal/domain/model"
	"github.com/grandseiken/wiispace-board/internal/domain/types"
)

// PlayerDependencies defines the interface for player operations.
type PlayerDependencies interface {
	PlayerList(ctx context.Context, byName bool, page int) (types.PlayerListPage, error)
	Register(ctx context.Context, name string) (model.Account, error)
	Profile(ctx context.Context, accountID int64, page int) (types.Profile, error)
	ProfileComments(ctx context.Context, accountID int64, page int) (types.ProfileComments, error)
	UpdateAbout(ctx context.Context, accountID int64, about string) error
}

// PlayerHandler handles player requests.
type PlayerHandler struct {
	deps PlayerDependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

// registerRequest mirrors POST /players.
type registerRequest struct {
	Name string `json:"name"`
}

type registerResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// HandlePlayers routes /players:
//
//	GET  /players?by=name|score&page=N
//	POST /players
func (h *PlayerHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		byName := r.URL.Query().Get("by") == "name"
		page, err := h.deps.PlayerList(r.Context(), byName, queryInt(r, "page", 0))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	case http.MethodPost:
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		account, err := h.deps.Register(r.Context(), req.Name)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, registerResponse{ID: account.ID, Name: account.Name})
	default:
		http.NotFound(w, r)
	}
}

// aboutRequest mirrors PATCH /players/{id}/about.
type aboutRequest struct {
	About string `json:"about"`
}

// HandlePlayer routes /players/{id} and its sub-resources:
//
//	GET   /players/{id}?page=N
//	GET   /players/{id}/comments?page=N
//	PATCH /players/{id}/about
func (h *PlayerHandler) HandlePlayer(w http.ResponseWriter, r *http.Request) {
	segments := strings.Split(strings.TrimPrefix(r.URL.Path, "/players/"), "/")
	id, ok := pathID(segments[0])
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	if len(segments) == 1 {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		profile, err := h.deps.Profile(r.Context(), id, queryInt(r, "page", 0))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
		return
	}

	switch segments[1] {
	case "comments":
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		comments, err := h.deps.ProfileComments(r.Context(), id, queryInt(r, "page", 0))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, comments)
	case "about":
		if r.Method != http.MethodPatch {
			http.NotFound(w, r)
			return
		}
		var req aboutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if err := h.deps.UpdateAbout(r.Context(), id, req.About); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	default:
		http.NotFound(w, r)
	}
}
