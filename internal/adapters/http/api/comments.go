// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/grandseiken/wiispace-board/internal/domain/types"
)

// CommentDependencies defines the interface for comment operations.
type CommentDependencies interface {
	AddComment(ctx context.Context, authorID, replayID int64, text string) (types.CommentEntry, error)
	EditComment(ctx context.Context, authorID, commentID int64, text string) error
	CommentPageOf(ctx context.Context, replayID, commentID int64) (int, error)
}

// CommentHandler handles comment requests.
type CommentHandler struct {
	deps CommentDependencies
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(deps CommentDependencies) *CommentHandler {
	return &CommentHandler{deps: deps}
}

// commentRequest mirrors POST /comments and PATCH /comments/{id}.
type commentRequest struct {
	AuthorID int64  `json:"author_id"`
	ReplayID int64  `json:"replay_id"`
	Text     string `json:"text"`
}

// HandlePostComment handles POST /comments requests.
func (h *CommentHandler) HandlePostComment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	entry, err := h.deps.AddComment(r.Context(), req.AuthorID, req.ReplayID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// HandleComment routes /comments/{id} and its sub-resources:
//
//	PATCH /comments/{id}
//	GET   /comments/{id}/page?replay_id=N
func (h *CommentHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	segments := strings.Split(strings.TrimPrefix(r.URL.Path, "/comments/"), "/")
	id, ok := pathID(segments[0])
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	if len(segments) == 1 {
		if r.Method != http.MethodPatch {
			http.NotFound(w, r)
			return
		}
		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if err := h.deps.EditComment(r.Context(), req.AuthorID, id, req.Text); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
		return
	}

	if segments[1] != "page" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	replayID, ok := pathID(r.URL.Query().Get("replay_id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	page, err := h.deps.CommentPageOf(r.Context(), replayID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"page": page})
}
