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

// ReplayDependencies defines the interface for replay operations.
type ReplayDependencies interface {
	Ingest(ctx context.Context, sub model.Submission) (types.SubmitResult, error)
	ReplayDetail(ctx context.Context, id int64, commentPage int) (types.ReplayDetail, error)
	RandomReplayID(ctx context.Context) (int64, error)
	Download(ctx context.Context, id int64) (types.Download, error)
	EditReplayComment(ctx context.Context, uploaderID, replayID int64, text string) error
}

// ReplayHandler handles replay requests.
type ReplayHandler struct {
	deps ReplayDependencies
}

// NewReplayHandler creates a new replay handler.
func NewReplayHandler(deps ReplayDependencies) *ReplayHandler {
	return &ReplayHandler{deps: deps}
}

// HandlePostReplay handles POST /replays requests: the submission path.
func (h *ReplayHandler) HandlePostReplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	sub, err := req.submission()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	result, err := h.deps.Ingest(r.Context(), sub)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// HandleGetRandom handles GET /replays/random requests.
func (h *ReplayHandler) HandleGetRandom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, err := h.deps.RandomReplayID(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

// replayCommentRequest mirrors PATCH /replays/{id}/comment.
type replayCommentRequest struct {
	UploaderID int64  `json:"uploader_id"`
	Text       string `json:"text"`
}

// HandleReplay routes /replays/{id} and its sub-resources:
//
//	GET   /replays/{id}?comment_page=N
//	GET   /replays/{id}/download
//	PATCH /replays/{id}/comment
func (h *ReplayHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	segments := strings.Split(strings.TrimPrefix(r.URL.Path, "/replays/"), "/")
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
		detail, err := h.deps.ReplayDetail(r.Context(), id, queryInt(r, "comment_page", 0))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
		return
	}

	switch segments[1] {
	case "download":
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		download, err := h.deps.Download(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, download)
	case "comment":
		if r.Method != http.MethodPatch {
			http.NotFound(w, r)
			return
		}
		var req replayCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if err := h.deps.EditReplayComment(r.Context(), req.UploaderID, id, req.Text); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	default:
		http.NotFound(w, r)
	}
}
