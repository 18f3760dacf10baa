// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/drawjoy/auth"
	"github.com/danielhkuo/drawjoy/cliparse"
	"github.com/danielhkuo/drawjoy/middleware"
	"github.com/danielhkuo/drawjoy/models"
)

type ExclusionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewExclusionHandler(db *sql.DB, cfg cliparse.Config) *ExclusionHandler {
	return &ExclusionHandler{db: db, cfg: cfg}
}

// AddExclusion handles POST /groups/{id}/exclusions
// Adding an existing pair is a no-op; the stored exclusion is returned.
func (h *ExclusionHandler) AddExclusion(w http.ResponseWriter, r *http.Request) {
	groupID, ok := requireAdmin(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	var req models.AddExclusionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.BadBody(w, err)
		return
	}

	if req.GiverID == "" || req.ReceiverID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "giver_id and receiver_id are required")
		return
	}
	if req.GiverID == req.ReceiverID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "giver_id and receiver_id must differ")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if err := lockUndrawnGroup(tx, groupID); err != nil {
		writeGroupError(w, err, "Reset the draw before changing exclusions")
		return
	}

	// Both sides must belong to this group
	var members int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM participant
		WHERE group_id = $1 AND id IN ($2, $3)
	`, groupID, req.GiverID, req.ReceiverID).Scan(&members)
	if err != nil {
		slog.Error("failed to verify participants", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if members != 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "giver and receiver must be participants of this group")
		return
	}

	pairs := [][2]string{{req.GiverID, req.ReceiverID}}
	if req.Mutual {
		pairs = append(pairs, [2]string{req.ReceiverID, req.GiverID})
	}

	now := time.Now().UTC()
	stored := make([]models.Exclusion, 0, len(pairs))
	for _, pair := range pairs {
		_, err := tx.Exec(`
			INSERT INTO exclusion (id, group_id, giver_id, receiver_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (group_id, giver_id, receiver_id) DO NOTHING
		`, auth.NewID(), groupID, pair[0], pair[1], now)
		if err != nil {
			slog.Error("failed to insert exclusion", "error", err, "group_id", groupID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add exclusion")
			return
		}

		e := models.Exclusion{GroupID: groupID, GiverID: pair[0], ReceiverID: pair[1]}
		err = tx.QueryRow(`
			SELECT id FROM exclusion
			WHERE group_id = $1 AND giver_id = $2 AND receiver_id = $3
		`, groupID, pair[0], pair[1]).Scan(&e.ID)
		if err != nil {
			slog.Error("failed to read exclusion", "error", err, "group_id", groupID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add exclusion")
			return
		}
		stored = append(stored, e)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add exclusion")
		return
	}

	slog.Info("exclusion added", "group_id", groupID, "giver_id", req.GiverID, "receiver_id", req.ReceiverID, "mutual", req.Mutual)

	middleware.JSONResponse(w, http.StatusCreated, models.AddExclusionResponse{Exclusions: stored})
}

// ListExclusions handles GET /groups/{id}/exclusions
func (h *ExclusionHandler) ListExclusions(w http.ResponseWriter, r *http.Request) {
	groupID, ok := requireAdmin(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	if _, err := loadGroup(h.db, groupID); err != nil {
		writeGroupError(w, err, "")
		return
	}

	exclusions, err := listExclusions(h.db, groupID)
	if err != nil {
		slog.Error("failed to list exclusions", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, exclusions)
}

// DeleteExclusion handles DELETE /groups/{id}/exclusions/{eid}
func (h *ExclusionHandler) DeleteExclusion(w http.ResponseWriter, r *http.Request) {
	groupID, ok := requireAdmin(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}
	exclusionID := r.PathValue("eid")
	if exclusionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "exclusion_id is required")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if err := lockUndrawnGroup(tx, groupID); err != nil {
		writeGroupError(w, err, "Reset the draw before changing exclusions")
		return
	}

	res, err := tx.Exec(`DELETE FROM exclusion WHERE id = $1 AND group_id = $2`, exclusionID, groupID)
	if err != nil {
		slog.Error("failed to delete exclusion", "error", err, "exclusion_id", exclusionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete exclusion")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Exclusion not found")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete exclusion")
		return
	}

	slog.Info("exclusion deleted", "group_id", groupID, "exclusion_id", exclusionID)

	w.WriteHeader(http.StatusNoContent)
}
