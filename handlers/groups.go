// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/drawjoy/auth"
	"github.com/danielhkuo/drawjoy/cliparse"
	"github.com/danielhkuo/drawjoy/middleware"
	"github.com/danielhkuo/drawjoy/models"
)

const maxNameLen = 100

type GroupHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewGroupHandler(db *sql.DB, cfg cliparse.Config) *GroupHandler {
	return &GroupHandler{db: db, cfg: cfg}
}

// CreateGroup handles POST /groups
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGroupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.BadBody(w, err)
		return
	}

	// Validate input
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.Name) > maxNameLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is too long")
		return
	}
	if req.BudgetCents != nil && *req.BudgetCents < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "budget_cents cannot be negative")
		return
	}

	groupID := auth.NewID()
	adminKey := auth.GenerateAdminKey(groupID, h.cfg.AdminKeySalt)

	_, err := h.db.Exec(`
		INSERT INTO gift_group (id, name, budget_cents, reveal_at, drawn, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, groupID, req.Name, req.BudgetCents, req.RevealAt, false, time.Now().UTC())

	if err != nil {
		slog.Error("failed to insert group", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create group")
		return
	}

	slog.Info("group created", "group_id", groupID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateGroupResponse{
		GroupID:   groupID,
		AdminKey:  adminKey,
		ShareLink: h.cfg.BaseURL + "/join/" + groupID,
	})
}

// GetGroup handles GET /groups/{id}
// Public view: group metadata and participant names, never targets.
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if groupID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "group_id is required")
		return
	}

	group, err := loadGroup(h.db, groupID)
	if err != nil {
		writeGroupError(w, err, "")
		return
	}

	participants, err := listParticipants(h.db, groupID)
	if err != nil {
		slog.Error("failed to list participants", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.GroupWithParticipants{
		Group:        group,
		Participants: participants,
	})
}

// GetGroupAdmin handles GET /groups/{id}/admin
func (h *GroupHandler) GetGroupAdmin(w http.ResponseWriter, r *http.Request) {
	groupID, ok := requireAdmin(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	group, err := loadGroup(h.db, groupID)
	if err != nil {
		writeGroupError(w, err, "")
		return
	}

	participants, err := listParticipants(h.db, groupID)
	if err == nil {
		var exclusions []models.Exclusion
		exclusions, err = listExclusions(h.db, groupID)
		if err == nil {
			middleware.JSONResponse(w, http.StatusOK, models.GroupAdminView{
				Group:        group,
				Participants: participants,
				Exclusions:   exclusions,
			})
			return
		}
	}

	slog.Error("failed to load group details", "error", err, "group_id", groupID)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}

// ResetDraw handles POST /groups/{id}/reset
// Clears every target and reopens the group for registration and drawing.
func (h *GroupHandler) ResetDraw(w http.ResponseWriter, r *http.Request) {
	groupID, ok := requireAdmin(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE gift_group SET drawn = FALSE, drawn_at = NULL WHERE id = $1`, groupID)
	if err != nil {
		slog.Error("failed to reset group", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset draw")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Group not found")
		return
	}

	if _, err := tx.Exec(`UPDATE participant SET target_id = NULL WHERE group_id = $1`, groupID); err != nil {
		slog.Error("failed to clear targets", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset draw")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset draw")
		return
	}

	slog.Info("draw reset", "group_id", groupID)

	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{Status: "reset"})
}

// DeleteGroup handles DELETE /groups/{id}
func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := requireAdmin(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Children first; targets point between participants of the same group.
	for _, stmt := range []string{
		`DELETE FROM expense WHERE group_id = $1`,
		`DELETE FROM exclusion WHERE group_id = $1`,
		`UPDATE participant SET target_id = NULL WHERE group_id = $1`,
		`DELETE FROM participant WHERE group_id = $1`,
	} {
		if _, err := tx.Exec(stmt, groupID); err != nil {
			slog.Error("failed to delete group data", "error", err, "group_id", groupID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete group")
			return
		}
	}

	res, err := tx.Exec(`DELETE FROM gift_group WHERE id = $1`, groupID)
	if err != nil {
		slog.Error("failed to delete group", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete group")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Group not found")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete group")
		return
	}

	slog.Info("group deleted", "group_id", groupID)

	w.WriteHeader(http.StatusNoContent)
}
