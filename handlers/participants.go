// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/danielhkuo/drawjoy/auth"
	"github.com/danielhkuo/drawjoy/cliparse"
	"github.com/danielhkuo/drawjoy/middleware"
	"github.com/danielhkuo/drawjoy/models"
)

const maxWishlistLen = 2000

type ParticipantHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewParticipantHandler(db *sql.DB, cfg cliparse.Config) *ParticipantHandler {
	return &ParticipantHandler{db: db, cfg: cfg}
}

// JoinGroup handles POST /groups/{id}/join
func (h *ParticipantHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if groupID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "group_id is required")
		return
	}

	var req models.JoinGroupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.BadBody(w, err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.Name) > maxNameLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is too long")
		return
	}
	if len(req.Wishlist) > maxWishlistLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "wishlist is too long")
		return
	}

	var email *string
	if req.Email = strings.TrimSpace(req.Email); req.Email != "" {
		addr, err := mail.ParseAddress(req.Email)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "email is invalid")
			return
		}
		email = &addr.Address
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Registration closes once the group is drawn
	if err := lockUndrawnGroup(tx, groupID); err != nil {
		writeGroupError(w, err, "Group has already been drawn")
		return
	}

	participant := models.Participant{
		ID:        auth.NewID(),
		GroupID:   groupID,
		Name:      req.Name,
		Email:     email,
		Wishlist:  nullable(req.Wishlist),
		CreatedAt: time.Now().UTC(),
	}

	_, err = tx.Exec(`
		INSERT INTO participant (id, group_id, name, email, wishlist, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, participant.ID, participant.GroupID, participant.Name, participant.Email, participant.Wishlist, participant.CreatedAt)
	if err != nil {
		slog.Error("failed to insert participant", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join group")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join group")
		return
	}

	slog.Info("participant joined", "group_id", groupID, "participant_id", participant.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.JoinGroupResponse{
		Participant:      participant,
		ParticipantToken: auth.GenerateParticipantToken(participant.ID, h.cfg.ParticipantSalt),
	})
}

// RemoveParticipant handles DELETE /groups/{id}/participants/{pid}
func (h *ParticipantHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	groupID, ok := requireAdmin(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}
	participantID := r.PathValue("pid")
	if participantID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant_id is required")
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
		writeGroupError(w, err, "Reset the draw before removing participants")
		return
	}

	for _, stmt := range []string{
		`DELETE FROM exclusion WHERE group_id = $1 AND (giver_id = $2 OR receiver_id = $2)`,
		`DELETE FROM expense WHERE group_id = $1 AND participant_id = $2`,
	} {
		if _, err := tx.Exec(stmt, groupID, participantID); err != nil {
			slog.Error("failed to delete participant data", "error", err, "participant_id", participantID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove participant")
			return
		}
	}

	res, err := tx.Exec(`DELETE FROM participant WHERE id = $1 AND group_id = $2`, participantID, groupID)
	if err != nil {
		slog.Error("failed to delete participant", "error", err, "participant_id", participantID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove participant")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Participant not found")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove participant")
		return
	}

	slog.Info("participant removed", "group_id", groupID, "participant_id", participantID)

	w.WriteHeader(http.StatusNoContent)
}

// GetTarget handles GET /groups/{id}/participants/{pid}/target
// Only the giver, holding their participant token, may see who they drew.
func (h *ParticipantHandler) GetTarget(w http.ResponseWriter, r *http.Request) {
	groupID, participantID, ok := requireParticipant(w, r, h.cfg.ParticipantSalt)
	if !ok {
		return
	}

	var target models.TargetResponse
	var wishlist *string
	err := h.db.QueryRow(`
		SELECT t.name, t.wishlist
		FROM participant p
		JOIN participant t ON t.id = p.target_id
		WHERE p.id = $1 AND p.group_id = $2
	`, participantID, groupID).Scan(&target.Name, &wishlist)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Not drawn yet or wrong person")
		return
	}
	if err != nil {
		slog.Error("failed to query target", "error", err, "participant_id", participantID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	target.Wishlist = deref(wishlist)

	middleware.JSONResponse(w, http.StatusOK, target)
}
