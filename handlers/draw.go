// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/drawjoy/cliparse"
	"github.com/danielhkuo/drawjoy/derange"
	"github.com/danielhkuo/drawjoy/middleware"
	"github.com/danielhkuo/drawjoy/models"
	"github.com/danielhkuo/drawjoy/notify"
)

type DrawHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	engine   *derange.Engine[string]
	notifier *notify.Notifier
}

func NewDrawHandler(db *sql.DB, cfg cliparse.Config, engine *derange.Engine[string], notifier *notify.Notifier) *DrawHandler {
	return &DrawHandler{db: db, cfg: cfg, engine: engine, notifier: notifier}
}

// Draw handles POST /groups/{id}/draw
//
// The drawn flag is claimed with a conditional update in the same
// transaction that stores the targets, so concurrent draws of one group
// yield exactly one success. On any failure nothing is persisted.
func (h *DrawHandler) Draw(w http.ResponseWriter, r *http.Request) {
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

	drawnAt := time.Now().UTC()
	res, err := tx.Exec(`
		UPDATE gift_group
		SET drawn = TRUE, drawn_at = $1
		WHERE id = $2 AND drawn = FALSE
	`, drawnAt, groupID)
	if err != nil {
		slog.Error("failed to claim draw", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		if err == nil {
			err = groupMissingOrDrawn(tx, groupID)
		}
		writeGroupError(w, err, "Already drawn")
		return
	}

	group, err := loadGroup(tx, groupID)
	if err != nil {
		writeGroupError(w, err, "Already drawn")
		return
	}

	participants, err := listParticipants(tx, groupID)
	if err != nil {
		slog.Error("failed to list participants", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(participants) < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Need at least 2 participants")
		return
	}

	exclusions, err := listExclusions(tx, groupID)
	if err != nil {
		slog.Error("failed to list exclusions", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	assignment, err := h.assign(participants, exclusions)
	switch {
	case errors.Is(err, derange.ErrAssignmentNotFound):
		slog.Info("draw failed", "group_id", groupID, "participants", len(participants), "exclusions", len(exclusions))
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "No valid assignment (too many exclusions)")
		return
	case errors.Is(err, derange.ErrInsufficientParticipants):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Need at least 2 participants")
		return
	case err != nil:
		slog.Error("draw produced an invalid assignment", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Draw failed")
		return
	}

	for giverID, targetID := range assignment {
		if _, err := tx.Exec(`
			UPDATE participant SET target_id = $1
			WHERE id = $2 AND group_id = $3
		`, targetID, giverID, groupID); err != nil {
			slog.Error("failed to store target", "error", err, "group_id", groupID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store draw")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store draw")
		return
	}

	slog.Info("group drawn", "group_id", groupID, "participants", len(participants), "exclusions", len(exclusions))

	// The draw is committed; email failures are only logged. A client that
	// hangs up now must not cut the emails short.
	if err := h.notifier.NotifyDraw(context.WithoutCancel(r.Context()), drawNotices(group, participants, assignment)); err != nil {
		slog.Warn("some draw notifications failed", "error", err, "group_id", groupID)
	}

	middleware.JSONResponse(w, http.StatusOK, models.DrawResponse{
		Status:           "drawn",
		DrawnAt:          drawnAt,
		ParticipantCount: len(participants),
	})
}

// assign runs the engine and double-checks its output before it is stored.
func (h *DrawHandler) assign(participants []models.Participant, exclusions []models.Exclusion) (derange.Assignment[string], error) {
	people := make([]derange.Participant[string], len(participants))
	ids := make([]string, len(participants))
	for i, p := range participants {
		people[i] = derange.Participant[string]{ID: p.ID, Name: p.Name}
		ids[i] = p.ID
	}

	ex := make(derange.Exclusions[string], len(exclusions))
	for _, e := range exclusions {
		ex[derange.Pair[string]{Giver: e.GiverID, Receiver: e.ReceiverID}] = struct{}{}
	}

	assignment, err := h.engine.DerangeWithExclusions(people, ex)
	if err != nil {
		return nil, err
	}
	if err := assignment.Validate(ids, ex); err != nil {
		return nil, fmt.Errorf("engine contract violated: %w", err)
	}
	return assignment, nil
}

func drawNotices(group models.Group, participants []models.Participant, assignment derange.Assignment[string]) []notify.Draw {
	byID := make(map[string]models.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}

	notices := make([]notify.Draw, 0, len(participants))
	for _, giver := range participants {
		target := byID[assignment[giver.ID]]
		notices = append(notices, notify.Draw{
			GroupName:      group.Name,
			Budget:         group.Budget,
			GiverName:      giver.Name,
			GiverEmail:     deref(giver.Email),
			TargetName:     target.Name,
			TargetWishlist: deref(target.Wishlist),
		})
	}
	return notices
}
