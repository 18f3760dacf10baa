// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/drawjoy/auth"
	"github.com/danielhkuo/drawjoy/middleware"
	"github.com/danielhkuo/drawjoy/models"
)

var (
	errGroupNotFound = errors.New("group not found")
	errAlreadyDrawn  = errors.New("group already drawn")
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

// requireAdmin extracts the group ID and checks X-Admin-Key. It writes the
// error response itself and returns ok=false on failure.
func requireAdmin(w http.ResponseWriter, r *http.Request, salt string) (groupID string, ok bool) {
	groupID = r.PathValue("id")
	if groupID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "group_id is required")
		return "", false
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(groupID, adminKey, salt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return "", false
	}

	return groupID, true
}

// requireParticipant extracts group and participant IDs and checks
// X-Participant-Token.
func requireParticipant(w http.ResponseWriter, r *http.Request, salt string) (groupID, participantID string, ok bool) {
	groupID = r.PathValue("id")
	participantID = r.PathValue("pid")
	if groupID == "" || participantID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "group_id and participant_id are required")
		return "", "", false
	}

	token := r.Header.Get("X-Participant-Token")
	if err := auth.ValidateParticipantToken(participantID, token, salt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid participant token")
		return "", "", false
	}

	return groupID, participantID, true
}

func loadGroup(q querier, groupID string) (models.Group, error) {
	var g models.Group
	err := q.QueryRow(`
		SELECT id, name, budget_cents, reveal_at, drawn, drawn_at, created_at
		FROM gift_group
		WHERE id = $1
	`, groupID).Scan(&g.ID, &g.Name, &g.BudgetCents, &g.RevealAt, &g.Drawn, &g.DrawnAt, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Group{}, errGroupNotFound
	}
	if err != nil {
		return models.Group{}, fmt.Errorf("failed to query group: %w", err)
	}

	if g.BudgetCents != nil {
		g.Budget = formatCents(*g.BudgetCents)
	}
	return g, nil
}

func listParticipants(q querier, groupID string) ([]models.Participant, error) {
	rows, err := q.Query(`
		SELECT id, group_id, name, email, wishlist, target_id, created_at
		FROM participant
		WHERE group_id = $1
		ORDER BY created_at, id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.GroupID, &p.Name, &p.Email, &p.Wishlist, &p.TargetID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func listExclusions(q querier, groupID string) ([]models.Exclusion, error) {
	rows, err := q.Query(`
		SELECT id, group_id, giver_id, receiver_id
		FROM exclusion
		WHERE group_id = $1
		ORDER BY created_at, id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exclusions: %w", err)
	}
	defer rows.Close()

	exclusions := []models.Exclusion{}
	for rows.Next() {
		var e models.Exclusion
		if err := rows.Scan(&e.ID, &e.GroupID, &e.GiverID, &e.ReceiverID); err != nil {
			return nil, fmt.Errorf("failed to scan exclusion: %w", err)
		}
		exclusions = append(exclusions, e)
	}
	return exclusions, rows.Err()
}

// lockUndrawnGroup takes a write lock on the group row for the rest of tx,
// provided the group exists and has not been drawn. It serializes
// membership changes against a concurrent draw.
func lockUndrawnGroup(tx *sql.Tx, groupID string) error {
	res, err := tx.Exec(`UPDATE gift_group SET drawn = FALSE WHERE id = $1 AND drawn = FALSE`, groupID)
	if err != nil {
		return fmt.Errorf("failed to lock group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to lock group: %w", err)
	}
	if n == 1 {
		return nil
	}
	return groupMissingOrDrawn(tx, groupID)
}

// groupMissingOrDrawn explains why a conditional update on an undrawn group
// touched no rows.
func groupMissingOrDrawn(q querier, groupID string) error {
	var exists bool
	err := q.QueryRow(`SELECT EXISTS(SELECT 1 FROM gift_group WHERE id = $1)`, groupID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to query group: %w", err)
	}
	if !exists {
		return errGroupNotFound
	}
	return errAlreadyDrawn
}

// writeGroupError maps group lookup errors to responses.
func writeGroupError(w http.ResponseWriter, err error, drawnMessage string) {
	switch {
	case errors.Is(err, errGroupNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Group not found")
	case errors.Is(err, errAlreadyDrawn):
		middleware.ErrorResponse(w, http.StatusConflict, drawnMessage)
	default:
		slog.Error("group query failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

// formatCents renders an amount in cents as dollars, e.g. 123456 -> "$1,234.56".
// The magnitude is taken as uint64 so math.MinInt64 does not overflow.
func formatCents(cents int64) string {
	sign := ""
	mag := uint64(cents)
	if cents < 0 {
		sign = "-"
		mag = -mag
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(int64(mag/100)), mag%100)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
