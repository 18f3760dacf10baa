// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/drawjoy/auth"
	"github.com/danielhkuo/drawjoy/cliparse"
	"github.com/danielhkuo/drawjoy/middleware"
	"github.com/danielhkuo/drawjoy/models"
)

const (
	maxDescriptionLen = 200

	// maxAmountCents bounds a single expense. The schema enforces the same
	// limit, which keeps group totals far from int64 overflow.
	maxAmountCents int64 = 1 << 40
)

var errTotalOverflow = errors.New("expense total overflows int64")

// addCents returns a+b, failing instead of wrapping around.
func addCents(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, errTotalOverflow
	}
	return a + b, nil
}

type ExpenseHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewExpenseHandler(db *sql.DB, cfg cliparse.Config) *ExpenseHandler {
	return &ExpenseHandler{db: db, cfg: cfg}
}

// AddExpense handles POST /groups/{id}/participants/{pid}/expenses
func (h *ExpenseHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	groupID, participantID, ok := requireParticipant(w, r, h.cfg.ParticipantSalt)
	if !ok {
		return
	}

	var req models.AddExpenseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.BadBody(w, err)
		return
	}

	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "description is required")
		return
	}
	if len(req.Description) > maxDescriptionLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "description is too long")
		return
	}
	if req.AmountCents <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "amount_cents must be positive")
		return
	}
	if req.AmountCents > maxAmountCents {
		middleware.ErrorResponse(w, http.StatusBadRequest, "amount_cents is too large")
		return
	}

	var member bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM participant WHERE id = $1 AND group_id = $2)
	`, participantID, groupID).Scan(&member)
	if err != nil {
		slog.Error("failed to verify participant", "error", err, "participant_id", participantID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !member {
		middleware.ErrorResponse(w, http.StatusNotFound, "Participant not found")
		return
	}

	expense := models.Expense{
		ID:            auth.NewID(),
		GroupID:       groupID,
		ParticipantID: participantID,
		Description:   req.Description,
		AmountCents:   req.AmountCents,
		Amount:        formatCents(req.AmountCents),
		CreatedAt:     time.Now().UTC(),
	}

	_, err = h.db.Exec(`
		INSERT INTO expense (id, group_id, participant_id, description, amount_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, expense.ID, expense.GroupID, expense.ParticipantID, expense.Description, expense.AmountCents, expense.CreatedAt)
	if err != nil {
		slog.Error("failed to insert expense", "error", err, "participant_id", participantID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add expense")
		return
	}

	slog.Info("expense added", "group_id", groupID, "participant_id", participantID, "amount_cents", req.AmountCents)

	middleware.JSONResponse(w, http.StatusCreated, expense)
}

// GetExpenses handles GET /groups/{id}/expenses
func (h *ExpenseHandler) GetExpenses(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.db.Query(`
		SELECT id, group_id, participant_id, description, amount_cents, created_at
		FROM expense
		WHERE group_id = $1
		ORDER BY created_at, id
	`, groupID)
	if err != nil {
		slog.Error("failed to query expenses", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	summary := models.ExpenseSummary{
		Expenses:    []models.Expense{},
		BudgetCents: group.BudgetCents,
	}
	spent := make(map[string]int64, len(participants))
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.GroupID, &e.ParticipantID, &e.Description, &e.AmountCents, &e.CreatedAt); err != nil {
			slog.Error("failed to scan expense", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		e.Amount = formatCents(e.AmountCents)
		summary.Expenses = append(summary.Expenses, e)
		total, err := addCents(summary.TotalCents, e.AmountCents)
		if err == nil {
			spent[e.ParticipantID], err = addCents(spent[e.ParticipantID], e.AmountCents)
		}
		if err != nil {
			slog.Error("failed to total expenses", "error", err, "group_id", groupID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Expense total out of range")
			return
		}
		summary.TotalCents = total
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate expenses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	summary.Total = formatCents(summary.TotalCents)

	summary.PerPerson = make([]models.ParticipantSpend, 0, len(participants))
	for _, p := range participants {
		cents := spent[p.ID]
		summary.PerPerson = append(summary.PerPerson, models.ParticipantSpend{
			ParticipantID: p.ID,
			Name:          p.Name,
			SpentCents:    cents,
			Spent:         formatCents(cents),
			OverBudget:    group.BudgetCents != nil && cents > *group.BudgetCents,
		})
	}

	middleware.JSONResponse(w, http.StatusOK, summary)
}
