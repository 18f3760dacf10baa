// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/drawjoy/models"
	"github.com/danielhkuo/drawjoy/testutil"
)

func TestAddExpense(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewExpenseHandler(db, cfg)

	groupID, _ := testutil.CreateTestGroup(t, db, cfg, true, nil)
	otherGroup, _ := testutil.CreateTestGroup(t, db, cfg, true, nil)
	alice, aliceToken := testutil.AddTestParticipant(t, db, cfg, groupID, "Alice", "")
	_, bobToken := testutil.AddTestParticipant(t, db, cfg, groupID, "Bob", "")

	tests := []struct {
		name           string
		groupID        string
		token          string
		request        models.AddExpenseRequest
		expectedStatus int
	}{
		{"valid expense", groupID, aliceToken, models.AddExpenseRequest{Description: "Scarf", AmountCents: 1999}, http.StatusCreated},
		{"missing description", groupID, aliceToken, models.AddExpenseRequest{AmountCents: 100}, http.StatusBadRequest},
		{"zero amount", groupID, aliceToken, models.AddExpenseRequest{Description: "Nothing"}, http.StatusBadRequest},
		{"negative amount", groupID, aliceToken, models.AddExpenseRequest{Description: "Refund", AmountCents: -5}, http.StatusBadRequest},
		{"amount just over the cap", groupID, aliceToken, models.AddExpenseRequest{Description: "Yacht", AmountCents: maxAmountCents + 1}, http.StatusBadRequest},
		{"max int64 amount", groupID, aliceToken, models.AddExpenseRequest{Description: "Yacht", AmountCents: math.MaxInt64}, http.StatusBadRequest},
		{"someone else's token", groupID, bobToken, models.AddExpenseRequest{Description: "Scarf", AmountCents: 100}, http.StatusUnauthorized},
		{"wrong group", otherGroup, aliceToken, models.AddExpenseRequest{Description: "Scarf", AmountCents: 100}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pathRequest("POST", "/groups/"+tt.groupID+"/participants/"+alice+"/expenses", tt.request,
				map[string]string{"X-Participant-Token": tt.token},
				map[string]string{"id": tt.groupID, "pid": alice})
			w := httptest.NewRecorder()

			handler.AddExpense(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if w.Code == http.StatusCreated {
				var resp models.Expense
				testutil.AssertJSON(t, w, &resp)
				assert.NotEmpty(t, resp.ID)
				assert.Equal(t, alice, resp.ParticipantID)
				assert.Equal(t, "$19.99", resp.Amount)
			}
		})
	}
}

func TestGetExpenses_Summary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewExpenseHandler(db, cfg)

	groupID, _ := testutil.CreateTestGroup(t, db, cfg, true, int64Ptr(2500))
	alice, aliceToken := testutil.AddTestParticipant(t, db, cfg, groupID, "Alice", "")
	bob, bobToken := testutil.AddTestParticipant(t, db, cfg, groupID, "Bob", "")
	carol, _ := testutil.AddTestParticipant(t, db, cfg, groupID, "Carol", "")

	add := func(participantID, token string, cents int64) {
		req := pathRequest("POST", "/groups/"+groupID+"/participants/"+participantID+"/expenses",
			models.AddExpenseRequest{Description: "Gift", AmountCents: cents},
			map[string]string{"X-Participant-Token": token},
			map[string]string{"id": groupID, "pid": participantID})
		w := httptest.NewRecorder()
		handler.AddExpense(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)
	}
	add(alice, aliceToken, 1500)
	add(alice, aliceToken, 1500)
	add(bob, bobToken, 2000)

	req := pathRequest("GET", "/groups/"+groupID+"/expenses", nil, nil, map[string]string{"id": groupID})
	w := httptest.NewRecorder()
	handler.GetExpenses(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var summary models.ExpenseSummary
	testutil.AssertJSON(t, w, &summary)

	assert.Len(t, summary.Expenses, 3)
	assert.Equal(t, int64(5000), summary.TotalCents)
	assert.Equal(t, "$50.00", summary.Total)
	require.NotNil(t, summary.BudgetCents)
	assert.Equal(t, int64(2500), *summary.BudgetCents)

	want := []models.ParticipantSpend{
		{ParticipantID: alice, Name: "Alice", SpentCents: 3000, Spent: "$30.00", OverBudget: true},
		{ParticipantID: bob, Name: "Bob", SpentCents: 2000, Spent: "$20.00"},
		{ParticipantID: carol, Name: "Carol", SpentCents: 0, Spent: "$0.00"},
	}
	if diff := cmp.Diff(want, summary.PerPerson, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("per person spend mismatch (-want +got):\n%s", diff)
	}
}

func TestGetExpenses_LargeAmountsStayPositive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewExpenseHandler(db, cfg)

	groupID, _ := testutil.CreateTestGroup(t, db, cfg, true, int64Ptr(2500))
	alice, aliceToken := testutil.AddTestParticipant(t, db, cfg, groupID, "Alice", "")

	for i := 0; i < 2; i++ {
		req := pathRequest("POST", "/groups/"+groupID+"/participants/"+alice+"/expenses",
			models.AddExpenseRequest{Description: "Island", AmountCents: maxAmountCents},
			map[string]string{"X-Participant-Token": aliceToken},
			map[string]string{"id": groupID, "pid": alice})
		w := httptest.NewRecorder()
		handler.AddExpense(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	req := pathRequest("GET", "/groups/"+groupID+"/expenses", nil, nil, map[string]string{"id": groupID})
	w := httptest.NewRecorder()
	handler.GetExpenses(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var summary models.ExpenseSummary
	testutil.AssertJSON(t, w, &summary)
	assert.Equal(t, 2*maxAmountCents, summary.TotalCents)
	assert.Equal(t, "$21,990,232,555.52", summary.Total)
	require.Len(t, summary.PerPerson, 1)
	assert.True(t, summary.PerPerson[0].OverBudget)
}

func TestExpenseSchema_RejectsOversizedAmount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	groupID, _ := testutil.CreateTestGroup(t, db, cfg, true, nil)
	alice, _ := testutil.AddTestParticipant(t, db, cfg, groupID, "Alice", "")

	_, err := db.Exec(`
		INSERT INTO expense (id, group_id, participant_id, description, amount_cents)
		VALUES ('e1', $1, $2, 'Yacht', $3)
	`, groupID, alice, maxAmountCents+1)
	assert.Error(t, err)
}

// Rows written before the amount cap existed must not wrap the total.
func TestGetExpenses_TotalOverflow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewExpenseHandler(db, cfg)

	groupID, _ := testutil.CreateTestGroup(t, db, cfg, true, int64Ptr(2500))
	alice, _ := testutil.AddTestParticipant(t, db, cfg, groupID, "Alice", "")

	_, err := db.Exec(`PRAGMA ignore_check_constraints = ON`)
	require.NoError(t, err)
	for _, id := range []string{"e1", "e2"} {
		_, err := db.Exec(`
			INSERT INTO expense (id, group_id, participant_id, description, amount_cents, created_at)
			VALUES ($1, $2, $3, 'Legacy', $4, $5)
		`, id, groupID, alice, int64(math.MaxInt64), time.Now().UTC())
		require.NoError(t, err)
	}

	req := pathRequest("GET", "/groups/"+groupID+"/expenses", nil, nil, map[string]string{"id": groupID})
	w := httptest.NewRecorder()
	handler.GetExpenses(w, req)

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	assert.Equal(t, "Expense total out of range", resp.Message)
}

func TestAddCents(t *testing.T) {
	sum, err := addCents(maxAmountCents, maxAmountCents)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<41), sum)

	_, err = addCents(math.MaxInt64, 1)
	assert.ErrorIs(t, err, errTotalOverflow)

	_, err = addCents(math.MaxInt64, math.MaxInt64)
	assert.ErrorIs(t, err, errTotalOverflow)

	_, err = addCents(math.MinInt64, -1)
	assert.ErrorIs(t, err, errTotalOverflow)
}

func TestGetExpenses_NoBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewExpenseHandler(db, cfg)

	groupID, _ := testutil.CreateTestGroup(t, db, cfg, false, nil)
	testutil.AddTestParticipant(t, db, cfg, groupID, "Alice", "")

	req := pathRequest("GET", "/groups/"+groupID+"/expenses", nil, nil, map[string]string{"id": groupID})
	w := httptest.NewRecorder()
	handler.GetExpenses(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var summary models.ExpenseSummary
	testutil.AssertJSON(t, w, &summary)
	assert.Empty(t, summary.Expenses)
	assert.Nil(t, summary.BudgetCents)
	require.Len(t, summary.PerPerson, 1)
	assert.False(t, summary.PerPerson[0].OverBudget)
}

func TestGetExpenses_GroupNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewExpenseHandler(db, testutil.GetTestConfig())

	req := pathRequest("GET", "/groups/missing/expenses", nil, nil, map[string]string{"id": "missing"})
	w := httptest.NewRecorder()
	handler.GetExpenses(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestFormatCents(t *testing.T) {
	tests := map[int64]string{
		0:         "$0.00",
		5:         "$0.05",
		1999:      "$19.99",
		123456:    "$1,234.56",
		100000000: "$1,000,000.00",
		-250:      "-$2.50",

		math.MaxInt64: "$92,233,720,368,547,758.07",
		math.MinInt64: "-$92,233,720,368,547,758.08",
	}
	for cents, want := range tests {
		assert.Equal(t, want, formatCents(cents), cents)
	}
}
