package models

import "time"

// Request types

type CreateGroupRequest struct {
	Name        string     `json:"name"`
	BudgetCents *int64     `json:"budget_cents,omitempty"`
	RevealAt    *time.Time `json:"reveal_at,omitempty"`
}

type JoinGroupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Wishlist string `json:"wishlist,omitempty"`
}

// Mutual also forbids the reverse pair.
type AddExclusionRequest struct {
	GiverID    string `json:"giver_id"`
	ReceiverID string `json:"receiver_id"`
	Mutual     bool   `json:"mutual,omitempty"`
}

type AddExpenseRequest struct {
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
}

// Response types

type CreateGroupResponse struct {
	GroupID   string `json:"group_id"`
	AdminKey  string `json:"admin_key"`
	ShareLink string `json:"share_link"`
}

type JoinGroupResponse struct {
	Participant      Participant `json:"participant"`
	ParticipantToken string      `json:"participant_token"`
}

type AddExclusionResponse struct {
	Exclusions []Exclusion `json:"exclusions"`
}

type DrawResponse struct {
	Status           string    `json:"status"`
	DrawnAt          time.Time `json:"drawn_at"`
	ParticipantCount int       `json:"participant_count"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type TargetResponse struct {
	Name     string `json:"name"`
	Wishlist string `json:"wishlist"`
}

// Domain types

type Group struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	BudgetCents *int64     `json:"budget_cents,omitempty"`
	Budget      string     `json:"budget,omitempty"` // human readable
	RevealAt    *time.Time `json:"reveal_at,omitempty"`
	Drawn       bool       `json:"drawn"`
	DrawnAt     *time.Time `json:"drawn_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TargetID and Email never leave the server through public views.
type Participant struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"-"`
	Wishlist  *string   `json:"wishlist,omitempty"`
	TargetID  *string   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type GroupWithParticipants struct {
	Group        Group         `json:"group"`
	Participants []Participant `json:"participants"`
}

type GroupAdminView struct {
	Group        Group         `json:"group"`
	Participants []Participant `json:"participants"`
	Exclusions   []Exclusion   `json:"exclusions"`
}

type Exclusion struct {
	ID         string `json:"id"`
	GroupID    string `json:"group_id"`
	GiverID    string `json:"giver_id"`
	ReceiverID string `json:"receiver_id"`
}

type Expense struct {
	ID            string    `json:"id"`
	GroupID       string    `json:"group_id"`
	ParticipantID string    `json:"participant_id"`
	Description   string    `json:"description"`
	AmountCents   int64     `json:"amount_cents"`
	Amount        string    `json:"amount"` // human readable
	CreatedAt     time.Time `json:"created_at"`
}

type ParticipantSpend struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	SpentCents    int64  `json:"spent_cents"`
	Spent         string `json:"spent"`
	OverBudget    bool   `json:"over_budget"`
}

type ExpenseSummary struct {
	Expenses    []Expense          `json:"expenses"`
	TotalCents  int64              `json:"total_cents"`
	Total       string             `json:"total"`
	BudgetCents *int64             `json:"budget_cents,omitempty"`
	PerPerson   []ParticipantSpend `json:"per_person"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
