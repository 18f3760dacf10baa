// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/drawjoy/cliparse"
	"github.com/danielhkuo/drawjoy/derange"
	"github.com/danielhkuo/drawjoy/handlers"
	"github.com/danielhkuo/drawjoy/middleware"
	"github.com/danielhkuo/drawjoy/notify"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Draw dependencies
	engine := derange.New[string](derange.NewLockedSource(nil))
	notifier := notify.New(newMailer(cfg), cfg.MailFrom)

	// Initialize handlers
	groupHandler := handlers.NewGroupHandler(db, cfg)
	participantHandler := handlers.NewParticipantHandler(db, cfg)
	exclusionHandler := handlers.NewExclusionHandler(db, cfg)
	drawHandler := handlers.NewDrawHandler(db, cfg, engine, notifier)
	expenseHandler := handlers.NewExpenseHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Group management
	mux.HandleFunc("POST /groups", middleware.WithLogging(groupHandler.CreateGroup))
	mux.HandleFunc("GET /groups/{id}", middleware.WithLogging(groupHandler.GetGroup))
	mux.HandleFunc("GET /groups/{id}/admin", middleware.WithLogging(groupHandler.GetGroupAdmin))
	mux.HandleFunc("DELETE /groups/{id}", middleware.WithLogging(groupHandler.DeleteGroup))
	mux.HandleFunc("POST /groups/{id}/reset", middleware.WithLogging(groupHandler.ResetDraw))

	// Participants
	mux.HandleFunc("POST /groups/{id}/join", middleware.WithLogging(participantHandler.JoinGroup))
	mux.HandleFunc("DELETE /groups/{id}/participants/{pid}", middleware.WithLogging(participantHandler.RemoveParticipant))
	mux.HandleFunc("GET /groups/{id}/participants/{pid}/target", middleware.WithLogging(participantHandler.GetTarget))

	// Exclusions (admin)
	mux.HandleFunc("POST /groups/{id}/exclusions", middleware.WithLogging(exclusionHandler.AddExclusion))
	mux.HandleFunc("GET /groups/{id}/exclusions", middleware.WithLogging(exclusionHandler.ListExclusions))
	mux.HandleFunc("DELETE /groups/{id}/exclusions/{eid}", middleware.WithLogging(exclusionHandler.DeleteExclusion))

	// Draw
	mux.HandleFunc("POST /groups/{id}/draw", middleware.WithLogging(drawHandler.Draw))

	// Expenses
	mux.HandleFunc("POST /groups/{id}/participants/{pid}/expenses", middleware.WithLogging(expenseHandler.AddExpense))
	mux.HandleFunc("GET /groups/{id}/expenses", middleware.WithLogging(expenseHandler.GetExpenses))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("drawjoy API v1"))
	})

	return middleware.CORS(mux)
}

// newMailer sends through Resend when an API key is configured and only
// logs messages otherwise.
func newMailer(cfg cliparse.Config) notify.Mailer {
	if cfg.ResendAPIKey == "" {
		return notify.LogMailer{}
	}
	return notify.NewResendMailer(cfg.ResendAPIKey, "")
}
