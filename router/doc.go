// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the drawjoy API.

# Route Registration

NewRouter wires every handler onto an http.ServeMux and wraps it in CORS:

	handler := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Groups (admin routes require X-Admin-Key):

	POST   /groups             - Create group (returns admin_key)
	GET    /groups/{id}        - Public view
	GET    /groups/{id}/admin  - Admin view with exclusions
	DELETE /groups/{id}        - Delete group and everything in it
	POST   /groups/{id}/reset  - Clear the draw

Participants:

	POST   /groups/{id}/join                      - Join (returns participant_token)
	DELETE /groups/{id}/participants/{pid}        - Remove (admin)
	GET    /groups/{id}/participants/{pid}/target - Who you drew (X-Participant-Token)

Exclusions (admin):

	POST   /groups/{id}/exclusions
	GET    /groups/{id}/exclusions
	DELETE /groups/{id}/exclusions/{eid}

Draw (admin):

	POST /groups/{id}/draw

Expenses:

	POST /groups/{id}/participants/{pid}/expenses - Log spend (X-Participant-Token)
	GET  /groups/{id}/expenses                    - Totals against the budget

# Draw Dependencies

The draw engine uses a process-wide locked random source. Notifications go
through Resend when RESEND_API_KEY is set and are only logged otherwise.
*/
package router
