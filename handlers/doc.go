// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the drawjoy API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - GroupHandler: Group lifecycle (create, view, reset, delete)
  - ParticipantHandler: Joining, removal and target lookup
  - ExclusionHandler: Pairs that must not be drawn together
  - DrawHandler: Runs the draw and notifies givers
  - ExpenseHandler: Spend tracking against the group budget

Handlers are created via constructor functions that accept *sql.DB and Config:

	groupHandler := handlers.NewGroupHandler(db, cfg)

DrawHandler additionally takes the derangement engine and a notifier:

	drawHandler := handlers.NewDrawHandler(db, cfg, engine, notifier)

# Group Lifecycle

A group is open until it is drawn. While open, people join and the admin
edits exclusions. Drawing closes registration; resetting reopens it.

	POST /groups             → CreateGroup (returns admin_key)
	POST /groups/{id}/join   → JoinGroup (returns participant_token)
	POST /groups/{id}/draw   → Draw
	POST /groups/{id}/reset  → ResetDraw

Admin operations require the X-Admin-Key header. Participant operations
require the X-Participant-Token header.

# Draw Consistency

Draw claims the group with a conditional update and stores every target in
the same transaction. Membership and exclusion changes take the same row
lock first, so they either finish before a draw or fail with 409 after it.
An infeasible exclusion set returns 422 and stores nothing.

Emails are sent after commit. A failed email is logged and never undoes
the draw.
*/
package handlers
