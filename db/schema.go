// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema sticks to SQL understood by both PostgreSQL and SQLite.
const schema = `
-- Groups
CREATE TABLE IF NOT EXISTS gift_group (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    budget_cents BIGINT CHECK (budget_cents IS NULL OR budget_cents >= 0),
    reveal_at TIMESTAMP,
    drawn BOOLEAN NOT NULL DEFAULT FALSE,
    drawn_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Participants
CREATE TABLE IF NOT EXISTS participant (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES gift_group(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    email TEXT,
    wishlist TEXT,
    target_id TEXT REFERENCES participant(id) ON DELETE SET NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_participant_group_id ON participant(group_id);

-- Exclusions
CREATE TABLE IF NOT EXISTS exclusion (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES gift_group(id) ON DELETE CASCADE,
    giver_id TEXT NOT NULL REFERENCES participant(id) ON DELETE CASCADE,
    receiver_id TEXT NOT NULL REFERENCES participant(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (giver_id <> receiver_id),
    UNIQUE (group_id, giver_id, receiver_id)
);

CREATE INDEX IF NOT EXISTS idx_exclusion_group_id ON exclusion(group_id);

-- Expenses
CREATE TABLE IF NOT EXISTS expense (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES gift_group(id) ON DELETE CASCADE,
    participant_id TEXT NOT NULL REFERENCES participant(id) ON DELETE CASCADE,
    description TEXT NOT NULL,
    amount_cents BIGINT NOT NULL CHECK (amount_cents > 0 AND amount_cents <= 1099511627776),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_expense_group_id ON expense(group_id);
`
