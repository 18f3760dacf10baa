// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/drawjoy/auth"
	"github.com/danielhkuo/drawjoy/cliparse"
	"github.com/danielhkuo/drawjoy/db"
)

// SetupTestDB opens a fresh SQLite database in a temp dir with the full
// schema. It is closed automatically when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := GetTestConfig()
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "drawjoy.db")

	conn, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseType:    cliparse.DatabaseSQLite,
		DatabaseURL:     ":memory:",
		AdminKeySalt:    "test-admin-salt",
		ParticipantSalt: "test-participant-salt",
		BaseURL:         "https://drawjoy.test",
		MailFrom:        "santa@drawjoy.test",
	}
}

// CreateTestGroup creates a group and returns its ID and admin key.
// budgetCents may be nil for a group without a budget.
func CreateTestGroup(t *testing.T, db *sql.DB, cfg cliparse.Config, drawn bool, budgetCents *int64) (groupID, adminKey string) {
	t.Helper()

	groupID = auth.NewID()
	adminKey = auth.GenerateAdminKey(groupID, cfg.AdminKeySalt)

	var drawnAt *time.Time
	if drawn {
		now := time.Now().UTC()
		drawnAt = &now
	}

	_, err := db.Exec(`
		INSERT INTO gift_group (id, name, budget_cents, drawn, drawn_at, created_at)
		VALUES ($1, 'Test Group', $2, $3, $4, $5)
	`, groupID, budgetCents, drawn, drawnAt, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test group: %v", err)
	}

	return groupID, adminKey
}

// AddTestParticipant adds a participant and returns its ID and token.
// An empty email is stored as NULL.
func AddTestParticipant(t *testing.T, db *sql.DB, cfg cliparse.Config, groupID, name, email string) (participantID, token string) {
	t.Helper()

	participantID = auth.NewID()
	var mail *string
	if email != "" {
		mail = &email
	}

	// Distinct timestamps keep join order stable
	time.Sleep(time.Millisecond)
	_, err := db.Exec(`
		INSERT INTO participant (id, group_id, name, email, wishlist, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, participantID, groupID, name, mail, "Wishlist of "+name, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}

	return participantID, auth.GenerateParticipantToken(participantID, cfg.ParticipantSalt)
}

// AddTestExclusion forbids giverID from drawing receiverID
func AddTestExclusion(t *testing.T, db *sql.DB, groupID, giverID, receiverID string) string {
	t.Helper()

	exclusionID := auth.NewID()
	_, err := db.Exec(`
		INSERT INTO exclusion (id, group_id, giver_id, receiver_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, exclusionID, groupID, giverID, receiverID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test exclusion: %v", err)
	}

	return exclusionID
}

// Targets returns the stored giver -> target mapping of a group
func Targets(t *testing.T, db *sql.DB, groupID string) map[string]string {
	t.Helper()

	rows, err := db.Query(`
		SELECT id, target_id FROM participant
		WHERE group_id = $1 AND target_id IS NOT NULL
	`, groupID)
	if err != nil {
		t.Fatalf("Failed to query targets: %v", err)
	}
	defer rows.Close()

	targets := map[string]string{}
	for rows.Next() {
		var giver, target string
		if err := rows.Scan(&giver, &target); err != nil {
			t.Fatalf("Failed to scan target: %v", err)
		}
		targets[giver] = target
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Failed to read targets: %v", err)
	}
	return targets
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
