// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewID(t *testing.T) {
	id := NewID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewID() = %q is not a UUID: %v", id, err)
	}

	// Test randomness - two IDs should be different
	if NewID() == NewID() {
		t.Error("NewID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name    string
		groupID string
		salt    string
	}{
		{"standard", "group123", "secret-salt"},
		{"empty group id", "", "salt"},
		{"empty salt", "group456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAdminKey(tt.groupID, tt.salt)

			// Should not be empty
			if key == "" {
				t.Error("GenerateAdminKey() returned empty string")
			}

			// Should be deterministic
			key2 := GenerateAdminKey(tt.groupID, tt.salt)
			if key != key2 {
				t.Error("GenerateAdminKey() is not deterministic")
			}

			// Different inputs should produce different keys
			if tt.groupID != "" && tt.salt != "" {
				differentKey := GenerateAdminKey(tt.groupID+"x", tt.salt)
				if key == differentKey {
					t.Error("GenerateAdminKey() produced same key for different group IDs")
				}
			}

			// Should be URL-safe (no padding)
			if strings.Contains(key, "=") {
				t.Error("GenerateAdminKey() contains padding characters")
			}
		})
	}
}

func TestValidateAdminKey(t *testing.T) {
	groupID := "test-group-123"
	salt := "test-salt"
	validKey := GenerateAdminKey(groupID, salt)

	tests := []struct {
		name     string
		groupID  string
		adminKey string
		salt     string
		wantErr  bool
	}{
		{"valid key", groupID, validKey, salt, false},
		{"wrong key", groupID, "wrong-key", salt, true},
		{"wrong group id", "different-group", validKey, salt, true},
		{"wrong salt", groupID, validKey, "different-salt", true},
		{"empty key", groupID, "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.groupID, tt.adminKey, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidAdminKey {
				t.Errorf("ValidateAdminKey() error = %v, want %v", err, ErrInvalidAdminKey)
			}
		})
	}
}

func TestValidateParticipantToken(t *testing.T) {
	participantID := "participant-1"
	salt := "participant-salt"
	validToken := GenerateParticipantToken(participantID, salt)

	tests := []struct {
		name          string
		participantID string
		token         string
		wantErr       bool
	}{
		{"valid token", participantID, validToken, false},
		{"wrong token", participantID, "nope", true},
		{"other participant", "participant-2", validToken, true},
		{"empty token", participantID, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParticipantToken(tt.participantID, tt.token, salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateParticipantToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidParticipantToken {
				t.Errorf("ValidateParticipantToken() error = %v, want %v", err, ErrInvalidParticipantToken)
			}
		})
	}
}

func TestKeysAreNotInterchangeable(t *testing.T) {
	// Same id and salt must not yield a token that doubles as an admin key.
	id, salt := "shared-id", "shared-salt"

	if GenerateAdminKey(id, salt) == GenerateParticipantToken(id, salt) {
		t.Fatal("admin key and participant token collide")
	}
	if err := ValidateAdminKey(id, GenerateParticipantToken(id, salt), salt); err == nil {
		t.Error("participant token accepted as admin key")
	}
}

// Benchmark tests
func BenchmarkNewID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		NewID()
	}
}

func BenchmarkGenerateAdminKey(b *testing.B) {
	groupID := "test-group-123"
	salt := "test-salt"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateAdminKey(groupID, salt)
	}
}
