// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidAdminKey         = errors.New("invalid admin key")
	ErrInvalidParticipantToken = errors.New("invalid participant token")
)

// Key purposes keep admin keys and participant tokens distinct even when
// both salts are equal.
const (
	purposeAdmin       = "admin:"
	purposeParticipant = "participant:"
)

// NewID returns a random UUID string for a new row.
func NewID() string {
	return uuid.NewString()
}

// GenerateAdminKey creates an HMAC-based admin key for a group
// This is deterministic and verifiable
func GenerateAdminKey(groupID, salt string) string {
	return sign(purposeAdmin+groupID, salt)
}

// ValidateAdminKey checks if the provided admin key is valid for the group
func ValidateAdminKey(groupID, adminKey, salt string) error {
	expected := GenerateAdminKey(groupID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateParticipantToken creates the token a participant uses to see their
// target and record expenses.
func GenerateParticipantToken(participantID, salt string) string {
	return sign(purposeParticipant+participantID, salt)
}

// ValidateParticipantToken checks a participant token.
func ValidateParticipantToken(participantID, token, salt string) error {
	expected := GenerateParticipantToken(participantID, salt)
	if token == "" || !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidParticipantToken
	}
	return nil
}

func sign(message, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(message))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}
