// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifiers and capability keys.

# Identifiers

Every row uses a random UUID:

	id := auth.NewID()

# Admin Keys

The organizer of a group holds an admin key, an HMAC-SHA256 of the group ID
keyed with ADMIN_KEY_SALT. Nothing is stored; the key is recomputed and
compared in constant time:

	key := auth.GenerateAdminKey(groupID, cfg.AdminKeySalt)
	err := auth.ValidateAdminKey(groupID, key, cfg.AdminKeySalt)

Admin requests send it in the X-Admin-Key header.

# Participant Tokens

Each participant receives a token on joining, derived the same way from the
participant ID and PARTICIPANT_SALT. It is required to read one's own target
and to record expenses (X-Participant-Token header).

Admin keys and participant tokens are domain-separated, so one can never
stand in for the other even if both salts are equal.
*/
package auth
