// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateGroupRequest: name, budget_cents, reveal_at
  - JoinGroupRequest: name, email, wishlist
  - AddExclusionRequest: giver_id, receiver_id, mutual
  - AddExpenseRequest: description, amount_cents

# Response Types

Types for JSON responses:

  - CreateGroupResponse: group_id, admin_key, share_link
  - JoinGroupResponse: participant, participant_token
  - AddExclusionResponse: exclusions
  - DrawResponse: status, drawn_at, participant_count
  - TargetResponse: name, wishlist
  - ExpenseSummary: expenses, totals, per-person spend
  - ErrorResponse: error, message

# Domain Types

  - Group: group metadata and drawn state
  - Participant: member of a group; email and target are never serialized
  - Exclusion: forbidden (giver, receiver) pair
  - Expense: recorded gift spending

Money is carried as integer cents. The string fields next to the cent
amounts (Budget, Amount, Spent, Total) are display-only.
*/
package models
