// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the drawjoy API server.

drawjoy runs Secret Santa groups: people join a group, the organizer marks
pairs that must not draw each other, and a single draw assigns every giver
exactly one receiver. Nobody draws themselves and every forbidden pair is
respected.

# Starting the Server

	DATABASE_URL=drawjoy.db ADMIN_KEY_SALT=... PARTICIPANT_SALT=... drawjoy serve

Running drawjoy without a subcommand also serves. Create tables without
serving:

	drawjoy migrate -d postgres://...

# Configuration

Values come from flags, then the environment (a local .env is loaded),
then an optional YAML file (--config), then defaults.

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL URL
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC
  - PARTICIPANT_SALT (--participant-salt): Secret for participant tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres, inferred from the URL
  - BASE_URL (--base-url): Prefix for share links
  - RESEND_API_KEY: Enables email delivery of draw results
  - MAIL_FROM (--mail-from): Sender address
  - LOG_LEVEL (--log-level): debug, info, warn or error

# Architecture

  - derange: Constrained derangement engine
  - handlers: HTTP request handlers (groups, participants, exclusions, draw, expenses)
  - router: Route definitions using Go 1.22+ routing
  - notify: Draw emails through Resend
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: IDs, admin keys and participant tokens
  - db: Connection and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
