// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Cobra commands bind the same flags onto their own flag set and resolve them
afterwards:

	var flags cliparse.Flags
	cliparse.BindFlags(cmd.Flags(), &flags)
	// ... after parsing
	cfg, err := cliparse.Resolve(flags)

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (inferred from the URL if unset)
  - AdminKeySalt: Secret for organizer admin key HMAC (required)
  - ParticipantSalt: Secret for participant token HMAC (required)
  - BaseURL: Public URL used in share links
  - ResendAPIKey: Enables email delivery of draw results
  - MailFrom: Sender address for draw emails
  - LogLevel: slog level

# Sources

Each value is taken from the first source that sets it:

 1. CLI flags
 2. Environment variables (optionally loaded from .env via LoadDotEnv)
 3. YAML file given by --config or DRAWJOY_CONFIG
 4. Defaults

# CLI Flags

	-p, --port              PORT
	-d, --database-url      DATABASE_URL
	-t, --database-type     DATABASE_TYPE
	-c, --config            DRAWJOY_CONFIG
	--admin-salt            ADMIN_KEY_SALT
	--participant-salt      PARTICIPANT_SALT
	--base-url              BASE_URL
	--mail-from             MAIL_FROM
	--log-level             LOG_LEVEL

RESEND_API_KEY has no flag so it never shows up in process listings.

# Config File

	port: 3318
	base_url: https://drawjoy.app
	database:
	  url: postgres://...
	secrets:
	  admin_key_salt: ...
	  participant_salt: ...
	mail:
	  from: santa@drawjoy.app
	  resend_api_key: re_...
*/
package cliparse
