// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open picks the driver from the configuration (modernc.org/sqlite or
github.com/lib/pq) and pings the server:

	conn, err := db.Open(cfg)

SQLite connections are limited to one open connection with foreign keys
enabled.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - gift_group: Group metadata, budget and drawn flag
  - participant: Members, contact info, wishlist and drawn target
  - exclusion: Forbidden (giver, receiver) pairs
  - expense: Gift spending recorded by participants

# Relationships

	gift_group 1──* participant
	gift_group 1──* exclusion
	gift_group 1──* expense
	participant 1──1 participant (target_id, after the draw)

Foreign keys cascade on delete, except target_id which is set to NULL.
*/
package db
