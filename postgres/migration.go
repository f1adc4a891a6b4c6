// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"database/sql"

	migrate "github.com/rubenv/sql-migrate"
)

// This file maintains the database migration code.  See
// https://github.com/rubenv/sql-migrate for details of what goes in
// here.  This runs "outside" the normal store flow, either at initial
// startup or from an external tool.

var migrationSource = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1-documents",
			Up: []string{
				`CREATE TABLE documents(
					resource TEXT NOT NULL,
					id TEXT NOT NULL,
					seq BIGSERIAL NOT NULL,
					body BYTEA NOT NULL,
					PRIMARY KEY(resource, id)
				)`,
				`CREATE INDEX documents_seq ON documents(resource, seq)`,
			},
			Down: []string{
				`DROP TABLE documents`,
			},
		},
		{
			Id: "2-sequences",
			Up: []string{
				`CREATE TABLE sequences(
					resource TEXT PRIMARY KEY,
					value BIGINT NOT NULL
				)`,
			},
			Down: []string{
				`DROP TABLE sequences`,
			},
		},
	},
}

// Upgrade upgrades a database to the latest database schema version.
func Upgrade(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Up)
	return err
}

// Drop clears a database by running all of the migrations in reverse,
// ultimately resulting in dropping all of the tables.
func Drop(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Down)
	return err
}
