package db

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	db *sql.DB
}

func Make(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
		pragma journal_mode = wal;
		create table if not exists sessions (
			id text primary key,
			token text not null,
			user_id integer not null default 0,
			username text not null,
			created text not null default (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			expires text not null
		);
		create index if not exists sessions_expires on sessions(expires);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}
