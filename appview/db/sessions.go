package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Session pairs an opaque cookie id with the bearer token the API issued.
// The token never leaves the server.
type Session struct {
	Id       string
	Token    string
	UserId   int64
	Username string
	Created  time.Time
	Expires  time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.Expires)
}

func (d *DB) AddSession(ctx context.Context, token string, userId int64, username string, ttl time.Duration) (*Session, error) {
	now := time.Now().UTC().Truncate(time.Second)
	s := &Session{
		Id:       uuid.New().String(),
		Token:    token,
		UserId:   userId,
		Username: username,
		Created:  now,
		Expires:  now.Add(ttl),
	}

	_, err := d.db.ExecContext(ctx, `
		insert into sessions (id, token, user_id, username, created, expires)
		values (?, ?, ?, ?, ?, ?)
	`, s.Id, s.Token, s.UserId, s.Username, s.Created.Format(time.RFC3339), s.Expires.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	return s, nil
}

// GetSession returns ErrSessionNotFound for unknown and expired ids alike.
func (d *DB) GetSession(ctx context.Context, id string) (*Session, error) {
	var s Session
	var created, expires string
	err := d.db.QueryRowContext(ctx, `
		select id, token, user_id, username, created, expires from sessions
		where id = ?
	`, id).Scan(&s.Id, &s.Token, &s.UserId, &s.Username, &created, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	s.Created, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, err
	}
	s.Expires, err = time.Parse(time.RFC3339, expires)
	if err != nil {
		return nil, err
	}

	if s.Expired(time.Now()) {
		return nil, ErrSessionNotFound
	}

	return &s, nil
}

func (d *DB) DeleteSession(ctx context.Context, id string) error {
	_, err := d.db.ExecContext(ctx, `delete from sessions where id = ?`, id)
	return err
}

// PurgeExpired removes every expired session and returns how many went.
func (d *DB) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := d.db.ExecContext(ctx, `delete from sessions where expires <= ?`, now.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
