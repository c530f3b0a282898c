// internal/redirectscope/sql.go
//
// SQL-backed entry store.
//
// Context
//   A load-balanced deployment cannot rely on an in-process map: the
//   follow-up request may land on a different instance.  SQLStore keeps
//   entries in one MySQL table with the bag JSON-encoded.  The claim
//   discipline rides on the DELETE's affected-row count: whichever
//   caller deletes the row owns the entry, so replays and concurrent
//   consumers lose cleanly without row locks.
//
// Schema
//   CREATE TABLE redirect_scope (
//     token      CHAR(36) PRIMARY KEY,
//     bag        JSON         NOT NULL,
//     created_at DATETIME(6)  NOT NULL,
//     expires_at DATETIME(6)  NOT NULL,
//     KEY idx_redirect_scope_expires (expires_at)
//   );

package redirectscope

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLStore shares redirect-scope entries across instances via MySQL.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open connection pool.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Put inserts the entry.  Tokens are fresh UUIDs, so a duplicate key is
// a bug upstream and surfaces as the driver error.
func (s *SQLStore) Put(e *Entry) error {
	raw, err := json.Marshal(e.Bag)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO redirect_scope (token, bag, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		e.Token, raw, e.CreatedAt, e.ExpiresAt)
	return err
}

// Consume claims the row by deleting it; only the caller whose DELETE
// reports one affected row gets the bag.
func (s *SQLStore) Consume(token string, now time.Time) (Bag, bool, bool, error) {
	var row struct {
		Bag       []byte    `db:"bag"`
		ExpiresAt time.Time `db:"expires_at"`
	}
	err := s.db.Get(&row,
		`SELECT bag, expires_at FROM redirect_scope WHERE token = ?`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, false, nil
	}
	if err != nil {
		return nil, false, false, err
	}

	res, err := s.db.Exec(`DELETE FROM redirect_scope WHERE token = ?`, token)
	if err != nil {
		return nil, false, false, err
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		// Lost the claim race (or the sweeper got there first).
		return nil, false, false, err
	}

	if !now.Before(row.ExpiresAt) {
		return nil, false, true, nil
	}
	var bag Bag
	if err := json.Unmarshal(row.Bag, &bag); err != nil {
		return nil, false, false, err
	}
	return bag, true, false, nil
}

// Sweep reaps expired rows.
func (s *SQLStore) Sweep(now time.Time) (int, error) {
	res, err := s.db.Exec(`DELETE FROM redirect_scope WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
