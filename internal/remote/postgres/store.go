// Package postgres answers remote queries directly from PostgreSQL,
// producing the same JSON rows as the REST interface.
package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/MrSnakeDoc/toolhub/internal/logger"
	"github.com/MrSnakeDoc/toolhub/internal/metrics"
	"github.com/MrSnakeDoc/toolhub/internal/remote"
)

const backendName = "postgres"

// Store implements remote.Service on a database handle.
type Store struct {
	db      *sql.DB
	log     logger.Logger
	metrics *metrics.Metrics
}

var _ remote.Service = (*Store)(nil)

// Open opens a lib/pq connection pool.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// New creates a Store using the provided database handle.
func New(db *sql.DB, log logger.Logger, m *metrics.Metrics) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{db: db, log: log, metrics: m}
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Select runs q and, when requested, a separate exact count.
func (s *Store) Select(ctx context.Context, q remote.Query) (resp remote.Response, err error) {
	if err := q.Validate(); err != nil {
		return remote.Response{}, fmt.Errorf("select %s: %w", q.Table, err)
	}
	defer s.observe("select", q.Table, time.Now(), &err)

	if q.Count {
		query, args := countSQL(q)
		var n int64
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return remote.Response{}, mapError(err)
		}
		resp.Count = &n
	}
	if q.Head {
		return resp, nil
	}

	body, err := s.selectJSON(ctx, s.db, q, nil)
	if err != nil {
		return remote.Response{}, err
	}
	resp.Body = body
	return resp, nil
}

// Mutate runs a write. Inserts and updates re-read the written rows in
// the same transaction to return their representation.
func (s *Store) Mutate(ctx context.Context, m remote.Mutation) (resp remote.Response, err error) {
	if err := m.Validate(); err != nil {
		return remote.Response{}, fmt.Errorf("%s %s: %w", m.Kind, m.Table, err)
	}
	defer s.observe(m.Kind.String(), m.Table, time.Now(), &err)

	if m.Kind == remote.Delete {
		query, args := deleteSQL(m)
		body, n, err := collect(ctx, s.db, query, args)
		if err != nil {
			return remote.Response{}, err
		}
		return single(body, n, m.Single)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return remote.Response{}, mapError(err)
	}
	defer func() { _ = tx.Rollback() }()

	var query string
	var args []any
	if m.Kind == remote.Insert {
		query, args = insertSQL(m)
	} else {
		query, args = updateSQL(m)
	}

	ids, err := scanIDs(ctx, tx, query, args)
	if err != nil {
		return remote.Response{}, err
	}
	if m.Single && len(ids) != 1 {
		return remote.Response{}, remote.NoRows(len(ids))
	}

	ret := remote.Query{Table: m.Table, Columns: []string{"*"}}
	if m.Returning != nil {
		ret.Columns, ret.Embeds = m.Returning.Columns, m.Returning.Embeds
	}
	ret.Single = m.Single

	body, err := s.selectJSON(ctx, tx, ret, ids)
	if err != nil {
		return remote.Response{}, err
	}
	if err := tx.Commit(); err != nil {
		return remote.Response{}, mapError(err)
	}
	return remote.Response{Body: body}, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) selectJSON(ctx context.Context, db queryer, q remote.Query, ids []string) ([]byte, error) {
	query, args := selectSQL(q, ids)
	body, n, err := collect(ctx, db, query, args)
	if err != nil {
		return nil, err
	}
	resp, err := single(body, n, q.Single)
	return resp.Body, err
}

// collect reads one JSON object per row into a JSON array.
func collect(ctx context.Context, db queryer, query string, args []any) ([]byte, int, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var buf bytes.Buffer
	buf.WriteByte('[')
	n := 0
	for rows.Next() {
		var obj []byte
		if err := rows.Scan(&obj); err != nil {
			return nil, 0, mapError(err)
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		buf.Write(obj)
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err)
	}
	buf.WriteByte(']')
	return buf.Bytes(), n, nil
}

// single unwraps a one-element array when a single object was requested.
func single(array []byte, n int, want bool) (remote.Response, error) {
	if !want {
		return remote.Response{Body: array}, nil
	}
	if n != 1 {
		return remote.Response{}, remote.NoRows(n)
	}
	return remote.Response{Body: array[1 : len(array)-1]}, nil
}

func scanIDs(ctx context.Context, db queryer, query string, args []any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return ids, nil
}

func (s *Store) observe(op, table string, start time.Time, errp *error) {
	elapsed := time.Since(start)
	s.metrics.ObserveRemote(backendName, op, table, *errp, elapsed)
	s.log.Debug("postgres query",
		logger.String("op", op),
		logger.String("table", table),
		logger.Duration("elapsed", elapsed),
		logger.Bool("ok", *errp == nil))
}

// mapError converts driver errors into remote errors carrying the SQLSTATE.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		status := 500
		switch pqErr.Code.Class() {
		case "23":
			status = 409
		case "22", "42":
			status = 400
		}
		return &remote.Error{
			Code:    string(pqErr.Code),
			Message: pqErr.Message,
			Details: pqErr.Detail,
			Hint:    pqErr.Hint,
			Status:  status,
		}
	}
	return err
}
