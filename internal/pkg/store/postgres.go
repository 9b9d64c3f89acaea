package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/paulexconde/surveylab/pkg/fault"
)

const collectionsSchema = `
CREATE TABLE IF NOT EXISTS survey_collections (
	collection TEXT    NOT NULL,
	position   INTEGER NOT NULL,
	record     JSONB   NOT NULL,
	PRIMARY KEY (collection, position)
)`

// postgresStore persists each collection as ordered JSONB rows in a
// single table. A save replaces the whole collection in one
// transaction; readers never observe a partial write.
type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore returns a Postgres-backed adapter on db and makes
// sure the backing table exists.
func NewPostgresStore(ctx context.Context, db *sqlx.DB) (*postgresStore, error) {
	if _, err := db.ExecContext(ctx, collectionsSchema); err != nil {
		return nil, fault.NewInternalError("ensure collections table", err)
	}
	return &postgresStore{db: db}, nil
}

func (s *postgresStore) Load(ctx context.Context, collection string, out any) error {
	var rows [][]byte
	err := s.db.SelectContext(ctx, &rows,
		`SELECT record FROM survey_collections WHERE collection=$1 ORDER BY position`, collection)
	if err != nil {
		return fault.NewInternalError("load collection", err)
	}
	if len(rows) == 0 {
		return nil
	}

	raw, err := json.Marshal(rawRows(rows))
	if err != nil {
		return fault.NewInternalError("load collection", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		slog.Warn("corrupted collection rows, loading as empty", "collection", collection, "err", err)
		return nil
	}

	return nil
}

func rawRows(rows [][]byte) []json.RawMessage {
	out := make([]json.RawMessage, len(rows))
	for i, r := range rows {
		out[i] = json.RawMessage(r)
	}
	return out
}

func (s *postgresStore) Save(ctx context.Context, collection string, records any) (err error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return fault.NewInternalError("encode collection", err)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return fault.NewInternalError("encode collection", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fault.NewInternalError("begin save", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM survey_collections WHERE collection=$1`, collection); err != nil {
		return fault.NewInternalError("clear collection", err)
	}

	stmt, err := tx.PreparexContext(ctx,
		`INSERT INTO survey_collections (collection, position, record) VALUES ($1, $2, $3)`)
	if err != nil {
		return fault.NewInternalError("prepare save", err)
	}
	defer stmt.Close()

	for i, item := range items {
		if ctx.Err() != nil {
			err = ctx.Err()
			return err
		}
		if _, err = stmt.ExecContext(ctx, collection, i, []byte(item)); err != nil {
			if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
				err = fault.NewInternalError(fmt.Sprintf("duplicate position %d", i), err)
			}
			return err
		}
	}

	return tx.Commit()
}
