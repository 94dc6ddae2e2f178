package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cortex_edu/internal/common"
	"cortex_edu/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// timestampFormat renders TIMESTAMP columns the way the API has always served them
// (ISO-8601 local time, no zone).
const timestampFormat = `'YYYY-MM-DD"T"HH24:MI:SS'`

func ts(column string) string {
	return "to_char(" + column + ", " + timestampFormat + ")"
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// inTx runs fn inside a transaction and commits when fn succeeds.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// decodeList reads a json_agg column into a slice; NULL or '[]' both give an empty slice.
func decodeList[T any](raw []byte) ([]T, error) {
	out := []T{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding aggregated list: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func optionalString(ns sql.NullString) model.Optional[string] {
	if !ns.Valid {
		return model.Null[string]()
	}
	return model.Some(ns.String)
}

func nullableString(o model.Optional[string]) any {
	if v, ok := o.Get(); ok {
		return v
	}
	return nil
}

// mapWriteError turns constraint violations into the common sentinels.
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %s already exists: %w", op, pgErr.ConstraintName, common.ErrConflict)
		case "23503":
			return fmt.Errorf("%s: referenced record does not exist: %w", op, common.ErrValidation)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func notFoundOr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// replaceTags makes names the complete tag set of one owner row.
func replaceTags(ctx context.Context, q querier, joinTable, ownerColumn string, ownerID uint64, names []string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM `+joinTable+` WHERE `+ownerColumn+` = $1`, ownerID); err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}
	if _, err := q.ExecContext(ctx,
		`INSERT INTO tags (name) SELECT DISTINCT unnest($1::text[]) ON CONFLICT (name) DO NOTHING`, names); err != nil {
		return err
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO `+joinTable+` (`+ownerColumn+`, tag_id)
		 SELECT $1, t.id FROM tags t WHERE t.name = ANY($2::text[])`, ownerID, names)
	return err
}
