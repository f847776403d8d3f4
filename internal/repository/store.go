package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/pressly/goose"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Connect opens the pool shared by every repository. The caller owns it and
// must Close it on shutdown.
func Connect(ctx context.Context, cfg DBConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("creating pgx pool: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

// Migrate applies pending goose migrations from dir. dsn must be understood
// by lib/pq, so pgxpool-only parameters are not allowed in it.
func Migrate(dsn, dir string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("opening migrations connection: %w", err)
	}
	defer db.Close()
	if err = goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err = goose.Up(db, dir); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", errorvalues.ErrStoreFailure, op, err)
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// queryBuilder accumulates a WHERE clause with positional arguments.
type queryBuilder struct {
	sb   strings.Builder
	args []any
}

func newQueryBuilder(base string, args ...any) *queryBuilder {
	qb := &queryBuilder{args: args}
	qb.sb.WriteString(base)
	return qb
}

// where appends " AND <cond>" where every "?" in cond refers to the same new
// argument.
func (qb *queryBuilder) where(cond string, arg any) {
	qb.args = append(qb.args, arg)
	qb.sb.WriteString(" AND ")
	qb.sb.WriteString(strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(qb.args))))
}

func (qb *queryBuilder) build(orderBy string) (string, []any) {
	qb.sb.WriteString(" ORDER BY ")
	qb.sb.WriteString(orderBy)
	qb.sb.WriteString(";")
	return qb.sb.String(), qb.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
