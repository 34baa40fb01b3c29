// Package relational stores entities in PostgreSQL or MySQL. Every public
// repository method runs in its own transaction; nothing spans two calls.
package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/hbnb/rental-api/internal/core/domain"
	"github.com/hbnb/rental-api/internal/core/ports"
)

const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"

	defaultTimeout = 5 * time.Second
)

// Config captures the settings needed to open a connection pool.
type Config struct {
	Dialect         string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store owns the connection pool and the SQL dialect used to build queries.
type Store struct {
	db      *sql.DB
	dialect goqu.DialectWrapper
	name    string
}

// Open connects to the database described by cfg and verifies it with a ping.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	var (
		driver string
		dsn    = cfg.DSN
	)
	switch cfg.Dialect {
	case DialectPostgres:
		driver = "postgres"
	case DialectMySQL:
		driver = "mysql"
		mc, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("mysql dsn: %w", err)
		}
		mc.ParseTime = true
		mc.Loc = time.UTC
		dsn = mc.FormatDSN()
	default:
		return nil, fmt.Errorf("unsupported sql dialect %q", cfg.Dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	s := New(db, cfg.Dialect)
	if err := s.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing pool.
func New(db *sql.DB, dialect string) *Store {
	return &Store{db: db, dialect: goqu.Dialect(dialect), name: dialect}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sql ping: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Repositories returns the four entity repositories backed by this store.
func (s *Store) Repositories() ports.Repositories {
	return ports.Repositories{
		Users:     NewRepository(s, userTable),
		Places:    NewRepository(s, placeTable),
		Amenities: NewRepository(s, amenityTable),
		Reviews:   NewRepository(s, reviewTable),
	}
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type sqlBuilder interface {
	ToSQL() (string, []interface{}, error)
}

func (s *Store) exec(ctx context.Context, tx *sql.Tx, b sqlBuilder) (sql.Result, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return tx.ExecContext(ctx, query, args...)
}

func (s *Store) query(ctx context.Context, tx *sql.Tx, b sqlBuilder) (*sql.Rows, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return tx.QueryContext(ctx, query, args...)
}

// isUniqueViolation recognises duplicate-key failures from both drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}

// storeErr maps a write failure onto the entity's business rule when it is a
// uniqueness violation.
func storeErr(err error, unique error) error {
	if unique != nil && isUniqueViolation(err) {
		return unique
	}
	return err
}

func notFoundOr(err error, kind domain.Kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(kind, id)
	}
	return err
}
