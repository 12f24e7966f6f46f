// Package sqlstore implements store.Store on database/sql through sqlx.
// Two drivers are supported: "postgres" (lib/pq) and "sqlite"
// (modernc.org/sqlite, pure Go). Queries are written with ? placeholders
// and rebound for the active driver.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"modernc.org/sqlite"

	"sportcenter/internal/store"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SQLITE_CONSTRAINT primary result code.
const sqliteConstraint = 19

const pqSerializationFailure = "40001"

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Store is a SQL-backed store.Store.
type Store struct {
	db     *sqlx.DB
	driver string
	tracer trace.Tracer
}

var _ store.Store = (*Store)(nil)

// Open connects to the database and ensures the schema exists.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		// One connection: a single writer, and ":memory:" stays one database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{
		db:     db,
		driver: driver,
		tracer: otel.Tracer("sportcenter/sqlstore"),
	}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = "sportcenter.db"
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Migrate creates missing tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if s.driver == DriverPostgres {
		schema = postgresSchema
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string { return s.driver }

// Close implements store.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Update implements store.Store.
func (s *Store) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.run(ctx, "sqlstore.update", false, fn)
}

// View implements store.Store.
func (s *Store) View(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.run(ctx, "sqlstore.view", true, fn)
}

func (s *Store) run(ctx context.Context, name string, readOnly bool, fn func(tx store.Tx) error) (retErr error) {
	ctx, span := s.tracer.Start(ctx, name,
		trace.WithAttributes(
			attribute.String("db.system", s.driver),
			attribute.Bool("db.read_only", readOnly),
		),
	)
	defer func() {
		if retErr != nil {
			span.RecordError(retErr)
			span.SetStatus(codes.Error, retErr.Error())
		}
		span.End()
	}()

	sqlTx, err := s.db.BeginTxx(ctx, txOptions(s.driver, readOnly))
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&tx{tx: sqlTx, readOnly: readOnly}); err != nil {
		return writeConflict(err)
	}
	if readOnly {
		return nil
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", writeConflict(translate(err, store.ErrReferenced)))
	}
	return nil
}

// txOptions picks the isolation for a unit of work. Postgres writes run
// SERIALIZABLE so a capacity count and the insert it admits cannot
// interleave with another writer; sqlite has a single connection.
func txOptions(driver string, readOnly bool) *sql.TxOptions {
	if driver != DriverPostgres {
		return nil
	}
	if readOnly {
		return &sql.TxOptions{ReadOnly: true}
	}
	return &sql.TxOptions{Isolation: sql.LevelSerializable}
}

// writeConflict maps postgres serialization failures onto
// store.ErrWriteConflict.
func writeConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqSerializationFailure {
		return fmt.Errorf("%w: %s", store.ErrWriteConflict, pqErr.Message)
	}
	return err
}

// translate maps driver foreign key failures onto fk, one of the store
// sentinels chosen by the caller since only it knows which side failed.
func translate(err error, fk error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return fmt.Errorf("%w: %s", fk, pqErr.Message)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code()&0xff == sqliteConstraint && strings.Contains(liteErr.Error(), "FOREIGN KEY") {
		return fmt.Errorf("%w: %v", fk, liteErr)
	}
	return err
}
