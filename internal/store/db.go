package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/cesargomez89/ingestq/internal/constants"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know
	sqlx.BindDriver(constants.DriverSQLite, sqlx.QUESTION)
}

// dbOps is the query surface shared by *sqlx.DB and *sqlx.Tx.
type dbOps interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// DB is a handle on the store. Inside RunInTx the same methods run on the transaction.
type DB struct {
	dbOps
	root   *sqlx.DB
	driver string
	inTx   bool
}

// Open connects to the database named by driver and dsn and applies the schema.
func Open(driver, dsn string) (*DB, error) {
	switch driver {
	case constants.DriverSQLite:
		return NewSQLiteDB(dsn)
	case constants.DriverPostgres:
		return NewPostgresDB(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", driver)
	}
}

func NewSQLiteDB(dsn string) (*DB, error) {
	db, err := sqlx.Open(constants.DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	// One connection serializes write transactions
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=30000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return finishOpen(db, constants.DriverSQLite, SQLiteSchema)
}

func NewPostgresDB(dsn string) (*DB, error) {
	db, err := sqlx.Open(constants.DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return finishOpen(db, constants.DriverPostgres, PostgresSchema)
}

func finishOpen(db *sqlx.DB, driver, schema string) (*DB, error) {
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{dbOps: db, root: db, driver: driver}, nil
}

// Driver returns the registered driver name.
func (db *DB) Driver() string {
	return db.driver
}

// RunInTx runs fn inside a transaction. fn must use the DB it is given;
// any error rolls the transaction back.
func (db *DB) RunInTx(ctx context.Context, fn func(tx *DB) error) error {
	if db.inTx {
		return fn(db)
	}

	tx, err := db.root.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	txDB := &DB{
		dbOps:  tx,
		root:   db.root,
		driver: db.driver,
		inTx:   true,
	}

	if err := fn(txDB); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LockReconcile takes the cross-process reconciliation lock for the rest of
// the current transaction. On SQLite the single connection already serializes writers.
func (db *DB) LockReconcile(ctx context.Context) error {
	if !db.inTx {
		return fmt.Errorf("reconcile lock requires a transaction")
	}
	if db.driver != constants.DriverPostgres {
		return nil
	}
	if _, err := db.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", constants.ReconcileLockKey); err != nil {
		return fmt.Errorf("failed to take reconcile lock: %w", err)
	}
	return nil
}

// Ping checks the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.root.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.root.Close()
}

// namedInsert runs an INSERT ... RETURNING id built from struct tags.
func (db *DB) namedInsert(ctx context.Context, query string, arg interface{}) (int64, error) {
	rows, err := sqlx.NamedQueryContext(ctx, db, query, arg)
	if err != nil {
		return 0, err
	}
	defer rows.Close() //nolint:errcheck // deferred cleanup

	var id int64
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to scan returned id: %w", err)
		}
	} else if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating returning rows: %w", err)
	} else {
		return 0, sql.ErrNoRows
	}
	return id, rows.Close()
}

// exec rebinds query for the driver and runs it.
func (db *DB) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.ExecContext(ctx, db.Rebind(query), args...)
}

func (db *DB) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return db.GetContext(ctx, dest, db.Rebind(query), args...)
}

func (db *DB) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return db.SelectContext(ctx, dest, db.Rebind(query), args...)
}

func likePattern(search string) string {
	return "%" + search + "%"
}
