// Package postgresdb provides a PostgreSQL-backed key/value store for the
// client session. Several clients may share one database: every row belongs
// to a namespace chosen at construction time.
package postgresdb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresDB keeps session items in the client_storage table.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
	namespace         string
}

type initOptions struct {
	DBPreReset bool
	Namespace  string
}

// InitOption defines a functional option for configuring database initialization.
type InitOption func(*initOptions)

// WithDBPreReset drops every table in the public schema before migrating.
// It is meant for test setups.
func WithDBPreReset(value bool) InitOption {
	return func(options *initOptions) {
		options.DBPreReset = value
	}
}

// WithNamespace selects the namespace the store reads and writes.
func WithNamespace(namespace string) InitOption {
	return func(options *initOptions) {
		options.Namespace = namespace
	}
}

// New connects to the database, applies the embedded migrations and returns
// a store bound to the configured namespace ("default" unless overridden).
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	optionsProto ...InitOption,
) (*PostgresDB, error) {
	options := &initOptions{
		DBPreReset: false,
		Namespace:  "default",
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
		namespace:         options.Namespace,
	}

	if options.DBPreReset {
		if err := result.resetDB(ctx); err != nil {
			return nil, fmt.Errorf("in postgresdb.New(): error while `result.resetDB()` calling: %w", err)
		}
	}

	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("in postgresdb.New(): error while `goose.SetDialect()` calling: %w", err)
	}

	if err := goose.UpContext(ctx, result.database, "migrations"); err != nil {
		return nil, fmt.Errorf("in postgresdb.New(): error while `goose.UpContext()` calling: %w", err)
	}

	return result, nil
}

// GetItem reads one key of the namespace.
func (db *PostgresDB) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := db.database.QueryRowContext(
		ctx,
		`SELECT value FROM client_storage WHERE namespace = $1 AND key = $2`,
		db.namespace,
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("in postgresdb.GetItem(): %w", err)
	}

	return value, true, nil
}

// SetItem inserts or replaces one key of the namespace.
func (db *PostgresDB) SetItem(ctx context.Context, key, value string) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			INSERT INTO client_storage (namespace, key, value)
				VALUES ($1, $2, $3)
				ON CONFLICT (namespace, key)
				DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		`,
		db.namespace,
		key,
		value,
	)
	if err != nil {
		return fmt.Errorf("in postgresdb.SetItem(): %w", err)
	}

	return nil
}

// RemoveItem deletes one key of the namespace. Absent keys are ignored.
func (db *PostgresDB) RemoveItem(ctx context.Context, key string) error {
	_, err := db.database.ExecContext(
		ctx,
		`DELETE FROM client_storage WHERE namespace = $1 AND key = $2`,
		db.namespace,
		key,
	)
	if err != nil {
		return fmt.Errorf("in postgresdb.RemoveItem(): %w", err)
	}

	return nil
}

// Ping verifies connectivity with the PostgreSQL database within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

// Close closes the database connection and releases any associated resources.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}

func (db *PostgresDB) resetDB(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			DO $$
			DECLARE
				r RECORD;
			BEGIN
				FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
					EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
				END LOOP;
			END $$;
		`,
	)
	if err != nil {
		return fmt.Errorf("in postgresdb.resetDB(): error while `db.database.ExecContext()` calling: %w", err)
	}

	return nil
}
