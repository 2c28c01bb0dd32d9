// Package testutil connects integration tests to a PostgreSQL instance.
//
// Tests that need a database call SetupAutoDB. They are skipped under
// -short and when no database answers, unless TEST_REQUIRE_DB is set.
// With TEST_DB_EPHEMERAL set every test runs in its own schema, which is
// dropped when the test ends.
package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	// Registers the pgx driver for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/sumire/jobboard/internal/migrate"
)

// tables lists every application table, children before parents.
var tables = []string{
	"job_state_history",
	"notifications",
	"evaluations",
	"applications",
	"jobs",
	"schedules",
	"locations",
	"preferences",
	"users",
}

// DBConfig locates the test database.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// DefaultDBConfig reads TEST_DB_* variables, falling back to the docker-compose
// defaults.
func DefaultDBConfig() DBConfig {
	return DBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "5432"),
		User:     getEnvOrDefault("TEST_DB_USER", "jobboard"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "jobboard"),
		Name:     getEnvOrDefault("TEST_DB_NAME", "jobboard_test"),
	}
}

// DSN builds a connection URL with the given extra query parameters.
func (c DBConfig) DSN(params url.Values) string {
	q := url.Values{"sslmode": {getEnvOrDefault("TEST_DB_SSL_MODE", "disable")}}
	for k, v := range params {
		q[k] = v
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     c.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// SkipIfNoDB skips t under -short or when the test database does not answer.
func SkipIfNoDB(t testing.TB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	db, err := sqlx.Open("pgx", DefaultDBConfig().DSN(nil))
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = db.PingContext(ctx)
		cancel()
		_ = db.Close()
	}
	if err == nil {
		return
	}
	if envBool("TEST_REQUIRE_DB") {
		t.Fatal("test database not available:", err)
	}
	t.Skip("test database not available:", err)
}

// SetupAutoDB returns a migrated, empty database for t. See the package
// documentation for the environment it honors.
func SetupAutoDB(t testing.TB) *sqlx.DB {
	t.Helper()
	if envBool("TEST_DB_EPHEMERAL") {
		return SetupEphemeralDB(t)
	}
	return SetupDB(t)
}

// SetupDB connects to the shared test database, applies the migrations and
// empties every table. The connection is closed when t ends.
func SetupDB(t testing.TB) *sqlx.DB {
	t.Helper()
	SkipIfNoDB(t)

	db := open(t, DefaultDBConfig().DSN(nil))
	t.Cleanup(func() { closeAndLog(t, db) })
	migrateDB(t, db)
	Truncate(t, db)
	return db
}

// SetupEphemeralDB creates a schema only t uses, migrates it and drops it when
// t ends.
func SetupEphemeralDB(t testing.TB) *sqlx.DB {
	t.Helper()
	SkipIfNoDB(t)

	cfg := DefaultDBConfig()
	admin := open(t, cfg.DSN(nil))
	schema := schemaName()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		closeAndLog(t, admin)
		t.Fatalf("create schema %s: %v", schema, err)
	}

	db := open(t, cfg.DSN(url.Values{"search_path": {schema + ",public"}}))
	t.Logf("using ephemeral schema %s", schema)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		closeAndLog(t, db)
		if _, err := admin.ExecContext(ctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		closeAndLog(t, admin)
	})
	migrateDB(t, db)
	return db
}

// Truncate empties every application table and resets their sequences.
func Truncate(t testing.TB, db *sqlx.DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	stmt := "TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		t.Fatalf("truncate test tables: %v", err)
	}
}

func open(t testing.TB, dsn string) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		t.Fatal("open test database:", err)
	}
	db.SetMaxOpenConns(10)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		closeAndLog(t, db)
		t.Fatal("ping test database:", err)
	}
	return db
}

func migrateDB(t testing.TB, db *sqlx.DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := migrate.Run(ctx, db.DB); err != nil {
		t.Fatal("run migrations:", err)
	}
}

// schemaName returns a lowercase, unquoted-safe schema name.
func schemaName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("t_%d", time.Now().UnixNano())
	}
	return "t_" + hex.EncodeToString(b)
}

func closeAndLog(t testing.TB, db *sqlx.DB) {
	if err := db.Close(); err != nil {
		t.Logf("close test database: %v", err)
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
