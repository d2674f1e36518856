package database

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/fs"
)

const (
	EnginePostgres = "postgres"
	EngineSqlite   = "sqlite"

	migrationsDir = "migrations"
)

var gooseMu sync.Mutex // goose keeps its base FS and dialect in globals

func dsn(conf core.DatabaseConfig) (string, error) {
	if conf.Engine == EngineSqlite {
		return conf.URL, nil
	}

	u, err := url.Parse(conf.URL)
	if err != nil {
		return "", errors.Wrap(err, "parsing database URL")
	}
	username := "postgres"
	if u.User != nil && u.User.Username() != "" {
		username = u.User.Username()
	}
	u.User = url.UserPassword(username, conf.AccessKey)

	sslMode := "require"
	if conf.DisableTLS {
		sslMode = "disable"
	}
	q := u.Query()
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Open connects to the configured datastore and waits until it answers.
// It returns core.ErrNotConfigured when the URL or the access key is missing.
func Open(conf *core.Config) (*sqlx.DB, error) {
	if !conf.Database.Configured() {
		return nil, core.ErrNotConfigured
	}
	dataSource, err := dsn(conf.Database)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(conf.Database.Engine, dataSource)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if conf.Database.Engine == EngineSqlite {
		// one connection: every sqlite ":memory:" connection is a distinct database
		db.SetMaxOpenConns(1)
	}
	if err = ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Dialect returns the goose dialect matching the driver of db.
func Dialect(db *sqlx.DB) string {
	if db.DriverName() == EngineSqlite {
		return "sqlite3"
	}
	return "postgres"
}

// RunMigrations runs a goose command ("up", "down", "status"...) with the embedded migrations.
func RunMigrations(ctx context.Context, db *sqlx.DB, command string, args ...string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect(Dialect(db)); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	return goose.RunContext(ctx, command, db.DB, migrationsDir, args...)
}

func Migrate(ctx context.Context, db *sqlx.DB) error {
	if err := RunMigrations(ctx, db, "up"); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
