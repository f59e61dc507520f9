package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/schoolconnect/core"
	appfs "github.com/trezcool/schoolconnect/fs"
)

const migrationsDir = "migrations"

func open(dbName string, admin bool, conf *core.Config) (*sql.DB, error) {
	user := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		user = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     user,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return sql.Open(conf.Database.Engine, u.String())
}

// Open connects to the application database and waits for it to answer.
func Open(conf *core.Config) (*sqlx.DB, error) {
	db, err := open(conf.Database.Name, false, conf)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(db); err != nil {
		return nil, err
	}
	return sqlx.NewDb(db, conf.Database.Engine), nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sql.DB) error {
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

// exists reports whether query, run with arg, returns a row.
func exists(db *sql.DB, query, arg string) (bool, error) {
	var found bool
	err := db.QueryRow(query, arg).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return found, err
}

// ensure runs create unless the probe finds a row for name.
func ensure(db *sql.DB, probe, name, create string) error {
	found, err := exists(db, probe, name)
	if err != nil || found {
		return err
	}
	_, err = db.Exec(create)
	return err
}

func createAppUser(db *sql.DB, conf *core.Config) error {
	dbc := conf.Database
	if dbc.User == "" {
		return nil
	}
	create := fmt.Sprintf(
		"CREATE USER %s CREATEDB ENCRYPTED PASSWORD %s",
		pq.QuoteIdentifier(dbc.User), pq.QuoteLiteral(dbc.Password),
	)
	return errors.Wrap(
		ensure(db, "SELECT true FROM pg_roles WHERE rolname = $1", dbc.User, create),
		"creating app user",
	)
}

func createDB(db *sql.DB, conf *core.Config) error {
	create := "CREATE DATABASE " + pq.QuoteIdentifier(conf.Database.Name)
	return errors.Wrap(
		ensure(db, "SELECT true FROM pg_database WHERE datname = $1", conf.Database.Name, create),
		"creating database",
	)
}

// CreateIfNotExist creates the application role as admin, then the database as that role.
func CreateIfNotExist(conf *core.Config) error {
	steps := []struct {
		admin bool
		run   func(*sql.DB, *core.Config) error
	}{
		{admin: true, run: createAppUser},
		{admin: false, run: createDB},
	}
	for _, step := range steps {
		if err := withServerDB(conf, step.admin, step.run); err != nil {
			return err
		}
	}
	return nil
}

// withServerDB connects to the maintenance database and hands it to fn.
func withServerDB(conf *core.Config, admin bool, fn func(*sql.DB, *core.Config) error) error {
	db, err := open("postgres", admin, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	if err = ping(db); err != nil {
		return errors.Wrap(err, "pinging database")
	}
	return fn(db, conf)
}

// SetupMigrations points goose at the migrations embedded in the binary.
func SetupMigrations() error {
	goose.SetBaseFS(appfs.FS)
	return goose.SetDialect("postgres")
}

// Migrate applies every pending migration.
func Migrate(db *sql.DB) error {
	if err := SetupMigrations(); err != nil {
		return errors.Wrap(err, "configuring migrations")
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// RunMigrations runs a goose command (up, down, status, ...) against db.
func RunMigrations(command string, db *sql.DB, args ...string) error {
	if err := SetupMigrations(); err != nil {
		return errors.Wrap(err, "configuring migrations")
	}
	return goose.Run(command, db, migrationsDir, args...)
}
