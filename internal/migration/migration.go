// Package migration applies and authors versioned schema revisions.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// runner is the subset of *migrate.Migrate used by Migrator.
type runner interface {
	Up() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Close() (source error, database error)
}

type Migrator struct {
	m runner
}

// New opens a migrator that reads revisions from dir and records the applied
// version in conn.
func New(conn *sql.DB, dir string) (*Migrator, error) {
	driver, err := migratepgx.WithInstance(conn, &migratepgx.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve migrations dir %s: %w", dir, err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+filepath.ToSlash(abs), "pgx5", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	return &Migrator{m: m}, nil
}

// Up applies every pending revision.
func (mg *Migrator) Up() error {
	err := mg.m.Up()
	if isNoop(err) {
		slog.Info("No pending revisions.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply revisions: %w", err)
	}
	return nil
}

// Down reverts the given number of applied revisions.
func (mg *Migrator) Down(steps int) error {
	if steps < 1 {
		return fmt.Errorf("revert revisions: %w", ErrInvalidSteps)
	}

	err := mg.m.Steps(-steps)
	if isNoop(err) {
		slog.Info("No revision to revert.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("revert %d revisions: %w", steps, err)
	}
	return nil
}

// Version reports the applied version. A database with no revisions applied
// reports version 0.
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read version: %w", err)
	}
	return v, dirty, nil
}

func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

func isNoop(err error) bool {
	return errors.Is(err, migrate.ErrNoChange) || errors.Is(err, os.ErrNotExist)
}
