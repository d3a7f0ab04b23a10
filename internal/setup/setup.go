// Package setup implements the commands that prepare databases and object
// storage for the server.
package setup

import (
	"context"
	"fmt"
	"io"

	"github.com/nixbug/entebus-server/internal/executive"
	"github.com/nixbug/entebus-server/internal/migration"
	"github.com/urfave/cli/v3"
)

const (
	SchemaLockKey         = "entebus:lock:schema"
	defaultUpgradeMessage = "auto upgrade"
	initialMessage        = "initial schema"
)

type Runner struct {
	backend      Backend
	out          io.Writer
	migrationDir string
	noLock       bool
}

func NewRunner(backend Backend, out io.Writer, migrationDir string) *Runner {
	return &Runner{
		backend:      backend,
		out:          out,
		migrationDir: migrationDir,
	}
}

// Cmd builds the root command with every setup subcommand attached.
func (r *Runner) Cmd() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "manage the entebus database schema and object storage",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "no-lock",
				Usage:       "skip the redis schema lock, for local use only",
				Destination: &r.noLock,
			},
		},
		Commands: []*cli.Command{
			r.subcmdRevise(),
			r.subcmdUpgrade(),
			r.subcmdMigrate(),
			r.subcmdResetDB(),
			r.subcmdDowngrade(),
			r.subcmdCurrent(),
			r.subcmdCreateTables(),
			r.subcmdDeleteTables(),
			r.subcmdCreateBuckets(),
			r.subcmdDeleteBuckets(),
			r.subcmdCreateExecutive(),
		},
	}
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, "* "+format+"\n", args...)
}

// locked runs fn under the schema lock unless --no-lock was given.
func (r *Runner) locked(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.noLock {
		return fn(ctx)
	}
	return r.backend.WithLock(ctx, SchemaLockKey, fn)
}

func (r *Runner) revise(message string) error {
	rev, err := migration.Revise(r.migrationDir, message)
	if err != nil {
		return fmt.Errorf("revise: %w", err)
	}
	r.printf("Revision %06d created at %s", rev.Version, rev.UpPath)
	return nil
}

func (r *Runner) migrate(ctx context.Context) error {
	if err := r.backend.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	r.printf("Database migrated to head")
	return nil
}

func (r *Runner) subcmdRevise() *cli.Command {
	var message string

	return &cli.Command{
		Name:  "revise",
		Usage: "write a new migration revision",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:        "message",
				UsageText:   "<message>",
				Destination: &message,
				Min:         1,
				Max:         1,
			},
		},
		Action: func(_ context.Context, _ *cli.Command) error {
			return r.revise(message)
		},
	}
}

func (r *Runner) subcmdUpgrade() *cli.Command {
	var message string

	return &cli.Command{
		Name:  "upgrade",
		Usage: "migrate to head, write a revision and apply it",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:        "message",
				UsageText:   "[message]",
				Destination: &message,
				Min:         0,
				Max:         1,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			if message == "" {
				message = defaultUpgradeMessage
			}

			return r.locked(ctx, func(ctx context.Context) error {
				exists, err := migration.HasRevisions(r.migrationDir)
				if err != nil {
					return fmt.Errorf("upgrade: %w", err)
				}

				if !exists {
					r.printf("No revisions found, creating initial revision")
					if err := r.revise(initialMessage); err != nil {
						return err
					}
					return r.migrate(ctx)
				}

				if err := r.migrate(ctx); err != nil {
					return err
				}

				r.printf("Generating new revision for model changes...")
				if err := r.revise(message); err != nil {
					return err
				}

				if err := r.migrate(ctx); err != nil {
					return err
				}
				r.printf("Database upgraded to head")
				return nil
			})
		},
	}
}

func (r *Runner) subcmdMigrate() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply every pending revision",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return r.locked(ctx, r.migrate)
		},
	}
}

func (r *Runner) subcmdResetDB() *cli.Command {
	return &cli.Command{
		Name:  "reset_db",
		Usage: "drop the public schema and migrate from scratch",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return r.locked(ctx, func(ctx context.Context) error {
				if err := r.backend.ResetSchema(ctx); err != nil {
					return fmt.Errorf("reset schema: %w", err)
				}
				r.printf("Database schema reset")

				return r.migrate(ctx)
			})
		},
	}
}

func (r *Runner) subcmdDowngrade() *cli.Command {
	return &cli.Command{
		Name:      "downgrade",
		Usage:     "revert the last N revisions (default 1)",
		UsageText: "downgrade [-N]",
		// "-1" must reach the action as an argument, not a flag.
		SkipFlagParsing: true,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			arg := cmd.Args().First()
			steps, err := migration.ParseSteps(arg)
			if err != nil {
				return fmt.Errorf("downgrade: %w", err)
			}

			return r.locked(ctx, func(ctx context.Context) error {
				if err := r.backend.Downgrade(ctx, steps); err != nil {
					return fmt.Errorf("downgrade: %w", err)
				}
				r.printf("Database downgraded to -%d", steps)
				return nil
			})
		},
	}
}

func (r *Runner) subcmdCurrent() *cli.Command {
	return &cli.Command{
		Name:  "current",
		Usage: "show the revision applied to the database",
		Action: func(ctx context.Context, _ *cli.Command) error {
			v, dirty, err := r.backend.Version(ctx)
			if err != nil {
				return fmt.Errorf("current: %w", err)
			}

			switch {
			case v == 0:
				r.printf("No revision applied")
			case dirty:
				r.printf("Current revision: %06d (dirty)", v)
			default:
				r.printf("Current revision: %06d", v)
			}
			return nil
		},
	}
}

func (r *Runner) subcmdCreateTables() *cli.Command {
	return &cli.Command{
		Name:  "create_tables",
		Usage: "create every table directly, bypassing migrations",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return r.locked(ctx, func(ctx context.Context) error {
				if err := r.backend.CreateTables(ctx); err != nil {
					return fmt.Errorf("create tables: %w", err)
				}
				r.printf("Tables created")
				return nil
			})
		},
	}
}

func (r *Runner) subcmdDeleteTables() *cli.Command {
	return &cli.Command{
		Name:  "delete_tables",
		Usage: "drop every table",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return r.locked(ctx, func(ctx context.Context) error {
				if err := r.backend.DropTables(ctx); err != nil {
					return fmt.Errorf("delete tables: %w", err)
				}
				r.printf("Tables deleted")
				return nil
			})
		},
	}
}

func (r *Runner) subcmdCreateBuckets() *cli.Command {
	return &cli.Command{
		Name:  "create_buckets",
		Usage: "create the object storage buckets",
		Action: func(ctx context.Context, _ *cli.Command) error {
			if err := r.backend.CreateBuckets(ctx); err != nil {
				return fmt.Errorf("create buckets: %w", err)
			}
			r.printf("Buckets created")
			return nil
		},
	}
}

func (r *Runner) subcmdDeleteBuckets() *cli.Command {
	return &cli.Command{
		Name:  "delete_buckets",
		Usage: "empty and remove the object storage buckets",
		Action: func(ctx context.Context, _ *cli.Command) error {
			if err := r.backend.DeleteBuckets(ctx); err != nil {
				return fmt.Errorf("delete buckets: %w", err)
			}
			r.printf("Buckets deleted")
			return nil
		},
	}
}

func (r *Runner) subcmdCreateExecutive() *cli.Command {
	var params executive.CreateParams

	return &cli.Command{
		Name:  "create_executive",
		Usage: "create an executive account",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:        "username",
				UsageText:   "<username>",
				Destination: &params.Username,
				Min:         1,
				Max:         1,
			},
			&cli.StringArg{
				Name:        "password",
				UsageText:   " <password>",
				Destination: &params.Password,
				Min:         1,
				Max:         1,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			e, err := r.backend.CreateExecutive(ctx, params)
			if err != nil {
				return fmt.Errorf("create executive: %w", err)
			}
			r.printf("Executive %s created with id %d", e.Username, e.ID)
			return nil
		},
	}
}
