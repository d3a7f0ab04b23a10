// Package schema renders and applies the PostGIS database schema.
package schema

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nixbug/entebus-server/internal/db"
)

const (
	createExtension = "CREATE EXTENSION IF NOT EXISTS postgis"
	resetSchema     = "DROP SCHEMA public CASCADE; CREATE SCHEMA public;"
)

// CreateStatement returns the CREATE TABLE statement of t.
func (t Table) CreateStatement() string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(t.Columns, ",\n\t"))
}

func (t Table) DropStatement() string {
	return "DROP TABLE IF EXISTS " + t.Name + " CASCADE"
}

// CreateStatements lists every statement needed to build the schema from an
// empty database, in execution order.
func CreateStatements() []string {
	stmts := []string{createExtension}
	for _, t := range Tables() {
		stmts = append(stmts, t.CreateStatement())
		stmts = append(stmts, t.Indexes...)
	}
	return stmts
}

// DropStatements lists the statements that remove every table, dependents first.
func DropStatements() []string {
	tables := Tables()
	stmts := make([]string, 0, len(tables))
	for i := len(tables) - 1; i >= 0; i-- {
		stmts = append(stmts, tables[i].DropStatement())
	}
	return stmts
}

func CreateTables(ctx context.Context, exec db.Executor) error {
	for _, stmt := range CreateStatements() {
		if _, err := exec.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	slog.Info("Tables created.", "count", len(Tables()))
	return nil
}

func DropTables(ctx context.Context, exec db.Executor) error {
	for _, stmt := range DropStatements() {
		if _, err := exec.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}
	slog.Info("Tables dropped.", "count", len(Tables()))
	return nil
}

// ResetSchema drops the public schema with everything in it and recreates it empty.
func ResetSchema(ctx context.Context, exec db.Executor) error {
	if _, err := exec.ExecContext(ctx, resetSchema); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}
	return nil
}

// UpSQL renders the full schema as the body of a migration.
func UpSQL() string {
	return render(CreateStatements())
}

func DownSQL() string {
	return render(DropStatements())
}

func render(stmts []string) string {
	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(s)
		b.WriteString(";\n\n")
	}
	return b.String()
}
