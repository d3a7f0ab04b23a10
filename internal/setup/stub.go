package setup

import (
	"context"

	"github.com/nixbug/entebus-server/internal/executive"
)

type StubBackend struct {
	MigrateFunc         func(ctx context.Context) error
	DowngradeFunc       func(ctx context.Context, steps int) error
	VersionFunc         func(ctx context.Context) (uint, bool, error)
	ResetSchemaFunc     func(ctx context.Context) error
	CreateTablesFunc    func(ctx context.Context) error
	DropTablesFunc      func(ctx context.Context) error
	CreateBucketsFunc   func(ctx context.Context) error
	DeleteBucketsFunc   func(ctx context.Context) error
	CreateExecutiveFunc func(ctx context.Context, params executive.CreateParams) (executive.Executive, error)
	WithLockFunc        func(ctx context.Context, key string, fn func(ctx context.Context) error) error
	CloseFunc           func() error
}

var _ Backend = &StubBackend{}

func (s *StubBackend) Migrate(ctx context.Context) error {
	if s.MigrateFunc == nil {
		panic("Migrate() not implemented by stub")
	}
	return s.MigrateFunc(ctx)
}

func (s *StubBackend) Downgrade(ctx context.Context, steps int) error {
	if s.DowngradeFunc == nil {
		panic("Downgrade() not implemented by stub")
	}
	return s.DowngradeFunc(ctx, steps)
}

func (s *StubBackend) Version(ctx context.Context) (uint, bool, error) {
	if s.VersionFunc == nil {
		panic("Version() not implemented by stub")
	}
	return s.VersionFunc(ctx)
}

func (s *StubBackend) ResetSchema(ctx context.Context) error {
	if s.ResetSchemaFunc == nil {
		panic("ResetSchema() not implemented by stub")
	}
	return s.ResetSchemaFunc(ctx)
}

func (s *StubBackend) CreateTables(ctx context.Context) error {
	if s.CreateTablesFunc == nil {
		panic("CreateTables() not implemented by stub")
	}
	return s.CreateTablesFunc(ctx)
}

func (s *StubBackend) DropTables(ctx context.Context) error {
	if s.DropTablesFunc == nil {
		panic("DropTables() not implemented by stub")
	}
	return s.DropTablesFunc(ctx)
}

func (s *StubBackend) CreateBuckets(ctx context.Context) error {
	if s.CreateBucketsFunc == nil {
		panic("CreateBuckets() not implemented by stub")
	}
	return s.CreateBucketsFunc(ctx)
}

func (s *StubBackend) DeleteBuckets(ctx context.Context) error {
	if s.DeleteBucketsFunc == nil {
		panic("DeleteBuckets() not implemented by stub")
	}
	return s.DeleteBucketsFunc(ctx)
}

func (s *StubBackend) CreateExecutive(ctx context.Context, params executive.CreateParams) (executive.Executive, error) {
	if s.CreateExecutiveFunc == nil {
		panic("CreateExecutive() not implemented by stub")
	}
	return s.CreateExecutiveFunc(ctx, params)
}

// WithLock runs fn directly when WithLockFunc is unset.
func (s *StubBackend) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if s.WithLockFunc == nil {
		return fn(ctx)
	}
	return s.WithLockFunc(ctx, key, fn)
}

func (s *StubBackend) Close() error {
	if s.CloseFunc == nil {
		return nil
	}
	return s.CloseFunc()
}
