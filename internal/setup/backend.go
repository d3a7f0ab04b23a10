package setup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/nixbug/entebus-server/internal/cache"
	"github.com/nixbug/entebus-server/internal/config"
	"github.com/nixbug/entebus-server/internal/db"
	"github.com/nixbug/entebus-server/internal/executive"
	"github.com/nixbug/entebus-server/internal/lock"
	"github.com/nixbug/entebus-server/internal/migration"
	"github.com/nixbug/entebus-server/internal/pkg/security"
	"github.com/nixbug/entebus-server/internal/pkg/validation"
	"github.com/nixbug/entebus-server/internal/schema"
	"github.com/nixbug/entebus-server/internal/storage"
)

// Backend is the set of operations the setup commands drive.
type Backend interface {
	Migrate(ctx context.Context) error
	Downgrade(ctx context.Context, steps int) error
	Version(ctx context.Context) (version uint, dirty bool, err error)
	ResetSchema(ctx context.Context) error
	CreateTables(ctx context.Context) error
	DropTables(ctx context.Context) error
	CreateBuckets(ctx context.Context) error
	DeleteBuckets(ctx context.Context) error
	CreateExecutive(ctx context.Context, params executive.CreateParams) (executive.Executive, error)
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
	Close() error
}

// liveBackend connects to Postgres, Redis and MinIO on first use.
type liveBackend struct {
	cfg   *config.Config
	db    *sql.DB
	redis *redis.Client
	store *storage.Store
}

var _ Backend = (*liveBackend)(nil)

func NewBackend(cfg *config.Config) Backend {
	return &liveBackend{cfg: cfg}
}

func (b *liveBackend) conn(ctx context.Context) (*sql.DB, error) {
	if b.db == nil {
		conn, err := db.NewPostgresDB(ctx, b.cfg)
		if err != nil {
			return nil, err
		}
		b.db = conn
	}
	return b.db, nil
}

func (b *liveBackend) objectStore() (*storage.Store, error) {
	if b.store == nil {
		store, err := storage.NewMinIOStore(b.cfg)
		if err != nil {
			return nil, err
		}
		b.store = store
	}
	return b.store, nil
}

// migrator opens a dedicated connection because closing a migrator closes
// the database handle it was given.
func (b *liveBackend) migrator(ctx context.Context) (*migration.Migrator, error) {
	conn, err := db.NewPostgresDB(ctx, b.cfg)
	if err != nil {
		return nil, err
	}

	mg, err := migration.New(conn, b.cfg.Migration.Dir)
	if err != nil {
		return nil, errors.Join(err, conn.Close())
	}
	return mg, nil
}

func (b *liveBackend) Migrate(ctx context.Context) error {
	mg, err := b.migrator(ctx)
	if err != nil {
		return err
	}
	return errors.Join(mg.Up(), mg.Close())
}

func (b *liveBackend) Downgrade(ctx context.Context, steps int) error {
	mg, err := b.migrator(ctx)
	if err != nil {
		return err
	}
	return errors.Join(mg.Down(steps), mg.Close())
}

func (b *liveBackend) Version(ctx context.Context) (uint, bool, error) {
	mg, err := b.migrator(ctx)
	if err != nil {
		return 0, false, err
	}

	v, dirty, err := mg.Version()
	return v, dirty, errors.Join(err, mg.Close())
}

func (b *liveBackend) ResetSchema(ctx context.Context) error {
	conn, err := b.conn(ctx)
	if err != nil {
		return err
	}
	return schema.ResetSchema(ctx, conn)
}

func (b *liveBackend) CreateTables(ctx context.Context) error {
	conn, err := b.conn(ctx)
	if err != nil {
		return err
	}

	txMgr := db.NewSQLTxManager(conn)
	return txMgr.RunInTx(ctx, func(ctx context.Context) error {
		return schema.CreateTables(ctx, db.Conn(ctx, conn))
	})
}

func (b *liveBackend) DropTables(ctx context.Context) error {
	conn, err := b.conn(ctx)
	if err != nil {
		return err
	}

	txMgr := db.NewSQLTxManager(conn)
	return txMgr.RunInTx(ctx, func(ctx context.Context) error {
		return schema.DropTables(ctx, db.Conn(ctx, conn))
	})
}

func (b *liveBackend) CreateBuckets(ctx context.Context) error {
	store, err := b.objectStore()
	if err != nil {
		return err
	}
	return store.CreateAll(ctx)
}

func (b *liveBackend) DeleteBuckets(ctx context.Context) error {
	store, err := b.objectStore()
	if err != nil {
		return err
	}
	return store.DeleteAll(ctx)
}

func (b *liveBackend) CreateExecutive(ctx context.Context, params executive.CreateParams) (executive.Executive, error) {
	conn, err := b.conn(ctx)
	if err != nil {
		return executive.Executive{}, err
	}

	svc := executive.NewService(
		executive.NewRepository(conn),
		security.NewArgon2Hasher(b.cfg.Argon2, b.cfg.Env.App.SecurityKey),
		validation.NewGoPlaygroundValidator(),
	)
	return svc.Create(ctx, params)
}

func (b *liveBackend) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if b.redis == nil {
		client, err := cache.NewRedisClient(ctx, b.cfg)
		if err != nil {
			return err
		}
		b.redis = client
	}

	mu := lock.NewMutex(b.redis, lock.Options{
		Timeout:       b.cfg.Lock.Timeout.Duration,
		MaxWait:       b.cfg.Lock.MaxWait.Duration,
		RetryInterval: b.cfg.Lock.RetryInterval.Duration,
	})

	if err := mu.WithLock(ctx, key, fn); err != nil {
		return fmt.Errorf("with lock %s: %w", key, err)
	}
	return nil
}

func (b *liveBackend) Close() error {
	var errs []error
	if b.db != nil {
		errs = append(errs, b.db.Close())
	}
	if b.redis != nil {
		errs = append(errs, b.redis.Close())
	}
	return errors.Join(errs...)
}
