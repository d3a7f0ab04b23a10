package executive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nixbug/entebus-server/internal/db"
)

var (
	ErrNotFound    = errors.New("executive repository: executive not found")
	ErrExists      = errors.New("executive repository: username already exists")
	ErrQueryFailed = errors.New("executive repository: query failed")
)

const codeUniqueViolation = "23505"

type Repository interface {
	Create(ctx context.Context, e Executive) (Executive, error)
	FindByUsername(ctx context.Context, username string) (*Executive, error)
}

type repository struct {
	db db.Executor
}

var _ Repository = (*repository)(nil)

func NewRepository(exec db.Executor) Repository {
	return &repository{db: exec}
}

const QueryCreate = `
INSERT INTO executive (username, password, gender, full_name, designation, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_on
`

func (r *repository) Create(ctx context.Context, e Executive) (Executive, error) {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx, QueryCreate,
		e.Username, e.Password, e.Gender, e.FullName, e.Designation, e.Status)

	if err := row.Scan(&e.ID, &e.CreatedOn); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
			return e, fmt.Errorf("create executive %s: %w", e.Username, ErrExists)
		}
		return e, fmt.Errorf("%w: create executive %s: %v", ErrQueryFailed, e.Username, err)
	}

	return e, nil
}

const QueryFindByUsername = `
SELECT id, username, password, gender, full_name, designation, status, created_on
FROM executive
WHERE username = $1
LIMIT 1
`

func (r *repository) FindByUsername(ctx context.Context, username string) (*Executive, error) {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx, QueryFindByUsername, username)

	var e Executive
	if err := row.Scan(&e.ID, &e.Username, &e.Password, &e.Gender, &e.FullName, &e.Designation, &e.Status, &e.CreatedOn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find executive %s: %v", ErrQueryFailed, username, err)
	}

	return &e, nil
}
