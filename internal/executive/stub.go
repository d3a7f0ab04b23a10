package executive

import (
	"context"
	"errors"
)

type StubRepo struct {
	CreateFunc         func(ctx context.Context, e Executive) (Executive, error)
	FindByUsernameFunc func(ctx context.Context, username string) (*Executive, error)
}

var _ Repository = &StubRepo{}

func (r *StubRepo) Create(ctx context.Context, e Executive) (Executive, error) {
	if r.CreateFunc == nil {
		return Executive{}, errors.New("Create() not implemented by stub")
	}
	return r.CreateFunc(ctx, e)
}

func (r *StubRepo) FindByUsername(ctx context.Context, username string) (*Executive, error) {
	if r.FindByUsernameFunc == nil {
		return nil, errors.New("FindByUsername() not implemented by stub")
	}
	return r.FindByUsernameFunc(ctx, username)
}
