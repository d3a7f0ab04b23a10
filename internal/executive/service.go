package executive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/nixbug/entebus-server/internal/enum"
	"github.com/nixbug/entebus-server/internal/pkg/security"
	"github.com/nixbug/entebus-server/internal/pkg/validation"
)

var ErrInvalidInput = errors.New("invalid executive details")

// ValidationError lists the rejected fields of a CreateParams.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		msgs = append(msgs, e.Fields[k])
	}
	return "invalid executive details: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

type Service interface {
	Create(ctx context.Context, params CreateParams) (Executive, error)
}

type service struct {
	repo      Repository
	hasher    security.Hasher
	validator validation.Validator
}

var _ Service = (*service)(nil)

func NewService(repo Repository, hasher security.Hasher, validator validation.Validator) Service {
	return &service{
		repo:      repo,
		hasher:    hasher,
		validator: validator,
	}
}

// Create stores a new active executive with a hashed password. A username
// that is already taken yields ErrExists.
func (s *service) Create(ctx context.Context, params CreateParams) (Executive, error) {
	if errs := s.validator.ValidateStruct(params); len(errs) > 0 {
		return Executive{}, &ValidationError{Fields: errs}
	}

	switch _, err := s.repo.FindByUsername(ctx, params.Username); {
	case err == nil:
		return Executive{}, fmt.Errorf("create executive %s: %w", params.Username, ErrExists)
	case !errors.Is(err, ErrNotFound):
		return Executive{}, fmt.Errorf("check executive %s: %w", params.Username, err)
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return Executive{}, fmt.Errorf("hash password: %w", err)
	}

	e, err := s.repo.Create(ctx, Executive{
		Username:    params.Username,
		Password:    hash,
		Gender:      enum.GenderOther,
		FullName:    params.FullName,
		Designation: params.Designation,
		Status:      enum.AccountActive,
	})
	if err != nil {
		return Executive{}, err
	}

	slog.Info("Executive created.", "id", e.ID, slog.Any("params", params))
	return e, nil
}
