package migration

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
)

type stubRunner struct {
	UpFunc      func() error
	StepsFunc   func(n int) error
	VersionFunc func() (uint, bool, error)
	closed      bool
}

func (s *stubRunner) Up() error {
	if s.UpFunc == nil {
		panic("UpFunc not implemented by stub")
	}
	return s.UpFunc()
}

func (s *stubRunner) Steps(n int) error {
	if s.StepsFunc == nil {
		panic("StepsFunc not implemented by stub")
	}
	return s.StepsFunc(n)
}

func (s *stubRunner) Version() (uint, bool, error) {
	if s.VersionFunc == nil {
		panic("VersionFunc not implemented by stub")
	}
	return s.VersionFunc()
}

func (s *stubRunner) Close() (source, database error) {
	s.closed = true
	return nil, nil
}

func TestMigrator_Up(t *testing.T) {
	t.Parallel()

	errDirty := errors.New("Dirty database version 3")

	tests := []struct {
		name    string
		upErr   error
		wantErr error
	}{
		{"applies pending", nil, nil},
		{"nothing pending", migrate.ErrNoChange, nil},
		{"no revision files", fmt.Errorf("first: %w", os.ErrNotExist), nil},
		{"failure", errDirty, errDirty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mg := &Migrator{m: &stubRunner{UpFunc: func() error { return tt.upErr }}}
			if err := mg.Up(); !errors.Is(err, tt.wantErr) {
				t.Errorf("mg.Up() = %v, want: %v", err, tt.wantErr)
			}
		})
	}
}

func TestMigrator_Down(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		steps     int
		stepsErr  error
		wantSteps int
		wantErr   error
	}{
		{"one step", 1, nil, -1, nil},
		{"three steps", 3, nil, -3, nil},
		{"nothing applied", 1, migrate.ErrNoChange, -1, nil},
		{"too many", 5, migrate.ErrShortLimit{Short: 2}, -5, migrate.ErrShortLimit{Short: 2}},
		{"zero steps", 0, nil, 0, ErrInvalidSteps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotSteps int
			mg := &Migrator{m: &stubRunner{StepsFunc: func(n int) error {
				gotSteps = n
				return tt.stepsErr
			}}}

			if err := mg.Down(tt.steps); !errors.Is(err, tt.wantErr) {
				t.Errorf("mg.Down(%d) = %v, want: %v", tt.steps, err, tt.wantErr)
			}

			if gotSteps != tt.wantSteps {
				t.Errorf("Steps(n) n = %d, want: %d", gotSteps, tt.wantSteps)
			}
		})
	}
}

func TestMigrator_Version(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		version   uint
		dirty     bool
		err       error
		wantVer   uint
		wantDirty bool
		wantErr   bool
	}{
		{"applied", 4, false, nil, 4, false, false},
		{"dirty", 2, true, nil, 2, true, false},
		{"none applied", 0, false, migrate.ErrNilVersion, 0, false, false},
		{"failure", 0, false, errors.New("connection refused"), 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mg := &Migrator{m: &stubRunner{VersionFunc: func() (uint, bool, error) {
				return tt.version, tt.dirty, tt.err
			}}}

			v, dirty, err := mg.Version()
			if (err != nil) != tt.wantErr {
				t.Fatalf("mg.Version() err = %v, want error: %t", err, tt.wantErr)
			}

			if v != tt.wantVer || dirty != tt.wantDirty {
				t.Errorf("mg.Version() = %d, %t, want: %d, %t", v, dirty, tt.wantVer, tt.wantDirty)
			}
		})
	}
}

func TestMigrator_Close(t *testing.T) {
	t.Parallel()

	r := &stubRunner{}
	mg := &Migrator{m: r}
	if err := mg.Close(); err != nil {
		t.Errorf("mg.Close() = %v, want: nil", err)
	}

	if !r.closed {
		t.Error("runner was not closed")
	}
}
