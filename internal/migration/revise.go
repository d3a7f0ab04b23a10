package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/nixbug/entebus-server/internal/schema"
)

var (
	ErrInvalidSteps   = errors.New("steps must be a positive integer")
	ErrEmptyMessage   = errors.New("revision message is required")
	revisionFileRe    = regexp.MustCompile(`^(\d+)_.+\.(up|down)\.sql$`)
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9]+`)
	lineBreakReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// Revision names the pair of files written by Revise.
type Revision struct {
	Version  uint64
	UpPath   string
	DownPath string
}

// Revise writes the next numbered revision into dir. When dir holds no
// revision yet, the new revision creates the whole schema; later revisions
// are empty templates.
func Revise(dir, message string) (*Revision, error) {
	slug := Slug(message)
	if slug == "" {
		return nil, ErrEmptyMessage
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create migrations dir %s: %w", dir, err)
	}

	latest, err := latestVersion(dir)
	if err != nil {
		return nil, err
	}

	header := sqlComment(message)
	up, down := header, header
	if latest == 0 {
		up += schema.UpSQL()
		down += schema.DownSQL()
	}

	rev := &Revision{Version: latest + 1}
	base := fmt.Sprintf("%06d_%s", rev.Version, slug)
	rev.UpPath = filepath.Join(dir, base+".up.sql")
	rev.DownPath = filepath.Join(dir, base+".down.sql")

	if err := os.WriteFile(rev.UpPath, []byte(up), 0o600); err != nil {
		return nil, fmt.Errorf("write revision %s: %w", rev.UpPath, err)
	}

	if err := os.WriteFile(rev.DownPath, []byte(down), 0o600); err != nil {
		return nil, fmt.Errorf("write revision %s: %w", rev.DownPath, err)
	}

	slog.Info("Revision created.", "version", rev.Version, "up", rev.UpPath, "down", rev.DownPath)
	return rev, nil
}

// sqlComment renders message as SQL line comments, one per line, so that
// no part of it is executed.
func sqlComment(message string) string {
	message = lineBreakReplacer.Replace(message)

	var b strings.Builder
	for _, line := range strings.Split(message, "\n") {
		b.WriteString(strings.TrimRight("-- "+line, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// HasRevisions reports whether dir contains at least one revision file.
func HasRevisions(dir string) (bool, error) {
	v, err := latestVersion(dir)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return v > 0, err
}

func latestVersion(dir string) (uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read migrations dir %s: %w", dir, err)
	}

	var latest uint64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		m := revisionFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}

		v, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse revision version %s: %w", e.Name(), err)
		}
		latest = max(latest, v)
	}

	return latest, nil
}

// Slug lowercases message and collapses every run of other characters into
// a single underscore.
func Slug(message string) string {
	s := nonAlphanumericRe.ReplaceAllString(strings.ToLower(message), "_")
	return strings.Trim(s, "_")
}

// ParseSteps accepts "N" or "-N" and returns N. An empty string means one step.
func ParseSteps(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}

	n, err := strconv.Atoi(strings.TrimPrefix(s, "-"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("parse steps %q: %w", s, ErrInvalidSteps)
	}
	return n, nil
}
