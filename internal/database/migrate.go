package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	}
	return "", fmt.Errorf("direction must be 'up' or 'down', got %q", s)
}

// MigrationFiles lists the embedded migration files for direction in the
// order they are applied.
func MigrationFiles(direction Direction) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migration directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), fmt.Sprintf(".%s.sql", direction)) {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)
	if direction == Down {
		for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
			files[i], files[j] = files[j], files[i]
		}
	}

	return files, nil
}

// Migrate executes every embedded migration for direction. onApply, when not
// nil, is called with each file name before it runs.
func Migrate(ctx context.Context, db *sql.DB, direction Direction, onApply func(name string)) (int, error) {
	files, err := MigrationFiles(direction)
	if err != nil {
		return 0, err
	}

	for _, filename := range files {
		content, err := migrationFS.ReadFile("migrations/" + filename)
		if err != nil {
			return 0, fmt.Errorf("read migration file %s: %w", filename, err)
		}

		if onApply != nil {
			onApply(filename)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return 0, fmt.Errorf("execute migration %s: %w", filename, err)
		}
	}

	return len(files), nil
}
