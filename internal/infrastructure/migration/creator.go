package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"

	// versionWidth matches the zero-padded prefix of the files in migrations/
	versionWidth = 6
)

var (
	nonWord    = regexp.MustCompile(`[^a-z0-9]+`)
	versionRef = regexp.MustCompile(`^(\d+)_`)
)

// MigrationFile describes a generated up/down pair
type MigrationFile struct {
	Version  string
	Name     string
	UpPath   string
	DownPath string
}

// CreateMigration writes an empty up/down pair numbered after the highest
// version already in dir
func CreateMigration(dir, name, description string) (*MigrationFile, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	next, err := nextVersion(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	version := fmt.Sprintf("%0*d", versionWidth, next)
	base := version + "_" + slug

	mf := &MigrationFile{
		Version:  version,
		Name:     slug,
		UpPath:   filepath.Join(dir, base+upSuffix),
		DownPath: filepath.Join(dir, base+downSuffix),
	}

	header := fmt.Sprintf("-- %s\n-- Created: %s\n", slug, time.Now().UTC().Format(time.RFC3339))
	if description != "" {
		header += "-- " + description + "\n"
	}

	if err := writeNew(mf.UpPath, header+"\n"); err != nil {
		return nil, err
	}
	if err := writeNew(mf.DownPath, header+"-- rollback\n\n"); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

// ListMigrations returns the base names of the up migrations in fsys, in
// version order
func ListMigrations(fsys fs.FS) ([]string, error) {
	matches, err := fs.Glob(fsys, "*"+upSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(m, upSuffix))
	}
	// fs.Glob returns lexical order, which the zero padding makes numeric
	return names, nil
}

func nextVersion(fsys fs.FS) (int, error) {
	names, err := ListMigrations(fsys)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, err
	}
	highest := 0
	for _, n := range names {
		match := versionRef.FindStringSubmatch(n)
		if match == nil {
			continue
		}
		v, err := strconv.Atoi(match[1])
		if err == nil && v > highest {
			highest = v
		}
	}
	return highest + 1, nil
}

func writeNew(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// sanitizeName lowercases name and joins its words with underscores
func sanitizeName(name string) string {
	return strings.Trim(nonWord.ReplaceAllString(strings.ToLower(name), "_"), "_")
}
