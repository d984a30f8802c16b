// Package migrations applies golang-migrate migration directories.
package migrations

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Config selects the migration directory, the target database and the direction.
type Config struct {
	Dir         string
	DatabaseURL string
	// Steps migrates by a number of versions; negative values go down. Zero migrates fully.
	Steps int
	// Down reverts every migration when Steps is zero.
	Down bool
}

// SourceURL validates dir and returns its file:// source URL.
func SourceURL(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve migrations dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("stat migrations dir %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// Run applies cfg. A database already at the target version is not an error.
func Run(ctx context.Context, cfg Config, logger *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sourceURL, err := SourceURL(cfg.Dir)
	if err != nil {
		return err
	}

	m, err := migrate.New(sourceURL, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("migration source close error", zap.Error(srcErr))
		}
		if dbErr != nil {
			logger.Warn("migration database close error", zap.Error(dbErr))
		}
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			select {
			case m.GracefulStop <- true:
			default:
			}
		case <-done:
		}
	}()

	switch {
	case cfg.Steps != 0:
		err = m.Steps(cfg.Steps)
	case cfg.Down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to apply", zap.String("dir", cfg.Dir))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", cfg.Dir, err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	logger.Info("migrations applied",
		zap.String("dir", cfg.Dir),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}
