package fs

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"inkwell-feed-service/internal/custom_errors"
	"inkwell-feed-service/internal/logger"
)

type Storage struct {
	root string
	log  *logger.Logger
}

func NewStorage(root string, log *logger.Logger) *Storage {
	return &Storage{root: root, log: log}
}

func (s *Storage) Save(ctx context.Context, name string, data []byte) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		s.log.Error("Failed to create media directory", slog.String("path", full), slog.String("error", err.Error()))
		return "", custom_errors.ErrMediaSave
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		s.log.Error("Failed to write media file", slog.String("path", full), slog.String("error", err.Error()))
		return "", custom_errors.ErrMediaSave
	}

	return name, nil
}
