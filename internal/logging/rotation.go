package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"kmapi/internal/config"
)

const (
	defaultLogSizeMB = 10
	defaultLogFiles  = 5
)

// fileSink opens cfg.File for appending. The file is rotated at MaxSizeMB and old
// generations are pruned by count (MaxFiles) and by age (MaxAgeDays, 0 keeps them).
func fileSink(cfg config.LogConfig) (*lumberjack.Logger, error) {
	if cfg.File == "" {
		return nil, errors.New("LOG_FILE is empty")
	}
	if cfg.MaxAgeDays < 0 {
		return nil, fmt.Errorf("LOG_MAX_AGE_DAYS must not be negative, got %d", cfg.MaxAgeDays)
	}

	size := cfg.MaxSizeMB
	if size <= 0 {
		size = defaultLogSizeMB
	}
	files := cfg.MaxFiles
	if files <= 0 {
		files = defaultLogFiles
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    size,
		MaxBackups: files,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}, nil
}
