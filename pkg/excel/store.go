// pkg/excel/store.go
package excel

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bomdash/bom-ingress/pkg/config"
)

// ErrNotFound is returned when no workbook exists for a handle.
var ErrNotFound = errors.New("workbook not found")

// Store persists uploaded workbooks under opaque handles. Files are kept as
// <dir>/<uuid>.xlsx; the handle is the uuid string.
type Store struct {
	dir     string
	maxSize int64
	logger  *zap.Logger
}

// NewStore creates a store rooted at the configured upload directory.
func NewStore(cfg *config.StorageConfig, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{
		dir:     cfg.UploadDir,
		maxSize: cfg.MaxUploadSize,
		logger:  logger,
	}, nil
}

// Save validates and persists workbook bytes, returning the new handle.
// The upload is rejected when it exceeds the size cap, does not carry an
// .xlsx name, or cannot be opened as a workbook.
func (s *Store) Save(data []byte, filename string) (string, error) {
	if int64(len(data)) > s.maxSize {
		return "", fmt.Errorf("upload exceeds size limit of %d bytes", s.maxSize)
	}
	if !strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return "", fmt.Errorf("unsupported file type %q, expected .xlsx", filepath.Ext(filename))
	}

	handle := uuid.New().String()
	path := filepath.Join(s.dir, handle+".xlsx")

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to persist upload: %w", err)
	}

	// Reject files that are not actually workbooks.
	wb, err := OpenWorkbookFile(path)
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("invalid workbook: %w", err)
	}
	sheets := wb.SheetNames()
	_ = wb.Close()

	s.logger.Info("Stored uploaded workbook",
		zap.String("handle", handle),
		zap.String("original_name", filename),
		zap.Int("size_bytes", len(data)),
		zap.Strings("sheets", sheets))

	return handle, nil
}

// Path resolves a handle to its on-disk location.
func (s *Store) Path(handle string) (string, error) {
	if _, err := uuid.Parse(handle); err != nil {
		return "", fmt.Errorf("invalid handle format: %w", err)
	}

	path := filepath.Join(s.dir, handle+".xlsx")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to stat workbook: %w", err)
	}
	return path, nil
}

// Open resolves a handle and opens the stored workbook.
func (s *Store) Open(handle string) (*Reader, error) {
	path, err := s.Path(handle)
	if err != nil {
		return nil, err
	}
	return OpenWorkbookFile(path)
}
