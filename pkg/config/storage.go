// pkg/config/storage.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// StorageConfig holds file storage locations and limits.
type StorageConfig struct {
	UploadDir     string // Where uploaded workbooks are kept
	ProcessedDir  string // Where transform outputs are written
	MaxUploadSize int64  // Upload size cap in bytes
	SQLiteName    string // File name of the combined output database
}

// LoadStorageConfig reads storage settings from environment variables.
func LoadStorageConfig() *StorageConfig {
	return &StorageConfig{
		UploadDir:     getEnv("UPLOAD_DIR", filepath.Join("data", "uploads")),
		ProcessedDir:  getEnv("PROCESSED_DIR", filepath.Join("data", "processed")),
		MaxUploadSize: getEnvAsInt64("MAX_UPLOAD_SIZE", 100*1024*1024),
		SQLiteName:    getEnv("SQLITE_NAME", "etl.sqlite"),
	}
}

// Validate ensures the storage settings are usable.
func (s *StorageConfig) Validate() error {
	if s.UploadDir == "" {
		return errors.New("upload directory cannot be empty")
	}
	if s.ProcessedDir == "" {
		return errors.New("processed directory cannot be empty")
	}
	if s.MaxUploadSize <= 0 {
		return errors.New("max upload size must be positive")
	}
	if s.SQLiteName == "" {
		return errors.New("sqlite file name cannot be empty")
	}
	return nil
}

// EnsureDirs creates the upload and processed directories if needed.
func (s *StorageConfig) EnsureDirs() error {
	for _, dir := range []string{s.UploadDir, s.ProcessedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
