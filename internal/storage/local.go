package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/buzzline/backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BlobStore saves uploaded files and returns addressable paths
type BlobStore interface {
	SaveFile(file *multipart.FileHeader, subdir string) (string, error)
}

// LocalStorage stores uploads on the local filesystem
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// SaveFile writes the upload under basePath/subdir with a collision-free
// name and returns the relative path.
func (s *LocalStorage) SaveFile(file *multipart.FileHeader, subdir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.New().String() + filepath.Ext(file.Filename)
	relPath := filepath.Join(subdir, name)
	fullPath := filepath.Join(s.basePath, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("saving file: %w", err)
	}

	logger.Log.Info("file stored", zap.String("path", fullPath))
	return relPath, nil
}
