package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"blogapi/pkg/logger"
)

// ObjectName returns a collision free file name keeping the extension.
func ObjectName(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return uuid.NewString()
	}
	return uuid.NewString() + "." + ext
}

// LocalStore keeps files in a directory served under urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
	logger    logger.Logger
}

func NewLocalStore(dir, urlPrefix string, logger logger.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload directory could not be created: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		logger:    logger,
	}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	target := filepath.Join(s.dir, name)
	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("file could not be created: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("file could not be written: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("file could not be closed: %w", err)
	}

	s.logger.DebugContext(ctx, "Stored media file", map[string]interface{}{"path": target})

	return s.urlPrefix + "/" + name, nil
}

func (s *LocalStore) Remove(ctx context.Context, url string) error {
	name := path.Base(url)
	if name == "." || name == "/" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file could not be removed: %w", err)
	}
	return nil
}
