package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/paularlott/neollm/internal/botconfig"
)

const configExt = ".json"

// FileStorage keeps each config as {name}.json in a directory.
type FileStorage struct {
	dir string
	mu  sync.Mutex
}

// NewFileStorage creates dir if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) Dir() string {
	return s.dir
}

func (s *FileStorage) Path(name string) (string, error) {
	name, err := CleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+configExt), nil
}

// Save re-indents content with two spaces before writing it.
func (s *FileStorage) Save(ctx context.Context, name string, content []byte) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}

	data, err := botconfig.Indent(content)
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}

func (s *FileStorage) Load(ctx context.Context, name string) ([]byte, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return data, nil
}

func (s *FileStorage) Exists(ctx context.Context, name string) (bool, error) {
	path, err := s.Path(name)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat config: %w", err)
	}
	return true, nil
}

// List returns the saved configs sorted by name.
func (s *FileStorage) List(ctx context.Context) ([]ConfigInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list configs: %w", err)
	}

	configs := []ConfigInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), configExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue // Removed while listing
		}
		configs = append(configs, ConfigInfo{
			Name:       strings.TrimSuffix(entry.Name(), configExt),
			Size:       info.Size(),
			ModifiedAt: info.ModTime().UTC(),
		})
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs, nil
}

func (s *FileStorage) Delete(ctx context.Context, name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrConfigNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete config: %w", err)
	}
	return nil
}

func (s *FileStorage) Close() error {
	return nil
}
