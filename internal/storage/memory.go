package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/paularlott/neollm/internal/botconfig"
)

type memoryConfig struct {
	data       []byte
	modifiedAt time.Time
}

// In-memory config storage
type MemoryStorage struct {
	mu      sync.RWMutex
	configs map[string]memoryConfig
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		configs: make(map[string]memoryConfig),
	}
}

func (s *MemoryStorage) Path(name string) (string, error) {
	name, err := CleanName(name)
	if err != nil {
		return "", err
	}
	return name + configExt, nil
}

func (s *MemoryStorage) Save(ctx context.Context, name string, content []byte) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	data, err := botconfig.Indent(content)
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	s.mu.Lock()
	s.configs[path] = memoryConfig{data: data, modifiedAt: time.Now().UTC()}
	s.mu.Unlock()
	return path, nil
}

func (s *MemoryStorage) Load(ctx context.Context, name string) ([]byte, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, exists := s.configs[path]
	if !exists {
		return nil, ErrConfigNotFound
	}
	return append([]byte(nil), cfg.data...), nil
}

func (s *MemoryStorage) Exists(ctx context.Context, name string) (bool, error) {
	path, err := s.Path(name)
	if err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.configs[path]
	return exists, nil
}

func (s *MemoryStorage) List(ctx context.Context) ([]ConfigInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	configs := make([]ConfigInfo, 0, len(s.configs))
	for path, cfg := range s.configs {
		configs = append(configs, ConfigInfo{
			Name:       path[:len(path)-len(configExt)],
			Size:       int64(len(cfg.data)),
			ModifiedAt: cfg.modifiedAt,
		})
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.configs[path]; !exists {
		return ErrConfigNotFound
	}
	delete(s.configs, path)
	return nil
}

func (s *MemoryStorage) Close() error {
	return nil // No-op for memory storage
}

// In-memory revision history
type MemoryHistory struct {
	mu        sync.RWMutex
	revisions map[string][]Revision
	ttl       time.Duration
}

func NewMemoryHistory(ttl time.Duration) *MemoryHistory {
	return &MemoryHistory{
		revisions: make(map[string][]Revision),
		ttl:       ttl,
	}
}

func (h *MemoryHistory) Record(ctx context.Context, rev *Revision) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.revisions[rev.Name] = append(h.revisions[rev.Name], *rev)
	return nil
}

func (h *MemoryHistory) List(ctx context.Context, name string, limit int) ([]Revision, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stored := h.revisions[name]
	revisions := make([]Revision, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		if h.expired(stored[i]) {
			continue
		}
		rev := stored[i]
		rev.Content = nil
		revisions = append(revisions, rev)
		if limit > 0 && len(revisions) >= limit {
			break
		}
	}
	return revisions, nil
}

func (h *MemoryHistory) Get(ctx context.Context, name, id string) (*Revision, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, rev := range h.revisions[name] {
		if rev.ID == id && !h.expired(rev) {
			return &rev, nil
		}
	}
	return nil, ErrRevisionNotFound
}

// RunGC drops expired revisions.
func (h *MemoryHistory) RunGC() error {
	if h.ttl <= 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for name, stored := range h.revisions {
		kept := stored[:0]
		for _, rev := range stored {
			if !h.expired(rev) {
				kept = append(kept, rev)
			}
		}
		if len(kept) == 0 {
			delete(h.revisions, name)
		} else {
			h.revisions[name] = kept
		}
	}
	return nil
}

func (h *MemoryHistory) Close() error {
	return nil
}

func (h *MemoryHistory) expired(rev Revision) bool {
	return h.ttl > 0 && time.Since(rev.SavedAt) > h.ttl
}
