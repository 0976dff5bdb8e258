package theme

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"credit-console/internal/common/config"
	"credit-console/internal/common/database"
)

// Store persists one theme preference string. Load returns "" when nothing is stored.
type Store interface {
	Load(ctx context.Context) (Theme, error)
	Save(ctx context.Context, t Theme) error
}

// Stores hands out the Store that holds one browser's preference.
type Stores interface {
	For(browserID string) Store
}

// OpenStores builds the stores named by cfg.Theme.Store. The returned close func is never nil.
func OpenStores(ctx context.Context, cfg *config.Config) (Stores, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Theme.Store {
	case config.ThemeStoreMemory:
		return NewMemoryStores(), noop, nil
	case config.ThemeStoreRedis:
		client, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return nil, noop, err
		}
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return NewRedisStores(client, cfg.Theme.RedisKey), client.Close, nil
	case config.ThemeStoreFile, "":
		return NewFileStores(cfg.Theme.FilePath), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown theme store %q", cfg.Theme.Store)
	}
}

// MemoryStores keeps every browser's preference in process memory.
type MemoryStores struct {
	mu     sync.Mutex
	stores map[string]*MemoryStore
}

func NewMemoryStores() *MemoryStores {
	return &MemoryStores{stores: make(map[string]*MemoryStore)}
}

func (m *MemoryStores) For(browserID string) Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stores[browserID]
	if !ok {
		st = NewMemoryStore()
		m.stores[browserID] = st
	}
	return st
}

// FileStores writes one file per browser under dir.
type FileStores struct {
	dir string
}

func NewFileStores(dir string) *FileStores {
	return &FileStores{dir: dir}
}

// For expects an id without path separators; the console only issues uuids.
func (f *FileStores) For(browserID string) Store {
	return NewFileStore(filepath.Join(f.dir, filepath.Base(browserID)))
}

// RedisStores keys each browser as prefix:id.
type RedisStores struct {
	client *database.RedisClient
	prefix string
}

func NewRedisStores(client *database.RedisClient, prefix string) *RedisStores {
	return &RedisStores{client: client, prefix: prefix}
}

func (r *RedisStores) For(browserID string) Store {
	return NewRedisStore(r.client, r.prefix+":"+browserID)
}

type MemoryStore struct {
	mu    sync.Mutex
	value Theme
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) (Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, nil
}

func (m *MemoryStore) Save(_ context.Context, t Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = t
	return nil
}

// FileStore keeps the preference in a one-line file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(context.Context) (Theme, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read theme file: %w", err)
	}
	return Theme(strings.TrimSpace(string(data))), nil
}

func (f *FileStore) Save(_ context.Context, t Theme) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create theme dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(string(t)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write theme file: %w", err)
	}
	return os.Rename(tmp, f.path)
}

// RedisStore keeps one preference under key, shared between console replicas.
type RedisStore struct {
	client *database.RedisClient
	key    string
}

func NewRedisStore(client *database.RedisClient, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Load(ctx context.Context) (Theme, error) {
	v, err := r.client.Get(ctx, r.key)
	if database.IsNil(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return Theme(v), nil
}

func (r *RedisStore) Save(ctx context.Context, t Theme) error {
	if err := r.client.Set(ctx, r.key, string(t), 0); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}
