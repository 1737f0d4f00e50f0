package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campus-assistant-go/internal/config"
	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Storage interface defines operations over flat string-keyed JSON blobs
type Storage interface {
	// Blob operations
	Load(ctx context.Context, key Key, v interface{}) (bool, error)
	Save(ctx context.Context, key Key, v interface{}) error
	Delete(ctx context.Context, key Key) error

	// User state operations (short-lived flags such as in-flight guards)
	GetUserState(ctx context.Context, userName, key string) (string, error)
	SetUserState(ctx context.Context, userName, key, value string) error
	DeleteUserState(ctx context.Context, userName, key string) error
}

// Manager fronts the configured storage backend. Write failures are logged
// and swallowed so the application degrades to in-memory-only operation for
// the session instead of surfacing storage errors to callers.
type Manager struct {
	storage     Storage
	logger      *logrus.Logger
	redisClient *redis.Client
}

// NewManager creates a new storage manager
func NewManager(cfg *config.Config, logger *logrus.Logger) (*Manager, error) {
	manager := &Manager{
		logger: logger,
	}

	switch cfg.Storage.Type {
	case "redis":
		redisStorage, err := NewRedisStorage(cfg, logger)
		if err != nil {
			return nil, err
		}
		manager.storage = redisStorage
		manager.redisClient = redisStorage.client
	case "memory":
		manager.storage = NewMemoryStorage(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}

	return manager, nil
}

// NewManagerWith wraps an existing backend, used by tests and seeding
func NewManagerWith(s Storage, logger *logrus.Logger) *Manager {
	return &Manager{storage: s, logger: logger}
}

// Load reads a JSON blob into v and reports whether the key existed.
// Read failures are logged and reported as absence.
func (m *Manager) Load(ctx context.Context, key Key, v interface{}) bool {
	if key == "" {
		return false
	}
	found, err := m.storage.Load(ctx, key, v)
	if err != nil {
		m.logger.WithError(err).WithField("key", string(key)).Error("Failed to load blob")
		return false
	}
	return found
}

// Save writes a JSON blob. A failed write is logged and dropped.
func (m *Manager) Save(ctx context.Context, key Key, v interface{}) {
	if key == "" {
		return
	}
	if err := m.storage.Save(ctx, key, v); err != nil {
		m.logger.WithError(err).WithField("key", string(key)).Error("Failed to save blob")
	}
}

// Delete removes a blob. A failed delete is logged and dropped.
func (m *Manager) Delete(ctx context.Context, key Key) {
	if key == "" {
		return
	}
	if err := m.storage.Delete(ctx, key); err != nil {
		m.logger.WithError(err).WithField("key", string(key)).Error("Failed to delete blob")
	}
}

func (m *Manager) GetUserState(ctx context.Context, userName, key string) (string, error) {
	return m.storage.GetUserState(ctx, userName, key)
}

func (m *Manager) SetUserState(ctx context.Context, userName, key, value string) error {
	return m.storage.SetUserState(ctx, userName, key, value)
}

func (m *Manager) DeleteUserState(ctx context.Context, userName, key string) error {
	return m.storage.DeleteUserState(ctx, userName, key)
}

// GetRedisClient returns the Redis client if available
func (m *Manager) GetRedisClient() *redis.Client {
	return m.redisClient
}

// RedisStorage implements storage using Redis
type RedisStorage struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisStorage(cfg *config.Config, logger *logrus.Logger) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Storage.Redis.Addr,
		Password: cfg.Storage.Redis.Password,
		DB:       cfg.Storage.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStorage{
		client: client,
		logger: logger,
	}, nil
}

func (r *RedisStorage) Load(ctx context.Context, key Key, v interface{}) (bool, error) {
	data, err := r.client.Get(ctx, string(key)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisStorage) Save(ctx context.Context, key Key, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, string(key), data, 0).Err() // Blobs never expire
}

func (r *RedisStorage) Delete(ctx context.Context, key Key) error {
	return r.client.Del(ctx, string(key)).Err()
}

func (r *RedisStorage) GetUserState(ctx context.Context, userName, key string) (string, error) {
	stateKey := fmt.Sprintf("user_state:%s:%s", NormalizeUserName(userName), key)
	value, err := r.client.Get(ctx, stateKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	return value, err
}

func (r *RedisStorage) SetUserState(ctx context.Context, userName, key, value string) error {
	stateKey := fmt.Sprintf("user_state:%s:%s", NormalizeUserName(userName), key)
	// Set with 1 hour expiration for state data
	return r.client.Set(ctx, stateKey, value, time.Hour).Err()
}

func (r *RedisStorage) DeleteUserState(ctx context.Context, userName, key string) error {
	stateKey := fmt.Sprintf("user_state:%s:%s", NormalizeUserName(userName), key)
	return r.client.Del(ctx, stateKey).Err()
}

// MemoryStorage implements storage using an in-memory cache. Blobs are held
// as marshaled JSON so loads observe the same serialization boundary as Redis.
type MemoryStorage struct {
	blobs      *cache.Cache
	userStates *cache.Cache
	logger     *logrus.Logger
}

func NewMemoryStorage(cfg *config.Config, logger *logrus.Logger) *MemoryStorage {
	return &MemoryStorage{
		blobs:      cache.New(cache.NoExpiration, cache.NoExpiration),
		userStates: cache.New(time.Hour, 10*time.Minute),
		logger:     logger,
	}
}

func (m *MemoryStorage) Load(ctx context.Context, key Key, v interface{}) (bool, error) {
	val, found := m.blobs.Get(string(key))
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(val.([]byte), v); err != nil {
		return false, err
	}
	return true, nil
}

func (m *MemoryStorage) Save(ctx context.Context, key Key, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.blobs.Set(string(key), data, cache.NoExpiration)
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, key Key) error {
	m.blobs.Delete(string(key))
	return nil
}

func (m *MemoryStorage) GetUserState(ctx context.Context, userName, key string) (string, error) {
	stateKey := fmt.Sprintf("user_state:%s:%s", NormalizeUserName(userName), key)
	if val, found := m.userStates.Get(stateKey); found {
		return val.(string), nil
	}
	return "", nil
}

func (m *MemoryStorage) SetUserState(ctx context.Context, userName, key, value string) error {
	stateKey := fmt.Sprintf("user_state:%s:%s", NormalizeUserName(userName), key)
	m.userStates.SetDefault(stateKey, value)
	return nil
}

func (m *MemoryStorage) DeleteUserState(ctx context.Context, userName, key string) error {
	stateKey := fmt.Sprintf("user_state:%s:%s", NormalizeUserName(userName), key)
	m.userStates.Delete(stateKey)
	return nil
}
