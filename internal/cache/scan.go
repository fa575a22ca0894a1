package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/nivedm/datasentry/internal/dataset"
)

// ScanCache handles Redis-based caching of per-cell scan outcomes.
// Detection is deterministic, so entries are safe to share across runs.
type ScanCache struct {
	client *redis.Client
	config *Config
	logger *zap.Logger
	stats  *cacheStats
}

// cacheStats tracks cache performance counters
type cacheStats struct {
	hits   int64
	misses int64
}

// NewScanCache creates a new Redis-based scan cache
func NewScanCache(config *Config, logger *zap.Logger) (*ScanCache, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = config.MaxConnections
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)

	cache := &ScanCache{
		client: client,
		config: config,
		logger: logger,
		stats:  &cacheStats{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Scan cache initialized successfully",
		zap.String("redis_url", maskRedisURL(config.RedisURL)),
		zap.Int("max_connections", config.MaxConnections),
		zap.Duration("default_ttl", config.DefaultTTL))

	return cache, nil
}

// Get looks up the cached scan for a cell value.
func (sc *ScanCache) Get(ctx context.Context, text string) (*dataset.Scan, bool) {
	key := sc.key(text)

	data, err := sc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		sc.stats.misses++
		return nil, false
	} else if err != nil {
		sc.logger.Error("Cache lookup failed", zap.Error(err))
		return nil, false
	}

	var scan dataset.Scan
	if err := json.Unmarshal([]byte(data), &scan); err != nil {
		sc.logger.Error("Failed to unmarshal cached scan", zap.Error(err))
		// Drop the corrupted entry so it is recomputed next time.
		sc.client.Del(ctx, key)
		return nil, false
	}

	sc.stats.hits++
	sc.logger.Debug("Cache hit", zap.String("key", key))
	return &scan, true
}

// Put stores the scan outcome for a cell value. Failures are logged and
// otherwise ignored, since the cache is an optimization only.
func (sc *ScanCache) Put(ctx context.Context, text string, scan *dataset.Scan) {
	data, err := json.Marshal(scan)
	if err != nil {
		sc.logger.Error("Failed to marshal scan for caching", zap.Error(err))
		return
	}

	if err := sc.client.Set(ctx, sc.key(text), data, sc.config.DefaultTTL).Err(); err != nil {
		sc.logger.Error("Failed to cache scan", zap.Error(err))
	}
}

// GetStats returns cache performance statistics
func (sc *ScanCache) GetStats(ctx context.Context) (*Stats, error) {
	info, err := sc.client.Info(ctx, "memory", "stats").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get Redis info: %w", err)
	}

	stats := &Stats{
		Hits:   sc.stats.hits,
		Misses: sc.stats.misses,
	}

	total := stats.Hits + stats.Misses
	if total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}

	for _, line := range strings.Split(info, "\r\n") {
		if strings.HasPrefix(line, "used_memory:") {
			if mem, err := strconv.ParseInt(strings.TrimPrefix(line, "used_memory:"), 10, 64); err == nil {
				stats.MemoryUsage = mem
			}
		}
	}

	if keys, err := sc.client.DBSize(ctx).Result(); err == nil {
		stats.TotalKeys = keys
	}

	return stats, nil
}

// Clear removes all cached scans under this cache's key prefix.
func (sc *ScanCache) Clear(ctx context.Context) error {
	pattern := sc.config.KeyPrefix + "*"

	iter := sc.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	batchSize := 100
	for i := 0; i < len(keys); i += batchSize {
		end := i + batchSize
		if end > len(keys) {
			end = len(keys)
		}
		if err := sc.client.Del(ctx, keys[i:end]...).Err(); err != nil {
			return fmt.Errorf("failed to delete cache keys: %w", err)
		}
	}

	sc.logger.Info("Cache cleared", zap.Int("deleted_keys", len(keys)))
	return nil
}

// Close closes the Redis connection
func (sc *ScanCache) Close() error {
	if sc.client != nil {
		return sc.client.Close()
	}
	return nil
}

// key derives the cache key for a cell value. Raw cell text never appears
// in Redis keys.
func (sc *ScanCache) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s:scan:%s", sc.config.KeyPrefix, hex.EncodeToString(sum[:])[:16])
}

// maskRedisURL masks credentials in a Redis URL for logging
func maskRedisURL(url string) string {
	if strings.Contains(url, "@") {
		parts := strings.Split(url, "@")
		if len(parts) >= 2 {
			userPart := parts[0]
			if strings.Contains(userPart, ":") {
				userParts := strings.Split(userPart, ":")
				if len(userParts) >= 3 {
					userParts[len(userParts)-1] = "***"
					parts[0] = strings.Join(userParts, ":")
				}
			}
			return strings.Join(parts, "@")
		}
	}
	return url
}
