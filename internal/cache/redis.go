package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ShaanNarendran/KRONOSButBetter/internal/config"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/models"
)

const (
	logKey          = "kronos:simulation_log"
	explanationsKey = "kronos:explanations"
	snapshotTTL     = 6 * time.Hour
)

// LogCache keeps the last successfully fetched simulation log in Redis so a
// restart can serve data while the simulation service is down. It is strictly
// best-effort: every method is nil-safe and every failure degrades to a miss.
type LogCache struct {
	client *redis.Client
}

// NewLogCache connects to Redis. The caller treats a nil cache as disabled.
func NewLogCache(cfg config.RedisConfig) (*LogCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &LogCache{client: client}, nil
}

// GetLog returns the cached log snapshot, or ok=false on any miss or failure.
func (c *LogCache) GetLog(ctx context.Context) ([]models.SimulationDayRecord, bool) {
	if c == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, logKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("log cache read failed", "error", err)
		}
		return nil, false
	}

	var log []models.SimulationDayRecord
	if err := json.Unmarshal(payload, &log); err != nil {
		slog.Warn("log cache held corrupt snapshot, dropping it", "error", err)
		c.client.Del(ctx, logKey)
		return nil, false
	}
	return log, true
}

// PutLog stores a fresh snapshot. Failures are logged and swallowed.
func (c *LogCache) PutLog(ctx context.Context, log []models.SimulationDayRecord) {
	if c == nil || len(log) == 0 {
		return
	}

	payload, err := json.Marshal(log)
	if err != nil {
		slog.Warn("failed to marshal log snapshot for cache", "error", err)
		return
	}
	if err := c.client.Set(ctx, logKey, payload, snapshotTTL).Err(); err != nil {
		slog.Warn("log cache write failed", "error", err)
	}
}

func (c *LogCache) PutExplanations(ctx context.Context, explanations []models.DayExplanation) {
	if c == nil || len(explanations) == 0 {
		return
	}

	payload, err := json.Marshal(explanations)
	if err != nil {
		slog.Warn("failed to marshal explanations for cache", "error", err)
		return
	}
	if err := c.client.Set(ctx, explanationsKey, payload, snapshotTTL).Err(); err != nil {
		slog.Warn("explanations cache write failed", "error", err)
	}
}

func (c *LogCache) GetExplanations(ctx context.Context) ([]models.DayExplanation, bool) {
	if c == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, explanationsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("explanations cache read failed", "error", err)
		}
		return nil, false
	}

	var explanations []models.DayExplanation
	if err := json.Unmarshal(payload, &explanations); err != nil {
		slog.Warn("explanations cache held corrupt snapshot, dropping it", "error", err)
		c.client.Del(ctx, explanationsKey)
		return nil, false
	}
	return explanations, true
}

// Close closes the Redis connection.
func (c *LogCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
