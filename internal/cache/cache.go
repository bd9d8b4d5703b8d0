package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/chargeconnect/charge-api/internal/models"
)

const (
	stationKeyPrefix = "stations:"
	stationTTL       = 30 * time.Second
)

// Cache is a read-through cache for public station listings. A nil *Cache is
// a valid pass-through, so the API runs without redis configured.
type Cache struct {
	rdb *redis.Client
	log *zap.Logger
}

func New(addr string, log *zap.Logger) *Cache {
	if addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, station cache disabled", zap.Error(err))
		return nil
	}

	return &Cache{rdb: rdb, log: log}
}

func (c *Cache) GetStations(ctx context.Context, key string) ([]models.ChargingStation, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, stationKeyPrefix+key).Bytes()
	if err != nil {
		return nil, false
	}

	var stations []models.ChargingStation
	if err := json.Unmarshal(raw, &stations); err != nil {
		return nil, false
	}
	return stations, true
}

func (c *Cache) SetStations(ctx context.Context, key string, stations []models.ChargingStation) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(stations)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, stationKeyPrefix+key, raw, stationTTL).Err(); err != nil {
		c.log.Debug("station cache set failed", zap.Error(err))
	}
}

// InvalidateStations drops every cached listing. Called on any station write,
// including availability flips from the booking workflow.
func (c *Cache) InvalidateStations(ctx context.Context) {
	if c == nil {
		return
	}

	iter := c.rdb.Scan(ctx, 0, stationKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Debug("station cache invalidate failed", zap.Error(err))
			return
		}
	}
}
