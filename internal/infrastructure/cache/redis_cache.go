// Package cache caché del resumen de stock y candados por pedido.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/telas-api/internal/application/inventory"
	"github.com/jhoicas/telas-api/internal/domain/entity"
)

var _ inventory.StockSummaryCache = (*RedisSummaryCache)(nil)

// RedisSummaryCache guarda el resumen serializado en JSON por empresa.
type RedisSummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

// NewRedisSummaryCache construye la caché con el TTL indicado.
func NewRedisSummaryCache(rdb *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{rdb: rdb, ttl: ttl}
}

func summaryKey(companyID string) string {
	return "stock:summary:" + companyID
}

func generationKey(companyID string) string {
	return "stock:summary:gen:" + companyID
}

// setIfGeneration escribe el resumen solo si la generación no cambió (compare-and-set atómico).
var setIfGeneration = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if not current then current = "0" end
if current ~= ARGV[1] then return 0 end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

func (c *RedisSummaryCache) Get(ctx context.Context, companyID string) ([]entity.StockPosition, bool, error) {
	val, err := c.rdb.Get(ctx, summaryKey(companyID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var positions []entity.StockPosition
	if err := json.Unmarshal(val, &positions); err != nil {
		return nil, false, fmt.Errorf("decodificar resumen en caché: %w", err)
	}
	return positions, true, nil
}

func (c *RedisSummaryCache) Generation(ctx context.Context, companyID string) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(companyID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisSummaryCache) Set(ctx context.Context, companyID string, gen int64, positions []entity.StockPosition) error {
	raw, err := json.Marshal(positions)
	if err != nil {
		return err
	}
	return setIfGeneration.Run(ctx, c.rdb,
		[]string{generationKey(companyID), summaryKey(companyID)},
		strconv.FormatInt(gen, 10), raw, c.ttl.Milliseconds(),
	).Err()
}

// Invalidate avanza la generación y borra el resumen en una sola transacción.
func (c *RedisSummaryCache) Invalidate(ctx context.Context, companyID string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(companyID))
		pipe.Del(ctx, summaryKey(companyID))
		return nil
	})
	return err
}
