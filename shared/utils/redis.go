package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pavitra93/hotel-energy-tracker/shared/config"
)

// InitRedis connects to Redis and verifies the connection
func InitRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logrus.Infof("Connected to Redis at %s", addr)
	return client, nil
}

// ViewTracker keeps a version per tenant and per room view. A mutation
// bumps the versions of every view it touches, so a reader holding an older
// version knows its copy is stale. Each version is a Redis hash holding a
// counter and a random epoch. The epoch is created together with the hash,
// so a counter recreated after its key was lost never reproduces an old
// version. Aggregates themselves are never stored here.
type ViewTracker struct {
	client *redis.Client
}

const (
	viewEpochField   = "epoch"
	viewCounterField = "n"
)

// NewViewTracker creates a tracker on top of a connected client
func NewViewTracker(client *redis.Client) *ViewTracker {
	return &ViewTracker{client: client}
}

func tenantViewKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("view:version:tenant:%s", tenantID)
}

func roomViewKey(roomID uuid.UUID) string {
	return fmt.Sprintf("view:version:room:%s", roomID)
}

func newEpoch() string {
	return uuid.NewString()[:8]
}

// MarkStale bumps the tenant view and every listed room view in one round trip
func (vt *ViewTracker) MarkStale(ctx context.Context, tenantID uuid.UUID, roomIDs ...uuid.UUID) error {
	keys := make([]string, 0, len(roomIDs)+1)
	keys = append(keys, tenantViewKey(tenantID))
	for _, roomID := range roomIDs {
		keys = append(keys, roomViewKey(roomID))
	}

	_, err := vt.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.HSetNX(ctx, key, viewEpochField, newEpoch())
			pipe.HIncrBy(ctx, key, viewCounterField, 1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mark views stale: %w", err)
	}
	return nil
}

// TenantVersion returns the current version of a tenant's views
func (vt *ViewTracker) TenantVersion(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return vt.version(ctx, tenantViewKey(tenantID))
}

// RoomVersion returns the current version of a room's view
func (vt *ViewTracker) RoomVersion(ctx context.Context, roomID uuid.UUID) (string, error) {
	return vt.version(ctx, roomViewKey(roomID))
}

// version reads "<epoch>.<counter>", starting a new epoch when the key is missing
func (vt *ViewTracker) version(ctx context.Context, key string) (string, error) {
	var fields *redis.StringStringMapCmd
	_, err := vt.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, viewEpochField, newEpoch())
		fields = pipe.HGetAll(ctx, key)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to read view version %s: %w", key, err)
	}

	v := fields.Val()
	counter := v[viewCounterField]
	if counter == "" {
		counter = "0"
	}
	return v[viewEpochField] + "." + counter, nil
}

// Forget drops the versions of deleted views
func (vt *ViewTracker) Forget(ctx context.Context, tenantID *uuid.UUID, roomIDs ...uuid.UUID) error {
	keys := make([]string, 0, len(roomIDs)+1)
	if tenantID != nil {
		keys = append(keys, tenantViewKey(*tenantID))
	}
	for _, roomID := range roomIDs {
		keys = append(keys, roomViewKey(roomID))
	}
	if len(keys) == 0 {
		return nil
	}
	return vt.client.Del(ctx, keys...).Err()
}
