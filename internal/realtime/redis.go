package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NewRedis creates a new Redis client
func NewRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	log.Printf("Redis client created (addr: %s)\n", addr)
	return rdb
}

// Notifier pushes out-of-band notifications to a user.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, payload interface{}) error
}

// NotificationChannel is the pub/sub channel for a user.
func NotificationChannel(userID uuid.UUID) string {
	return "notifications:" + userID.String()
}

type RedisNotifier struct {
	RDB *redis.Client
}

func (n *RedisNotifier) Notify(ctx context.Context, userID uuid.UUID, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return n.RDB.Publish(ctx, NotificationChannel(userID), b).Err()
}

// NopNotifier is used when Redis is not configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, uuid.UUID, interface{}) error { return nil }
