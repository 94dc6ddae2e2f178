package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

func ConnectRedis(ctx context.Context, addr, password string, db int) error {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		client.Close()
		return fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	RDB = client
	return nil
}

func CloseRedis() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}
