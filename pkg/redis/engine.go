package redis

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/mimoza-store/storefront-api/pkg/global"
)

func RedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     global.GetEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
		Password: global.GetEnvOrDefault("REDIS_PASSWORD", ""),
		DB:       0,
		Protocol: 2,
	})
}

// PingOnStartup verifies Redis is reachable. Cart persistence degrades to
// in-memory state when it is not, so this only warns.
func PingOnStartup(ctx context.Context) {
	client := RedisClient()
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis unreachable, cart persistence is disabled: %v", err)
		return
	}
	log.Println("Connected to Redis successfully")
}
