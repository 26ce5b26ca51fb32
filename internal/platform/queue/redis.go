package queue

import (
	"context"
	"log"

	"atcoder_bingo/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

func ConnectRedis() *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	log.Println("Successfully connected to Redis")
	return rdb
}

func CloseRedis(rdb *redis.Client) {
	if rdb != nil {
		rdb.Close()
		log.Println("Redis connection closed.")
	}
}
