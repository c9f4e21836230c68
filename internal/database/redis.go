package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/esteban572/first-responder-connect-sub000/internal/config"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

const presenceKey = "presence:online"

func InitRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	_, err := Redis.Ping(Ctx).Result()
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Rate limiting and presence will be disabled.", err)
	} else {
		log.Println("Connected to Redis successfully")
	}
}

// CheckRateLimit increments the per-user counter and reports whether the
// caller is still under limit for the window.
func CheckRateLimit(userID string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf("rate_limit:%s", userID)
	count, err := Redis.Incr(Ctx, key).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		Redis.Expire(Ctx, key, window)
	}

	return count <= int64(limit), nil
}

// Presence tracking. The websocket endpoint adds users on connect and
// removes them on disconnect; failures are non-fatal.

func MarkOnline(userID string) {
	if Redis == nil {
		return
	}
	if err := Redis.SAdd(Ctx, presenceKey, userID).Err(); err != nil {
		log.Printf("presence: mark online failed: %v", err)
	}
}

func MarkOffline(userID string) {
	if Redis == nil {
		return
	}
	if err := Redis.SRem(Ctx, presenceKey, userID).Err(); err != nil {
		log.Printf("presence: mark offline failed: %v", err)
	}
}

func OnlineUsers() []string {
	if Redis == nil {
		return []string{}
	}
	users, err := Redis.SMembers(Ctx, presenceKey).Result()
	if err != nil {
		return []string{}
	}
	return users
}
