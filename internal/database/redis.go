package database

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/RympeR/blob-ai/internal/config"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

// Cached unread counts expire on their own even if an invalidation is
// missed (e.g. Redis restarted between fan-out and read-ack).
const unreadCacheTTL = 5 * time.Minute

func InitRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	_, err := Redis.Ping(Ctx).Result()
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Unread-count caching and rate limiting will be disabled.", err)
	} else {
		log.Println("Connected to Redis successfully")
	}
}

func unreadKey(userID string) string {
	return fmt.Sprintf("unread:%s", userID)
}

// GetCachedUnread returns the cached unread count for a user.
// ok is false when Redis is absent or the key is missing/expired.
func GetCachedUnread(userID string) (int64, bool) {
	if Redis == nil {
		return 0, false
	}
	val, err := Redis.Get(Ctx, unreadKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func SetCachedUnread(userID string, count int64) {
	if Redis == nil {
		return
	}
	Redis.Set(Ctx, unreadKey(userID), strconv.FormatInt(count, 10), unreadCacheTTL)
}

// InvalidateUnread drops cached unread counts for the given users. Called
// after fan-out (recipients gained records) and after a read-ack.
func InvalidateUnread(userIDs ...string) {
	if Redis == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, unreadKey(id))
	}
	Redis.Del(Ctx, keys...)
}

// CheckRateLimit increments the per-user request counter and reports
// whether the caller is still under the limit for the window.
func CheckRateLimit(userId string, limit int, duration time.Duration) (bool, error) {
	key := fmt.Sprintf("rate_limit:%s", userId)
	count, err := Redis.Incr(Ctx, key).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		Redis.Expire(Ctx, key, duration)
	}

	if count > int64(limit) {
		return false, nil
	}
	return true, nil
}
