package cache

import (
	"context"
	"log"
	"time"

	"bibleapp/config"

	"github.com/redis/go-redis/v9"
)

// Client is the global Redis client, used for short-lived password reset codes.
var Client *redis.Client

// Reset codes expire after 15 minutes, matching the mail copy sent to users.
const resetCodeTTL = 15 * time.Minute

const resetCodePrefix = "password-reset:"

// ConnectRedis initializes the global Redis client
func ConnectRedis() {
	Client = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis.")
}

// StoreResetCode stores a password reset code for an email with expiry
func StoreResetCode(ctx context.Context, email, code string) error {
	return Client.Set(ctx, resetCodePrefix+email, code, resetCodeTTL).Err()
}

// GetResetCode returns the stored reset code for an email, or redis.Nil when
// no live code exists (never issued, consumed, or expired).
func GetResetCode(ctx context.Context, email string) (string, error) {
	return Client.Get(ctx, resetCodePrefix+email).Result()
}

// DeleteResetCode removes the reset code for an email
func DeleteResetCode(ctx context.Context, email string) error {
	return Client.Del(ctx, resetCodePrefix+email).Err()
}
