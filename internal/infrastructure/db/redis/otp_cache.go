package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const otpKeyPrefix = "otp:"

// consumeOTPScript deletes KEYS[1] only if it holds ARGV[1].
// Returns 1 when the code matched and was deleted, 0 otherwise.
var consumeOTPScript = redis.NewScript(`
local stored = redis.call('GET', KEYS[1])
if stored and stored == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`)

// OTPCache keeps pending login codes in Redis.
// Key format: otp:<user_id>
type OTPCache struct {
	client *redis.Client
}

// NewOTPCache creates an OTPCache wrapping the given Redis client.
func NewOTPCache(client *redis.Client) *OTPCache {
	return &OTPCache{client: client}
}

// Put stores code under the subject's key, overwriting any live code.
func (c *OTPCache) Put(ctx context.Context, subjectID, code string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(subjectID), code, ttl).Err(); err != nil {
		return unavailable("otp put", err)
	}
	return nil
}

// VerifyAndConsume atomically compares and deletes the subject's code, so two
// concurrent calls with the right code cannot both succeed.
func (c *OTPCache) VerifyAndConsume(ctx context.Context, subjectID, candidate string) (bool, error) {
	if candidate == "" {
		return false, nil
	}
	n, err := consumeOTPScript.Run(ctx, c.client, []string{c.key(subjectID)}, candidate).Int()
	if err != nil {
		return false, unavailable("otp consume", err)
	}
	return n == 1, nil
}

func (c *OTPCache) key(subjectID string) string {
	return otpKeyPrefix + subjectID
}
