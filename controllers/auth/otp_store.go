package authControllers

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrOTPInvalid covers every failed verify: unknown email, expired code and
// wrong code. Callers must not be able to tell these apart.
var ErrOTPInvalid = errors.New("invalid or expired OTP")

const otpTTL = 5 * time.Minute

// verifyScript deletes the stored code only when it matches, so the first
// successful verify consumes the entry and concurrent verifies on the same
// email are serialized by Redis.
var verifyScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// OTPStore keeps one-time codes in Redis with a per-key expiry, so codes
// survive process restarts and are shared across server instances.
type OTPStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOTPStore(rdb *redis.Client) *OTPStore {
	return &OTPStore{rdb: rdb, ttl: otpTTL}
}

func otpKey(email string) string {
	return "otp:" + email
}

// Issue generates a fresh 6-digit code for the email, replacing any previous
// one, and stores it with the configured expiry.
func (s *OTPStore) Issue(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)

	if err := s.rdb.Set(ctx, otpKey(email), code, s.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Verify consumes the stored code if it matches. A second verify with the
// same code fails, as does any verify after expiry.
func (s *OTPStore) Verify(ctx context.Context, email, code string) error {
	deleted, err := verifyScript.Run(ctx, s.rdb, []string{otpKey(email)}, code).Int()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrOTPInvalid
	}
	return nil
}
