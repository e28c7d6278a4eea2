// AngelaMos | 2026
// verifier.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/tiered-events/internal/core"
	"github.com/carterperez-dev/templates/tiered-events/internal/middleware"
)

const blacklistPrefix = "session:blacklist:"

// Blacklist records revoked access token IDs until they expire.
type Blacklist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

type redisBlacklist struct {
	client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) Blacklist {
	return &redisBlacklist{client: client}
}

func (b *redisBlacklist) Add(
	ctx context.Context,
	jti string,
	ttl time.Duration,
) error {
	if ttl <= 0 {
		return nil
	}

	if err := b.client.Set(ctx, blacklistPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (b *redisBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	exists, err := b.client.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return exists > 0, nil
}

// Verifier is the middleware.TokenVerifier for session tokens: signature
// and claims first, then the blacklist and the account's token version.
type Verifier struct {
	jwt       *JWTManager
	blacklist Blacklist
	users     UserProvider
}

func NewVerifier(jwt *JWTManager, blacklist Blacklist, users UserProvider) *Verifier {
	return &Verifier{jwt: jwt, blacklist: blacklist, users: users}
}

func (v *Verifier) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := v.jwt.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := v.blacklist.Contains(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	user, err := v.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if claims.TokenVersion < user.TokenVersion {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

var _ middleware.TokenVerifier = (*Verifier)(nil)
