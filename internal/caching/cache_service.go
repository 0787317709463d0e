package caching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "partnerhub"

type CacheService interface {
	// Refresh tokens
	SetRefreshToken(ctx context.Context, tokenID, subject string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (string, error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error

	// Session revocation, keyed by access token id
	RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, sessionID string) (bool, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisClient accepts either host:port or a redis:// address
func NewRedisClient(addr, password string, db int, lg *zap.SugaredLogger) *redis.Client {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsedAddr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		lg.Warnw("redis ping failed on initialization", "addr", parsedAddr, "error", err)
	} else {
		lg.Debugw("redis connection established", "addr", parsedAddr)
	}
	return client
}

func NewRedisCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func refreshKey(tokenID string) string {
	return fmt.Sprintf("%s:refresh:%s", keyPrefix, tokenID)
}

func revokedKey(sessionID string) string {
	return fmt.Sprintf("%s:revoked:%s", keyPrefix, sessionID)
}

func (r *redisCacheService) SetRefreshToken(ctx context.Context, tokenID, subject string, ttl time.Duration) error {
	return r.client.Set(ctx, refreshKey(tokenID), subject, ttl).Err()
}

// GetRefreshToken returns "" for an unknown or expired token
func (r *redisCacheService) GetRefreshToken(ctx context.Context, tokenID string) (string, error) {
	val, err := r.client.Get(ctx, refreshKey(tokenID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return r.client.Del(ctx, refreshKey(tokenID)).Err()
}

func (r *redisCacheService) RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	return r.client.Set(ctx, revokedKey(sessionID), "1", ttl).Err()
}

func (r *redisCacheService) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
