// File: utils/auth_cache.go
package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"clinicbook/models"
)

// CacheAuthPrincipal stores the resolved principal for a session token hash
// so repeated requests skip the Mongo lookup until the entry expires or the
// session is revoked.
func CacheAuthPrincipal(client *redis.Client, tokenHash string, p *models.Principal) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal auth principal: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Set(ctx, AuthCachePrefix+tokenHash, data, AuthCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache auth principal: %w", err)
	}
	return nil
}

// GetCachedAuthPrincipal retrieves the principal cached for a token hash.
// A miss returns (nil, nil).
func GetCachedAuthPrincipal(client *redis.Client, tokenHash string) (*models.Principal, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, err := client.Get(ctx, AuthCachePrefix+tokenHash).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read auth cache: %w", err)
	}
	var p models.Principal
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth principal: %w", err)
	}
	return &p, nil
}

// InvalidateAuthPrincipal drops the cached principal for a token hash.
// Called on logout and on token rotation so a revoked session dies
// immediately instead of outliving its cache entry.
func InvalidateAuthPrincipal(client *redis.Client, tokenHash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Del(ctx, AuthCachePrefix+tokenHash).Err()
}
