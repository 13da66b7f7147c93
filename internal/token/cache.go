// Package token caches short-lived provider bearer tokens. Each provider
// gets one Cache; refreshes are deduplicated so concurrent sends never
// trigger duplicate signing or OAuth exchanges.
package token

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Soft lifetimes, kept below the providers' 60-minute hard limits so a token
// is never presented right at its expiry edge.
const (
	// APNsSoftTTL is Apple's policy: provider tokens older than an hour are
	// rejected, so refresh at 50 minutes.
	APNsSoftTTL = 50 * time.Minute
	// FCMSoftTTL for Google OAuth access tokens, valid 60 minutes.
	FCMSoftTTL = 55 * time.Minute
)

const bearerKey = "bearer"

// RefreshFunc produces a fresh bearer token. For APNs this is a local JWT
// signing operation; for FCM it additionally performs the OAuth exchange
// round trip.
type RefreshFunc func(ctx context.Context) (string, error)

// Cache holds one provider's bearer token until its soft TTL lapses.
type Cache struct {
	store   *gocache.Cache
	group   singleflight.Group
	refresh RefreshFunc
	logger  *slog.Logger
}

// NewCache creates a cache with the given soft TTL and refresh operation.
func NewCache(name string, ttl time.Duration, refresh RefreshFunc, logger *slog.Logger) *Cache {
	return &Cache{
		store:   gocache.New(ttl, ttl),
		refresh: refresh,
		logger:  logger.With("component", "TokenCache", "provider", name),
	}
}

// Bearer returns the cached token while it is unexpired, otherwise refreshes
// it. Concurrent callers during a refresh all wait on the single in-flight
// refresh and share its result; a failed refresh caches nothing.
func (c *Cache) Bearer(ctx context.Context) (string, error) {
	if v, ok := c.store.Get(bearerKey); ok {
		return v.(string), nil
	}
	v, err, shared := c.group.Do(bearerKey, func() (any, error) {
		// A caller that lost the race may find the winner's token already stored.
		if v, ok := c.store.Get(bearerKey); ok {
			return v, nil
		}
		c.logger.Debug("refreshing bearer token")
		tok, err := c.refresh(ctx)
		if err != nil {
			return nil, err
		}
		c.store.Set(bearerKey, tok, gocache.DefaultExpiration)
		return tok, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		c.logger.Debug("refresh shared with concurrent caller")
	}
	return v.(string), nil
}

// Invalidate drops the cached token. Called when credentials change.
func (c *Cache) Invalidate() {
	c.store.Delete(bearerKey)
	c.logger.Debug("token invalidated")
}
