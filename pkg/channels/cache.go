package channels

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedAuthorizer remembers granted subscriptions for a short time. Denials
// and errors are not cached so that new memberships take effect at once.
type CachedAuthorizer struct {
	next  Authorizer
	cache *expirable.LRU[string, bool]
}

// NewCachedAuthorizer wraps next with an LRU of the given size and ttl.
func NewCachedAuthorizer(next Authorizer, size int, ttl time.Duration) *CachedAuthorizer {
	return &CachedAuthorizer{
		next:  next,
		cache: expirable.NewLRU[string, bool](size, nil, ttl),
	}
}

// Authorize implements Authorizer.
func (a *CachedAuthorizer) Authorize(ctx context.Context, userID string, ch Channel) (bool, error) {
	key := userID + "|" + ch.String()
	if _, ok := a.cache.Get(key); ok {
		return true, nil
	}

	ok, err := a.next.Authorize(ctx, userID, ch)
	if err != nil || !ok {
		return ok, err
	}
	a.cache.Add(key, true)

	return true, nil
}
