package auth

import (
	"context"
	"time"
)

// KV is the slice of the cache the revocation list needs.
type KV interface {
	SetNX(ctx context.Context, key string, val []byte, ttl time.Duration) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Blacklist remembers signed-out token ids until the token would have expired anyway.
type Blacklist struct {
	kv     KV
	prefix string
}

func NewBlacklist(kv KV, prefix string) *Blacklist {
	if prefix == "" {
		prefix = "revoked:jti:"
	}
	return &Blacklist{kv: kv, prefix: prefix}
}

func (b *Blacklist) key(jti string) string { return b.prefix + jti }

// Revoke marks jti as revoked with TTL = exp - now.
func (b *Blacklist) Revoke(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		ttl = time.Minute
	}
	_, err := b.kv.SetNX(ctx, b.key(jti), []byte("1"), ttl)
	return err
}

func (b *Blacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return b.kv.Exists(ctx, b.key(jti))
}
