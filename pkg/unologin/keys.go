package unologin

import (
	"context"
	"crypto"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

// PublicKeyPath serves the login-token verification key.
const PublicKeyPath = "/public-keys/app-login-token"

// CheckLoginTokenKey decodes a key returned by the API and makes sure it
// carries PEM public key material. With skipCheck any value passes; values
// that are not key objects become the key data as is.
func CheckLoginTokenKey(raw json.RawMessage, skipCheck bool) (PublicKey, error) {
	var key PublicKey
	if err := json.Unmarshal(raw, &key); err != nil {
		if skipCheck {
			return opaqueKey(raw), nil
		}
		return PublicKey{}, &ConfigError{Msg: "invalid public key returned by API: " + string(raw), Err: err}
	}
	if !skipCheck && !key.Valid() {
		return PublicKey{}, &ConfigError{Msg: "invalid public key returned by API: " + string(raw)}
	}
	return key, nil
}

func opaqueKey(raw json.RawMessage) PublicKey {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return PublicKey{Data: s}
	}
	return PublicKey{Data: string(raw)}
}

type cachedKey struct {
	key PublicKey

	// parsed lazily on first verification
	once     sync.Once
	parsed   crypto.PublicKey
	methods  []string
	parseErr error
}

func (c *cachedKey) verification() (crypto.PublicKey, []string, error) {
	c.once.Do(func() {
		c.parsed, c.methods, c.parseErr = parsePublicKey([]byte(c.key.Data))
	})
	return c.parsed, c.methods, c.parseErr
}

// KeyCache holds the single process-wide login-token key. Writes are
// last-writer-wins; concurrent fetches on a cold or expired cache share one
// outstanding request.
type KeyCache struct {
	requester Requester
	skipCheck bool
	now       func() time.Time

	mu     sync.RWMutex
	cached *cachedKey

	flight singleflight.Group
}

// NewKeyCache builds an empty cache. now defaults to time.Now.
func NewKeyCache(requester Requester, skipCheck bool, now func() time.Time) *KeyCache {
	if now == nil {
		now = time.Now
	}
	return &KeyCache{requester: requester, skipCheck: skipCheck, now: now}
}

// LoginTokenKey returns the cached key while it is valid, fetching a new one
// otherwise. Gateway errors are returned unchanged.
func (c *KeyCache) LoginTokenKey(ctx context.Context) (PublicKey, error) {
	entry, err := c.entry(ctx)
	if err != nil {
		return PublicKey{}, err
	}
	return entry.key, nil
}

// Cached returns the current key without fetching.
func (c *KeyCache) Cached() (PublicKey, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cached == nil {
		return PublicKey{}, false
	}
	return c.cached.key, true
}

// Invalidate drops the cached key so the next call refetches it.
func (c *KeyCache) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}

func (c *KeyCache) fresh() *cachedKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cached != nil && c.cached.key.fresh(c.now().UnixMilli()) {
		return c.cached
	}
	return nil
}

func (c *KeyCache) entry(ctx context.Context) (*cachedKey, error) {
	if e := c.fresh(); e != nil {
		return e, nil
	}

	// The shared fetch outlives any single caller: one cancelled request must
	// not fail the others waiting on it. The gateway timeout still bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(PublicKeyPath, func() (any, error) {
		// another flight may have stored a key while we waited
		if e := c.fresh(); e != nil {
			return e, nil
		}
		raw, err := c.requester.Request(fetchCtx, http.MethodGet, PublicKeyPath, nil)
		if err != nil {
			return nil, err
		}
		key, err := CheckLoginTokenKey(raw, c.skipCheck)
		if err != nil {
			return nil, err
		}
		e := &cachedKey{key: key}
		c.mu.Lock()
		c.cached = e
		c.mu.Unlock()
		return e, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*cachedKey), nil
	}
}

// parsePublicKey accepts RSA, ECDSA and Ed25519 PEM keys and returns the
// signing methods valid for that key family.
func parsePublicKey(pemData []byte) (crypto.PublicKey, []string, error) {
	if k, err := jwt.ParseRSAPublicKeyFromPEM(pemData); err == nil {
		return k, []string{"RS256", "RS384", "RS512", "PS256", "PS384", "PS512"}, nil
	}
	if k, err := jwt.ParseECPublicKeyFromPEM(pemData); err == nil {
		return k, []string{"ES256", "ES384", "ES512"}, nil
	}
	if k, err := jwt.ParseEdPublicKeyFromPEM(pemData); err == nil {
		return k, []string{"EdDSA"}, nil
	}
	return nil, nil, &ConfigError{Msg: "unusable login token key", Err: errUnsupportedKey}
}

var errUnsupportedKey = errors.New("key is not an RSA, ECDSA or Ed25519 public key")

