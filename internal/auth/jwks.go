package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

var errKeyNotFound = errors.New("signing key not found")

// JWKSCache holds the RSA signing keys published by the identity provider.
// Keys are refetched once the TTL passes or an unknown kid shows up.
type JWKSCache struct {
	uri        string
	httpClient *http.Client
	ttl        time.Duration
	retries    uint64

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	fetched time.Time
}

func NewJWKSCache(uri string, client *http.Client, ttl time.Duration) *JWKSCache {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &JWKSCache{
		uri:        uri,
		httpClient: client,
		ttl:        ttl,
		retries:    2,
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// GetKey returns the key for kid. When a refresh fails a previously cached
// key is still served.
func (c *JWKSCache) GetKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	expired := time.Since(c.fetched) > c.ttl
	c.mu.RUnlock()

	if ok && !expired {
		return key, nil
	}

	keys, err := c.refresh(ctx, kid)
	if err != nil {
		if ok {
			log.Warn().Err(err).Str("kid", kid).Msg("jwks refresh failed, using cached key")
			return key, nil
		}
		return nil, err
	}

	key, ok = keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errKeyNotFound, kid)
	}
	return key, nil
}

func (c *JWKSCache) refresh(ctx context.Context, kid string) (map[string]*rsa.PublicKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// another goroutine may have refreshed while we waited
	if _, ok := c.keys[kid]; ok && time.Since(c.fetched) < c.ttl {
		return c.keys, nil
	}

	var keys map[string]*rsa.PublicKey
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries), ctx)
	err := backoff.Retry(func() error {
		var err error
		keys, err = c.fetch(ctx)
		return err
	}, b)
	if err != nil {
		return nil, err
	}

	c.keys = keys
	c.fetched = time.Now()
	return c.keys, nil
}

type jwkSet struct {
	Keys []struct {
		Kty string `json:"kty"`
		Kid string `json:"kid"`
		Use string `json:"use"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

func (c *JWKSCache) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.uri, http.NoBody)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("jwks fetch failed with status %d", resp.StatusCode)
		if resp.StatusCode < http.StatusInternalServerError {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	var set jwkSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode jwks: %w", err))
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" || (k.Use != "" && k.Use != "sig") {
			continue
		}
		n, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(k.N, "="))
		if err != nil {
			continue
		}
		e, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(k.E, "="))
		if err != nil {
			continue
		}
		exp := 0
		for _, b := range e {
			exp = exp<<8 | int(b)
		}
		keys[k.Kid] = &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: exp}
	}
	return keys, nil
}
