// Package pagecache stores rendered responses for a fixed time.
//
// Entries are only refreshed by expiry or by Clear; writes elsewhere in the
// application never invalidate them, so a cached page may show posts that no
// longer exist until it expires.
package pagecache

import (
	"context"
	"encoding/json"
	"time"
)

// KeyPrefix namespaces every cached page key.
const KeyPrefix = "cache:page:"

// Store keeps cached pages.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Clear(ctx context.Context) error
}

// Page is a captured response.
type Page struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Encode serialises p for a Store.
func (p Page) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// Decode parses a value produced by Encode.
func Decode(b []byte) (Page, error) {
	var p Page
	err := json.Unmarshal(b, &p)
	return p, err
}

// Key builds the cache key for a request URI (path and query).
func Key(requestURI string) string {
	return KeyPrefix + requestURI
}
