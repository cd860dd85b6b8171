// Package cache provides a Redis-backed memo for exercise matches so several
// coach-report processes can share resolutions.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/coach-report/internal/logger"
	"github.com/jonathan/coach-report/internal/matching"
)

// DefaultTTL bounds how long a resolution is kept.
const DefaultTTL = 24 * time.Hour

const opTimeout = 500 * time.Millisecond

// RedisMemo implements matching.Cache on a Redis client. Keys are namespaced by
// a catalog fingerprint so processes running different catalogs never share
// entries. Redis failures are logged and treated as misses.
type RedisMemo struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	log    *logger.Logger
}

var _ matching.Cache = (*RedisMemo)(nil)

// Options configures a RedisMemo.
type Options struct {
	Addr string
	// Namespace is usually the catalog fingerprint.
	Namespace string
	TTL       time.Duration
	Logger    *logger.Logger
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, opts Options) (*RedisMemo, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return New(rdb, opts), nil
}

// New wraps an existing client.
func New(rdb *redis.Client, opts Options) *RedisMemo {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &RedisMemo{
		rdb:    rdb,
		prefix: "coach-report:match:" + opts.Namespace + ":",
		ttl:    ttl,
		log:    log.With("service", "RedisMemo"),
	}
}

type entry struct {
	Canonical string `json:"canonical"`
	URL       string `json:"url"`
	Known     bool   `json:"known"`
	Tier      int    `json:"tier"`
}

func (m *RedisMemo) key(k string) string {
	return m.prefix + k
}

// Get returns the stored resolution for key.
func (m *RedisMemo) Get(key string) (matching.Result, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := m.rdb.Get(ctx, m.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			m.log.Debug("redis get failed", "error", err)
		}
		return matching.Result{}, false
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		m.log.Warn("bad match memo payload", "key", key, "error", err)
		return matching.Result{}, false
	}
	return matching.Result{Canonical: e.Canonical, URL: e.URL, Known: e.Known, Tier: matching.Tier(e.Tier)}, true
}

// Put stores result unless key already has a value.
func (m *RedisMemo) Put(key string, result matching.Result) {
	raw, err := json.Marshal(entry{
		Canonical: result.Canonical,
		URL:       result.URL,
		Known:     result.Known,
		Tier:      int(result.Tier),
	})
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := m.rdb.SetNX(ctx, m.key(key), raw, m.ttl).Err(); err != nil {
		m.log.Debug("redis put failed", "error", err)
	}
}

// Close releases the client.
func (m *RedisMemo) Close() error {
	if m == nil || m.rdb == nil {
		return nil
	}
	return m.rdb.Close()
}
