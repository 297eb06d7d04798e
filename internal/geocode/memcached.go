package geocode

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

const keyPrefix = "geocode:"

// MemcachedCache implements Cache using memcached, for deployments
// that run many plugin invocations across hosts and want a shared
// geocode cache instead of per-host temp files.
type MemcachedCache struct {
	client *memcache.Client
}

// NewMemcachedCache creates a MemcachedCache. addrs is a
// comma-separated list (e.g. "localhost:11211" or
// "host1:11211,host2:11211"); an address that does not resolve is an
// error. timeout configures the client dial/IO timeout; zero keeps the
// package default.
func NewMemcachedCache(addrs string, timeout time.Duration) (*MemcachedCache, error) {
	servers := parseAddrs(addrs)
	if len(servers) == 0 {
		servers = []string{"localhost:11211"}
	}
	ss := new(memcache.ServerList)
	if err := ss.SetServers(servers...); err != nil {
		return nil, fmt.Errorf("memcached servers: %w", err)
	}
	client := memcache.NewFromSelector(ss)
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &MemcachedCache{client: client}, nil
}

func parseAddrs(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Get implements Cache.Get. Like the file backend, every failure mode
// is reported as a miss rather than an error.
func (c *MemcachedCache) Get(ctx context.Context, key string) (*Location, bool, error) {
	if ctx.Err() != nil {
		return nil, false, nil
	}
	item, err := c.client.Get(keyPrefix + key)
	if err != nil {
		return nil, false, nil
	}
	loc, ok := decodeEntry(item.Value)
	if !ok {
		return nil, false, nil
	}
	return loc, true, nil
}

// Set implements Cache.Set with no expiration.
func (c *MemcachedCache) Set(ctx context.Context, key string, entry []byte) error {
	return c.client.Set(&memcache.Item{Key: keyPrefix + key, Value: entry})
}
