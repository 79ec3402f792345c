package auth

import (
	"context"
	"sync"
)

// BuildFunc constructs the Service for one database identifier.
type BuildFunc func(ctx context.Context, key string) (*Service, error)

// ServiceCache memoizes one constructed Service per stable database
// identifier. Lookups are serialized by a mutex so a key is constructed at
// most once, and Invalidate drops an entry when its underlying handle is
// rotated.
type ServiceCache struct {
	mu        sync.Mutex
	build     BuildFunc
	instances map[string]*Service
}

// NewServiceCache wires the cache around a builder.
func NewServiceCache(build BuildFunc) *ServiceCache {
	return &ServiceCache{
		build:     build,
		instances: make(map[string]*Service),
	}
}

// Get returns the cached Service for key, constructing it on first use.
func (c *ServiceCache) Get(ctx context.Context, key string) (*Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if svc, ok := c.instances[key]; ok {
		return svc, nil
	}
	svc, err := c.build(ctx, key)
	if err != nil {
		return nil, err
	}
	c.instances[key] = svc
	return svc, nil
}

// Invalidate removes the entry for key; the next Get rebuilds it.
func (c *ServiceCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.instances, key)
}
