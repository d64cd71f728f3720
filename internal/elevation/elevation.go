// Package elevation defines the lookup contract the solver consumes:
// a terrain elevation in meters for a coordinate. The actual web
// lookup lives outside this system; callers inject a Provider and any
// failure surfaces to them unchanged. Cache memoizes lookups so
// repeated solves against the same points stay free.
package elevation

import (
	"context"
	"fmt"
	"sync"
)

// Provider resolves terrain elevation for a coordinate.
type Provider interface {
	Elevation(ctx context.Context, lat, lon float64) (float64, error)
}

// Func adapts a plain function to Provider.
type Func func(ctx context.Context, lat, lon float64) (float64, error)

// Elevation implements Provider.
func (f Func) Elevation(ctx context.Context, lat, lon float64) (float64, error) {
	return f(ctx, lat, lon)
}

// Static is a Provider that returns the same elevation everywhere.
// Useful for flat test ranges and as a fallback when no lookup service
// is configured.
type Static float64

// Elevation implements Provider.
func (s Static) Elevation(context.Context, float64, float64) (float64, error) {
	return float64(s), nil
}

// Cache memoizes a Provider. Coordinates are bucketed to 1e-6 degrees
// (about 0.1 m), matching the precision the solver cares about. Safe
// for concurrent use.
type Cache struct {
	src Provider

	mu sync.RWMutex
	m  map[string]float64
}

// NewCache wraps src with memoization.
func NewCache(src Provider) *Cache {
	return &Cache{src: src, m: make(map[string]float64)}
}

// Elevation returns the cached value when present, otherwise asks the
// source and stores the result. Errors are never cached.
func (c *Cache) Elevation(ctx context.Context, lat, lon float64) (float64, error) {
	key := fmt.Sprintf("%.6f,%.6f", lat, lon)

	c.mu.RLock()
	v, ok := c.m[key]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err := c.src.Elevation(ctx, lat, lon)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.m[key] = v
	c.mu.Unlock()
	return v, nil
}

// Len reports how many coordinates are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
