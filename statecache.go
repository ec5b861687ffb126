package beholder

import (
	"github.com/Zulkir/Beholder-sub001/internal/cache"
)

// StateCache deduplicates state objects by description for one device.
// Equal descriptions return the same object until it is disposed or
// evicted. Evicted objects stay alive and are released with the device.
type StateCache struct {
	rasterizers   *cache.Cache[RasterizerDescription, *RasterizerState]
	blends        *cache.Cache[BlendDescription, *BlendState]
	depthStencils *cache.Cache[DepthStencilDescription, *DepthStencilState]
	samplers      *cache.Cache[SamplerDescription, *SamplerState]
}

// NewStateCache creates a cache holding up to limit objects of each kind.
func NewStateCache(limit int) *StateCache {
	return &StateCache{
		rasterizers:   cache.New[RasterizerDescription, *RasterizerState](limit, nil),
		blends:        cache.New[BlendDescription, *BlendState](limit, nil),
		depthStencils: cache.New[DepthStencilDescription, *DepthStencilState](limit, nil),
		samplers:      cache.New[SamplerDescription, *SamplerState](limit, nil),
	}
}

// Rasterizer returns the cached state for desc or creates it.
func (c *StateCache) Rasterizer(desc RasterizerDescription, create func() (*RasterizerState, error)) (*RasterizerState, error) {
	return getLive(c.rasterizers, desc, create)
}

// Blend returns the cached state for desc or creates it.
func (c *StateCache) Blend(desc BlendDescription, create func() (*BlendState, error)) (*BlendState, error) {
	return getLive(c.blends, desc, create)
}

// DepthStencil returns the cached state for desc or creates it.
func (c *StateCache) DepthStencil(desc DepthStencilDescription, create func() (*DepthStencilState, error)) (*DepthStencilState, error) {
	return getLive(c.depthStencils, desc, create)
}

// Sampler returns the cached state for desc or creates it.
func (c *StateCache) Sampler(desc SamplerDescription, create func() (*SamplerState, error)) (*SamplerState, error) {
	return getLive(c.samplers, desc, create)
}

// Clear forgets every cached object without disposing it.
func (c *StateCache) Clear() {
	c.rasterizers.Drain()
	c.blends.Drain()
	c.depthStencils.Drain()
	c.samplers.Drain()
}

type disposedChecker interface {
	IsDisposed() bool
}

// getLive skips over objects the application disposed itself.
func getLive[K comparable, V disposedChecker](c *cache.Cache[K, V], key K, create func() (V, error)) (V, error) {
	v, err := c.GetOrCreate(key, create)
	if err != nil || !v.IsDisposed() {
		return v, err
	}
	c.Delete(key)
	return c.GetOrCreate(key, create)
}
