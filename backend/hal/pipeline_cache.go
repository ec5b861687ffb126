package hal

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/wgpu/hal"

	beholder "github.com/Zulkir/Beholder-sub001"
)

// pipelineKey is every piece of tracked state a render pipeline bakes in.
// Objects are identified by their native ids, which are never reused.
type pipelineKey struct {
	program     uint64
	layout      uint64
	strides     [beholder.MaxVertexStreams]uint64
	topology    gputypes.PrimitiveTopology
	stripIndex  gputypes.IndexFormat
	rasterizer  uint64
	blend       uint64
	depth       uint64
	colors      [beholder.MaxRenderTargets]gputypes.TextureFormat
	colorCount  int
	depthFormat gputypes.TextureFormat
	samples     uint32
	sampleMask  uint32
}

// references reports whether the pipeline was built from object id.
func (k *pipelineKey) references(id uint64) bool {
	return k.program == id || k.layout == id || k.rasterizer == id || k.blend == id || k.depth == id
}

type pipelineEntry struct {
	key      pipelineKey
	pipeline wgpu.RenderPipeline
}

// pipelineCache caches render pipelines by the state they were built
// from.
//
// Lookups take a read lock; creation takes the write lock and checks
// again, so concurrent misses on one key create a single pipeline.
// Entries are indexed by the FNV-1a hash of their key, and a colliding
// key replaces the entry it collides with.
type pipelineCache struct {
	mu      sync.RWMutex
	entries map[uint64]*pipelineEntry
	destroy func(wgpu.RenderPipeline)

	hits   uint64
	misses uint64
}

func newPipelineCache(destroy func(wgpu.RenderPipeline)) *pipelineCache {
	return &pipelineCache{
		entries: make(map[uint64]*pipelineEntry),
		destroy: destroy,
	}
}

// getOrCreate returns the pipeline for key, calling create on a miss.
func (c *pipelineCache) getOrCreate(key *pipelineKey, create func() (wgpu.RenderPipeline, error)) (wgpu.RenderPipeline, error) {
	h := hashPipelineKey(key)

	c.mu.RLock()
	if e, ok := c.entries[h]; ok && e.key == *key {
		c.mu.RUnlock()
		atomic.AddUint64(&c.hits, 1)
		return e.pipeline, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	old, ok := c.entries[h]
	if ok && old.key == *key {
		atomic.AddUint64(&c.hits, 1)
		return old.pipeline, nil
	}
	p, err := create()
	if err != nil {
		return nil, err
	}
	if ok && c.destroy != nil {
		c.destroy(old.pipeline)
	}
	c.entries[h] = &pipelineEntry{key: *key, pipeline: p}
	atomic.AddUint64(&c.misses, 1)
	return p, nil
}

// Stats returns the hit and miss counts.
func (c *pipelineCache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

// HitRate returns hits over lookups, or 0 before the first lookup.
func (c *pipelineCache) HitRate() float64 {
	hits, misses := c.Stats()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// Size returns the number of cached pipelines.
func (c *pipelineCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// removeReferencing destroys the pipelines built from object id.
func (c *pipelineCache) removeReferencing(id uint64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for h, e := range c.entries {
		if !e.key.references(id) {
			continue
		}
		if c.destroy != nil {
			c.destroy(e.pipeline)
		}
		delete(c.entries, h)
		n++
	}
	return n
}

// DestroyAll destroys every pipeline and resets the statistics.
func (c *pipelineCache) DestroyAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if c.destroy != nil {
			c.destroy(e.pipeline)
		}
	}
	c.entries = make(map[uint64]*pipelineEntry)
	atomic.StoreUint64(&c.hits, 0)
	atomic.StoreUint64(&c.misses, 0)
}

// hashPipelineKey computes an FNV-1a hash over every field of k.
func hashPipelineKey(k *pipelineKey) uint64 {
	h := fnv.New64a()
	hashWriteUint64(h, k.program)
	hashWriteUint64(h, k.layout)
	for _, s := range k.strides {
		hashWriteUint64(h, s)
	}
	hashWriteUint32(h, uint32(k.topology))
	hashWriteUint32(h, uint32(k.stripIndex))
	hashWriteUint64(h, k.rasterizer)
	hashWriteUint64(h, k.blend)
	hashWriteUint64(h, k.depth)
	hashWriteUint32(h, uint32(k.colorCount))
	for _, f := range k.colors[:k.colorCount] {
		hashWriteUint32(h, uint32(f))
	}
	hashWriteUint32(h, uint32(k.depthFormat))
	hashWriteUint32(h, k.samples)
	hashWriteUint32(h, k.sampleMask)
	return h.Sum64()
}

func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}
