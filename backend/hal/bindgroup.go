package hal

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/wgpu/hal"

	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/internal/cache"
)

type bindGroup struct {
	group wgpu.BindGroup
	ids   []uint64
}

// bindGroupCache keeps bind groups by layout and bound objects. Groups
// are destroyed when evicted or when any object they use is released.
type bindGroupCache struct {
	d      *Device
	groups *cache.Cache[string, *bindGroup]

	mu     sync.Mutex
	owners map[uint64]map[string]struct{}
}

func newBindGroupCache(d *Device, limit int) *bindGroupCache {
	c := &bindGroupCache{d: d, owners: make(map[uint64]map[string]struct{})}
	c.groups = cache.New(limit, func(key string, g *bindGroup) {
		c.disown(key, g)
		c.destroy(g)
	})
	return c
}

func (c *bindGroupCache) destroy(g *bindGroup) {
	group := g.group
	c.d.retire(func() { c.d.dev.DestroyBindGroup(group) })
}

func (c *bindGroupCache) own(key string, ids []uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		keys := c.owners[id]
		if keys == nil {
			keys = make(map[string]struct{})
			c.owners[id] = keys
		}
		keys[key] = struct{}{}
	}
}

func (c *bindGroupCache) disown(key string, g *bindGroup) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range g.ids {
		if keys := c.owners[id]; keys != nil {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.owners, id)
			}
		}
	}
}

// removeReferencing destroys every group built with object id.
func (c *bindGroupCache) removeReferencing(id uint64) {
	c.mu.Lock()
	keys := c.owners[id]
	delete(c.owners, id)
	c.mu.Unlock()
	for key := range keys {
		g, ok := c.groups.Get(key)
		if !ok || !c.groups.Delete(key) {
			continue
		}
		c.disown(key, g)
		c.destroy(g)
	}
}

func (c *bindGroupCache) destroyAll() {
	for _, g := range c.groups.Drain() {
		c.destroy(g)
	}
	c.mu.Lock()
	c.owners = make(map[uint64]map[string]struct{})
	c.mu.Unlock()
}

// binding is one resolved bind group entry.
type binding struct {
	id       uint64
	resource gputypes.BindingResource
}

// get returns the group of layout gl with resources, creating it on a
// miss. key identifies the layout and resources.
func (c *bindGroupCache) get(gl *groupLayout, bindings []binding) (string, wgpu.BindGroup, error) {
	buf := strconv.AppendUint(nil, gl.id, 16)
	ids := make([]uint64, 0, len(bindings)+1)
	ids = append(ids, gl.id)
	for _, b := range bindings {
		buf = append(buf, ':')
		buf = strconv.AppendUint(buf, b.id, 16)
		ids = append(ids, b.id)
	}
	key := string(buf)
	g, err := c.groups.GetOrCreate(key, func() (*bindGroup, error) {
		entries := make([]gputypes.BindGroupEntry, len(bindings))
		for i, b := range bindings {
			entries[i] = gputypes.BindGroupEntry{Binding: gl.entries[i].binding, Resource: b.resource}
		}
		group, err := c.d.dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   c.d.label("bind group " + strconv.Itoa(int(gl.index))),
			Layout:  gl.layout,
			Entries: entries,
		})
		if err != nil {
			return nil, fmt.Errorf("hal: create bind group %d: %w", gl.index, err)
		}
		c.own(key, ids)
		return &bindGroup{group: group, ids: ids}, nil
	})
	if err != nil {
		return "", nil, err
	}
	return key, g.group, nil
}

// resolve collects the resources of gl's entries from the bound slots.
// Sampled textures are returned so the caller can transition them.
func (t *translator) resolve(gl *groupLayout, textures []*halTexture) ([]binding, []*halTexture, error) {
	out := make([]binding, len(gl.entries))
	for i, e := range gl.entries {
		at := slotKey{stage: e.stage, slot: e.slot}
		switch e.kind {
		case entryUniformBuffer:
			buf := t.uniforms[at]
			if buf == nil {
				return nil, nil, fmt.Errorf("%w: %s uniform buffer at group %d binding %d is unbound",
					beholder.ErrInvalidDescription, e.stage, gl.index, e.binding)
			}
			hb, err := objectOf[*halBuffer](buf.Native())
			if err != nil {
				return nil, nil, err
			}
			out[i] = binding{id: hb.id, resource: gputypes.BufferBinding{Buffer: hb.buf.NativeHandle(), Size: hb.size}}
		case entryTexture:
			view := t.textures[at]
			if view == nil {
				return nil, nil, fmt.Errorf("%w: %s texture at group %d binding %d is unbound",
					beholder.ErrInvalidDescription, e.stage, gl.index, e.binding)
			}
			hv, err := objectOf[*halView](view.Native())
			if err != nil {
				return nil, nil, err
			}
			out[i] = binding{id: hv.id, resource: gputypes.TextureViewBinding{TextureView: hv.view.NativeHandle()}}
			textures = append(textures, hv.tex)
		case entrySampler:
			smp := t.d.defaults.sampler
			if state := t.samplers[at]; state != nil {
				s, err := objectOf[*samplerState](state.Native())
				if err != nil {
					return nil, nil, err
				}
				smp = s
			}
			out[i] = binding{id: smp.id, resource: gputypes.SamplerBinding{Sampler: smp.smp.NativeHandle()}}
		}
	}
	return out, textures, nil
}
