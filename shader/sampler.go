package shader

import (
	"fmt"
	"slices"
)

// SamplerTarget is one native sampler binding fed by a logical sampler slot.
type SamplerTarget struct {
	NativeSlot int
	// Mips reports whether the sampled texture supports mipmaps. When
	// false the backend binds the non-mipmap variant of the sampler.
	Mips bool
}

// SamplerMap maps logical sampler slots to the native bindings they feed.
type SamplerMap struct {
	targets map[int][]SamplerTarget
	slots   []int
}

// Targets returns the native bindings for a logical sampler slot.
func (m SamplerMap) Targets(apiSlot int) []SamplerTarget {
	return m.targets[apiSlot]
}

// Slots returns the mapped logical slots in ascending order.
func (m SamplerMap) Slots() []int { return m.slots }

// Len returns the number of mapped logical slots.
func (m SamplerMap) Len() int { return len(m.slots) }

func (m *SamplerMap) add(apiSlot int, t SamplerTarget) {
	if m.targets == nil {
		m.targets = make(map[int][]SamplerTarget)
	}
	list, seen := m.targets[apiSlot]
	if slices.Contains(list, t) {
		return
	}
	m.targets[apiSlot] = append(list, t)
	if !seen {
		m.slots = append(m.slots, apiSlot)
		slices.Sort(m.slots)
	}
}

func (m *SamplerMap) sortTargets() {
	for _, list := range m.targets {
		slices.SortFunc(list, func(a, b SamplerTarget) int { return a.NativeSlot - b.NativeSlot })
	}
}

// CombinedSamplerMap builds the sampler map for backends that bind a
// sampler to the unit of the texture it samples. Each texture-sampler
// pair contributes one target at the texture's native slot.
func CombinedSamplerMap(r *Reflection, textures, samplers *Translation[Variable]) (SamplerMap, error) {
	var m SamplerMap
	samplerOf := make(map[string]string, len(r.TextureSamplerPairs))
	for _, p := range r.TextureSamplerPairs {
		if prev, ok := samplerOf[p.Texture]; ok && prev != p.Sampler {
			return SamplerMap{}, fmt.Errorf("%w: %s uses %s and %s", ErrSamplerConflict, p.Texture, prev, p.Sampler)
		}
		samplerOf[p.Texture] = p.Sampler

		tex, ok := textures.ByName(p.Texture, variableName)
		if !ok {
			return SamplerMap{}, fmt.Errorf("shader: pair references unknown texture %q", p.Texture)
		}
		smp, ok := samplers.ByName(p.Sampler, variableName)
		if !ok {
			return SamplerMap{}, fmt.Errorf("shader: pair references unknown sampler %q", p.Sampler)
		}
		typ, err := tex.Variable.ParsedType()
		if err != nil {
			return SamplerMap{}, err
		}
		m.add(smp.APISlot, SamplerTarget{NativeSlot: tex.NativeSlot, Mips: typ.Texture.SupportsMips()})
	}
	m.sortTargets()
	return m, nil
}

// SeparateSamplerMap builds the sampler map for backends with their own
// sampler slots. Every logical sampler feeds exactly its native slot.
// Mips is false only when every texture paired with the sampler lacks
// mipmap support.
func SeparateSamplerMap(r *Reflection, textures, samplers *Translation[Variable]) SamplerMap {
	var m SamplerMap
	for _, b := range samplers.Bindings() {
		mips := true
		paired := false
		allFlat := true
		for _, p := range r.TextureSamplerPairs {
			if p.Sampler != b.Variable.Name {
				continue
			}
			paired = true
			if tex, ok := textures.ByName(p.Texture, variableName); ok {
				if typ, err := tex.Variable.ParsedType(); err == nil && typ.Texture.SupportsMips() {
					allFlat = false
				}
			}
		}
		if paired && allFlat {
			mips = false
		}
		m.add(b.APISlot, SamplerTarget{NativeSlot: b.NativeSlot, Mips: mips})
	}
	return m
}

func variableName(v Variable) string { return v.Name }
