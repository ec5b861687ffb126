package hal

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/wgpu/hal"

	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/shader"
	"github.com/Zulkir/Beholder-sub001/shader/wgslreflect"
)

// ErrCompile is returned when WGSL source fails to parse or the device
// rejects the shader module.
var ErrCompile = errors.New("hal: shader compilation failed")

// policy keeps @binding indices as native slots. Samplers are separate
// WGSL globals with their own bindings.
var policy = shader.Policy{
	Packing: shader.PackIdentity,
}

// halShader owns one shader module. Programs built from it are tracked
// so disposing the shader releases them.
type halShader struct {
	beholder.ShaderObject
	d      *Device
	module wgpu.ShaderModule

	mu       sync.Mutex
	programs []*program
}

func (d *Device) newShader(r *shader.Reflection) (*halShader, error) {
	base, err := shader.NewBase(r, policy)
	if err != nil {
		return nil, err
	}
	src, err := r.Source(shader.LanguageWGSL)
	if err != nil {
		return nil, err
	}
	if _, err := wgslreflect.Parse(src); err != nil {
		return nil, fmt.Errorf("%w: %s shader %q: %v", ErrCompile, r.Stage, r.Name, err)
	}
	module, err := d.dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:  d.label(r.Name),
		Source: wgpu.ShaderSource{WGSL: src},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s shader %q: %v", ErrCompile, r.Stage, r.Name, err)
	}
	d.log.Debug("hal: created shader module", "stage", r.Stage, "name", r.Name, "bytes", len(src))
	s := &halShader{d: d, module: module}
	s.Init(d.reg, s, base)
	return s, nil
}

// entry is the WGSL entry point name.
func (s *halShader) entry() string { return s.Reflection().Name }

func (s *halShader) attach(p *program) {
	s.mu.Lock()
	s.programs = append(s.programs, p)
	s.mu.Unlock()
}

// Dispose releases the programs built from the shader, then the module.
func (s *halShader) Dispose() {
	s.Release(func() {
		s.mu.Lock()
		programs := s.programs
		s.programs = nil
		s.mu.Unlock()
		for _, p := range programs {
			s.d.dropProgram(p)
		}
		module := s.module
		s.d.retire(func() { s.d.dev.DestroyShaderModule(module) })
	})
}

func nativeShader(sh beholder.Shader, stage shader.Stage) (*halShader, error) {
	if sh == nil {
		return nil, nil
	}
	hs, ok := sh.(*halShader)
	if !ok {
		return nil, fmt.Errorf("%w: %s shader is not a hal shader", beholder.ErrWrongBackend, stage)
	}
	if hs.IsDisposed() {
		return nil, fmt.Errorf("%w: %s shader", beholder.ErrReleased, stage)
	}
	return hs, nil
}

type entryKind int

const (
	entryUniformBuffer entryKind = iota
	entryTexture
	entrySampler
)

func (k entryKind) String() string {
	switch k {
	case entryUniformBuffer:
		return "uniform buffer"
	case entryTexture:
		return "texture"
	default:
		return "sampler"
	}
}

// layoutEntry is one binding of a bind group and the stage slot its
// resource is read from.
type layoutEntry struct {
	binding uint32
	kind    entryKind
	stage   shader.Stage
	slot    int
}

// groupLayout is the bind group layout of one @group index.
type groupLayout struct {
	ident
	index   uint32
	layout  wgpu.BindGroupLayout
	entries []layoutEntry
}

// program is a linked shader set: its combination, bind group layouts
// and pipeline layout. Compute programs also own their pipeline.
type program struct {
	ident
	d       *Device
	set     beholder.ShaderSet
	combo   *shader.Combination
	shaders [shader.StageCount]*halShader
	groups  []*groupLayout
	layout  wgpu.PipelineLayout

	computeOnce sync.Once
	compute     wgpu.ComputePipeline
	computeErr  error

	dropped bool
}

// program returns the linked program of set, building it on first use.
func (d *Device) program(set beholder.ShaderSet) (*program, error) {
	var shaders [shader.StageCount]*halShader
	for _, stage := range shader.GraphicsStages {
		s, err := nativeShader(set.Shader(stage), stage)
		if err != nil {
			return nil, err
		}
		if s != nil && stage != shader.StageVertex && stage != shader.StagePixel {
			return nil, fmt.Errorf("%w: %s shaders", beholder.ErrNotSupported, stage)
		}
		shaders[stage] = s
	}
	return d.programs.GetOrCreate(set, func() (*program, error) {
		combo, err := shader.NewCombination(set.Bases()...)
		if err != nil {
			return nil, err
		}
		p, err := d.link(combo, shaders)
		if err != nil {
			return nil, err
		}
		p.set = set
		return p, nil
	})
}

// computeProgram returns the program of a compute shader.
func (d *Device) computeProgram(cs *halShader) (*program, error) {
	return d.computePrograms.GetOrCreate(cs, func() (*program, error) {
		combo, err := shader.NewComputeCombination(cs.ShaderBase())
		if err != nil {
			return nil, err
		}
		var shaders [shader.StageCount]*halShader
		shaders[shader.StageCompute] = cs
		return d.link(combo, shaders)
	})
}

func (d *Device) link(combo *shader.Combination, shaders [shader.StageCount]*halShader) (*program, error) {
	groups, err := d.groupLayouts(combo)
	if err != nil {
		return nil, err
	}
	layouts := make([]wgpu.BindGroupLayout, len(groups))
	for i, g := range groups {
		layouts[i] = g.layout
	}
	pl, err := d.dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            d.label("pipeline layout"),
		BindGroupLayouts: layouts,
	})
	if err != nil {
		for _, g := range groups {
			d.dev.DestroyBindGroupLayout(g.layout)
		}
		return nil, fmt.Errorf("hal: create pipeline layout: %w", err)
	}
	p := &program{ident: newIdent(), d: d, combo: combo, shaders: shaders, groups: groups, layout: pl}
	for _, s := range shaders {
		if s != nil {
			s.attach(p)
		}
	}
	d.log.Debug("hal: linked program", "stages", len(combo.Stages()), "groups", len(groups))
	return p, nil
}

func groupOf(v shader.Variable) (uint32, error) {
	s, ok := v.SpecialParameters[wgslreflect.GroupParameter]
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s has group %q", beholder.ErrInvalidDescription, v.Name, s)
	}
	return uint32(n), nil
}

// groupLayouts creates one bind group layout per @group up to the highest
// one used. Unused group indices get empty layouts.
func (d *Device) groupLayouts(combo *shader.Combination) ([]*groupLayout, error) {
	type slotted struct {
		layoutEntry
		native gputypes.BindGroupLayoutEntry
	}
	byGroup := make(map[uint32][]slotted)
	seen := make(map[[2]uint32]entryKind)
	add := func(v shader.Variable, e layoutEntry, native gputypes.BindGroupLayoutEntry) error {
		g, err := groupOf(v)
		if err != nil {
			return err
		}
		if g >= d.limits.MaxBindGroups {
			return fmt.Errorf("%w: %s %q uses group %d of %d", beholder.ErrNotSupported, e.kind, v.Name, g, d.limits.MaxBindGroups)
		}
		at := [2]uint32{g, e.binding}
		if prev, dup := seen[at]; dup {
			return fmt.Errorf("%w: %s %q and a %s share group %d binding %d",
				beholder.ErrInvalidDescription, e.kind, v.Name, prev, g, e.binding)
		}
		seen[at] = e.kind
		native.Binding = e.binding
		native.Visibility = shaderStages(e.stage)
		byGroup[g] = append(byGroup[g], slotted{e, native})
		return nil
	}

	for _, stage := range combo.Stages() {
		base := combo.Shader(stage)
		for _, b := range base.UniformBuffers().Bindings() {
			e := layoutEntry{binding: uint32(b.NativeSlot), kind: entryUniformBuffer, stage: stage, slot: b.NativeSlot}
			if err := add(b.Variable, e, gputypes.BindGroupLayoutEntry{
				Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			}); err != nil {
				return nil, err
			}
		}
		for _, b := range base.Textures().Bindings() {
			t, err := b.Variable.ParsedType()
			if err != nil {
				return nil, err
			}
			tb := textureBinding(b.Variable, t)
			e := layoutEntry{binding: uint32(b.NativeSlot), kind: entryTexture, stage: stage, slot: b.NativeSlot}
			if err := add(b.Variable, e, gputypes.BindGroupLayoutEntry{Texture: &tb}); err != nil {
				return nil, err
			}
		}
		for _, b := range base.Samplers().Bindings() {
			t, err := b.Variable.ParsedType()
			if err != nil {
				return nil, err
			}
			st := gputypes.SamplerBindingTypeFiltering
			if t.Comparison {
				st = gputypes.SamplerBindingTypeComparison
			}
			e := layoutEntry{binding: uint32(b.NativeSlot), kind: entrySampler, stage: stage, slot: b.NativeSlot}
			if err := add(b.Variable, e, gputypes.BindGroupLayoutEntry{
				Sampler: &gputypes.SamplerBindingLayout{Type: st},
			}); err != nil {
				return nil, err
			}
		}
	}

	count := uint32(0)
	for g := range byGroup {
		count = max(count, g+1)
	}
	groups := make([]*groupLayout, 0, count)
	for g := range count {
		entries := byGroup[g]
		slices.SortFunc(entries, func(a, b slotted) int { return int(a.binding) - int(b.binding) })
		natives := make([]gputypes.BindGroupLayoutEntry, len(entries))
		gl := &groupLayout{ident: newIdent(), index: g, entries: make([]layoutEntry, len(entries))}
		for i, e := range entries {
			natives[i] = e.native
			gl.entries[i] = e.layoutEntry
		}
		layout, err := d.dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   d.label("group " + strconv.Itoa(int(g))),
			Entries: natives,
		})
		if err != nil {
			for _, prev := range groups {
				d.dev.DestroyBindGroupLayout(prev.layout)
			}
			return nil, fmt.Errorf("hal: create bind group layout %d: %w", g, err)
		}
		gl.layout = layout
		groups = append(groups, gl)
	}
	return groups, nil
}

// computePipeline returns the pipeline of a compute program, creating it
// on first use.
func (p *program) computePipeline() (wgpu.ComputePipeline, error) {
	p.computeOnce.Do(func() {
		cs := p.shaders[shader.StageCompute]
		p.compute, p.computeErr = p.d.dev.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
			Label:  p.d.label(cs.entry()),
			Layout: p.layout,
			Compute: wgpu.ComputeState{
				Module:     cs.module,
				EntryPoint: cs.entry(),
			},
		})
		if p.computeErr != nil {
			p.computeErr = fmt.Errorf("hal: create compute pipeline: %w", p.computeErr)
		}
	})
	return p.compute, p.computeErr
}

// destroy releases the program's pipelines, bind groups and layouts once
// the GPU is done with them. It must run at most once.
func (p *program) destroy() {
	d := p.d
	d.pipelines.removeReferencing(p.id)
	for _, g := range p.groups {
		d.groups.removeReferencing(g.id)
	}
	layout, groups := p.layout, p.groups
	compute := p.compute
	d.retire(func() {
		if compute != nil {
			d.dev.DestroyComputePipeline(compute)
		}
		d.dev.DestroyPipelineLayout(layout)
		for _, g := range groups {
			d.dev.DestroyBindGroupLayout(g.layout)
		}
	})
}
