package d3d11

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga/hlsl"

	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/shader"
	"github.com/Zulkir/Beholder-sub001/shader/wgslreflect"
)

// ErrCompile is returned when the HLSL compiler rejects a shader.
var ErrCompile = errors.New("d3d11: shader compilation failed")

// policy is the slot layout of D3D11 shaders. Every stage has its own
// register file, so logical slots are used as registers unchanged and
// samplers keep their own slots.
var policy = shader.Policy{
	Packing: shader.PackIdentity,
}

// d3dShader is a shader compiled once at creation. D3D11 links stages
// by signature at draw time, so there are no per-program variants.
type d3dShader struct {
	beholder.ShaderObject
	dev      *Device
	obj      Object
	bytecode []byte
}

func (d *Device) newShader(r *shader.Reflection) (*d3dShader, error) {
	base, err := shader.NewBase(r, policy)
	if err != nil {
		return nil, err
	}
	src, entry, err := source(base)
	if err != nil {
		return nil, fmt.Errorf("%s shader %q: %w", r.Stage, r.Name, err)
	}
	code, err := d.compiler.Compile(src, entry, profile(r.Stage))
	if err != nil {
		return nil, fmt.Errorf("%w: %s shader %q: %v", ErrCompile, r.Stage, r.Name, err)
	}
	obj, err := d.dev.CreateShader(r.Stage, code)
	if err != nil {
		return nil, fmt.Errorf("d3d11: create %s shader %q: %w", r.Stage, r.Name, err)
	}
	d.log.Debug("d3d11: compiled shader", "stage", r.Stage, "name", r.Name, "bytes", len(code))
	s := &d3dShader{dev: d, obj: obj, bytecode: code}
	s.Init(d.reg, s, base)
	return s, nil
}

// source returns the HLSL of b and its entry point. HLSL bodies get a
// generated header; WGSL is translated with the registers of b.
func source(b *shader.Base) (string, string, error) {
	r := b.Reflection()
	if _, ok := r.Sources[shader.LanguageHLSL]; ok {
		src, err := generate(b)
		return src, entryPoint, err
	}
	wgsl, err := r.Source(shader.LanguageWGSL)
	if err != nil {
		return "", "", fmt.Errorf("%w: no hlsl or wgsl code", shader.ErrMissingSource)
	}
	module, err := wgslreflect.Parse(wgsl)
	if err != nil {
		return "", "", err
	}
	regs := make(wgslreflect.Registers)
	for _, t := range []*shader.Translation[shader.Variable]{b.UniformBuffers(), b.Textures(), b.Samplers()} {
		if err := wgslreflect.RegistersFor(t.Bindings(), regs); err != nil {
			return "", "", err
		}
	}
	return wgslreflect.HLSL(module, r.Name, regs, hlsl.DefaultOptions().ShaderModel)
}

// Dispose releases the native shader.
func (s *d3dShader) Dispose() {
	s.Release(func() { s.obj.Release() })
}

func nativeShader(sh beholder.Shader, stage shader.Stage) (*d3dShader, error) {
	if sh == nil {
		return nil, nil
	}
	ds, ok := sh.(*d3dShader)
	if !ok {
		return nil, fmt.Errorf("%w: %s shader is not a d3d11 shader", beholder.ErrWrongBackend, stage)
	}
	if ds.IsDisposed() {
		return nil, fmt.Errorf("%w: %s shader", beholder.ErrReleased, stage)
	}
	return ds, nil
}

// combination returns the validated combination of set, building it on
// first use.
func (d *Device) combination(set beholder.ShaderSet) (*shader.Combination, error) {
	return d.combinations.GetOrCreate(set, func() (*shader.Combination, error) {
		combo, err := shader.NewCombination(set.Bases()...)
		if err != nil {
			return nil, err
		}
		d.log.Debug("d3d11: new shader combination", "stages", len(combo.Stages()),
			"uniform_buffers", combo.MaxValueBufferSlotPlusOne(), "textures", combo.MaxTextureSlotPlusOne())
		return combo, nil
	})
}

func inputElements(attrs []beholder.VertexAttribute) ([]INPUT_ELEMENT_DESC, error) {
	out := make([]INPUT_ELEMENT_DESC, 0, len(attrs))
	for _, a := range attrs {
		e := a.Element
		format, err := dxgiFormat(e.Format)
		if err != nil {
			return nil, fmt.Errorf("vertex element %s: %w", e.SemanticName(), err)
		}
		desc := INPUT_ELEMENT_DESC{
			SemanticName:      e.Semantic,
			SemanticIndex:     uint32(e.SemanticIndex),
			Format:            format,
			InputSlot:         uint32(e.InputSlot),
			AlignedByteOffset: uint32(e.Offset),
			InputSlotClass:    INPUT_PER_VERTEX_DATA,
		}
		if e.PerInstance {
			desc.InputSlotClass = INPUT_PER_INSTANCE_DATA
			desc.InstanceDataStepRate = uint32(max(e.InstanceStepRate, 1))
		}
		out = append(out, desc)
	}
	return out, nil
}
