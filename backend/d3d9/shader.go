package d3d9

import (
	"errors"
	"fmt"

	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/shader"
)

// ErrCompile is returned when the HLSL compiler rejects a shader.
var ErrCompile = errors.New("d3d9: shader compilation failed")

// policy is the slot layout of shader model 3. Vertex and pixel shaders
// have their own constant registers and sampler units, so every stage
// packs from zero. A uniform buffer spans as many constant registers as
// its members need, and samplers live on the unit of their texture.
var policy = shader.Policy{
	Packing:            shader.PackFromZero,
	UniformBufferWidth: registers,
	CombinedSamplers:   true,
	CheckType:          checkType,
}

func checkType(v shader.Variable, t shader.Type) error {
	switch t.Class {
	case shader.ClassScalar, shader.ClassVector, shader.ClassMatrix:
		if t.Numeric != shader.NumericFloat {
			return fmt.Errorf("%w: %q is not float typed in shader model 3", shader.ErrUnsupportedType, v.Name)
		}
	case shader.ClassTexture:
		if _, ok := samplerTypes[t.Texture]; !ok {
			return fmt.Errorf("%w: texture %q of type %q", shader.ErrUnsupportedType, v.Name, v.Type)
		}
		if v.ArraySize > 0 {
			return fmt.Errorf("%w: texture array %q", shader.ErrUnsupportedType, v.Name)
		}
	case shader.ClassSampler:
		if t.Comparison {
			return fmt.Errorf("%w: comparison sampler %q", shader.ErrUnsupportedType, v.Name)
		}
	}
	return nil
}

// d3dShader is a compiled vertex or pixel shader.
type d3dShader struct {
	beholder.ShaderObject
	obj Object
	// uniformBuffers is the register span of each uniform buffer, by
	// first register.
	uniformBuffers map[int]int
}

func (d *Device) newShader(r *shader.Reflection) (*d3dShader, error) {
	base, err := shader.NewBase(r, policy)
	if err != nil {
		return nil, err
	}
	limit := MAX_VERTEX_CONSTANTS
	if r.Stage == shader.StagePixel {
		limit = MAX_PIXEL_CONSTANTS
	}
	spans := make(map[int]int)
	for _, ub := range base.UniformBuffers().Bindings() {
		if _, _, err := layout(ub.Variable); err != nil {
			return nil, fmt.Errorf("%s shader %q: %w", r.Stage, r.Name, err)
		}
		if ub.NativeSlot+ub.NativeWidth > limit {
			return nil, fmt.Errorf("%w: %s shader %q needs %d constant registers", beholder.ErrNotSupported,
				r.Stage, r.Name, ub.NativeSlot+ub.NativeWidth)
		}
		spans[ub.NativeSlot] = ub.NativeWidth
	}
	units := MAX_PIXEL_SAMPLERS
	if r.Stage == shader.StageVertex {
		units = MAX_VERTEX_SAMPLERS
	}
	if n := base.Textures().NativeEnd(); n > units {
		return nil, fmt.Errorf("%w: %s shader %q samples %d textures, the stage has %d units", beholder.ErrNotSupported,
			r.Stage, r.Name, n, units)
	}
	if _, ok := r.Sources[shader.LanguageHLSL]; !ok {
		return nil, fmt.Errorf("%s shader %q: %w: d3d9 needs hlsl code", r.Stage, r.Name, shader.ErrMissingSource)
	}
	src, err := generate(base)
	if err != nil {
		return nil, fmt.Errorf("%s shader %q: %w", r.Stage, r.Name, err)
	}
	code, err := d.compiler.Compile(src, entryPoint, profile(r.Stage))
	if err != nil {
		return nil, fmt.Errorf("%w: %s shader %q: %v", ErrCompile, r.Stage, r.Name, err)
	}
	var obj Object
	if r.Stage == shader.StagePixel {
		obj, err = d.dev.CreatePixelShader(code)
	} else {
		obj, err = d.dev.CreateVertexShader(code)
	}
	if err != nil {
		return nil, fmt.Errorf("d3d9: create %s shader %q: %w", r.Stage, r.Name, err)
	}
	d.log.Debug("d3d9: compiled shader", "stage", r.Stage, "name", r.Name, "bytes", len(code))
	s := &d3dShader{obj: obj, uniformBuffers: spans}
	s.Init(d.reg, s, base)
	return s, nil
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
		return nil, fmt.Errorf("%w: %s shader is not a d3d9 shader", beholder.ErrWrongBackend, stage)
	}
	if ds.IsDisposed() {
		return nil, fmt.Errorf("%w: %s shader", beholder.ErrReleased, stage)
	}
	return ds, nil
}
