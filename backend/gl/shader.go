package gl

import (
	"errors"
	"fmt"

	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/shader"
)

// ErrCompile is returned when the driver rejects generated GLSL.
var ErrCompile = errors.New("gl: shader compilation failed")

// policy is the slot layout of GL shaders. Uniform block bindings and
// texture units are shared by all stages of a program, so native slots
// stay inside each stage's logical range and samplers ride on the unit
// of the texture they sample.
var policy = shader.Policy{
	Packing:          shader.PackFromAPIStart,
	CombinedSamplers: true,
}

func shaderType(s shader.Stage) Enum {
	switch s {
	case shader.StageHull:
		return TESS_CONTROL_SHADER
	case shader.StageDomain:
		return TESS_EVALUATION_SHADER
	case shader.StageGeometry:
		return GEOMETRY_SHADER
	case shader.StagePixel:
		return FRAGMENT_SHADER
	default:
		return VERTEX_SHADER
	}
}

// glShader is a shader with one compiled GL shader object per variant.
type glShader struct {
	beholder.ShaderObject
	dev      *Device
	samplers map[string]string
	variants shader.Variants[Shader]
}

func (d *Device) newShader(r *shader.Reflection) (*glShader, error) {
	if r != nil && r.Stage == shader.StageCompute {
		return nil, fmt.Errorf("%w: compute shaders", beholder.ErrNotSupported)
	}
	base, err := shader.NewBase(r, policy)
	if err != nil {
		return nil, err
	}
	if _, err := r.Source(shader.LanguageGLSL); err != nil {
		return nil, err
	}
	samplers, err := samplerTypes(r)
	if err != nil {
		return nil, fmt.Errorf("%s shader %q: %w", r.Stage, r.Name, err)
	}
	s := &glShader{dev: d, samplers: samplers}
	s.Init(d.reg, s, base)
	return s, nil
}

// variant returns the GL shader object compiled for key, compiling it on
// first use.
func (s *glShader) variant(key shader.VariantKey) (Shader, error) {
	return s.variants.Get(key, s.compile)
}

func (s *glShader) compile(key shader.VariantKey) (Shader, error) {
	r := s.Reflection()
	src, err := generate(s.dev.opts.ShaderVersion, s.ShaderBase(), s.samplers, key)
	if err != nil {
		return 0, fmt.Errorf("%s shader %q: %w", r.Stage, r.Name, err)
	}
	f := s.dev.f
	obj := f.CreateShader(shaderType(r.Stage))
	f.ShaderSource(obj, src)
	f.CompileShader(obj)
	infoLog := f.GetShaderInfoLog(obj)
	if f.GetShaderi(obj, COMPILE_STATUS) == 0 {
		f.DeleteShader(obj)
		return 0, fmt.Errorf("%w: %s shader %q: %s", ErrCompile, r.Stage, r.Name, infoLog)
	}
	if infoLog != "" {
		s.dev.log.Warn("gl: shader compiler log", "stage", r.Stage, "name", r.Name, "log", infoLog)
	}
	s.dev.log.Debug("gl: compiled shader variant", "stage", r.Stage, "name", r.Name, "downstream", key.Downstream)
	return obj, nil
}

// Dispose deletes every compiled variant. Programs already linked from
// them keep working.
func (s *glShader) Dispose() {
	s.Release(func() {
		for _, obj := range s.variants.Drain() {
			s.dev.f.DeleteShader(obj)
		}
	})
}

// program is a linked GL program and the combination it was built from.
type program struct {
	obj   Program
	combo *shader.Combination
}

func (d *Device) program(set beholder.ShaderSet) (*program, error) {
	return d.programs.GetOrCreate(set, func() (*program, error) {
		return d.link(set)
	})
}

func (d *Device) link(set beholder.ShaderSet) (*program, error) {
	combo, err := shader.NewCombination(set.Bases()...)
	if err != nil {
		return nil, err
	}
	objs := make([]Shader, 0, shader.StageCount)
	for _, stage := range combo.Stages() {
		gs, ok := set.Shader(stage).(*glShader)
		if !ok {
			return nil, fmt.Errorf("%w: %s shader is not a gl shader", beholder.ErrWrongBackend, stage)
		}
		if gs.IsDisposed() {
			return nil, fmt.Errorf("%w: %s shader", beholder.ErrReleased, stage)
		}
		obj, err := gs.variant(combo.VariantKey(stage))
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}

	f := d.f
	p := f.CreateProgram()
	for _, obj := range objs {
		f.AttachShader(p, obj)
	}
	f.LinkProgram(p)
	if f.GetProgrami(p, LINK_STATUS) == 0 {
		infoLog := f.GetProgramInfoLog(p)
		f.DeleteProgram(p)
		return nil, fmt.Errorf("%w: %s", beholder.ErrLink, infoLog)
	}

	// Blocks and samplers are found by the names the combination
	// scattered over native slots.
	for slot, name := range combo.UniformBufferNames() {
		if name == "" {
			continue
		}
		if index := f.GetUniformBlockIndex(p, "bh_ub_"+name); index >= 0 {
			f.UniformBlockBinding(p, index, slot)
		}
	}
	for unit, name := range combo.TextureNames() {
		if name == "" {
			continue
		}
		if loc := f.GetUniformLocation(p, name); loc >= 0 {
			f.ProgramUniform1i(p, loc, unit)
		}
	}
	d.log.Debug("gl: linked program", "stages", len(objs),
		"uniform_buffers", combo.MaxValueBufferSlotPlusOne(), "textures", combo.MaxTextureSlotPlusOne())
	return &program{obj: p, combo: combo}, nil
}
