package shader

import "fmt"

// Policy describes how a backend lays out a shader's bindings.
type Policy struct {
	// Packing assigns native slots to uniform buffers, textures and samplers.
	Packing Packing
	// UniformBufferWidth returns the native slots a uniform buffer
	// occupies. Nil means one.
	UniformBufferWidth func(Variable) int
	// CombinedSamplers binds samplers at their texture's native slot.
	CombinedSamplers bool
	// CheckType rejects declared types the backend cannot express. It is
	// called for every variable after the type parses.
	CheckType func(Variable, Type) error
}

// Base holds the backend-independent part of a compiled shader: its
// reflection, slot translations and sampler map. Backends embed it in
// their shader objects.
type Base struct {
	reflection     *Reflection
	uniformBuffers *Translation[Variable]
	textures       *Translation[Variable]
	samplers       *Translation[Variable]
	samplerMap     SamplerMap
}

// NewBase validates r against p and builds its translations.
func NewBase(r *Reflection, p Policy) (*Base, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil reflection", ErrInvalidCombination)
	}
	if !r.Stage.Valid() {
		return nil, fmt.Errorf("%w: stage %d", ErrInvalidCombination, r.Stage)
	}
	if err := checkTypes(r, p.CheckType); err != nil {
		return nil, fmt.Errorf("%s shader %q: %w", r.Stage, r.Name, err)
	}

	slotOf := func(v Variable) (int, error) { return v.Slot() }
	ubs, err := Translate(r.UniformBuffers, slotOf, TranslateOptions[Variable]{
		Packing: p.Packing,
		Width:   p.UniformBufferWidth,
	})
	if err != nil {
		return nil, fmt.Errorf("%s shader %q uniform buffers: %w", r.Stage, r.Name, err)
	}
	texs, err := Translate(r.Textures, slotOf, TranslateOptions[Variable]{Packing: p.Packing})
	if err != nil {
		return nil, fmt.Errorf("%s shader %q textures: %w", r.Stage, r.Name, err)
	}
	smps, err := Translate(r.Samplers, slotOf, TranslateOptions[Variable]{Packing: p.Packing})
	if err != nil {
		return nil, fmt.Errorf("%s shader %q samplers: %w", r.Stage, r.Name, err)
	}

	b := &Base{
		reflection:     r,
		uniformBuffers: ubs,
		textures:       texs,
		samplers:       smps,
	}
	if p.CombinedSamplers {
		b.samplerMap, err = CombinedSamplerMap(r, texs, smps)
		if err != nil {
			return nil, fmt.Errorf("%s shader %q: %w", r.Stage, r.Name, err)
		}
	} else {
		b.samplerMap = SeparateSamplerMap(r, texs, smps)
	}
	return b, nil
}

func checkTypes(r *Reflection, check func(Variable, Type) error) error {
	visit := func(v Variable, want TypeClass, exact bool) error {
		t, err := v.ParsedType()
		if err != nil {
			return fmt.Errorf("variable %q: %w", v.Name, err)
		}
		if exact && t.Class != want {
			return fmt.Errorf("%w: variable %q of type %q", ErrUnsupportedType, v.Name, v.Type)
		}
		if !exact && (t.Class == ClassTexture || t.Class == ClassSampler) {
			return fmt.Errorf("%w: variable %q of type %q", ErrUnsupportedType, v.Name, v.Type)
		}
		if check != nil {
			return check(v, t)
		}
		return nil
	}
	for _, v := range r.Inputs {
		if err := visit(v, ClassScalar, false); err != nil {
			return err
		}
	}
	for _, v := range r.Outputs {
		if err := visit(v, ClassScalar, false); err != nil {
			return err
		}
	}
	for _, ub := range r.UniformBuffers {
		for _, m := range ub.Members {
			if err := visit(m, ClassScalar, false); err != nil {
				return err
			}
		}
	}
	for _, v := range r.Textures {
		if err := visit(v, ClassTexture, true); err != nil {
			return err
		}
	}
	for _, v := range r.Samplers {
		if err := visit(v, ClassSampler, true); err != nil {
			return err
		}
	}
	return nil
}

// Stage returns the shader's stage.
func (b *Base) Stage() Stage { return b.reflection.Stage }

// Reflection returns the reflection the shader was built from.
func (b *Base) Reflection() *Reflection { return b.reflection }

// UniformBuffers returns the uniform buffer slot translation.
func (b *Base) UniformBuffers() *Translation[Variable] { return b.uniformBuffers }

// Textures returns the texture slot translation.
func (b *Base) Textures() *Translation[Variable] { return b.textures }

// Samplers returns the sampler slot translation.
func (b *Base) Samplers() *Translation[Variable] { return b.samplers }

// SamplerMap returns the mapping from logical sampler slots to native targets.
func (b *Base) SamplerMap() SamplerMap { return b.samplerMap }

// ShaderBase returns b. It lets backend shader types that embed Base
// hand it to Combination.
func (b *Base) ShaderBase() *Base { return b }
