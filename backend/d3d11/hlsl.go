package d3d11

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Zulkir/Beholder-sub001/shader"
)

// The stage body is HLSL with an entry point called main. The generated
// header declares the resources of the reflection at their native
// registers and the stage interface as two structs:
//
//   - BH_INPUT, one field per input named after the variable,
//   - BH_OUTPUT, one field per output.
//
// Bodies of hull, domain and geometry shaders wrap BH_INPUT in the patch
// or stream types they need.

const entryPoint = "main"

// profile returns the compiler target of a stage at shader model 5.
func profile(s shader.Stage) string {
	switch s {
	case shader.StageHull:
		return "hs_5_0"
	case shader.StageDomain:
		return "ds_5_0"
	case shader.StageGeometry:
		return "gs_5_0"
	case shader.StagePixel:
		return "ps_5_0"
	case shader.StageCompute:
		return "cs_5_0"
	default:
		return "vs_5_0"
	}
}

// resourceType spells the declared type of a texture or sampler.
func resourceType(v shader.Variable) (string, error) {
	t, err := v.ParsedType()
	if err != nil {
		return "", err
	}
	switch t.Class {
	case shader.ClassSampler:
		if t.Comparison {
			return "SamplerComparisonState", nil
		}
		return "SamplerState", nil
	case shader.ClassTexture:
		switch t.Texture {
		case shader.Texture2DMS, shader.Texture2DMSArray, shader.TextureBuffer:
			return v.Type + "<float4>", nil
		}
		return v.Type, nil
	}
	return "", fmt.Errorf("%w: %q is not a resource type", shader.ErrUnsupportedType, v.Type)
}

// valueType checks that v has a numeric type and returns its spelling.
func valueType(v shader.Variable) (string, error) {
	t, err := v.ParsedType()
	if err != nil {
		return "", err
	}
	switch t.Class {
	case shader.ClassScalar, shader.ClassVector, shader.ClassMatrix:
		return v.Type, nil
	}
	return "", fmt.Errorf("%w: %q is not a value type", shader.ErrUnsupportedType, v.Type)
}

func arraySuffix(n int) string {
	if n > 0 {
		return "[" + strconv.Itoa(n) + "]"
	}
	return ""
}

type hlslWriter struct {
	b strings.Builder
}

func (w *hlslWriter) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

// generate returns the complete HLSL source of b.
func generate(b *shader.Base) (string, error) {
	r := b.Reflection()
	body, err := r.Source(shader.LanguageHLSL)
	if err != nil {
		return "", err
	}
	w := &hlslWriter{}

	for _, ub := range b.UniformBuffers().Bindings() {
		w.line("cbuffer %s : register(b%d)", ub.Variable.Name, ub.NativeSlot)
		w.line("{")
		for _, m := range ub.Variable.Members {
			typ, err := valueType(m)
			if err != nil {
				return "", fmt.Errorf("member %q of %q: %w", m.Name, ub.Variable.Name, err)
			}
			w.line("    %s %s%s;", typ, m.Name, arraySuffix(m.ArraySize))
		}
		w.line("};")
	}
	for _, tex := range b.Textures().Bindings() {
		typ, err := resourceType(tex.Variable)
		if err != nil {
			return "", fmt.Errorf("texture %q: %w", tex.Variable.Name, err)
		}
		w.line("%s %s%s : register(t%d);", typ, tex.Variable.Name, arraySuffix(tex.Variable.ArraySize), tex.NativeSlot)
	}
	for _, smp := range b.Samplers().Bindings() {
		typ, err := resourceType(smp.Variable)
		if err != nil {
			return "", fmt.Errorf("sampler %q: %w", smp.Variable.Name, err)
		}
		w.line("%s %s%s : register(s%d);", typ, smp.Variable.Name, arraySuffix(smp.Variable.ArraySize), smp.NativeSlot)
	}

	if err := w.block("BH_INPUT", r.Inputs); err != nil {
		return "", err
	}
	if err := w.block("BH_OUTPUT", r.Outputs); err != nil {
		return "", err
	}
	w.line("#line 1")
	w.b.WriteString(body)
	return w.b.String(), nil
}

func (w *hlslWriter) block(name string, vars []shader.Variable) error {
	if len(vars) == 0 {
		return nil
	}
	w.line("struct %s", name)
	w.line("{")
	for _, v := range vars {
		typ, err := valueType(v)
		if err != nil {
			return fmt.Errorf("%s field %q: %w", name, v.Name, err)
		}
		w.line("    %s %s%s : %s;", typ, v.Name, arraySuffix(v.ArraySize), v.Semantic)
	}
	w.line("};")
	return nil
}
