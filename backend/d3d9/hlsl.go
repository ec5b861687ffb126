package d3d9

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Zulkir/Beholder-sub001/shader"
)

// Shader model 3 has no constant buffers. Each uniform buffer is a run of
// float4 constant registers; its members are declared as individual
// uniforms at the registers their cbuffer offsets land on, so a buffer
// filled with the cbuffer layout uploads unchanged. Textures are sampler
// objects at the s register of their unit and carry the sampler state.
//
// The stage body is HLSL with an entry point called main reading
// BH_INPUT and returning BH_OUTPUT. SV_ semantics are renamed to their
// shader model 3 spelling.

const entryPoint = "main"

const registerBytes = 16

func profile(s shader.Stage) string {
	if s == shader.StagePixel {
		return "ps_3_0"
	}
	return "vs_3_0"
}

// member is one uniform buffer member placed in constant registers.
type member struct {
	v        shader.Variable
	register int
}

// layout places the members of a uniform buffer with cbuffer packing
// and returns them with the number of registers the buffer spans. A
// member that does not start on a register boundary cannot be declared
// as its own uniform and is rejected.
func layout(ub shader.Variable) ([]member, int, error) {
	var out []member
	offset := 0
	for _, m := range ub.Members {
		t, err := m.ParsedType()
		if err != nil {
			return nil, 0, err
		}
		var size int
		aligned := m.ArraySize > 0 || t.Class == shader.ClassMatrix
		switch t.Class {
		case shader.ClassMatrix:
			// Column major: one register per column.
			size = (t.Columns-1)*registerBytes + t.Rows*4
		default:
			size = t.Components() * 4
		}
		if m.ArraySize > 0 {
			stride := (size + registerBytes - 1) / registerBytes * registerBytes
			size = (m.ArraySize-1)*stride + size
		}
		if aligned || offset%registerBytes+size > registerBytes {
			offset = (offset + registerBytes - 1) / registerBytes * registerBytes
		}
		if offset%registerBytes != 0 {
			return nil, 0, fmt.Errorf("%w: member %q of %q shares a constant register", shader.ErrUnsupportedType, m.Name, ub.Name)
		}
		out = append(out, member{v: m, register: offset / registerBytes})
		offset += size
	}
	return out, (offset + registerBytes - 1) / registerBytes, nil
}

// registers is the width of a uniform buffer in constant registers.
// Buffers that fail to lay out are reported by checkType, so they count
// as one register here.
func registers(ub shader.Variable) int {
	_, n, err := layout(ub)
	if err != nil || n == 0 {
		return 1
	}
	return n
}

var samplerTypes = map[shader.TextureKind]string{
	shader.Texture1D:   "sampler1D",
	shader.Texture2D:   "sampler2D",
	shader.Texture3D:   "sampler3D",
	shader.TextureCube: "samplerCUBE",
}

// semantic renames the SV_ semantics shader model 3 spells differently.
func semantic(s shader.Stage, output bool, name string) string {
	upper := strings.ToUpper(name)
	switch {
	case upper == "SV_POSITION":
		if s == shader.StagePixel && !output {
			return "VPOS"
		}
		return "POSITION"
	case strings.HasPrefix(upper, "SV_TARGET"):
		return "COLOR" + strings.TrimPrefix(upper, "SV_TARGET")
	case upper == "SV_DEPTH":
		return "DEPTH"
	case upper == "SV_ISFRONTFACE":
		return "VFACE"
	}
	return name
}

func arraySuffix(n int) string {
	if n > 0 {
		return "[" + strconv.Itoa(n) + "]"
	}
	return ""
}

// generate returns the complete HLSL source of b.
func generate(b *shader.Base) (string, error) {
	r := b.Reflection()
	body, err := r.Source(shader.LanguageHLSL)
	if err != nil {
		return "", err
	}
	var w strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&w, format, args...)
		w.WriteByte('\n')
	}

	for _, ub := range b.UniformBuffers().Bindings() {
		members, _, err := layout(ub.Variable)
		if err != nil {
			return "", err
		}
		line("// %s", ub.Variable.Name)
		for _, m := range members {
			line("%s %s%s : register(c%d);", m.v.Type, m.v.Name, arraySuffix(m.v.ArraySize), ub.NativeSlot+m.register)
		}
	}
	for _, tex := range b.Textures().Bindings() {
		t, err := tex.Variable.ParsedType()
		if err != nil {
			return "", err
		}
		typ, ok := samplerTypes[t.Texture]
		if !ok {
			return "", fmt.Errorf("%w: texture %q of type %q", shader.ErrUnsupportedType, tex.Variable.Name, tex.Variable.Type)
		}
		line("%s %s : register(s%d);", typ, tex.Variable.Name, tex.NativeSlot)
	}

	for _, block := range [...]struct {
		name   string
		vars   []shader.Variable
		output bool
	}{
		{"BH_INPUT", r.Inputs, false},
		{"BH_OUTPUT", r.Outputs, true},
	} {
		if len(block.vars) == 0 {
			continue
		}
		line("struct %s", block.name)
		line("{")
		for _, v := range block.vars {
			line("    %s %s%s : %s;", v.Type, v.Name, arraySuffix(v.ArraySize), semantic(r.Stage, block.output, v.Semantic))
		}
		line("};")
	}
	line("#line 1")
	w.WriteString(body)
	return w.String(), nil
}
