package gl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Zulkir/Beholder-sub001/shader"
)

// DefaultVersion is the GLSL version line used when the device options
// give none.
const DefaultVersion = "430 core"

// The stage body is plain GLSL with a main function. The generated
// header declares everything the reflection lists:
//
//   - uniform buffers as std140 blocks named bh_ub_<name> with the
//     instance name <name>,
//   - textures as uniforms called by their own name,
//   - inputs and outputs as inp_<name> and out_<name> macros.
//
// Varyings are named after the stage that consumes them, so an output's
// name depends on the downstream stage. Stages whose inputs are per
// vertex arrays (hull, domain, geometry) read them as inp_<name>(i).

func stagePrefix(s shader.Stage) string {
	switch s {
	case shader.StageVertex:
		return "vs"
	case shader.StageHull:
		return "hs"
	case shader.StageDomain:
		return "ds"
	case shader.StageGeometry:
		return "gs"
	case shader.StagePixel:
		return "ps"
	default:
		return "cs"
	}
}

func varyingName(consumer shader.Stage, semantic string) string {
	return "bh_" + stagePrefix(consumer) + "_" + identifier(strings.ToUpper(semantic))
}

func identifier(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, s)
}

func arrayedInputs(s shader.Stage) bool {
	return s == shader.StageHull || s == shader.StageDomain || s == shader.StageGeometry
}

// typeName spells a numeric type in GLSL.
func typeName(t shader.Type) (string, error) {
	var scalar, prefix string
	switch t.Numeric {
	case shader.NumericFloat:
		scalar, prefix = "float", ""
	case shader.NumericInt:
		scalar, prefix = "int", "i"
	case shader.NumericUint:
		scalar, prefix = "uint", "u"
	case shader.NumericBool:
		scalar, prefix = "bool", "b"
	}
	switch t.Class {
	case shader.ClassScalar:
		return scalar, nil
	case shader.ClassVector:
		if t.Rows == 1 {
			return scalar, nil
		}
		return prefix + "vec" + strconv.Itoa(t.Rows), nil
	case shader.ClassMatrix:
		if t.Numeric != shader.NumericFloat {
			return "", fmt.Errorf("%w: %s matrix", shader.ErrUnsupportedType, scalar)
		}
		if t.Rows == t.Columns {
			return "mat" + strconv.Itoa(t.Rows), nil
		}
		return "mat" + strconv.Itoa(t.Columns) + "x" + strconv.Itoa(t.Rows), nil
	default:
		return "", fmt.Errorf("%w: class %d is not a value type", shader.ErrUnsupportedType, t.Class)
	}
}

// samplerName spells the sampler type of a texture. Textures sampled
// through a comparison sampler get the shadow variant.
func samplerName(kind shader.TextureKind, shadow bool) (string, error) {
	var name string
	switch kind {
	case shader.Texture1D:
		name = "sampler1D"
	case shader.Texture1DArray:
		name = "sampler1DArray"
	case shader.Texture2D:
		name = "sampler2D"
	case shader.Texture2DArray:
		name = "sampler2DArray"
	case shader.Texture2DMS:
		name = "sampler2DMS"
	case shader.Texture2DMSArray:
		name = "sampler2DMSArray"
	case shader.Texture3D:
		name = "sampler3D"
	case shader.TextureCube:
		name = "samplerCube"
	case shader.TextureCubeArray:
		name = "samplerCubeArray"
	case shader.TextureBuffer:
		name = "samplerBuffer"
	default:
		return "", fmt.Errorf("%w: texture kind %d", shader.ErrUnsupportedType, kind)
	}
	if !shadow {
		return name, nil
	}
	switch kind {
	case shader.Texture2DMS, shader.Texture2DMSArray, shader.Texture3D, shader.TextureBuffer:
		return "", fmt.Errorf("%w: comparison sampling of %s", shader.ErrUnsupportedType, name)
	}
	return name + "Shadow", nil
}

// samplerTypes resolves the GLSL sampler type of every texture in r.
func samplerTypes(r *shader.Reflection) (map[string]string, error) {
	shadow := make(map[string]bool, len(r.TextureSamplerPairs))
	for _, p := range r.TextureSamplerPairs {
		s, ok := r.Sampler(p.Sampler)
		if !ok {
			continue
		}
		t, err := s.ParsedType()
		if err != nil {
			return nil, err
		}
		if t.Comparison {
			shadow[p.Texture] = true
		}
	}
	out := make(map[string]string, len(r.Textures))
	for _, tex := range r.Textures {
		t, err := tex.ParsedType()
		if err != nil {
			return nil, err
		}
		name, err := samplerName(t.Texture, shadow[tex.Name])
		if err != nil {
			return nil, fmt.Errorf("texture %q: %w", tex.Name, err)
		}
		out[tex.Name] = name
	}
	return out, nil
}

type builtinRole int

const (
	roleInput builtinRole = iota
	roleOutput
)

// builtin maps a system-value semantic to its GLSL variable. Arrayed
// stages read positions from gl_in, so the result is a macro body taking
// the vertex index i.
func builtin(stage shader.Stage, role builtinRole, semantic string) (string, bool) {
	sem := strings.ToUpper(semantic)
	if n, ok := strings.CutPrefix(sem, "SV_TARGET"); ok && role == roleOutput && stage == shader.StagePixel {
		if n == "" {
			n = "0"
		}
		return "bh_target" + n, true
	}
	switch {
	case sem == "SV_POSITION" && role == roleInput && stage == shader.StagePixel:
		return "gl_FragCoord", true
	case sem == "SV_POSITION" && role == roleInput && arrayedInputs(stage):
		return "gl_in[i].gl_Position", true
	case sem == "SV_POSITION" && role == roleOutput && stage == shader.StageHull:
		return "gl_out[gl_InvocationID].gl_Position", true
	case sem == "SV_POSITION" && role == roleOutput:
		return "gl_Position", true
	}
	switch sem {
	case "SV_VERTEXID":
		return "gl_VertexID", true
	case "SV_INSTANCEID":
		return "gl_InstanceID", true
	case "SV_PRIMITIVEID":
		if stage == shader.StageGeometry && role == roleInput {
			return "gl_PrimitiveIDIn", true
		}
		return "gl_PrimitiveID", true
	case "SV_ISFRONTFACE":
		return "gl_FrontFacing", true
	case "SV_SAMPLEINDEX":
		return "gl_SampleID", true
	case "SV_DEPTH":
		return "gl_FragDepth", true
	case "SV_OUTPUTCONTROLPOINTID":
		return "gl_InvocationID", true
	case "SV_GSINSTANCEID":
		return "gl_InvocationID", true
	case "SV_DOMAINLOCATION":
		return "gl_TessCoord", true
	case "SV_TESSFACTOR":
		return "gl_TessLevelOuter", true
	case "SV_INSIDETESSFACTOR":
		return "gl_TessLevelInner", true
	case "SV_DISPATCHTHREADID":
		return "gl_GlobalInvocationID", true
	case "SV_GROUPID":
		return "gl_WorkGroupID", true
	case "SV_GROUPTHREADID":
		return "gl_LocalInvocationID", true
	case "SV_GROUPINDEX":
		return "gl_LocalInvocationIndex", true
	}
	return "", false
}

// glslWriter accumulates one generated header.
type glslWriter struct {
	b strings.Builder
}

func (w *glslWriter) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

// generate returns the complete source of the variant of b that feeds
// key.Downstream.
func generate(version string, b *shader.Base, samplers map[string]string, key shader.VariantKey) (string, error) {
	r := b.Reflection()
	body, err := r.Source(shader.LanguageGLSL)
	if err != nil {
		return "", err
	}
	if version == "" {
		version = DefaultVersion
	}
	w := &glslWriter{}
	w.line("#version %s", version)
	if err := w.layout(r, key); err != nil {
		return "", err
	}

	for _, ub := range r.UniformBuffers {
		w.line("layout(std140) uniform bh_ub_%s {", ub.Name)
		for _, m := range ub.Members {
			t, err := m.ParsedType()
			if err != nil {
				return "", err
			}
			name, err := typeName(t)
			if err != nil {
				return "", fmt.Errorf("member %q of %q: %w", m.Name, ub.Name, err)
			}
			w.line("    %s %s%s;", name, m.Name, arraySuffix(m.ArraySize))
		}
		w.line("} %s;", ub.Name)
	}
	for _, tex := range r.Textures {
		w.line("uniform %s %s;", samplers[tex.Name], tex.Name)
	}

	for i, in := range r.Inputs {
		if err := w.input(r.Stage, i, in); err != nil {
			return "", err
		}
	}
	for _, out := range r.Outputs {
		if err := w.output(r.Stage, key.Downstream, out); err != nil {
			return "", err
		}
	}

	w.line("#line 1")
	w.b.WriteString(body)
	return w.b.String(), nil
}

func arraySuffix(n int) string {
	if n > 0 {
		return "[" + strconv.Itoa(n) + "]"
	}
	return ""
}

// layout writes the stage's layout qualifiers.
func (w *glslWriter) layout(r *shader.Reflection, key shader.VariantKey) error {
	switch r.Stage {
	case shader.StageHull:
		if r.Tessellation == nil {
			return fmt.Errorf("%w: hull shader %q without tessellation layout", shader.ErrInvalidCombination, r.Name)
		}
		w.line("layout(vertices = %d) out;", r.Tessellation.OutputControlPoints)
	case shader.StageDomain:
		l := shader.DecodeTessellationLayout(key.Layout)
		w.line("layout(%s) in;", tessellationQualifiers(l))
	case shader.StageGeometry:
		g := r.Geometry
		if g == nil {
			return fmt.Errorf("%w: geometry shader %q without geometry layout", shader.ErrInvalidCombination, r.Name)
		}
		in, ok := map[string]string{"point": "points", "line": "lines", "triangle": "triangles"}[g.Input]
		if !ok {
			return fmt.Errorf("%w: geometry input %q", shader.ErrUnsupportedType, g.Input)
		}
		out, ok := map[string]string{"point": "points", "line": "line_strip", "triangle": "triangle_strip"}[g.Output]
		if !ok {
			return fmt.Errorf("%w: geometry output %q", shader.ErrUnsupportedType, g.Output)
		}
		w.line("layout(%s) in;", in)
		w.line("layout(%s, max_vertices = %d) out;", out, g.MaxVertexCount)
	case shader.StageCompute:
		size := r.ThreadGroupSize
		for i := range size {
			size[i] = max(size[i], 1)
		}
		w.line("layout(local_size_x = %d, local_size_y = %d, local_size_z = %d) in;", size[0], size[1], size[2])
	}
	return nil
}

func tessellationQualifiers(l shader.TessellationLayout) string {
	q := make([]string, 0, 3)
	switch l.Domain {
	case shader.DomainQuad:
		q = append(q, "quads")
	case shader.DomainIsoline:
		q = append(q, "isolines")
	default:
		q = append(q, "triangles")
	}
	switch l.Partitioning {
	case shader.PartitionFractionalEven:
		q = append(q, "fractional_even_spacing")
	case shader.PartitionFractionalOdd:
		q = append(q, "fractional_odd_spacing")
	default:
		q = append(q, "equal_spacing")
	}
	switch l.Topology {
	case shader.TopologyTriangleCW:
		q = append(q, "cw")
	case shader.TopologyTriangleCCW:
		q = append(q, "ccw")
	case shader.TopologyPoint:
		q = append(q, "point_mode")
	}
	return strings.Join(q, ", ")
}

func (w *glslWriter) input(stage shader.Stage, index int, v shader.Variable) error {
	arrayed := arrayedInputs(stage)
	if v.IsSystemValue() {
		target, ok := builtin(stage, roleInput, v.Semantic)
		if !ok {
			return fmt.Errorf("%w: %s input semantic %s", shader.ErrUnsupportedType, stage, v.Semantic)
		}
		if arrayed && strings.Contains(target, "[i]") {
			w.line("#define inp_%s(i) %s", v.Name, target)
		} else {
			w.line("#define inp_%s %s", v.Name, target)
		}
		return nil
	}
	t, err := v.ParsedType()
	if err != nil {
		return err
	}
	typ, err := typeName(t)
	if err != nil {
		return fmt.Errorf("input %q: %w", v.Name, err)
	}
	flat := ""
	if t.Numeric.IsInteger() && stage == shader.StagePixel {
		flat = "flat "
	}
	name := varyingName(stage, v.Semantic)
	switch {
	case stage == shader.StageVertex:
		w.line("layout(location = %d) in %s %s;", index, typ, name)
		w.line("#define inp_%s %s", v.Name, name)
	case arrayed:
		w.line("in %s %s[];", typ, name)
		w.line("#define inp_%s(i) %s[i]", v.Name, name)
	default:
		w.line("%sin %s %s;", flat, typ, name)
		w.line("#define inp_%s %s", v.Name, name)
	}
	return nil
}

func (w *glslWriter) output(stage, downstream shader.Stage, v shader.Variable) error {
	t, err := v.ParsedType()
	if err != nil {
		return err
	}
	typ, err := typeName(t)
	if err != nil {
		return fmt.Errorf("output %q: %w", v.Name, err)
	}
	if v.IsSystemValue() {
		target, ok := builtin(stage, roleOutput, v.Semantic)
		if !ok {
			return fmt.Errorf("%w: %s output semantic %s", shader.ErrUnsupportedType, stage, v.Semantic)
		}
		if n, ok := strings.CutPrefix(target, "bh_target"); ok {
			w.line("layout(location = %s) out %s %s;", n, typ, target)
		}
		w.line("#define out_%s %s", v.Name, target)
		return nil
	}
	if downstream == stage {
		// Nothing consumes it; keep the name valid for the body.
		w.line("%s bh_unused_%s;", typ, v.Name)
		w.line("#define out_%s bh_unused_%s", v.Name, v.Name)
		return nil
	}
	flat := ""
	if t.Numeric.IsInteger() && downstream == shader.StagePixel {
		flat = "flat "
	}
	name := varyingName(downstream, v.Semantic)
	if stage == shader.StageHull {
		w.line("out %s %s[];", typ, name)
		w.line("#define out_%s %s[gl_InvocationID]", v.Name, name)
		return nil
	}
	w.line("%sout %s %s;", flat, typ, name)
	w.line("#define out_%s %s", v.Name, name)
	return nil
}
