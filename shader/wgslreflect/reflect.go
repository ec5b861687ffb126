// Package wgslreflect builds shader reflections from WGSL modules.
//
// Resources are read from the module's global variables. A variable's
// logical slot is its @binding index; its @group is kept in the
// "group" special parameter. Stage inputs and outputs bound with
// @location(n) get the semantic "LOCn", and builtins map to the matching
// system-value semantics, so shaders from one WGSL module link with each
// other through the usual semantic matching.
package wgslreflect

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gogpu/naga/ir"

	"github.com/Zulkir/Beholder-sub001/shader"
)

// Special parameter keys set on resource variables. Textures also carry
// SampleParameter: "float", "sint", "uint" or "depth".
const (
	GroupParameter   = "group"
	BindingParameter = "binding"
	SampleParameter  = "sample"
)

var (
	// ErrNoEntryPoint is returned when the module has no matching entry point.
	ErrNoEntryPoint = errors.New("wgslreflect: entry point not found")

	// ErrUnsupportedStage is returned for entry points of stages the
	// device model has no equivalent for.
	ErrUnsupportedStage = errors.New("wgslreflect: unsupported stage")
)

// Reflect describes the entry point called entry. An empty name selects
// the module's first entry point.
func Reflect(module *ir.Module, entry string) (*shader.Reflection, error) {
	if module == nil {
		return nil, fmt.Errorf("%w: nil module", ErrNoEntryPoint)
	}
	var ep *ir.EntryPoint
	for i := range module.EntryPoints {
		if entry == "" || module.EntryPoints[i].Name == entry {
			ep = &module.EntryPoints[i]
			break
		}
	}
	if ep == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoEntryPoint, entry)
	}

	r := &shader.Reflection{Name: ep.Name}
	switch ep.Stage {
	case ir.StageVertex:
		r.Stage = shader.StageVertex
	case ir.StageFragment:
		r.Stage = shader.StagePixel
	case ir.StageCompute:
		r.Stage = shader.StageCompute
	default:
		return nil, fmt.Errorf("%w: entry point %q", ErrUnsupportedStage, ep.Name)
	}

	fn := &ep.Function
	w := walker{module: module, stage: r.Stage}
	for _, arg := range fn.Arguments {
		w.interfaceVars(&r.Inputs, arg.Name, arg.Type, arg.Binding, true)
	}
	if fn.Result != nil {
		w.interfaceVars(&r.Outputs, "out", fn.Result.Type, fn.Result.Binding, false)
	}

	fns := w.reachable(fn)
	used := w.usedGlobals(fns)
	for i := range module.GlobalVariables {
		if !used[i] {
			continue
		}
		if err := w.resource(r, &module.GlobalVariables[i]); err != nil {
			return nil, err
		}
	}
	r.TextureSamplerPairs = w.samplePairs(fns, used)
	return r, nil
}

type walker struct {
	module *ir.Module
	stage  shader.Stage
}

// interfaceVars appends the stage interface variables of one argument or
// result. Struct types contribute one variable per bound member.
func (w *walker) interfaceVars(dst *[]shader.Variable, name string, th ir.TypeHandle, b *ir.Binding, input bool) {
	if b != nil {
		*dst = append(*dst, shader.Variable{
			Name:     name,
			Type:     w.typeName(th),
			Semantic: w.semantic(*b, input),
		})
		return
	}
	if int(th) >= len(w.module.Types) {
		return
	}
	st, ok := w.module.Types[th].Inner.(ir.StructType)
	if !ok {
		return
	}
	for _, m := range st.Members {
		if m.Binding == nil {
			continue
		}
		*dst = append(*dst, shader.Variable{
			Name:     m.Name,
			Type:     w.typeName(m.Type),
			Semantic: w.semantic(*m.Binding, input),
		})
	}
}

func (w *walker) semantic(b ir.Binding, input bool) string {
	switch b := b.(type) {
	case ir.LocationBinding:
		if w.stage == shader.StagePixel && !input {
			return "SV_Target" + strconv.Itoa(int(b.Location))
		}
		return "LOC" + strconv.Itoa(int(b.Location))
	case ir.BuiltinBinding:
		switch b.Builtin {
		case ir.BuiltinPosition:
			return "SV_Position"
		case ir.BuiltinVertexIndex:
			return "SV_VertexID"
		case ir.BuiltinInstanceIndex:
			return "SV_InstanceID"
		default:
			return fmt.Sprintf("SV_Builtin%d", b.Builtin)
		}
	default:
		return ""
	}
}

// reachable returns the entry function followed by every module function
// it calls, directly or through other calls.
func (w *walker) reachable(entry *ir.Function) []*ir.Function {
	fns := []*ir.Function{entry}
	seen := make([]bool, len(w.module.Functions))
	var visit func(ir.Block)
	visit = func(b ir.Block) {
		for _, st := range b {
			switch s := st.Kind.(type) {
			case ir.StmtCall:
				h := int(s.Function)
				if h < len(seen) && !seen[h] {
					seen[h] = true
					fns = append(fns, &w.module.Functions[h])
					visit(w.module.Functions[h].Body)
				}
			case ir.StmtBlock:
				visit(s.Block)
			case ir.StmtIf:
				visit(s.Accept)
				visit(s.Reject)
			case ir.StmtSwitch:
				for _, c := range s.Cases {
					visit(c.Body)
				}
			case ir.StmtLoop:
				visit(s.Body)
				visit(s.Continuing)
			}
		}
	}
	visit(entry.Body)
	return fns
}

// usedGlobals marks the globals referenced by fns.
func (w *walker) usedGlobals(fns []*ir.Function) []bool {
	used := make([]bool, len(w.module.GlobalVariables))
	for _, fn := range fns {
		for _, e := range fn.Expressions {
			if g, ok := e.Kind.(ir.ExprGlobalVariable); ok && int(g.Variable) < len(used) {
				used[g.Variable] = true
			}
		}
	}
	return used
}

func (w *walker) resource(r *shader.Reflection, g *ir.GlobalVariable) error {
	if g.Binding == nil {
		return nil
	}
	v := shader.Variable{
		Name: g.Name,
		SpecialParameters: map[string]string{
			shader.SlotParameter: strconv.Itoa(int(g.Binding.Binding)),
			GroupParameter:       strconv.Itoa(int(g.Binding.Group)),
			BindingParameter:     strconv.Itoa(int(g.Binding.Binding)),
		},
	}
	if int(g.Type) >= len(w.module.Types) {
		return fmt.Errorf("wgslreflect: %s has an invalid type handle", g.Name)
	}
	t := w.module.Types[g.Type]

	switch g.Space {
	case ir.SpaceUniform:
		v.Type = t.Name
		if v.Type == "" {
			v.Type = g.Name
		}
		if st, ok := t.Inner.(ir.StructType); ok {
			for _, m := range st.Members {
				v.Members = append(v.Members, shader.Variable{Name: m.Name, Type: w.typeName(m.Type)})
			}
		}
		r.UniformBuffers = append(r.UniformBuffers, v)
	case ir.SpaceHandle:
		switch inner := t.Inner.(type) {
		case ir.ImageType:
			// Storage images are unordered access views, which the
			// reflection does not carry.
			if inner.Class == ir.ImageClassStorage {
				return nil
			}
			v.Type = w.typeName(g.Type)
			v.SpecialParameters[SampleParameter] = sampleKind(inner)
			r.Textures = append(r.Textures, v)
		case ir.SamplerType:
			v.Type = w.typeName(g.Type)
			r.Samplers = append(r.Samplers, v)
		}
	}
	return nil
}

// samplePairs collects the texture-sampler pairs of every textureSample
// call in fns.
func (w *walker) samplePairs(fns []*ir.Function, used []bool) []shader.TextureSamplerPair {
	var pairs []shader.TextureSamplerPair
	seen := make(map[shader.TextureSamplerPair]bool)
	for _, fn := range fns {
		exprs := fn.Expressions
		global := func(h ir.ExpressionHandle) (string, bool) {
			if int(h) >= len(exprs) {
				return "", false
			}
			g, ok := exprs[h].Kind.(ir.ExprGlobalVariable)
			if !ok || int(g.Variable) >= len(used) || !used[g.Variable] {
				return "", false
			}
			return w.module.GlobalVariables[g.Variable].Name, true
		}
		for _, e := range exprs {
			s, ok := e.Kind.(ir.ExprImageSample)
			if !ok {
				continue
			}
			tex, ok1 := global(s.Image)
			smp, ok2 := global(s.Sampler)
			if !ok1 || !ok2 {
				continue
			}
			p := shader.TextureSamplerPair{Texture: tex, Sampler: smp}
			if !seen[p] {
				seen[p] = true
				pairs = append(pairs, p)
			}
		}
	}
	return pairs
}

// typeName spells a type the way shader.ParseType reads it. Types with no
// such spelling come out as their WGSL-ish description and fail later in
// ParseType with shader.ErrUnsupportedType.
func (w *walker) typeName(th ir.TypeHandle) string {
	if int(th) >= len(w.module.Types) {
		return "invalid"
	}
	t := w.module.Types[th]
	switch inner := t.Inner.(type) {
	case ir.ScalarType:
		return scalarName(inner)
	case ir.VectorType:
		return scalarName(inner.Scalar) + vectorSize(inner)
	case ir.MatrixType:
		return scalarName(inner.Scalar) + matrixSize(inner)
	case ir.ImageType:
		return imageName(inner)
	case ir.SamplerType:
		if inner.Comparison {
			return "SamplerComparisonState"
		}
		return "SamplerState"
	case ir.StructType:
		return t.Name
	default:
		if t.Name != "" {
			return t.Name
		}
		return fmt.Sprintf("%T", inner)
	}
}

func sampleKind(img ir.ImageType) string {
	if img.Class == ir.ImageClassDepth {
		return "depth"
	}
	switch img.SampledKind {
	case ir.ScalarSint:
		return "sint"
	case ir.ScalarUint:
		return "uint"
	}
	return "float"
}

func scalarName(s ir.ScalarType) string {
	var name string
	switch s.Kind {
	case ir.ScalarFloat:
		name = "float"
	case ir.ScalarSint:
		name = "int"
	case ir.ScalarUint:
		name = "uint"
	case ir.ScalarBool:
		return "bool"
	default:
		return "unknown"
	}
	if s.Width != 4 {
		name += strconv.Itoa(int(s.Width)*8) + "_t"
	}
	return name
}

func vectorSize(v ir.VectorType) string {
	switch v.Size {
	case ir.Vec2:
		return "2"
	case ir.Vec3:
		return "3"
	case ir.Vec4:
		return "4"
	default:
		return "?"
	}
}

func matrixSize(m ir.MatrixType) string {
	return vectorSize(ir.VectorType{Size: m.Columns}) + "x" + vectorSize(ir.VectorType{Size: m.Rows})
}

func imageName(img ir.ImageType) string {
	var name string
	switch img.Dim {
	case ir.Dim1D:
		name = "Texture1D"
	case ir.Dim2D:
		name = "Texture2D"
		if img.Multisampled {
			name += "MS"
		}
	case ir.Dim3D:
		return "Texture3D"
	case ir.DimCube:
		name = "TextureCube"
	default:
		return "TextureUnknown"
	}
	if img.Arrayed {
		name += "Array"
	}
	return name
}
