package wgslreflect

import (
	"fmt"
	"strconv"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"

	"github.com/Zulkir/Beholder-sub001/shader"
)

// Parse parses and lowers WGSL source to the naga IR.
func Parse(source string) (*ir.Module, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("wgslreflect: parse: %w", err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return nil, fmt.Errorf("wgslreflect: lower: %w", err)
	}
	return module, nil
}

// Load parses source and reflects its entry point. The reflection keeps
// the WGSL source for backends that consume it directly.
func Load(source, entry string) (*shader.Reflection, error) {
	module, err := Parse(source)
	if err != nil {
		return nil, err
	}
	r, err := Reflect(module, entry)
	if err != nil {
		return nil, err
	}
	r.Sources = map[shader.Language]string{shader.LanguageWGSL: source}
	return r, nil
}

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("wgslreflect: compile: %w", err)
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// Registers maps a WGSL resource to the HLSL register it is bound to.
type Registers map[hlsl.ResourceBinding]hlsl.BindTarget

// RegistersFor builds the register map of one translated binding list:
// each variable's (group, binding) goes to its native slot.
func RegistersFor(bindings []shader.Binding[shader.Variable], dst Registers) error {
	for _, b := range bindings {
		group, err := intParameter(b.Variable, GroupParameter)
		if err != nil {
			return err
		}
		binding, err := intParameter(b.Variable, BindingParameter)
		if err != nil {
			return err
		}
		key := hlsl.ResourceBinding{Group: uint32(group), Binding: uint32(binding)}
		dst[key] = hlsl.DefaultBindTarget().WithRegister(uint32(b.NativeSlot))
	}
	return nil
}

// HLSL translates the entry point of a WGSL module to HLSL with the given
// register assignment. It returns the source and the generated entry
// point name.
func HLSL(module *ir.Module, entry string, regs Registers, model hlsl.ShaderModel) (string, string, error) {
	opts := hlsl.DefaultOptions()
	opts.ShaderModel = model
	opts.EntryPoint = entry
	opts.FakeMissingBindings = false
	for k, v := range regs {
		opts.BindingMap[k] = v
	}
	src, info, err := hlsl.Compile(module, opts)
	if err != nil {
		return "", "", fmt.Errorf("wgslreflect: hlsl: %w", err)
	}
	name := entry
	if info != nil {
		if n, ok := info.EntryPointNames[entry]; ok {
			name = n
		}
	}
	return src, name, nil
}

func intParameter(v shader.Variable, key string) (int, error) {
	s, ok := v.SpecialParameters[key]
	if !ok {
		return 0, fmt.Errorf("wgslreflect: %s has no %s parameter", v.Name, key)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("wgslreflect: %s has %s %q: %w", v.Name, key, s, err)
	}
	return n, nil
}
