package beholder

import (
	"github.com/Zulkir/Beholder-sub001/shader"
)

// ShaderObject is the backend-independent part of a Shader. Backends
// embed it and add their native variants:
//
//	type glShader struct {
//		beholder.ShaderObject
//		variants shader.Variants[*compiledShader]
//	}
//
//	func (s *glShader) Dispose() { s.Release(s.releaseVariants) }
type ShaderObject struct {
	object
	base *shader.Base
}

// Init registers self with reg. It must be called once, before the
// shader is published.
func (s *ShaderObject) Init(reg *Registry, self Shader, base *shader.Base) {
	s.base = base
	s.init(reg, self, nil)
}

// Stage returns the shader's stage.
func (s *ShaderObject) Stage() shader.Stage { return s.base.Stage() }

// Reflection returns the reflection the shader was created from.
func (s *ShaderObject) Reflection() *shader.Reflection { return s.base.Reflection() }

// ShaderBase returns the slot translations of the shader.
func (s *ShaderObject) ShaderBase() *shader.Base { return s.base }

// Release disposes the shader once. release runs first and frees the
// backend variants.
func (s *ShaderObject) Release(release func()) { s.dispose(release) }
