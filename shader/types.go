package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeClass is the broad category of a declared type.
type TypeClass int

// Type classes.
const (
	ClassScalar TypeClass = iota
	ClassVector
	ClassMatrix
	ClassTexture
	ClassSampler
)

// NumericClass is the scalar kind of a numeric type. Vertex attributes
// are bound as float or integer attributes depending on it.
type NumericClass int

// Numeric classes.
const (
	NumericFloat NumericClass = iota
	NumericInt
	NumericUint
	NumericBool
)

// IsInteger reports whether values of the class are fetched as integers.
func (n NumericClass) IsInteger() bool {
	return n == NumericInt || n == NumericUint
}

// TextureKind is the dimensionality of a texture variable.
type TextureKind int

// Texture kinds.
const (
	TextureNone TextureKind = iota
	Texture1D
	Texture1DArray
	Texture2D
	Texture2DArray
	Texture2DMS
	Texture2DMSArray
	Texture3D
	TextureCube
	TextureCubeArray
	TextureBuffer
)

// SupportsMips reports whether textures of kind k can be sampled with
// mipmap filtering. Multisample and buffer textures cannot.
func (k TextureKind) SupportsMips() bool {
	switch k {
	case Texture2DMS, Texture2DMSArray, TextureBuffer, TextureNone:
		return false
	default:
		return true
	}
}

// IsMultisample reports whether k is a multisample kind.
func (k TextureKind) IsMultisample() bool {
	return k == Texture2DMS || k == Texture2DMSArray
}

var textureKinds = map[string]TextureKind{
	"Texture1D":        Texture1D,
	"Texture1DArray":   Texture1DArray,
	"Texture2D":        Texture2D,
	"Texture2DArray":   Texture2DArray,
	"Texture2DMS":      Texture2DMS,
	"Texture2DMSArray": Texture2DMSArray,
	"Texture3D":        Texture3D,
	"TextureCube":      TextureCube,
	"TextureCubeArray": TextureCubeArray,
	"Buffer":           TextureBuffer,
}

var scalarKinds = map[string]NumericClass{
	"float": NumericFloat,
	"int":   NumericInt,
	"uint":  NumericUint,
	"bool":  NumericBool,
}

// Type is a parsed declared type.
type Type struct {
	Class   TypeClass
	Numeric NumericClass
	// Rows is the vector width, or the row count of a matrix.
	Rows int
	// Columns is the column count of a matrix.
	Columns int
	Texture TextureKind
	// Comparison marks comparison samplers.
	Comparison bool
}

// Components returns the number of scalar components of a numeric type.
func (t Type) Components() int {
	switch t.Class {
	case ClassScalar:
		return 1
	case ClassVector:
		return t.Rows
	case ClassMatrix:
		return t.Rows * t.Columns
	default:
		return 0
	}
}

// ParseType parses an HLSL-style type name such as "float4", "int2",
// "float4x4", "Texture2DArray" or "SamplerComparisonState".
func ParseType(name string) (Type, error) {
	if k, ok := textureKinds[name]; ok {
		return Type{Class: ClassTexture, Texture: k}, nil
	}
	switch name {
	case "SamplerState", "sampler":
		return Type{Class: ClassSampler}, nil
	case "SamplerComparisonState", "sampler_comparison":
		return Type{Class: ClassSampler, Comparison: true}, nil
	}

	for prefix, numeric := range scalarKinds {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		if rest == "" {
			return Type{Class: ClassScalar, Numeric: numeric, Rows: 1}, nil
		}
		if r, c, ok := strings.Cut(rest, "x"); ok {
			rows, err1 := dimension(r)
			cols, err2 := dimension(c)
			if err1 != nil || err2 != nil || numeric != NumericFloat {
				break
			}
			return Type{Class: ClassMatrix, Numeric: numeric, Rows: rows, Columns: cols}, nil
		}
		n, err := dimension(rest)
		if err != nil {
			break
		}
		return Type{Class: ClassVector, Numeric: numeric, Rows: n}, nil
	}
	return Type{}, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
}

func dimension(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 4 {
		return 0, fmt.Errorf("bad dimension %q", s)
	}
	return n, nil
}
