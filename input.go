package beholder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Zulkir/Beholder-sub001/shader"
)

// PrimitiveTopology selects how vertices are assembled into primitives.
type PrimitiveTopology int

// Topologies. Patch lists are built with PatchListTopology.
const (
	TopologyUndefined PrimitiveTopology = iota
	TopologyPointList
	TopologyLineList
	TopologyLineStrip
	TopologyTriangleList
	TopologyTriangleStrip
	TopologyLineListAdjacency
	TopologyLineStripAdjacency
	TopologyTriangleListAdjacency
	TopologyTriangleStripAdjacency

	topologyPatchBase PrimitiveTopology = 64
)

// MaxPatchControlPoints is the largest patch size.
const MaxPatchControlPoints = 32

// PatchListTopology returns the patch list topology with the given number
// of control points, 1 to MaxPatchControlPoints.
func PatchListTopology(controlPoints int) PrimitiveTopology {
	return topologyPatchBase + PrimitiveTopology(controlPoints)
}

// PatchControlPoints returns the patch size of a patch list topology, or 0.
func (t PrimitiveTopology) PatchControlPoints() int {
	if t > topologyPatchBase && t <= topologyPatchBase+MaxPatchControlPoints {
		return int(t - topologyPatchBase)
	}
	return 0
}

// IsPatchList reports whether t is a patch list.
func (t PrimitiveTopology) IsPatchList() bool { return t.PatchControlPoints() > 0 }

// IndexFormat is the element type of an index buffer.
type IndexFormat int

// Index formats.
const (
	IndexUint16 IndexFormat = iota
	IndexUint32
)

// Size returns the byte size of one index.
func (f IndexFormat) Size() int {
	if f == IndexUint32 {
		return 4
	}
	return 2
}

// VertexSource binds a vertex buffer to an input slot.
type VertexSource struct {
	Buffer *Buffer
	Offset int
	Stride int
}

// IndexSource binds an index buffer.
type IndexSource struct {
	Buffer *Buffer
	Format IndexFormat
	Offset int
}

// VertexLayoutElement describes one vertex attribute.
type VertexLayoutElement struct {
	Semantic      string
	SemanticIndex int
	Format        ExplicitFormat
	InputSlot     int
	Offset        int
	// PerInstance advances the attribute once per InstanceStepRate instances.
	PerInstance      bool
	InstanceStepRate int
}

// SemanticName returns the semantic with its index appended, e.g. "TEXCOORD1".
func (e VertexLayoutElement) SemanticName() string {
	return e.Semantic + strconv.Itoa(e.SemanticIndex)
}

// VertexAttribute is a layout element resolved against a vertex shader.
type VertexAttribute struct {
	Element VertexLayoutElement
	// Location is the index of the matching vertex shader input.
	Location int
	// Name is the matching input variable's name.
	Name string
	// Integer marks attributes whose shader input is integer typed. They
	// are fetched without conversion to float.
	Integer    bool
	Components int
}

// MaxVertexStreams is the number of vertex buffer slots.
const MaxVertexStreams = 16

// VertexLayout is an input layout validated against a vertex shader.
type VertexLayout struct {
	object
	attributes []VertexAttribute
}

// ResolveVertexLayout matches elements to the inputs of a vertex shader
// reflection. Every non-system input must be fed by exactly one element.
func ResolveVertexLayout(vs *shader.Reflection, elements []VertexLayoutElement) ([]VertexAttribute, error) {
	if vs == nil || vs.Stage != shader.StageVertex {
		return nil, fmt.Errorf("%w: vertex layout needs a vertex shader", ErrInvalidDescription)
	}
	attrs := make([]VertexAttribute, 0, len(elements))
	used := make(map[int]bool, len(elements))
	for _, e := range elements {
		if !e.Format.Valid() || e.Format.IsDepth() || e.Format.IsCompressed() {
			return nil, fmt.Errorf("%w: vertex element %s format %d", ErrUnsupportedFormat, e.SemanticName(), e.Format)
		}
		if e.InputSlot < 0 || e.InputSlot >= MaxVertexStreams {
			return nil, fmt.Errorf("%w: vertex element %s input slot %d", ErrInvalidDescription, e.SemanticName(), e.InputSlot)
		}
		loc := -1
		for i, in := range vs.Inputs {
			if semanticMatches(in.Semantic, e) {
				loc = i
				break
			}
		}
		if loc < 0 {
			return nil, fmt.Errorf("%w: vertex shader %q has no input %s", ErrInvalidDescription, vs.Name, e.SemanticName())
		}
		if used[loc] {
			return nil, fmt.Errorf("%w: vertex input %s fed twice", ErrInvalidDescription, e.SemanticName())
		}
		used[loc] = true

		in := vs.Inputs[loc]
		typ, err := in.ParsedType()
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, VertexAttribute{
			Element:    e,
			Location:   loc,
			Name:       in.Name,
			Integer:    typ.Numeric.IsInteger(),
			Components: e.Format.Info().Components,
		})
	}
	for i, in := range vs.Inputs {
		if !used[i] && !in.IsSystemValue() {
			return nil, fmt.Errorf("%w: vertex input %s is not fed by the layout", ErrInvalidDescription, in.Semantic)
		}
	}
	return attrs, nil
}

func semanticMatches(semantic string, e VertexLayoutElement) bool {
	if strings.EqualFold(semantic, e.SemanticName()) {
		return true
	}
	return e.SemanticIndex == 0 && strings.EqualFold(semantic, e.Semantic)
}

// NewVertexLayout wraps resolved attributes and an optional backend object.
func NewVertexLayout(reg *Registry, attrs []VertexAttribute, native NativeObject) *VertexLayout {
	l := &VertexLayout{attributes: attrs}
	l.init(reg, l, native)
	return l
}

// Attributes returns the resolved attributes in element order.
func (l *VertexLayout) Attributes() []VertexAttribute { return l.attributes }

// Dispose releases the layout.
func (l *VertexLayout) Dispose() { l.dispose(nil) }
