package shader

// TessellationDomain is the patch domain of a tessellation stage pair.
type TessellationDomain uint8

// Tessellation domains.
const (
	DomainTriangle TessellationDomain = iota
	DomainQuad
	DomainIsoline
)

// TessellationPartitioning is the tessellator's spacing mode.
type TessellationPartitioning uint8

// Partitioning modes.
const (
	PartitionInteger TessellationPartitioning = iota
	PartitionFractionalEven
	PartitionFractionalOdd
	PartitionPow2
)

// TessellationTopology is the primitive type the tessellator emits.
type TessellationTopology uint8

// Output topologies.
const (
	TopologyTriangleCW TessellationTopology = iota
	TopologyTriangleCCW
	TopologyLine
	TopologyPoint
)

// TessellationLayout is the fixed-function tessellator configuration a
// hull shader declares. Backends that declare it on the domain stage
// compile one domain variant per layout.
type TessellationLayout struct {
	Domain              TessellationDomain
	Partitioning        TessellationPartitioning
	Topology            TessellationTopology
	OutputControlPoints int
}

// Code packs the layout into a variant key component.
func (l TessellationLayout) Code() uint32 {
	return uint32(l.Domain) |
		uint32(l.Partitioning)<<4 |
		uint32(l.Topology)<<8 |
		uint32(l.OutputControlPoints&0xff)<<12
}

// DecodeTessellationLayout unpacks a layout produced by Code.
func DecodeTessellationLayout(code uint32) TessellationLayout {
	return TessellationLayout{
		Domain:              TessellationDomain(code & 0xf),
		Partitioning:        TessellationPartitioning(code >> 4 & 0xf),
		Topology:            TessellationTopology(code >> 8 & 0xf),
		OutputControlPoints: int(code >> 12 & 0xff),
	}
}
