package beholder

// Usage describes the expected CPU and GPU access pattern of a resource.
type Usage int

// Usages.
const (
	UsageDefault Usage = iota
	UsageImmutable
	UsageDynamic
	UsageStaging
)

func (u Usage) String() string {
	switch u {
	case UsageDefault:
		return "default"
	case UsageImmutable:
		return "immutable"
	case UsageDynamic:
		return "dynamic"
	case UsageStaging:
		return "staging"
	default:
		return "unknown"
	}
}

// BindFlags is a bitmask of the pipeline roles a resource may take.
type BindFlags uint32

// Bind flags.
const (
	BindVertexBuffer BindFlags = 1 << iota
	BindIndexBuffer
	BindUniformBuffer
	BindShaderResource
	BindStreamOutput
	BindRenderTarget
	BindDepthStencil
	BindUnorderedAccess
)

// Has reports whether all flags in f2 are set.
func (f BindFlags) Has(f2 BindFlags) bool { return f&f2 == f2 }

// MiscFlags is a bitmask of optional resource behaviors.
type MiscFlags uint32

// Misc flags.
const (
	MiscGenerateMips MiscFlags = 1 << iota
	MiscTextureCube
	MiscDrawIndirectArgs
	MiscBufferStructured
	MiscBufferAllowRawViews
)

// Has reports whether all flags in f2 are set.
func (f MiscFlags) Has(f2 MiscFlags) bool { return f&f2 == f2 }

// MapType selects the access granted by DeviceContext.Map.
type MapType int

// Map types.
const (
	MapRead MapType = iota
	MapWrite
	MapReadWrite
	MapWriteDiscard
	MapWriteNoOverwrite
)

// ClearFlags selects the aspects cleared by ClearDepthStencilView.
type ClearFlags uint32

// Clear flags.
const (
	ClearDepth ClearFlags = 1 << iota
	ClearStencil
)
