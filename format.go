package beholder

// ExplicitFormat identifies a pixel or element format.
type ExplicitFormat int

// Formats. The numbering is private to this package; backends translate
// through their own tables.
const (
	FormatUnknown ExplicitFormat = iota

	FormatR32G32B32A32Float
	FormatR32G32B32A32Uint
	FormatR32G32B32A32Sint
	FormatR32G32B32Float
	FormatR32G32B32Uint
	FormatR32G32B32Sint
	FormatR16G16B16A16Float
	FormatR16G16B16A16Unorm
	FormatR16G16B16A16Uint
	FormatR16G16B16A16Snorm
	FormatR16G16B16A16Sint
	FormatR32G32Float
	FormatR32G32Uint
	FormatR32G32Sint
	FormatR10G10B10A2Unorm
	FormatR10G10B10A2Uint
	FormatR11G11B10Float
	FormatR8G8B8A8Unorm
	FormatR8G8B8A8UnormSrgb
	FormatR8G8B8A8Uint
	FormatR8G8B8A8Snorm
	FormatR8G8B8A8Sint
	FormatR16G16Float
	FormatR16G16Unorm
	FormatR16G16Uint
	FormatR16G16Sint
	FormatR32Float
	FormatR32Uint
	FormatR32Sint
	FormatR8G8Unorm
	FormatR8G8Uint
	FormatR16Float
	FormatR16Unorm
	FormatR16Uint
	FormatR16Sint
	FormatR8Unorm
	FormatR8Uint
	FormatA8Unorm
	FormatB8G8R8A8Unorm
	FormatB8G8R8A8UnormSrgb
	FormatB5G6R5Unorm

	FormatD32Float
	FormatD24UnormS8Uint
	FormatD32FloatS8X24Uint
	FormatD16Unorm

	FormatBC1Unorm
	FormatBC1UnormSrgb
	FormatBC2Unorm
	FormatBC3Unorm
	FormatBC3UnormSrgb

	formatCount
)

// FormatClass is the numeric interpretation of a format's components.
type FormatClass uint8

// Format classes.
const (
	ClassUnknown FormatClass = iota
	ClassFloat
	ClassUnorm
	ClassSnorm
	ClassUint
	ClassSint
	ClassDepth
	ClassCompressed
)

// FormatInfo describes the storage of a format.
type FormatInfo struct {
	// Size is the byte size of one element, or of one 4x4 block for
	// compressed formats.
	Size       int
	Components int
	Class      FormatClass
	Stencil    bool
	Srgb       bool
}

var formatInfos = [formatCount]FormatInfo{
	FormatR32G32B32A32Float: {Size: 16, Components: 4, Class: ClassFloat},
	FormatR32G32B32A32Uint:  {Size: 16, Components: 4, Class: ClassUint},
	FormatR32G32B32A32Sint:  {Size: 16, Components: 4, Class: ClassSint},
	FormatR32G32B32Float:    {Size: 12, Components: 3, Class: ClassFloat},
	FormatR32G32B32Uint:     {Size: 12, Components: 3, Class: ClassUint},
	FormatR32G32B32Sint:     {Size: 12, Components: 3, Class: ClassSint},
	FormatR16G16B16A16Float: {Size: 8, Components: 4, Class: ClassFloat},
	FormatR16G16B16A16Unorm: {Size: 8, Components: 4, Class: ClassUnorm},
	FormatR16G16B16A16Uint:  {Size: 8, Components: 4, Class: ClassUint},
	FormatR16G16B16A16Snorm: {Size: 8, Components: 4, Class: ClassSnorm},
	FormatR16G16B16A16Sint:  {Size: 8, Components: 4, Class: ClassSint},
	FormatR32G32Float:       {Size: 8, Components: 2, Class: ClassFloat},
	FormatR32G32Uint:        {Size: 8, Components: 2, Class: ClassUint},
	FormatR32G32Sint:        {Size: 8, Components: 2, Class: ClassSint},
	FormatR10G10B10A2Unorm:  {Size: 4, Components: 4, Class: ClassUnorm},
	FormatR10G10B10A2Uint:   {Size: 4, Components: 4, Class: ClassUint},
	FormatR11G11B10Float:    {Size: 4, Components: 3, Class: ClassFloat},
	FormatR8G8B8A8Unorm:     {Size: 4, Components: 4, Class: ClassUnorm},
	FormatR8G8B8A8UnormSrgb: {Size: 4, Components: 4, Class: ClassUnorm, Srgb: true},
	FormatR8G8B8A8Uint:      {Size: 4, Components: 4, Class: ClassUint},
	FormatR8G8B8A8Snorm:     {Size: 4, Components: 4, Class: ClassSnorm},
	FormatR8G8B8A8Sint:      {Size: 4, Components: 4, Class: ClassSint},
	FormatR16G16Float:       {Size: 4, Components: 2, Class: ClassFloat},
	FormatR16G16Unorm:       {Size: 4, Components: 2, Class: ClassUnorm},
	FormatR16G16Uint:        {Size: 4, Components: 2, Class: ClassUint},
	FormatR16G16Sint:        {Size: 4, Components: 2, Class: ClassSint},
	FormatR32Float:          {Size: 4, Components: 1, Class: ClassFloat},
	FormatR32Uint:           {Size: 4, Components: 1, Class: ClassUint},
	FormatR32Sint:           {Size: 4, Components: 1, Class: ClassSint},
	FormatR8G8Unorm:         {Size: 2, Components: 2, Class: ClassUnorm},
	FormatR8G8Uint:          {Size: 2, Components: 2, Class: ClassUint},
	FormatR16Float:          {Size: 2, Components: 1, Class: ClassFloat},
	FormatR16Unorm:          {Size: 2, Components: 1, Class: ClassUnorm},
	FormatR16Uint:           {Size: 2, Components: 1, Class: ClassUint},
	FormatR16Sint:           {Size: 2, Components: 1, Class: ClassSint},
	FormatR8Unorm:           {Size: 1, Components: 1, Class: ClassUnorm},
	FormatR8Uint:            {Size: 1, Components: 1, Class: ClassUint},
	FormatA8Unorm:           {Size: 1, Components: 1, Class: ClassUnorm},
	FormatB8G8R8A8Unorm:     {Size: 4, Components: 4, Class: ClassUnorm},
	FormatB8G8R8A8UnormSrgb: {Size: 4, Components: 4, Class: ClassUnorm, Srgb: true},
	FormatB5G6R5Unorm:       {Size: 2, Components: 3, Class: ClassUnorm},
	FormatD32Float:          {Size: 4, Components: 1, Class: ClassDepth},
	FormatD24UnormS8Uint:    {Size: 4, Components: 2, Class: ClassDepth, Stencil: true},
	FormatD32FloatS8X24Uint: {Size: 8, Components: 2, Class: ClassDepth, Stencil: true},
	FormatD16Unorm:          {Size: 2, Components: 1, Class: ClassDepth},
	FormatBC1Unorm:          {Size: 8, Components: 4, Class: ClassCompressed},
	FormatBC1UnormSrgb:      {Size: 8, Components: 4, Class: ClassCompressed, Srgb: true},
	FormatBC2Unorm:          {Size: 16, Components: 4, Class: ClassCompressed},
	FormatBC3Unorm:          {Size: 16, Components: 4, Class: ClassCompressed},
	FormatBC3UnormSrgb:      {Size: 16, Components: 4, Class: ClassCompressed, Srgb: true},
}

// Info returns the storage description of f. Unknown formats yield a
// zero FormatInfo.
func (f ExplicitFormat) Info() FormatInfo {
	if f <= FormatUnknown || f >= formatCount {
		return FormatInfo{}
	}
	return formatInfos[f]
}

// Valid reports whether f names a known format.
func (f ExplicitFormat) Valid() bool {
	return f > FormatUnknown && f < formatCount
}

// IsDepth reports whether f is a depth or depth-stencil format.
func (f ExplicitFormat) IsDepth() bool { return f.Info().Class == ClassDepth }

// IsCompressed reports whether f is block compressed.
func (f ExplicitFormat) IsCompressed() bool { return f.Info().Class == ClassCompressed }

// RowPitch returns the tightly packed byte size of one row of width
// elements. Compressed formats count rows of 4x4 blocks.
func (f ExplicitFormat) RowPitch(width int) int {
	info := f.Info()
	if info.Class == ClassCompressed {
		return max((width+3)/4, 1) * info.Size
	}
	return width * info.Size
}

// SlicePitch returns the tightly packed byte size of a width x height image.
func (f ExplicitFormat) SlicePitch(width, height int) int {
	if f.IsCompressed() {
		return f.RowPitch(width) * max((height+3)/4, 1)
	}
	return f.RowPitch(width) * height
}
