package beholder

// Color4 is an RGBA color with float components.
type Color4 struct {
	R, G, B, A float32
}

// Viewport maps normalized device coordinates to render target pixels.
// Top is measured from the top edge of the target.
type Viewport struct {
	Left, Top     float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

// NewViewport returns a viewport with the full [0, 1] depth range.
func NewViewport(left, top, width, height float32) Viewport {
	return Viewport{Left: left, Top: top, Width: width, Height: height, MaxDepth: 1}
}

// BottomLeftY returns the viewport's vertical origin for a backend whose
// origin is the bottom-left corner of a target of the given height.
func (v Viewport) BottomLeftY(targetHeight float32) float32 {
	return targetHeight - v.Top - v.Height
}

// Rectangle is a pixel rectangle with exclusive right and bottom edges.
// Top is measured from the top edge of the target.
type Rectangle struct {
	Left, Top, Right, Bottom int
}

// Width returns Right-Left.
func (r Rectangle) Width() int { return r.Right - r.Left }

// Height returns Bottom-Top.
func (r Rectangle) Height() int { return r.Bottom - r.Top }

// BottomLeftY returns the rectangle's vertical origin for a backend whose
// origin is the bottom-left corner of a target of the given height.
func (r Rectangle) BottomLeftY(targetHeight int) int {
	return targetHeight - r.Top - r.Height()
}
