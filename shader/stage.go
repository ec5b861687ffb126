package shader

// Stage identifies a programmable pipeline stage.
type Stage int

// Pipeline stages in data-flow order. The five graphics stages come first.
const (
	StageVertex Stage = iota
	StageHull
	StageDomain
	StageGeometry
	StagePixel
	StageCompute

	// StageCount is the number of stages.
	StageCount
)

// GraphicsStages lists the graphics stages in data-flow order.
var GraphicsStages = [...]Stage{StageVertex, StageHull, StageDomain, StageGeometry, StagePixel}

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageHull:
		return "hull"
	case StageDomain:
		return "domain"
	case StageGeometry:
		return "geometry"
	case StagePixel:
		return "pixel"
	case StageCompute:
		return "compute"
	default:
		return "unknown"
	}
}

// IsGraphics reports whether s belongs to the graphics pipeline.
func (s Stage) IsGraphics() bool {
	return s >= StageVertex && s <= StagePixel
}

// Valid reports whether s names a stage.
func (s Stage) Valid() bool {
	return s >= StageVertex && s < StageCount
}
