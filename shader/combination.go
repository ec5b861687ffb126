package shader

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Combination is a validated set of per-stage shaders forming one pipeline.
//
// It owns no native objects; backends link their native program from it.
// A Combination is immutable once built.
type Combination struct {
	stages  [StageCount]*Base
	compute bool

	maxValueBufferSlotPlusOne int
	maxTextureSlotPlusOne     int

	uniformBufferNames []string
	textureNames       []string
}

// NewCombination validates graphics stage shaders and combines them.
// Nil entries are skipped. A vertex shader is required; hull and domain
// shaders must come together.
func NewCombination(shaders ...*Base) (*Combination, error) {
	c := &Combination{}
	for _, s := range shaders {
		if s == nil {
			continue
		}
		st := s.Stage()
		if !st.IsGraphics() {
			return nil, fmt.Errorf("%w: %s shader in a graphics combination", ErrInvalidCombination, st)
		}
		if c.stages[st] != nil {
			return nil, fmt.Errorf("%w: two %s shaders", ErrInvalidCombination, st)
		}
		c.stages[st] = s
	}
	if c.stages[StageVertex] == nil {
		return nil, fmt.Errorf("%w: no vertex shader", ErrInvalidCombination)
	}
	if (c.stages[StageHull] == nil) != (c.stages[StageDomain] == nil) {
		return nil, fmt.Errorf("%w: hull and domain shaders must be used together", ErrInvalidCombination)
	}
	if h := c.stages[StageHull]; h != nil && h.Reflection().Tessellation == nil {
		return nil, fmt.Errorf("%w: hull shader %q declares no tessellation layout", ErrInvalidCombination, h.Reflection().Name)
	}
	if err := c.checkLinkage(); err != nil {
		return nil, err
	}
	if err := c.finish(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewComputeCombination wraps a compute shader.
func NewComputeCombination(cs *Base) (*Combination, error) {
	if cs == nil || cs.Stage() != StageCompute {
		return nil, fmt.Errorf("%w: compute combination needs a compute shader", ErrInvalidCombination)
	}
	c := &Combination{compute: true}
	c.stages[StageCompute] = cs
	if err := c.finish(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Combination) finish() error {
	if err := c.checkRanges("uniform buffer", (*Base).UniformBuffers); err != nil {
		return err
	}
	if err := c.checkRanges("texture", (*Base).Textures); err != nil {
		return err
	}
	c.maxValueBufferSlotPlusOne = c.nativeEnd((*Base).UniformBuffers)
	c.maxTextureSlotPlusOne = c.nativeEnd((*Base).Textures)
	c.uniformBufferNames = c.scatterNames(c.maxValueBufferSlotPlusOne, (*Base).UniformBuffers)
	c.textureNames = c.scatterNames(c.maxTextureSlotPlusOne, (*Base).Textures)
	return nil
}

// nativeEnd is one past the highest native slot any stage uses.
func (c *Combination) nativeEnd(get func(*Base) *Translation[Variable]) int {
	end := 0
	for _, s := range c.stages {
		if s != nil {
			end = max(end, get(s).NativeEnd())
		}
	}
	return end
}

type slotRange struct {
	stage      Stage
	start, end int
}

// checkRanges orders the non-empty logical ranges by start slot and
// rejects any range that starts before the previous one ends.
func (c *Combination) checkRanges(kind string, get func(*Base) *Translation[Variable]) error {
	ranges := make([]slotRange, 0, StageCount)
	for st, s := range c.stages {
		if s == nil {
			continue
		}
		t := get(s)
		if t.Len() == 0 {
			continue
		}
		ranges = append(ranges, slotRange{stage: Stage(st), start: t.APIStartSlot(), end: t.APIEnd()})
	}
	slices.SortFunc(ranges, func(a, b slotRange) int {
		if r := cmp.Compare(a.start, b.start); r != 0 {
			return r
		}
		return cmp.Compare(a.stage, b.stage)
	})
	for i := 1; i < len(ranges); i++ {
		prev, cur := ranges[i-1], ranges[i]
		if cur.start < prev.end {
			return fmt.Errorf("%w: %s slots [%d, %d) of the %s shader overlap [%d, %d) of the %s shader",
				ErrOverlappingSlots, kind, cur.start, cur.end, cur.stage, prev.start, prev.end, prev.stage)
		}
	}
	return nil
}

func (c *Combination) scatterNames(size int, get func(*Base) *Translation[Variable]) []string {
	names := make([]string, size)
	for _, s := range c.stages {
		if s == nil {
			continue
		}
		for _, b := range get(s).Bindings() {
			if b.NativeSlot >= len(names) {
				names = append(names, make([]string, b.NativeSlot+1-len(names))...)
			}
			names[b.NativeSlot] = b.Variable.Name
		}
	}
	return names
}

// checkLinkage verifies that every non-system input of each stage is
// produced by the stage feeding it.
func (c *Combination) checkLinkage() error {
	var up *Base
	for _, st := range GraphicsStages {
		down := c.stages[st]
		if down == nil {
			continue
		}
		if up != nil {
			for _, in := range down.Reflection().Inputs {
				if in.IsSystemValue() {
					continue
				}
				out, ok := up.Reflection().Output(in.Semantic)
				if !ok {
					return fmt.Errorf("%w: %s input %s is not written by the %s shader",
						ErrStageMismatch, st, in.Semantic, up.Stage())
				}
				if !sameElementType(out.Type, in.Type) {
					return fmt.Errorf("%w: %s input %s has type %s, %s output has %s",
						ErrStageMismatch, st, in.Semantic, in.Type, up.Stage(), out.Type)
				}
			}
		}
		up = down
	}
	return nil
}

func sameElementType(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Shader returns the shader bound to stage, or nil.
func (c *Combination) Shader(stage Stage) *Base {
	if !stage.Valid() {
		return nil
	}
	return c.stages[stage]
}

// IsCompute reports whether c holds a compute shader.
func (c *Combination) IsCompute() bool { return c.compute }

// Stages returns the stages present, in data-flow order.
func (c *Combination) Stages() []Stage {
	out := make([]Stage, 0, StageCount)
	for st, s := range c.stages {
		if s != nil {
			out = append(out, Stage(st))
		}
	}
	return out
}

// Downstream returns the stage fed by stage's outputs. The boolean is
// false for the last stage of the pipeline.
func (c *Combination) Downstream(stage Stage) (Stage, bool) {
	if !stage.IsGraphics() {
		return 0, false
	}
	for st := stage + 1; st <= StagePixel; st++ {
		if c.stages[st] != nil {
			return st, true
		}
	}
	return 0, false
}

// Upstream returns the stage feeding stage's inputs.
func (c *Combination) Upstream(stage Stage) (Stage, bool) {
	if !stage.IsGraphics() {
		return 0, false
	}
	for st := stage - 1; st >= StageVertex; st-- {
		if c.stages[st] != nil {
			return st, true
		}
	}
	return 0, false
}

// VariantKey returns the key under which stage's shader is compiled for
// this combination.
func (c *Combination) VariantKey(stage Stage) VariantKey {
	key := VariantKey{Downstream: stage}
	if ds, ok := c.Downstream(stage); ok {
		key.Downstream = ds
	}
	if stage == StageDomain {
		if l := c.TessellationLayout(); l != nil {
			key.Layout = l.Code()
		}
	}
	return key
}

// TessellationLayout returns the hull shader's layout, or nil.
func (c *Combination) TessellationLayout() *TessellationLayout {
	if h := c.stages[StageHull]; h != nil {
		return h.Reflection().Tessellation
	}
	return nil
}

// MaxValueBufferSlotPlusOne is one past the highest native uniform buffer
// slot of any stage. Native slots at or above it are unused.
func (c *Combination) MaxValueBufferSlotPlusOne() int { return c.maxValueBufferSlotPlusOne }

// MaxTextureSlotPlusOne is one past the highest native texture slot of
// any stage.
func (c *Combination) MaxTextureSlotPlusOne() int { return c.maxTextureSlotPlusOne }

// UniformBufferNames returns uniform buffer names indexed by native slot.
// Unused slots hold "".
func (c *Combination) UniformBufferNames() []string { return c.uniformBufferNames }

// TextureNames returns texture names indexed by native slot.
func (c *Combination) TextureNames() []string { return c.textureNames }
