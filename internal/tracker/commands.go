package tracker

import (
	"fmt"

	beholder "github.com/Zulkir/Beholder-sub001"
)

func (c *Context) require(f beholder.Feature, what string) error {
	if !c.caps.Features.Has(f) {
		return fmt.Errorf("%w: %s", beholder.ErrNotSupported, what)
	}
	return nil
}

func (c *Context) draw(call DrawCall) error {
	if call.Kind.IsIndexed() && c.indexSource.Value().Buffer == nil {
		return fmt.Errorf("%w: indexed draw without an index buffer", beholder.ErrInvalidDescription)
	}
	if err := c.PreDraw(); err != nil {
		return err
	}
	call.Topology = c.topology.Value()
	call.IndexFormat = c.indexSource.Value().Format
	return c.translator.Draw(call)
}

// Draw draws non-indexed, non-instanced primitives.
func (c *Context) Draw(vertexCount, startVertex int) error {
	return c.draw(DrawCall{Kind: DrawPlain, VertexCount: vertexCount, StartVertex: startVertex, InstanceCount: 1})
}

// DrawIndexed draws indexed primitives.
func (c *Context) DrawIndexed(indexCount, startIndex, baseVertex int) error {
	return c.draw(DrawCall{Kind: DrawIndexed, IndexCount: indexCount, StartIndex: startIndex, BaseVertex: baseVertex, InstanceCount: 1})
}

// DrawInstanced draws instanced primitives.
func (c *Context) DrawInstanced(vertexCountPerInstance, instanceCount, startVertex, startInstance int) error {
	return c.draw(DrawCall{
		Kind:          DrawInstanced,
		VertexCount:   vertexCountPerInstance,
		InstanceCount: instanceCount,
		StartVertex:   startVertex,
		StartInstance: startInstance,
	})
}

// DrawIndexedInstanced draws indexed, instanced primitives.
func (c *Context) DrawIndexedInstanced(indexCountPerInstance, instanceCount, startIndex, baseVertex, startInstance int) error {
	return c.draw(DrawCall{
		Kind:          DrawIndexedInstanced,
		IndexCount:    indexCountPerInstance,
		InstanceCount: instanceCount,
		StartIndex:    startIndex,
		BaseVertex:    baseVertex,
		StartInstance: startInstance,
	})
}

// DrawInstancedIndirect draws with arguments read from a buffer.
func (c *Context) DrawInstancedIndirect(args *beholder.Buffer, offset int) error {
	if err := c.require(beholder.FeatureDrawInstancedIndirect, "DrawInstancedIndirect"); err != nil {
		return err
	}
	if err := checkIndirectArgs(args); err != nil {
		return err
	}
	return c.draw(DrawCall{Kind: DrawInstancedIndirect, Args: args, ArgsOffset: offset})
}

// DrawIndexedInstancedIndirect draws indexed primitives with arguments
// read from a buffer.
func (c *Context) DrawIndexedInstancedIndirect(args *beholder.Buffer, offset int) error {
	if err := c.require(beholder.FeatureDrawIndexedInstancedIndirect, "DrawIndexedInstancedIndirect"); err != nil {
		return err
	}
	if err := checkIndirectArgs(args); err != nil {
		return err
	}
	return c.draw(DrawCall{Kind: DrawIndexedInstancedIndirect, Args: args, ArgsOffset: offset})
}

func checkIndirectArgs(args *beholder.Buffer) error {
	if args == nil || !args.MiscFlags().Has(beholder.MiscDrawIndirectArgs) {
		return fmt.Errorf("%w: indirect arguments need MiscDrawIndirectArgs", beholder.ErrBindFlags)
	}
	return nil
}

// Dispatch runs the compute shader over an x*y*z grid of groups.
func (c *Context) Dispatch(x, y, z int) error {
	if err := c.require(beholder.FeatureCompute, "Dispatch"); err != nil {
		return err
	}
	if err := c.PreDispatch(); err != nil {
		return err
	}
	return c.translator.Dispatch(DispatchCall{X: x, Y: y, Z: z})
}

// DispatchIndirect runs the compute shader with group counts from a buffer.
func (c *Context) DispatchIndirect(args *beholder.Buffer, offset int) error {
	if err := c.require(beholder.FeatureCompute, "DispatchIndirect"); err != nil {
		return err
	}
	if err := checkIndirectArgs(args); err != nil {
		return err
	}
	if err := c.PreDispatch(); err != nil {
		return err
	}
	return c.translator.Dispatch(DispatchCall{Args: args, ArgsOffset: offset})
}

// ClearRenderTargetView fills a render target with a color.
func (c *Context) ClearRenderTargetView(v *beholder.RenderTargetView, color beholder.Color4) error {
	return c.translator.ClearRenderTargetView(v, color)
}

// ClearDepthStencilView clears the selected aspects of a depth-stencil view.
func (c *Context) ClearDepthStencilView(v *beholder.DepthStencilView, flags beholder.ClearFlags, depth float32, stencil uint8) error {
	return c.translator.ClearDepthStencilView(v, flags, depth, stencil)
}

// ClearUnorderedAccessViewFloat fills an unordered access view with floats.
func (c *Context) ClearUnorderedAccessViewFloat(v *beholder.UnorderedAccessView, values [4]float32) error {
	if err := c.require(beholder.FeatureUnorderedAccessClear, "ClearUnorderedAccessViewFloat"); err != nil {
		return err
	}
	return c.translator.ClearUnorderedAccessViewFloat(v, values)
}

// ClearUnorderedAccessViewUint fills an unordered access view with integers.
func (c *Context) ClearUnorderedAccessViewUint(v *beholder.UnorderedAccessView, values [4]uint32) error {
	if err := c.require(beholder.FeatureUnorderedAccessClear, "ClearUnorderedAccessViewUint"); err != nil {
		return err
	}
	return c.translator.ClearUnorderedAccessViewUint(v, values)
}

// GenerateMips fills the lower mips of the viewed texture.
func (c *Context) GenerateMips(v *beholder.ShaderResourceView) error {
	if err := c.require(beholder.FeatureGenerateMips, "GenerateMips"); err != nil {
		return err
	}
	return c.translator.GenerateMips(v)
}

// SetSubresourceData uploads data to one subresource.
func (c *Context) SetSubresourceData(r beholder.Resource, subresource int, data beholder.SubresourceData) error {
	if r.Usage() == beholder.UsageImmutable {
		return fmt.Errorf("%w: immutable resources cannot be updated", beholder.ErrBindFlags)
	}
	return c.translator.SetSubresourceData(r, subresource, data)
}

// Map gives the CPU access to one subresource.
func (c *Context) Map(r beholder.Resource, subresource int, mt beholder.MapType) (beholder.MappedSubresource, error) {
	if err := c.require(beholder.FeatureMap, "Map"); err != nil {
		return beholder.MappedSubresource{}, err
	}
	return c.translator.Map(r, subresource, mt)
}

// Unmap ends CPU access started by Map.
func (c *Context) Unmap(r beholder.Resource, subresource int) error {
	if err := c.require(beholder.FeatureMap, "Unmap"); err != nil {
		return err
	}
	return c.translator.Unmap(r, subresource)
}

// Flush submits recorded commands.
func (c *Context) Flush() error { return c.translator.Flush() }
