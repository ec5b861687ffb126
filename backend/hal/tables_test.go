package hal

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	beholder "github.com/Zulkir/Beholder-sub001"
)

func TestTextureFormatRoundTrip(t *testing.T) {
	for f, native := range textureFormats {
		got, err := textureFormat(f)
		if err != nil || got != native {
			t.Errorf("textureFormat(%d) = %v, %v; want %v", f, got, err, native)
		}
		if back := beholderFormat(native); back != f {
			t.Errorf("beholderFormat(%v) = %d, want %d", native, back, f)
		}
	}
	if _, err := textureFormat(beholder.FormatUnknown); !errors.Is(err, beholder.ErrUnsupportedFormat) {
		t.Errorf("textureFormat(unknown) error = %v, want ErrUnsupportedFormat", err)
	}
	if got := beholderFormat(gputypes.TextureFormatUndefined); got != beholder.FormatUnknown {
		t.Errorf("beholderFormat(undefined) = %d, want FormatUnknown", got)
	}
}

func TestShaderLocation(t *testing.T) {
	tests := []struct {
		semantic string
		want     uint32
		wantErr  bool
	}{
		{"LOC0", 0, false},
		{"loc12", 12, false},
		{"LOC", 0, true},
		{"TEXCOORD0", 0, true},
		{"LOCx", 0, true},
	}
	for _, tt := range tests {
		got, err := shaderLocation(tt.semantic)
		if (err != nil) != tt.wantErr {
			t.Errorf("shaderLocation(%q) error = %v, wantErr %v", tt.semantic, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("shaderLocation(%q) = %d, want %d", tt.semantic, got, tt.want)
		}
		if err != nil && !errors.Is(err, beholder.ErrInvalidDescription) {
			t.Errorf("shaderLocation(%q) error = %v, want ErrInvalidDescription", tt.semantic, err)
		}
	}
}

func TestPrimitiveTopology(t *testing.T) {
	tests := []struct {
		in    beholder.PrimitiveTopology
		want  gputypes.PrimitiveTopology
		strip bool
	}{
		{beholder.TopologyPointList, gputypes.PrimitiveTopologyPointList, false},
		{beholder.TopologyLineList, gputypes.PrimitiveTopologyLineList, false},
		{beholder.TopologyLineStrip, gputypes.PrimitiveTopologyLineStrip, true},
		{beholder.TopologyTriangleList, gputypes.PrimitiveTopologyTriangleList, false},
		{beholder.TopologyTriangleStrip, gputypes.PrimitiveTopologyTriangleStrip, true},
	}
	for _, tt := range tests {
		got, err := primitiveTopology(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("primitiveTopology(%d) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
		if isStrip(got) != tt.strip {
			t.Errorf("isStrip(%v) = %v, want %v", got, !tt.strip, tt.strip)
		}
	}
	for _, in := range []beholder.PrimitiveTopology{
		beholder.TopologyUndefined,
		beholder.TopologyLineListAdjacency,
		beholder.TopologyTriangleStripAdjacency,
	} {
		if _, err := primitiveTopology(in); !errors.Is(err, beholder.ErrNotSupported) {
			t.Errorf("primitiveTopology(%d) error = %v, want ErrNotSupported", in, err)
		}
	}
}

func TestBufferUsage(t *testing.T) {
	tests := []struct {
		name string
		desc beholder.BufferDescription
		want gputypes.BufferUsage
	}{
		{"vertex", beholder.BufferDescription{BindFlags: beholder.BindVertexBuffer}, gputypes.BufferUsageVertex},
		{"vertex and index", beholder.BufferDescription{BindFlags: beholder.BindVertexBuffer | beholder.BindIndexBuffer},
			gputypes.BufferUsageVertex | gputypes.BufferUsageIndex},
		{"uniform", beholder.BufferDescription{BindFlags: beholder.BindUniformBuffer}, gputypes.BufferUsageUniform},
		{"indirect args", beholder.BufferDescription{MiscFlags: beholder.MiscDrawIndirectArgs}, gputypes.BufferUsageIndirect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bufferUsage(tt.desc)
			if err != nil {
				t.Fatalf("bufferUsage() error = %v", err)
			}
			want := tt.want | gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc
			if got != want {
				t.Errorf("bufferUsage() = %v, want %v", got, want)
			}
		})
	}
	if _, err := bufferUsage(beholder.BufferDescription{BindFlags: beholder.BindStreamOutput}); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("bufferUsage(stream output) error = %v, want ErrNotSupported", err)
	}
}

func TestTextureUsage(t *testing.T) {
	got := textureUsage(beholder.BindShaderResource | beholder.BindDepthStencil)
	want := gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc |
		gputypes.TextureUsageTextureBinding | gputypes.TextureUsageRenderAttachment
	if got != want {
		t.Errorf("textureUsage() = %v, want %v", got, want)
	}
}
