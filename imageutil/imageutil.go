// Package imageutil turns Go images into texture contents.
//
// Images are converted to 8-bit RGBA and, when asked, downscaled into a
// mip chain on the CPU with bilinear filtering. Backends that cannot
// generate mips on the GPU get complete textures this way.
package imageutil

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	beholder "github.com/Zulkir/Beholder-sub001"
)

// RGBA returns img as an *image.RGBA with its bounds at the origin.
// An RGBA image already at the origin is returned as is.
func RGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// MipChain returns levels images, each half the size of the previous
// one. levels 0 builds the full chain down to 1x1.
func MipChain(img image.Image, levels int) ([]*image.RGBA, error) {
	base := RGBA(img)
	w, h := base.Rect.Dx(), base.Rect.Dy()
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: empty image", beholder.ErrInvalidDescription)
	}
	full := beholder.FullMipChain(w, h)
	if levels == 0 {
		levels = full
	}
	if levels < 0 || levels > full {
		return nil, fmt.Errorf("%w: %d mip levels for %dx%d, at most %d", beholder.ErrInvalidDescription, levels, w, h, full)
	}
	chain := make([]*image.RGBA, levels)
	chain[0] = base
	for mip := 1; mip < levels; mip++ {
		dst := image.NewRGBA(image.Rect(0, 0, beholder.MipSize(w, mip), beholder.MipSize(h, mip)))
		prev := chain[mip-1]
		draw.BiLinear.Scale(dst, dst.Bounds(), prev, prev.Bounds(), draw.Src, nil)
		chain[mip] = dst
	}
	return chain, nil
}

// SubresourceData describes the pixels of img for initial texture data.
func SubresourceData(img *image.RGBA) beholder.SubresourceData {
	return beholder.SubresourceData{
		Bytes:    img.Pix,
		RowPitch: img.Stride,
	}
}

// Options configure a texture built from an image.
type Options struct {
	// MipLevels is the number of levels to build; 0 builds the full chain.
	MipLevels int
	// SRGB selects an sRGB format.
	SRGB bool
	// BindFlags defaults to BindShaderResource.
	BindFlags beholder.BindFlags
	// Mutable creates a UsageDefault texture that SetSubresourceData can
	// update. Textures are immutable otherwise.
	Mutable bool
}

// Texture2D returns the description and initial data of a 2D texture
// holding img.
func Texture2D(img image.Image, opts Options) (beholder.Texture2DDescription, []beholder.SubresourceData, error) {
	chain, err := MipChain(img, opts.MipLevels)
	if err != nil {
		return beholder.Texture2DDescription{}, nil, err
	}
	desc := beholder.Texture2DDescription{
		Width:     chain[0].Rect.Dx(),
		Height:    chain[0].Rect.Dy(),
		MipLevels: len(chain),
		ArraySize: 1,
		Format:    beholder.FormatR8G8B8A8Unorm,
		Sampling:  beholder.Sampling{Count: 1},
		Usage:     beholder.UsageImmutable,
		BindFlags: opts.BindFlags,
	}
	if opts.SRGB {
		desc.Format = beholder.FormatR8G8B8A8UnormSrgb
	}
	if opts.Mutable {
		desc.Usage = beholder.UsageDefault
	}
	if desc.BindFlags == 0 {
		desc.BindFlags = beholder.BindShaderResource
	}
	data := make([]beholder.SubresourceData, len(chain))
	for i, level := range chain {
		data[i] = SubresourceData(level)
	}
	return desc, data, nil
}

// CreateTexture2D creates a texture on dev holding img.
func CreateTexture2D(dev beholder.Device, img image.Image, opts Options) (*beholder.Texture2D, error) {
	desc, data, err := Texture2D(img, opts)
	if err != nil {
		return nil, err
	}
	tex, err := dev.CreateTexture2D(desc, data)
	if err != nil {
		return nil, fmt.Errorf("imageutil: create texture: %w", err)
	}
	return tex, nil
}
