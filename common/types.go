// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
// Atlas pages are decoded into this form before the Renderer creates the GPU texture.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
	// PremultipliedAlpha marks pixels whose color channels are already multiplied by alpha.
	PremultipliedAlpha bool
	// Sampler is the sampler the texture is bound with.
	Sampler SamplerStagingData
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation. Fields are used as given,
// except a zero MaxAnisotropy which becomes 1. Equal values share one GPU sampler.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// Color is a straight-alpha RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float32
}

// White is the multiplicative identity for tint composition.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// Mul returns the channel-wise product of c and o.
// Each of R, G, B and A is multiplied independently.
//
// Parameters:
//   - o: the color to multiply with
//
// Returns:
//   - Color: the product
func (c Color) Mul(o Color) Color {
	return Color{
		R: c.R * o.R,
		G: c.G * o.G,
		B: c.B * o.B,
		A: c.A * o.A,
	}
}

// Pack packs the color into a 32-bit value with R in the low byte:
//
//	A<<24 | B<<16 | G<<8 | R
//
// Written little-endian this yields the byte sequence R, G, B, A, which is what an
// unorm8x4 vertex attribute reads. Channels are clamped to [0, 1] before scaling.
//
// Returns:
//   - uint32: the packed color
func (c Color) Pack() uint32 {
	r := uint32(Clamp01(c.R) * 255)
	g := uint32(Clamp01(c.G) * 255)
	b := uint32(Clamp01(c.B) * 255)
	a := uint32(Clamp01(c.A) * 255)
	return a<<24 | b<<16 | g<<8 | r
}
