package skyview

import (
	"errors"
	"image"
)

var (
	// ErrInvalidHandle is returned when a device is handed a resource ID it never created, or one of the wrong kind.
	ErrInvalidHandle = errors.New("invalid resource handle")
	// ErrLayoutMismatch is returned when an input layout doesn't describe a vertex format the device can draw.
	ErrLayoutMismatch = errors.New("input layout mismatch")
)

// Resource IDs are handed out by a GraphicsDevice. The zero ID never refers to a resource.
type (
	ShaderID  uint32
	LayoutID  uint32
	BufferID  uint32
	SamplerID uint32
	TextureID uint32
)

// Semantic names a per-vertex attribute.
type Semantic int

const (
	SemanticPosition Semantic = iota
	SemanticTexCoord
	SemanticNormal
)

func (s Semantic) String() string {
	switch s {
	case SemanticTexCoord:
		return "TEXCOORD"
	case SemanticNormal:
		return "NORMAL"
	}
	return "POSITION"
}

// InputElement describes one attribute of the vertices a shader consumes. Every attribute is three floats.
type InputElement struct {
	Semantic Semantic
	Offset   int // Byte offset within a vertex
}

// Input layouts for the three kinds of geometry the scene draws.
var (
	LayoutPosition = []InputElement{
		{SemanticPosition, 0},
	}
	LayoutPositionUV = []InputElement{
		{SemanticPosition, 0},
		{SemanticTexCoord, 12},
	}
	LayoutPositionUVNormal = []InputElement{
		{SemanticPosition, 0},
		{SemanticTexCoord, 12},
		{SemanticNormal, 24},
	}
)

// FilterMode selects how a texture is sampled between texels.
type FilterMode int

const (
	FilterLinear FilterMode = iota
	FilterNearest
)

// AddressMode selects how texture coordinates outside of 0 to 1 are resolved.
type AddressMode int

const (
	AddressWrap AddressMode = iota
	AddressMirror
	AddressClamp
)

// SamplerDesc describes a texture sampler.
type SamplerDesc struct {
	Filter  FilterMode
	Address AddressMode
}

// ModelViewProjection is the per-draw constant block. All three matrices are stored transposed.
type ModelViewProjection struct {
	Model      Matrix4
	View       Matrix4
	Projection Matrix4
}

// Viewport is a rectangle of the output, in pixels, plus its depth range.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// AspectRatio returns the viewport's width divided by its height.
func (vp Viewport) AspectRatio() float32 {
	if vp.Height == 0 {
		return 1
	}
	return vp.Width / vp.Height
}

// DrawCall binds everything needed for one indexed draw. Texture and Sampler may be zero for untextured shaders.
type DrawCall struct {
	Shader       ShaderID
	Layout       LayoutID
	VertexBuffer BufferID
	IndexBuffer  BufferID
	IndexCount   int
	Constants    BufferID
	Texture      TextureID
	Sampler      SamplerID
}

// GraphicsDevice is the rendering backend the SceneRenderer drives. Methods are only called from the render
// goroutine.
type GraphicsDevice interface {
	CreateShader(name string, bytecode []byte) (ShaderID, error)
	CreateInputLayout(shader ShaderID, elements []InputElement) (LayoutID, error)
	CreateVertexBuffer(vertices []Vertex) (BufferID, error)
	CreateIndexBuffer(indices []uint32) (BufferID, error)
	CreateConstantBuffer() (BufferID, error)
	CreateSampler(desc SamplerDesc) (SamplerID, error)
	CreateTexture(img image.Image) (TextureID, error)

	UpdateConstantBuffer(buffer BufferID, data ModelViewProjection) error
	SetViewport(viewport Viewport)
	DrawIndexed(call DrawCall) error

	// OutputSize returns the size of the render target in pixels.
	OutputSize() (width, height int)
	// OrientationTransform returns the rotation from the native display orientation to the current one.
	OrientationTransform() Matrix4

	// ReleaseAll frees every resource the device created. IDs handed out before are invalid afterwards.
	ReleaseAll()
}

// validateLayout checks that the elements are a prefix of position, texcoord, normal, packed as three floats each.
func validateLayout(elements []InputElement) error {

	if len(elements) == 0 || len(elements) > 3 {
		return ErrLayoutMismatch
	}

	for i, e := range elements {
		if e.Semantic != Semantic(i) || e.Offset != i*12 {
			return ErrLayoutMismatch
		}
	}

	return nil

}
