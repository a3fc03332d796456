package skyview

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

type ebitenLayout struct {
	shader ShaderID
	source attributeSource
}

// deviceBatch is the state a group of triangles is drawn with.
type deviceBatch struct {
	shader  *ebiten.Shader
	texture *ebiten.Image
	sampler SamplerDesc
	clip    image.Rectangle
}

// DeviceStats describes the last presented frame.
type DeviceStats struct {
	RasterStats
	DrawCalls   int // Calls to DrawIndexed
	ShaderDraws int // Calls to DrawTrianglesShader
}

// EbitenDevice is a GraphicsDevice backed by Ebitengine. Geometry is projected on the CPU, clipped against the near
// plane, sorted back to front and handed to Kage shaders through DrawTrianglesShader when the frame is presented.
type EbitenDevice struct {
	// Orientation is the display's rotation relative to its native orientation.
	Orientation DisplayOrientation

	// Sky gradient colors, passed to every shader as the Horizon and Zenith uniforms.
	SkyHorizon Color
	SkyZenith  Color

	width, height int
	viewport      Viewport
	nextID        uint32

	shaders       map[ShaderID]*ebiten.Shader
	layouts       map[LayoutID]ebitenLayout
	vertexBuffers map[BufferID][]Vertex
	indexBuffers  map[BufferID][]uint32
	constants     map[BufferID]*ModelViewProjection
	samplers      map[SamplerID]SamplerDesc
	textures      map[TextureID]*ebiten.Image

	raster    rasterizer
	batches   []deviceBatch
	drawCalls int
	stats     DeviceStats

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewEbitenDevice creates a device rendering to an output of the given size.
func NewEbitenDevice(width, height int) *EbitenDevice {
	device := &EbitenDevice{
		SkyHorizon: NewColor(0.85, 0.9, 0.95, 1),
		SkyZenith:  NewColor(0.2, 0.45, 0.85, 1),
	}
	device.Resize(width, height)
	device.clear()
	return device
}

func (device *EbitenDevice) clear() {
	device.shaders = map[ShaderID]*ebiten.Shader{}
	device.layouts = map[LayoutID]ebitenLayout{}
	device.vertexBuffers = map[BufferID][]Vertex{}
	device.indexBuffers = map[BufferID][]uint32{}
	device.constants = map[BufferID]*ModelViewProjection{}
	device.samplers = map[SamplerID]SamplerDesc{}
	device.textures = map[TextureID]*ebiten.Image{}
}

// Resize changes the output size. It's usually called from the game's Layout.
func (device *EbitenDevice) Resize(width, height int) {
	device.width = width
	device.height = height
	device.viewport = Viewport{Width: float32(width), Height: float32(height), MaxDepth: 1}
}

func (device *EbitenDevice) id() uint32 {
	device.nextID++
	return device.nextID
}

// CreateShader compiles Kage source.
func (device *EbitenDevice) CreateShader(name string, bytecode []byte) (ShaderID, error) {
	shader, err := ebiten.NewShader(bytecode)
	if err != nil {
		return 0, fmt.Errorf("shader %s: %w", name, err)
	}
	id := ShaderID(device.id())
	device.shaders[id] = shader
	return id, nil
}

// CreateInputLayout binds a vertex layout to a shader. Layouts with texture coordinates interpolate them; a
// position-only layout interpolates the object-space position instead.
func (device *EbitenDevice) CreateInputLayout(shader ShaderID, elements []InputElement) (LayoutID, error) {

	if _, ok := device.shaders[shader]; !ok {
		return 0, fmt.Errorf("input layout: shader %d: %w", shader, ErrInvalidHandle)
	}

	if err := validateLayout(elements); err != nil {
		return 0, err
	}

	layout := ebitenLayout{shader: shader, source: attributePosition}
	if len(elements) > 1 {
		layout.source = attributeUV
	}

	id := LayoutID(device.id())
	device.layouts[id] = layout
	return id, nil

}

func (device *EbitenDevice) CreateVertexBuffer(vertices []Vertex) (BufferID, error) {
	id := BufferID(device.id())
	device.vertexBuffers[id] = append([]Vertex(nil), vertices...)
	return id, nil
}

func (device *EbitenDevice) CreateIndexBuffer(indices []uint32) (BufferID, error) {
	id := BufferID(device.id())
	device.indexBuffers[id] = append([]uint32(nil), indices...)
	return id, nil
}

func (device *EbitenDevice) CreateConstantBuffer() (BufferID, error) {
	id := BufferID(device.id())
	device.constants[id] = &ModelViewProjection{Model: NewMatrix4(), View: NewMatrix4(), Projection: NewMatrix4()}
	return id, nil
}

func (device *EbitenDevice) CreateSampler(desc SamplerDesc) (SamplerID, error) {
	id := SamplerID(device.id())
	device.samplers[id] = desc
	return id, nil
}

// CreateTexture uploads an image.
func (device *EbitenDevice) CreateTexture(img image.Image) (TextureID, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, fmt.Errorf("texture: empty image")
	}
	id := TextureID(device.id())
	device.textures[id] = ebiten.NewImageFromImage(img)
	return id, nil
}

// UpdateConstantBuffer replaces the contents of a constant buffer.
func (device *EbitenDevice) UpdateConstantBuffer(buffer BufferID, data ModelViewProjection) error {
	constants, ok := device.constants[buffer]
	if !ok {
		return fmt.Errorf("constant buffer %d: %w", buffer, ErrInvalidHandle)
	}
	*constants = data
	return nil
}

// SetViewport sets the rectangle later draws land in.
func (device *EbitenDevice) SetViewport(viewport Viewport) {
	device.viewport = viewport
}

// DrawIndexed projects the call's triangles using the constant buffer's current contents. Nothing reaches the screen
// until Present.
func (device *EbitenDevice) DrawIndexed(call DrawCall) error {

	shader, ok := device.shaders[call.Shader]
	if !ok {
		return fmt.Errorf("draw: shader %d: %w", call.Shader, ErrInvalidHandle)
	}

	layout, ok := device.layouts[call.Layout]
	if !ok {
		return fmt.Errorf("draw: input layout %d: %w", call.Layout, ErrInvalidHandle)
	}

	if layout.shader != call.Shader {
		return fmt.Errorf("draw: input layout %d belongs to shader %d: %w", call.Layout, layout.shader, ErrLayoutMismatch)
	}

	vertices, ok := device.vertexBuffers[call.VertexBuffer]
	if !ok {
		return fmt.Errorf("draw: vertex buffer %d: %w", call.VertexBuffer, ErrInvalidHandle)
	}

	indices, ok := device.indexBuffers[call.IndexBuffer]
	if !ok {
		return fmt.Errorf("draw: index buffer %d: %w", call.IndexBuffer, ErrInvalidHandle)
	}

	constants, ok := device.constants[call.Constants]
	if !ok {
		return fmt.Errorf("draw: constant buffer %d: %w", call.Constants, ErrInvalidHandle)
	}

	batch := deviceBatch{
		shader: shader,
		clip:   device.viewportRect(),
	}

	if call.Texture != 0 {
		if batch.texture, ok = device.textures[call.Texture]; !ok {
			return fmt.Errorf("draw: texture %d: %w", call.Texture, ErrInvalidHandle)
		}
	}

	if call.Sampler != 0 {
		if batch.sampler, ok = device.samplers[call.Sampler]; !ok {
			return fmt.Errorf("draw: sampler %d: %w", call.Sampler, ErrInvalidHandle)
		}
	}

	device.batches = append(device.batches, batch)
	device.raster.addMesh(mvpMatrix(*constants), vertices, indices, call.IndexCount, device.viewport, layout.source, len(device.batches)-1)
	device.drawCalls++

	return nil

}

func (device *EbitenDevice) viewportRect() image.Rectangle {
	vp := device.viewport
	return image.Rect(int(vp.X), int(vp.Y), int(vp.X+vp.Width), int(vp.Y+vp.Height))
}

func (device *EbitenDevice) OutputSize() (int, int) {
	return device.width, device.height
}

func (device *EbitenDevice) OrientationTransform() Matrix4 {
	return device.Orientation.Transform()
}

// ReleaseAll deallocates every shader and texture and forgets all buffers.
func (device *EbitenDevice) ReleaseAll() {
	for _, shader := range device.shaders {
		shader.Deallocate()
	}
	for _, texture := range device.textures {
		texture.Deallocate()
	}
	device.clear()
	device.discard()
}

func (device *EbitenDevice) discard() {
	device.raster.reset()
	device.batches = device.batches[:0]
	device.drawCalls = 0
}

// Stats returns counts for the last presented frame.
func (device *EbitenDevice) Stats() DeviceStats {
	return device.stats
}

// Present draws everything submitted since the last Present onto the target, farthest triangles first.
func (device *EbitenDevice) Present(target *ebiten.Image) {

	sorted := device.raster.sorted()

	device.stats = DeviceStats{RasterStats: device.raster.Stats, DrawCalls: device.drawCalls}

	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || sorted[i].batch != sorted[start].batch || i-start == MaxTriangleCount {
			device.drawRun(target, sorted[start:i])
			start = i
		}
	}

	device.discard()

}

func (device *EbitenDevice) drawRun(target *ebiten.Image, run []rasterTriangle) {

	if len(run) == 0 {
		return
	}

	batch := device.batches[run[0].batch]

	device.vertices = device.vertices[:0]
	device.indices = device.indices[:0]

	for _, tri := range run {
		base := uint16(len(device.vertices))
		device.vertices = append(device.vertices, tri.verts[:]...)
		device.indices = append(device.indices, base, base+1, base+2)
	}

	linear := 0
	if batch.sampler.Filter == FilterLinear {
		linear = 1
	}

	opt := &ebiten.DrawTrianglesShaderOptions{
		Uniforms: map[string]any{
			"Horizon":     device.SkyHorizon.RGB(),
			"Zenith":      device.SkyZenith.RGB(),
			"AddressMode": int(batch.sampler.Address),
			"Linear":      linear,
		},
	}
	opt.Images[0] = batch.texture

	dst := target
	if !batch.clip.Eq(target.Bounds()) {
		dst = target.SubImage(batch.clip.Intersect(target.Bounds())).(*ebiten.Image)
	}

	dst.DrawTrianglesShader(device.vertices, device.indices, batch.shader, opt)
	device.stats.ShaderDraws++

}
