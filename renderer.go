package skyview

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
)

type pipeline struct {
	shader ShaderID
	layout LayoutID
}

type meshBuffers struct {
	vertices   BufferID
	indices    BufferID
	indexCount int
}

// SceneRenderer draws the sky, the spinning cube and the floor through a GraphicsDevice, and owns the camera that
// looks at them.
type SceneRenderer struct {
	Logger *slog.Logger

	device GraphicsDevice
	assets fs.FS
	config *Config

	camera     *Camera
	projection *Projection
	spinner    *Spinner
	controller *CameraController
	split      *SplitLayout

	overview           *Camera
	overviewProjection *Projection

	loads           chan loadResult
	loadingComplete bool

	sky, cube, floor pipeline
	skyMesh          meshBuffers
	cubeMesh         meshBuffers
	floorMesh        *meshBuffers
	constants        BufferID
	floorSampler     SamplerID
	floorTexture     TextureID
}

// NewSceneRenderer creates a renderer drawing with the given device. Shaders and meshes are read from assets; a nil
// config means DefaultConfig.
func NewSceneRenderer(device GraphicsDevice, assets fs.FS, cfg *Config) *SceneRenderer {

	if cfg == nil {
		cfg = DefaultConfig()
	}

	camera := NewCamera(cfg.Camera)
	projection := NewProjection(cfg.Projection)
	spinner := NewSpinner(cfg.Scene.SpinDegreesPerSecond)

	overviewSettings := cfg.Camera
	overviewSettings.Eye = cfg.Scene.OverviewEye
	overviewSettings.Target = cfg.Scene.OverviewTarget

	return &SceneRenderer{
		Logger:             slog.Default(),
		device:             device,
		assets:             assets,
		config:             cfg,
		camera:             camera,
		projection:         projection,
		spinner:            spinner,
		controller:         NewCameraController(camera, projection, spinner),
		split:              NewSplitLayout(cfg.Scene.SplitTransition),
		overview:           NewCamera(overviewSettings),
		overviewProjection: NewProjection(cfg.Projection),
	}

}

// Camera returns the camera driven by input.
func (r *SceneRenderer) Camera() *Camera { return r.camera }

// Projection returns the main view's projection.
func (r *SceneRenderer) Projection() *Projection { return r.projection }

// Spinner returns the cube's rotation.
func (r *SceneRenderer) Spinner() *Spinner { return r.spinner }

// Controller returns the controller that applies input to the camera.
func (r *SceneRenderer) Controller() *CameraController { return r.controller }

// SplitLayout returns the divider between the main view and the overview.
func (r *SceneRenderer) SplitLayout() *SplitLayout { return r.split }

// LoadingComplete returns true once every device resource has been created.
func (r *SceneRenderer) LoadingComplete() bool { return r.loadingComplete }

// FloorLoaded returns true if the floor mesh loaded and is being drawn.
func (r *SceneRenderer) FloorLoaded() bool { return r.floorMesh != nil }

// StartTracking hands the cube's rotation to the pointer.
func (r *SceneRenderer) StartTracking() { r.spinner.StartTracking() }

// TrackingUpdate turns the cube according to the pointer's horizontal position.
func (r *SceneRenderer) TrackingUpdate(pointerX float32) {
	width, _ := r.device.OutputSize()
	r.spinner.TrackingUpdate(pointerX, float32(width))
}

// StopTracking gives the cube's rotation back to the clock.
func (r *SceneRenderer) StopTracking() { r.spinner.StopTracking() }

// IsTracking returns true while the pointer turns the cube.
func (r *SceneRenderer) IsTracking() bool { return r.spinner.Tracking() }

// ApplyConfig takes up speeds, steps and rates from a new config without moving the camera or resetting the
// projection.
func (r *SceneRenderer) ApplyConfig(cfg *Config) {

	r.config = cfg

	eye, target := r.camera.Settings.Eye, r.camera.Settings.Target
	r.camera.Settings = cfg.Camera
	r.camera.Settings.Eye, r.camera.Settings.Target = eye, target

	r.projection.Settings = cfg.Projection
	r.overviewProjection.Settings = cfg.Projection
	r.spinner.DegreesPerSecond = cfg.Scene.SpinDegreesPerSecond
	r.split.Duration = cfg.Scene.SplitTransition

}

// CreateDeviceDependentResources starts reading and parsing assets in the background. Device resources are created
// from the results on a later Update. Cancelling ctx abandons the load.
func (r *SceneRenderer) CreateDeviceDependentResources(ctx context.Context) {

	loads := make(chan loadResult, 1)
	r.loads = loads

	assets := r.assets
	scene := r.config.Scene

	go func() {
		result, err := loadSceneAssets(ctx, assets, scene)
		loads <- loadResult{assets: result, err: err}
	}()

}

// CreateWindowSizeDependentResources fits the projection to the device's output and puts the camera back at its
// starting point.
func (r *SceneRenderer) CreateWindowSizeDependentResources() {

	width, height := r.device.OutputSize()
	primary, _ := r.split.Viewports(width, height)

	orientation := r.device.OrientationTransform()

	r.projection.Reset(primary.AspectRatio(), orientation)
	r.projection.Update()

	// The overview only ever fills half of the output.
	half := Viewport{Width: float32(width) / 2, Height: float32(height)}
	r.overviewProjection.Reset(half.AspectRatio(), orientation)

	r.controller.OutputWidth = float32(width)

	r.camera.Reset()

}

// ReleaseDeviceDependentResources stops rendering and frees everything the device holds. A load still in flight is
// abandoned.
func (r *SceneRenderer) ReleaseDeviceDependentResources() {
	r.loadingComplete = false
	r.loads = nil
	r.floorMesh = nil
	r.device.ReleaseAll()
}

// Update finishes loading once the assets are ready, then applies a frame of input to the camera. Errors creating
// device resources are returned.
func (r *SceneRenderer) Update(timer *StepTimer, input InputSnapshot) error {

	if !r.loadingComplete && r.loads != nil {
		select {
		case result := <-r.loads:
			r.loads = nil
			if err := r.finishLoading(result); err != nil {
				return err
			}
		default:
		}
	}

	width, height := r.device.OutputSize()

	r.controller.OutputWidth = float32(width)
	r.controller.Update(input, timer)

	// The divider moves after the split keys are read, so the projection is refit to the primary viewport here.
	r.split.Update(r.controller.Split, timer.Elapsed())
	primary, _ := r.split.Viewports(width, height)
	r.projection.SetAspectRatio(primary.AspectRatio())
	r.projection.Update()

	return nil

}

func (r *SceneRenderer) finishLoading(result loadResult) error {

	if result.err != nil {
		return fmt.Errorf("loading scene assets: %w", result.err)
	}

	assets := result.assets
	device := r.device

	var err error

	if r.sky, err = r.createPipeline("sky", assets.skyShader, LayoutPosition); err != nil {
		return err
	}
	if r.cube, err = r.createPipeline("cube", assets.cubeShader, LayoutPositionUV); err != nil {
		return err
	}
	if r.floor, err = r.createPipeline("floor", assets.floorShader, LayoutPositionUVNormal); err != nil {
		return err
	}

	if r.constants, err = device.CreateConstantBuffer(); err != nil {
		return fmt.Errorf("constant buffer: %w", err)
	}

	if r.floorSampler, err = device.CreateSampler(SamplerDesc{Filter: r.config.Scene.FloorFilter, Address: r.config.Scene.FloorAddress}); err != nil {
		return fmt.Errorf("sampler: %w", err)
	}

	if r.floorTexture, err = device.CreateTexture(assets.floorTexture); err != nil {
		return fmt.Errorf("floor texture: %w", err)
	}

	if r.skyMesh, err = r.uploadMesh(SkyboxMesh()); err != nil {
		return fmt.Errorf("sky mesh: %w", err)
	}

	if r.cubeMesh, err = r.uploadMesh(CubeMesh()); err != nil {
		return fmt.Errorf("cube mesh: %w", err)
	}

	r.floorMesh = nil

	if assets.floorErr != nil {
		r.Logger.Warn("floor mesh skipped", "path", r.config.Scene.FloorMesh, "error", assets.floorErr)
	} else {
		floor, err := r.uploadMesh(assets.floorMesh)
		if err != nil {
			return fmt.Errorf("floor mesh: %w", err)
		}
		r.floorMesh = &floor
	}

	r.loadingComplete = true

	floorTriangles := 0
	if assets.floorMesh != nil {
		floorTriangles = assets.floorMesh.TriangleCount()
	}
	r.Logger.Info("scene loaded", "floorTriangles", floorTriangles, "floorLoaded", r.floorMesh != nil)

	return nil

}

func (r *SceneRenderer) createPipeline(name string, source []byte, layout []InputElement) (pipeline, error) {

	shader, err := r.device.CreateShader(name, source)
	if err != nil {
		return pipeline{}, err
	}

	inputLayout, err := r.device.CreateInputLayout(shader, layout)
	if err != nil {
		return pipeline{}, fmt.Errorf("%s input layout: %w", name, err)
	}

	return pipeline{shader: shader, layout: inputLayout}, nil

}

func (r *SceneRenderer) uploadMesh(mesh *MeshData) (meshBuffers, error) {

	vertices, err := r.device.CreateVertexBuffer(mesh.Vertices)
	if err != nil {
		return meshBuffers{}, err
	}

	indices, err := r.device.CreateIndexBuffer(mesh.Indices)
	if err != nil {
		return meshBuffers{}, err
	}

	return meshBuffers{vertices: vertices, indices: indices, indexCount: len(mesh.Indices)}, nil

}

// Render submits the frame's draws. Nothing is drawn until loading has completed.
func (r *SceneRenderer) Render() error {

	if !r.loadingComplete {
		return nil
	}

	width, height := r.device.OutputSize()
	primary, secondary := r.split.Viewports(width, height)

	if err := r.renderView(primary, r.camera.ViewMatrix(), r.projection.Matrix()); err != nil {
		return err
	}

	if secondary.Width >= 1 {
		r.overviewProjection.SetAspectRatio(secondary.AspectRatio())
		r.overviewProjection.Update()
		if err := r.renderView(secondary, r.overview.ViewMatrix(), r.overviewProjection.Matrix()); err != nil {
			return err
		}
	}

	return nil

}

var (
	skyModel   = NewMatrix4Scale(100, 100, 100).Transposed()
	floorModel = NewMatrix4RotateY(3.14).Mult(NewMatrix4Translate(0, -2, 0)).Transposed()
)

func (r *SceneRenderer) renderView(viewport Viewport, view, projection Matrix4) error {

	r.device.SetViewport(viewport)

	draw := func(p pipeline, mesh meshBuffers, model Matrix4, texture TextureID, sampler SamplerID) error {
		constants := ModelViewProjection{Model: model, View: view, Projection: projection}
		if err := r.device.UpdateConstantBuffer(r.constants, constants); err != nil {
			return err
		}
		return r.device.DrawIndexed(DrawCall{
			Shader:       p.shader,
			Layout:       p.layout,
			VertexBuffer: mesh.vertices,
			IndexBuffer:  mesh.indices,
			IndexCount:   mesh.indexCount,
			Constants:    r.constants,
			Texture:      texture,
			Sampler:      sampler,
		})
	}

	if err := draw(r.sky, r.skyMesh, skyModel, 0, 0); err != nil {
		return fmt.Errorf("drawing sky: %w", err)
	}

	if err := draw(r.cube, r.cubeMesh, r.spinner.Model(), 0, 0); err != nil {
		return fmt.Errorf("drawing cube: %w", err)
	}

	if r.floorMesh != nil {
		if err := draw(r.floor, *r.floorMesh, floorModel, r.floorTexture, r.floorSampler); err != nil {
			return fmt.Errorf("drawing floor: %w", err)
		}
	}

	return nil

}
