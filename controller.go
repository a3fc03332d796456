package skyview

// CameraController applies one frame of input to the camera, the projection parameters, the split flag and the
// cube spinner.
type CameraController struct {
	Camera     *Camera
	Projection *Projection
	Spinner    *Spinner

	// Split is true while the output is divided into two viewports.
	Split bool

	// OutputWidth is the width used to map pointer positions to spinner angles while tracking.
	OutputWidth float32

	prevKeys KeyboardState
}

// NewCameraController ties a camera, projection and spinner together.
func NewCameraController(camera *Camera, projection *Projection, spinner *Spinner) *CameraController {
	return &CameraController{
		Camera:     camera,
		Projection: projection,
		Spinner:    spinner,
	}
}

// Update runs one frame. Held movement keys translate the camera, freshly pressed parameter keys adjust the
// projection or the split flag, a dirty projection is recomputed, the pointer turns the camera, and finally the
// spinner advances.
func (c *CameraController) Update(input InputSnapshot, timer *StepTimer) {

	elapsed := timer.Elapsed()
	keys := input.Keys

	c.Camera.Move(keys, elapsed)

	settings := c.Projection.Settings

	if keys.JustPressed(KeyFieldOfViewIncrease, c.prevKeys) {
		c.Projection.WidenFieldOfView()
	}
	if keys.JustPressed(KeyFieldOfViewDecrease, c.prevKeys) {
		c.Projection.NarrowFieldOfView()
	}
	if keys.JustPressed(KeyFieldOfViewReset, c.prevKeys) {
		c.Projection.ResetFieldOfView()
	}
	if keys.JustPressed(KeyFarIncrease, c.prevKeys) {
		c.Projection.AdjustFar(settings.FarStep)
	}
	if keys.JustPressed(KeyFarDecrease, c.prevKeys) {
		c.Projection.AdjustFar(-settings.FarStep)
	}
	if keys.JustPressed(KeyNearIncrease, c.prevKeys) {
		c.Projection.AdjustNear(settings.NearStep)
	}
	if keys.JustPressed(KeyNearDecrease, c.prevKeys) {
		c.Projection.AdjustNear(-settings.NearStep)
	}

	if keys.Pressed(KeySplitOn) {
		c.Split = true
	}
	if keys.Pressed(KeySplitOff) {
		c.Split = false
	}

	c.Projection.Update()

	c.Camera.Look(input.Pointer, elapsed)

	if input.Pointer.Valid && input.Pointer.LeftButton {
		if !c.Spinner.Tracking() {
			c.Spinner.StartTracking()
		}
		c.Spinner.TrackingUpdate(input.Pointer.X, c.OutputWidth)
	} else if c.Spinner.Tracking() {
		c.Spinner.StopTracking()
	}

	c.Spinner.Update(timer.Total())

	c.prevKeys = keys

}
