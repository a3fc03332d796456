package skyview

// CameraSettings controls how fast a Camera moves and turns, and where it starts.
type CameraSettings struct {
	MoveSpeed   float32 `toml:"move_speed" yaml:"move_speed"`     // Units per second
	RotateSpeed float32 `toml:"rotate_speed" yaml:"rotate_speed"` // Radians per pointer pixel per second
	Eye         Vector3 `toml:"eye" yaml:"eye"`
	Target      Vector3 `toml:"target" yaml:"target"`
}

// DefaultCameraSettings returns a camera slightly above and behind the origin, looking down at the cube.
func DefaultCameraSettings() CameraSettings {
	return CameraSettings{
		MoveSpeed:   1.0,
		RotateSpeed: 0.75,
		Eye:         Vector3{X: 0, Y: 0.7, Z: -1.5},
		Target:      Vector3{X: 0, Y: -0.1, Z: 0},
	}
}

// Camera is a free-flying first-person camera. Transform is camera-to-world: rows 0 to 2 are the camera's right, up,
// and forward axes, and row 3 is its position.
type Camera struct {
	Settings  CameraSettings
	Transform Matrix4

	prevPointer PointerSample
}

// NewCamera creates a Camera placed according to the settings given.
func NewCamera(settings CameraSettings) *Camera {
	camera := &Camera{Settings: settings}
	camera.Reset()
	return camera
}

// Reset moves the camera back to its starting eye and target, forgetting the last pointer sample.
func (camera *Camera) Reset() {
	camera.Transform = NewLookAtMatrix(camera.Settings.Eye, camera.Settings.Target, WorldUp)
	camera.prevPointer = PointerSample{}
}

// ViewMatrix returns the world-to-camera matrix, transposed for upload as shader constants.
func (camera *Camera) ViewMatrix() Matrix4 {
	return camera.Transform.Inverted().Transposed()
}

// Position returns the camera's world position.
func (camera *Camera) Position() Vector3 {
	return camera.Transform.Translation()
}

// Translate moves the camera along its own axes. The offset is scaled by MoveSpeed and elapsed.
func (camera *Camera) Translate(local Vector3, elapsed float32) {
	offset := local.Scale(camera.Settings.MoveSpeed * elapsed)
	camera.Transform = NewMatrix4Translate(offset.X, offset.Y, offset.Z).Mult(camera.Transform)
}

// Move applies the six movement keys held in the KeyboardState, in the order forward, back, left, right, down, up.
func (camera *Camera) Move(keys KeyboardState, elapsed float32) {

	if keys.Pressed(KeyForward) {
		camera.Translate(WorldForward, elapsed)
	}
	if keys.Pressed(KeyBack) {
		camera.Translate(WorldForward.Invert(), elapsed)
	}
	if keys.Pressed(KeyLeft) {
		camera.Translate(WorldRight.Invert(), elapsed)
	}
	if keys.Pressed(KeyRight) {
		camera.Translate(WorldRight, elapsed)
	}
	if keys.Pressed(KeyDown) {
		camera.Translate(WorldUp.Invert(), elapsed)
	}
	if keys.Pressed(KeyUp) {
		camera.Translate(WorldUp, elapsed)
	}

}

// Look turns the camera by pointer movement while the right button is held. Vertical motion pitches the camera
// around its own X axis and horizontal motion yaws it around the world Y axis; the position never changes.
// Look only acts when both the current and the previous samples are valid. The current sample becomes the previous
// one whenever it is valid.
func (camera *Camera) Look(pointer PointerSample, elapsed float32) {

	if pointer.Valid && pointer.RightButton && camera.prevPointer.Valid {

		dx := pointer.X - camera.prevPointer.X
		dy := pointer.Y - camera.prevPointer.Y

		if dx != 0 || dy != 0 {

			pos := camera.Transform.Translation()
			camera.Transform.SetTranslation(Vector3{})

			speed := camera.Settings.RotateSpeed * elapsed
			camera.Transform = NewMatrix4RotateX(dy * speed).Mult(camera.Transform).Mult(NewMatrix4RotateY(dx * speed))

			camera.Transform.SetTranslation(pos)

		}

	}

	if pointer.Valid {
		camera.prevPointer = pointer
	}

}
