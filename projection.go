package skyview

import (
	"fmt"

	"github.com/chewxy/math32"
)

// DisplayOrientation is the rotation of the output surface relative to its native orientation.
type DisplayOrientation int

const (
	OrientationLandscape        DisplayOrientation = iota // Native; no rotation
	OrientationPortrait                                   // Rotated 90 degrees
	OrientationLandscapeFlipped                           // Rotated 180 degrees
	OrientationPortraitFlipped                            // Rotated 270 degrees
)

// Transform returns the Z rotation that maps rendered output onto the rotated display.
func (o DisplayOrientation) Transform() Matrix4 {
	switch o {
	case OrientationPortrait:
		return Matrix4{{0, 1, 0, 0}, {-1, 0, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
	case OrientationLandscapeFlipped:
		return Matrix4{{-1, 0, 0, 0}, {0, -1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
	case OrientationPortraitFlipped:
		return Matrix4{{0, -1, 0, 0}, {1, 0, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
	}
	return NewMatrix4()
}

func (o DisplayOrientation) String() string {
	switch o {
	case OrientationPortrait:
		return "portrait"
	case OrientationLandscapeFlipped:
		return "landscape-flipped"
	case OrientationPortraitFlipped:
		return "portrait-flipped"
	}
	return "landscape"
}

// UnmarshalText parses the names produced by String, so orientations can be written in config files.
func (o *DisplayOrientation) UnmarshalText(text []byte) error {
	for _, candidate := range []DisplayOrientation{OrientationLandscape, OrientationPortrait, OrientationLandscapeFlipped, OrientationPortraitFlipped} {
		if candidate.String() == string(text) {
			*o = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown display orientation %q", text)
}

// ProjectionSettings are the tunable starting values and step sizes of a Projection.
type ProjectionSettings struct {
	FieldOfView       float32 `toml:"field_of_view" yaml:"field_of_view"` // Vertical, in degrees
	Near              float32 `toml:"near" yaml:"near"`
	Far               float32 `toml:"far" yaml:"far"`
	FieldOfViewFactor float32 `toml:"fov_factor" yaml:"fov_factor"` // Multiplier applied per widen / narrow step
	FarStep           float32 `toml:"far_step" yaml:"far_step"`
	NearStep          float32 `toml:"near_step" yaml:"near_step"`
}

// DefaultProjectionSettings returns a 70 degree field of view with a 0.01 to 200 depth range.
func DefaultProjectionSettings() ProjectionSettings {
	return ProjectionSettings{
		FieldOfView:       70,
		Near:              0.01,
		Far:               200,
		FieldOfViewFactor: 1.05,
		FarStep:           10,
		NearStep:          0.1,
	}
}

// Projection holds the perspective parameters and a cached projection matrix. The matrix is recomputed by Update
// only after something changed; setters mark it dirty.
type Projection struct {
	Settings ProjectionSettings

	fieldOfView float32 // radians
	near, far   float32
	aspect      float32
	orientation Matrix4

	dirty  bool
	matrix Matrix4
}

// NewProjection creates a Projection from the settings provided, for an aspect ratio of 1.
func NewProjection(settings ProjectionSettings) *Projection {
	p := &Projection{
		Settings:    settings,
		aspect:      1,
		orientation: NewMatrix4(),
		near:        settings.Near,
		far:         settings.Far,
	}
	p.fieldOfView = p.defaultFieldOfView()
	p.dirty = true
	return p
}

func (p *Projection) defaultFieldOfView() float32 {
	fov := p.Settings.FieldOfView * math32.Pi / 180
	// Portrait views get a wider angle so the scene still fits horizontally.
	if p.aspect < 1 {
		fov *= 2
	}
	return fov
}

// Reset restores the field of view and clip distances for a new output size and orientation.
func (p *Projection) Reset(aspect float32, orientation Matrix4) {
	p.aspect = aspect
	p.orientation = orientation
	p.fieldOfView = p.defaultFieldOfView()
	p.near = p.Settings.Near
	p.far = p.Settings.Far
	p.dirty = true
}

// SetAspectRatio changes the aspect ratio, marking the projection dirty when it differs.
func (p *Projection) SetAspectRatio(aspect float32) {
	if aspect != p.aspect {
		p.aspect = aspect
		p.dirty = true
	}
}

// AspectRatio returns the width over height the projection is fitted to.
func (p *Projection) AspectRatio() float32 { return p.aspect }

// FieldOfView returns the vertical field of view, in radians.
func (p *Projection) FieldOfView() float32 { return p.fieldOfView }

// Near returns the distance to the near clip plane.
func (p *Projection) Near() float32 { return p.near }

// Far returns the distance to the far clip plane.
func (p *Projection) Far() float32 { return p.far }

// Dirty returns true if the cached matrix is out of date.
func (p *Projection) Dirty() bool { return p.dirty }

// WidenFieldOfView multiplies the field of view by the configured factor. A factor that isn't positive does nothing.
func (p *Projection) WidenFieldOfView() {
	if p.Settings.FieldOfViewFactor <= 0 {
		return
	}
	p.fieldOfView *= p.Settings.FieldOfViewFactor
	p.dirty = true
}

// NarrowFieldOfView divides the field of view by the configured factor. A factor that isn't positive does nothing.
func (p *Projection) NarrowFieldOfView() {
	if p.Settings.FieldOfViewFactor <= 0 {
		return
	}
	p.fieldOfView /= p.Settings.FieldOfViewFactor
	p.dirty = true
}

// ResetFieldOfView restores the default field of view for the current aspect ratio.
func (p *Projection) ResetFieldOfView() {
	p.fieldOfView = p.defaultFieldOfView()
	p.dirty = true
}

// AdjustFar moves the far plane by delta. A far plane pulled in front of the near plane is placed just beyond it.
func (p *Projection) AdjustFar(delta float32) {
	p.far += delta
	if p.far <= p.near {
		p.far = p.near + 1
	}
	p.dirty = true
}

// AdjustNear moves the near plane by delta. A near plane pushed past the far plane is put 10 units in front of it,
// and a negative near plane snaps to 0.01.
func (p *Projection) AdjustNear(delta float32) {
	p.near += delta
	if p.near >= p.far {
		p.near = p.far - 10
	}
	if p.near <= 0 {
		p.near = 0.01
	}
	p.dirty = true
}

// Update recomputes the projection matrix if it is dirty, returning true if it did.
func (p *Projection) Update() bool {
	if !p.dirty {
		return false
	}
	perspective := NewProjectionPerspectiveLH(p.fieldOfView, p.aspect, p.near, p.far)
	p.matrix = perspective.Mult(p.orientation).Transposed()
	p.dirty = false
	return true
}

// Matrix returns the cached projection matrix, transposed for upload as shader constants.
func (p *Projection) Matrix() Matrix4 {
	return p.matrix
}
