package skyview

import (
	"github.com/chewxy/math32"
)

// Spinner turns the cube about +Y. Left alone it spins at a constant rate; while tracking, the pointer's horizontal
// position sets the angle directly.
type Spinner struct {
	DegreesPerSecond float32

	radians  float32
	tracking bool
}

// NewSpinner creates a Spinner turning at the given rate.
func NewSpinner(degreesPerSecond float32) *Spinner {
	return &Spinner{DegreesPerSecond: degreesPerSecond}
}

// Update sets the angle from the total running time, unless the spinner is tracking.
func (s *Spinner) Update(total float32) {
	if s.tracking {
		return
	}
	perSecond := s.DegreesPerSecond * math32.Pi / 180
	s.radians = math32.Mod(total*perSecond, 2*math32.Pi)
}

// StartTracking hands control of the angle to TrackingUpdate.
func (s *Spinner) StartTracking() { s.tracking = true }

// TrackingUpdate turns the cube two full revolutions across the width of the output.
func (s *Spinner) TrackingUpdate(pointerX, outputWidth float32) {
	if s.tracking && outputWidth > 0 {
		s.radians = 2 * math32.Pi * 2 * pointerX / outputWidth
	}
}

// StopTracking returns the spinner to idle rotation.
func (s *Spinner) StopTracking() { s.tracking = false }

// Tracking returns true while the pointer drives the angle.
func (s *Spinner) Tracking() bool { return s.tracking }

// Angle returns the current rotation, in radians.
func (s *Spinner) Angle() float32 { return s.radians }

// Model returns the cube's model matrix, transposed for upload as shader constants.
func (s *Spinner) Model() Matrix4 {
	return NewMatrix4RotateY(s.radians).Transposed()
}
