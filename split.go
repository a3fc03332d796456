package skyview

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// SplitLayout slides the divider between the two viewports. The divider position is the fraction of the output's
// width given to the primary viewport: 1 with no split, 0.5 when fully split.
type SplitLayout struct {
	// Duration of the slide, in seconds. Zero snaps immediately.
	Duration float32

	split    bool
	position float32
	tween    *gween.Tween
}

// NewSplitLayout starts unsplit.
func NewSplitLayout(duration float32) *SplitLayout {
	return &SplitLayout{Duration: duration, position: 1}
}

// Update moves the divider towards where the split flag says it should be.
func (s *SplitLayout) Update(split bool, elapsed float32) {

	if split != s.split {
		s.split = split
		target := s.target()
		if s.Duration <= 0 {
			s.position = target
			s.tween = nil
			return
		}
		s.tween = gween.New(s.position, target, s.Duration, ease.OutCubic)
	}

	if s.tween != nil {
		var done bool
		s.position, done = s.tween.Update(elapsed)
		if done {
			s.position = s.target()
			s.tween = nil
		}
	}

}

func (s *SplitLayout) target() float32 {
	if s.split {
		return 0.5
	}
	return 1
}

// Position returns the divider's place as a fraction of the width.
func (s *SplitLayout) Position() float32 { return s.position }

// Split returns true if the split flag was set on the last Update.
func (s *SplitLayout) Split() bool { return s.split }

// Viewports divides an output of the given size. The secondary viewport is empty when the divider is at the edge.
func (s *SplitLayout) Viewports(width, height int) (primary, secondary Viewport) {

	w := float32(width)
	h := float32(height)
	divider := float32(int(w * s.position))

	primary = Viewport{Width: divider, Height: h, MaxDepth: 1}
	secondary = Viewport{X: divider, Width: w - divider, Height: h, MaxDepth: 1}

	return primary, secondary

}
