package skyview

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// PointerSample is one frame's pointer reading. The zero value means no pointer sample was available.
type PointerSample struct {
	X, Y        float32
	RightButton bool
	LeftButton  bool
	Valid       bool
}

// NewPointerSample returns a valid PointerSample at the given position.
func NewPointerSample(x, y float32, right, left bool) PointerSample {
	return PointerSample{X: x, Y: y, RightButton: right, LeftButton: left, Valid: true}
}

// InputSnapshot is everything the camera needs from the input devices for one frame.
type InputSnapshot struct {
	Keys    KeyboardState
	Pointer PointerSample
}

// PollPointer reads the mouse from Ebitengine. While the window is unfocused there is no sample.
func PollPointer() PointerSample {
	if !ebiten.IsFocused() {
		return PointerSample{}
	}
	x, y := ebiten.CursorPosition()
	return NewPointerSample(
		float32(x), float32(y),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	)
}

// PollInput samples keyboard and pointer state from Ebitengine using the provided key bindings.
func PollInput(bindings KeyBindings) InputSnapshot {
	return InputSnapshot{
		Keys:    bindings.Poll(ebiten.IsKeyPressed),
		Pointer: PollPointer(),
	}
}
