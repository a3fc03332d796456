package skyview

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Key identifies a logical camera control, independent of the physical key bound to it.
type Key int

const (
	KeyForward Key = iota // Move along the camera's +Z
	KeyBack               // Move along the camera's -Z
	KeyLeft               // Move along the camera's -X
	KeyRight              // Move along the camera's +X
	KeyDown               // Move along the camera's -Y
	KeyUp                 // Move along the camera's +Y

	KeyFieldOfViewIncrease
	KeyFieldOfViewDecrease
	KeyFieldOfViewReset
	KeyFarIncrease
	KeyFarDecrease
	KeyNearIncrease
	KeyNearDecrease

	KeySplitOn
	KeySplitOff

	KeyCount // The number of logical keys; not a key itself
)

var keyNames = [KeyCount]string{
	"Forward", "Back", "Left", "Right", "Down", "Up",
	"FieldOfViewIncrease", "FieldOfViewDecrease", "FieldOfViewReset",
	"FarIncrease", "FarDecrease", "NearIncrease", "NearDecrease",
	"SplitOn", "SplitOff",
}

func (k Key) String() string {
	if k < 0 || k >= KeyCount {
		return "Unknown"
	}
	return keyNames[k]
}

// KeyboardState is a snapshot of which logical keys are held down during a frame.
type KeyboardState [KeyCount]bool

// Pressed returns true if the key is held in the snapshot.
func (ks KeyboardState) Pressed(key Key) bool {
	return ks[key]
}

// JustPressed returns true if the key is held in the snapshot but was not held in the previous one.
func (ks KeyboardState) JustPressed(key Key, prev KeyboardState) bool {
	return ks[key] && !prev[key]
}

// KeyBindings maps logical keys to physical Ebitengine keys. Bindings are written by key name in config files
// (e.g. "W", "Space", "Digit1").
type KeyBindings struct {
	Forward ebiten.Key `toml:"forward" yaml:"forward"`
	Back    ebiten.Key `toml:"back" yaml:"back"`
	Left    ebiten.Key `toml:"left" yaml:"left"`
	Right   ebiten.Key `toml:"right" yaml:"right"`
	Down    ebiten.Key `toml:"down" yaml:"down"`
	Up      ebiten.Key `toml:"up" yaml:"up"`

	FieldOfViewIncrease ebiten.Key `toml:"fov_increase" yaml:"fov_increase"`
	FieldOfViewDecrease ebiten.Key `toml:"fov_decrease" yaml:"fov_decrease"`
	FieldOfViewReset    ebiten.Key `toml:"fov_reset" yaml:"fov_reset"`
	FarIncrease         ebiten.Key `toml:"far_increase" yaml:"far_increase"`
	FarDecrease         ebiten.Key `toml:"far_decrease" yaml:"far_decrease"`
	NearIncrease        ebiten.Key `toml:"near_increase" yaml:"near_increase"`
	NearDecrease        ebiten.Key `toml:"near_decrease" yaml:"near_decrease"`

	SplitOn  ebiten.Key `toml:"split_on" yaml:"split_on"`
	SplitOff ebiten.Key `toml:"split_off" yaml:"split_off"`
}

// DefaultKeyBindings returns the stock layout: WASD to move, X and Space to sink and rise.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Forward: ebiten.KeyW,
		Back:    ebiten.KeyS,
		Left:    ebiten.KeyA,
		Right:   ebiten.KeyD,
		Down:    ebiten.KeyX,
		Up:      ebiten.KeySpace,

		FieldOfViewIncrease: ebiten.KeyZ,
		FieldOfViewDecrease: ebiten.KeyC,
		FieldOfViewReset:    ebiten.KeyV,
		FarIncrease:         ebiten.KeyT,
		FarDecrease:         ebiten.KeyG,
		NearIncrease:        ebiten.KeyY,
		NearDecrease:        ebiten.KeyH,

		SplitOn:  ebiten.KeyDigit1,
		SplitOff: ebiten.KeyDigit2,
	}
}

// Physical returns the physical key bound to the logical key.
func (kb KeyBindings) Physical(key Key) ebiten.Key {
	return kb.table()[key]
}

func (kb KeyBindings) table() [KeyCount]ebiten.Key {
	return [KeyCount]ebiten.Key{
		kb.Forward, kb.Back, kb.Left, kb.Right, kb.Down, kb.Up,
		kb.FieldOfViewIncrease, kb.FieldOfViewDecrease, kb.FieldOfViewReset,
		kb.FarIncrease, kb.FarDecrease, kb.NearIncrease, kb.NearDecrease,
		kb.SplitOn, kb.SplitOff,
	}
}

// Poll samples every bound key with isPressed (usually ebiten.IsKeyPressed) into a KeyboardState.
func (kb KeyBindings) Poll(isPressed func(ebiten.Key) bool) KeyboardState {
	state := KeyboardState{}
	for i, physical := range kb.table() {
		state[i] = isPressed(physical)
	}
	return state
}
