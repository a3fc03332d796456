package skyview

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// A Color represents a color, containing R, G, B, and A components, each expected to range from 0 to 1.
type Color struct {
	R, G, B, A float32
}

// NewColor returns a new Color, with the provided R, G, B, and A components expected to range from 0 to 1.
func NewColor(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// NewColorFromHexString parses "#RRGGBB" or "#RRGGBBAA" (the leading # is optional).
func NewColorFromHexString(hex string) (Color, error) {

	hex = strings.TrimPrefix(hex, "#")

	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("color %q: expected 6 or 8 hex digits", hex)
	}

	if len(hex) == 6 {
		hex += "ff"
	}

	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", hex, err)
	}

	return Color{
		R: float32(value>>24&0xff) / 255,
		G: float32(value>>16&0xff) / 255,
		B: float32(value>>8&0xff) / 255,
		A: float32(value&0xff) / 255,
	}, nil

}

// UnmarshalText lets colors be written as hex strings in config files.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := NewColorFromHexString(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText writes the color as an "#RRGGBBAA" hex string.
func (c Color) MarshalText() ([]byte, error) {
	n := c.ToNRGBA64()
	return []byte(fmt.Sprintf("#%02x%02x%02x%02x", n.R>>8, n.G>>8, n.B>>8, n.A>>8)), nil
}

// ToNRGBA64 converts the Color to a color.NRGBA64, clamping each component to 0 to 1.
func (c Color) ToNRGBA64() color.NRGBA64 {
	return color.NRGBA64{
		R: uint16(clamp(c.R, 0, 1) * 65535),
		G: uint16(clamp(c.G, 0, 1) * 65535),
		B: uint16(clamp(c.B, 0, 1) * 65535),
		A: uint16(clamp(c.A, 0, 1) * 65535),
	}
}

// RGB returns the color components without alpha, as a shader uniform value.
func (c Color) RGB() []float32 {
	return []float32{c.R, c.G, c.B}
}

// Lerp blends towards the other Color by the percent given.
func (c Color) Lerp(other Color, percent float32) Color {
	return Color{
		R: c.R + (other.R-c.R)*percent,
		G: c.G + (other.G-c.G)*percent,
		B: c.B + (other.B-c.B)*percent,
		A: c.A + (other.A-c.A)*percent,
	}
}

func clamp[V float32 | int](value, min, max V) V {
	if value < min {
		return min
	} else if value > max {
		return max
	}
	return value
}
