// Package colors contains functions to quickly generate skyview.Color instances by name (i.e. "White()", "SkyBlue()", etc).
package colors

import "github.com/solarlune/skyview"

// White generates a skyview.Color instance of the provided name.
func White() skyview.Color {
	return skyview.NewColor(1, 1, 1, 1)
}

// Black generates a skyview.Color instance of the provided name.
func Black() skyview.Color {
	return skyview.NewColor(0, 0, 0, 1)
}

// LightGray generates a skyview.Color instance of the provided name.
func LightGray() skyview.Color {
	return skyview.NewColor(0.8, 0.8, 0.8, 1)
}

// Yellow generates a skyview.Color instance of the provided name.
func Yellow() skyview.Color {
	return skyview.NewColor(1, 1, 0, 1)
}

// SkyBlue is the default zenith color of the sky.
func SkyBlue() skyview.Color {
	return skyview.NewColor(0.2, 0.45, 0.85, 1)
}

// Haze is the default horizon color of the sky.
func Haze() skyview.Color {
	return skyview.NewColor(0.85, 0.9, 0.95, 1)
}
