package skyview

import (
	"embed"
	"io/fs"
)

//go:embed assets
var embeddedAssets embed.FS

// Paths of the shaders within an asset filesystem.
const (
	SkyShaderPath   = "shaders/sky.kage"
	CubeShaderPath  = "shaders/cube.kage"
	FloorShaderPath = "shaders/floor.kage"
)

// DefaultAssets returns the built-in shaders and floor mesh.
func DefaultAssets() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
