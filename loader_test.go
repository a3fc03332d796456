package skyview

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestLoadSceneAssets(t *testing.T) {

	assets := testAssets()
	assets["floor.png"] = &fstest.MapFile{Data: encodePNG(t, 4, 2)}

	scene := DefaultConfig().Scene
	scene.FloorTexture = "floor.png"

	loaded, err := loadSceneAssets(context.Background(), assets, scene)
	require.NoError(t, err)

	assert.Equal(t, []byte("sky"), loaded.skyShader)
	assert.Equal(t, []byte("cube"), loaded.cubeShader)
	assert.Equal(t, []byte("floor"), loaded.floorShader)

	require.NotNil(t, loaded.floorTexture)
	assert.Equal(t, image.Rect(0, 0, 4, 2), loaded.floorTexture.Bounds())

	require.NoError(t, loaded.floorErr)
	require.NotNil(t, loaded.floorMesh)
	assert.Equal(t, 2, loaded.floorMesh.TriangleCount())

}

func TestLoadSceneAssetsTextureErrors(t *testing.T) {

	scene := DefaultConfig().Scene

	scene.FloorTexture = "missing.png"
	_, err := loadSceneAssets(context.Background(), testAssets(), scene)
	assert.ErrorContains(t, err, "reading texture")

	assets := testAssets()
	assets["floor.png"] = &fstest.MapFile{Data: []byte("not an image")}
	scene.FloorTexture = "floor.png"
	_, err = loadSceneAssets(context.Background(), assets, scene)
	assert.ErrorContains(t, err, "decoding texture")

}

func TestLoadSceneAssetsMeshErrorIsNotFatal(t *testing.T) {

	scene := DefaultConfig().Scene
	scene.FloorMesh = "floor.fbx"

	loaded, err := loadSceneAssets(context.Background(), testAssets(), scene)
	require.NoError(t, err)
	assert.Nil(t, loaded.floorMesh)
	assert.ErrorIs(t, loaded.floorErr, ErrUnsupportedMeshFormat)

}

func TestDefaultAssets(t *testing.T) {

	loaded, err := loadSceneAssets(context.Background(), DefaultAssets(), DefaultConfig().Scene)
	require.NoError(t, err)

	assert.Contains(t, string(loaded.skyShader), "Fragment")
	assert.Contains(t, string(loaded.cubeShader), "Fragment")
	assert.Contains(t, string(loaded.floorShader), "Fragment")

	require.NoError(t, loaded.floorErr)
	assert.Equal(t, 128, loaded.floorMesh.TriangleCount())

	// The ground is 20 units across, flat at Y = 0.
	dim := loaded.floorMesh.Dimensions()
	assert.InDelta(t, 20, dim.MaxSpan(), 1e-4)
	assert.InDelta(t, 0, dim.Max.Y-dim.Min.Y, 1e-6)

}

func TestCheckerTexture(t *testing.T) {
	img := checkerTexture(16, 4)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
	assert.Equal(t, img.At(0, 0), img.At(5, 5))
	assert.NotEqual(t, img.At(0, 0), img.At(4, 0))
}
