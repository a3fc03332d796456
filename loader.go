package skyview

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// sceneAssets is everything read from disk before device resources can be created.
type sceneAssets struct {
	skyShader   []byte
	cubeShader  []byte
	floorShader []byte

	floorTexture image.Image

	// A floor mesh that failed to load leaves floorMesh nil and the reason in floorErr.
	floorMesh *MeshData
	floorErr  error
}

type loadResult struct {
	assets *sceneAssets
	err    error
}

// loadSceneAssets reads and parses the scene's files concurrently. Only shader and texture failures are returned;
// a mesh failure is recorded on the result.
func loadSceneAssets(ctx context.Context, fsys fs.FS, scene SceneSettings) (*sceneAssets, error) {

	assets := &sceneAssets{}

	group, ctx := errgroup.WithContext(ctx)

	readShader := func(path string, out *[]byte) {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, path)
			if err != nil {
				return fmt.Errorf("reading shader: %w", err)
			}
			*out = data
			return nil
		})
	}

	readShader(SkyShaderPath, &assets.skyShader)
	readShader(CubeShaderPath, &assets.cubeShader)
	readShader(FloorShaderPath, &assets.floorShader)

	group.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := loadTexture(fsys, scene.FloorTexture)
		if err != nil {
			return err
		}
		assets.floorTexture = img
		return nil
	})

	group.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		assets.floorMesh, assets.floorErr = LoadMesh(fsys, scene.FloorMesh)
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return assets, nil

}

// loadTexture decodes an image file. An empty path produces a checkerboard.
func loadTexture(fsys fs.FS, path string) (image.Image, error) {

	if path == "" {
		return checkerTexture(256, 8), nil
	}

	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding texture %s: %w", path, err)
	}

	return img, nil

}

func checkerTexture(size, squares int) image.Image {

	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	light := color.NRGBA{200, 196, 184, 255}
	dark := color.NRGBA{96, 104, 92, 255}
	cell := size / squares

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetNRGBA(x, y, light)
			} else {
				img.SetNRGBA(x, y, dark)
			}
		}
	}

	return img

}
