package skyview

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD draws outlined debug text over the scene.
type HUD struct {
	Scale float64
	Color Color

	textTexture *ebiten.Image
}

// NewHUD creates a HUD with light gray text at 1x scale.
func NewHUD() *HUD {
	return &HUD{Scale: 1, Color: NewColor(0.8, 0.8, 0.8, 1)}
}

// Status describes the renderer's state as a few lines of text.
func Status(r *SceneRenderer, stats DeviceStats) string {

	if !r.LoadingComplete() {
		return "Loading..."
	}

	p := r.Projection()

	lines := []string{
		fmt.Sprintf("FPS: %.1f", ebiten.ActualFPS()),
		fmt.Sprintf("FOV: %.1f  Near: %.2f  Far: %.1f", p.FieldOfView()*180/math32.Pi, p.Near(), p.Far()),
		fmt.Sprintf("Camera: %.2f, %.2f, %.2f", r.Camera().Position().X, r.Camera().Position().Y, r.Camera().Position().Z),
		fmt.Sprintf("Split: %t  Tracking: %t", r.Controller().Split, r.IsTracking()),
		fmt.Sprintf("Triangles: %d drawn, %d culled, %d clipped", stats.Drawn, stats.Culled, stats.Clipped),
		fmt.Sprintf("Draw calls: %d (%d shader draws)", stats.DrawCalls, stats.ShaderDraws),
	}

	if !r.FloorLoaded() {
		lines = append(lines, "Floor mesh failed to load")
	}

	return strings.Join(lines, "\n")

}

// Draw renders txt with a black outline at the given position.
func (hud *HUD) Draw(screen *ebiten.Image, txt string, posX, posY float64) {

	size := text.BoundString(basicfont.Face7x13, txt).Size()
	if size.X <= 0 || size.Y <= 0 {
		return
	}

	if hud.textTexture == nil || size.X > hud.textTexture.Bounds().Dx() || size.Y+13 > hud.textTexture.Bounds().Dy() {
		if hud.textTexture != nil {
			hud.textTexture.Deallocate()
		}
		hud.textTexture = ebiten.NewImage(size.X, size.Y+13)
	}

	hud.textTexture.Clear()

	opt := &ebiten.DrawImageOptions{}
	opt.GeoM.Translate(0, 13)
	text.DrawWithOptions(hud.textTexture, txt, basicfont.Face7x13, opt)

	dr := &ebiten.DrawImageOptions{}
	dr.ColorScale.Scale(0, 0, 0, 1)

	for y := -1; y < 2; y++ {
		for x := -1; x < 2; x++ {
			dr.GeoM.Reset()
			dr.GeoM.Translate(posX+4+float64(x), posY+4+float64(y))
			dr.GeoM.Scale(hud.Scale, hud.Scale)
			screen.DrawImage(hud.textTexture, dr)
		}
	}

	dr.ColorScale.Reset()
	dr.ColorScale.ScaleWithColor(hud.Color.ToNRGBA64())

	dr.GeoM.Reset()
	dr.GeoM.Translate(posX+4, posY+4)
	dr.GeoM.Scale(hud.Scale, hud.Scale)

	screen.DrawImage(hud.textTexture, dr)

}
