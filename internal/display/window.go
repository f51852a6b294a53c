package display

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/scanline/internal/app"
	"github.com/taigrr/scanline/pkg/render"
)

var windowKeys = map[app.Key]ebiten.Key{
	app.KeyLeft:   ebiten.KeyArrowLeft,
	app.KeyRight:  ebiten.KeyArrowRight,
	app.KeyUp:     ebiten.KeyArrowUp,
	app.KeyDown:   ebiten.KeyArrowDown,
	app.KeyW:      ebiten.KeyW,
	app.KeyS:      ebiten.KeyS,
	app.KeyA:      ebiten.KeyA,
	app.KeyD:      ebiten.KeyD,
	app.KeyF:      ebiten.KeyF,
	app.KeyG:      ebiten.KeyG,
	app.Key1:      ebiten.KeyDigit1,
	app.Key2:      ebiten.KeyDigit2,
	app.Key3:      ebiten.KeyDigit3,
	app.Key4:      ebiten.KeyDigit4,
	app.KeySpace:  ebiten.KeySpace,
	app.KeyM:      ebiten.KeyM,
	app.KeyN:      ebiten.KeyN,
	app.KeyO:      ebiten.KeyO,
	app.KeyEscape: ebiten.KeyEscape,
}

// windowInput polls ebiten's keyboard state.
type windowInput struct{}

func (windowInput) Pressed(k app.Key) bool {
	key, ok := windowKeys[k]
	return ok && ebiten.IsKeyPressed(key)
}

func (windowInput) JustPressed(k app.Key) bool {
	key, ok := windowKeys[k]
	return ok && inpututil.IsKeyJustPressed(key)
}

// Window shows frames in a resizable desktop window.
type Window struct {
	Title string
	FPS   int
}

// Run blocks until the window closes or the app quits.
func (w *Window) Run(ctx context.Context, a *app.App) error {
	g := &windowGame{ctx: ctx, app: a, dt: frameTime(w.FPS)}
	fb := a.Renderer.Frame

	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowSize(fb.Width, fb.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(1/g.dt + 0.5))

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type windowGame struct {
	ctx context.Context
	app *app.App
	dt  float64

	fbImg *ebiten.Image
	pix   []byte
}

func (g *windowGame) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.app.Step(g.dt, windowInput{})
	if !g.app.Running() {
		return ebiten.Termination
	}
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	frame := g.app.Present()
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != frame.Width || g.fbImg.Bounds().Dy() != frame.Height {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(frame.Width, frame.Height)
		g.pix = make([]byte, len(frame.Pixels)*4)
	}
	packRGBA(g.pix, frame)
	g.fbImg.WritePixels(g.pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	fb := g.app.Renderer.Frame
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != fb.Width || outsideHeight != fb.Height) {
		g.app.Resize(outsideWidth, outsideHeight)
	}
	return fb.Width, fb.Height
}

// packRGBA copies img into dst as RGBA bytes. Alpha is forced opaque.
func packRGBA(dst []byte, img *render.Image) {
	for i, c := range img.Pixels {
		o := i * 4
		dst[o+0] = c.R
		dst[o+1] = c.G
		dst[o+2] = c.B
		dst[o+3] = 0xFF
	}
}
