//go:build !tinygo && cgo

package hal

import (
	"image"

	"tftkit/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow opens a desktop window showing the simulated panel. The left
// mouse button (or a finger on touch hosts) drives the simulated touchscreen.
// step runs once per window tick. It blocks until the window closes.
func RunWindow(h *Host, step func() error) error {
	w, ht := h.panel.NativeSize()
	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("tftkit (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(w*2, ht*2)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h        *Host
	img      *image.RGBA
	fbImg    *ebiten.Image
	touchIDs []ebiten.TouchID
	step     func() error
}

func (g *hostGame) Update() error {
	g.pollPointer()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) pollPointer() {
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	if len(g.touchIDs) > 0 {
		x, y := ebiten.TouchPosition(g.touchIDs[0])
		g.h.touch.Press(x, y)
		return
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		w, h := g.h.panel.NativeSize()
		if x >= 0 && y >= 0 && x < w && y < h {
			g.h.touch.Press(x, y)
			return
		}
	}
	g.h.touch.Release()
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	w, h := g.h.panel.NativeSize()
	if g.fbImg == nil {
		g.fbImg = ebiten.NewImage(w, h)
	}
	g.img = g.h.panel.Snapshot(g.img)
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.panel.NativeSize()
}
