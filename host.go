package confetti

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/confetti/config"
)

// fadeSeconds is how long Space takes to fade the confetti out.
const fadeSeconds = 0.6

// Renderer draws scene quads onto an ebiten image. It uploads each
// ConfettiType's sprite once and reuses the texture every frame.
type Renderer struct {
	textures map[*ConfettiType]*ebiten.Image
	verts    []ebiten.Vertex
	inds     []uint32
}

// NewRenderer creates an empty renderer.
func NewRenderer() *Renderer {
	return &Renderer{textures: make(map[*ConfettiType]*ebiten.Image)}
}

// Reset releases every cached texture.
func (r *Renderer) Reset() {
	for ct, img := range r.textures {
		img.Deallocate()
		delete(r.textures, ct)
	}
}

func (r *Renderer) texture(ct *ConfettiType) *ebiten.Image {
	img, ok := r.textures[ct]
	if !ok {
		img = ebiten.NewImageFromImage(ct.Image())
		r.textures[ct] = img
	}
	return img
}

// Draw submits quads in order. Consecutive quads of the same type share one
// DrawTriangles32 call.
func (r *Renderer) Draw(target *ebiten.Image, quads []Quad) {
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha

	for start := 0; start < len(quads); {
		ct := quads[start].Type
		end := runEnd(quads, start)

		b := ct.Image().Bounds()
		w, h := float64(b.Dx()), float64(b.Dy())
		r.verts, r.inds = r.verts[:0], r.inds[:0]
		for i := start; i < end; i++ {
			r.verts, r.inds = appendQuad(r.verts, r.inds, &quads[i], w, h)
		}
		target.DrawTriangles32(r.verts, r.inds, r.texture(ct), &op)

		start = end
	}
}

// runEnd returns the index just past the run of quads sharing the type of
// quads[start].
func runEnd(quads []Quad, start int) int {
	ct := quads[start].Type
	end := start + 1
	for end < len(quads) && quads[end].Type == ct {
		end++
	}
	return end
}

// appendQuad appends the two triangles of q for a w×h sprite.
func appendQuad(verts []ebiten.Vertex, inds []uint32, q *Quad, w, h float64) ([]ebiten.Vertex, []uint32) {
	sin, cos := math.Sincos(q.Rotation)
	hw, hh := w/2*q.ScaleX, h/2*q.ScaleY

	// Corners in source order: top-left, top-right, bottom-left, bottom-right.
	lx := [4]float64{-hw, hw, -hw, hw}
	ly := [4]float64{-hh, -hh, hh, hh}
	sx := [4]float32{0, float32(w), 0, float32(w)}
	sy := [4]float32{0, 0, float32(h), float32(h)}

	// White tint scaled by alpha, premultiplied.
	a := float32(q.Alpha)

	base := uint32(len(verts))
	for j := 0; j < 4; j++ {
		verts = append(verts, ebiten.Vertex{
			DstX:   float32(q.X + lx[j]*cos - ly[j]*sin),
			DstY:   float32(q.Y + lx[j]*sin + ly[j]*cos),
			SrcX:   sx[j],
			SrcY:   sy[j],
			ColorR: a,
			ColorG: a,
			ColorB: a,
			ColorA: a,
		})
	}
	inds = append(inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
	return verts, inds
}

// Game hosts a Scene in an ebiten window. Space fades the confetti out and
// starts a new burst, R restarts immediately, Tab switches between the
// simple and advanced scenes.
type Game struct {
	cfg      *config.Config
	simple   bool
	debug    bool
	scene    *Scene
	renderer *Renderer
	quads    []Quad
}

// NewGame builds the selected scene and returns a Game ready for
// ebiten.RunGame.
func NewGame(cfg *config.Config, simple bool) (*Game, error) {
	g := &Game{cfg: cfg, simple: simple, renderer: NewRenderer()}
	if err := g.rebuild(); err != nil {
		return nil, err
	}
	return g, nil
}

// Scene returns the scene currently shown.
func (g *Game) Scene() *Scene {
	return g.scene
}

// SetDebugMode enables per-second particle stats on stderr for this and
// every rebuilt scene.
func (g *Game) SetDebugMode(enabled bool) {
	g.debug = enabled
	g.scene.SetDebugMode(enabled)
}

func (g *Game) rebuild() error {
	s, err := BuildFromConfig(g.cfg, g.simple)
	if err != nil {
		return err
	}
	if g.scene != nil {
		g.scene.Stop()
	}
	g.renderer.Reset()
	s.SetDebugMode(g.debug)
	s.Activate()
	g.scene = s
	return nil
}

// command is a key action handled by Game.step.
type command uint8

const (
	cmdNone command = iota
	cmdToggle
	cmdRestart
	cmdFade
)

// Update implements ebiten.Game.
func (g *Game) Update() error {
	cmd := cmdNone
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		cmd = cmdToggle
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		cmd = cmdRestart
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		cmd = cmdFade
	}
	return g.step(cmd, 1.0/float64(ebiten.TPS()))
}

// step applies cmd, advances the scene by dt and starts a new scene once the
// current one has stopped.
func (g *Game) step(cmd command, dt float64) error {
	switch cmd {
	case cmdToggle:
		g.simple = !g.simple
		if err := g.rebuild(); err != nil {
			g.simple = !g.simple
			return err
		}
	case cmdRestart:
		if err := g.rebuild(); err != nil {
			return err
		}
	case cmdFade:
		g.scene.FadeOut(fadeSeconds)
	}

	g.scene.Tick(dt)
	if g.scene.State() == StateStopped {
		return g.rebuild()
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.White)
	g.quads = g.scene.Quads(g.quads)
	g.renderer.Draw(screen, g.quads)

	if g.cfg.Window.ShowFPS {
		variant := "advanced"
		if g.simple {
			variant = "simple"
		}
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\n%s: %d particles",
			ebiten.ActualFPS(), ebiten.ActualTPS(), variant, len(g.quads)))
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

// Run opens a window and shows the selected scene until it is closed.
func Run(cfg *config.Config, simple bool) error {
	g, err := NewGame(cfg, simple)
	if err != nil {
		return err
	}
	return g.Run()
}

// Run opens a window sized from the game's config and blocks until it is
// closed.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.cfg.Window.Width, g.cfg.Window.Height)
	ebiten.SetWindowTitle(g.cfg.Window.Title)
	return ebiten.RunGame(g)
}
