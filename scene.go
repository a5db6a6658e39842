package confetti

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"slices"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phanxgames/confetti/config"
)

// ErrSceneBuild wraps every failure returned by Build and BuildFromConfig.
var ErrSceneBuild = errors.New("confetti: scene build failed")

// State is the lifecycle stage of a Scene.
type State uint8

const (
	StateUnbuilt State = iota // zero value; not usable
	StateBuilt                // constructed, not yet attached to a display
	StateActive               // ticking
	StateStopped              // terminal; all particles released
)

func (s State) String() string {
	switch s {
	case StateUnbuilt:
		return "unbuilt"
	case StateBuilt:
		return "built"
	case StateActive:
		return "active"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// EmissionShape is the volume particles are born in.
type EmissionShape uint8

const (
	EmitRectangle EmissionShape = iota // Region-sized rectangle centered on Origin, z = 0
	EmitSphere                         // ball of radius min(Region)/2 around Origin
)

// Size is a width and height in view units.
type Size struct {
	W, H float64
}

// Quad is one textured, positioned, rotated sprite for the host compositor.
// X, Y, Z locate the sprite center; ScaleY may be negative for planes seen
// from behind.
type Quad struct {
	Type           *ConfettiType
	X, Y, Z        float64
	Rotation       float64
	ScaleX, ScaleY float64
	Alpha          float64
}

// Scene owns the confetti types, one EmissionSource per type, and the force
// behaviors applied every step. All methods must be called from one
// goroutine.
type Scene struct {
	Origin        r3.Vec
	Region        Size
	EmissionShape EmissionShape

	simple    bool
	types     []*ConfettiType
	sources   []*EmissionSource
	behaviors []ForceBehavior

	state   State
	elapsed float64
	rng     *rand.Rand

	alpha  float64
	fade   *gween.Tween
	fading bool

	debug       bool
	nextStatsAt float64
}

// Build creates the simple (falling) or advanced (tumbling, wave-driven)
// confetti scene from the embedded defaults.
func Build(simple bool) (*Scene, error) {
	return BuildFromConfig(config.Default(), simple)
}

// BuildFromConfig creates a scene from cfg's simple or advanced preset. On
// failure no scene is returned and the error wraps ErrSceneBuild.
func BuildFromConfig(cfg *config.Config, simple bool) (*Scene, error) {
	if err := cfg.Validate(simple); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSceneBuild, err)
	}

	palette := make([]RGB, len(cfg.Palette))
	for i, c := range cfg.Palette {
		palette[i] = RGB{R: c[0], G: c[1], B: c[2]}
	}
	sprites := SpriteFactory{
		RectWidth:      cfg.Sprites.RectWidth,
		RectHeight:     cfg.Sprites.RectHeight,
		CircleDiameter: cfg.Sprites.CircleDiameter,
	}
	types, err := sprites.NewConfettiTypes(palette)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSceneBuild, err)
	}

	sc := cfg.Scene(simple)
	s := &Scene{
		Origin: vec3(sc.Origin),
		Region: Size{W: sc.Region[0], H: sc.Region[1]},
		simple: simple,
		types:  types,
		state:  StateBuilt,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		alpha:  1,
	}
	if sc.Shape == config.ShapeSphere {
		s.EmissionShape = EmitSphere
	}

	s.behaviors, err = newBehaviors(sc.Behaviors, s.Origin)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSceneBuild, err)
	}

	params := newSourceParams(sc.Source)
	s.sources = make([]*EmissionSource, len(types))
	for i, ct := range types {
		s.sources[i] = newEmissionSource(ct, params)
	}
	return s, nil
}

// State returns the scene's lifecycle stage.
func (s *Scene) State() State {
	return s.state
}

// Simple reports whether the scene was built from the simple preset.
func (s *Scene) Simple() bool {
	return s.simple
}

// Types returns the confetti types in build order. The returned slice MUST
// NOT be mutated.
func (s *Scene) Types() []*ConfettiType {
	return s.types
}

// Sources returns one emission source per type, in Types order. The returned
// slice MUST NOT be mutated.
func (s *Scene) Sources() []*EmissionSource {
	return s.sources
}

// Behaviors returns the force behaviors in application order.
func (s *Scene) Behaviors() []ForceBehavior {
	return slices.Clone(s.behaviors)
}

// Elapsed returns the simulated seconds since activation.
func (s *Scene) Elapsed() float64 {
	return s.elapsed
}

// Alpha returns the scene opacity; 1 unless fading out.
func (s *Scene) Alpha() float64 {
	return s.alpha
}

// AliveCount returns the number of live particles across all sources.
func (s *Scene) AliveCount() int {
	n := 0
	for _, src := range s.sources {
		n += src.AliveCount()
	}
	return n
}

// SpawnedCount returns the number of particles spawned across all sources.
func (s *Scene) SpawnedCount() int {
	n := 0
	for _, src := range s.sources {
		n += src.spawned
	}
	return n
}

// SetRand replaces the random source used for spawning, for reproducible
// runs. A nil r is ignored.
func (s *Scene) SetRand(r *rand.Rand) {
	if r == nil {
		return
	}
	s.rng = r
}

// SetDebugMode enables or disables debug mode. When enabled, particle counts
// are logged to stderr once per simulated second.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// Activate marks the scene as attached to a display. Scene time starts at
// activation. It has no effect unless the scene is StateBuilt.
func (s *Scene) Activate() {
	if s.state != StateBuilt {
		return
	}
	s.state = StateActive
	s.elapsed = 0
}

// Stop moves the scene to StateStopped and releases every particle. Safe to
// call repeatedly.
func (s *Scene) Stop() {
	if s.state == StateStopped {
		return
	}
	s.state = StateStopped
	for _, src := range s.sources {
		src.particles = nil
		src.spawnAccum = 0
	}
	s.fade = nil
	s.fading = false
}

// FadeOut stops spawning and eases the scene alpha to zero over the given
// duration, then stops the scene.
func (s *Scene) FadeOut(seconds float32) {
	if s.state == StateStopped || s.state == StateUnbuilt || s.fading {
		return
	}
	if seconds <= 0 {
		s.Stop()
		return
	}
	s.fading = true
	s.fade = gween.New(float32(s.alpha), 0, seconds, ease.OutQuad)
}

// Fading reports whether a FadeOut is in progress.
func (s *Scene) Fading() bool {
	return s.fading
}

// Tick advances the simulation by dt seconds. A built scene is activated by
// its first tick. Non-positive or non-finite dt and ticks on a stopped scene
// do nothing. However large dt is, a source keeps at most
// ceil(BirthRate*Lifetime)+1 particles.
func (s *Scene) Tick(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return
	}
	switch s.state {
	case StateBuilt:
		s.Activate()
	case StateActive:
	default:
		return
	}

	t := s.elapsed
	for _, src := range s.sources {
		src.update(dt, t, s.behaviors)
		if !s.fading {
			src.emit(dt, t, s)
		}
	}
	s.elapsed += dt

	if s.fade != nil {
		v, done := s.fade.Update(float32(dt))
		s.alpha = float64(v)
		if done {
			s.alpha = 0
			s.Stop()
			return
		}
	}

	if s.debug && s.elapsed >= s.nextStatsAt {
		s.nextStatsAt = s.elapsed + 1
		s.debugLog()
	}
}

// debugLog prints particle counts to stderr.
func (s *Scene) debugLog() {
	_, _ = fmt.Fprintf(os.Stderr,
		"[confetti] t: %.2fs | state: %s | alive: %d | spawned: %d | sources: %d | behaviors: %d\n",
		s.elapsed, s.state, s.AliveCount(), s.SpawnedCount(), len(s.sources), len(s.behaviors))
}

// Quads appends one Quad per live particle to dst[:0] and returns it.
// Background types come first, then foreground; within each layer quads are
// ordered back to front by Z.
func (s *Scene) Quads(dst []Quad) []Quad {
	dst = dst[:0]
	if s.state != StateActive {
		return dst
	}
	for _, layer := range [...]Position{PositionBackground, PositionForeground} {
		start := len(dst)
		for _, src := range s.sources {
			if src.Type.Position != layer {
				continue
			}
			for i := range src.particles {
				dst = append(dst, src.quad(&src.particles[i], s.alpha))
			}
		}
		slices.SortStableFunc(dst[start:], func(a, b Quad) int {
			switch {
			case a.Z < b.Z:
				return -1
			case a.Z > b.Z:
				return 1
			}
			return 0
		})
	}
	return dst
}

// samplePoint returns a random offset from Origin inside the emission shape.
func (s *Scene) samplePoint() r3.Vec {
	switch s.EmissionShape {
	case EmitSphere:
		r := min(s.Region.W, s.Region.H) / 2
		if r <= 0 {
			return r3.Vec{}
		}
		// Rejection sampling from the bounding cube keeps the ball uniform.
		for {
			v := r3.Vec{
				X: 2*s.rng.Float64() - 1,
				Y: 2*s.rng.Float64() - 1,
				Z: 2*s.rng.Float64() - 1,
			}
			if r3.Norm2(v) <= 1 {
				return r3.Scale(r, v)
			}
		}
	default:
		return r3.Vec{
			X: (s.rng.Float64() - 0.5) * s.Region.W,
			Y: (s.rng.Float64() - 0.5) * s.Region.H,
		}
	}
}
