package confetti

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phanxgames/confetti/config"
)

// ParticleKind selects how particles are oriented when drawn.
type ParticleKind uint8

const (
	KindSprite ParticleKind = iota // flat sprite spinning in the view plane
	KindPlane                      // plane with a 3-D orientation that tumbles as it spins
)

// SourceParams are the kinematic parameters of an EmissionSource. Angles are
// radians, times seconds.
type SourceParams struct {
	StartDelay        float64
	BirthRate         float64 // particles per second
	Lifetime          float64
	Spin              float64 // radians per second
	SpinRange         float64
	EmissionLongitude float64 // direction of emission in the view plane
	EmissionRange     float64 // full width of the emission cone
	VelocityRange     float64 // initial speed is uniform in [0, VelocityRange]
	YAcceleration     float64

	Kind                 ParticleKind
	OrientationRange     float64
	OrientationLongitude float64
	OrientationLatitude  float64
}

func newSourceParams(c config.SourceConfig) SourceParams {
	p := SourceParams{
		StartDelay:           c.StartDelay,
		BirthRate:            c.BirthRate,
		Lifetime:             c.Lifetime,
		Spin:                 c.Spin,
		SpinRange:            c.SpinRange,
		EmissionLongitude:    c.EmissionLongitude,
		EmissionRange:        c.EmissionRange,
		VelocityRange:        c.VelocityRange,
		YAcceleration:        c.YAcceleration,
		OrientationRange:     c.OrientationRange,
		OrientationLongitude: c.OrientationLongitude,
		OrientationLatitude:  c.OrientationLatitude,
	}
	if c.Kind == config.KindPlane {
		p.Kind = KindPlane
	}
	return p
}

// particle holds per-particle simulation state. Managed by EmissionSource.
type particle struct {
	pos, vel r3.Vec
	age      float64
	angle    float64 // accumulated spin
	spin     float64
	lat, lon float64 // plane orientation, KindPlane only
}

// EmissionSource spawns particles of one ConfettiType and owns them until
// they expire.
type EmissionSource struct {
	Type   *ConfettiType
	params SourceParams

	particles  []particle
	spawnAccum float64 // fractional spawn carried between ticks
	spawned    int
}

func newEmissionSource(ct *ConfettiType, p SourceParams) *EmissionSource {
	// Steady state holds about BirthRate*Lifetime particles.
	n := int(math.Ceil(p.BirthRate*p.Lifetime)) + 1
	return &EmissionSource{
		Type:      ct,
		params:    p,
		particles: make([]particle, 0, n),
	}
}

// Params returns the source's kinematic parameters.
func (src *EmissionSource) Params() SourceParams {
	return src.params
}

// AliveCount returns the number of live particles.
func (src *EmissionSource) AliveCount() int {
	return len(src.particles)
}

// SpawnedCount returns the number of particles spawned since the scene was
// built.
func (src *EmissionSource) SpawnedCount() int {
	return src.spawned
}

// update ages and integrates existing particles by dt seconds. t is the
// scene time at the start of the step.
func (src *EmissionSource) update(dt, t float64, behaviors []ForceBehavior) {
	gravity := r3.Vec{Y: src.params.YAcceleration}

	// Swap-remove expired particles; order within a source is not significant.
	i := 0
	for i < len(src.particles) {
		p := &src.particles[i]
		p.age += dt
		if p.age > src.params.Lifetime {
			last := len(src.particles) - 1
			src.particles[i] = src.particles[last]
			src.particles = src.particles[:last]
			continue
		}

		acc := gravity
		for _, b := range behaviors {
			acc = r3.Add(acc, b.Apply(ParticleState{Position: p.pos, Velocity: p.vel, Age: p.age}, t))
		}

		p.pos = r3.Add(p.pos, r3.Scale(dt, p.vel))
		p.vel = r3.Add(p.vel, r3.Scale(dt, acc))
		p.angle += p.spin * dt

		i++
	}
}

// emit spawns particles for the part of [t, t+dt] after StartDelay. At most
// Lifetime seconds of the window count; earlier births would already be dead.
func (src *EmissionSource) emit(dt, t float64, s *Scene) {
	active := t + dt - math.Max(t, src.params.StartDelay)
	if active <= 0 {
		return
	}
	active = min(active, src.params.Lifetime)
	src.spawnAccum += src.params.BirthRate * active
	for src.spawnAccum >= 1.0 {
		src.spawnAccum -= 1.0
		src.spawn(s)
	}
}

// spawn appends one particle at a random point of the scene's emission shape.
func (src *EmissionSource) spawn(s *Scene) {
	prm := &src.params
	rng := s.rng

	angle := prm.EmissionLongitude + centered(0, prm.EmissionRange).random(rng)
	speed := Range{0, prm.VelocityRange}.random(rng)

	p := particle{
		pos:  r3.Add(s.Origin, s.samplePoint()),
		vel:  r3.Vec{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed},
		spin: centered(prm.Spin, prm.SpinRange).random(rng),
	}
	if prm.Kind == KindPlane {
		p.lat = centered(prm.OrientationLatitude, prm.OrientationRange).random(rng)
		p.lon = centered(prm.OrientationLongitude, prm.OrientationRange).random(rng)
	}

	src.particles = append(src.particles, p)
	src.spawned++
}

// quad returns the draw instruction for p.
func (src *EmissionSource) quad(p *particle, alpha float64) Quad {
	q := Quad{
		Type:   src.Type,
		X:      p.pos.X,
		Y:      p.pos.Y,
		Z:      p.pos.Z,
		ScaleX: 1,
		ScaleY: 1,
		Alpha:  alpha,
	}
	switch src.params.Kind {
	case KindPlane:
		// The plane tilts about an in-view axis at lon; spin advances the
		// tilt, so the projected height shrinks and flips as it tumbles.
		q.Rotation = p.lon
		q.ScaleY = math.Cos(p.lat + p.angle)
	default:
		q.Rotation = p.angle
	}
	return q
}

// random returns a random float64 in [Min, Max].
func (r Range) random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}
