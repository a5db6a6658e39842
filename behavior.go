package confetti

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phanxgames/confetti/config"
)

// attractorEpsilon keeps attractor strength finite at its own position.
const attractorEpsilon = 1.0

// ParticleState is the kinematic state a ForceBehavior reads.
type ParticleState struct {
	Position r3.Vec
	Velocity r3.Vec
	Age      float64
}

// ForceBehavior perturbs particle motion each simulation step. Apply returns
// an acceleration for a particle in state p at scene time t (seconds since
// activation).
type ForceBehavior interface {
	Apply(p ParticleState, t float64) r3.Vec
}

// Wave is a directional force that oscillates over time and acts on every
// particle equally.
type Wave struct {
	Force     r3.Vec
	Frequency float64 // Hz
}

// Apply returns Force * sin(2π·Frequency·t).
func (w Wave) Apply(_ ParticleState, t float64) r3.Vec {
	return r3.Scale(math.Sin(2*math.Pi*w.Frequency*t), w.Force)
}

// Attractor pulls particles toward Position (Falloff < 0) or pushes them
// away (Falloff > 0). Strength is Stiffness/distance inside Radius and zero
// beyond it. Only the sign of Falloff is used.
//
// Radius must be positive; config validation enforces it.
type Attractor struct {
	Falloff   float64
	Radius    float64
	Stiffness float64
	Position  r3.Vec
}

// Apply returns the attractor acceleration for p.
func (a Attractor) Apply(p ParticleState, _ float64) r3.Vec {
	if a.Falloff == 0 {
		return r3.Vec{}
	}
	delta := r3.Sub(a.Position, p.Position)
	d := r3.Norm(delta)
	if d > a.Radius || d == 0 {
		return r3.Vec{}
	}

	mag := a.Stiffness / math.Max(d, attractorEpsilon)
	if a.Falloff > 0 {
		mag = -mag
	}
	return r3.Scale(mag/d, delta)
}

// newBehaviors converts configured behaviors into ForceBehaviors, placing
// attractors relative to origin.
func newBehaviors(cfgs []config.BehaviorConfig, origin r3.Vec) ([]ForceBehavior, error) {
	out := make([]ForceBehavior, 0, len(cfgs))
	for i, bc := range cfgs {
		switch bc.Type {
		case config.BehaviorWave:
			out = append(out, Wave{Force: vec3(bc.Force), Frequency: bc.Frequency})
		case config.BehaviorAttractor:
			out = append(out, Attractor{
				Falloff:   bc.Falloff,
				Radius:    bc.Radius,
				Stiffness: bc.Stiffness,
				Position:  r3.Add(origin, vec3(bc.Offset)),
			})
		default:
			return nil, fmt.Errorf("behavior %d: unknown type %q", i, bc.Type)
		}
	}
	return out, nil
}

func vec3(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
