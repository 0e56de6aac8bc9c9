// pkg/engine/step.go
package engine

import (
	"fmt"
	"math"

	"github.com/opd-ai/go-ballpit/pkg/event"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// energyTolerance is the relative kinetic energy change up to which a summed
// response to simultaneous contacts counts as elastic.
const energyTolerance = 1e-9

// Update advances the world by dt, which may be negative to run time
// backward. Every contact inside the interval is resolved in time order;
// contacts within the tie tolerance of each other are resolved together from
// the same pre-collision velocities. Update returns an error wrapping
// ErrSubStepLimit if the interval could not be finished within the sub-step
// cap; the bodies are then left at the point the stepper reached.
func (w *World) Update(dt float64) error {
	if dt == 0 {
		return nil
	}

	w.applyGravity(dt)
	invertTime := dt < 0
	frame := dt

	steps := 0
	for dt != 0 {
		w.findCandidates(dt, invertTime)
		if len(w.candidates) == 0 {
			break
		}
		if steps == w.maxSubSteps {
			return w.reportStepLimit(steps, frame, dt)
		}
		steps++

		t := w.selectEarliest()
		w.advance(t)
		w.resolveSelected(invertTime)
		dt -= t

		w.publishSelected(frame - dt)
	}

	w.advance(dt)
	w.recordFrame(steps, frame)
	return nil
}

// applyGravity changes every velocity by the uniform acceleration over the
// whole frame.
func (w *World) applyGravity(dt float64) {
	if w.gravity == (physics.Vector2D{}) {
		return
	}
	dv := w.gravity.Scale(dt)
	for i := range w.bodies {
		w.bodies[i].Velocity = w.bodies[i].Velocity.Add(dv)
	}
}

// findCandidates collects every contact that happens within |dt| in the
// current time direction.
func (w *World) findCandidates(dt float64, invertTime bool) {
	w.candidates = w.candidates[:0]
	limit := math.Abs(dt)

	for i := range w.bodies {
		for j := i + 1; j < len(w.bodies); j++ {
			if t, ok := w.ballCollisionTime(i, j, invertTime); ok && math.Abs(t) <= limit {
				w.candidates = append(w.candidates, Collision{Kind: event.BallCollision, Time: t, A: i, B: j})
			}
		}
		for k := range w.walls {
			if t, ok := w.wallCollisionTime(i, k, invertTime); ok && math.Abs(t) <= limit {
				w.candidates = append(w.candidates, Collision{Kind: event.WallCollision, Time: t, A: i, B: k})
			}
		}
	}
}

// ballCollisionTime returns the contact time of bodies i and j. Pairs that
// are separating never collide; pairs that already touch and are closing
// collide immediately.
func (w *World) ballCollisionTime(i, j int, invertTime bool) (float64, bool) {
	a, b := w.bodies[i], w.bodies[j]
	if !physics.Approaching(a, b, invertTime) {
		return 0, false
	}
	if a.Circle().Touches(b.Circle()) {
		return 0, true
	}
	return physics.CollisionTime(a, b, invertTime)
}

// wallCollisionTime is ballCollisionTime for body i against wall k.
func (w *World) wallCollisionTime(i, k int, invertTime bool) (float64, bool) {
	b, wall := w.bodies[i], w.walls[k]
	if !b.ApproachingPlane(wall, invertTime) {
		return 0, false
	}
	if wall.SignedDistance(b.Position) <= b.Radius {
		return 0, true
	}
	return b.PlaneCollisionTime(wall, invertTime)
}

// selectEarliest moves the candidates within the tie tolerance of the
// earliest one into w.selected and returns the earliest time.
func (w *World) selectEarliest() float64 {
	earliest := w.candidates[0].Time
	for _, c := range w.candidates[1:] {
		if math.Abs(c.Time) < math.Abs(earliest) {
			earliest = c.Time
		}
	}

	w.selected = w.selected[:0]
	for _, c := range w.candidates {
		if math.Abs(c.Time)-math.Abs(earliest) <= w.tieTolerance {
			w.selected = append(w.selected, c)
		}
	}
	return earliest
}

// advance moves every body in a straight line for t.
func (w *World) advance(t float64) {
	if t == 0 {
		return
	}
	for i := range w.bodies {
		w.bodies[i].Advance(t)
	}
}

// resolveSelected applies the response of every selected collision. All
// responses are first computed from the velocities as they were before any
// of them and summed per body. Summing is only elastic when the contacts do
// not push on each other; otherwise the summed response is dropped and the
// contacts are resolved one at a time. Either way contacts are then resolved
// again at the same instant while any of them is still closing.
func (w *World) resolveSelected(invertTime bool) {
	for i := range w.deltas {
		w.deltas[i] = physics.Vector2D{}
	}

	for _, c := range w.selected {
		switch c.Kind {
		case event.BallCollision:
			a, b := w.bodies[c.A], w.bodies[c.B]
			va, vb := physics.ResolveCollision(a, b)
			w.deltas[c.A] = w.deltas[c.A].Add(va.Sub(a.Velocity))
			w.deltas[c.B] = w.deltas[c.B].Add(vb.Sub(b.Velocity))
		case event.WallCollision:
			reflected := w.bodies[c.A]
			reflected.ResolvePlaneCollision(w.walls[c.B])
			w.deltas[c.A] = w.deltas[c.A].Add(reflected.Velocity.Sub(w.bodies[c.A].Velocity))
		}
	}

	if w.summedResponseIsElastic() {
		for i, dv := range w.deltas {
			w.bodies[i].Velocity = w.bodies[i].Velocity.Add(dv)
		}
	}
	w.settleSelected(invertTime)
}

// summedResponseIsElastic reports whether applying w.deltas keeps the
// kinetic energy of the bodies they touch.
func (w *World) summedResponseIsElastic() bool {
	var before, after float64
	for i, dv := range w.deltas {
		if dv == (physics.Vector2D{}) {
			continue
		}
		b := w.bodies[i]
		before += b.KineticEnergy()
		b.Velocity = b.Velocity.Add(dv)
		after += b.KineticEnergy()
	}
	return math.Abs(after-before) <= energyTolerance*math.Max(before, 1)
}

// settleSelected resolves selected contacts one at a time, reading both
// bodies before writing either, until none of them is closing in the current
// time direction. A contact left closing after the pass limit is found again
// at time zero by the next sub-step.
func (w *World) settleSelected(invertTime bool) {
	limit := 2*len(w.selected) + 2
	for pass := 0; pass < limit; pass++ {
		settled := true
		for _, c := range w.selected {
			switch c.Kind {
			case event.BallCollision:
				a, b := w.bodies[c.A], w.bodies[c.B]
				if !physics.Approaching(a, b, invertTime) {
					continue
				}
				w.bodies[c.A].Velocity, w.bodies[c.B].Velocity = physics.ResolveCollision(a, b)
			case event.WallCollision:
				if !w.bodies[c.A].ApproachingPlane(w.walls[c.B], invertTime) {
					continue
				}
				w.bodies[c.A].ResolvePlaneCollision(w.walls[c.B])
			}
			settled = false
		}
		if settled {
			return
		}
	}
}

// publishSelected counts the resolved collisions and announces them with
// their offset from the start of the frame.
func (w *World) publishSelected(offset float64) {
	for _, c := range w.selected {
		if c.Kind == event.BallCollision {
			w.stats.BallCollisions++
		} else {
			w.stats.WallCollisions++
		}
		if w.EventBus.HasSubscribers(c.Kind) {
			w.EventBus.Publish(event.NewCollisionEvent(c.Kind, w, c.A, c.B, offset))
		}
	}
}

func (w *World) recordFrame(steps int, elapsed float64) {
	w.stats.Frames++
	w.stats.SimulatedTime += elapsed
	w.stats.SubSteps += uint64(steps)
	w.stats.LastSubSteps = steps
}

// reportStepLimit logs and publishes an unfinished frame and returns the
// error for Update.
func (w *World) reportStepLimit(steps int, frame, remaining float64) error {
	w.recordFrame(steps, frame-remaining)
	err := fmt.Errorf("%d sub-steps with %v of the frame left: %w", steps, remaining, ErrSubStepLimit)

	w.logger.Error(w.ctx, "Simulation step did not finish", err,
		"sub_steps", steps,
		"remaining", remaining,
		"bodies", len(w.bodies),
	)
	w.EventBus.Publish(event.NewStepLimitEvent(w, steps, remaining))
	return err
}
