package replay

import (
	"fmt"

	"github.com/zeusync/polycollide/internal/core/scene"
	"github.com/zeusync/polycollide/internal/core/systems/physics"
	"github.com/zeusync/polycollide/pkg/sequence"
)

// Change is a tick after which the set of colliding pairs differed from the
// previous tick.
type Change struct {
	Frame  int64
	Report []string
}

// Play runs script against sc and returns every collision-set change.
func Play(sc *scene.Scene, script *Script) ([]Change, error) {
	var changes []Change
	last := physics.Fingerprint(nil)

	for i, step := range script.Steps {
		in := step.Input.toScene()
		if step.Select != "" {
			target := findByName(sc.Polygons(), step.Select)
			if target == nil {
				return changes, fmt.Errorf("%w: step %d: unknown polygon %q", ErrInvalidScript, i, step.Select)
			}
			in.Mouse = target.Center()
			in.MousePressed = true
		}

		dt := script.stepDT(step)
		for n := 0; n < step.frames(); n++ {
			frame := sc.Step(in, dt)
			if frame.Fingerprint != last {
				changes = append(changes, Change{Frame: frame.Seq, Report: frame.Report})
				last = frame.Fingerprint
			}
			// the press only lands on the first tick of a step
			if step.Select != "" {
				in.MousePressed = step.Input.MousePressed
			}
		}
	}
	return changes, nil
}

func (in Input) toScene() scene.Input {
	return scene.Input{
		Mouse:        physics.V(in.MouseX, in.MouseY),
		MousePressed: in.MousePressed,
		Left:         in.Left,
		Right:        in.Right,
		Up:           in.Up,
		Down:         in.Down,
		SpinLeft:     in.SpinLeft,
		SpinRight:    in.SpinRight,
		Reset:        in.Reset,
		Deselect:     in.Deselect,
	}
}

func findByName(polys []*physics.Polygon, name string) *physics.Polygon {
	p, _ := sequence.From(polys).Find(func(p *physics.Polygon) bool {
		return p.Name() == name
	})
	return p
}
