package scene

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/zeusync/polycollide/internal/config"
	"github.com/zeusync/polycollide/internal/core/systems/physics"
	"github.com/zeusync/polycollide/pkg/sequence"
)

// Selection is the id of the selected polygon. The zero value selects nothing.
type Selection string

const NoSelection Selection = ""

func (s Selection) None() bool { return s == NoSelection }

// Input is the held state of the controls for one tick.
type Input struct {
	Mouse        physics.Vec
	MousePressed bool

	Left, Right, Up, Down bool

	SpinLeft  bool // negative angle
	SpinRight bool // positive angle

	Reset    bool
	Deselect bool
}

// Direction is the unit step requested by the arrow keys. Left wins over
// right and up over down.
func (in Input) Direction() physics.Vec {
	var d physics.Vec
	switch {
	case in.Left:
		d.X = -1
	case in.Right:
		d.X = 1
	}
	switch {
	case in.Up:
		d.Y = -1
	case in.Down:
		d.Y = 1
	}
	return d
}

// Spin is -1, 0 or 1.
func (in Input) Spin() float64 {
	switch {
	case in.SpinLeft:
		return -1
	case in.SpinRight:
		return 1
	}
	return 0
}

// ApplyInput applies one tick of input to polys and returns the new
// selection. A press selects the first polygon containing the mouse; an
// unknown selection is treated as none.
func ApplyInput(polys []*physics.Polygon, selected Selection, in Input, dt float64, controls config.Controls) Selection {
	if in.MousePressed {
		hit, ok := sequence.From(polys).Find(func(p *physics.Polygon) bool {
			return p.Contains(in.Mouse)
		})
		if ok {
			selected = Selection(hit.ID())
		}
	}

	target := find(polys, selected)
	if target == nil {
		return NoSelection
	}

	target.MoveBy(r2.Scale(controls.MoveSpeed*dt, in.Direction()))
	if spin := in.Spin(); spin != 0 {
		target.RotateBy(spin * controls.RotationSpeed * dt)
	}
	if in.Reset {
		target.ResetRotation()
	}
	if in.Deselect {
		return NoSelection
	}
	return selected
}

func find(polys []*physics.Polygon, id Selection) *physics.Polygon {
	if id.None() {
		return nil
	}
	p, _ := sequence.From(polys).Find(func(p *physics.Polygon) bool {
		return p.ID() == string(id)
	})
	return p
}
