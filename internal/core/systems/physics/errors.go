package physics

import (
	"errors"
	"fmt"
)

// ErrInvalidShape is matched by every InvalidShapeError.
var ErrInvalidShape = errors.New("invalid shape")

// InvalidShapeError reports a polygon constructed with fewer than 3 vertices.
type InvalidShapeError struct {
	Name     string
	Vertices int
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("polygon %q has %d vertices, need at least 3", e.Name, e.Vertices)
}

func (e *InvalidShapeError) Is(target error) bool {
	return target == ErrInvalidShape
}
