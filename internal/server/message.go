package server

import (
	"encoding/json"
	"fmt"

	"github.com/zeusync/polycollide/internal/core/scene"
	"github.com/zeusync/polycollide/internal/core/systems/physics"
)

// InputMessage is the held control state sent by a renderer.
type InputMessage struct {
	MouseX       float64 `json:"mouse_x"`
	MouseY       float64 `json:"mouse_y"`
	MousePressed bool    `json:"mouse_pressed"`

	Left  bool `json:"left"`
	Right bool `json:"right"`
	Up    bool `json:"up"`
	Down  bool `json:"down"`

	SpinLeft  bool `json:"spin_left"`
	SpinRight bool `json:"spin_right"`

	Reset    bool `json:"reset"`
	Deselect bool `json:"deselect"`
}

func (m InputMessage) Input() scene.Input {
	return scene.Input{
		Mouse:        physics.V(m.MouseX, m.MouseY),
		MousePressed: m.MousePressed,
		Left:         m.Left,
		Right:        m.Right,
		Up:           m.Up,
		Down:         m.Down,
		SpinLeft:     m.SpinLeft,
		SpinRight:    m.SpinRight,
		Reset:        m.Reset,
		Deselect:     m.Deselect,
	}
}

// decodeInput parses one InputMessage. Errors wrap ErrInvalidMessage.
func decodeInput(data []byte) (scene.Input, error) {
	var msg InputMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return scene.Input{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return msg.Input(), nil
}
