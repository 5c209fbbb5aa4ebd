// Package replay steps a scene from a YAML input script, headlessly.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScript = errors.New("invalid replay script")

const defaultDT = 1.0 / 60

// Script is a list of steps played in order.
type Script struct {
	// DT is the default tick length in seconds for steps without one.
	DT    float64 `yaml:"dt"`
	Steps []Step  `yaml:"steps"`
}

// Step holds one input for Frames ticks. Select presses the mouse at the
// center of the named polygon on the first tick of the step.
type Step struct {
	Select string  `yaml:"select"`
	Input  Input   `yaml:"input"`
	Frames int     `yaml:"frames"`
	DT     float64 `yaml:"dt"`
}

type Input struct {
	MouseX       float64 `yaml:"mouse_x"`
	MouseY       float64 `yaml:"mouse_y"`
	MousePressed bool    `yaml:"mouse_pressed"`
	Left         bool    `yaml:"left"`
	Right        bool    `yaml:"right"`
	Up           bool    `yaml:"up"`
	Down         bool    `yaml:"down"`
	SpinLeft     bool    `yaml:"spin_left"`
	SpinRight    bool    `yaml:"spin_right"`
	Reset        bool    `yaml:"reset"`
	Deselect     bool    `yaml:"deselect"`
}

// LoadScript decodes and validates a script.
func LoadScript(r io.Reader) (*Script, error) {
	var script Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&script); err != nil && err != io.EOF {
		return nil, pkgerrors.Wrap(err, "decode script")
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return &script, nil
}

func LoadScriptFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "open script %s", path)
	}
	defer f.Close()
	return LoadScript(f)
}

func (s *Script) Validate() error {
	if s.DT < 0 {
		return fmt.Errorf("%w: dt must not be negative", ErrInvalidScript)
	}
	for i, step := range s.Steps {
		if step.Frames < 0 {
			return fmt.Errorf("%w: step %d: frames must not be negative", ErrInvalidScript, i)
		}
		if step.DT < 0 {
			return fmt.Errorf("%w: step %d: dt must not be negative", ErrInvalidScript, i)
		}
	}
	return nil
}

func (s *Script) stepDT(step Step) float64 {
	switch {
	case step.DT > 0:
		return step.DT
	case s.DT > 0:
		return s.DT
	}
	return defaultDT
}

func (step Step) frames() int {
	if step.Frames == 0 {
		return 1
	}
	return step.Frames
}
