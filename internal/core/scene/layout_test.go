package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/polycollide/internal/config"
)

func TestLayout(t *testing.T) {
	shapes := config.Shapes{
		Names:        []string{"Triangle", "Square", "Pentagon"},
		LayoutRadius: 200,
		Scale:        40,
		StrokeWidth:  3,
	}
	polys, err := Layout(shapes, config.Window{Width: 800, Height: 600})
	require.NoError(t, err)
	require.Len(t, polys, 3)

	for i, p := range polys {
		assert.Equal(t, shapes.Names[i], p.Name())
		assert.Len(t, p.LocalVertices(), 3+i)
		assert.Equal(t, 3.0, p.StrokeWidth())
		assert.Zero(t, p.Rotation())
	}

	assert.InDelta(t, 400, polys[0].Center().X, 1e-9)
	assert.InDelta(t, 100, polys[0].Center().Y, 1e-9)
	assert.InDelta(t, 573.21, polys[1].Center().X, 1e-9)
	assert.InDelta(t, 400, polys[1].Center().Y, 1e-9)
	assert.InDelta(t, 226.79, polys[2].Center().X, 1e-9)
	assert.InDelta(t, 400, polys[2].Center().Y, 1e-9)

	top := polys[0].LocalVertices()[0]
	assert.InDelta(t, 0, top.X, 1e-9)
	assert.InDelta(t, -40, top.Y, 1e-9)
}

func TestLayout_Defaults(t *testing.T) {
	cfg := config.Default()
	polys, err := Layout(cfg.Shapes, cfg.Window)
	require.NoError(t, err)
	assert.Len(t, polys, len(cfg.Shapes.Names))
	assert.Len(t, polys[len(polys)-1].LocalVertices(), 3+len(polys)-1)
}
