package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/geometry"
)

func TestDefaultIsValid(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, config.LightModeIndependent, c.Light.Mode)
	assert.Equal(t, 10., c.Light.Green)
	assert.Equal(t, 2., c.Light.Yellow)
	assert.Equal(t, 12., c.Light.Red)
	assert.Equal(t, 1., c.Spawn.FirstInterval)
}

func TestLoadOverridesDefaults(t *testing.T) {
	c, err := config.Load([]byte(`
control:
  step:
    total: 100
    interval: 0.5
  realtime: false
  seed: 42
light:
  mode: arbiter
`))
	require.NoError(t, err)
	assert.Equal(t, int32(100), c.Control.Step.Total)
	assert.Equal(t, 0.5, c.Control.Step.Interval)
	assert.False(t, c.Control.Realtime)
	assert.Equal(t, uint64(42), c.Control.Seed)
	assert.Equal(t, config.LightModeArbiter, c.Light.Mode)
	// 未出现的字段保持默认
	assert.Equal(t, 10., c.Light.Green)
	assert.Equal(t, 3., c.Spawn.MaxInterval)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	_, err := config.Load([]byte("light:\n  blink: true\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(c *config.Config)
		want   error
	}{
		{"zero interval", func(c *config.Config) { c.Control.Step.Interval = 0 }, config.ErrInvalidStep},
		{"negative total", func(c *config.Config) { c.Control.Step.Total = -1 }, config.ErrInvalidStep},
		{"unknown mode", func(c *config.Config) { c.Light.Mode = "blinking" }, config.ErrInvalidLightTiming},
		{"zero yellow", func(c *config.Config) { c.Light.Yellow = 0 }, config.ErrInvalidLightTiming},
		{"arbiter short red", func(c *config.Config) {
			c.Light.Mode = config.LightModeArbiter
			c.Light.Red = 5
		}, config.ErrInvalidLightTiming},
		{"max below min", func(c *config.Config) { c.Spawn.MaxInterval = 0.5 }, config.ErrInvalidSpawn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := config.Default()
			tc.modify(&c)
			assert.ErrorIs(t, c.Validate(), tc.want)
		})
	}
}

func TestLayoutGeometry(t *testing.T) {
	l := config.DefaultLayout()
	assert.Equal(t, 240., l.StopLineTop())
	assert.Equal(t, 360., l.StopLineBottom())
	assert.Equal(t, 340., l.StopLineLeft())
	assert.Equal(t, 460., l.StopLineRight())
	assert.Equal(t, geometry.NewRect(350, 250, 100, 100), l.Footprint())
	assert.Equal(t, geometry.NewRect(350, 0, 100, 600), l.VerticalRoad())
	assert.Equal(t, geometry.NewRect(0, 250, 800, 100), l.HorizontalRoad())
}

func TestOutOfBounds(t *testing.T) {
	l := config.DefaultLayout()
	assert.False(t, l.OutOfBounds(geometry.NewRect(405, 600, 30, 50)))
	assert.False(t, l.OutOfBounds(geometry.NewRect(405, -99, 30, 50)))  // bottom=-49
	assert.True(t, l.OutOfBounds(geometry.NewRect(405, -100, 30, 50)))  // bottom=-50
	assert.True(t, l.OutOfBounds(geometry.NewRect(405, 650, 30, 50)))   // top=650
	assert.True(t, l.OutOfBounds(geometry.NewRect(-100, 305, 50, 30)))  // right=-50
	assert.True(t, l.OutOfBounds(geometry.NewRect(850, 265, 50, 30)))   // left=850
	assert.False(t, l.OutOfBounds(geometry.NewRect(849, 265, 50, 30)))
}

func TestNewRuntimeConfig(t *testing.T) {
	c := config.Default()
	rc := config.NewRuntimeConfig(c)
	assert.Equal(t, c, rc.All)
	assert.Equal(t, c.Control, rc.C)
	assert.Equal(t, config.DefaultLayout(), rc.Layout)
}
