package clock_test

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	clockv1 "git.fiblab.net/sim/protos/v2/go/city/clock/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/crossroad-sim/clock"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
)

func TestClockAdvance(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 0, Total: 3, Interval: 0.5})
	assert.Equal(t, 0., c.T)
	assert.False(t, c.Done())

	c.Advance()
	assert.Equal(t, int32(1), c.InternalStep)
	assert.Equal(t, 0.5, c.T)
	c.Advance()
	assert.True(t, c.IsLastStep())
	c.Advance()
	assert.Equal(t, 1.5, c.T)
	assert.True(t, c.Done())
}

func TestClockUnbounded(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 10, Interval: 1})
	assert.Equal(t, clock.Unbounded, c.END_STEP)
	assert.Equal(t, 10., c.T)
	for i := 0; i < 1000; i++ {
		c.Advance()
	}
	assert.False(t, c.Done())
	assert.False(t, c.IsLastStep())
}

func TestClockTimeIsStepTimesDT(t *testing.T) {
	c := clock.New(config.ControlStep{Interval: 1. / 60})
	for i := 0; i < 600; i++ {
		c.Advance()
	}
	assert.Equal(t, float64(600)*(1./60), c.T)
}

func TestClockString(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 3725, Interval: 1})
	assert.Equal(t, "01:02:05", c.String())
	h, m, s := c.GetHourMinuteSecond()
	assert.Equal(t, 1, h)
	assert.Equal(t, 2, m)
	assert.Equal(t, 5., s)
}

func TestClockNow(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 4, Interval: 0.25})
	res, err := c.Now(context.Background(), connect.NewRequest(&clockv1.NowRequest{}))
	require.NoError(t, err)
	assert.Equal(t, 1., res.Msg.T)
}
