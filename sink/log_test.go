package sink_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/sink"
)

func TestLogSink(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()
	logrus.SetLevel(logrus.InfoLevel)

	s := sink.NewLogSink(2)
	shapes := []entity.Shape{
		{Kind: entity.ShapeRoad},
		{Kind: entity.ShapeLight, Axis: entity.AxisVertical, Color: entity.Color{G: 255}},
		{Kind: entity.ShapeLight, Axis: entity.AxisHorizontal, Color: entity.Color{R: 255}},
		{Kind: entity.ShapeVehicle, VehicleID: 1},
		{Kind: entity.ShapeVehicle, VehicleID: 2},
	}
	for frame := int64(1); frame <= 4; frame++ {
		require.NoError(t, s.Draw(&entity.Snapshot{Frame: frame, T: float64(frame) / 60, Shapes: shapes}))
	}
	assert.Equal(t, int64(4), s.Drawn())
	require.Len(t, hook.AllEntries(), 2)
	last := hook.LastEntry()
	assert.Equal(t, "sink", last.Data["module"])
	assert.Contains(t, last.Message, "frame 4")
	assert.Contains(t, last.Message, "vehicles=2")
	assert.Contains(t, last.Message, "V=#00ff00 H=#ff0000")

	assert.ErrorIs(t, s.Draw(nil), sink.ErrNilSnapshot)
}

func TestLogSinkDisabled(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	s := sink.NewLogSink(0)
	require.NoError(t, s.Draw(&entity.Snapshot{Frame: 1}))
	assert.Empty(t, hook.AllEntries())
}
