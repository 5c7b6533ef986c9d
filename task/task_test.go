package task

import (
	"context"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
)

type recordSink struct {
	snapshots []*entity.Snapshot
}

func (s *recordSink) Draw(snapshot *entity.Snapshot) error {
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

func testConfig(spawn bool, total int32) config.Config {
	c := config.Default()
	c.Control.Realtime = false
	c.Control.Step.Total = total
	c.Control.Seed = 7
	c.Spawn.Disabled = !spawn
	return c
}

func TestTickNorthVehicle(t *testing.T) {
	ctx := NewContext("test", testConfig(false, 0), nil, nil)
	ctx.VehicleManager().Insert(entity.North, 3, entity.Color{R: 255}, entity.TurnStraight)

	var last *entity.Snapshot
	for k := 1; k <= 233; k++ {
		s, ok := ctx.Tick(0, false)
		require.True(t, ok)
		last = s
	}
	vs := last.Vehicles()
	require.Len(t, vs, 1)
	assert.Equal(t, -49., vs[0].Rect.Bottom())
	assert.Equal(t, int32(1), vs[0].VehicleID)
	assert.Equal(t, int64(233), last.Frame)

	s, ok := ctx.Tick(0, false)
	require.True(t, ok)
	assert.Empty(t, s.Vehicles())
	assert.Equal(t, int64(1), ctx.Stats().Despawned)
}

func TestTickAfterStop(t *testing.T) {
	ctx := NewContext("test", testConfig(true, 0), nil, nil)
	_, ok := ctx.Tick(1./60, false)
	require.True(t, ok)
	s, ok := ctx.Tick(2./60, true)
	assert.False(t, ok)
	assert.Nil(t, s)
	// 停止是永久的
	_, ok = ctx.Tick(3./60, false)
	assert.False(t, ok)
	assert.Equal(t, int64(1), ctx.Frame())
}

func TestSnapshotLayout(t *testing.T) {
	ctx := NewContext("test", testConfig(false, 0), nil, nil)
	ctx.VehicleManager().Insert(entity.South, 2, entity.Color{}, entity.TurnStraight)
	ctx.VehicleManager().Insert(entity.West, 2, entity.Color{}, entity.TurnRight)
	s, ok := ctx.Tick(0, false)
	require.True(t, ok)
	assert.Equal(t, 800., s.Width)
	assert.Equal(t, 600., s.Height)
	assert.Equal(t, entity.Color{R: 40, G: 40, B: 40}, s.Background)
	// 绘制顺序：道路、停车线、信号灯、车辆
	order := map[entity.ShapeKind]int{}
	prev := entity.ShapeRoad
	for _, sh := range s.Shapes {
		assert.GreaterOrEqual(t, sh.Kind, prev)
		prev = sh.Kind
		order[sh.Kind]++
	}
	assert.Equal(t, 2, order[entity.ShapeRoad])
	assert.Equal(t, 4, order[entity.ShapeStopLine])
	assert.Equal(t, 2, order[entity.ShapeLight])
	vs := s.Vehicles()
	require.Len(t, vs, 2)
	assert.Less(t, vs[0].VehicleID, vs[1].VehicleID)
	light, ok := s.Light(entity.AxisVertical)
	require.True(t, ok)
	assert.Equal(t, entity.Color{G: 255}, light.Color)
}

func TestDespawnedNeverReappear(t *testing.T) {
	ctx := NewContext("test", testConfig(true, 0), nil, nil)
	gone := map[int32]bool{}
	alive := map[int32]bool{}
	for k := 1; k <= 60*90; k++ {
		s, ok := ctx.Tick(float64(k)/60, false)
		require.True(t, ok)
		now := map[int32]bool{}
		for _, v := range s.Vehicles() {
			require.False(t, gone[v.VehicleID], "vehicle %d reappeared at frame %d", v.VehicleID, k)
			now[v.VehicleID] = true
		}
		for id := range alive {
			if !now[id] {
				gone[id] = true
			}
		}
		alive = now
	}
	assert.NotEmpty(t, gone)
	stats := ctx.Stats()
	assert.Equal(t, stats.Spawned-stats.Despawned, int64(ctx.VehicleManager().Len()))
}

func TestDeterministicRun(t *testing.T) {
	run := func() []*entity.Snapshot {
		sink := &recordSink{}
		ctx := NewContext("test", testConfig(true, 1200), nil, sink)
		ctx.Run(context.Background())
		return sink.snapshots
	}
	a, b := run(), run()
	require.Len(t, a, 1200)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(1200), a[len(a)-1].Frame)
	assert.InDelta(t, 20., a[len(a)-1].T, 1e-9)
}

func TestRunStopsOnCancel(t *testing.T) {
	sink := &recordSink{}
	ctx := NewContext("test", testConfig(true, 0), nil, sink)
	runCtx, cancel := context.WithCancel(context.Background())
	cancel()
	ctx.Run(runCtx)
	assert.Empty(t, sink.snapshots)
	_, ok := ctx.Tick(1, false)
	assert.False(t, ok)
}

func TestHeartbeatReportsLightsAndSpawnTimer(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()
	logrus.SetLevel(logrus.InfoLevel)
	old := *heartBeatInterval
	*heartBeatInterval = 5
	defer func() { *heartBeatInterval = old }()

	ctx := NewContext("test", testConfig(false, 10), nil, nil)
	ctx.Run(context.Background())

	beats := lo.Filter(hook.AllEntries(), func(e *logrus.Entry, _ int) bool {
		return strings.HasPrefix(e.Message, "STEP:")
	})
	require.Len(t, beats, 2)
	assert.Contains(t, beats[0].Message, "STEP: 5(")
	assert.Contains(t, beats[0].Message, "next_spawn=1.00")
	assert.Contains(t, beats[0].Message, "light V=GREEN(0.1s) H=RED(0.1s)")
	assert.Contains(t, beats[1].Message, "STEP: 10(")
	assert.Contains(t, beats[1].Message, "light V=GREEN(0.2s) H=RED(0.2s)")
}
