package trafficlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
)

var classic = Durations{Green: 10, Yellow: 2, Red: 12}

func TestDurationsFromConfig(t *testing.T) {
	d := DurationsFromConfig(config.Default().Light)
	assert.Equal(t, classic, d)
	assert.Equal(t, 10., d.Of(entity.LightGreen))
	assert.Equal(t, 2., d.Of(entity.LightYellow))
	assert.Equal(t, 12., d.Of(entity.LightRed))
	assert.Panics(t, func() { d.Of(entity.LightPhase(7)) })
}

func TestTrafficLightCycle(t *testing.T) {
	l := NewTrafficLight(entity.AxisVertical, entity.LightGreen, classic, 0)
	assert.Equal(t, entity.LightGreen, l.State())

	seen := []entity.LightPhase{l.State()}
	for step := 1; step <= 60*2; step++ {
		if l.Update(float64(step) * 0.5) {
			seen = append(seen, l.State())
		}
	}
	// 60秒内：G(0) Y(10) R(12) G(24) Y(34) R(36) G(48) Y(58) R(60)
	assert.Equal(t, []entity.LightPhase{
		entity.LightGreen, entity.LightYellow, entity.LightRed,
		entity.LightGreen, entity.LightYellow, entity.LightRed,
		entity.LightGreen, entity.LightYellow, entity.LightRed,
	}, seen)
}

func TestTrafficLightExactDwell(t *testing.T) {
	l := NewTrafficLight(entity.AxisHorizontal, entity.LightRed, classic, 0)
	// 12/0.5 = 24步之后恰好切换
	for step := 1; step < 24; step++ {
		assert.False(t, l.Update(float64(step)*0.5), "step %d", step)
	}
	assert.True(t, l.Update(12))
	assert.Equal(t, entity.LightGreen, l.State())
	assert.Equal(t, 12., l.PhaseStartedAt())
}

func TestTrafficLightDwellWithInexactStep(t *testing.T) {
	l := NewTrafficLight(entity.AxisVertical, entity.LightYellow, classic, 0)
	dt := 1. / 60
	switched := 0
	for step := 1; step <= 120; step++ {
		if l.Update(float64(step) * dt) {
			switched = step
			break
		}
	}
	assert.Equal(t, 120, switched)
}

func TestTrafficLightOneTransitionPerUpdate(t *testing.T) {
	l := NewTrafficLight(entity.AxisVertical, entity.LightGreen, classic, 0)
	// 一次跳过很长时间也只前进一个相位
	assert.True(t, l.Update(1000))
	assert.Equal(t, entity.LightYellow, l.State())
	assert.Equal(t, 1000., l.PhaseStartedAt())
}

func TestTrafficLightInvalid(t *testing.T) {
	assert.Panics(t, func() { NewTrafficLight(entity.Axis(5), entity.LightGreen, classic, 0) })
	assert.Panics(t, func() { NewTrafficLight(entity.AxisVertical, entity.LightPhase(-1), classic, 0) })
}

func TestIndependentInitialState(t *testing.T) {
	l := NewIndependentLights(classic, 3)
	assert.Equal(t, entity.LightGreen, l.State(entity.AxisVertical))
	assert.Equal(t, entity.LightRed, l.State(entity.AxisHorizontal))
	assert.Equal(t, 2., l.Elapsed(entity.AxisVertical, 5))
	assert.Panics(t, func() { l.State(entity.Axis(9)) })
}

func TestIndependentDeterministic(t *testing.T) {
	a := NewIndependentLights(classic, 0)
	b := NewIndependentLights(classic, 0)
	for step := 1; step <= 1000; step++ {
		now := float64(step) / 60
		a.Update(now)
		b.Update(now)
		for _, axis := range entity.Axes {
			assert.Equal(t, a.State(axis), b.State(axis))
		}
	}
}

func TestBuildProgram(t *testing.T) {
	// 经典时长下全红清空为0，只剩4个相位
	assert.Len(t, buildProgram(classic), 4)
	p := buildProgram(Durations{Green: 10, Yellow: 2, Red: 14})
	assert.Len(t, p, 6)
	assert.Equal(t, 1., p[2].Duration)
	assert.Panics(t, func() { buildProgram(Durations{Green: 10, Yellow: 2, Red: 5}) })
}

func TestArbiterMatchesIndependentWithClassicTiming(t *testing.T) {
	a := NewArbiter(classic, 0)
	l := NewIndependentLights(classic, 0)
	for step := 1; step <= 6000; step++ {
		now := float64(step) / 60
		a.Update(now)
		l.Update(now)
		for _, axis := range entity.Axes {
			assert.Equal(t, l.State(axis), a.State(axis), "t=%.3f axis=%v", now, axis)
		}
	}
}

func TestArbiterNeverBothNonRed(t *testing.T) {
	a := NewArbiter(Durations{Green: 7, Yellow: 3, Red: 15}, 0)
	for step := 1; step <= 4000; step++ {
		a.Update(float64(step) * 0.1)
		v := a.State(entity.AxisVertical)
		h := a.State(entity.AxisHorizontal)
		assert.True(t, v == entity.LightRed || h == entity.LightRed, "step %d: %v %v", step, v, h)
	}
}

func TestArbiterElapsed(t *testing.T) {
	a := NewArbiter(Durations{Green: 10, Yellow: 2, Red: 14}, 0)
	for step := 1; step <= 30; step++ {
		a.Update(float64(step) * 0.5)
	}
	// t=15：V在12转红，经历了1秒全红与(R,G)相位
	assert.Equal(t, entity.LightRed, a.State(entity.AxisVertical))
	assert.Equal(t, entity.LightGreen, a.State(entity.AxisHorizontal))
	assert.InDelta(t, 3., a.Elapsed(entity.AxisVertical, 15), 1e-9)
	assert.InDelta(t, 2., a.Elapsed(entity.AxisHorizontal, 15), 1e-9)
	assert.Equal(t, 3, a.runtime.step)
	assert.Len(t, a.program, 6)
}
