package trafficlight

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
)

// phase 相位程序中的一个相位
type phase struct {
	Duration float64                             // 持续时间
	States   [len(entity.Axes)]entity.LightPhase // 每个轴的灯色
}

func (p phase) String() string {
	return fmt.Sprintf("Phase{V=%v, H=%v, %.2fs}", p.States[entity.AxisVertical], p.States[entity.AxisHorizontal], p.Duration)
}

// arbiterRuntime 相位程序运行时数据
type arbiterRuntime struct {
	step           int     // 当前相位下标
	phaseStartedAt float64 // 当前相位开始时间
}

// arbiter 统一相位程序信号灯
// 功能：用一个覆盖两个轴的相位程序替代两个独立状态机，任意时刻至多一个轴不是红灯
type arbiter struct {
	program []phase
	runtime arbiterRuntime
}

// buildProgram 根据相位时长生成相位程序
// 功能：生成 (G,R) (Y,R) (R,R) (R,G) (R,Y) (R,R) 六相位程序
// 算法说明：
// 1. 每个轴的红灯时长 = 另一轴绿灯 + 黄灯 + 两段全红清空
// 2. 因此全红清空时长 = (red - green - yellow) / 2
// 3. 去掉时长为0的相位
func buildProgram(d Durations) []phase {
	clearance := (d.Red - d.Green - d.Yellow) / 2
	if clearance < -timeEpsilon {
		log.Panicf("arbiter needs red >= green + yellow, got %+v", d)
	}
	g, y, r := entity.LightGreen, entity.LightYellow, entity.LightRed
	program := []phase{
		{Duration: d.Green, States: [2]entity.LightPhase{g, r}},
		{Duration: d.Yellow, States: [2]entity.LightPhase{y, r}},
		{Duration: clearance, States: [2]entity.LightPhase{r, r}},
		{Duration: d.Green, States: [2]entity.LightPhase{r, g}},
		{Duration: d.Yellow, States: [2]entity.LightPhase{r, y}},
		{Duration: clearance, States: [2]entity.LightPhase{r, r}},
	}
	return lo.Filter(program, func(p phase, _ int) bool {
		return p.Duration > timeEpsilon
	})
}

// NewArbiter 创建统一相位程序信号灯
// 功能：从(VERTICAL=GREEN, HORIZONTAL=RED)开始执行相位程序
func NewArbiter(durations Durations, start float64) *arbiter {
	return &arbiter{
		program: buildProgram(durations),
		runtime: arbiterRuntime{step: 0, phaseStartedAt: start},
	}
}

// Update 更新阶段，执行相位程序
// 功能：当前相位到时后切换到下一个相位，每次调用最多切换一次
func (a *arbiter) Update(now float64) {
	cur := a.program[a.runtime.step]
	if now-a.runtime.phaseStartedAt < cur.Duration-timeEpsilon {
		return
	}
	a.runtime.step = (a.runtime.step + 1) % len(a.program)
	a.runtime.phaseStartedAt = now
	log.Debugf("arbiter: %v -> %v at %.3f", cur, a.program[a.runtime.step], now)
}

func (a *arbiter) State(axis entity.Axis) entity.LightPhase {
	return a.program[a.runtime.step].States[axis.Check()]
}

// Elapsed 轴的当前灯色已持续的时间
// 说明：同一灯色可能跨越多个相位（如红灯），向前累加这些相位的时长
func (a *arbiter) Elapsed(axis entity.Axis, now float64) float64 {
	axis.Check()
	elapsed := now - a.runtime.phaseStartedAt
	state := a.program[a.runtime.step].States[axis]
	n := len(a.program)
	for i := 1; i < n; i++ {
		p := a.program[(a.runtime.step-i+n)%n]
		if p.States[axis] != state {
			break
		}
		elapsed += p.Duration
	}
	return elapsed
}
