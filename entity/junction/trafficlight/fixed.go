// 提供固定时长的定时信号灯控制
// 独立模式：每个轴一个状态机，按GREEN->YELLOW->RED循环
// 统一模式：单一相位程序同时决定两个轴的相位（见arbiter.go）
package trafficlight

import (
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
)

// 计时比较的容差，避免步长换算误差导致相位推迟一步切换
const timeEpsilon = 1e-9

// Durations 各相位持续时间（秒）
type Durations struct {
	Green  float64
	Yellow float64
	Red    float64
}

// DurationsFromConfig 由信号灯配置得到相位时长
func DurationsFromConfig(c config.Light) Durations {
	return Durations{Green: c.Green, Yellow: c.Yellow, Red: c.Red}
}

// Of 获取相位对应的持续时间，非法相位直接panic
func (d Durations) Of(p entity.LightPhase) float64 {
	switch p {
	case entity.LightGreen:
		return d.Green
	case entity.LightYellow:
		return d.Yellow
	case entity.LightRed:
		return d.Red
	default:
		log.Panicf("invalid light phase %d", int32(p))
		return 0
	}
}

// TrafficLight 单轴定时信号灯
// 功能：维护一个轴的当前相位与相位开始时间，到时后切换到唯一后继相位
type TrafficLight struct {
	axis           entity.Axis       // 控制的轴
	durations      Durations         // 相位时长
	phase          entity.LightPhase // 当前相位
	phaseStartedAt float64           // 当前相位开始时间
}

// NewTrafficLight 创建单轴信号灯
// 参数：axis-控制的轴，initial-初始相位，durations-相位时长，start-初始相位的开始时间
func NewTrafficLight(axis entity.Axis, initial entity.LightPhase, durations Durations, start float64) *TrafficLight {
	axis.Check()
	durations.Of(initial)
	return &TrafficLight{
		axis:           axis,
		durations:      durations,
		phase:          initial,
		phaseStartedAt: start,
	}
}

// Update 更新阶段，按时间推进相位
// 功能：当前相位持续时间达到配置时长时切换到下一相位，并以now作为新相位的开始时间
// 参数：now-当前时间
// 返回：本次是否发生了切换
// 说明：每次调用最多切换一次
func (l *TrafficLight) Update(now float64) bool {
	elapsed := now - l.phaseStartedAt
	if elapsed < l.durations.Of(l.phase)-timeEpsilon {
		return false
	}
	from := l.phase
	l.phase = l.phase.Next()
	l.phaseStartedAt = now
	log.Debugf("light %v: %v -> %v at %.3f", l.axis, from, l.phase, now)
	return true
}

// State 当前相位
func (l *TrafficLight) State() entity.LightPhase {
	return l.phase
}

func (l *TrafficLight) Axis() entity.Axis {
	return l.axis
}

func (l *TrafficLight) PhaseStartedAt() float64 {
	return l.phaseStartedAt
}

// independentLights 两个互不依赖的单轴信号灯
// 说明：两轴以互补的初始相位从同一时刻开始计时，互斥只是时长设置的结果，并不由结构保证
type independentLights struct {
	lights [len(entity.Axes)]*TrafficLight
}

// NewIndependentLights 创建独立模式的信号灯
// 功能：VERTICAL从GREEN开始，HORIZONTAL从RED开始，二者共享开始时间
func NewIndependentLights(durations Durations, start float64) *independentLights {
	return &independentLights{
		lights: [len(entity.Axes)]*TrafficLight{
			entity.AxisVertical:   NewTrafficLight(entity.AxisVertical, entity.LightGreen, durations, start),
			entity.AxisHorizontal: NewTrafficLight(entity.AxisHorizontal, entity.LightRed, durations, start),
		},
	}
}

// Update 依次更新两个轴
func (l *independentLights) Update(now float64) {
	for _, light := range l.lights {
		light.Update(now)
	}
}

func (l *independentLights) State(axis entity.Axis) entity.LightPhase {
	return l.lights[axis.Check()].State()
}

// Elapsed 轴的当前相位已持续的时间
func (l *independentLights) Elapsed(axis entity.Axis, now float64) float64 {
	return now - l.lights[axis.Check()].PhaseStartedAt()
}
