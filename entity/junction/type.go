package junction

import "github.com/tsinghua-fib-lab/crossroad-sim/entity"

// 依赖倒置，表达junction对信号灯实现的接口需求

// 信号灯接口
// 独立模式与统一相位程序模式都实现该接口
type ITrafficLight interface {
	Update(now float64)                            // 更新阶段，按当前时间推进相位
	State(axis entity.Axis) entity.LightPhase      // 轴的当前相位
	Elapsed(axis entity.Axis, now float64) float64 // 轴的当前相位已持续时间
}
