package entity

import (
	"fmt"

	"github.com/tsinghua-fib-lab/crossroad-sim/utils/container"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/geometry"
)

// Axis 信号灯控制的通行轴
type Axis int32

const (
	AxisVertical   Axis = iota // 南北向
	AxisHorizontal             // 东西向
)

// Axes 全部通行轴，按初始化顺序排列
var Axes = [...]Axis{AxisVertical, AxisHorizontal}

func (a Axis) String() string {
	switch a {
	case AxisVertical:
		return "VERTICAL"
	case AxisHorizontal:
		return "HORIZONTAL"
	default:
		return fmt.Sprintf("Axis(%d)", int32(a))
	}
}

// Check 校验轴取值，非法值直接panic
func (a Axis) Check() Axis {
	if a != AxisVertical && a != AxisHorizontal {
		log.Panicf("invalid axis %d", int32(a))
	}
	return a
}

// LightPhase 信号灯相位
type LightPhase int32

const (
	LightGreen LightPhase = iota
	LightYellow
	LightRed
)

func (p LightPhase) String() string {
	switch p {
	case LightGreen:
		return "GREEN"
	case LightYellow:
		return "YELLOW"
	case LightRed:
		return "RED"
	default:
		return fmt.Sprintf("LightPhase(%d)", int32(p))
	}
}

// Next 相位的唯一后继：GREEN->YELLOW->RED->GREEN
func (p LightPhase) Next() LightPhase {
	switch p {
	case LightGreen:
		return LightYellow
	case LightYellow:
		return LightRed
	case LightRed:
		return LightGreen
	default:
		log.Panicf("invalid light phase %d", int32(p))
		return p
	}
}

// IsStop 红灯与黄灯都要求车辆在停车线前停车
func (p LightPhase) IsStop() bool {
	switch p {
	case LightGreen:
		return false
	case LightYellow, LightRed:
		return true
	default:
		log.Panicf("invalid light phase %d", int32(p))
		return true
	}
}

// TurnDecision 车辆在生成时决定的转向意图，之后不再改变
type TurnDecision int32

const (
	TurnStraight TurnDecision = iota
	TurnRight
)

func (t TurnDecision) String() string {
	switch t {
	case TurnStraight:
		return "STRAIGHT"
	case TurnRight:
		return "RIGHT"
	default:
		return fmt.Sprintf("TurnDecision(%d)", int32(t))
	}
}

// Color 8位RGB颜色
type Color struct {
	R, G, B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// 车辆链表节点，S为车头沿行驶方向的推进坐标
type VehicleNode = container.ListNode[IVehicle]

// entity/vehicle/vehicle.go的依赖倒置
type IVehicle interface {
	ID() int32                  // 车辆ID，按生成顺序递增
	Direction() Direction       // 当前（快照）行驶方向
	Rect() geometry.Rect        // 当前（快照）包围盒
	Color() Color               // 车身颜色
	TurnDecision() TurnDecision // 转向意图
	HasTurned() bool            // 是否已经完成右转

	String() string
}

// entity/lane/lane.go的依赖倒置
type ILane interface {
	Direction() Direction // 车道对应的行驶方向

	AddVehicle(node *VehicleNode)    // 添加车辆（在Prepare时生效）
	RemoveVehicle(node *VehicleNode) // 移除车辆（在Prepare时生效）

	// 以node为起点在车道内查找与探测框相交的其他车辆，复杂度与局部车辆数相关
	Blocked(node *VehicleNode, probe geometry.Rect) bool
	// 不依赖节点位置，检查任意探测框是否与车道内车辆相交
	Overlapping(probe geometry.Rect) bool

	Vehicles() []IVehicle // 按推进坐标升序的车辆列表
}

// entity/junction/junction.go的依赖倒置
type IJunction interface {
	LightState(axis Axis) LightPhase // 轴的当前相位

	// 车头是否处于停车线前的停车带内
	InStopBand(dir Direction, r geometry.Rect) bool
	// 车头是否位于路口范围内
	InFootprint(dir Direction, r geometry.Rect) bool
	// 进口道的车辆生成位置
	SpawnRect(dir Direction) geometry.Rect
}
