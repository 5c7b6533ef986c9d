package entity

import (
	"fmt"

	"github.com/tsinghua-fib-lab/crossroad-sim/utils/geometry"
)

// Direction 车辆当前行驶方向（屏幕坐标，北为y减小方向）
type Direction int32

const (
	North Direction = iota
	South
	East
	West
)

// Directions 全部方向，顺序即随机抽样时的下标
var Directions = [...]Direction{North, South, East, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "NORTH"
	case South:
		return "SOUTH"
	case East:
		return "EAST"
	case West:
		return "WEST"
	default:
		return fmt.Sprintf("Direction(%d)", int32(d))
	}
}

// Axis 方向所属的信号灯轴
func (d Direction) Axis() Axis {
	switch d {
	case North, South:
		return AxisVertical
	case East, West:
		return AxisHorizontal
	default:
		log.Panicf("invalid direction %d", int32(d))
		return 0
	}
}

// TurnRight 右转后的方向
// 映射固定为 NORTH->WEST, SOUTH->EAST, EAST->NORTH, WEST->SOUTH
func (d Direction) TurnRight() Direction {
	switch d {
	case North:
		return West
	case South:
		return East
	case East:
		return North
	case West:
		return South
	default:
		log.Panicf("invalid direction %d", int32(d))
		return d
	}
}

// Vector 行驶方向的单位向量
func (d Direction) Vector() (dx, dy float64) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	default:
		log.Panicf("invalid direction %d", int32(d))
		return 0, 0
	}
}

// Advance 沿行驶方向平移矩形
func (d Direction) Advance(r geometry.Rect, distance float64) geometry.Rect {
	dx, dy := d.Vector()
	return r.Translate(dx*distance, dy*distance)
}

// LeadingEdge 矩形在行驶方向上最前方的边的坐标
func (d Direction) LeadingEdge(r geometry.Rect) float64 {
	switch d {
	case North:
		return r.Top()
	case South:
		return r.Bottom()
	case East:
		return r.Right()
	case West:
		return r.Left()
	default:
		log.Panicf("invalid direction %d", int32(d))
		return 0
	}
}

// Progress 将屏幕坐标换算为沿行驶方向单调递增的推进坐标
// 说明：北、西向的屏幕坐标随行驶减小，因此取相反数
func (d Direction) Progress(coord float64) float64 {
	switch d {
	case South, East:
		return coord
	case North, West:
		return -coord
	default:
		log.Panicf("invalid direction %d", int32(d))
		return 0
	}
}

// Extent 矩形沿行驶方向的长度
func (d Direction) Extent(r geometry.Rect) float64 {
	if d.Axis() == AxisVertical {
		return r.H
	}
	return r.W
}
