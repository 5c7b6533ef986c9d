package entity

import (
	"fmt"

	"github.com/tsinghua-fib-lab/crossroad-sim/utils/geometry"
)

// ShapeKind 可绘制图形的类别
type ShapeKind int32

const (
	ShapeRoad     ShapeKind = iota // 道路矩形
	ShapeStopLine                  // 停车线线段
	ShapeLight                     // 信号灯方块
	ShapeVehicle                   // 车辆矩形
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeRoad:
		return "ROAD"
	case ShapeStopLine:
		return "STOP_LINE"
	case ShapeLight:
		return "LIGHT"
	case ShapeVehicle:
		return "VEHICLE"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int32(k))
	}
}

// Shape 交给显示端的只读图形
// 功能：ROAD/LIGHT/VEHICLE使用Rect，STOP_LINE使用From/To/Width
type Shape struct {
	Kind  ShapeKind
	Rect  geometry.Rect
	From  geometry.Point
	To    geometry.Point
	Width float64
	Color Color

	Axis      Axis  // 仅LIGHT有效
	VehicleID int32 // 仅VEHICLE有效
}

// Snapshot 一帧的全部绘制数据
// 说明：图形顺序即绘制顺序（道路、停车线、信号灯、车辆）
type Snapshot struct {
	Frame      int64   // 帧序号，从1开始
	T          float64 // 本帧的仿真时间（秒）
	Width      float64 // 画布宽
	Height     float64 // 画布高
	Background Color
	Shapes     []Shape
}

// Vehicles 快照中的车辆图形
func (s *Snapshot) Vehicles() []Shape {
	out := make([]Shape, 0, len(s.Shapes))
	for _, sh := range s.Shapes {
		if sh.Kind == ShapeVehicle {
			out = append(out, sh)
		}
	}
	return out
}

// Light 快照中指定轴的信号灯图形
func (s *Snapshot) Light(axis Axis) (Shape, bool) {
	for _, sh := range s.Shapes {
		if sh.Kind == ShapeLight && sh.Axis == axis {
			return sh, true
		}
	}
	return Shape{}, false
}

// 显示端接口，核心只向其推送图形
type IDisplaySink interface {
	Draw(s *Snapshot) error
}
