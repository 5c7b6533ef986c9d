// 屏幕坐标系下的平面几何工具（x向右，y向下）
package geometry

import "fmt"

// Point 平面点
type Point struct {
	X float64
	Y float64
}

// Rect 轴对齐矩形
// 功能：表示车辆包围盒、道路、信号灯等可绘制区域
// 说明：(X,Y)为左上角，W/H为宽高，坐标均为像素
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// NewRect 创建矩形
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center 矩形中心点
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Translate 平移矩形
// 功能：返回平移(dx,dy)后的矩形副本，原矩形不变
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Swap 交换宽高
// 功能：保持左上角不动，交换矩形的宽和高（车辆转向后行驶轴改变）
func (r Rect) Swap() Rect {
	r.W, r.H = r.H, r.W
	return r
}

// Overlaps 判断两个矩形是否相交
// 功能：判断两个矩形内部是否有重叠
// 说明：仅边界接触不算相交
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X &&
		r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Contains 判断点是否位于矩形内部（含左上边界）
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect{x=%.2f, y=%.2f, w=%.2f, h=%.2f}", r.X, r.Y, r.W, r.H)
}
