package lane

import (
	"fmt"

	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/geometry"
)

// Lane 单向车道
// 功能：同一行驶方向的全部车辆构成一个车道，车辆按车头推进坐标升序排列，用于前车探测
// 说明：链表节点的S为车头沿行驶方向的推进坐标，由车辆在准备阶段根据快照写入
type Lane struct {
	dir       entity.Direction
	maxLength float64 // 车辆沿行驶方向的最大长度，用于限定查找窗口

	vehicles *laneList[entity.IVehicle]
}

// newLane 创建车道
// 参数：dir-行驶方向，maxLength-车辆最大长度
func newLane(dir entity.Direction, maxLength float64) *Lane {
	return &Lane{
		dir:       dir,
		maxLength: maxLength,
		vehicles:  newLaneList[entity.IVehicle](fmt.Sprintf("lane %v vehicles", dir)),
	}
}

func (l *Lane) String() string {
	return fmt.Sprintf("Lane{%v, n=%d}", l.dir, l.vehicles.list.Len())
}

func (l *Lane) Direction() entity.Direction {
	return l.dir
}

// prepare 准备阶段，处理车辆增删缓冲并恢复链表有序
func (l *Lane) prepare() {
	l.vehicles.prepare()
}

func (l *Lane) AddVehicle(node *entity.VehicleNode) {
	l.vehicles.add(node)
}

func (l *Lane) RemoveVehicle(node *entity.VehicleNode) {
	l.vehicles.remove(node)
}

// window 探测框沿行驶方向可能与车辆相交的车头推进坐标开区间
// 算法说明：
// 1. 车辆与探测框沿行驶方向相交，需要 车尾 < 探测框前沿 且 车头 > 探测框后沿
// 2. 车尾 >= 车头 - maxLength，因此车头 < 探测框前沿 + maxLength
func (l *Lane) window(probe geometry.Rect) (lo, hi float64) {
	lead := l.dir.Progress(l.dir.LeadingEdge(probe))
	return lead - l.dir.Extent(probe), lead + l.maxLength
}

// Blocked 检查探测框是否与本车道内除node外的车辆相交
// 功能：从node出发向前、向后遍历，只访问推进坐标落在查找窗口内的车辆
// 参数：node-发起探测的车辆节点（必须属于本车道），probe-探测框
// 返回：是否存在相交的车辆
func (l *Lane) Blocked(node *entity.VehicleNode, probe geometry.Rect) bool {
	if node.Parent() != l.vehicles.list {
		log.Panicf("blocked query with node %v not in %v", node, l)
	}
	lo, hi := l.window(probe)
	for n := node.Next(); n != nil && n.S < hi; n = n.Next() {
		if n.Value.Rect().Overlaps(probe) {
			return true
		}
	}
	for n := node.Prev(); n != nil && n.S > lo; n = n.Prev() {
		if n.Value.Rect().Overlaps(probe) {
			return true
		}
	}
	return false
}

// Overlapping 检查任意探测框是否与本车道内的车辆相交
func (l *Lane) Overlapping(probe geometry.Rect) bool {
	lo, hi := l.window(probe)
	for n := l.vehicles.list.Seek(lo); n != nil && n.S < hi; n = n.Next() {
		if n.Value.Rect().Overlaps(probe) {
			return true
		}
	}
	return false
}

// Vehicles 按推进坐标升序的车辆列表
func (l *Lane) Vehicles() []entity.IVehicle {
	return l.vehicles.list.Values()
}
