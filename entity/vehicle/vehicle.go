package vehicle

import (
	"fmt"

	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/geometry"
)

// Runtime 车辆运行时数据
// 说明：该数据结构需要可以被直接复制，不应产生浅拷贝带来的副作用
type Runtime struct {
	Direction entity.Direction // 当前行驶方向
	Rect      geometry.Rect    // 包围盒
	HasTurned bool             // 是否已经完成右转
}

// Vehicle 车辆
// 功能：按前车探测、停车线、右转、移动的顺序在每一步决定自身的运动
// 说明：snapshot为上一步结束时的状态，供其他车辆读取；runtime只由自己在update中写入
type Vehicle struct {
	ctx entity.ITaskContext

	id    int32
	speed float64 // 像素/步
	color entity.Color
	turn  entity.TurnDecision

	snapshot, runtime Runtime

	lane entity.ILane        // 节点所在车道（与snapshot.Direction对应）
	node *entity.VehicleNode // 车道链表节点
}

// newVehicle 创建车辆
// 参数：ctx-任务上下文，id-车辆ID，dir-初始方向，rect-初始包围盒，speed-速度，color-颜色，turn-转向意图
// 说明：车辆在下一次prepare时才加入车道
func newVehicle(
	ctx entity.ITaskContext,
	id int32, dir entity.Direction, rect geometry.Rect,
	speed float64, color entity.Color, turn entity.TurnDecision,
) *Vehicle {
	v := &Vehicle{
		ctx:     ctx,
		id:      id,
		speed:   speed,
		color:   color,
		turn:    turn,
		runtime: Runtime{Direction: dir, Rect: rect},
	}
	v.snapshot = v.runtime
	v.node = &entity.VehicleNode{Value: v}
	return v
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle{id=%d, %v, %v, v=%.2f, %v}", v.id, v.snapshot.Direction, v.snapshot.Rect, v.V(), v.turn)
}

func (v *Vehicle) ID() int32 {
	return v.id
}

func (v *Vehicle) Direction() entity.Direction {
	return v.snapshot.Direction
}

func (v *Vehicle) Rect() geometry.Rect {
	return v.snapshot.Rect
}

func (v *Vehicle) Color() entity.Color {
	return v.color
}

func (v *Vehicle) TurnDecision() entity.TurnDecision {
	return v.turn
}

func (v *Vehicle) HasTurned() bool {
	return v.snapshot.HasTurned
}

func (v *Vehicle) V() float64 {
	return v.speed
}

// Runtime 本步更新后的状态
func (v *Vehicle) Runtime() Runtime {
	return v.runtime
}

// probeDistance 前车探测距离，速度的1.5倍取整
func (v *Vehicle) probeDistance() float64 {
	return float64(int(v.speed * 1.5))
}

// prepare 准备阶段
// 功能：更新快照；方向改变时把链表节点迁移到新车道，并更新节点键值
// 说明：只通过车道的缓冲接口增删节点，可以并行执行
func (v *Vehicle) prepare() {
	v.snapshot = v.runtime
	dir := v.snapshot.Direction
	lane := v.ctx.LaneManager().Get(dir)
	if v.lane != lane {
		if v.lane != nil {
			v.lane.RemoveVehicle(v.node)
			v.node = &entity.VehicleNode{Value: v}
		}
		v.node.S = dir.Progress(dir.LeadingEdge(v.snapshot.Rect))
		v.lane = lane
		lane.AddVehicle(v.node)
		return
	}
	v.node.S = dir.Progress(dir.LeadingEdge(v.snapshot.Rect))
}

// update 更新阶段
// 功能：依次进行前车探测、停车线判断、右转判断，最后沿（可能已改变的）方向移动
// 返回：本步是否完成了右转
// 算法说明：
// 1. 探测框为包围盒沿行驶方向平移探测距离，与本车道其他车辆相交则不能移动
// 2. 本轴信号为红或黄且车头位于停车带内则不能移动
// 3. 意图右转、尚未右转、能够移动且车头进入路口时右转：交换宽高、改变方向；
// 目标车道在转向后的位置或其前方探测范围内有车时，本步原地等待
// 4. 能移动则沿当前方向前进speed
// 说明：其他车辆只读取快照，自己只写runtime
func (v *Vehicle) update() bool {
	junction := v.ctx.Junction()
	dir, rect, hasTurned := v.snapshot.Direction, v.snapshot.Rect, v.snapshot.HasTurned
	d := v.probeDistance()

	canMove := true
	// 1. 前车
	if v.lane.Blocked(v.node, dir.Advance(rect, d)) {
		canMove = false
	}
	// 2. 停车线
	if junction.LightState(dir.Axis()).IsStop() && junction.InStopBand(dir, rect) {
		canMove = false
	}
	// 3. 右转
	turned := false
	if v.turn == entity.TurnRight && !hasTurned && canMove && junction.InFootprint(dir, rect) {
		newDir := dir.TurnRight()
		newRect := rect.Swap()
		target := v.ctx.LaneManager().Get(newDir)
		if target.Overlapping(newRect) || target.Overlapping(newDir.Advance(newRect, d)) {
			canMove = false
			log.Debugf("vehicle %d: turn to %v postponed", v.id, newDir)
		} else {
			dir, rect, hasTurned = newDir, newRect, true
			turned = true
		}
	}
	// 4. 移动
	if canMove {
		rect = dir.Advance(rect, v.speed)
	}
	v.runtime = Runtime{Direction: dir, Rect: rect, HasTurned: hasTurned}
	return turned
}

// outOfBounds 本步更新后是否完全离开扩展边界
func (v *Vehicle) outOfBounds() bool {
	return v.ctx.RuntimeConfig().Layout.OutOfBounds(v.runtime.Rect)
}

// detach 从车道中移除
func (v *Vehicle) detach() {
	if v.lane != nil {
		v.lane.RemoveVehicle(v.node)
		v.lane = nil
	}
}
