package task

import (
	"sync/atomic"

	"git.fiblab.net/sim/syncer/v3"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossroad-sim/clock"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/junction"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/lane"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/randengine"
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态（路口、车道、车辆、时钟与显示端）
// 说明：实现entity.ITaskContext，供各实体反向访问
type Context struct {

	// 任务名
	job string
	// 停止指令，置位后不再执行新的一步
	stopped atomic.Bool
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock

	// 辅助程序，处理分布式模式下与syncer的交互，为nil表示独立运行
	sidecar *syncer.Sidecar
	// sidecar close channel
	sidecarCloseCh chan struct{}

	// 运行时配置
	runtimeConfig *config.RuntimeConfig

	// 路口（含信号灯）
	junction *junction.Junction
	// Lane管理器
	laneManager *lane.LaneManager
	// Vehicle管理器
	vehicleManager *vehicle.VehicleManager

	// 显示端
	sink entity.IDisplaySink
	// 已完成的帧数
	frame int64
}

// NewContext 创建新的仿真任务上下文
// 功能：初始化仿真系统的所有组件
// 参数：
//   - job: 任务名称
//   - c: 已通过校验的配置
//   - sidecar: 外部sidecar实例，为nil则不提供RPC服务
//   - sink: 显示端
//
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 创建时钟与运行时配置
// 2. 创建路口、车道与车辆管理器，信号灯与生成定时器以起始时间开始计时
// 3. 注册时钟RPC服务并启动sidecar（如果有）
func NewContext(
	job string,
	c config.Config,
	sidecar *syncer.Sidecar,
	sink entity.IDisplaySink,
) *Context {
	ctx := &Context{
		job:            job,
		sidecar:        sidecar,
		sidecarCloseCh: make(chan struct{}),
		sink:           sink,
	}
	ctx.clock = clock.New(c.Control.Step)
	ctx.runtimeConfig = config.NewRuntimeConfig(c)

	start := ctx.clock.T
	ctx.junction = junction.New(ctx.runtimeConfig, start)
	ctx.laneManager = lane.NewManager(ctx.runtimeConfig.Layout.VehicleLength)
	ctx.vehicleManager = vehicle.NewManager(ctx, randengine.New(c.Control.Seed), c.Spawn, start)

	// sidecar协程，用于提供RPC服务
	if ctx.sidecar != nil {
		ctx.clock.Register(ctx.sidecar)
		go func() {
			err := ctx.sidecar.Serve()
			if err != nil {
				log.Panicf("failed to serve: %v", err)
			}
			ctx.sidecarCloseCh <- struct{}{}
		}()
	}
	log.Infof("job %s: %+v", job, c)
	return ctx
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Junction() entity.IJunction {
	return ctx.junction
}

func (ctx *Context) LaneManager() entity.ILaneManager {
	return ctx.laneManager
}

func (ctx *Context) VehicleManager() *vehicle.VehicleManager {
	return ctx.vehicleManager
}

// Stats 车辆统计数据
func (ctx *Context) Stats() vehicle.Stats {
	return ctx.vehicleManager.Stats()
}

// Frame 已完成的帧数
func (ctx *Context) Frame() int64 {
	return ctx.frame
}

// Stop 请求停止，下一次Tick不再执行
func (ctx *Context) Stop() {
	ctx.stopped.Store(true)
}

// Tick 执行一步仿真
// 功能：按信号灯、生成、准备、更新、移除的顺序推进世界并生成快照
// 参数：now-当前时间，stopRequested-是否请求停止
// 返回：本帧快照；已请求停止时返回false且不修改任何状态
// 算法说明：
// 1. 信号灯按now推进
// 2. 定时器到时则生成车辆
// 3. 准备阶段：车辆更新快照与车道节点，随后车道处理增删缓冲
// 4. 更新阶段：所有车辆基于快照并行决策与移动
// 5. 移除离开扩展边界的车辆
// 6. 生成快照（道路、停车线、信号灯、按ID排序的车辆）
func (ctx *Context) Tick(now float64, stopRequested bool) (*entity.Snapshot, bool) {
	if stopRequested {
		ctx.Stop()
	}
	if ctx.stopped.Load() {
		return nil, false
	}
	ctx.junction.Update(now)
	ctx.vehicleManager.Spawn(now)

	ctx.vehicleManager.Prepare()
	ctx.laneManager.Prepare()

	ctx.vehicleManager.Update()
	ctx.vehicleManager.Despawn()

	ctx.frame++
	return ctx.snapshot(now), true
}

// snapshot 生成本帧的只读快照
func (ctx *Context) snapshot(now float64) *entity.Snapshot {
	layout := ctx.runtimeConfig.Layout
	shapes := ctx.junction.Shapes()
	shapes = append(shapes, lo.Map(ctx.vehicleManager.Vehicles(), func(v *vehicle.Vehicle, _ int) entity.Shape {
		return entity.Shape{
			Kind:      entity.ShapeVehicle,
			Rect:      v.Runtime().Rect,
			Color:     v.Color(),
			VehicleID: v.ID(),
		}
	})...)
	return &entity.Snapshot{
		Frame:      ctx.frame,
		T:          now,
		Width:      layout.ScreenWidth,
		Height:     layout.ScreenHeight,
		Background: ctx.junction.Background(),
		Shapes:     shapes,
	}
}

// Close 关闭任务
// 说明：停止sidecar并等待其服务协程退出，重复调用无副作用
func (ctx *Context) Close() {
	if ctx.closed.Swap(true) {
		return
	}
	ctx.Stop()
	if ctx.sidecar != nil {
		ctx.sidecar.Close()
		// wait for graceful stop
		<-ctx.sidecarCloseCh
	}
}
