package vehicle

import (
	"sync"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/randengine"
)

// 生成车辆的属性范围
const (
	minSpeed   = 2.  // 最小速度（像素/步）
	maxSpeed   = 4.  // 最大速度（像素/步）
	minColor   = 100 // 颜色通道最小值
	maxColor   = 255 // 颜色通道最大值
	pTurnRight = .5  // 右转概率

	spawnEpsilon   = 1e-9
	firstVehicleID = 1
)

// Stats 车辆统计数据
type Stats struct {
	Spawned   int64 // 已生成
	Despawned int64 // 已移除
	Turned    int64 // 已完成右转
	Deferred  int64 // 因生成位置被占用而推迟的次数
}

// spawnRequest 已抽样、等待生成的车辆属性
type spawnRequest struct {
	Direction entity.Direction
	Speed     float64
	Color     entity.Color
	Turn      entity.TurnDecision
}

// VehicleManager Vehicle管理器
// 功能：管理全部车辆，负责按定时器生成、并行更新与越界移除
// 说明：车辆列表按生成顺序（即ID升序）保存
type VehicleManager struct {
	ctx       entity.ITaskContext
	generator *randengine.Engine
	spawn     config.Spawn

	vehicles  []*Vehicle
	nextID    int32
	inserted  []*Vehicle // 新加入、尚未进入车道的车辆
	insertMtx sync.Mutex

	lastSpawnAt   float64       // 上一次生成（或计时开始）的时间
	spawnInterval float64       // 当前生成间隔
	pending       *spawnRequest // 到时但因位置被占用而推迟的生成

	stats      Stats
	runtimeMtx sync.Mutex
}

// NewManager 创建Vehicle管理器实例
// 参数：ctx-任务上下文，generator-随机数引擎，spawn-生成配置，start-生成定时器开始计时的时间
func NewManager(ctx entity.ITaskContext, generator *randengine.Engine, spawn config.Spawn, start float64) *VehicleManager {
	return &VehicleManager{
		ctx:           ctx,
		generator:     generator,
		spawn:         spawn,
		vehicles:      make([]*Vehicle, 0),
		nextID:        firstVehicleID,
		inserted:      make([]*Vehicle, 0),
		lastSpawnAt:   start,
		spawnInterval: spawn.FirstInterval,
	}
}

// draw 抽样一辆待生成车辆的属性
// 说明：抽样顺序固定为方向、速度、颜色、转向，保证同一种子得到同一序列
func (m *VehicleManager) draw() *spawnRequest {
	weights := lo.Map(entity.Directions[:], func(entity.Direction, int) float64 { return 1 })
	dir := entity.Directions[m.generator.DiscreteDistribution(weights)]
	speed := m.generator.Uniform(minSpeed, maxSpeed)
	color := entity.Color{
		R: uint8(m.generator.IntRange(minColor, maxColor)),
		G: uint8(m.generator.IntRange(minColor, maxColor)),
		B: uint8(m.generator.IntRange(minColor, maxColor)),
	}
	turn := entity.TurnStraight
	if m.generator.PTrue(pTurnRight) {
		turn = entity.TurnRight
	}
	return &spawnRequest{Direction: dir, Speed: speed, Color: color, Turn: turn}
}

// Spawn 生成阶段
// 功能：定时器到时后生成一辆车，并重新抽样下一次的生成间隔
// 参数：now-当前时间
// 返回：新生成的车辆，未生成则为nil
// 算法说明：
// 1. 距上次生成未超过当前间隔，不生成
// 2. 抽样车辆属性（若有推迟中的生成则沿用）
// 3. 生成位置与同方向车辆相交则推迟到下一步重试，定时器保持到时状态
// 4. 否则插入车辆，以now重新开始计时，间隔在[MinInterval, MaxInterval)内抽样
func (m *VehicleManager) Spawn(now float64) *Vehicle {
	if m.spawn.Disabled {
		return nil
	}
	if now-m.lastSpawnAt <= m.spawnInterval+spawnEpsilon {
		return nil
	}
	if m.pending == nil {
		m.pending = m.draw()
	}
	req := m.pending
	rect := m.ctx.Junction().SpawnRect(req.Direction)
	occupied := lo.SomeBy(m.vehicles, func(v *Vehicle) bool {
		return v.runtime.Direction == req.Direction && v.runtime.Rect.Overlaps(rect)
	})
	if occupied {
		m.stats.Deferred++
		log.Debugf("spawn %v deferred at %.3f: entry occupied", req.Direction, now)
		return nil
	}
	m.pending = nil
	m.lastSpawnAt = now
	m.spawnInterval = m.generator.Uniform(m.spawn.MinInterval, m.spawn.MaxInterval)
	return m.Insert(req.Direction, req.Speed, req.Color, req.Turn)
}

// Insert 在方向对应的生成位置插入一辆车
// 功能：分配ID并加入车辆列表，车辆在下一次Prepare时进入车道
func (m *VehicleManager) Insert(dir entity.Direction, speed float64, color entity.Color, turn entity.TurnDecision) *Vehicle {
	rect := m.ctx.Junction().SpawnRect(dir)
	m.insertMtx.Lock()
	defer m.insertMtx.Unlock()
	v := newVehicle(m.ctx, m.nextID, dir, rect, speed, color, turn)
	m.nextID++
	m.inserted = append(m.inserted, v)
	m.stats.Spawned++
	log.Debugf("spawn %v", v)
	return v
}

// Prepare 准备阶段：新车加入列表，更新快照与车道节点
func (m *VehicleManager) Prepare() {
	m.insertMtx.Lock()
	m.vehicles = append(m.vehicles, m.inserted...)
	m.inserted = m.inserted[:0]
	m.insertMtx.Unlock()

	parallel.GoFor(m.vehicles, func(v *Vehicle) { v.prepare() })
}

// Update 更新阶段：所有车辆并行决策与移动
func (m *VehicleManager) Update() {
	parallel.GoFor(m.vehicles, func(v *Vehicle) {
		if v.update() {
			m.recordTurn()
		}
	})
}

// recordTurn 记录一次右转
func (m *VehicleManager) recordTurn() {
	m.runtimeMtx.Lock()
	defer m.runtimeMtx.Unlock()
	m.stats.Turned++
}

// Despawn 移除阶段：移除完全离开扩展边界的车辆
// 返回：被移除的车辆
func (m *VehicleManager) Despawn() []*Vehicle {
	kept, removed := lo.FilterReject(m.vehicles, func(v *Vehicle, _ int) bool {
		return !v.outOfBounds()
	})
	for _, v := range removed {
		v.detach()
		log.Debugf("despawn %v", v)
	}
	m.vehicles = kept
	m.stats.Despawned += int64(len(removed))
	return removed
}

// Vehicles 当前车辆，按生成顺序（即ID升序）
func (m *VehicleManager) Vehicles() []*Vehicle {
	out := make([]*Vehicle, len(m.vehicles))
	copy(out, m.vehicles)
	return out
}

// Len 当前车辆数
func (m *VehicleManager) Len() int {
	return len(m.vehicles)
}

// Stats 统计数据
func (m *VehicleManager) Stats() Stats {
	return m.stats
}

// NextSpawnAt 下一次生成的最早时间
func (m *VehicleManager) NextSpawnAt() float64 {
	return m.lastSpawnAt + m.spawnInterval
}
