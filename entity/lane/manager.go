package lane

import (
	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
)

// LaneManager Lane管理器
// 功能：为每个行驶方向维护一条车道
type LaneManager struct {
	lanes []*Lane // 下标为entity.Direction
}

// NewManager 创建Lane管理器实例
// 参数：maxLength-车辆沿行驶方向的最大长度
func NewManager(maxLength float64) *LaneManager {
	return &LaneManager{
		lanes: lo.Map(entity.Directions[:], func(dir entity.Direction, _ int) *Lane {
			return newLane(dir, maxLength)
		}),
	}
}

// Get 根据方向获取车道，方向非法则panic
func (m *LaneManager) Get(dir entity.Direction) entity.ILane {
	if dir < 0 || int(dir) >= len(m.lanes) {
		log.Panicf("no lane for direction %d", int32(dir))
		return nil
	}
	return m.lanes[dir]
}

// Prepare 准备阶段，处理所有Lane的增删缓冲
// 说明：各车道互不依赖，并行处理
func (m *LaneManager) Prepare() {
	parallel.GoFor(m.lanes, func(l *Lane) { l.prepare() })
}
