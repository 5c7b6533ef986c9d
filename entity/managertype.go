package entity

// Manager依赖倒置

// entity/lane/manager.go的依赖倒置
type ILaneManager interface {
	// 获取方向对应的车道，方向非法则panic
	Get(dir Direction) ILane

	Prepare() // 准备阶段：处理车辆增删缓冲并重新排序
}
