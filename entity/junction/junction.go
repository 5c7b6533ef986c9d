package junction

import (
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/geometry"
)

// 绘制用颜色
var (
	ColorBackground = entity.Color{R: 40, G: 40, B: 40}
	ColorRoad       = entity.Color{R: 100, G: 100, B: 100}
	ColorStopLine   = entity.Color{R: 255, G: 255, B: 255}

	lightColors = map[entity.LightPhase]entity.Color{
		entity.LightGreen:  {R: 0, G: 255, B: 0},
		entity.LightYellow: {R: 255, G: 255, B: 0},
		entity.LightRed:    {R: 255, G: 0, B: 0},
	}
)

// LightColor 相位对应的绘制颜色
func LightColor(p entity.LightPhase) entity.Color {
	c, ok := lightColors[p]
	if !ok {
		log.Panicf("invalid light phase %d", int32(p))
	}
	return c
}

// Junction 十字路口
// 功能：持有路口几何与信号灯，回答车辆关于停车带、路口范围与生成位置的询问
type Junction struct {
	layout       config.LayoutConfig
	trafficLight ITrafficLight // 信号灯模块

	stopCoords   map[entity.Direction]float64 // 各进口道停车线坐标（屏幕坐标）
	entryCoords  map[entity.Direction]float64 // 各进口道驶入路口的边的坐标
	exitCoords   map[entity.Direction]float64 // 各进口道驶出路口的边的坐标
	spawnRects   map[entity.Direction]geometry.Rect
	staticShapes []entity.Shape                  // 道路与停车线
	lightRects   [len(entity.Axes)]geometry.Rect // 信号灯方块
}

// New 创建并初始化路口
// 功能：根据布局计算停车线、路口范围、生成位置与静态图形，并按配置选择信号灯模式
// 参数：rc-运行时配置，start-信号灯开始计时的时间
// 返回：初始化完成的路口
func New(rc *config.RuntimeConfig, start float64) *Junction {
	l := rc.Layout
	fp := l.Footprint()
	j := &Junction{
		layout: l,
		stopCoords: map[entity.Direction]float64{
			entity.North: l.StopLineBottom(),
			entity.South: l.StopLineTop(),
			entity.East:  l.StopLineLeft(),
			entity.West:  l.StopLineRight(),
		},
		entryCoords: map[entity.Direction]float64{
			entity.North: fp.Bottom(),
			entity.South: fp.Top(),
			entity.East:  fp.Left(),
			entity.West:  fp.Right(),
		},
		exitCoords: map[entity.Direction]float64{
			entity.North: fp.Top(),
			entity.South: fp.Bottom(),
			entity.East:  fp.Right(),
			entity.West:  fp.Left(),
		},
	}

	// 车辆位于道路中线一侧，偏移LaneOffset，生成时完全在屏幕外
	w, h := l.VehicleWidth, l.VehicleLength
	j.spawnRects = map[entity.Direction]geometry.Rect{
		entity.North: geometry.NewRect(l.CenterX+l.LaneOffset, l.ScreenHeight, w, h),
		entity.South: geometry.NewRect(l.CenterX-l.LaneOffset-w, -h, w, h),
		entity.East:  geometry.NewRect(-h, l.CenterY+l.LaneOffset, h, w),
		entity.West:  geometry.NewRect(l.ScreenWidth, l.CenterY-l.LaneOffset-w, h, w),
	}

	vr, hr := l.VerticalRoad(), l.HorizontalRoad()
	j.staticShapes = []entity.Shape{
		{Kind: entity.ShapeRoad, Rect: vr, Color: ColorRoad},
		{Kind: entity.ShapeRoad, Rect: hr, Color: ColorRoad},
	}
	for _, y := range []float64{l.StopLineTop(), l.StopLineBottom()} {
		j.staticShapes = append(j.staticShapes, entity.Shape{
			Kind:  entity.ShapeStopLine,
			From:  geometry.Point{X: vr.Left(), Y: y},
			To:    geometry.Point{X: vr.Right(), Y: y},
			Width: l.StopLineWidth,
			Color: ColorStopLine,
		})
	}
	for _, x := range []float64{l.StopLineLeft(), l.StopLineRight()} {
		j.staticShapes = append(j.staticShapes, entity.Shape{
			Kind:  entity.ShapeStopLine,
			From:  geometry.Point{X: x, Y: hr.Top()},
			To:    geometry.Point{X: x, Y: hr.Bottom()},
			Width: l.StopLineWidth,
			Color: ColorStopLine,
		})
	}
	j.lightRects[entity.AxisVertical] = geometry.NewRect(
		l.CenterX+l.HalfRoad()+l.StopLineOffset, l.StopLineTop()-l.LightGap, l.LightSize, l.LightSize,
	)
	j.lightRects[entity.AxisHorizontal] = geometry.NewRect(
		l.StopLineLeft()-l.LightGap, l.CenterY-l.HalfRoad()-l.LightGap, l.LightSize, l.LightSize,
	)

	durations := trafficlight.DurationsFromConfig(rc.All.Light)
	switch rc.All.Light.Mode {
	case config.LightModeArbiter:
		j.trafficLight = trafficlight.NewArbiter(durations, start)
	case config.LightModeIndependent:
		j.trafficLight = trafficlight.NewIndependentLights(durations, start)
	default:
		log.Panicf("unknown light mode %q", rc.All.Light.Mode)
	}
	log.Infof("junction: light mode %s, durations %+v", rc.All.Light.Mode, durations)
	return j
}

// Update 更新阶段，推进信号灯
func (j *Junction) Update(now float64) {
	j.trafficLight.Update(now)
}

func (j *Junction) LightState(axis entity.Axis) entity.LightPhase {
	return j.trafficLight.State(axis)
}

// LightElapsed 轴的当前相位已持续时间
func (j *Junction) LightElapsed(axis entity.Axis, now float64) float64 {
	return j.trafficLight.Elapsed(axis, now)
}

// InStopBand 判断车头是否处于停车线前的停车带内
// 算法说明：
// 1. 将车头与停车线换算为沿行驶方向的推进坐标
// 2. 车头位于(停车线-停车带宽度, 停车线)开区间内即为处于停车带
func (j *Junction) InStopBand(dir entity.Direction, r geometry.Rect) bool {
	lead := dir.Progress(dir.LeadingEdge(r))
	stop := dir.Progress(j.stopCoords[dir])
	return stop-j.layout.StopBand < lead && lead < stop
}

// InFootprint 判断车头是否位于路口范围内
func (j *Junction) InFootprint(dir entity.Direction, r geometry.Rect) bool {
	lead := dir.Progress(dir.LeadingEdge(r))
	return dir.Progress(j.entryCoords[dir]) < lead && lead < dir.Progress(j.exitCoords[dir])
}

// SpawnRect 进口道的车辆生成位置，方向非法则panic
func (j *Junction) SpawnRect(dir entity.Direction) geometry.Rect {
	r, ok := j.spawnRects[dir]
	if !ok {
		log.Panicf("invalid direction %d", int32(dir))
	}
	return r
}

// Background 背景色
func (j *Junction) Background() entity.Color {
	return ColorBackground
}

// Shapes 路口的全部图形，顺序为道路、停车线、信号灯
func (j *Junction) Shapes() []entity.Shape {
	shapes := make([]entity.Shape, 0, len(j.staticShapes)+len(entity.Axes))
	shapes = append(shapes, j.staticShapes...)
	for _, axis := range entity.Axes {
		shapes = append(shapes, entity.Shape{
			Kind:  entity.ShapeLight,
			Rect:  j.lightRects[axis],
			Color: LightColor(j.LightState(axis)),
			Axis:  axis,
		})
	}
	return shapes
}
