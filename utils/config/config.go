package config

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/geometry"
	"gopkg.in/yaml.v2"
)

var (
	ErrInvalidStep        = errors.New("invalid control step")
	ErrInvalidLightTiming = errors.New("invalid light timing")
	ErrInvalidSpawn       = errors.New("invalid spawn interval")
)

// LayoutConfig 路口几何布局
// 功能：屏幕尺寸、道路宽度、路口中心与停车线等固定几何量，构造一次后只读传递给各组件
type LayoutConfig struct {
	ScreenWidth    float64 // 屏幕宽
	ScreenHeight   float64 // 屏幕高
	RoadWidth      float64 // 道路宽度（路口为边长RoadWidth的正方形）
	CenterX        float64 // 路口中心x
	CenterY        float64 // 路口中心y
	StopLineOffset float64 // 停车线距道路边缘的距离
	StopBand       float64 // 停车线前停车带宽度
	StopLineWidth  float64 // 停车线绘制宽度
	LaneOffset     float64 // 车辆距道路中线的横向偏移
	DespawnMargin  float64 // 屏幕外保留边距，超出即移除
	VehicleWidth   float64 // 车宽
	VehicleLength  float64 // 车长
	LightSize      float64 // 信号灯方块边长
	LightGap       float64 // 信号灯与停车线的距离
}

// DefaultLayout 800x600屏幕、100像素道路的十字路口
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		ScreenWidth:    800,
		ScreenHeight:   600,
		RoadWidth:      100,
		CenterX:        400,
		CenterY:        300,
		StopLineOffset: 10,
		StopBand:       20,
		StopLineWidth:  3,
		LaneOffset:     5,
		DespawnMargin:  50,
		VehicleWidth:   30,
		VehicleLength:  50,
		LightSize:      20,
		LightGap:       30,
	}
}

func (l LayoutConfig) HalfRoad() float64 { return l.RoadWidth / 2 }

// 四条停车线的坐标
func (l LayoutConfig) StopLineTop() float64    { return l.CenterY - l.HalfRoad() - l.StopLineOffset }
func (l LayoutConfig) StopLineBottom() float64 { return l.CenterY + l.HalfRoad() + l.StopLineOffset }
func (l LayoutConfig) StopLineLeft() float64   { return l.CenterX - l.HalfRoad() - l.StopLineOffset }
func (l LayoutConfig) StopLineRight() float64  { return l.CenterX + l.HalfRoad() + l.StopLineOffset }

// Footprint 路口区域
func (l LayoutConfig) Footprint() geometry.Rect {
	return geometry.NewRect(l.CenterX-l.HalfRoad(), l.CenterY-l.HalfRoad(), l.RoadWidth, l.RoadWidth)
}

// VerticalRoad 南北向道路
func (l LayoutConfig) VerticalRoad() geometry.Rect {
	return geometry.NewRect(l.CenterX-l.HalfRoad(), 0, l.RoadWidth, l.ScreenHeight)
}

// HorizontalRoad 东西向道路
func (l LayoutConfig) HorizontalRoad() geometry.Rect {
	return geometry.NewRect(0, l.CenterY-l.HalfRoad(), l.ScreenWidth, l.RoadWidth)
}

// OutOfBounds 判断矩形是否完全位于扩展边距之外
func (l LayoutConfig) OutOfBounds(r geometry.Rect) bool {
	m := l.DespawnMargin
	return r.Bottom() <= -m || r.Top() >= l.ScreenHeight+m ||
		r.Right() <= -m || r.Left() >= l.ScreenWidth+m
}

// RuntimeConfig 运行时配置
// 功能：存储校验后的配置与由此派生的几何布局
type RuntimeConfig struct {
	All    Config       // 全部配置
	C      Control      // 全局控制配置
	Layout LayoutConfig // 路口几何
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，布局使用固定的路口拓扑
// 参数：config-已通过Validate的配置
// 返回：初始化的运行时配置指针
func NewRuntimeConfig(config Config) *RuntimeConfig {
	return &RuntimeConfig{
		All:    config,
		C:      config.Control,
		Layout: DefaultLayout(),
	}
}

// Validate 校验配置
// 功能：检查时间步长、信号灯时长与生成间隔是否合法
// 返回：第一个不合法项对应的错误（包装了哨兵错误）
func (c Config) Validate() error {
	if c.Control.Step.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %v", ErrInvalidStep, c.Control.Step.Interval)
	}
	if c.Control.Step.Start < 0 || c.Control.Step.Total < 0 {
		return fmt.Errorf("%w: start and total must not be negative", ErrInvalidStep)
	}
	if !lo.Contains([]string{LightModeIndependent, LightModeArbiter}, c.Light.Mode) {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidLightTiming, c.Light.Mode)
	}
	if lo.SomeBy([]float64{c.Light.Green, c.Light.Yellow, c.Light.Red}, func(d float64) bool { return d <= 0 }) {
		return fmt.Errorf("%w: durations must be positive, got %+v", ErrInvalidLightTiming, c.Light)
	}
	if c.Light.Mode == LightModeArbiter && c.Light.Red < c.Light.Green+c.Light.Yellow {
		return fmt.Errorf("%w: arbiter needs red >= green + yellow, got %+v", ErrInvalidLightTiming, c.Light)
	}
	if c.Spawn.FirstInterval < 0 || c.Spawn.MinInterval <= 0 || c.Spawn.MaxInterval < c.Spawn.MinInterval {
		return fmt.Errorf("%w: %+v", ErrInvalidSpawn, c.Spawn)
	}
	return nil
}

// Load 从YAML数据加载配置
// 功能：在默认配置上严格解析YAML（未知字段报错），并进行校验
func Load(data []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, fmt.Errorf("config unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}
