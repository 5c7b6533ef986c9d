package config

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
// 说明：Total为0表示一直运行直到收到停止信号
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔（秒）
}

// Control 模拟器控制配置
// 功能：定义仿真系统的核心控制参数
type Control struct {
	Step     ControlStep `yaml:"step"`
	Realtime bool        `yaml:"realtime"` // 是否按Interval进行帧率限制（否则尽快运行）
	Seed     uint64      `yaml:"seed"`     // 随机数种子
}

// 信号灯工作模式
const (
	LightModeIndependent = "independent" // 两个轴各自独立计时
	LightModeArbiter     = "arbiter"     // 单一相位程序统一控制两个轴
)

// Light 信号灯配置
// 功能：定义信号灯的工作模式与各相位持续时间（秒）
type Light struct {
	Mode   string  `yaml:"mode"`
	Green  float64 `yaml:"green"`
	Yellow float64 `yaml:"yellow"`
	Red    float64 `yaml:"red"`
}

// Spawn 车辆生成配置
// 功能：首辆车在FirstInterval后生成，之后的间隔在[MinInterval, MaxInterval)内均匀抽样
type Spawn struct {
	Disabled      bool    `yaml:"disabled,omitempty"` // 关闭自动生成（测试用）
	FirstInterval float64 `yaml:"first_interval"`
	MinInterval   float64 `yaml:"min_interval"`
	MaxInterval   float64 `yaml:"max_interval"`
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
type Config struct {
	Control Control `yaml:"control"` // 模拟过程控制
	Light   Light   `yaml:"light"`   // 信号灯
	Spawn   Spawn   `yaml:"spawn"`   // 车辆生成
}

// Default 默认配置
// 功能：返回与经典场景一致的默认配置，YAML中出现的字段会覆盖对应默认值
func Default() Config {
	return Config{
		Control: Control{
			Step: ControlStep{
				Start:    0,
				Total:    0,
				Interval: 1. / 60,
			},
			Realtime: true,
		},
		Light: Light{
			Mode:   LightModeIndependent,
			Green:  10,
			Yellow: 2,
			Red:    12,
		},
		Spawn: Spawn{
			FirstInterval: 1,
			MinInterval:   1,
			MaxInterval:   3,
		},
	}
}
