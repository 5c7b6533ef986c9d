// 显示端实现
// 核心只向显示端推送只读快照，这里提供一个把快照摘要写入日志的无界面实现
package sink

import (
	"errors"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
)

var ErrNilSnapshot = errors.New("nil snapshot")

// LogSink 把快照摘要写入日志
// 功能：每every帧输出一次帧号、时间、车辆数与两个信号灯的颜色，every<=0时不输出
type LogSink struct {
	every int64
	log   *logrus.Entry

	drawn int64 // 已接收的帧数
}

// NewLogSink 创建日志显示端
func NewLogSink(every int64) *LogSink {
	return &LogSink{
		every: every,
		log:   logrus.WithField("module", "sink"),
	}
}

// Draw 接收一帧快照
func (s *LogSink) Draw(snapshot *entity.Snapshot) error {
	if snapshot == nil {
		return ErrNilSnapshot
	}
	s.drawn++
	if s.every <= 0 || snapshot.Frame%s.every != 0 {
		return nil
	}
	vehicles := lo.CountBy(snapshot.Shapes, func(sh entity.Shape) bool {
		return sh.Kind == entity.ShapeVehicle
	})
	v, _ := snapshot.Light(entity.AxisVertical)
	h, _ := snapshot.Light(entity.AxisHorizontal)
	s.log.Infof("frame %d t=%.2fs vehicles=%d light V=%v H=%v",
		snapshot.Frame, snapshot.T, vehicles, v.Color, h.Color)
	return nil
}

// Drawn 已接收的帧数
func (s *LogSink) Drawn() int64 {
	return s.drawn
}
