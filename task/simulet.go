package task

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
)

const (
	SelfName = "crossroad" // 本程序在模拟任务集群中的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// heartbeat 心跳日志
func (ctx *Context) heartbeat() {
	if *heartBeatInterval <= 0 || ctx.clock.InternalStep%int32(*heartBeatInterval) != 0 {
		return
	}
	hour, minute, second := ctx.clock.GetHourMinuteSecond()
	stats := ctx.vehicleManager.Stats()
	lights := lo.Map(entity.Axes[:], func(axis entity.Axis, _ int) string {
		return fmt.Sprintf("%v(%.1fs)", ctx.junction.LightState(axis), ctx.junction.LightElapsed(axis, ctx.clock.T))
	})
	log.Infof(
		"STEP: %d(%d:%d:%.2f) vehicles=%d spawned=%d despawned=%d turned=%d next_spawn=%.2f light V=%s H=%s",
		ctx.clock.InternalStep,
		hour, minute, second,
		ctx.vehicleManager.Len(), stats.Spawned, stats.Despawned, stats.Turned,
		ctx.vehicleManager.NextSpawnAt(),
		lights[entity.AxisVertical], lights[entity.AxisHorizontal],
	)
}

// Run 运行
// 功能：推进时钟、执行Tick并把快照推送给显示端，直到到达结束步、收到停止信号或syncer要求关闭
// 参数：runCtx-取消时在下一步开始前退出
// 说明：control.realtime为true时按DT限制帧率，否则尽快运行
func (ctx *Context) Run(runCtx context.Context) {
	if ctx.sidecar != nil {
		// init syncer
		ctx.sidecar.Step(false)
	}
	var pace <-chan time.Time
	if ctx.runtimeConfig.C.Realtime {
		ticker := time.NewTicker(time.Duration(ctx.clock.DT * float64(time.Second)))
		defer ticker.Stop()
		pace = ticker.C
	}
	for !ctx.clock.Done() {
		if runCtx.Err() != nil {
			ctx.Stop()
		}
		if ctx.stopped.Load() {
			log.Infof("step %d: stop requested", ctx.clock.InternalStep)
			break
		}
		ctx.clock.Advance()
		ctx.heartbeat()
		snapshot, ok := ctx.Tick(ctx.clock.T, false)
		if !ok {
			break
		}
		if ctx.sink != nil {
			if err := ctx.sink.Draw(snapshot); err != nil {
				log.Warnf("step %d: draw failed: %v", ctx.clock.InternalStep, err)
			}
		}
		if ctx.sidecar != nil {
			// 通知本步完成
			ctx.sidecar.NotifyStepReady()
			if ctx.sidecar.Step(ctx.clock.IsLastStep()) {
				break
			}
		}
		if pace != nil {
			select {
			case <-pace:
			case <-runCtx.Done():
			}
		}
	}
	log.Infof("engine complete: %d frames, %+v", ctx.frame, ctx.vehicleManager.Stats())
	ctx.Close()
}
