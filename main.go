package main

import (
	"context"
	"encoding/base64"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"git.fiblab.net/sim/syncer/v3"
	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/crossroad-sim/sink"
	"github.com/tsinghua-fib-lab/crossroad-sim/task"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
)

var (
	// 分布式模式syncer地址，如果设置为空则激活独立部署模式
	syncerAddr = flag.String("syncer", "", "syncer address (empty means standalone mode), e.g. http://localhost:53001")
	// 模拟任务名
	job = flag.String("job", "job0", "the name of the whole simulation task")
	// 本程序监听的RPC地址，设置为空则不启动sidecar
	grpcAddr = flag.String("listen", "", "RPC listening address (empty means no sidecar), e.g. :51102")
	// 配置文件路径
	configPath = flag.String("config", "", "config file path (empty means built-in defaults)")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 日志显示端的输出间隔
	sinkEvery = flag.Int64("sink.every", 60, "log one frame summary every N frames (0 disables)")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "crossroad")
)

// loadConfig 按命令行参数获取配置，两者都未指定时使用默认配置
func loadConfig() (config.Config, error) {
	var file []byte
	var err error
	switch {
	case *configPath != "":
		if file, err = os.ReadFile(*configPath); err != nil {
			return config.Config{}, err
		}
	case *configData != "":
		if file, err = base64.StdEncoding.DecodeString(*configData); err != nil {
			return config.Config{}, err
		}
	default:
		c := config.Default()
		return c, c.Validate()
	}
	return config.Load(file)
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	c, err := loadConfig()
	if err != nil {
		log.Panicf("config load err: %v", err)
	}

	var sidecar *syncer.Sidecar
	if *grpcAddr != "" {
		sidecar = syncer.NewSidecar(task.SelfName, *grpcAddr, *syncerAddr)
	}
	t := task.NewContext(*job, c, sidecar, sink.NewLogSink(*sinkEvery))

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	t.Run(runCtx)
}
