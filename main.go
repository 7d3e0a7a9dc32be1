package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/trace-postprocess/task"
	"github.com/tsinghua-fib-lab/trace-postprocess/trace"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/config"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/input"
)

var (
	// 任务名，用于日志
	job = flag.String("job", "job0", "the name of the post-processing task")
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// Prometheus指标监听地址，设置为空则不提供指标服务
	metricsAddr = flag.String("metrics.listen", "", "prometheus metrics listening address (empty means disabled), e.g. :9090")
	// 心跳日志间隔，覆盖配置文件中的control.heartbeat
	heartBeatInterval = flag.Int("log.heartbeat_interval", 0, "心跳日志间隔快照数（0表示使用配置文件）")

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

	log = logrus.WithField("module", "main")
)

// loadConfig 读取配置文件或Base64编码的配置数据
func loadConfig() (config.Config, error) {
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			return config.Config{}, errors.Wrap(err, "config file load err")
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			return config.Config{}, errors.Wrap(err, "config data load err")
		}
	} else {
		return config.Config{}, errors.New("config file or config data must be specified")
	}
	return config.Parse(file)
}

// writeResult 将后处理结果写入JSON文件
func writeResult(o config.Output, res *trace.Result) error {
	var data []byte
	var err error
	if o.Indent {
		data, err = json.MarshalIndent(res, "", "  ")
	} else {
		data, err = json.Marshal(res)
	}
	if err != nil {
		return errors.Wrap(err, "marshal result")
	}
	return errors.Wrapf(os.WriteFile(o.File, data, 0o644), "write %s", o.File)
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.0000",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	// 获取配置
	c, err := loadConfig()
	if err != nil {
		log.Panicf("%v", err)
	}
	if *heartBeatInterval > 0 {
		c.Control.Heartbeat = *heartBeatInterval
	}
	if c.Output.File == "" {
		log.Panic("output.file must be specified")
	}
	log.Infof("%+v", c)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Errorf("metrics server: %v", err)
			}
		}()
	}

	in, err := input.Init(ctx, c)
	if err != nil {
		log.Panicf("input init err: %v", err)
	}
	t, err := task.NewContext(*job, in.Map, c, registry)
	if err != nil {
		log.Panicf("task init err: %v", err)
	}
	res, err := t.Run(ctx, in.Trace)
	if err != nil {
		log.Panicf("post-processing aborted: %v", err)
	}
	if err := writeResult(c.Output, res); err != nil {
		log.Panicf("%v", err)
	}
	log.Infof("result %s written to %s", res.RunID, c.Output.File)
}
