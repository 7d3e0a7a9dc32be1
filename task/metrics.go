package task

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// 车道解析回退的主体
const (
	actorEgo      = "ego"
	actorObstacle = "obstacle"
)

// metrics 后处理计数器
type metrics struct {
	processed prometheus.Counter     // 已处理快照数
	degraded  prometheus.Counter     // 存在降级字段的快照数
	skipped   prometheus.Counter     // 因数据异常被跳过的障碍物数
	fallback  *prometheus.CounterVec // 使用最近车道回退的次数，按主体区分
}

// newMetrics 创建并注册计数器
// 参数：reg-注册表，为nil时使用独立的新注册表
// 返回：重复注册时返回错误
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &metrics{
		processed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trace_snapshots_processed_total",
			Help: "Number of snapshots written to the enriched trace.",
		}),
		degraded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trace_snapshots_degraded_total",
			Help: "Number of snapshots with at least one degraded field.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trace_obstacles_skipped_total",
			Help: "Number of malformed obstacles dropped from their snapshot.",
		}),
		fallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trace_lane_fallback_total",
			Help: "Number of lane resolutions answered by the nearest-lane search.",
		}, []string{"actor"}),
	}
	for _, c := range []prometheus.Collector{m.processed, m.degraded, m.skipped, m.fallback} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "register metrics")
		}
	}
	return m, nil
}
