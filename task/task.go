package task

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tsinghua-fib-lab/trace-postprocess/clock"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity/hdmap"
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
	"github.com/tsinghua-fib-lab/trace-postprocess/processor/ahead"
	"github.com/tsinghua-fib-lab/trace-postprocess/processor/behavior"
	"github.com/tsinghua-fib-lab/trace-postprocess/processor/relation"
	"github.com/tsinghua-fib-lab/trace-postprocess/processor/resolver"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/config"
)

// Context 后处理任务上下文
// 功能：包含一次后处理任务的全部状态，包括地图、时钟、运行时配置、计数器与各计算组件
// 说明：地图构造完成后只读，Run期间可被多个障碍物协程并发查询
type Context struct {
	// 任务名
	job string

	// 回放时钟
	clock *clock.Clock
	// 地图查询服务
	hdmap *hdmap.HDMap
	// 运行时配置
	runtimeConfig *config.RuntimeConfig
	// 计数器
	metrics *metrics

	// 车道解析
	resolver *resolver.Resolver
	// 前方要素
	ahead *ahead.Calculator
	// 障碍物空间关系
	relation *relation.Calculator
	// 时序行为判定
	behavior *behavior.Detector
}

// NewContext 创建新的后处理任务上下文
// 功能：构建地图查询服务与各计算组件
// 参数：
//   - job: 任务名称
//   - m: 地图数据
//   - c: 配置对象
//   - reg: 计数器注册表，为nil时使用独立注册表
//
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 补全运行时配置并按时间戳单位创建时钟
// 2. 构建地图（车道、道路、路口、人行横道、交通控制）
// 3. 注册计数器
// 4. 创建车道解析、前方要素、空间关系与行为判定组件
func NewContext(job string, m *mapdata.Map, c config.Config, reg prometheus.Registerer) (*Context, error) {
	if m == nil {
		return nil, errors.New("map is nil")
	}
	ctx := &Context{
		job:           job,
		runtimeConfig: config.NewRuntimeConfig(c),
	}
	unit, err := ctx.runtimeConfig.C.Unit()
	if err != nil {
		return nil, err
	}
	ctx.clock = clock.New(unit)

	log.Infof("Lane: %v", len(m.Lane))
	log.Infof("Road: %v", len(m.Road))
	log.Infof("Junction: %v", len(m.Junction))
	log.Infof("Crosswalk: %v", len(m.Crosswalk))
	ctx.hdmap = hdmap.New(m)

	if ctx.metrics, err = newMetrics(reg); err != nil {
		return nil, err
	}

	ctx.resolver = resolver.New(ctx)
	ctx.ahead = ahead.New(ctx)
	ctx.relation = relation.New(ctx)
	ctx.behavior = behavior.New(ctx)
	return ctx, nil
}

// Job 任务名
func (ctx *Context) Job() string {
	return ctx.job
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) Map() entity.IMapQuery {
	return ctx.hdmap
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

var _ entity.ITaskContext = (*Context)(nil)
