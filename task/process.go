package task

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trace-postprocess/geometry"
	"github.com/tsinghua-fib-lab/trace-postprocess/processor/ahead"
	"github.com/tsinghua-fib-lab/trace-postprocess/processor/behavior"
	"github.com/tsinghua-fib-lab/trace-postprocess/processor/relation"
	"github.com/tsinghua-fib-lab/trace-postprocess/processor/resolver"
	"github.com/tsinghua-fib-lab/trace-postprocess/trace"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/parallel"
)

// 诊断记录的组件名
const (
	componentEgo      = "ego"
	componentLane     = "lane"
	componentObstacle = "obstacle"
)

// step 单个快照的处理状态
type step struct {
	ts          trace.Timestamp
	diagnostics []trace.Diagnostic
}

// warnf 记录降级诊断并输出警告日志
func (s *step) warnf(component, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.WithField("timestamp", s.ts).Warnf("%s: %s", component, msg)
	s.diagnostics = append(s.diagnostics, trace.Diagnostic{
		Timestamp: s.ts,
		Component: component,
		Message:   msg,
	})
}

// egoFrame 自车几何
type egoFrame struct {
	polygon orb.Polygon
	front   orb.Point
	back    orb.Point
	heading float64
	width   float64
}

// Run 运行后处理
// 功能：按时间戳顺序处理原始快照，逐个写入派生字段并追加到输出轨迹
// 参数：c-上下文（取消时中止），raw-原始快照序列
// 返回：完整的后处理结果；输入为空或时间戳不严格递增时返回错误
// 说明：单个时刻内的局部错误只降级该时刻的派生字段，不会中止整个运行
func (ctx *Context) Run(c context.Context, raw []trace.Snapshot) (*trace.Result, error) {
	if err := trace.CheckMonotonic(raw); err != nil {
		return nil, errors.Wrap(err, "invalid raw trace")
	}
	ctx.clock.Init()
	cfg := ctx.runtimeConfig.C
	history := max(cfg.Window.LaneChange, cfg.Window.TurnAround)

	out := trace.New(len(raw))
	diagnostics := make([]trace.Diagnostic, 0)
	for i := range raw {
		if err := c.Err(); err != nil {
			return nil, errors.Wrapf(err, "run canceled at snapshot %d", i)
		}
		if err := ctx.clock.Advance(raw[i].Timestamp); err != nil {
			return nil, errors.Wrapf(err, "snapshot %d", i)
		}
		if cfg.Heartbeat > 0 && ctx.clock.Step%int32(cfg.Heartbeat) == 0 {
			log.Infof("STEP: %d(%s)", ctx.clock.Step, ctx.clock)
		}
		snapshot, s, err := ctx.process(c, raw[i], out.Window(history))
		if err != nil {
			return nil, errors.Wrapf(err, "snapshot %d", i)
		}
		if err := out.Append(snapshot); err != nil {
			return nil, err
		}
		ctx.metrics.processed.Inc()
		if len(s.diagnostics) > 0 {
			ctx.metrics.degraded.Inc()
			diagnostics = append(diagnostics, s.diagnostics...)
		}
	}

	res := &trace.Result{
		RunID:                 uuid.NewString(),
		MapName:               ctx.hdmap.Name(),
		GroundTruthPerception: true,
		Diagnostics:           diagnostics,
	}
	res.Summarize(out)
	log.Infof("job %s: %d snapshots, %d agents, %d diagnostics, destination reached: %v",
		ctx.job, out.Len(), len(res.AgentNames), len(diagnostics), res.DestinationReached)
	return res, nil
}

// process 处理单个快照
// 算法说明：
// 1. 自车：尺寸补全、速度、多边形与所在车道
// 2. 障碍物：并行校验并计算多边形、速度、到自车距离与所在车道，异常障碍物被移除
// 3. 最近障碍物、前方要素、前方车辆/行人/对向车辆与分类、信号灯
// 4. 时序判定：拥堵、变道、掉头、优先通行、到达终点
func (ctx *Context) process(c context.Context, raw trace.Snapshot, w trace.Window) (trace.Snapshot, *step, error) {
	s := &step{ts: raw.Timestamp}
	snapshot := raw
	ego := &snapshot.Ego
	truth := &snapshot.Truth

	frame := ctx.prepareEgo(s, ego)

	obs, err := ctx.prepareObstacles(c, s, raw.Truth.ObsList, frame.polygon)
	if err != nil {
		return snapshot, s, err
	}
	truth.ObsList = obs
	truth.MinDistToEgo, truth.NearestGtObs = relation.Nearest(obs)

	features := ahead.Unavailable()
	if frame.polygon != nil {
		features = ctx.ahead.Compute(frame.polygon, frame.front, frame.heading, frame.width)
	}
	features.Apply(ego)

	rel := ctx.relation.Relate(relation.EgoState{
		Polygon: frame.polygon,
		Front:   frame.front,
		Heading: frame.heading,
		Width:   frame.width,
		Lane:    ego.CurrentLane,
	}, obs)
	truth.NPCAhead, truth.PedAhead, truth.NPCOpposite = rel.NPCAhead, rel.PedAhead, rel.NPCOpposite
	truth.NPCClassification = ctx.relation.Classification(ego.CurrentLane, obs)

	lights := &snapshot.TrafficLights
	lights.List = append([]trace.TrafficLight{}, raw.TrafficLights.List...)
	lights.Nearest, lights.StopLineDistance = ctx.ahead.NearestTrafficLight(frame.polygon, lights.List)

	ego.IsTrafficJam = ctx.behavior.TrafficJam(features.JunctionShape, obs)
	ego.IsLaneChanging = ctx.behavior.LaneChanging(ego, w)
	ego.IsTurningAround = ctx.behavior.TurningAround(ego, w)
	ego.PriorityNPCAhead, ego.PriorityPedsAhead = ctx.behavior.Priority(ego, behavior.EgoGeometry{
		Back:  frame.back,
		Width: frame.width,
	}, truth)
	ego.ReachDestination = ctx.behavior.ReachDestination(ego.Pose.Position)
	return snapshot, s, nil
}

// prepareEgo 计算自车派生几何
// 功能：补全尺寸，计算速度、多边形、车头与车尾中点，并解析所在车道
// 返回：自车几何，位姿无效时多边形为nil
func (ctx *Context) prepareEgo(s *step, ego *trace.Ego) egoFrame {
	cfg := ctx.runtimeConfig.C.Ego
	if !(ego.Size.Length > 0) || math.IsInf(ego.Size.Length, 0) {
		ego.Size.Length = cfg.Length
	}
	if !(ego.Size.Width > 0) || math.IsInf(ego.Size.Width, 0) {
		ego.Size.Width = cfg.Width
	}
	wheelbase := math.Min(cfg.Wheelbase, ego.Size.Length)

	ego.Speed = ego.Pose.LinearVelocity.Norm()
	if math.IsNaN(ego.Speed) || math.IsInf(ego.Speed, 0) {
		ego.Speed = ego.Chassis.SpeedMps
	}

	ego.Polygon, ego.CurrentLane = nil, nil
	frame := egoFrame{heading: ego.Pose.Heading, width: ego.Size.Width}
	if !ego.Pose.Position.Finite() || math.IsNaN(ego.Pose.Heading) || math.IsInf(ego.Pose.Heading, 0) {
		s.warnf(componentEgo, "non-finite pose, ego geometry unavailable")
		frame.front = orb.Point{math.NaN(), math.NaN()}
		frame.back = frame.front
		return frame
	}
	center := ego.Pose.Position.Point()
	frame.polygon = geometry.BuildEgoPolygon(center, frame.heading, ego.Size.Length, ego.Size.Width, wheelbase)
	frame.front = geometry.HeadMiddlePoint(center, frame.heading, ego.Size.Length, wheelbase)
	frame.back = geometry.BackMiddlePoint(center, frame.heading, ego.Size.Length, wheelbase)
	ego.Polygon = frame.polygon

	lane, method := ctx.resolver.Resolve(frame.polygon)
	switch method {
	case resolver.MethodNearest:
		ctx.metrics.fallback.WithLabelValues(actorEgo).Inc()
	case resolver.MethodNone:
		s.warnf(componentLane, "ego at (%.2f, %.2f) is not on any lane", center[0], center[1])
	}
	ego.CurrentLane = lane
	return frame
}

// prepareObstacles 并行处理障碍物
// 功能：校验障碍物并计算多边形、速度、到自车距离与所在车道
// 参数：raw-原始障碍物，egoPolygon-自车多边形（可为nil）
// 返回：保留原顺序的有效障碍物
// 说明：每个协程只写入自己下标的障碍物，诊断在全部完成后按下标顺序记录
func (ctx *Context) prepareObstacles(c context.Context, s *step, raw []trace.Obstacle, egoPolygon orb.Polygon) ([]trace.Obstacle, error) {
	obs := append([]trace.Obstacle{}, raw...)
	problems := make([]error, len(obs))
	methods := make([]resolver.Method, len(obs))
	err := parallel.GoForIndex(c, len(obs), ctx.runtimeConfig.C.Workers, func(_ context.Context, i int) error {
		methods[i], problems[i] = ctx.prepareObstacle(&obs[i], egoPolygon)
		return nil
	})
	if err != nil {
		return nil, err
	}
	valid := make([]trace.Obstacle, 0, len(obs))
	for i := range obs {
		if problems[i] != nil {
			s.warnf(componentObstacle, "skip obstacle: %v", problems[i])
			ctx.metrics.skipped.Inc()
			continue
		}
		if methods[i] == resolver.MethodNearest {
			ctx.metrics.fallback.WithLabelValues(actorObstacle).Inc()
		}
		valid = append(valid, obs[i])
	}
	return valid, nil
}

// prepareObstacle 计算单个障碍物的派生字段
// 返回：车道解析方式；障碍物状态非有限或无法构造多边形时返回错误
func (ctx *Context) prepareObstacle(o *trace.Obstacle, egoPolygon orb.Polygon) (resolver.Method, error) {
	if !o.Position.Finite() || !finite(o.Theta) || !o.Velocity.Finite() {
		return resolver.MethodNone, errors.Errorf("obstacle %d has non-finite state", o.ID)
	}
	poly, err := obstaclePolygon(o)
	if err != nil {
		return resolver.MethodNone, err
	}
	o.Polygon = poly
	o.Speed = o.Velocity.Norm()
	o.DistToEgo = relation.DistToEgo(egoPolygon, poly)
	lane, method := ctx.resolver.Resolve(poly)
	o.CurrentLane = lane
	return method, nil
}

// obstaclePolygon 障碍物多边形
// 说明：优先使用感知给出的轮廓点，轮廓不可用时由中心、朝向与长宽构造矩形
func obstaclePolygon(o *trace.Obstacle) (orb.Polygon, error) {
	if len(o.PolygonPoints) >= 3 {
		ring := lo.Map(o.PolygonPoints, func(p trace.Vec3, _ int) orb.Point { return p.Point() })
		ring = append(ring, ring[0])
		poly := orb.Polygon{orb.Ring(ring)}
		if geometry.Valid(poly) && geometry.Area(poly) > 0 {
			return poly, nil
		}
	}
	if o.Length > 0 && o.Width > 0 && finite(o.Length) && finite(o.Width) {
		return geometry.BuildPolygon(o.Position.Point(), o.Theta, o.Length, o.Width), nil
	}
	return nil, errors.Errorf("obstacle %d has no usable shape", o.ID)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
