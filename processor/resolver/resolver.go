// Package resolver 车道定位
// 将车辆多边形映射到其所在的车道或路口
package resolver

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity"
	"github.com/tsinghua-fib-lab/trace-postprocess/geometry"
	"github.com/tsinghua-fib-lab/trace-postprocess/trace"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/config"
)

// Method 定位方式
type Method int

const (
	MethodNone    Method = iota // 未定位
	MethodOverlap               // 重叠面积或形心包含
	MethodNearest               // 最近车道回退
)

// Resolver 车道定位器
type Resolver struct {
	m             entity.IMapQuery
	nearestRadius float64
	overlapRatio  float64
}

// New 由任务上下文创建车道定位器
func New(ctx entity.ITaskContext) *Resolver {
	return NewResolver(ctx.Map(), ctx.RuntimeConfig().C.Lane)
}

// NewResolver 创建车道定位器
// 参数：m-地图查询服务，c-车道定位参数
func NewResolver(m entity.IMapQuery, c config.LaneConfig) *Resolver {
	return &Resolver{
		m:             m,
		nearestRadius: c.NearestRadius,
		overlapRatio:  c.SignificantOverlapRatio,
	}
}

// Resolve 定位多边形所在的车道或路口
// 功能：返回多边形所在的车道引用及定位方式
// 参数：poly-车辆多边形
// 返回：车道引用（未定位时为nil）与定位方式
// 算法说明：
// 1. 候选为包含多边形形心，或重叠面积不小于多边形面积overlapRatio倍的车道与路口
// 2. 取重叠面积最大者，相等时路口优先，再取ID较小者
// 3. 无候选时回退到严格小于nearestRadius的最近车道或路口
// 4. 车道补充转向、车道数、是否最左侧与所在道路
func (r *Resolver) Resolve(poly orb.Polygon) (*trace.LaneRef, Method) {
	if !geometry.Valid(poly) {
		return nil, MethodNone
	}
	area := geometry.Area(poly)
	candidates := make([]entity.AreaHit, 0)
	for _, hit := range r.m.LanesContaining(poly) {
		if hit.ContainsCentroid || hit.Overlap >= r.overlapRatio*area {
			candidates = append(candidates, hit)
		}
	}
	if len(candidates) > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			return better(candidates[i], candidates[j])
		})
		return r.ref(candidates[0]), MethodOverlap
	}
	if hit, ok := r.m.NearestLane(poly, r.nearestRadius); ok {
		log.Debugf("fallback to nearest %s %s at %.2fm", hit.Kind, hit.ID, hit.Distance)
		return r.ref(hit), MethodNearest
	}
	return nil, MethodNone
}

// better 候选a是否优于b
func better(a, b entity.AreaHit) bool {
	if a.Overlap != b.Overlap {
		return a.Overlap > b.Overlap
	}
	if a.Kind != b.Kind {
		return a.Kind == trace.KindJunction
	}
	return a.ID < b.ID
}

func (r *Resolver) ref(hit entity.AreaHit) *trace.LaneRef {
	ref := &trace.LaneRef{ID: hit.ID, Kind: hit.Kind}
	if hit.Kind != trace.KindLane {
		return ref
	}
	if md, ok := r.m.LaneMetadata(hit.ID); ok {
		ref.Turn = md.Turn
		ref.Number = md.LaneCount
		ref.Leftmost = md.Leftmost
		ref.RoadID = md.RoadID
	}
	return ref
}

// SameRoad 两个车道引用是否为同一道路上的车道
func (r *Resolver) SameRoad(a, b *trace.LaneRef) bool {
	return a.IsLane() && b.IsLane() && r.m.SameRoad(a.ID, b.ID)
}
