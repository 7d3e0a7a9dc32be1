// Package ahead 前方道路要素距离计算
package ahead

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity"
	"github.com/tsinghua-fib-lab/trace-postprocess/geometry"
	"github.com/tsinghua-fib-lab/trace-postprocess/trace"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/config"
)

// Features 自车前方要素距离
// 说明：不存在的要素距离为trace.Unavailable
type Features struct {
	CrosswalkAhead  float64
	JunctionAhead   float64
	StopSignAhead   float64
	StoplineAhead   float64     // 信号灯停止线与停车让行停止线中的较近者
	JunctionAheadID *string     // 最近路口ID
	JunctionShape   orb.Polygon // 最近路口面域
}

// Unavailable 全部要素不可用时的结果
func Unavailable() Features {
	return Features{
		CrosswalkAhead: trace.Unavailable,
		JunctionAhead:  trace.Unavailable,
		StopSignAhead:  trace.Unavailable,
		StoplineAhead:  trace.Unavailable,
	}
}

// Apply 将结果写入自车记录
func (f Features) Apply(ego *trace.Ego) {
	ego.CrosswalkAhead = f.CrosswalkAhead
	ego.JunctionAhead = f.JunctionAhead
	ego.JunctionAheadID = f.JunctionAheadID
	ego.StopSignAhead = f.StopSignAhead
	ego.StoplineAhead = f.StoplineAhead
}

// Calculator 前方要素计算器
type Calculator struct {
	m      entity.IMapQuery
	sector geometry.SectorParams
}

// New 由任务上下文创建前方要素计算器
func New(ctx entity.ITaskContext) *Calculator {
	return NewCalculator(ctx.Map(), ctx.RuntimeConfig().C.Sector)
}

// NewCalculator 创建前方要素计算器
func NewCalculator(m entity.IMapQuery, c config.SectorConfig) *Calculator {
	return &Calculator{
		m: m,
		sector: geometry.SectorParams{
			HalfAngle:   c.HalfAngle,
			MaxRange:    c.MaxRange,
			ArcSegments: c.ArcSegments,
		},
	}
}

// Sector 以车头中点为起点的前方扇形区域
func (c *Calculator) Sector(front orb.Point, heading, width float64) orb.Polygon {
	return geometry.ForwardSector(front, heading, width, c.sector)
}

// Compute 计算前方要素距离
// 功能：在前方扇形区域内查询人行横道、路口、停车让行停止线与信号灯停止线，取与自车多边形的最小距离
// 参数：ego-自车多边形，front-车头中点，heading-朝向，width-车宽
// 返回：前方要素距离，自车多边形不可用时全部为trace.Unavailable
func (c *Calculator) Compute(ego orb.Polygon, front orb.Point, heading, width float64) Features {
	res := Unavailable()
	if !geometry.Valid(ego) || !geometry.Finite(front) {
		return res
	}
	sector := c.Sector(front, heading, width)

	res.CrosswalkAhead, _ = c.nearest(ego, sector, entity.FeatureCrosswalk)
	junctionDist, junction := c.nearest(ego, sector, entity.FeatureJunction)
	res.JunctionAhead = junctionDist
	if junction != nil {
		id := junction.ID
		res.JunctionAheadID = &id
		res.JunctionShape, _ = junction.Shape.(orb.Polygon)
	}
	res.StopSignAhead, _ = c.nearest(ego, sector, entity.FeatureStopSign)
	signalDist, _ := c.nearest(ego, sector, entity.FeatureSignal)
	res.StoplineAhead = math.Min(signalDist, res.StopSignAhead)
	return res
}

// nearest 区域内指定类型要素的最小距离
// 返回：距离与对应要素，没有要素时返回trace.Unavailable与nil
// 说明：距离相等时取ID较小者（FeaturesInRegion按ID排序）
func (c *Calculator) nearest(ego, region orb.Polygon, kind entity.FeatureKind) (float64, *entity.Feature) {
	best := math.Inf(1)
	var hit *entity.Feature
	features := c.m.FeaturesInRegion(region, kind)
	for i := range features {
		if d := geometry.Distance(ego, features[i].Shape); d < best {
			best, hit = d, &features[i]
		}
	}
	if hit == nil || math.IsInf(best, 1) {
		return trace.Unavailable, nil
	}
	return best, hit
}

// NearestTrafficLight 最近的检测信号灯
// 功能：对每个检测到的信号灯查找地图中的停止线，返回距自车最近者的下标与距离
// 参数：ego-自车多边形，lights-检测到的信号灯
// 返回：下标与停止线距离，没有可匹配地图的信号灯时均为nil
func (c *Calculator) NearestTrafficLight(ego orb.Polygon, lights []trace.TrafficLight) (*int, *float64) {
	if !geometry.Valid(ego) {
		return nil, nil
	}
	best := math.Inf(1)
	index := -1
	for i, l := range lights {
		lines, ok := c.m.SignalStopLines(l.ID)
		if !ok {
			log.Debugf("traffic light %s not found in map", l.ID)
			continue
		}
		for _, line := range lines {
			if d := geometry.Distance(ego, line); d < best {
				best, index = d, i
			}
		}
	}
	if index < 0 {
		return nil, nil
	}
	return &index, &best
}
