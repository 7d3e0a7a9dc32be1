package entity

import (
	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/trace-postprocess/trace"
)

// FeatureKind 前方道路要素类型
type FeatureKind int

const (
	FeatureCrosswalk FeatureKind = iota // 人行横道（面）
	FeatureJunction                     // 路口（面）
	FeatureStopSign                     // 停车让行标志的停止线（线）
	FeatureSignal                       // 信号灯的停止线（线）
)

func (k FeatureKind) String() string {
	switch k {
	case FeatureCrosswalk:
		return "crosswalk"
	case FeatureJunction:
		return "junction"
	case FeatureStopSign:
		return "stop_sign"
	case FeatureSignal:
		return "signal"
	}
	return "unknown"
}

// Feature 区域查询命中的道路要素
type Feature struct {
	ID    string       // 要素ID（停止线为所属标志/信号灯ID）
	Kind  FeatureKind  // 要素类型
	Shape orb.Geometry // 面（orb.Polygon）或停止线（orb.LineString）
}

// AreaHit 车道/路口命中结果
type AreaHit struct {
	ID               string         // 车道或路口ID
	Kind             trace.LaneKind // 车道或路口
	Overlap          float64        // 与查询多边形的重叠面积
	ContainsCentroid bool           // 是否包含查询多边形的形心
	Distance         float64        // 与查询多边形的距离（仅最近车道查询有效）
}

// LaneMetadata 车道元数据
type LaneMetadata struct {
	ID        string
	RoadID    string // 所在道路，未登记在任何道路中时为空
	Turn      int32  // 转向类型
	LaneCount int32  // 所在道路的车道数
	Leftmost  bool   // 是否为最左侧车道
}

// 地图查询服务
// 说明：构造完成后只读，允许多个协程并发查询
type IMapQuery interface {
	Name() string // 地图名

	// 与多边形有重叠或包含其形心的车道与路口
	LanesContaining(poly orb.Polygon) []AreaHit
	// 距离多边形严格小于maxRadius的最近车道或路口
	NearestLane(poly orb.Polygon, maxRadius float64) (AreaHit, bool)
	// 与区域相交的指定类型要素
	FeaturesInRegion(region orb.Polygon, kind FeatureKind) []Feature
	// 车道元数据，非车道ID返回false
	LaneMetadata(id string) (LaneMetadata, bool)
	// 两条车道是否位于同一道路
	SameRoad(a, b string) bool
	// 信号灯的停止线
	SignalStopLines(id string) ([]orb.LineString, bool)
	// 路口面域
	JunctionPolygon(id string) (orb.Polygon, bool)
}
