// Package mapdata 高精地图文档结构
// 功能：定义JSON文件与MongoDB文档共用的地图数据结构（字段采用驼峰命名）
package mapdata

import (
	"github.com/paulmach/orb"
	"github.com/samber/lo"
)

// ID 地图元素ID
type ID struct {
	ID string `json:"id" bson:"id"`
}

// Point 地图坐标点
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z,omitempty" bson:"z,omitempty"`
}

// LineSegment 折线段
type LineSegment struct {
	Point []Point `json:"point" bson:"point"`
}

// CurveSegment 曲线分段
type CurveSegment struct {
	LineSegment *LineSegment `json:"lineSegment,omitempty" bson:"lineSegment,omitempty"`
}

// Curve 曲线
type Curve struct {
	Segment []CurveSegment `json:"segment" bson:"segment"`
}

// Points 展开曲线上全部点
func (c *Curve) Points() orb.LineString {
	res := orb.LineString{}
	if c == nil {
		return res
	}
	for _, seg := range c.Segment {
		if seg.LineSegment == nil {
			continue
		}
		for _, p := range seg.LineSegment.Point {
			res = append(res, orb.Point{p.X, p.Y})
		}
	}
	return res
}

// Boundary 车道边界
type Boundary struct {
	Curve Curve `json:"curve" bson:"curve"`
}

// Polygon 多边形
type Polygon struct {
	Point []Point `json:"point" bson:"point"`
}

// Ring 转换为闭合环
func (p Polygon) Ring() orb.Ring {
	ring := orb.Ring(lo.Map(p.Point, func(pt Point, _ int) orb.Point {
		return orb.Point{pt.X, pt.Y}
	}))
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// Lane 车道
type Lane struct {
	ID                         ID        `json:"id" bson:"id"`
	Length                     float64   `json:"length" bson:"length"`
	SpeedLimit                 float64   `json:"speedLimit,omitempty" bson:"speedLimit,omitempty"`
	Turn                       int32     `json:"turn,omitempty" bson:"turn,omitempty"`
	CentralCurve               *Curve    `json:"centralCurve,omitempty" bson:"centralCurve,omitempty"`
	LeftBoundary               *Boundary `json:"leftBoundary,omitempty" bson:"leftBoundary,omitempty"`
	RightBoundary              *Boundary `json:"rightBoundary,omitempty" bson:"rightBoundary,omitempty"`
	LeftNeighborForwardLaneID  []ID      `json:"leftNeighborForwardLaneId,omitempty" bson:"leftNeighborForwardLaneId,omitempty"`
	RightNeighborForwardLaneID []ID      `json:"rightNeighborForwardLaneId,omitempty" bson:"rightNeighborForwardLaneId,omitempty"`
	JunctionID                 *ID       `json:"junctionId,omitempty" bson:"junctionId,omitempty"`
}

// Junction 路口
type Junction struct {
	ID      ID      `json:"id" bson:"id"`
	Polygon Polygon `json:"polygon" bson:"polygon"`
}

// Crosswalk 人行横道
type Crosswalk struct {
	ID      ID      `json:"id" bson:"id"`
	Polygon Polygon `json:"polygon" bson:"polygon"`
}

// StopSign 停车让行标志
type StopSign struct {
	ID       ID      `json:"id" bson:"id"`
	StopLine []Curve `json:"stopLine,omitempty" bson:"stopLine,omitempty"`
	Type     string  `json:"type,omitempty" bson:"type,omitempty"`
}

// Subsignal 信号灯子灯
type Subsignal struct {
	ID   ID     `json:"id" bson:"id"`
	Type string `json:"type" bson:"type"`
}

// Signal 信号灯
type Signal struct {
	ID        ID          `json:"id" bson:"id"`
	Subsignal []Subsignal `json:"subsignal,omitempty" bson:"subsignal,omitempty"`
	StopLine  []Curve     `json:"stopLine,omitempty" bson:"stopLine,omitempty"`
	Type      string      `json:"type,omitempty" bson:"type,omitempty"`
}

// RoadSection 道路分段
type RoadSection struct {
	ID     ID   `json:"id" bson:"id"`
	LaneID []ID `json:"laneId" bson:"laneId"`
}

// Road 道路
type Road struct {
	ID         ID            `json:"id" bson:"id"`
	Section    []RoadSection `json:"section" bson:"section"`
	JunctionID *ID           `json:"junctionId,omitempty" bson:"junctionId,omitempty"`
}

// LaneIDs 道路包含的车道ID（第一个分段）
func (r Road) LaneIDs() []string {
	if len(r.Section) == 0 {
		return nil
	}
	return lo.Map(r.Section[0].LaneID, func(id ID, _ int) string { return id.ID })
}

// Header 地图头信息
type Header struct {
	Version string `json:"version,omitempty" bson:"version,omitempty"`
	Date    string `json:"date,omitempty" bson:"date,omitempty"`
	Vendor  string `json:"vendor,omitempty" bson:"vendor,omitempty"`
}

// Map 完整地图
type Map struct {
	Name      string      `json:"name,omitempty" bson:"name,omitempty"`
	Header    Header      `json:"header" bson:"header"`
	Lane      []Lane      `json:"lane" bson:"lane"`
	Junction  []Junction  `json:"junction" bson:"junction"`
	Crosswalk []Crosswalk `json:"crosswalk" bson:"crosswalk"`
	StopSign  []StopSign  `json:"stopSign" bson:"stopSign"`
	Signal    []Signal    `json:"signal" bson:"signal"`
	Road      []Road      `json:"road" bson:"road"`
}

// StopLines 停止线转换为折线
func StopLines(curves []Curve) []orb.LineString {
	res := make([]orb.LineString, 0, len(curves))
	for i := range curves {
		if ls := curves[i].Points(); len(ls) >= 2 {
			res = append(res, ls)
		}
	}
	return res
}
