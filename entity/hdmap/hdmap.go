// Package hdmap 高精地图查询服务
// 由车道、道路、路口、人行横道与交通控制设施管理器组成，实现entity.IMapQuery
package hdmap

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity/crosswalk"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity/junction"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity/lane"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity/road"
	"github.com/tsinghua-fib-lab/trace-postprocess/geometry"
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
	"github.com/tsinghua-fib-lab/trace-postprocess/trace"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/container"
)

// area 可供车辆定位的面域（车道或路口）
type area struct {
	id      string
	kind    trace.LaneKind
	polygon orb.Polygon
	bound   orb.Bound
}

// HDMap 地图查询服务
// 说明：New返回后只读，可被多个协程并发查询
type HDMap struct {
	name string

	laneManager      *lane.LaneManager
	roadManager      *road.RoadManager
	junctionManager  *junction.JunctionManager
	crosswalkManager *crosswalk.CrosswalkManager
	controlManager   *trafficlight.Manager

	areas []area // 路口在前、车道在后，同类按ID排序
}

var _ entity.IMapQuery = (*HDMap)(nil)

// New 由地图数据构造查询服务
// 功能：按车道、道路、路口、人行横道、交通控制设施的顺序初始化各管理器，并建立面域列表
// 参数：m-地图数据
// 返回：地图查询服务
// 说明：道路需在车道之后初始化，路口需在道路之后初始化（依赖道路的junctionId）
func New(m *mapdata.Map) *HDMap {
	h := &HDMap{
		name:             m.Name,
		laneManager:      lane.NewManager(),
		roadManager:      road.NewManager(),
		junctionManager:  junction.NewManager(),
		crosswalkManager: crosswalk.NewManager(),
		controlManager:   trafficlight.NewManager(),
	}
	h.laneManager.Init(m.Lane)
	h.roadManager.Init(m.Road, h.laneManager)
	h.junctionManager.Init(m.Junction, h.laneManager)
	h.crosswalkManager.Init(m.Crosswalk)
	h.controlManager.Init(m.Signal, m.StopSign)

	h.areas = make([]area, 0)
	for _, j := range h.junctionManager.All() {
		if j.Polygon() != nil {
			h.areas = append(h.areas, area{id: j.ID(), kind: trace.KindJunction, polygon: j.Polygon(), bound: j.Bound()})
		}
	}
	for _, l := range h.laneManager.All() {
		if l.Polygon() != nil {
			h.areas = append(h.areas, area{id: l.ID(), kind: trace.KindLane, polygon: l.Polygon(), bound: l.Bound()})
		}
	}
	log.Infof("map %q ready: %d areas indexed", h.name, len(h.areas))
	return h
}

// Name 地图名
func (h *HDMap) Name() string {
	return h.name
}

// LanesContaining 查询与多边形重叠或包含其形心的车道与路口
// 功能：先以包围盒粗筛，再计算精确重叠面积与形心包含关系
// 参数：poly-查询多边形（凸多边形，如车辆矩形）
// 返回：命中列表，顺序为路口在前、车道在后，同类按ID排序
func (h *HDMap) LanesContaining(poly orb.Polygon) []entity.AreaHit {
	if !geometry.Valid(poly) {
		return nil
	}
	c := geometry.Centroid(poly)
	b := poly.Bound()
	hits := make([]entity.AreaHit, 0)
	for _, a := range h.areas {
		if !a.bound.Intersects(b) {
			continue
		}
		overlap := geometry.OverlapArea(a.polygon, poly)
		inside := planar.PolygonContains(a.polygon, c)
		if overlap <= 0 && !inside {
			continue
		}
		hits = append(hits, entity.AreaHit{
			ID:               a.id,
			Kind:             a.kind,
			Overlap:          overlap,
			ContainsCentroid: inside,
		})
	}
	return hits
}

// boundDistance 两个包围盒之间的最短距离，是其中几何体距离的下界
func boundDistance(a, b orb.Bound) float64 {
	dx := math.Max(0, math.Max(a.Min[0]-b.Max[0], b.Min[0]-a.Max[0]))
	dy := math.Max(0, math.Max(a.Min[1]-b.Max[1], b.Min[1]-a.Max[1]))
	return math.Hypot(dx, dy)
}

// NearestLane 查询距离多边形最近的车道或路口
// 功能：以包围盒距离为下界做最优优先搜索，返回距离严格小于maxRadius的最近面域
// 参数：poly-查询多边形，maxRadius-搜索半径
// 返回：最近面域与是否找到
// 算法说明：
// 1. 将包围盒距离小于maxRadius的面域按下界入堆
// 2. 依次弹出下界最小者计算精确距离，更新最优解
// 3. 堆顶下界不小于当前最优距离时停止
// 距离相等时路口优先、再按ID从小到大
func (h *HDMap) NearestLane(poly orb.Polygon, maxRadius float64) (entity.AreaHit, bool) {
	if !geometry.Valid(poly) || maxRadius <= 0 {
		return entity.AreaHit{}, false
	}
	b := poly.Bound()
	pq := container.NewPriorityQueue[int]()
	for i, a := range h.areas {
		if d := boundDistance(a.bound, b); d < maxRadius {
			pq.Push(i, d)
		}
	}
	pq.Heapify()
	best, bestIndex := maxRadius, -1
	for pq.Len() > 0 {
		i, lower := pq.HeapPop()
		if lower > best {
			break
		}
		d := geometry.Distance(poly, h.areas[i].polygon)
		if d < best || (d == best && bestIndex >= 0 && i < bestIndex) {
			best, bestIndex = d, i
		}
	}
	if bestIndex < 0 {
		return entity.AreaHit{}, false
	}
	a := h.areas[bestIndex]
	return entity.AreaHit{ID: a.id, Kind: a.kind, Distance: best}, true
}

// FeaturesInRegion 查询与区域相交的指定类型要素
// 返回：要素列表，按ID排序
func (h *HDMap) FeaturesInRegion(region orb.Polygon, kind entity.FeatureKind) []entity.Feature {
	if !geometry.Valid(region) {
		return nil
	}
	b := region.Bound()
	res := make([]entity.Feature, 0)
	switch kind {
	case entity.FeatureCrosswalk:
		for _, c := range h.crosswalkManager.All() {
			if c.Bound().Intersects(b) && geometry.Intersects(region, c.Polygon()) {
				res = append(res, entity.Feature{ID: c.ID(), Kind: kind, Shape: c.Polygon()})
			}
		}
	case entity.FeatureJunction:
		for _, j := range h.junctionManager.All() {
			if j.Polygon() != nil && j.Bound().Intersects(b) && geometry.Intersects(region, j.Polygon()) {
				res = append(res, entity.Feature{ID: j.ID(), Kind: kind, Shape: j.Polygon()})
			}
		}
	case entity.FeatureStopSign:
		for _, s := range h.controlManager.StopSigns() {
			if s.IsStopSign() {
				res = appendStopLines(res, region, s, kind)
			}
		}
	case entity.FeatureSignal:
		for _, s := range h.controlManager.Signals() {
			res = appendStopLines(res, region, s, kind)
		}
	default:
		log.Warnf("unknown feature kind %v", kind)
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func appendStopLines(res []entity.Feature, region orb.Polygon, o entity.IStopLineOwner, kind entity.FeatureKind) []entity.Feature {
	if len(o.StopLines()) == 0 || !o.Bound().Intersects(region.Bound()) {
		return res
	}
	for _, line := range o.StopLines() {
		if geometry.Intersects(region, line) {
			res = append(res, entity.Feature{ID: o.ID(), Kind: kind, Shape: line})
		}
	}
	return res
}

// LaneMetadata 车道元数据
// 返回：非车道ID（包括路口ID）返回false
func (h *HDMap) LaneMetadata(id string) (entity.LaneMetadata, bool) {
	l, err := h.laneManager.GetOrError(id)
	if err != nil {
		return entity.LaneMetadata{}, false
	}
	md := entity.LaneMetadata{
		ID:       l.ID(),
		Turn:     l.Turn(),
		Leftmost: l.Leftmost(),
	}
	if r := l.ParentRoad(); r != nil {
		md.RoadID = r.ID()
		md.LaneCount = int32(r.LaneCount())
	}
	return md, true
}

// SameRoad 两条车道是否位于同一道路
// 说明：任一车道不存在或未登记在道路中时返回false
func (h *HDMap) SameRoad(a, b string) bool {
	ma, okA := h.LaneMetadata(a)
	mb, okB := h.LaneMetadata(b)
	return okA && okB && ma.RoadID != "" && ma.RoadID == mb.RoadID
}

// SignalStopLines 信号灯的停止线
func (h *HDMap) SignalStopLines(id string) ([]orb.LineString, bool) {
	s, err := h.controlManager.Signal(id)
	if err != nil || len(s.StopLines()) == 0 {
		return nil, false
	}
	return s.StopLines(), true
}

// JunctionPolygon 路口面域
func (h *HDMap) JunctionPolygon(id string) (orb.Polygon, bool) {
	j, err := h.junctionManager.GetOrError(id)
	if err != nil || j.Polygon() == nil {
		return nil, false
	}
	return j.Polygon(), true
}
