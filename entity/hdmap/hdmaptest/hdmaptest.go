// Package hdmaptest 提供测试用的小型地图
package hdmaptest

import (
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
)

func curve(pts ...[2]float64) mapdata.Curve {
	seg := &mapdata.LineSegment{}
	for _, p := range pts {
		seg.Point = append(seg.Point, mapdata.Point{X: p[0], Y: p[1]})
	}
	return mapdata.Curve{Segment: []mapdata.CurveSegment{{LineSegment: seg}}}
}

func ids(s ...string) []mapdata.ID {
	res := make([]mapdata.ID, 0, len(s))
	for _, id := range s {
		res = append(res, mapdata.ID{ID: id})
	}
	return res
}

func rect(x0, y0, x1, y1 float64) mapdata.Polygon {
	return mapdata.Polygon{Point: []mapdata.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}}
}

// Lane 构造沿x轴的直车道
// 参数：x0,x1-起止横坐标，yRight,yLeft-行驶方向右/左边界的纵坐标，left-左侧同向邻接车道
// 说明：x0<x1时车道朝+x行驶，否则朝-x行驶
func Lane(id string, x0, x1, yRight, yLeft float64, left ...string) mapdata.Lane {
	c := curve([2]float64{x0, (yRight + yLeft) / 2}, [2]float64{x1, (yRight + yLeft) / 2})
	l := mapdata.Lane{
		ID:                        mapdata.ID{ID: id},
		Turn:                      1,
		CentralCurve:              &c,
		LeftBoundary:              &mapdata.Boundary{Curve: curve([2]float64{x0, yLeft}, [2]float64{x1, yLeft})},
		RightBoundary:             &mapdata.Boundary{Curve: curve([2]float64{x0, yRight}, [2]float64{x1, yRight})},
		LeftNeighborForwardLaneID: ids(left...),
	}
	return l
}

func road(id string, lanes ...string) mapdata.Road {
	return mapdata.Road{
		ID:      mapdata.ID{ID: id},
		Section: []mapdata.RoadSection{{ID: mapdata.ID{ID: "1"}, LaneID: ids(lanes...)}},
	}
}

// StraightRoad 双车道直路，朝+x方向，x∈[-100,1000]，没有任何路口、人行横道与停止线
// 车道l1：y∈[0,3.5]，车道l2：y∈[3.5,7]（最左侧）
func StraightRoad() *mapdata.Map {
	return &mapdata.Map{
		Name: "straight",
		Lane: []mapdata.Lane{
			Lane("l1", -100, 1000, 0, 3.5, "l2"),
			Lane("l2", -100, 1000, 3.5, 7),
		},
		Road: []mapdata.Road{road("r1", "l1", "l2")},
	}
}

// Intersection 直路接十字路口
// 布局（朝+x行驶）：
//   - 道路r1：车道l1 y∈[0,3.5]、l2 y∈[3.5,7]，x∈[0,100]
//   - 对向道路r3：车道l5 y∈[-3.5,0]，x从100到0
//   - 停车让行停止线ss1：x=94；信号灯sig1停止线：x=95.5
//   - 人行横道c1：x∈[96,100]
//   - 路口j1：x∈[100,130]，y∈[-10,17]，内部车道jl1 y∈[0,3.5]
//   - 道路r2：车道l3、l4，x∈[130,300]
func Intersection() *mapdata.Map {
	jl1 := Lane("jl1", 100, 130, 0, 3.5)
	jl1.JunctionID = &mapdata.ID{ID: "j1"}
	jl1.Turn = 2
	return &mapdata.Map{
		Name: "intersection",
		Lane: []mapdata.Lane{
			Lane("l1", 0, 100, 0, 3.5, "l2"),
			Lane("l2", 0, 100, 3.5, 7),
			Lane("l3", 130, 300, 0, 3.5, "l4"),
			Lane("l4", 130, 300, 3.5, 7),
			Lane("l5", 100, 0, 0, -3.5),
			jl1,
		},
		Road: []mapdata.Road{
			road("r1", "l1", "l2"),
			road("r2", "l3", "l4"),
			road("r3", "l5"),
		},
		Junction:  []mapdata.Junction{{ID: mapdata.ID{ID: "j1"}, Polygon: rect(100, -10, 130, 17)}},
		Crosswalk: []mapdata.Crosswalk{{ID: mapdata.ID{ID: "c1"}, Polygon: rect(96, -4, 100, 8)}},
		StopSign: []mapdata.StopSign{{
			ID:       mapdata.ID{ID: "ss1"},
			StopLine: []mapdata.Curve{curve([2]float64{94, 0}, [2]float64{94, 7})},
			Type:     "FOUR_WAY",
		}},
		Signal: []mapdata.Signal{{
			ID:        mapdata.ID{ID: "sig1"},
			Subsignal: []mapdata.Subsignal{{ID: mapdata.ID{ID: "0"}, Type: "CIRCLE"}},
			StopLine:  []mapdata.Curve{curve([2]float64{95.5, 0}, [2]float64{95.5, 7})},
			Type:      "MIX_3_VERTICAL",
		}},
	}
}
