package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const eps = 1e-9

type segment struct {
	a, b orb.Point
}

// edges 取出几何体的所有线段
func edges(g orb.Geometry) []segment {
	switch g := g.(type) {
	case orb.LineString:
		return lineEdges(g, false)
	case orb.Ring:
		return lineEdges(g, true)
	case orb.Polygon:
		res := make([]segment, 0)
		for _, r := range g {
			res = append(res, lineEdges(r, true)...)
		}
		return res
	case orb.MultiPolygon:
		res := make([]segment, 0)
		for _, p := range g {
			res = append(res, edges(p)...)
		}
		return res
	}
	return nil
}

func lineEdges(pts []orb.Point, closed bool) []segment {
	if len(pts) < 2 {
		return nil
	}
	res := make([]segment, 0, len(pts))
	for i := 0; i+1 < len(pts); i++ {
		res = append(res, segment{pts[i], pts[i+1]})
	}
	if closed && !pts[0].Equal(pts[len(pts)-1]) {
		res = append(res, segment{pts[len(pts)-1], pts[0]})
	}
	return res
}

// vertices 取出几何体的所有顶点
func vertices(g orb.Geometry) []orb.Point {
	switch g := g.(type) {
	case orb.Point:
		return []orb.Point{g}
	case orb.LineString:
		return g
	case orb.Ring:
		return g
	case orb.Polygon:
		if len(g) == 0 {
			return nil
		}
		return g[0]
	case orb.MultiPolygon:
		res := make([]orb.Point, 0)
		for _, p := range g {
			res = append(res, vertices(p)...)
		}
		return res
	}
	return nil
}

// contains 判断面状几何体是否包含点（边界视为包含）
func contains(g orb.Geometry, p orb.Point) bool {
	switch g := g.(type) {
	case orb.Ring:
		return len(g) >= 3 && planar.RingContains(closeRing(g), p)
	case orb.Polygon:
		return len(g) > 0 && len(g[0]) >= 3 && planar.PolygonContains(closePolygon(g), p)
	case orb.MultiPolygon:
		for _, poly := range g {
			if contains(poly, p) {
				return true
			}
		}
	}
	return false
}

func closeRing(r orb.Ring) orb.Ring {
	if r.Closed() {
		return r
	}
	return append(append(orb.Ring{}, r...), r[0])
}

func closePolygon(p orb.Polygon) orb.Polygon {
	res := make(orb.Polygon, len(p))
	for i, r := range p {
		res[i] = closeRing(r)
	}
	return res
}

func orient(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return math.Min(a[0], b[0])-eps <= p[0] && p[0] <= math.Max(a[0], b[0])+eps &&
		math.Min(a[1], b[1])-eps <= p[1] && p[1] <= math.Max(a[1], b[1])+eps
}

func sign(v float64) int {
	switch {
	case v > eps:
		return 1
	case v < -eps:
		return -1
	}
	return 0
}

// segmentsIntersect 判断两线段是否相交（含端点接触与共线重叠）
func segmentsIntersect(s, t segment) bool {
	d1 := sign(orient(t.a, t.b, s.a))
	d2 := sign(orient(t.a, t.b, s.b))
	d3 := sign(orient(s.a, s.b, t.a))
	d4 := sign(orient(s.a, s.b, t.b))
	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}
	return (d1 == 0 && onSegment(t.a, t.b, s.a)) ||
		(d2 == 0 && onSegment(t.a, t.b, s.b)) ||
		(d3 == 0 && onSegment(s.a, s.b, t.a)) ||
		(d4 == 0 && onSegment(s.a, s.b, t.b))
}

// Intersects 判断两个几何体是否相交或接触
// 功能：支持点、折线、环、多边形之间的相交判断
// 算法说明：
// 1. 包围盒快速排除
// 2. 任意两条边相交则相交
// 3. 一方的任意顶点落在另一方内部则相交（处理完全包含的情况）
func Intersects(a, b orb.Geometry) bool {
	if a == nil || b == nil {
		return false
	}
	if !a.Bound().Pad(eps).Intersects(b.Bound()) {
		return false
	}
	ea, eb := edges(a), edges(b)
	for _, s := range ea {
		for _, t := range eb {
			if segmentsIntersect(s, t) {
				return true
			}
		}
	}
	va, vb := vertices(a), vertices(b)
	for _, p := range va {
		if contains(b, p) {
			return true
		}
	}
	for _, p := range vb {
		if contains(a, p) {
			return true
		}
	}
	if len(ea) == 0 && len(eb) == 0 {
		for _, p := range va {
			for _, q := range vb {
				if planar.Distance(p, q) <= eps {
					return true
				}
			}
		}
	}
	// 点与折线
	if len(ea) == 0 {
		for _, p := range va {
			for _, t := range eb {
				if planar.DistanceFromSegment(t.a, t.b, p) <= eps {
					return true
				}
			}
		}
	}
	if len(eb) == 0 {
		for _, p := range vb {
			for _, s := range ea {
				if planar.DistanceFromSegment(s.a, s.b, p) <= eps {
					return true
				}
			}
		}
	}
	return false
}

// Distance 两个几何体之间的最短距离
// 功能：计算点、折线、环、多边形两两之间的欧氏最短距离
// 参数：a,b-几何体
// 返回：非负距离，相交或接触时为0；任一几何体为空时返回+Inf
// 算法说明：不相交时最短距离必然出现在一方顶点到另一方边之间
func Distance(a, b orb.Geometry) float64 {
	if a == nil || b == nil {
		return math.Inf(1)
	}
	va, vb := vertices(a), vertices(b)
	if len(va) == 0 || len(vb) == 0 {
		return math.Inf(1)
	}
	if Intersects(a, b) {
		return 0
	}
	ea, eb := edges(a), edges(b)
	best := math.Inf(1)
	for _, p := range va {
		if len(eb) == 0 {
			for _, q := range vb {
				best = math.Min(best, planar.Distance(p, q))
			}
			continue
		}
		for _, t := range eb {
			best = math.Min(best, planar.DistanceFromSegment(t.a, t.b, p))
		}
	}
	for _, p := range vb {
		for _, s := range ea {
			best = math.Min(best, planar.DistanceFromSegment(s.a, s.b, p))
		}
	}
	return best
}
