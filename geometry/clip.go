package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// OverlapArea 计算多边形与凸多边形的重叠面积
// 功能：用Sutherland–Hodgman算法以凸多边形clip裁剪subject，返回裁剪结果的面积
// 参数：subject-被裁剪多边形（可为凹多边形，如车道），clip-凸多边形（如车辆矩形）
// 返回：重叠面积，无重叠时为0
func OverlapArea(subject, clip orb.Polygon) float64 {
	if !Valid(subject) || !Valid(clip) {
		return 0
	}
	if !subject.Bound().Intersects(clip.Bound()) {
		return 0
	}
	out := openRing(subject[0])
	window := openRing(clip[0])
	if closeRing(window).Orientation() == orb.CW {
		window = reversed(window)
	}
	for i := range window {
		a, b := window[i], window[(i+1)%len(window)]
		if len(out) == 0 {
			return 0
		}
		in := out
		out = make([]orb.Point, 0, len(in)+2)
		for j := range in {
			cur, prev := in[j], in[(j+len(in)-1)%len(in)]
			curIn, prevIn := orient(a, b, cur) >= 0, orient(a, b, prev) >= 0
			if curIn {
				if !prevIn {
					out = append(out, lineIntersection(prev, cur, a, b))
				}
				out = append(out, cur)
			} else if prevIn {
				out = append(out, lineIntersection(prev, cur, a, b))
			}
		}
	}
	if len(out) < 3 {
		return 0
	}
	ring := append(orb.Ring(out), out[0])
	return planar.Area(orb.Polygon{ring})
}

func openRing(r orb.Ring) []orb.Point {
	if r.Closed() {
		return append([]orb.Point{}, r[:len(r)-1]...)
	}
	return append([]orb.Point{}, r...)
}

func reversed(pts []orb.Point) []orb.Point {
	res := make([]orb.Point, len(pts))
	for i, p := range pts {
		res[len(pts)-1-i] = p
	}
	return res
}

// lineIntersection 线段pq与直线ab的交点
func lineIntersection(p, q, a, b orb.Point) orb.Point {
	d1 := orient(a, b, p)
	d2 := orient(a, b, q)
	t := d1 / (d1 - d2)
	return orb.Point{p[0] + t*(q[0]-p[0]), p[1] + t*(q[1]-p[1])}
}
