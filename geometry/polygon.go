package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r2"
)

// toWorld 车身坐标系转世界坐标系
// 功能：将以origin为原点、x轴沿heading方向（y轴指向左侧）的局部坐标转换为世界坐标
// 参数：origin-局部坐标系原点，heading-朝向角（弧度），local-局部坐标
// 返回：世界坐标点
func toWorld(origin orb.Point, heading float64, local r2.Vec) orb.Point {
	v := r2.Rotate(local, heading, r2.Vec{})
	return orb.Point{origin[0] + v.X, origin[1] + v.Y}
}

// fromLocal 由局部坐标角点构造闭合多边形
// 功能：将局部坐标系下按逆时针给出的角点转换为世界坐标并闭合成环
// 参数：origin-局部坐标系原点，heading-朝向角，corners-局部角点（逆时针）
// 返回：闭合的单环多边形
func fromLocal(origin orb.Point, heading float64, corners ...r2.Vec) orb.Polygon {
	ring := lo.Map(corners, func(c r2.Vec, _ int) orb.Point {
		return toWorld(origin, heading, c)
	})
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

// BuildPolygon 构造以中心点为基准的矩形
// 功能：根据中心点、朝向与长宽计算物体的四角多边形
// 参数：center-几何中心，heading-朝向角（弧度），length-长度，width-宽度
// 返回：逆时针闭合的矩形多边形（前右、前左、后左、后右）
func BuildPolygon(center orb.Point, heading, length, width float64) orb.Polygon {
	return buildBox(center, heading, length/2, length/2, width/2)
}

// BuildEgoPolygon 构造自车多边形
// 功能：以后轴中心为参考点构造自车矩形，车头方向外伸(length-wheelbase)/2+wheelbase，车尾外伸(length-wheelbase)/2
// 参数：center-后轴中心，heading-朝向角，length-车长，width-车宽，wheelbase-轴距
// 返回：逆时针闭合的矩形多边形
func BuildEgoPolygon(center orb.Point, heading, length, width, wheelbase float64) orb.Polygon {
	front, back := egoOverhang(length, wheelbase)
	return buildBox(center, heading, front, back, width/2)
}

func buildBox(center orb.Point, heading, front, back, halfWidth float64) orb.Polygon {
	return fromLocal(center, heading,
		r2.Vec{X: front, Y: -halfWidth},
		r2.Vec{X: front, Y: halfWidth},
		r2.Vec{X: -back, Y: halfWidth},
		r2.Vec{X: -back, Y: -halfWidth},
	)
}

func egoOverhang(length, wheelbase float64) (front, back float64) {
	back = (length - wheelbase) / 2
	return back + wheelbase, back
}

// HeadMiddlePoint 自车车头中点
func HeadMiddlePoint(center orb.Point, heading, length, wheelbase float64) orb.Point {
	front, _ := egoOverhang(length, wheelbase)
	return toWorld(center, heading, r2.Vec{X: front})
}

// BackMiddlePoint 自车车尾中点
func BackMiddlePoint(center orb.Point, heading, length, wheelbase float64) orb.Point {
	_, back := egoOverhang(length, wheelbase)
	return toWorld(center, heading, r2.Vec{X: -back})
}

// Centroid 多边形形心
func Centroid(p orb.Polygon) orb.Point {
	c, _ := planar.CentroidArea(p)
	return c
}

// Area 多边形面积（绝对值）
func Area(p orb.Polygon) float64 {
	return planar.Area(p)
}

// Valid 检查多边形是否可用于几何计算
// 功能：要求外环至少3个不同顶点且所有坐标有限
func Valid(p orb.Polygon) bool {
	if len(p) == 0 || len(p[0]) < 3 {
		return false
	}
	for _, pt := range p[0] {
		if !Finite(pt) {
			return false
		}
	}
	return true
}

// Finite 检查点坐标是否有限
func Finite(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsNaN(p[1]) && !math.IsInf(p[0], 0) && !math.IsInf(p[1], 0)
}

// HeadingDiff 两个朝向的夹角
// 功能：计算两个朝向角之差的绝对值并归一化到[0, π]
// 参数：a,b-朝向角（弧度，任意范围）
// 返回：夹角（弧度）
func HeadingDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// Degrees 弧度转角度
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Radians 角度转弧度
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
