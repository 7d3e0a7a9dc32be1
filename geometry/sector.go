package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/r2"
)

// SectorParams 前方扇形区域参数
type SectorParams struct {
	HalfAngle   float64 // 半张角（度）
	MaxRange    float64 // 最大距离（米）
	ArcSegments int     // 圆弧离散段数
}

// ForwardSector 构造前方扇形区域
// 功能：以车头中点为起点、与车同宽的底边向前张开，远端为以车头中点为圆心、MaxRange为半径的圆弧
// 参数：front-车头中点，heading-朝向角，width-底边宽度（车宽），params-扇形参数
// 返回：逆时针闭合多边形
// 说明：正前方的覆盖距离恰为MaxRange
func ForwardSector(front orb.Point, heading, width float64, params SectorParams) orb.Polygon {
	n := max(params.ArcSegments, 1)
	half := Radians(params.HalfAngle)
	corners := make([]r2.Vec, 0, n+3)
	corners = append(corners, r2.Vec{X: 0, Y: -width / 2})
	for i := 0; i <= n; i++ {
		a := -half + 2*half*float64(i)/float64(n)
		corners = append(corners, r2.Vec{X: params.MaxRange * math.Cos(a), Y: params.MaxRange * math.Sin(a)})
	}
	corners = append(corners, r2.Vec{X: 0, Y: width / 2})
	return fromLocal(front, heading, corners...)
}

// FrontLeftArea 车尾起算的左前方正方形区域
// 功能：x∈[0,size]，y∈[0,size]（y轴指向左侧）
func FrontLeftArea(back orb.Point, heading, size float64) orb.Polygon {
	return fromLocal(back, heading,
		r2.Vec{X: 0, Y: 0},
		r2.Vec{X: size, Y: 0},
		r2.Vec{X: size, Y: size},
		r2.Vec{X: 0, Y: size},
	)
}

// FrontRightArea 车尾起算的右前方正方形区域
func FrontRightArea(back orb.Point, heading, size float64) orb.Polygon {
	return fromLocal(back, heading,
		r2.Vec{X: 0, Y: -size},
		r2.Vec{X: size, Y: -size},
		r2.Vec{X: size, Y: 0},
		r2.Vec{X: 0, Y: 0},
	)
}

// StripParams 后方侧向条带参数
type StripParams struct {
	Gap    float64 // 条带内侧与车身侧面的间隙
	Width  float64 // 条带宽度
	Length float64 // 条带向后延伸长度
}

// BackLeftArea 车尾起算的左后方条带
// 功能：条带内侧距车辆中线width/2+Gap，向后延伸Length
func BackLeftArea(back orb.Point, heading, egoWidth float64, p StripParams) orb.Polygon {
	inner := egoWidth/2 + p.Gap
	return fromLocal(back, heading,
		r2.Vec{X: -p.Length, Y: inner},
		r2.Vec{X: 0, Y: inner},
		r2.Vec{X: 0, Y: inner + p.Width},
		r2.Vec{X: -p.Length, Y: inner + p.Width},
	)
}

// BackRightArea 车尾起算的右后方条带
func BackRightArea(back orb.Point, heading, egoWidth float64, p StripParams) orb.Polygon {
	inner := egoWidth/2 + p.Gap
	return fromLocal(back, heading,
		r2.Vec{X: -p.Length, Y: -inner - p.Width},
		r2.Vec{X: 0, Y: -inner - p.Width},
		r2.Vec{X: 0, Y: -inner},
		r2.Vec{X: -p.Length, Y: -inner},
	)
}
