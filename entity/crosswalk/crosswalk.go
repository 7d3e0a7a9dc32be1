package crosswalk

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/trace-postprocess/geometry"
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
)

// Crosswalk 人行横道实体
type Crosswalk struct {
	id       string
	polygon  orb.Polygon // 面域，首尾点相同
	bound    orb.Bound
	centroid orb.Point
	area     float64
}

// newCrosswalk 创建并初始化一个新的人行横道实例
// 功能：根据地图数据创建人行横道对象，计算面积、形心与包围盒
// 返回：初始化完成的实例，面域无效时返回nil
func newCrosswalk(base *mapdata.Crosswalk) *Crosswalk {
	poly := orb.Polygon{base.Polygon.Ring()}
	if !geometry.Valid(poly) {
		log.Warnf("crosswalk %s has invalid polygon, ignore", base.ID.ID)
		return nil
	}
	return &Crosswalk{
		id:       base.ID.ID,
		polygon:  poly,
		bound:    poly.Bound(),
		centroid: geometry.Centroid(poly),
		area:     geometry.Area(poly),
	}
}

func (c *Crosswalk) String() string {
	return fmt.Sprintf("Crosswalk %s", c.id)
}

// 获取人行横道ID
func (c *Crosswalk) ID() string {
	return c.id
}

// 获取人行横道面域
func (c *Crosswalk) Polygon() orb.Polygon {
	return c.polygon
}

// 获取包围盒
func (c *Crosswalk) Bound() orb.Bound {
	return c.bound
}

// 获取形心
func (c *Crosswalk) Centroid() orb.Point {
	return c.centroid
}

// 获取面积
func (c *Crosswalk) Area() float64 {
	return c.area
}
