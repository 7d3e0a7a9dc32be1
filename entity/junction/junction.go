package junction

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity"
	"github.com/tsinghua-fib-lab/trace-postprocess/geometry"
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
)

// Junction 路口实体
// 功能：表示地图中的路口面域及其内部车道
type Junction struct {
	id       string
	polygon  orb.Polygon
	bound    orb.Bound
	centroid orb.Point
	lanes    []entity.ILane // 路口内车道，按ID排序
}

// newJunction 创建并初始化一个新的Junction实例
// 功能：根据地图数据创建Junction对象，计算面域的包围盒与形心
// 说明：面域无效时polygon为nil，该路口不参与空间查询
func newJunction(base *mapdata.Junction) *Junction {
	j := &Junction{
		id:    base.ID.ID,
		lanes: make([]entity.ILane, 0),
	}
	poly := orb.Polygon{base.Polygon.Ring()}
	if geometry.Valid(poly) {
		j.polygon = poly
		j.bound = poly.Bound()
		j.centroid = geometry.Centroid(poly)
	} else {
		log.Warnf("junction %s has invalid polygon, skip spatial index", j.id)
	}
	return j
}

// addLane 登记路口内车道
func (j *Junction) addLane(l entity.ILane) {
	j.lanes = append(j.lanes, l)
	l.SetParentJunctionWhenInit(j)
}

func (j *Junction) String() string {
	return fmt.Sprintf("Junction %s", j.id)
}

// ID 获取Junction的唯一标识符
// 返回：Junction的ID，如果Junction为nil则返回空串
func (j *Junction) ID() string {
	if j == nil {
		return ""
	}
	return j.id
}

// 获取路口面域
func (j *Junction) Polygon() orb.Polygon {
	return j.polygon
}

// 获取路口面域的包围盒
func (j *Junction) Bound() orb.Bound {
	return j.bound
}

// Lanes 获取Junction内的所有车道
func (j *Junction) Lanes() []entity.ILane {
	return j.lanes
}

// 获取路口形心
func (j *Junction) Centroid() orb.Point {
	return j.centroid
}
