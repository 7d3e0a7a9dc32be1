package lane

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity"
	"github.com/tsinghua-fib-lab/trace-postprocess/geometry"
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
)

// Lane 车道实体
// 功能：表示高精地图中的车道，包含中心线、面域、转向类型与所属道路等静态信息
type Lane struct {
	id string

	turn           int32            // 转向类型
	length         float64          // 车道长度
	speedLimit     float64          // 限速
	centerLine     orb.LineString   // 中心线
	polygon        orb.Polygon      // 面域，左边界+反向右边界
	bound          orb.Bound        // 面域包围盒
	leftmost       bool             // 无左侧同向邻接车道
	leftNeighbors  []string         // 左侧同向邻接车道ID
	rightNeighbors []string         // 右侧同向邻接车道ID
	junctionID     string           // 地图中声明的所在路口
	parentJunction entity.IJunction // 所在路口
	parentRoad     entity.IRoad     // 所在道路
	offsetInRoad   int              // 在道路中的索引
}

// newLane 创建并初始化一个新的Lane实例
// 功能：根据地图数据创建Lane对象，由左右边界构造车道面域
// 参数：base-地图车道数据
// 返回：初始化完成的Lane实例
// 说明：边界缺失或点数不足时面域为空，该车道不参与空间查询
func newLane(base *mapdata.Lane) *Lane {
	l := &Lane{
		id:           base.ID.ID,
		turn:         base.Turn,
		length:       base.Length,
		speedLimit:   base.SpeedLimit,
		centerLine:   base.CentralCurve.Points(),
		leftmost:     len(base.LeftNeighborForwardLaneID) == 0,
		offsetInRoad: -1,
		leftNeighbors: lo.Map(base.LeftNeighborForwardLaneID, func(id mapdata.ID, _ int) string {
			return id.ID
		}),
		rightNeighbors: lo.Map(base.RightNeighborForwardLaneID, func(id mapdata.ID, _ int) string {
			return id.ID
		}),
	}
	if base.JunctionID != nil {
		l.junctionID = base.JunctionID.ID
	}
	var left, right orb.LineString
	if base.LeftBoundary != nil {
		left = base.LeftBoundary.Curve.Points()
	}
	if base.RightBoundary != nil {
		right = base.RightBoundary.Curve.Points()
	}
	if len(left) > 0 && len(right) > 0 && len(left)+len(right) >= 3 {
		ring := append(orb.Ring{}, left...)
		for i := len(right) - 1; i >= 0; i-- {
			ring = append(ring, right[i])
		}
		ring = append(ring, ring[0])
		l.polygon = orb.Polygon{ring}
		l.bound = l.polygon.Bound()
		if !geometry.Valid(l.polygon) {
			log.Warnf("lane %s has invalid boundary, skip spatial index", l.id)
			l.polygon = nil
		}
	} else {
		log.Warnf("lane %s has no complete boundary, skip spatial index", l.id)
	}
	if l.length == 0 {
		l.length = planar.Length(l.centerLine)
	}
	return l
}

// 数据初始化

// SetParentRoadWhenInit 设置lane所在road与偏移量
// 参数：parent-所属道路，offset-在道路中的偏移量（按地图中车道顺序）
func (l *Lane) SetParentRoadWhenInit(parent entity.IRoad, offset int) {
	if l.parentRoad != nil && l.parentRoad != parent {
		log.Warnf("%v is registered in both %v and %v, keep the first", l, l.parentRoad, parent)
		return
	}
	l.parentRoad = parent
	l.offsetInRoad = offset
}

// SetParentJunctionWhenInit 设置lane所在junction
func (l *Lane) SetParentJunctionWhenInit(parent entity.IJunction) {
	l.parentJunction = parent
}

// 静态数据

func (l *Lane) String() string {
	return fmt.Sprintf("Lane %s", l.id)
}

// 获取Lane ID
func (l *Lane) ID() string {
	if l == nil {
		return ""
	}
	return l.id
}

// 获取Lane长度
func (l *Lane) Length() float64 {
	return l.length
}

// 获取Lane转向类型
func (l *Lane) Turn() int32 {
	return l.turn
}

// 获取Lane限速
func (l *Lane) SpeedLimit() float64 {
	return l.speedLimit
}

// 获取Lane的中心线
func (l *Lane) CenterLine() orb.LineString {
	return l.centerLine
}

// 获取Lane面域
func (l *Lane) Polygon() orb.Polygon {
	return l.polygon
}

// 获取Lane面域的包围盒
func (l *Lane) Bound() orb.Bound {
	return l.bound
}

// Road Lane在Road中的偏移量，不在任何道路中时为-1
func (l *Lane) OffsetInRoad() int {
	return l.offsetInRoad
}

// 是否为最左侧车道
func (l *Lane) Leftmost() bool {
	return l.leftmost
}

// 获取左侧同向邻接车道ID
func (l *Lane) LeftNeighbors() []string {
	return l.leftNeighbors
}

// 获取右侧同向邻接车道ID
func (l *Lane) RightNeighbors() []string {
	return l.rightNeighbors
}

// 获取地图中声明的所在路口ID
func (l *Lane) JunctionID() string {
	return l.junctionID
}

// 获取Lane所在的Road
func (l *Lane) ParentRoad() entity.IRoad {
	return l.parentRoad
}

// 获取Lane所在的Junction
func (l *Lane) ParentJunction() entity.IJunction {
	return l.parentJunction
}
