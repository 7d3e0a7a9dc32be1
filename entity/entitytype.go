package entity

import (
	"github.com/paulmach/orb"
)

// entity/lane/lane.go的依赖倒置
type ILane interface {
	// 初始化

	SetParentRoadWhenInit(parent IRoad, offset int) // 设置lane所在road的指针与偏移量
	SetParentJunctionWhenInit(parent IJunction)     // 设置lane所在junction

	// Print

	String() string

	// getter

	ID() string                 // 获取Lane ID
	Length() float64            // 获取Lane长度
	Turn() int32                // 获取Lane转向类型
	CenterLine() orb.LineString // 获取Lane的中心线
	Polygon() orb.Polygon       // 获取Lane的面域（左边界+反向右边界），缺失边界时为nil
	Bound() orb.Bound           // 获取Lane面域的包围盒
	OffsetInRoad() int          // Road Lane在Road中的偏移量
	Leftmost() bool             // 是否为最左侧车道（无左侧同向邻接车道）
	JunctionID() string         // 获取地图中声明的所在路口ID
	ParentRoad() IRoad          // 获取Lane所在的Road
	ParentJunction() IJunction  // 获取Lane所在的Junction
}

// entity/road/road.go的依赖倒置
type IRoad interface {
	String() string

	ID() string       // 获取Road ID
	Lanes() []ILane   // 获取Road的所有Lane，按地图顺序
	LaneCount() int   // 获取Road的车道数
	Junction() string // 获取Road所属的Junction ID（普通道路为空）
}

// entity/junction/junction.go的依赖倒置
type IJunction interface {
	String() string

	ID() string           // 获取Junction ID
	Polygon() orb.Polygon // 获取Junction面域
	Bound() orb.Bound     // 获取Junction面域的包围盒
	Lanes() []ILane       // 获取Junction内的所有车道
	Centroid() orb.Point  // 获取Junction形心
}

// entity/crosswalk/crosswalk.go的依赖倒置
type ICrosswalk interface {
	ID() string           // 获取人行横道ID
	Polygon() orb.Polygon // 获取人行横道面域
	Bound() orb.Bound     // 获取包围盒
	Centroid() orb.Point  // 获取形心
}

// entity/junction/trafficlight的依赖倒置
type IStopLineOwner interface {
	ID() string                  // 获取ID
	StopLines() []orb.LineString // 获取停止线
	Bound() orb.Bound            // 获取所有停止线的包围盒
}

// 信号灯
type ISignal interface {
	IStopLineOwner
	SubsignalTypes() []string // 获取子灯类型列表
}

// 停车让行标志
type IStopSign interface {
	IStopLineOwner
	IsStopSign() bool // 标志类型是否为停车让行
}
