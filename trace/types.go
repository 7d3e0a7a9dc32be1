package trace

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/paulmach/orb"
)

// 距离类字段的哨兵值
const (
	Unavailable     = 999.0 // 不可用或超出范围的距离
	DefaultDistance = 200.0 // minDistToEgo的默认值
)

// Timestamp 时间戳（单位由上游决定，要求唯一且严格递增）
type Timestamp = int64

// Vec3 三维向量
type Vec3 struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// Point 取平面坐标
func (v Vec3) Point() orb.Point {
	return orb.Point{v.X, v.Y}
}

// Norm 平面模长
func (v Vec3) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Finite 检查平面分量是否有限
func (v Vec3) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// TurnSignal 规划转向灯
type TurnSignal int32

const (
	TurnStraight TurnSignal = 0
	TurnLeft     TurnSignal = 1
	TurnRight    TurnSignal = 2
)

// Active 转向灯是否开启
func (s TurnSignal) Active() bool {
	return s == TurnLeft || s == TurnRight
}

func (s TurnSignal) String() string {
	switch s {
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	default:
		return "straight"
	}
}

// ObstacleType 障碍物类型
type ObstacleType string

const (
	Vehicle    ObstacleType = "VEHICLE"
	Pedestrian ObstacleType = "PEDESTRIAN"
	Bicycle    ObstacleType = "BICYCLE"
	Unknown    ObstacleType = "UNKNOWN"
)

// UnmarshalJSON 未知类型统一归为UNKNOWN
func (t *ObstacleType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch ObstacleType(strings.ToUpper(s)) {
	case Vehicle:
		*t = Vehicle
	case Pedestrian:
		*t = Pedestrian
	case Bicycle:
		*t = Bicycle
	default:
		*t = Unknown
	}
	return nil
}

// LaneKind 车道引用类型
type LaneKind string

const (
	KindLane     LaneKind = "lane"
	KindJunction LaneKind = "junction"
)

// LaneRef 车道引用
// 说明：nil表示不在任何已知车道或路口内
type LaneRef struct {
	ID       string   `json:"currentLaneId"`
	Kind     LaneKind `json:"type"`
	Turn     int32    `json:"turn"`     // 车道转向类型，路口为0
	Number   int32    `json:"number"`   // 所在道路的车道数，路口为0
	Leftmost bool     `json:"leftmost"` // 是否为最左侧车道
	RoadID   string   `json:"roadId,omitempty"`
}

// IsLane 是否为道路车道
func (r *LaneRef) IsLane() bool {
	return r != nil && r.Kind == KindLane
}

// IsJunction 是否为路口
func (r *LaneRef) IsJunction() bool {
	return r != nil && r.Kind == KindJunction
}

// Pose 自车位姿
type Pose struct {
	Position           Vec3    `json:"position"`
	Heading            float64 `json:"heading"`
	LinearVelocity     Vec3    `json:"linearVelocity"`
	LinearAcceleration Vec3    `json:"linearAcceleration"`
	AngularVelocity    Vec3    `json:"angularVelocity"`
}

// Size 车辆尺寸
type Size struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
}

// Chassis 底盘状态
type Chassis struct {
	SpeedMps           float64 `json:"speedMps"`
	Gear               int32   `json:"gearLocation"`
	ThrottlePercentage float64 `json:"throttlePercentage"`
	BrakePercentage    float64 `json:"brakePercentage"`
	SteeringPercentage float64 `json:"steeringPercentage"`
}

// Ego 自车记录
// 说明：输入字段来自对齐后的原始快照，派生字段由后处理写入，写入后不再修改
type Ego struct {
	Pose         Pose       `json:"pose"`
	Size         Size       `json:"size"`
	Chassis      Chassis    `json:"chassis"`
	TurnSignal   TurnSignal `json:"planningTurnSignal"`
	IsOverTaking bool       `json:"isOverTaking"`

	// 派生字段

	Speed             float64  `json:"speed"`
	CurrentLane       *LaneRef `json:"currentLane"`
	CrosswalkAhead    float64  `json:"crosswalkAhead"`
	JunctionAhead     float64  `json:"junctionAhead"`
	JunctionAheadID   *string  `json:"junctionAheadId"`
	StopSignAhead     float64  `json:"stopSignAhead"`
	StoplineAhead     float64  `json:"stoplineAhead"`
	IsTrafficJam      bool     `json:"isTrafficJam"`
	IsLaneChanging    bool     `json:"isLaneChanging"`
	IsTurningAround   bool     `json:"isTurningAround"`
	PriorityNPCAhead  bool     `json:"PriorityNPCAhead"`
	PriorityPedsAhead bool     `json:"PriorityPedsAhead"`
	ReachDestination  bool     `json:"reachDestination"`

	Polygon orb.Polygon `json:"-"` // 自车多边形，不可用时为nil
}

// Label 障碍物分类标签
type Label string

const (
	NextToEgo             Label = "NextToEgo"
	OnTheDifferentRoad    Label = "OntheDifferentRoad"
	InTheJunction         Label = "IntheJunction"
	EgoInJunctionLane     Label = "EgoInjunction_Lane"
	EgoInJunctionJunction Label = "EgoInjunction_junction"
)

// Labels 全部分类标签
var Labels = []Label{NextToEgo, OnTheDifferentRoad, InTheJunction, EgoInJunctionLane, EgoInJunctionJunction}

// Obstacle 障碍物
type Obstacle struct {
	ID            int32        `json:"id"`
	Type          ObstacleType `json:"type"`
	Position      Vec3         `json:"position"`
	Velocity      Vec3         `json:"velocity"`
	Theta         float64      `json:"theta"`
	Length        float64      `json:"length"`
	Width         float64      `json:"width"`
	Height        float64      `json:"height"`
	PolygonPoints []Vec3       `json:"polygonPoint,omitempty"`

	// 派生字段

	Speed          float64  `json:"speed"`
	DistToEgo      float64  `json:"distToEgo"`
	CurrentLane    *LaneRef `json:"currentLane"`
	Classification *Label   `json:"classification"`

	Polygon orb.Polygon `json:"-"`
}

// ClassifiedObstacle 分类结果中的障碍物条目
type ClassifiedObstacle struct {
	Name       int32    `json:"name"`
	Type       LaneKind `json:"type"`
	LaneID     *string  `json:"laneId,omitempty"`
	JunctionID *string  `json:"junctionId,omitempty"`
	Turn       int32    `json:"turn"`
}

// Truth 真值感知
type Truth struct {
	ObsList           []Obstacle                     `json:"obsList"`
	MinDistToEgo      float64                        `json:"minDistToEgo"`
	NearestGtObs      *int32                         `json:"nearestGtObs"`
	NPCAhead          *int32                         `json:"NPCAhead"`
	PedAhead          *int32                         `json:"PedAhead"`
	NPCOpposite       *int32                         `json:"NPCOpposite"`
	NPCClassification map[Label][]ClassifiedObstacle `json:"npcClassification"`
}

// TrafficLight 检测到的信号灯
type TrafficLight struct {
	ID         string  `json:"id"`
	Color      string  `json:"color"`
	Confidence float64 `json:"confidence"`
	Blink      bool    `json:"blink"`
}

// TrafficLights 信号灯列表与派生信息
type TrafficLights struct {
	List             []TrafficLight `json:"trafficLight"`
	Nearest          *int           `json:"nearest"`          // 最近信号灯在List中的下标
	StopLineDistance *float64       `json:"stopLineDistance"` // 自车到最近信号灯停止线的距离
}

// Snapshot 单个时间戳的快照
type Snapshot struct {
	Timestamp     Timestamp     `json:"timestamp"`
	Ego           Ego           `json:"ego"`
	Truth         Truth         `json:"truth"`
	TrafficLights TrafficLights `json:"trafficLights"`
}

// Diagnostic 单时刻的降级诊断记录
type Diagnostic struct {
	Timestamp Timestamp `json:"timestamp"`
	Component string    `json:"component"`
	Message   string    `json:"message"`
}
