// Package relation 障碍物与自车的空间关系
package relation

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity"
	"github.com/tsinghua-fib-lab/trace-postprocess/geometry"
	"github.com/tsinghua-fib-lab/trace-postprocess/trace"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/config"
)

// EgoState 计算空间关系所需的自车状态
type EgoState struct {
	Polygon orb.Polygon    // 自车多边形，不可用时为nil
	Front   orb.Point      // 车头中点
	Heading float64        // 朝向（弧度）
	Width   float64        // 车宽
	Lane    *trace.LaneRef // 自车所在车道
}

// Relations 前方障碍物
type Relations struct {
	NPCAhead    *int32
	PedAhead    *int32
	NPCOpposite *int32
}

// Calculator 空间关系计算器
type Calculator struct {
	m           entity.IMapQuery
	sector      geometry.SectorParams
	opposite    geometry.SectorParams
	oppositeDeg float64
}

// New 由任务上下文创建空间关系计算器
func New(ctx entity.ITaskContext) *Calculator {
	c := ctx.RuntimeConfig().C
	return NewCalculator(ctx.Map(), c.Sector, c.Threshold)
}

// NewCalculator 创建空间关系计算器
// 参数：m-地图查询服务，s-前方扇形参数，t-阈值参数
func NewCalculator(m entity.IMapQuery, s config.SectorConfig, t config.ThresholdConfig) *Calculator {
	return &Calculator{
		m:           m,
		sector:      geometry.SectorParams{HalfAngle: s.HalfAngle, MaxRange: s.MaxRange, ArcSegments: s.ArcSegments},
		opposite:    geometry.SectorParams{HalfAngle: s.HalfAngle, MaxRange: s.OppositeRange, ArcSegments: s.ArcSegments},
		oppositeDeg: t.Opposite,
	}
}

// DistToEgo 障碍物到自车的距离
// 返回：任一多边形不可用时为trace.Unavailable
func DistToEgo(ego, obs orb.Polygon) float64 {
	if !geometry.Valid(ego) || !geometry.Valid(obs) {
		return trace.Unavailable
	}
	return geometry.Distance(ego, obs)
}

// closer 障碍物o是否比当前最优更近，距离相等时ID较小者更近
func closer(o *trace.Obstacle, best float64, bestID *int32) bool {
	if o.DistToEgo != best {
		return o.DistToEgo < best
	}
	return bestID != nil && o.ID < *bestID
}

// Nearest 最近障碍物
// 功能：在DistToEgo严格小于trace.DefaultDistance的障碍物中取最近者
// 返回：最小距离（没有障碍物时为trace.DefaultDistance）与其ID
func Nearest(obs []trace.Obstacle) (float64, *int32) {
	best := trace.DefaultDistance
	var id *int32
	for i := range obs {
		if closer(&obs[i], best, id) {
			best = obs[i].DistToEgo
			v := obs[i].ID
			id = &v
		}
	}
	return best, id
}

// Relate 计算前方车辆、前方行人与对向车辆
// 功能：
// 1. 前方车辆：与前方扇形相交的车辆，且与自车同车道；自车在路口内时不要求同车道
// 2. 前方行人：与前方扇形相交的行人
// 3. 对向车辆：与短距离前方扇形相交，且朝向差严格大于对向阈值的车辆
// 说明：各项均取DistToEgo最小者，相等时取ID较小者；自车多边形不可用时全部为nil
func (c *Calculator) Relate(ego EgoState, obs []trace.Obstacle) Relations {
	var res Relations
	if !geometry.Valid(ego.Polygon) || !geometry.Finite(ego.Front) {
		log.Debug("ego polygon unavailable, skip relations")
		return res
	}
	ahead := geometry.ForwardSector(ego.Front, ego.Heading, ego.Width, c.sector)
	opposite := geometry.ForwardSector(ego.Front, ego.Heading, ego.Width, c.opposite)

	npcBest, pedBest, oppBest := math.Inf(1), math.Inf(1), math.Inf(1)
	for i := range obs {
		o := &obs[i]
		if o.Polygon == nil {
			continue
		}
		switch o.Type {
		case trace.Vehicle:
			if sameLaneOrJunction(ego.Lane, o.CurrentLane) && closer(o, npcBest, res.NPCAhead) && geometry.Intersects(ahead, o.Polygon) {
				npcBest, res.NPCAhead = o.DistToEgo, idOf(o)
			}
			if geometry.Degrees(geometry.HeadingDiff(ego.Heading, o.Theta)) > c.oppositeDeg &&
				closer(o, oppBest, res.NPCOpposite) && geometry.Intersects(opposite, o.Polygon) {
				oppBest, res.NPCOpposite = o.DistToEgo, idOf(o)
			}
		case trace.Pedestrian:
			if closer(o, pedBest, res.PedAhead) && geometry.Intersects(ahead, o.Polygon) {
				pedBest, res.PedAhead = o.DistToEgo, idOf(o)
			}
		}
	}
	return res
}

func idOf(o *trace.Obstacle) *int32 {
	id := o.ID
	return &id
}

// sameLaneOrJunction 障碍物是否可作为前方车辆
// 说明：自车在路口内时总是成立；自车在车道上时要求障碍物位于同一车道；自车车道未知时不成立
func sameLaneOrJunction(ego, obs *trace.LaneRef) bool {
	if ego.IsJunction() {
		return true
	}
	return ego.IsLane() && obs.IsLane() && ego.ID == obs.ID
}

// classifyRule 障碍物分类规则
type classifyRule struct {
	label trace.Label
	match func(sameRoad func(a, b *trace.LaneRef) bool, ego, obs *trace.LaneRef) bool
}

// classifyRules 按顺序匹配，首个命中的规则生效
var classifyRules = []classifyRule{
	{trace.NextToEgo, func(sameRoad func(a, b *trace.LaneRef) bool, ego, obs *trace.LaneRef) bool {
		return ego.IsLane() && obs.IsLane() && (ego.ID == obs.ID || sameRoad(ego, obs))
	}},
	{trace.OnTheDifferentRoad, func(_ func(a, b *trace.LaneRef) bool, ego, obs *trace.LaneRef) bool {
		return ego.IsLane() && obs.IsLane()
	}},
	{trace.InTheJunction, func(_ func(a, b *trace.LaneRef) bool, ego, obs *trace.LaneRef) bool {
		return obs.IsJunction() && (ego.IsLane() || ego.IsJunction())
	}},
	{trace.EgoInJunctionLane, func(_ func(a, b *trace.LaneRef) bool, ego, obs *trace.LaneRef) bool {
		return ego.IsJunction() && obs.IsLane()
	}},
}

// sameRoad 两个车道引用是否在同一道路上
func (c *Calculator) sameRoad(a, b *trace.LaneRef) bool {
	return a.IsLane() && b.IsLane() && c.m.SameRoad(a.ID, b.ID)
}

// Classify 按自车与障碍物所在车道对障碍物分类
// 返回：分类标签，任一车道未知时为nil
func (c *Calculator) Classify(ego, obs *trace.LaneRef) *trace.Label {
	for _, r := range classifyRules {
		if r.match(c.sameRoad, ego, obs) {
			label := r.label
			return &label
		}
	}
	return nil
}

// Classification 对全部障碍物分类
// 功能：将分类标签写入每个障碍物，并按标签分组
// 参数：egoLane-自车所在车道，obs-障碍物列表（原地写入Classification）
// 返回：标签到障碍物条目的映射，全部标签均存在，无障碍物的标签为空列表
func (c *Calculator) Classification(egoLane *trace.LaneRef, obs []trace.Obstacle) map[trace.Label][]trace.ClassifiedObstacle {
	res := make(map[trace.Label][]trace.ClassifiedObstacle, len(trace.Labels))
	for _, l := range trace.Labels {
		res[l] = make([]trace.ClassifiedObstacle, 0)
	}
	for i := range obs {
		o := &obs[i]
		o.Classification = c.Classify(egoLane, o.CurrentLane)
		if o.Classification == nil {
			continue
		}
		res[*o.Classification] = append(res[*o.Classification], entry(o))
	}
	return res
}

func entry(o *trace.Obstacle) trace.ClassifiedObstacle {
	e := trace.ClassifiedObstacle{
		Name: o.ID,
		Type: o.CurrentLane.Kind,
		Turn: o.CurrentLane.Turn,
	}
	id := o.CurrentLane.ID
	if o.CurrentLane.IsJunction() {
		e.JunctionID = &id
	} else {
		e.LaneID = &id
	}
	return e
}
