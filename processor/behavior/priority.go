package behavior

import (
	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/trace-postprocess/geometry"
	"github.com/tsinghua-fib-lab/trace-postprocess/trace"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/config"
)

// 朝向差判定区间（度）
const (
	crossingMinDeg   = 45.0
	crossingMaxDeg   = 135.0
	sameDirectionDeg = 45.0
)

// EgoGeometry 优先通行判定所需的自车几何信息
type EgoGeometry struct {
	Back  orb.Point // 车尾中点
	Width float64   // 车宽
}

// priorityAreas 车尾起算的判定区域
type priorityAreas struct {
	ahead      orb.Polygon
	frontLeft  orb.Polygon
	frontRight orb.Polygon
	backLeft   orb.Polygon
	backRight  orb.Polygon
}

func (d *Detector) areas(ego *trace.Ego, g EgoGeometry) priorityAreas {
	p := d.threshold.Priority
	heading := ego.Pose.Heading
	strip := geometry.StripParams{Gap: p.StripGap, Width: p.StripWidth, Length: p.StripLength}
	return priorityAreas{
		ahead: geometry.ForwardSector(g.Back, heading, p.AreaRange, geometry.SectorParams{
			HalfAngle:   d.sector.HalfAngle,
			MaxRange:    p.AreaRange,
			ArcSegments: d.sector.ArcSegments,
		}),
		frontLeft:  geometry.FrontLeftArea(g.Back, heading, p.QuadrantSize),
		frontRight: geometry.FrontRightArea(g.Back, heading, p.QuadrantSize),
		backLeft:   geometry.BackLeftArea(g.Back, heading, g.Width, strip),
		backRight:  geometry.BackRightArea(g.Back, heading, g.Width, strip),
	}
}

// priorityCtx 单次判定的上下文
type priorityCtx struct {
	ego   *trace.Ego
	truth *trace.Truth
	areas priorityAreas
	p     config.PriorityConfig
}

// headingDiff 障碍物与自车的朝向差（度，[0,180]）
func (pc *priorityCtx) headingDiff(o *trace.Obstacle) float64 {
	return geometry.Degrees(geometry.HeadingDiff(pc.ego.Pose.Heading, o.Theta))
}

// priorityRule 优先通行判定规则，任一规则命中即为true
type priorityRule struct {
	name  string
	match func(pc *priorityCtx, o *trace.Obstacle) bool
}

var npcRules = []priorityRule{
	{"npc_ahead_too_close", func(pc *priorityCtx, o *trace.Obstacle) bool {
		return pc.truth.NPCAhead != nil && *pc.truth.NPCAhead == o.ID && o.DistToEgo < pc.p.AheadDistance
	}},
	{"crossing_while_turning", func(pc *priorityCtx, o *trace.Obstacle) bool {
		if o.Type != trace.Vehicle || !pc.ego.TurnSignal.Active() || pc.ego.IsLaneChanging {
			return false
		}
		diff := pc.headingDiff(o)
		return diff > crossingMinDeg && diff < crossingMaxDeg &&
			o.DistToEgo < pc.p.CrossingDistance && geometry.Intersects(pc.areas.ahead, o.Polygon)
	}},
	{"faster_behind_while_lane_changing", func(pc *priorityCtx, o *trace.Obstacle) bool {
		if o.Type != trace.Vehicle || !pc.ego.IsLaneChanging || pc.headingDiff(o) >= sameDirectionDeg {
			return false
		}
		if o.DistToEgo >= pc.p.LaneChangeDistance || o.Speed <= pc.ego.Speed {
			return false
		}
		switch pc.ego.TurnSignal {
		case trace.TurnLeft:
			return geometry.Intersects(pc.areas.backLeft, o.Polygon)
		case trace.TurnRight:
			return geometry.Intersects(pc.areas.backRight, o.Polygon)
		}
		return false
	}},
}

var pedRules = []priorityRule{
	{"ped_ahead_going_straight", func(pc *priorityCtx, o *trace.Obstacle) bool {
		return o.Type == trace.Pedestrian && pc.ego.TurnSignal == trace.TurnStraight &&
			o.DistToEgo < pc.p.PedAheadDistance && geometry.Intersects(pc.areas.ahead, o.Polygon)
	}},
	{"ped_front_left_turning_left", func(pc *priorityCtx, o *trace.Obstacle) bool {
		return o.Type == trace.Pedestrian && pc.ego.TurnSignal == trace.TurnLeft &&
			o.DistToEgo < pc.p.PedTurnDistance && geometry.Intersects(pc.areas.frontLeft, o.Polygon)
	}},
	{"ped_front_right_turning_right", func(pc *priorityCtx, o *trace.Obstacle) bool {
		return o.Type == trace.Pedestrian && pc.ego.TurnSignal == trace.TurnRight &&
			o.DistToEgo < pc.p.PedTurnDistance && geometry.Intersects(pc.areas.frontRight, o.Polygon)
	}},
}

// anyRule 是否有障碍物命中任一规则
func anyRule(pc *priorityCtx, rules []priorityRule) bool {
	for i := range pc.truth.ObsList {
		o := &pc.truth.ObsList[i]
		if o.Polygon == nil {
			continue
		}
		for _, r := range rules {
			if r.match(pc, o) {
				log.Debugf("priority rule %s matched obstacle %d", r.name, o.ID)
				return true
			}
		}
	}
	return false
}

// Priority 是否存在需要让行的车辆与行人
// 功能：按规则表判定优先通行车辆与行人，规则之间为或关系
// 参数：ego-自车记录（需已写入Speed与IsLaneChanging），g-自车几何信息，truth-真值（需已写入NPCAhead与DistToEgo）
// 返回：是否存在优先车辆、是否存在优先行人
func (d *Detector) Priority(ego *trace.Ego, g EgoGeometry, truth *trace.Truth) (npc, ped bool) {
	if !geometry.Valid(ego.Polygon) || !geometry.Finite(g.Back) {
		return false, false
	}
	pc := &priorityCtx{
		ego:   ego,
		truth: truth,
		areas: d.areas(ego, g),
		p:     d.threshold.Priority,
	}
	return anyRule(pc, npcRules), anyRule(pc, pedRules)
}
