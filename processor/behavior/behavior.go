// Package behavior 自车时序行为判定
// 变道、掉头、交通拥堵、优先通行对象与到达终点
package behavior

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity"
	"github.com/tsinghua-fib-lab/trace-postprocess/geometry"
	"github.com/tsinghua-fib-lab/trace-postprocess/trace"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/config"
)

// Detector 行为判定器
// 说明：全部判定只读取当前快照与历史窗口，不修改历史
type Detector struct {
	m           entity.IMapQuery
	window      config.WindowConfig
	threshold   config.ThresholdConfig
	sector      config.SectorConfig
	destination *config.DestinationConfig
}

// New 由任务上下文创建行为判定器
func New(ctx entity.ITaskContext) *Detector {
	return NewDetector(ctx.Map(), ctx.RuntimeConfig().C)
}

// NewDetector 创建行为判定器
// 参数：m-地图查询服务，c-补全默认值后的控制配置
func NewDetector(m entity.IMapQuery, c config.Control) *Detector {
	return &Detector{
		m:           m,
		window:      c.Window,
		threshold:   c.Threshold,
		sector:      c.Sector,
		destination: c.Destination,
	}
}

// LaneChanging 是否正在变道
// 功能：转向灯开启，且当前车道与window.LaneChange步之前的车道不同但位于同一道路
// 参数：cur-当前自车记录，w-历史窗口
// 返回：历史不足或任一车道未知时为false
func (d *Detector) LaneChanging(cur *trace.Ego, w trace.Window) bool {
	if !cur.TurnSignal.Active() {
		return false
	}
	prev, ok := w.Back(d.window.LaneChange)
	if !ok {
		return false
	}
	now, before := cur.CurrentLane, prev.Ego.CurrentLane
	if !now.IsLane() || !before.IsLane() || now.ID == before.ID {
		return false
	}
	return d.m.SameRoad(now.ID, before.ID)
}

// TurningAround 是否正在掉头
// 功能：转向灯开启，且当前朝向与window.TurnAround步之前的朝向之差严格大于threshold.TurnAround度
// 返回：历史不足时为false
func (d *Detector) TurningAround(cur *trace.Ego, w trace.Window) bool {
	if !cur.TurnSignal.Active() {
		return false
	}
	prev, ok := w.Back(d.window.TurnAround)
	if !ok {
		return false
	}
	diff := geometry.Degrees(geometry.HeadingDiff(cur.Pose.Heading, prev.Ego.Pose.Heading))
	return diff > d.threshold.TurnAround
}

// TrafficJam 前方路口是否拥堵
// 功能：统计与前方路口面域相交且速度低于threshold.Jam.Speed的车辆
// 参数：junction-前方路口面域（没有前方路口时为nil），obs-障碍物
// 返回：低速车辆数不少于threshold.Jam.Count时为true
func (d *Detector) TrafficJam(junction orb.Polygon, obs []trace.Obstacle) bool {
	if !geometry.Valid(junction) {
		return false
	}
	count := 0
	for i := range obs {
		o := &obs[i]
		if o.Type != trace.Vehicle || o.Polygon == nil || o.Speed >= d.threshold.Jam.Speed {
			continue
		}
		if geometry.Intersects(junction, o.Polygon) {
			count++
		}
	}
	return count >= d.threshold.Jam.Count
}

// ReachDestination 是否到达终点
// 返回：未配置终点或位置无效时为false
func (d *Detector) ReachDestination(pos trace.Vec3) bool {
	if d.destination == nil || !pos.Finite() {
		return false
	}
	dest := orb.Point{d.destination.X, d.destination.Y}
	return planar.Distance(pos.Point(), dest) <= d.destination.Threshold
}
