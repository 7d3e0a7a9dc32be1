package trafficlight

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
)

// stopLineOwner 带停止线的交通控制设施
type stopLineOwner struct {
	id        string
	stopLines []orb.LineString
	bound     orb.Bound
}

func newStopLineOwner(id string, curves []mapdata.Curve) stopLineOwner {
	o := stopLineOwner{
		id:        id,
		stopLines: mapdata.StopLines(curves),
	}
	for i, l := range o.stopLines {
		if i == 0 {
			o.bound = l.Bound()
		} else {
			o.bound = o.bound.Union(l.Bound())
		}
	}
	return o
}

// 获取ID
func (o *stopLineOwner) ID() string {
	return o.id
}

// 获取停止线
func (o *stopLineOwner) StopLines() []orb.LineString {
	return o.stopLines
}

// 获取所有停止线的包围盒
func (o *stopLineOwner) Bound() orb.Bound {
	return o.bound
}

// Signal 信号灯
// 功能：保存信号灯的子灯类型与停止线，用于计算自车到信号灯停止线的距离
type Signal struct {
	stopLineOwner
	kind           string
	subsignalTypes []string
}

func newSignal(base *mapdata.Signal) *Signal {
	return &Signal{
		stopLineOwner: newStopLineOwner(base.ID.ID, base.StopLine),
		kind:          base.Type,
		subsignalTypes: lo.Map(base.Subsignal, func(s mapdata.Subsignal, _ int) string {
			return s.Type
		}),
	}
}

func (s *Signal) String() string {
	return fmt.Sprintf("Signal %s", s.id)
}

// 获取子灯类型列表
func (s *Signal) SubsignalTypes() []string {
	return s.subsignalTypes
}

// 获取信号灯类型
func (s *Signal) Type() string {
	return s.kind
}
