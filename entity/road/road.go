package road

import (
	"fmt"

	"github.com/tsinghua-fib-lab/trace-postprocess/entity"
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils"
)

// Road 道路实体
// 功能：表示地图中的道路，包含按地图顺序排列的车道集合
type Road struct {
	id         string
	laneIDs    []string
	lanes      []entity.ILane // 车道，按地图中第一个分段的顺序
	junctionID string         // 所属路口，普通道路为空
}

// newRoad 创建并初始化一个新的Road实例
// 功能：根据地图数据创建Road对象，查找其第一个分段中的车道
// 参数：base-地图道路数据，laneManager-车道管理器
// 返回：初始化完成的Road实例
// 说明：地图中不存在的车道ID被忽略并记录警告
func newRoad(base *mapdata.Road, laneManager entity.ILaneManager) *Road {
	r := &Road{
		id:      base.ID.ID,
		laneIDs: base.LaneIDs(),
		lanes:   make([]entity.ILane, 0),
	}
	if base.JunctionID != nil {
		r.junctionID = base.JunctionID.ID
	}
	if len(r.laneIDs) > 0 {
		var failed []string
		r.lanes, failed = utils.Find(laneManager.Data(), laneManager.All(), r.laneIDs)
		if len(failed) > 0 {
			log.Warnf("%v: lanes %v not found in map", r, failed)
		}
	}
	return r
}

// registerLanes 将道路登记到其车道上
func (r *Road) registerLanes() {
	for i, lane := range r.lanes {
		lane.SetParentRoadWhenInit(r, i)
	}
}

func (r *Road) String() string {
	return fmt.Sprintf("Road %s", r.id)
}

// 获取Road ID
func (r *Road) ID() string {
	return r.id
}

// 获取Road的所有Lane
func (r *Road) Lanes() []entity.ILane {
	return r.lanes
}

// 获取车道数
func (r *Road) LaneCount() int {
	return len(r.lanes)
}

// 获取所属路口ID
func (r *Road) Junction() string {
	return r.junctionID
}
