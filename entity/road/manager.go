package road

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity"
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/parallel"
)

// RoadManager Road管理器
// 功能：管理所有Road实体，提供创建、查找功能
type RoadManager struct {
	data  map[string]*Road
	roads []*Road
}

// NewManager 创建Road管理器实例
func NewManager() *RoadManager {
	return &RoadManager{
		data:  make(map[string]*Road),
		roads: make([]*Road, 0),
	}
}

// Init 初始化所有Road
// 功能：根据地图数据并行初始化所有Road对象，建立ID映射关系，并将道路登记到车道上
// 参数：pbs-地图道路数据，laneManager-车道管理器
// 说明：登记按道路ID顺序串行进行，同一车道出现在多条道路中时保留ID最小的道路
func (m *RoadManager) Init(pbs []mapdata.Road, laneManager entity.ILaneManager) {
	m.roads = parallel.GoMap(lo.Range(len(pbs)), func(i int) *Road {
		return newRoad(&pbs[i], laneManager)
	})
	sort.SliceStable(m.roads, func(i, j int) bool { return m.roads[i].id < m.roads[j].id })
	m.data = lo.SliceToMap(m.roads, func(r *Road) (string, *Road) {
		return r.id, r
	})
	for _, r := range m.roads {
		r.registerLanes()
	}
	log.Infof("init %d roads", len(m.roads))
}

// Get 根据ID获取Road实例
// 功能：通过Road ID查找对应的Road对象，如果不存在则panic
func (m *RoadManager) Get(id string) entity.IRoad {
	if road, ok := m.data[id]; !ok {
		log.Panicf("no id %s in road data", id)
		return nil
	} else {
		return road
	}
}

// GetOrError 根据ID获取Road实例（带错误处理）
func (m *RoadManager) GetOrError(id string) (entity.IRoad, error) {
	if road, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %s in road data", id)
	} else {
		return road, nil
	}
}
