package lane

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity"
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/parallel"
)

// LaneManager Lane管理器
// 功能：管理所有Lane实体，提供创建、查找功能
type LaneManager struct {
	data  map[string]*Lane
	lanes []*Lane
}

// NewManager 创建Lane管理器实例
func NewManager() *LaneManager {
	return &LaneManager{
		data:  make(map[string]*Lane),
		lanes: make([]*Lane, 0),
	}
}

// Init 初始化所有Lane
// 功能：根据地图数据并行构造Lane对象并建立ID映射
// 参数：pbs-地图车道数据
// 说明：重复ID保留先出现的车道；lanes按ID排序以保证遍历顺序确定
func (m *LaneManager) Init(pbs []mapdata.Lane) {
	lanes := parallel.GoMap(lo.Range(len(pbs)), func(i int) *Lane {
		return newLane(&pbs[i])
	})
	m.data = make(map[string]*Lane, len(lanes))
	m.lanes = make([]*Lane, 0, len(lanes))
	for _, l := range lanes {
		if _, ok := m.data[l.id]; ok {
			log.Warnf("duplicated lane id %s, ignore", l.id)
			continue
		}
		m.data[l.id] = l
		m.lanes = append(m.lanes, l)
	}
	sort.Slice(m.lanes, func(i, j int) bool { return m.lanes[i].id < m.lanes[j].id })
	log.Infof("init %d lanes", len(m.lanes))
}

// Get 根据ID获取Lane实例
// 功能：通过Lane ID查找对应的Lane对象，如果不存在则panic
func (m *LaneManager) Get(id string) entity.ILane {
	if lane, ok := m.data[id]; !ok {
		log.Panicf("no id %s in lane data", id)
		return nil
	} else {
		return lane
	}
}

// GetOrError 根据ID获取Lane实例（带错误处理）
// 功能：通过Lane ID查找对应的Lane对象，如果不存在则返回错误
func (m *LaneManager) GetOrError(id string) (entity.ILane, error) {
	if lane, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %s in lane data", id)
	} else {
		return lane, nil
	}
}

// All 全部Lane，按ID排序
func (m *LaneManager) All() []entity.ILane {
	return lo.Map(m.lanes, func(l *Lane, _ int) entity.ILane { return l })
}

// Data ID到Lane的映射
func (m *LaneManager) Data() map[string]entity.ILane {
	return lo.MapValues(m.data, func(l *Lane, _ string) entity.ILane { return l })
}
