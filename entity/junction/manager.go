package junction

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity"
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/parallel"
)

// Junction管理器
type JunctionManager struct {
	data      map[string]*Junction
	junctions []*Junction

	lanesInJunction []entity.ILane
}

// NewManager 创建Junction管理器实例
func NewManager() *JunctionManager {
	return &JunctionManager{
		data:            make(map[string]*Junction),
		junctions:       make([]*Junction, 0),
		lanesInJunction: make([]entity.ILane, 0),
	}
}

// Init 初始化所有Junction
// 功能：根据地图数据初始化所有Junction对象，建立车道映射关系
// 参数：pbs-地图路口数据，laneManager-车道管理器
// 说明：车道自身声明junctionId或其所在道路声明junctionId时登记到对应路口；需在道路初始化之后调用
func (m *JunctionManager) Init(pbs []mapdata.Junction, laneManager entity.ILaneManager) {
	m.junctions = parallel.GoMap(lo.Range(len(pbs)), func(i int) *Junction {
		return newJunction(&pbs[i])
	})
	sort.SliceStable(m.junctions, func(i, j int) bool { return m.junctions[i].id < m.junctions[j].id })
	m.data = lo.SliceToMap(m.junctions, func(j *Junction) (string, *Junction) {
		return j.id, j
	})
	m.lanesInJunction = make([]entity.ILane, 0)
	for _, l := range laneManager.All() {
		id := l.JunctionID()
		if id == "" && l.ParentRoad() != nil {
			id = l.ParentRoad().Junction()
		}
		if id == "" {
			continue
		}
		j, ok := m.data[id]
		if !ok {
			log.Warnf("%v refers to missing junction %s", l, id)
			continue
		}
		j.addLane(l)
		m.lanesInJunction = append(m.lanesInJunction, l)
	}
	log.Infof("init %d junctions with %d lanes inside", len(m.junctions), len(m.lanesInJunction))
}

// Get 根据ID获取Junction实例
// 功能：通过Junction ID查找对应的Junction对象，如果不存在则panic
func (m *JunctionManager) Get(id string) entity.IJunction {
	if junction, ok := m.data[id]; !ok {
		log.Panicf("no id %s in junction data", id)
		return nil
	} else {
		return junction
	}
}

// GetOrError 根据ID获取Junction实例（带错误处理）
func (m *JunctionManager) GetOrError(id string) (entity.IJunction, error) {
	if junction, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %s in junction data", id)
	} else {
		return junction, nil
	}
}

// All 全部Junction，按ID排序
func (m *JunctionManager) All() []entity.IJunction {
	return lo.Map(m.junctions, func(j *Junction, _ int) entity.IJunction { return j })
}

// LanesInJunction 位于路口内的全部车道
func (m *JunctionManager) LanesInJunction() []entity.ILane {
	return m.lanesInJunction
}
