package crosswalk

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity"
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/parallel"
)

// CrosswalkManager 人行横道管理器
type CrosswalkManager struct {
	data       map[string]*Crosswalk
	crosswalks []*Crosswalk
}

// NewManager 创建人行横道管理器实例
func NewManager() *CrosswalkManager {
	return &CrosswalkManager{
		data:       make(map[string]*Crosswalk),
		crosswalks: make([]*Crosswalk, 0),
	}
}

// Init 初始化所有人行横道
// 功能：并行构造人行横道对象，丢弃面域无效的数据并按ID排序
func (m *CrosswalkManager) Init(pbs []mapdata.Crosswalk) {
	all := parallel.GoMap(lo.Range(len(pbs)), func(i int) *Crosswalk {
		return newCrosswalk(&pbs[i])
	})
	m.crosswalks = lo.Filter(all, func(c *Crosswalk, _ int) bool { return c != nil })
	sort.SliceStable(m.crosswalks, func(i, j int) bool { return m.crosswalks[i].id < m.crosswalks[j].id })
	m.data = lo.SliceToMap(m.crosswalks, func(c *Crosswalk) (string, *Crosswalk) {
		return c.id, c
	})
	log.Infof("init %d crosswalks", len(m.crosswalks))
}

// GetOrError 根据ID获取人行横道实例，如果不存在则返回错误
func (m *CrosswalkManager) GetOrError(id string) (entity.ICrosswalk, error) {
	if c, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %s in crosswalk data", id)
	} else {
		return c, nil
	}
}

// All 全部人行横道，按ID排序
func (m *CrosswalkManager) All() []entity.ICrosswalk {
	return lo.Map(m.crosswalks, func(c *Crosswalk, _ int) entity.ICrosswalk { return c })
}
