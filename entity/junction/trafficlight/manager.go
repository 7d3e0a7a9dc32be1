package trafficlight

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity"
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
)

// Manager 交通控制设施管理器
// 功能：管理信号灯与停车让行标志
type Manager struct {
	signals    map[string]*Signal
	signalList []*Signal
	stopSigns  []*StopSign
}

// NewManager 创建交通控制设施管理器实例
func NewManager() *Manager {
	return &Manager{
		signals:    make(map[string]*Signal),
		signalList: make([]*Signal, 0),
		stopSigns:  make([]*StopSign, 0),
	}
}

// Init 初始化信号灯与停车让行标志
// 说明：没有有效停止线的设施仍可按ID查询，但不会出现在空间查询结果中
func (m *Manager) Init(signals []mapdata.Signal, stopSigns []mapdata.StopSign) {
	m.signalList = make([]*Signal, 0, len(signals))
	for i := range signals {
		s := newSignal(&signals[i])
		if len(s.stopLines) == 0 {
			log.Debugf("%v has no stop line", s)
		}
		m.signalList = append(m.signalList, s)
	}
	sort.SliceStable(m.signalList, func(i, j int) bool { return m.signalList[i].id < m.signalList[j].id })
	m.signals = lo.SliceToMap(m.signalList, func(s *Signal) (string, *Signal) { return s.id, s })

	m.stopSigns = make([]*StopSign, 0, len(stopSigns))
	for i := range stopSigns {
		m.stopSigns = append(m.stopSigns, newStopSign(&stopSigns[i]))
	}
	sort.SliceStable(m.stopSigns, func(i, j int) bool { return m.stopSigns[i].id < m.stopSigns[j].id })
	log.Infof("init %d signals and %d stop signs", len(m.signalList), len(m.stopSigns))
}

// Signal 根据ID获取信号灯，如果不存在则返回错误
func (m *Manager) Signal(id string) (entity.ISignal, error) {
	if s, ok := m.signals[id]; !ok {
		return nil, fmt.Errorf("no id %s in signal data", id)
	} else {
		return s, nil
	}
}

// Signals 全部信号灯，按ID排序
func (m *Manager) Signals() []entity.ISignal {
	return lo.Map(m.signalList, func(s *Signal, _ int) entity.ISignal { return s })
}

// StopSigns 全部停车让行标志，按ID排序
func (m *Manager) StopSigns() []entity.IStopSign {
	return lo.Map(m.stopSigns, func(s *StopSign, _ int) entity.IStopSign { return s })
}
