package trafficlight

import (
	"fmt"
	"strings"

	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
)

// StopSign 停车让行标志
type StopSign struct {
	stopLineOwner
	kind string
}

func newStopSign(base *mapdata.StopSign) *StopSign {
	return &StopSign{
		stopLineOwner: newStopLineOwner(base.ID.ID, base.StopLine),
		kind:          base.Type,
	}
}

func (s *StopSign) String() string {
	return fmt.Sprintf("StopSign %s", s.id)
}

// IsStopSign 标志类型是否为停车让行
// 说明：类型缺省时视为停车让行，让行（YIELD）标志返回false
func (s *StopSign) IsStopSign() bool {
	return !strings.Contains(strings.ToUpper(s.kind), "YIELD")
}
