package entity

import (
	"github.com/tsinghua-fib-lab/trace-postprocess/clock"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/config"
)

type ITaskContext interface {
	Clock() *clock.Clock
	Map() IMapQuery
	RuntimeConfig() *config.RuntimeConfig
}
