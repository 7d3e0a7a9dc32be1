package entity

import (
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
)

// Manager依赖倒置

// entity/lane/manager.go的依赖倒置
type ILaneManager interface {
	Init(pbs []mapdata.Lane) // 初始化

	// 输入Lane ID，查找Lane，如果不存在则panic
	Get(id string) ILane
	// 输入Lane ID，查找Lane，如果不存在则返回error
	GetOrError(id string) (ILane, error)
	// 全部Lane，按ID排序
	All() []ILane
	// ID到Lane的映射
	Data() map[string]ILane
}

// entity/road/manager.go的依赖倒置
type IRoadManager interface {
	Init(pbs []mapdata.Road, laneManager ILaneManager) // 初始化

	// 输入Road ID，查找Road，如果不存在则panic
	Get(id string) IRoad
	// 输入Road ID，查找Road，如果不存在则返回error
	GetOrError(id string) (IRoad, error)
}

// entity/junction/manager.go的依赖倒置
type IJunctionManager interface {
	Init(pbs []mapdata.Junction, laneManager ILaneManager) // 初始化

	// 输入Junction ID，查找Junction，如果不存在则panic
	Get(id string) IJunction
	// 输入Junction ID，查找Junction，如果不存在则返回error
	GetOrError(id string) (IJunction, error)
	// 全部Junction，按ID排序
	All() []IJunction
}

// entity/crosswalk/manager.go的依赖倒置
type ICrosswalkManager interface {
	Init(pbs []mapdata.Crosswalk) // 初始化

	// 输入人行横道ID，查找人行横道，如果不存在则返回error
	GetOrError(id string) (ICrosswalk, error)
	// 全部人行横道，按ID排序
	All() []ICrosswalk
}

// entity/junction/trafficlight/manager.go的依赖倒置
type ITrafficControlManager interface {
	Init(signals []mapdata.Signal, stopSigns []mapdata.StopSign) // 初始化

	// 输入信号灯ID，查找信号灯，如果不存在则返回error
	Signal(id string) (ISignal, error)
	// 全部信号灯，按ID排序
	Signals() []ISignal
	// 全部停车让行标志，按ID排序
	StopSigns() []IStopSign
}
