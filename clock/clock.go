package clock

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/tsinghua-fib-lab/trace-postprocess/trace"
)

// ErrNotIncreasing 时间戳未严格递增
var ErrNotIncreasing = errors.New("timestamp is not strictly increasing")

// Clock 回放时钟
// 功能：记录后处理当前所在的快照时间戳与步数，保证时间严格向前推进
// 说明：时间戳单位由Unit给出，String输出相对第一个快照的经过时间
type Clock struct {
	Unit time.Duration // 时间戳单位

	Start trace.Timestamp // 第一个快照的时间戳
	T     trace.Timestamp // 当前时间戳
	Step  int32           // 当前步数（已推进的快照数-1）

	started bool
}

// New 创建回放时钟
// 参数：unit-时间戳单位
// 返回：初始化完成的时钟实例
func New(unit time.Duration) *Clock {
	c := &Clock{Unit: unit}
	c.Init()
	return c
}

// Init 重置时钟状态
func (c *Clock) Init() {
	c.Start = 0
	c.T = 0
	c.Step = -1
	c.started = false
}

// Advance 推进到下一个快照
// 功能：将时钟推进到ts，要求ts严格大于当前时间戳
// 参数：ts-下一个快照的时间戳
// 返回：时间戳不递增时返回ErrNotIncreasing
func (c *Clock) Advance(ts trace.Timestamp) error {
	if c.started && ts <= c.T {
		return errors.Wrapf(ErrNotIncreasing, "step %d: %d after %d", c.Step+1, ts, c.T)
	}
	if !c.started {
		c.Start = ts
		c.started = true
	}
	c.T = ts
	c.Step++
	return nil
}

// Elapsed 相对第一个快照的经过时间
func (c *Clock) Elapsed() time.Duration {
	return time.Duration(c.T-c.Start) * c.Unit
}

// String 获取时钟的字符串表示
// 功能：将经过时间格式化为HH:MM:SS.mmm
func (c *Clock) String() string {
	h, m, s := c.GetHourMinuteSecond()
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}

// GetHourMinuteSecond 获取经过时间的小时、分钟、秒
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	t := c.Elapsed().Seconds()
	hour := int(t) / 3600
	minute := int(t) % 3600 / 60
	second := t - float64(hour*3600+minute*60)
	return hour, minute, second
}
