package config

import (
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// 默认参数
const (
	DefaultEgoLength     = 4.7
	DefaultEgoWidth      = 2.06
	DefaultEgoWheelbase  = 2.697298
	DefaultHalfAngle     = 45.0
	DefaultMaxRange      = 200.0
	DefaultOppositeRange = 30.0
	DefaultArcSegments   = 16
	DefaultNearestRadius = 5.0
	DefaultOverlapRatio  = 0.1
	DefaultLaneChangeWin = 10
	DefaultTurnAroundWin = 20
	DefaultTurnAroundDeg = 135.0
	DefaultOppositeDeg   = 135.0
	DefaultJamSpeed      = 1.0
	DefaultJamCount      = 6
	DefaultReachDistance = 2.0
	DefaultWorkers       = 4
	DefaultHeartbeat     = 100
	DefaultTimeUnit      = "us"
)

// RuntimeConfig 运行时配置
// 功能：保存原始配置与补全默认值后的控制参数
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 补全默认值后的控制配置
}

// Parse 解析YAML配置
// 功能：严格模式解析YAML，出现未知字段时报错
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, errors.Wrap(err, "config file load err")
	}
	return c, nil
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，为未设置的控制参数填充默认值
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
// 说明：零值视为未设置
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{All: config, C: config.Control}
	c := &rc.C

	setDefault(&c.Ego.Length, DefaultEgoLength)
	setDefault(&c.Ego.Width, DefaultEgoWidth)
	setDefault(&c.Ego.Wheelbase, DefaultEgoWheelbase)

	setDefault(&c.Sector.HalfAngle, DefaultHalfAngle)
	setDefault(&c.Sector.MaxRange, DefaultMaxRange)
	setDefault(&c.Sector.OppositeRange, DefaultOppositeRange)
	setDefault(&c.Sector.ArcSegments, DefaultArcSegments)

	setDefault(&c.Lane.NearestRadius, DefaultNearestRadius)
	setDefault(&c.Lane.SignificantOverlapRatio, DefaultOverlapRatio)

	setDefault(&c.Window.LaneChange, DefaultLaneChangeWin)
	setDefault(&c.Window.TurnAround, DefaultTurnAroundWin)

	setDefault(&c.Threshold.TurnAround, DefaultTurnAroundDeg)
	setDefault(&c.Threshold.Opposite, DefaultOppositeDeg)
	setDefault(&c.Threshold.Jam.Speed, DefaultJamSpeed)
	setDefault(&c.Threshold.Jam.Count, DefaultJamCount)

	p := &c.Threshold.Priority
	setDefault(&p.AheadDistance, 3)
	setDefault(&p.CrossingDistance, 30)
	setDefault(&p.LaneChangeDistance, 10)
	setDefault(&p.PedAheadDistance, 3)
	setDefault(&p.PedTurnDistance, 10)
	setDefault(&p.AreaRange, 200)
	setDefault(&p.QuadrantSize, 30)
	setDefault(&p.StripGap, 0.3)
	setDefault(&p.StripWidth, 3)
	setDefault(&p.StripLength, 30)

	if c.Destination != nil {
		d := *c.Destination
		setDefault(&d.Threshold, DefaultReachDistance)
		c.Destination = &d
	}
	setDefault(&c.Workers, DefaultWorkers)
	setDefault(&c.Heartbeat, DefaultHeartbeat)
	if c.TimeUnit == "" {
		c.TimeUnit = DefaultTimeUnit
	}
	return rc
}

// Unit 时间戳单位对应的时长
func (c Control) Unit() (time.Duration, error) {
	switch c.TimeUnit {
	case "ns":
		return time.Nanosecond, nil
	case "us", "":
		return time.Microsecond, nil
	case "ms":
		return time.Millisecond, nil
	case "s":
		return time.Second, nil
	}
	return 0, errors.Errorf("unknown time unit %q", c.TimeUnit)
}

func setDefault[T int | float64](v *T, def T) {
	if *v == 0 {
		*v = def
	}
}
