package config

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义数据输入路径的配置结构
// 说明：File非空时优先从文件读取，否则从MongoDB的db.col读取
type InputPath struct {
	DB   string `yaml:"db,omitempty"`   // 数据库名
	Col  string `yaml:"col,omitempty"`  // 集合名
	Name string `yaml:"name,omitempty"` // 地图名（MongoDB中按name筛选文档）
	File string `yaml:"file,omitempty"` // 文件路径（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// Input 指定所有输入数据的配置项
type Input struct {
	URI   string    `yaml:"uri,omitempty"` // MongoDB连接字符串
	Map   InputPath `yaml:"map"`           // 地图
	Trace InputPath `yaml:"trace"`         // 对齐后的原始快照序列（仅支持文件）
}

// Output 输出配置
type Output struct {
	File   string `yaml:"file"`             // 结果JSON文件路径
	Indent bool   `yaml:"indent,omitempty"` // 是否缩进输出
}

// EgoConfig 自车物理尺寸
type EgoConfig struct {
	Length    float64 `yaml:"length"`
	Width     float64 `yaml:"width"`
	Wheelbase float64 `yaml:"wheelbase"`
}

// SectorConfig 前方区域配置
type SectorConfig struct {
	HalfAngle     float64 `yaml:"half_angle"`     // 前方扇形半张角（度）
	MaxRange      float64 `yaml:"max_range"`      // 前方最大感知距离
	OppositeRange float64 `yaml:"opposite_range"` // 对向车辆检测距离
	ArcSegments   int     `yaml:"arc_segments"`   // 圆弧离散段数
}

// LaneConfig 车道解析配置
type LaneConfig struct {
	NearestRadius           float64 `yaml:"nearest_radius"`            // 最近车道回退搜索半径
	SignificantOverlapRatio float64 `yaml:"significant_overlap_ratio"` // 判定为候选车道的最小重叠面积比例
}

// WindowConfig 时序分类器窗口（快照数）
type WindowConfig struct {
	LaneChange int `yaml:"lane_change"`
	TurnAround int `yaml:"turn_around"`
}

// JamConfig 拥堵判定
type JamConfig struct {
	Speed float64 `yaml:"speed"` // 低速阈值(m/s)
	Count int     `yaml:"count"` // 最少低速车辆数
}

// PriorityConfig 优先让行判定距离
type PriorityConfig struct {
	AheadDistance      float64 `yaml:"ahead_distance"`       // 前车过近距离
	CrossingDistance   float64 `yaml:"crossing_distance"`    // 转向时横穿车辆距离
	LaneChangeDistance float64 `yaml:"lane_change_distance"` // 变道时后方车辆距离
	PedAheadDistance   float64 `yaml:"ped_ahead_distance"`   // 直行时前方行人距离
	PedTurnDistance    float64 `yaml:"ped_turn_distance"`    // 转向时侧前方行人距离
	AreaRange          float64 `yaml:"area_range"`           // 车尾起算的前方区域范围
	QuadrantSize       float64 `yaml:"quadrant_size"`        // 侧前方区域边长
	StripGap           float64 `yaml:"strip_gap"`            // 后方条带与车身的间隙
	StripWidth         float64 `yaml:"strip_width"`          // 后方条带宽度
	StripLength        float64 `yaml:"strip_length"`         // 后方条带长度
}

// ThresholdConfig 判定阈值
type ThresholdConfig struct {
	TurnAround float64        `yaml:"turn_around"` // 掉头角度阈值（度，严格大于）
	Opposite   float64        `yaml:"opposite"`    // 对向车辆角度阈值（度，严格大于）
	Jam        JamConfig      `yaml:"jam"`
	Priority   PriorityConfig `yaml:"priority"`
}

// DestinationConfig 终点配置
type DestinationConfig struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Threshold float64 `yaml:"threshold"` // 到达判定距离
}

// Control 后处理控制配置
type Control struct {
	Ego         EgoConfig          `yaml:"ego"`
	Sector      SectorConfig       `yaml:"sector"`
	Lane        LaneConfig         `yaml:"lane"`
	Window      WindowConfig       `yaml:"window"`
	Threshold   ThresholdConfig    `yaml:"threshold"`
	Destination *DestinationConfig `yaml:"destination,omitempty"` // 为空则不判定到达终点
	Workers     int                `yaml:"workers,omitempty"`     // 单时刻障碍物并行度
	Heartbeat   int                `yaml:"heartbeat,omitempty"`   // 心跳日志间隔（快照数）
	TimeUnit    string             `yaml:"time_unit,omitempty"`   // 时间戳单位（ns/us/ms/s）
}

// Config YAML配置文件的根结构
type Config struct {
	Input   Input   `yaml:"input"`   // 输入
	Output  Output  `yaml:"output"`  // 输出
	Control Control `yaml:"control"` // 后处理控制
}
