package trace

import (
	"encoding/json"

	"github.com/pkg/errors"
)

var (
	ErrEmptyTrace    = errors.New("empty trace")
	ErrNonMonotonic  = errors.New("timestamps are not strictly increasing")
	ErrSnapshotOrder = errors.New("snapshot appended out of order")
)

// Trace 后处理输出轨迹
// 功能：按时间戳严格递增保存快照，构造阶段只允许追加，构造完成后只读
type Trace struct {
	snapshots []Snapshot
}

// New 创建空轨迹
func New(capacity int) *Trace {
	return &Trace{snapshots: make([]Snapshot, 0, capacity)}
}

// Append 追加快照
// 功能：在轨迹末尾追加一个快照，要求时间戳严格大于最后一个快照
// 返回：时间戳不递增时返回ErrSnapshotOrder
func (t *Trace) Append(s Snapshot) error {
	if n := len(t.snapshots); n > 0 && s.Timestamp <= t.snapshots[n-1].Timestamp {
		return errors.Wrapf(ErrSnapshotOrder, "timestamp %d after %d", s.Timestamp, t.snapshots[n-1].Timestamp)
	}
	t.snapshots = append(t.snapshots, s)
	return nil
}

// Len 快照数
func (t *Trace) Len() int {
	return len(t.snapshots)
}

// At 获取第i个快照
func (t *Trace) At(i int) Snapshot {
	return t.snapshots[i]
}

// Snapshots 全部快照（只读视图）
func (t *Trace) Snapshots() []Snapshot {
	return t.snapshots[:len(t.snapshots):len(t.snapshots)]
}

// Window 取最近k个快照组成的只读窗口
// 说明：窗口按时间从旧到新排列，不足k个时包含全部已有快照
func (t *Trace) Window(k int) Window {
	n := len(t.snapshots)
	start := max(n-k, 0)
	return Window{snapshots: t.snapshots[start:n:n]}
}

func (t *Trace) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.snapshots)
}

func (t *Trace) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &t.snapshots)
}

// Window 历史窗口
// 功能：为时序分类器提供最近若干个已完成快照的只读视图
type Window struct {
	snapshots []Snapshot
}

// NewWindow 由快照列表构造窗口（从旧到新）
func NewWindow(snapshots []Snapshot) Window {
	return Window{snapshots: snapshots}
}

// Len 窗口中的快照数
func (w Window) Len() int {
	return len(w.snapshots)
}

// Back 获取n步之前的快照
// 参数：n-步数，1表示紧邻的上一个快照
// 返回：快照与是否存在
func (w Window) Back(n int) (Snapshot, bool) {
	if n <= 0 || n > len(w.snapshots) {
		return Snapshot{}, false
	}
	return w.snapshots[len(w.snapshots)-n], true
}

// CheckMonotonic 校验原始快照序列
// 功能：检查输入非空且时间戳严格递增
// 返回：违反时返回包含首个违例位置的错误
func CheckMonotonic(raw []Snapshot) error {
	if len(raw) == 0 {
		return ErrEmptyTrace
	}
	for i := 1; i < len(raw); i++ {
		if raw[i].Timestamp <= raw[i-1].Timestamp {
			return errors.Wrapf(ErrNonMonotonic, "index %d: timestamp %d after %d", i, raw[i].Timestamp, raw[i-1].Timestamp)
		}
	}
	return nil
}
