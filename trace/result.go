package trace

// 测试失败类型
const (
	FailureAccident = "Accident"
)

// Result 一次后处理的完整输出
type Result struct {
	RunID                 string       `json:"runId"`
	MapName               string       `json:"mapName"`
	Trace                 *Trace       `json:"trace"`
	Completed             bool         `json:"completed"`
	DestinationReached    bool         `json:"destinationReached"`
	AgentNames            []int32      `json:"AgentNames"`
	TestFailures          []string     `json:"testFailures"`
	GroundTruthPerception bool         `json:"groundTruthPerception"`
	Diagnostics           []Diagnostic `json:"diagnostics"`
}

// Summarize 汇总轨迹级结果
// 功能：根据已完成的轨迹计算参与者列表、是否到达终点与测试失败项
// 参数：t-已完成的轨迹
// 算法说明：
// 1. 按首次出现顺序收集障碍物ID
// 2. 任一时刻到达终点则视为完成
// 3. 全程最小障碍物距离不大于0时记录Accident
func (r *Result) Summarize(t *Trace) {
	r.Trace = t
	seen := make(map[int32]struct{})
	r.AgentNames = make([]int32, 0)
	r.TestFailures = make([]string, 0)
	minDist := DefaultDistance
	for _, s := range t.Snapshots() {
		for _, o := range s.Truth.ObsList {
			if _, ok := seen[o.ID]; !ok {
				seen[o.ID] = struct{}{}
				r.AgentNames = append(r.AgentNames, o.ID)
			}
		}
		minDist = min(minDist, s.Truth.MinDistToEgo)
		if s.Ego.ReachDestination {
			r.DestinationReached = true
		}
	}
	r.Completed = r.DestinationReached
	if minDist <= 0 {
		r.TestFailures = append(r.TestFailures, FailureAccident)
	}
	if r.Diagnostics == nil {
		r.Diagnostics = make([]Diagnostic, 0)
	}
}
