package task_test

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity/hdmap/hdmaptest"
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
	"github.com/tsinghua-fib-lab/trace-postprocess/task"
	"github.com/tsinghua-fib-lab/trace-postprocess/trace"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/config"
)

func newContext(t *testing.T, m *mapdata.Map) *task.Context {
	t.Helper()
	ctx, err := task.NewContext("test", m, config.Config{}, prometheus.NewRegistry())
	require.NoError(t, err)
	return ctx
}

// egoAt 朝+x行驶的自车快照
func egoAt(ts trace.Timestamp, x, y float64) trace.Snapshot {
	return trace.Snapshot{
		Timestamp: ts,
		Ego: trace.Ego{
			Pose: trace.Pose{
				Position:       trace.Vec3{X: x, Y: y},
				LinearVelocity: trace.Vec3{X: 10},
			},
		},
	}
}

func vehicle(id int32, x, y, speed float64) trace.Obstacle {
	return trace.Obstacle{
		ID:       id,
		Type:     trace.Vehicle,
		Position: trace.Vec3{X: x, Y: y},
		Velocity: trace.Vec3{X: speed},
		Length:   4,
		Width:    2,
	}
}

// intersectionTrace 自车在r1上驶向路口j1，前方同车道有一辆车，路口内停有6辆车
func intersectionTrace(n int) []trace.Snapshot {
	raw := make([]trace.Snapshot, 0, n)
	for i := range n {
		s := egoAt(trace.Timestamp(1000+i*100000), 40+float64(i), 1.75)
		s.Truth.ObsList = []trace.Obstacle{
			vehicle(7, 80, 1.75, 5),
			vehicle(11, 105, 10, 0),
			vehicle(12, 112, 10, 0),
			vehicle(13, 119, 10, 0),
			vehicle(14, 126, 10, 0),
			vehicle(15, 105, -5, 0),
			vehicle(16, 112, -5, 0),
			{ID: 21, Type: trace.Pedestrian, Position: trace.Vec3{X: 98, Y: 1}, Length: 0.5, Width: 0.5},
		}
		s.TrafficLights.List = []trace.TrafficLight{{ID: "sig1", Color: "RED", Confidence: 1}, {ID: "unknown", Color: "GREEN"}}
		raw = append(raw, s)
	}
	return raw
}

func TestRunStraightRoadWithoutFeatures(t *testing.T) {
	ctx := newContext(t, hdmaptest.StraightRoad())
	raw := make([]trace.Snapshot, 0, 30)
	for i := range 30 {
		raw = append(raw, egoAt(trace.Timestamp(i*100000), float64(i), 1.75))
	}

	res, err := ctx.Run(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, 30, res.Trace.Len())

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "straight", res.MapName)
	assert.True(t, res.GroundTruthPerception)
	assert.False(t, res.Completed)
	assert.False(t, res.DestinationReached)
	assert.Empty(t, res.AgentNames)
	assert.Empty(t, res.TestFailures)
	assert.Empty(t, res.Diagnostics)

	for i, s := range res.Trace.Snapshots() {
		assert.Equal(t, raw[i].Timestamp, s.Timestamp)
		ego := s.Ego
		require.NotNil(t, ego.CurrentLane, "snapshot %d", i)
		assert.Equal(t, "l1", ego.CurrentLane.ID)
		assert.Equal(t, trace.KindLane, ego.CurrentLane.Kind)
		assert.Equal(t, int32(2), ego.CurrentLane.Number)
		assert.InDelta(t, 10.0, ego.Speed, 1e-9)
		assert.Equal(t, trace.Unavailable, ego.CrosswalkAhead)
		assert.Equal(t, trace.Unavailable, ego.JunctionAhead)
		assert.Equal(t, trace.Unavailable, ego.StopSignAhead)
		assert.Equal(t, trace.Unavailable, ego.StoplineAhead)
		assert.Nil(t, ego.JunctionAheadID)
		assert.False(t, ego.IsTrafficJam)
		assert.False(t, ego.IsLaneChanging)
		assert.False(t, ego.IsTurningAround)
		assert.False(t, ego.PriorityNPCAhead)
		assert.False(t, ego.PriorityPedsAhead)
		assert.False(t, ego.ReachDestination)

		truth := s.Truth
		assert.Empty(t, truth.ObsList)
		assert.Equal(t, trace.DefaultDistance, truth.MinDistToEgo)
		assert.Nil(t, truth.NearestGtObs)
		assert.Nil(t, truth.NPCAhead)
		assert.Nil(t, truth.PedAhead)
		assert.Nil(t, truth.NPCOpposite)
		assert.Len(t, truth.NPCClassification, len(trace.Labels))
		for _, l := range trace.Labels {
			assert.Empty(t, truth.NPCClassification[l])
		}
		assert.Nil(t, s.TrafficLights.Nearest)
		assert.Nil(t, s.TrafficLights.StopLineDistance)
	}
}

func TestRunIntersection(t *testing.T) {
	ctx := newContext(t, hdmaptest.Intersection())
	res, err := ctx.Run(context.Background(), intersectionTrace(3))
	require.NoError(t, err)
	require.Equal(t, 3, res.Trace.Len())
	assert.Equal(t, []int32{7, 11, 12, 13, 14, 15, 16, 21}, res.AgentNames)

	s := res.Trace.At(0)
	ego := s.Ego
	require.NotNil(t, ego.CurrentLane)
	assert.Equal(t, "l1", ego.CurrentLane.ID)
	require.NotNil(t, ego.JunctionAheadID)
	assert.Equal(t, "j1", *ego.JunctionAheadID)
	assert.Less(t, ego.StopSignAhead, ego.CrosswalkAhead)
	assert.Less(t, ego.CrosswalkAhead, ego.JunctionAhead)
	assert.Less(t, ego.JunctionAhead, trace.Unavailable)
	assert.Equal(t, ego.StopSignAhead, ego.StoplineAhead)
	assert.True(t, ego.IsTrafficJam)

	truth := s.Truth
	require.Len(t, truth.ObsList, 8)
	require.NotNil(t, truth.NearestGtObs)
	assert.Equal(t, int32(7), *truth.NearestGtObs)
	assert.Equal(t, truth.ObsList[0].DistToEgo, truth.MinDistToEgo)
	require.NotNil(t, truth.NPCAhead)
	assert.Equal(t, int32(7), *truth.NPCAhead)
	require.NotNil(t, truth.PedAhead)
	assert.Equal(t, int32(21), *truth.PedAhead)
	assert.Nil(t, truth.NPCOpposite)
	assert.Len(t, truth.NPCClassification[trace.NextToEgo], 2)
	assert.Len(t, truth.NPCClassification[trace.InTheJunction], 6)
	for _, o := range truth.ObsList {
		assert.GreaterOrEqual(t, o.DistToEgo, 0.0)
		assert.GreaterOrEqual(t, o.DistToEgo, truth.MinDistToEgo)
	}

	lights := s.TrafficLights
	require.NotNil(t, lights.Nearest)
	assert.Equal(t, 0, *lights.Nearest)
	require.NotNil(t, lights.StopLineDistance)
	assert.InDelta(t, ego.StopSignAhead+1.5, *lights.StopLineDistance, 1e-6)
}

func TestRunDeterministic(t *testing.T) {
	raw := intersectionTrace(25)
	a, err := newContext(t, hdmaptest.Intersection()).Run(context.Background(), raw)
	require.NoError(t, err)
	b, err := newContext(t, hdmaptest.Intersection()).Run(context.Background(), raw)
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	diff := cmp.Diff(a, b,
		cmpopts.IgnoreFields(trace.Result{}, "RunID"),
		cmp.AllowUnexported(trace.Trace{}),
	)
	assert.Empty(t, diff)

	b.RunID = a.RunID
	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, ja, jb)
}

func TestRunLaneChange(t *testing.T) {
	ctx := newContext(t, hdmaptest.StraightRoad())
	raw := make([]trace.Snapshot, 0, 15)
	for i := range 15 {
		y := 1.75
		if i >= 5 {
			y = 5.25
		}
		s := egoAt(trace.Timestamp(i), float64(i), y)
		s.Ego.TurnSignal = trace.TurnLeft
		raw = append(raw, s)
	}
	res, err := ctx.Run(context.Background(), raw)
	require.NoError(t, err)
	for i, s := range res.Trace.Snapshots() {
		assert.Equal(t, i >= 10, s.Ego.IsLaneChanging, "snapshot %d", i)
		assert.False(t, s.Ego.IsTurningAround, "snapshot %d", i)
	}
}

func TestRunDestination(t *testing.T) {
	c := config.Config{Control: config.Control{Destination: &config.DestinationConfig{X: 20, Y: 1.75}}}
	ctx, err := task.NewContext("test", hdmaptest.StraightRoad(), c, nil)
	require.NoError(t, err)
	raw := make([]trace.Snapshot, 0, 10)
	for i := range 10 {
		raw = append(raw, egoAt(trace.Timestamp(i), 12+float64(i), 1.75))
	}
	res, err := ctx.Run(context.Background(), raw)
	require.NoError(t, err)
	assert.False(t, res.Trace.At(5).Ego.ReachDestination)
	assert.True(t, res.Trace.At(6).Ego.ReachDestination)
	assert.True(t, res.DestinationReached)
	assert.True(t, res.Completed)
}

func TestRunFatal(t *testing.T) {
	ctx := newContext(t, hdmaptest.StraightRoad())

	_, err := ctx.Run(context.Background(), nil)
	assert.ErrorIs(t, err, trace.ErrEmptyTrace)

	_, err = ctx.Run(context.Background(), []trace.Snapshot{egoAt(2, 0, 1.75), egoAt(2, 1, 1.75)})
	assert.ErrorIs(t, err, trace.ErrNonMonotonic)

	_, err = ctx.Run(context.Background(), []trace.Snapshot{egoAt(3, 0, 1.75), egoAt(1, 1, 1.75)})
	assert.ErrorIs(t, err, trace.ErrNonMonotonic)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ctx.Run(canceled, []trace.Snapshot{egoAt(1, 0, 1.75)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSkipsMalformedObstacle(t *testing.T) {
	ctx := newContext(t, hdmaptest.StraightRoad())
	s := egoAt(1, 0, 1.75)
	s.Truth.ObsList = []trace.Obstacle{
		vehicle(1, math.NaN(), 1.75, 0),
		vehicle(2, 20, 1.75, 0),
		{ID: 3, Type: trace.Vehicle, Position: trace.Vec3{X: 30, Y: 1.75}},
	}
	res, err := ctx.Run(context.Background(), []trace.Snapshot{s, egoAt(2, 1, 1.75)})
	require.NoError(t, err)

	obs := res.Trace.At(0).Truth.ObsList
	require.Len(t, obs, 1)
	assert.Equal(t, int32(2), obs[0].ID)
	require.NotNil(t, obs[0].CurrentLane)
	assert.Equal(t, "l1", obs[0].CurrentLane.ID)
	assert.Equal(t, []int32{2}, res.AgentNames)

	require.Len(t, res.Diagnostics, 2)
	for _, d := range res.Diagnostics {
		assert.Equal(t, trace.Timestamp(1), d.Timestamp)
		assert.Equal(t, "obstacle", d.Component)
	}
}

func TestRunDegradesNonFiniteEgo(t *testing.T) {
	ctx := newContext(t, hdmaptest.Intersection())
	raw := intersectionTrace(3)
	raw[1].Ego.Pose.Position.X = math.Inf(1)

	res, err := ctx.Run(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, 3, res.Trace.Len())

	bad := res.Trace.At(1)
	assert.Nil(t, bad.Ego.CurrentLane)
	assert.Equal(t, trace.Unavailable, bad.Ego.CrosswalkAhead)
	assert.Equal(t, trace.Unavailable, bad.Ego.StoplineAhead)
	assert.False(t, bad.Ego.IsTrafficJam)
	assert.Nil(t, bad.Truth.NPCAhead)
	assert.Equal(t, trace.DefaultDistance, bad.Truth.MinDistToEgo)
	assert.Nil(t, bad.TrafficLights.Nearest)
	for _, o := range bad.Truth.ObsList {
		assert.Equal(t, trace.Unavailable, o.DistToEgo)
	}

	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, raw[1].Timestamp, res.Diagnostics[0].Timestamp)
	assert.Equal(t, "ego", res.Diagnostics[0].Component)

	good := res.Trace.At(2)
	require.NotNil(t, good.Ego.CurrentLane)
	assert.Equal(t, "l1", good.Ego.CurrentLane.ID)
}
