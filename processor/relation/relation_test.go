package relation_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity/hdmap"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity/hdmap/hdmaptest"
	"github.com/tsinghua-fib-lab/trace-postprocess/geometry"
	"github.com/tsinghua-fib-lab/trace-postprocess/processor/relation"
	"github.com/tsinghua-fib-lab/trace-postprocess/trace"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/config"
)

func newCalculator() *relation.Calculator {
	return relation.NewCalculator(
		hdmap.New(hdmaptest.Intersection()),
		config.SectorConfig{HalfAngle: 45, MaxRange: 200, OppositeRange: 30, ArcSegments: 16},
		config.ThresholdConfig{Opposite: 135},
	)
}

func laneRef(id string) *trace.LaneRef {
	return &trace.LaneRef{ID: id, Kind: trace.KindLane, Turn: 1}
}

func junctionRef(id string) *trace.LaneRef {
	return &trace.LaneRef{ID: id, Kind: trace.KindJunction}
}

func egoState(x, y float64, lane *trace.LaneRef) relation.EgoState {
	c := orb.Point{x, y}
	return relation.EgoState{
		Polygon: geometry.BuildEgoPolygon(c, 0, config.DefaultEgoLength, config.DefaultEgoWidth, config.DefaultEgoWheelbase),
		Front:   geometry.HeadMiddlePoint(c, 0, config.DefaultEgoLength, config.DefaultEgoWheelbase),
		Heading: 0,
		Width:   config.DefaultEgoWidth,
		Lane:    lane,
	}
}

func obstacle(ego relation.EgoState, id int32, typ trace.ObstacleType, x, y, theta float64, lane *trace.LaneRef) trace.Obstacle {
	o := trace.Obstacle{ID: id, Type: typ, Position: trace.Vec3{X: x, Y: y}, Theta: theta, Length: 4, Width: 2, CurrentLane: lane}
	o.Polygon = geometry.BuildPolygon(orb.Point{x, y}, theta, o.Length, o.Width)
	o.DistToEgo = relation.DistToEgo(ego.Polygon, o.Polygon)
	return o
}

func TestNearest(t *testing.T) {
	d, id := relation.Nearest(nil)
	assert.Equal(t, float64(trace.DefaultDistance), d)
	assert.Nil(t, id)

	d, id = relation.Nearest([]trace.Obstacle{{ID: 3, DistToEgo: 5}, {ID: 1, DistToEgo: 5}, {ID: 2, DistToEgo: 300}})
	assert.Equal(t, 5.0, d)
	require.NotNil(t, id)
	assert.Equal(t, int32(1), *id)

	d, id = relation.Nearest([]trace.Obstacle{{ID: 1, DistToEgo: 200}})
	assert.Equal(t, 200.0, d)
	assert.Nil(t, id)
}

func TestRelate(t *testing.T) {
	c := newCalculator()
	ego := egoState(50, 1.75, laneRef("l1"))
	obs := []trace.Obstacle{
		obstacle(ego, 4, trace.Vehicle, 90, 1.75, 0, laneRef("l1")),
		obstacle(ego, 7, trace.Vehicle, 70, 1.75, 0, laneRef("l1")),
		obstacle(ego, 2, trace.Vehicle, 60, 5.25, 0, laneRef("l2")),
		obstacle(ego, 6, trace.Vehicle, 40, 1.75, 0, laneRef("l1")),
		obstacle(ego, 9, trace.Vehicle, 65, -1.75, math.Pi, laneRef("l5")),
		obstacle(ego, 5, trace.Pedestrian, 60, 3, math.Pi/2, laneRef("l1")),
	}
	res := c.Relate(ego, obs)
	require.NotNil(t, res.NPCAhead)
	require.NotNil(t, res.PedAhead)
	require.NotNil(t, res.NPCOpposite)
	assert.Equal(t, int32(7), *res.NPCAhead)
	assert.Equal(t, int32(5), *res.PedAhead)
	assert.Equal(t, int32(9), *res.NPCOpposite)
}

func TestRelateInJunction(t *testing.T) {
	c := newCalculator()
	ego := egoState(105, 1.75, junctionRef("j1"))
	obs := []trace.Obstacle{obstacle(ego, 3, trace.Vehicle, 125, 5.25, 0, laneRef("jl2"))}
	res := c.Relate(ego, obs)
	require.NotNil(t, res.NPCAhead)
	assert.Equal(t, int32(3), *res.NPCAhead)

	// 车道未知时不判定前方车辆
	ego.Lane = nil
	assert.Nil(t, c.Relate(ego, obs).NPCAhead)
}

func TestOppositeThreshold(t *testing.T) {
	c := newCalculator()
	ego := egoState(50, 1.75, laneRef("l1"))
	at := func(deg float64) *int32 {
		obs := []trace.Obstacle{obstacle(ego, 1, trace.Vehicle, 65, -1.75, geometry.Radians(deg), laneRef("l5"))}
		return c.Relate(ego, obs).NPCOpposite
	}
	assert.Nil(t, at(134.9))
	assert.NotNil(t, at(135.1))
	assert.NotNil(t, at(-170))

	far := []trace.Obstacle{obstacle(ego, 1, trace.Vehicle, 90, -1.75, math.Pi, laneRef("l5"))}
	assert.Nil(t, c.Relate(ego, far).NPCOpposite)
}

func TestRelateWithoutEgo(t *testing.T) {
	c := newCalculator()
	ego := egoState(50, 1.75, laneRef("l1"))
	obs := []trace.Obstacle{obstacle(ego, 7, trace.Vehicle, 70, 1.75, 0, laneRef("l1"))}
	ego.Polygon = nil
	assert.Equal(t, relation.Relations{}, c.Relate(ego, obs))
	assert.Equal(t, float64(trace.Unavailable), relation.DistToEgo(nil, obs[0].Polygon))
}

func TestClassify(t *testing.T) {
	c := newCalculator()
	cases := []struct {
		name string
		ego  *trace.LaneRef
		obs  *trace.LaneRef
		want *trace.Label
	}{
		{"same lane", laneRef("l1"), laneRef("l1"), lo.ToPtr(trace.NextToEgo)},
		{"same road", laneRef("l1"), laneRef("l2"), lo.ToPtr(trace.NextToEgo)},
		{"different road", laneRef("l1"), laneRef("l5"), lo.ToPtr(trace.OnTheDifferentRoad)},
		{"obstacle in junction", laneRef("l1"), junctionRef("j1"), lo.ToPtr(trace.InTheJunction)},
		{"both in junction", junctionRef("j1"), junctionRef("j1"), lo.ToPtr(trace.InTheJunction)},
		{"ego in junction", junctionRef("j1"), laneRef("l3"), lo.ToPtr(trace.EgoInJunctionLane)},
		{"obstacle lane absent", laneRef("l1"), nil, nil},
		{"ego lane absent", nil, laneRef("l1"), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.ego, tc.obs))
		})
	}
}

func TestClassification(t *testing.T) {
	c := newCalculator()
	obs := []trace.Obstacle{
		{ID: 1, CurrentLane: laneRef("l2")},
		{ID: 2, CurrentLane: junctionRef("j1")},
		{ID: 3},
		{ID: 4, CurrentLane: laneRef("l1")},
	}
	res := c.Classification(laneRef("l1"), obs)
	assert.Len(t, res, len(trace.Labels))
	assert.Equal(t, []int32{1, 4}, lo.Map(res[trace.NextToEgo], func(e trace.ClassifiedObstacle, _ int) int32 { return e.Name }))
	require.Len(t, res[trace.InTheJunction], 1)
	assert.Equal(t, "j1", *res[trace.InTheJunction][0].JunctionID)
	assert.Nil(t, res[trace.InTheJunction][0].LaneID)
	assert.Empty(t, res[trace.EgoInJunctionJunction])
	assert.Nil(t, obs[2].Classification)
	require.NotNil(t, obs[0].Classification)
	assert.Equal(t, trace.NextToEgo, *obs[0].Classification)
}
