package hdmap_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity/hdmap"
	"github.com/tsinghua-fib-lab/trace-postprocess/entity/hdmap/hdmaptest"
	"github.com/tsinghua-fib-lab/trace-postprocess/geometry"
	"github.com/tsinghua-fib-lab/trace-postprocess/trace"
)

func car(x, y float64) orb.Polygon {
	return geometry.BuildPolygon(orb.Point{x, y}, 0, 4, 2)
}

func TestLanesContaining(t *testing.T) {
	m := hdmap.New(hdmaptest.Intersection())
	assert.Equal(t, "intersection", m.Name())

	hits := m.LanesContaining(car(50, 1.75))
	require.Len(t, hits, 1)
	assert.Equal(t, "l1", hits[0].ID)
	assert.Equal(t, trace.KindLane, hits[0].Kind)
	assert.InDelta(t, 8.0, hits[0].Overlap, 1e-9)
	assert.True(t, hits[0].ContainsCentroid)

	// 跨越车道线
	hits = m.LanesContaining(car(50, 3.5))
	require.Len(t, hits, 2)
	assert.Equal(t, "l1", hits[0].ID)
	assert.Equal(t, "l2", hits[1].ID)
	assert.InDelta(t, 4.0, hits[0].Overlap, 1e-9)
	assert.InDelta(t, 4.0, hits[1].Overlap, 1e-9)

	// 路口内同时命中路口面域与路口内车道，路口在前
	hits = m.LanesContaining(car(115, 1.75))
	require.Len(t, hits, 2)
	assert.Equal(t, "j1", hits[0].ID)
	assert.Equal(t, trace.KindJunction, hits[0].Kind)
	assert.Equal(t, "jl1", hits[1].ID)

	assert.Empty(t, m.LanesContaining(car(50, 40)))
	assert.Nil(t, m.LanesContaining(nil))
}

func TestNearestLane(t *testing.T) {
	m := hdmap.New(hdmaptest.Intersection())

	hit, ok := m.NearestLane(car(50, 11), 5)
	require.True(t, ok)
	assert.Equal(t, "l2", hit.ID)
	assert.InDelta(t, 3.0, hit.Distance, 1e-9)

	// 距离恰为半径时不命中
	_, ok = m.NearestLane(car(50, 13), 5)
	assert.False(t, ok)

	_, ok = m.NearestLane(car(50, 40), 5)
	assert.False(t, ok)
}

func TestFeaturesInRegion(t *testing.T) {
	m := hdmap.New(hdmaptest.Intersection())
	region := geometry.ForwardSector(orb.Point{80, 1.75}, 0, 2, geometry.SectorParams{HalfAngle: 45, MaxRange: 200, ArcSegments: 16})

	cw := m.FeaturesInRegion(region, entity.FeatureCrosswalk)
	require.Len(t, cw, 1)
	assert.Equal(t, "c1", cw[0].ID)

	js := m.FeaturesInRegion(region, entity.FeatureJunction)
	require.Len(t, js, 1)
	assert.Equal(t, "j1", js[0].ID)

	ss := m.FeaturesInRegion(region, entity.FeatureStopSign)
	require.Len(t, ss, 1)
	assert.Equal(t, "ss1", ss[0].ID)
	assert.IsType(t, orb.LineString{}, ss[0].Shape)

	sig := m.FeaturesInRegion(region, entity.FeatureSignal)
	require.Len(t, sig, 1)
	assert.Equal(t, "sig1", sig[0].ID)

	// 背向路口
	back := geometry.ForwardSector(orb.Point{80, 1.75}, 3.14159, 2, geometry.SectorParams{HalfAngle: 45, MaxRange: 50, ArcSegments: 16})
	assert.Empty(t, m.FeaturesInRegion(back, entity.FeatureJunction))
}

func TestLaneMetadata(t *testing.T) {
	m := hdmap.New(hdmaptest.Intersection())

	md, ok := m.LaneMetadata("l2")
	require.True(t, ok)
	assert.Equal(t, entity.LaneMetadata{ID: "l2", RoadID: "r1", Turn: 1, LaneCount: 2, Leftmost: true}, md)

	md, ok = m.LaneMetadata("l1")
	require.True(t, ok)
	assert.False(t, md.Leftmost)

	md, ok = m.LaneMetadata("jl1")
	require.True(t, ok)
	assert.Equal(t, "", md.RoadID)
	assert.Equal(t, int32(2), md.Turn)

	_, ok = m.LaneMetadata("j1")
	assert.False(t, ok)

	assert.True(t, m.SameRoad("l1", "l2"))
	assert.False(t, m.SameRoad("l1", "l3"))
	assert.False(t, m.SameRoad("jl1", "jl1"))
	assert.False(t, m.SameRoad("l1", "missing"))
}

func TestStopLinesAndJunction(t *testing.T) {
	m := hdmap.New(hdmaptest.Intersection())

	lines, ok := m.SignalStopLines("sig1")
	require.True(t, ok)
	require.Len(t, lines, 1)
	assert.Equal(t, orb.Point{95.5, 0}, lines[0][0])
	_, ok = m.SignalStopLines("nope")
	assert.False(t, ok)

	poly, ok := m.JunctionPolygon("j1")
	require.True(t, ok)
	assert.InDelta(t, 30*27, geometry.Area(poly), 1e-9)
	_, ok = m.JunctionPolygon("l1")
	assert.False(t, ok)
}
