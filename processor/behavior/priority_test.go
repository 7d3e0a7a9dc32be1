package behavior_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/trace-postprocess/geometry"
	"github.com/tsinghua-fib-lab/trace-postprocess/processor/behavior"
	"github.com/tsinghua-fib-lab/trace-postprocess/trace"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/config"
)

type scene struct {
	ego   trace.Ego
	geom  behavior.EgoGeometry
	truth trace.Truth
}

func newScene(signal trace.TurnSignal) *scene {
	c := orb.Point{50, 1.75}
	s := &scene{}
	s.ego.Pose.Position = trace.Vec3{X: c[0], Y: c[1]}
	s.ego.TurnSignal = signal
	s.ego.Speed = 5
	s.ego.Polygon = geometry.BuildEgoPolygon(c, 0, config.DefaultEgoLength, config.DefaultEgoWidth, config.DefaultEgoWheelbase)
	s.geom = behavior.EgoGeometry{
		Back:  geometry.BackMiddlePoint(c, 0, config.DefaultEgoLength, config.DefaultEgoWheelbase),
		Width: config.DefaultEgoWidth,
	}
	return s
}

func (s *scene) add(id int32, typ trace.ObstacleType, x, y, theta, length, width, speed float64) {
	o := trace.Obstacle{ID: id, Type: typ, Theta: theta, Length: length, Width: width, Speed: speed}
	o.Polygon = geometry.BuildPolygon(orb.Point{x, y}, theta, length, width)
	o.DistToEgo = geometry.Distance(s.ego.Polygon, o.Polygon)
	s.truth.ObsList = append(s.truth.ObsList, o)
}

func (s *scene) priority() (bool, bool) {
	return newDetector(nil).Priority(&s.ego, s.geom, &s.truth)
}

func TestPriorityNPCAhead(t *testing.T) {
	s := newScene(trace.TurnStraight)
	s.add(1, trace.Vehicle, 57, 1.75, 0, 4, 2, 0)
	id := int32(1)
	s.truth.NPCAhead = &id
	npc, ped := s.priority()
	assert.True(t, npc)
	assert.False(t, ped)

	s = newScene(trace.TurnStraight)
	s.add(1, trace.Vehicle, 60, 1.75, 0, 4, 2, 0)
	s.truth.NPCAhead = &id
	npc, _ = s.priority()
	assert.False(t, npc, "npc ahead beyond 3m")
}

func TestPriorityCrossingWhileTurning(t *testing.T) {
	s := newScene(trace.TurnLeft)
	s.add(1, trace.Vehicle, 65, 5, math.Pi/2, 4, 2, 3)
	npc, _ := s.priority()
	assert.True(t, npc)

	s = newScene(trace.TurnLeft)
	s.add(1, trace.Vehicle, 65, 5, 0, 4, 2, 3)
	npc, _ = s.priority()
	assert.False(t, npc, "same direction")

	s = newScene(trace.TurnLeft)
	s.ego.IsLaneChanging = true
	s.add(1, trace.Vehicle, 65, 5, math.Pi/2, 4, 2, 3)
	npc, _ = s.priority()
	assert.False(t, npc, "lane changing")
}

func TestPriorityLaneChanging(t *testing.T) {
	s := newScene(trace.TurnLeft)
	s.ego.IsLaneChanging = true
	s.add(1, trace.Vehicle, 40, 5.33, 0, 4, 2, 10)
	npc, _ := s.priority()
	assert.True(t, npc)

	s = newScene(trace.TurnLeft)
	s.ego.IsLaneChanging = true
	s.add(1, trace.Vehicle, 40, 5.33, 0, 4, 2, 3)
	npc, _ = s.priority()
	assert.False(t, npc, "slower than ego")

	s = newScene(trace.TurnRight)
	s.ego.IsLaneChanging = true
	s.add(1, trace.Vehicle, 40, 5.33, 0, 4, 2, 10)
	npc, _ = s.priority()
	assert.False(t, npc, "left strip while signalling right")
}

func TestPriorityPedestrian(t *testing.T) {
	s := newScene(trace.TurnStraight)
	s.add(1, trace.Pedestrian, 55, 1.75, 0, 0.5, 0.5, 1)
	_, ped := s.priority()
	assert.True(t, ped)

	s = newScene(trace.TurnLeft)
	s.add(1, trace.Pedestrian, 58, 8, 0, 0.5, 0.5, 1)
	_, ped = s.priority()
	assert.True(t, ped)

	s = newScene(trace.TurnRight)
	s.add(1, trace.Pedestrian, 58, 8, 0, 0.5, 0.5, 1)
	_, ped = s.priority()
	assert.False(t, ped, "pedestrian on the left while turning right")

	s = newScene(trace.TurnStraight)
	s.add(1, trace.Pedestrian, 55, 1.75, 0, 0.5, 0.5, 1)
	s.ego.Polygon = nil
	npc, ped := s.priority()
	assert.False(t, npc)
	assert.False(t, ped)
}
