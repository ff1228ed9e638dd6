package systems

import (
	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/ecs"
	"github.com/pthm-cable/waggle/geom"
	"github.com/pthm-cable/waggle/world"
)

// SensorPosition returns the world position of sensor sn on owner. The
// offset rotates with the owner's heading.
func SensorPosition(s *ecs.Store, owner ecs.Entity, sn components.Sensor) geom.Vec2 {
	var heading float64
	if ecs.Has[components.Steer](s, owner) {
		heading = ecs.Get[components.Steer](s, owner).Angle
	}
	p := ecs.Get[components.Transform](s, owner).P
	return p.Add(geom.FromAngle(sn.Angle+heading, sn.Distance))
}

// ReadSensor evaluates one sensor.
func ReadSensor(w *world.World, owner ecs.Entity, sn components.Sensor) float64 {
	switch sn.Kind {
	case components.GridSensor:
		return gridReading(w, owner, sn)
	case components.PuckSensor:
		return puckReading(w, owner, sn)
	case components.ObstacleSensor:
		return obstacleReading(w, owner, sn)
	}
	return 0
}

// gridReading samples the field under the sensor; 0 without a field.
func gridReading(w *world.World, owner ecs.Entity, sn components.Sensor) float64 {
	p := SensorPosition(w.Store(), owner, sn)
	return w.Field().Sample(p.X, p.Y, w.Width(), w.Height())
}

// puckReading counts pucks overlapping the sensor disc.
func puckReading(w *world.World, owner ecs.Entity, sn components.Sensor) float64 {
	s := w.Store()
	p := SensorPosition(s, owner, sn)
	var count float64
	for puck := range w.Tagged(world.TagPuck).All() {
		reach := sn.Radius + ecs.Get[components.CircleBody](s, puck).R
		if p.DistSq(ecs.Get[components.Transform](s, puck).P) < reach*reach {
			count++
		}
	}
	return count
}

// obstacleReading counts circle bodies other than owner overlapping the
// sensor disc.
func obstacleReading(w *world.World, owner ecs.Entity, sn components.Sensor) float64 {
	s := w.Store()
	p := SensorPosition(s, owner, sn)
	var count float64
	for e := range w.Entities().All() {
		if e == owner || !ecs.Has[components.CircleBody](s, e) {
			continue
		}
		reach := sn.Radius + ecs.Get[components.CircleBody](s, e).R
		if p.DistSq(ecs.Get[components.Transform](s, e).P) < reach*reach {
			count++
		}
	}
	return count
}

// Read collapses owner's sensor array into a Reading. Grid sensors fill
// left, mid or right by the sign of their angle. Puck and obstacle sensors
// at angle <= 0 add to the left side, the rest to the right.
func Read(w *world.World, owner ecs.Entity) components.Reading {
	var r components.Reading
	s := w.Store()
	if !ecs.Has[components.SensorArray](s, owner) {
		return r
	}
	sensors := ecs.Get[components.SensorArray](s, owner)

	for _, sn := range sensors.Grid {
		v := gridReading(w, owner, sn)
		switch {
		case sn.Angle < 0:
			r.LeftNest = v
		case sn.Angle > 0:
			r.RightNest = v
		default:
			r.MidNest = v
		}
	}
	for _, sn := range sensors.Puck {
		if sn.Angle <= 0 {
			r.LeftPucks += puckReading(w, owner, sn)
		} else {
			r.RightPucks += puckReading(w, owner, sn)
		}
	}
	for _, sn := range sensors.Obstacle {
		if sn.Angle <= 0 {
			r.LeftObstacle += obstacleReading(w, owner, sn)
		} else {
			r.RightObstacle += obstacleReading(w, owner, sn)
		}
	}
	return r
}
