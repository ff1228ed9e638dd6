package scripting

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/control"
)

func TestDecideReadsPerception(t *testing.T) {
	e, err := LoadString(`
function decide(p)
  if p.left_obstacle > 0 then
    return { speed = 1, angular_speed = 0.5 }
  end
  return { speed = p.left_pucks + p.right_pucks, angular_speed = -p.mid_nest }
end`, control.DefaultOrbitalConfig())
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	defer e.Close()

	tests := []struct {
		name string
		r    components.Reading
		want components.Action
	}{
		{"obstacle", components.Reading{LeftObstacle: 1}, components.Action{Speed: 1, AngularSpeed: 0.5}},
		{"pucks", components.Reading{LeftPucks: 2, RightPucks: 3, MidNest: 0.25}, components.Action{Speed: 5, AngularSpeed: -0.25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Decide(components.Perception{Reading: tt.r})
			if math.Abs(got.Speed-tt.want.Speed) > 1e-12 || math.Abs(got.AngularSpeed-tt.want.AngularSpeed) > 1e-12 {
				t.Errorf("Decide = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOrbitalMatchesGo(t *testing.T) {
	cfg := control.DefaultOrbitalConfig()
	e, err := LoadString(`function decide(p) return orbital(p) end`, cfg)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	defer e.Close()

	readings := []components.Reading{
		{LeftNest: 0.2, MidNest: 0.5, RightNest: 0.9},
		{LeftNest: 0.9, MidNest: 0.5, RightNest: 0.2, LeftPucks: 1},
		{LeftObstacle: 1},
		{LeftNest: 0.75, MidNest: 0.75, RightNest: 0.75, RightPucks: 2},
	}
	for _, robotType := range []int{components.Outie, components.Innie} {
		for i, r := range readings {
			p := components.Perception{Reading: r, RobotType: robotType}
			want := control.OrbitalConstruction(r, robotType, cfg)
			if got := e.Decide(p); got != want {
				t.Errorf("type %d reading %d: Decide = %+v, want %+v", robotType, i, got, want)
			}
		}
	}
}

func TestRuntimeErrorStopsRobot(t *testing.T) {
	e, err := LoadString(`function decide(p) error("boom") end`, control.DefaultOrbitalConfig())
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	defer e.Close()

	for i := 0; i < 3; i++ {
		if got := e.Decide(components.Perception{}); got != (components.Action{}) {
			t.Errorf("Decide = %+v, want zero action", got)
		}
	}
}

func TestNonTableResultStopsRobot(t *testing.T) {
	e, err := LoadString(`function decide(p) return 4 end`, control.DefaultOrbitalConfig())
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	defer e.Close()

	if got := e.Decide(components.Perception{}); got != (components.Action{}) {
		t.Errorf("Decide = %+v, want zero action", got)
	}
}

func TestMissingDecide(t *testing.T) {
	_, err := LoadString(`x = 1`, control.DefaultOrbitalConfig())
	if !errors.Is(err, ErrNoDecide) {
		t.Errorf("LoadString error = %v, want ErrNoDecide", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turn.lua")
	src := `function decide(p)
  if p.robot_type == INNIE then return { speed = 2, angular_speed = -0.3 } end
  return { speed = 2, angular_speed = 0.3 }
end`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	e, err := LoadFile(path, control.DefaultOrbitalConfig())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	defer e.Close()

	if got := e.Decide(components.Perception{RobotType: components.Innie}); got.AngularSpeed != -0.3 {
		t.Errorf("innie angular speed = %f, want -0.3", got.AngularSpeed)
	}
	if got := e.Decide(components.Perception{}); got.AngularSpeed != 0.3 {
		t.Errorf("outie angular speed = %f, want 0.3", got.AngularSpeed)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.lua"), control.DefaultOrbitalConfig()); err == nil {
		t.Error("expected an error for a missing script")
	}
}
