// Package scripting runs robot controllers written in Lua.
//
// A script defines a global function decide(p) that receives the robot's
// perception as a table and returns a table with speed and angular_speed:
//
//	function decide(p)
//	  if p.left_obstacle > 0 then
//	    return { speed = 2, angular_speed = 0.3 }
//	  end
//	  return orbital(p)
//	end
//
// The perception table has the fields left_nest, mid_nest, right_nest,
// left_pucks, right_pucks, left_obstacle, right_obstacle and robot_type.
// The global orbital(p) returns the orbital construction heuristic's action.
package scripting

import (
	"errors"
	"fmt"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/control"
)

// ErrNoDecide is returned when a script does not define decide.
var ErrNoDecide = errors.New("lua script defines no decide function")

const decideFunc = "decide"

// Engine wraps a single gopher-lua VM holding one controller script.
// Single-goroutine access only.
type Engine struct {
	vm      *lua.LState
	orbital control.OrbitalConfig
	failed  bool
}

// LoadFile creates an engine running the script at path.
func LoadFile(path string, orbital control.OrbitalConfig) (*Engine, error) {
	e := newEngine(orbital)
	if err := e.vm.DoFile(path); err != nil {
		e.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err := e.check(); err != nil {
		e.Close()
		return nil, err
	}
	slog.Debug("loaded lua script", "file", path)
	return e, nil
}

// LoadString creates an engine running the script src.
func LoadString(src string, orbital control.OrbitalConfig) (*Engine, error) {
	e := newEngine(orbital)
	if err := e.vm.DoString(src); err != nil {
		e.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	if err := e.check(); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func newEngine(orbital control.OrbitalConfig) *Engine {
	vm := lua.NewState()
	e := &Engine{vm: vm, orbital: orbital}

	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("OUTIE", lua.LNumber(components.Outie))
	vm.SetGlobal("INNIE", lua.LNumber(components.Innie))
	vm.SetGlobal("orbital", vm.NewFunction(e.luaOrbital))
	return e
}

func (e *Engine) check() error {
	if _, ok := e.vm.GetGlobal(decideFunc).(*lua.LFunction); !ok {
		return ErrNoDecide
	}
	return nil
}

// luaOrbital exposes control.OrbitalConstruction to scripts.
func (e *Engine) luaOrbital(L *lua.LState) int {
	p := perceptionFromTable(L.CheckTable(1))
	L.Push(e.actionTable(control.OrbitalConstruction(p.Reading, p.RobotType, e.orbital)))
	return 1
}

func (e *Engine) perceptionTable(p components.Perception) *lua.LTable {
	t := e.vm.NewTable()
	r := p.Reading
	t.RawSetString("left_nest", lua.LNumber(r.LeftNest))
	t.RawSetString("mid_nest", lua.LNumber(r.MidNest))
	t.RawSetString("right_nest", lua.LNumber(r.RightNest))
	t.RawSetString("left_pucks", lua.LNumber(r.LeftPucks))
	t.RawSetString("right_pucks", lua.LNumber(r.RightPucks))
	t.RawSetString("left_obstacle", lua.LNumber(r.LeftObstacle))
	t.RawSetString("right_obstacle", lua.LNumber(r.RightObstacle))
	t.RawSetString("robot_type", lua.LNumber(p.RobotType))
	return t
}

func perceptionFromTable(t *lua.LTable) components.Perception {
	num := func(k string) float64 { return float64(lua.LVAsNumber(t.RawGetString(k))) }
	return components.Perception{
		Reading: components.Reading{
			LeftNest:      num("left_nest"),
			MidNest:       num("mid_nest"),
			RightNest:     num("right_nest"),
			LeftPucks:     num("left_pucks"),
			RightPucks:    num("right_pucks"),
			LeftObstacle:  num("left_obstacle"),
			RightObstacle: num("right_obstacle"),
		},
		RobotType: int(num("robot_type")),
	}
}

func (e *Engine) actionTable(a components.Action) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("speed", lua.LNumber(a.Speed))
	t.RawSetString("angular_speed", lua.LNumber(a.AngularSpeed))
	return t
}

// Decide calls the script's decide function. A script error or a result
// that is not a table stops the robot; the first failure is logged.
func (e *Engine) Decide(p components.Perception) components.Action {
	if err := e.vm.CallByParam(lua.P{
		Fn:      e.vm.GetGlobal(decideFunc),
		NRet:    1,
		Protect: true,
	}, e.perceptionTable(p)); err != nil {
		e.fail("lua decide error", "error", err)
		return components.Action{}
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.fail("lua decide returned non-table", "type", result.Type().String())
		return components.Action{}
	}
	return components.Action{
		Speed:        float64(lua.LVAsNumber(rt.RawGetString("speed"))),
		AngularSpeed: float64(lua.LVAsNumber(rt.RawGetString("angular_speed"))),
	}
}

func (e *Engine) fail(msg string, args ...any) {
	if e.failed {
		return
	}
	e.failed = true
	slog.Error(msg, args...)
}

// Close releases the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
