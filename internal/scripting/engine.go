package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM that drives the simulation script.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file in scriptsDir.
// A missing directory leaves the engine without an on_tick handler.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if scriptsDir != "" {
		if err := e.loadDir(scriptsDir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadFile runs a single script file.
func (e *Engine) LoadFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// SetSeed exposes the simulation seed to scripts as SEED.
func (e *Engine) SetSeed(seed int64) {
	e.vm.SetGlobal("SEED", lua.LNumber(seed))
}

// LoadString runs a chunk of Lua source in the engine's VM.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load lua source: %w", err)
	}
	return nil
}

// EntityInfo is the per-entity data handed to on_tick.
type EntityInfo struct {
	ID     uint64
	Label  string
	X, Y   float64
	Moving bool
}

// TickContext is passed to Lua as the on_tick argument.
type TickContext struct {
	Tick     uint64
	Entities []EntityInfo
}

// Command is a single world mutation returned by Lua.
type Command struct {
	Type   string // "spawn", "set_position", "set_velocity", "remove_velocity", "set_sprite", "unsync", "destroy"
	ID     uint64
	HasID  bool // id was present; 0 is a valid entity id
	Label  string
	X, Y   float64
	DX, DY float64
	Glyph  string
	Layer  int
}

// RunTick calls Lua on_tick(ctx) and returns its commands. A script without
// on_tick returns no commands.
func (e *Engine) RunTick(ctx TickContext) ([]Command, error) {
	fn := e.vm.GetGlobal("on_tick")
	if fn == lua.LNil {
		return nil, nil
	}

	t := e.vm.NewTable()
	t.RawSetString("tick", lua.LNumber(ctx.Tick))

	ents := e.vm.NewTable()
	for i, info := range ctx.Entities {
		row := e.vm.NewTable()
		row.RawSetString("id", lua.LNumber(info.ID))
		row.RawSetString("label", lua.LString(info.Label))
		row.RawSetString("x", lua.LNumber(info.X))
		row.RawSetString("y", lua.LNumber(info.Y))
		row.RawSetString("moving", lua.LBool(info.Moving))
		ents.RawSetInt(i+1, row)
	}
	t.RawSetString("entities", ents)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		return nil, fmt.Errorf("lua on_tick: %w", err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil, nil
	}

	// Parse commands array
	var cmds []Command
	rt.ForEach(func(_, v lua.LValue) {
		if row, ok := v.(*lua.LTable); ok {
			cmds = append(cmds, Command{
				Type:  lStr(row, "type"),
				ID:    uint64(lNum(row, "id")),
				HasID: row.RawGetString("id") != lua.LNil,
				Label: lStr(row, "label"),
				X:     lNum(row, "x"),
				Y:     lNum(row, "y"),
				DX:    lNum(row, "dx"),
				DY:    lNum(row, "dy"),
				Glyph: lStr(row, "glyph"),
				Layer: int(lNum(row, "layer")),
			})
		}
	})
	return cmds, nil
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// lNum reads a number field from a Lua table; missing fields read as 0.
func lNum(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
