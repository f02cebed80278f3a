package agent

import (
	"fmt"
	"socha/game"

	lua "github.com/yuin/gopher-lua"
)

// ChooseFn is the global function a Lua script must define:
//
//	function choose_move(moves, state) return 1 end
//
// moves is an array of {from = {x, y}, to = {x, y}}; state holds turn, round, team, ambers
// and pieces. The function returns the 1-based index of the chosen move.
const ChooseFn = "choose_move"

type LuaAgent struct {
	L *lua.LState
}

// NewLuaAgent runs the script source and returns an agent delegating to its choose_move.
func NewLuaAgent(source string) (*LuaAgent, error) {
	L := lua.NewState()
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to load lua script: %w", err)
	}
	return newLuaAgent(L)
}

// NewLuaAgentFromFile is NewLuaAgent for a script on disk.
func NewLuaAgentFromFile(path string) (*LuaAgent, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to load lua script %s: %w", path, err)
	}
	return newLuaAgent(L)
}

func newLuaAgent(L *lua.LState) (*LuaAgent, error) {
	if L.GetGlobal(ChooseFn).Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("lua script does not define function %s", ChooseFn)
	}
	return &LuaAgent{L: L}, nil
}

func (a *LuaAgent) FindMove(state *game.GameState, team game.Team) (game.Move, error) {
	moves := state.PossibleMoves(team)
	if len(moves) == 0 {
		return game.Move{}, ErrNoMoves
	}

	err := a.L.CallByParam(lua.P{
		Fn:      a.L.GetGlobal(ChooseFn),
		NRet:    1,
		Protect: true,
	}, a.movesTable(moves), a.stateTable(state, team))
	if err != nil {
		return game.Move{}, fmt.Errorf("lua %s failed: %w", ChooseFn, err)
	}

	ret := a.L.Get(-1)
	a.L.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return game.Move{}, fmt.Errorf("lua %s returned %s, want a number", ChooseFn, ret.Type())
	}
	index := int(n)
	if float64(index) != float64(n) || index < 1 || index > len(moves) {
		return game.Move{}, fmt.Errorf("lua %s returned index %v out of range [1, %d]", ChooseFn, n, len(moves))
	}
	return moves[index-1], nil
}

// Close releases the Lua interpreter.
func (a *LuaAgent) Close() {
	a.L.Close()
}

func (a *LuaAgent) point(c game.Coordinates) *lua.LTable {
	t := a.L.NewTable()
	t.RawSetString("x", lua.LNumber(c.X))
	t.RawSetString("y", lua.LNumber(c.Y))
	return t
}

func (a *LuaAgent) movesTable(moves []game.Move) *lua.LTable {
	t := a.L.NewTable()
	for i, m := range moves {
		mt := a.L.NewTable()
		mt.RawSetString("from", a.point(m.From))
		mt.RawSetString("to", a.point(m.To))
		t.RawSetInt(i+1, mt)
	}
	return t
}

func (a *LuaAgent) stateTable(state *game.GameState, team game.Team) *lua.LTable {
	t := a.L.NewTable()
	t.RawSetString("turn", lua.LNumber(state.Turn))
	t.RawSetString("round", lua.LNumber(state.Round()))
	t.RawSetString("team", lua.LString(team.String()))

	ambers := a.L.NewTable()
	ambers.RawSetString(game.TeamOne.String(), lua.LNumber(state.Ambers[game.TeamOne]))
	ambers.RawSetString(game.TeamTwo.String(), lua.LNumber(state.Ambers[game.TeamTwo]))
	t.RawSetString("ambers", ambers)

	pieces := a.L.NewTable()
	for i, p := range state.Board.Pieces() {
		pt := a.L.NewTable()
		pt.RawSetString("x", lua.LNumber(p.Coordinates.X))
		pt.RawSetString("y", lua.LNumber(p.Coordinates.Y))
		pt.RawSetString("team", lua.LString(p.Team.String()))
		pt.RawSetString("type", lua.LString(p.Type.String()))
		pt.RawSetString("count", lua.LNumber(p.Count))
		pieces.RawSetInt(i+1, pt)
	}
	t.RawSetString("pieces", pieces)
	return t
}
