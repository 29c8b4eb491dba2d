package event

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// LuaUpgrade compiles a Lua chunk that defines a global function
//
//	function upgrade(fields) ... end
//
// and returns an UpgradeFunc calling it. The function may edit fields in
// place or return a replacement table. Each call runs in a fresh state with
// only the base, table, string and math libraries.
func LuaUpgrade(source string) (UpgradeFunc, error) {
	chunk, err := parse.Parse(strings.NewReader(source), "upgrade")
	if err != nil {
		return nil, errors.Wrap(err, "parse lua upgrade")
	}
	proto, err := lua.Compile(chunk, "upgrade")
	if err != nil {
		return nil, errors.Wrap(err, "compile lua upgrade")
	}

	// Fail early when the chunk does not define upgrade().
	L := newUpgradeState()
	_, err = loadUpgrade(L, proto)
	L.Close()
	if err != nil {
		return nil, err
	}

	return func(fields map[string]any) (out map[string]any, err error) {
		L := newUpgradeState()
		defer L.Close()
		defer func() {
			if r := recover(); r != nil {
				err = errors.Newf("lua upgrade panic: %v", r)
			}
		}()

		fn, err := loadUpgrade(L, proto)
		if err != nil {
			return nil, err
		}

		arg := toLua(L, fields).(*lua.LTable)
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, arg); err != nil {
			return nil, errors.Wrap(err, "run lua upgrade")
		}
		ret := L.Get(-1)
		L.Pop(1)

		result := arg
		if t, ok := ret.(*lua.LTable); ok {
			result = t
		} else if ret != lua.LNil {
			return nil, errors.Newf("lua upgrade returned %s, want table or nil", ret.Type())
		}
		return tableToMap(result), nil
	}, nil
}

// AddLuaUpgrade compiles source with LuaUpgrade and attaches it to kind.
func (r *Registry) AddLuaUpgrade(kind Kind, version int, source string) error {
	fn, err := LuaUpgrade(source)
	if err != nil {
		return errors.Wrapf(err, "upgrade of %q to version %d", kind, version)
	}
	return r.AddUpgrade(kind, version, fn)
}

func newUpgradeState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	return L
}

func loadUpgrade(L *lua.LState, proto *lua.FunctionProto) (*lua.LFunction, error) {
	L.Push(L.NewFunctionFromProto(proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, errors.Wrap(err, "load lua upgrade")
	}
	fn, ok := L.GetGlobal("upgrade").(*lua.LFunction)
	if !ok {
		return nil, errors.New("lua upgrade chunk does not define upgrade(fields)")
	}
	return fn, nil
}

// toLua converts a record field value into a Lua value.
func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case uint64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case map[string]any:
		t := L.NewTable()
		for k, item := range val {
			t.RawSetString(k, toLua(L, item))
		}
		return t
	case []any:
		t := L.NewTable()
		for _, item := range val {
			t.Append(toLua(L, item))
		}
		return t
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

// fromLua converts a Lua value into a record field value. Integral numbers
// become int64; tables with keys 1..n become slices.
func fromLua(lv lua.LValue) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if n := v.Len(); n > 0 && countKeys(v) == n {
			out := make([]any, n)
			for i := 1; i <= n; i++ {
				out[i-1] = fromLua(v.RawGetInt(i))
			}
			return out
		}
		return tableToMap(v)
	default:
		return nil
	}
}

func tableToMap(t *lua.LTable) map[string]any {
	out := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = strconv.FormatFloat(float64(kv), 'f', -1, 64)
		default:
			key = k.String()
		}
		out[key] = fromLua(v)
	})
	return out
}

func countKeys(t *lua.LTable) int {
	n := 0
	t.ForEach(func(_, _ lua.LValue) { n++ })
	return n
}
