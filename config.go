// config.go - the settings tree a device factory is built from, and its
// adapter from an already-parsed Lua table.
//
// Grounded on original_source/Little32/include/L32_ConfigParser.h's
// VarValue/IDeviceSettings contract (a typed tree of settings handed to a
// device factory) for the variant shape, and on
// github.com/yuin/gopher-lua's LValue/LTable model for the Go
// representation: a Value can be built directly from an *lua.LTable,
// letting a host embed device configuration as Lua tables without this
// package implementing a bespoke tokenizer - the tokenizer itself is out
// of scope; only the value-tree contract and this adapter are in.

package littlevm

import (
	"fmt"
	"math/big"

	lua "github.com/yuin/gopher-lua"
)

// Kind discriminates the variant currently held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindIntVector
	KindColour
	KindList
	KindObject
	KindReference
)

// Colour is an RGBA8 settings value.
type Colour [4]byte

// Value is a node in a device's settings tree. Exactly one of the fields
// matching Kind is meaningful; the rest are zero.
type Value struct {
	Kind Kind

	Str       string
	Int       *big.Int
	Float     float64
	IntVector []int64
	Colour    Colour
	List      []Value
	Object    map[string]Value
	Reference string
}

// Labels maps a named anchor point (e.g. "text_position") a device
// factory exposes to a resolved bus address, populated as devices are
// constructed and consulted by later settings that reference earlier
// devices by name.
type Labels map[string]uint32

// DeviceFactory builds a MappedDevice from its settings. It either
// returns a fully-initialised device attached to computer at base, or a
// *ConfigError describing why it could not.
type DeviceFactory func(computer *Computer, base uint32, settings Value, labels Labels) (MappedDevice, error)

// ConfigError is a domain error raised by a DeviceFactory: a human
// readable message plus the dotted key path that triggered it.
type ConfigError struct {
	Message string
	Path    string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Contains reports whether an Object-kind Value has the given key.
func (v Value) Contains(key string) bool {
	if v.Kind != KindObject {
		return false
	}
	_, ok := v.Object[key]
	return ok
}

// Field looks up key on an Object-kind Value. The zero Value and false
// are returned if v is not an object or the key is absent.
func (v Value) Field(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	f, ok := v.Object[key]
	return f, ok
}

// ValueFromLua converts an already-parsed Lua value into a Value. Tables
// with only positive integer keys 1..n (gopher-lua's array convention)
// become KindIntVector when every element is a whole number and KindList
// otherwise; any other table becomes KindObject, with non-string
// keys stringified. A table entry under the key "$ref" becomes
// KindReference instead of KindObject, carrying that entry's string.
func ValueFromLua(lv lua.LValue) (Value, error) {
	switch v := lv.(type) {
	case lua.LString:
		return Value{Kind: KindString, Str: string(v)}, nil
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return Value{Kind: KindInt, Int: big.NewInt(int64(f))}, nil
		}
		return Value{Kind: KindFloat, Float: f}, nil
	case lua.LBool:
		if bool(v) {
			return Value{Kind: KindInt, Int: big.NewInt(1)}, nil
		}
		return Value{Kind: KindInt, Int: big.NewInt(0)}, nil
	case *lua.LTable:
		return tableToValue(v)
	case *lua.LNilType:
		return Value{}, nil
	default:
		return Value{}, fmt.Errorf("config: unsupported Lua value of type %T", lv)
	}
}

func tableToValue(t *lua.LTable) (Value, error) {
	if ref := t.RawGetString("$ref"); ref != lua.LNil {
		s, ok := ref.(lua.LString)
		if !ok {
			return Value{}, fmt.Errorf("config: $ref must be a string")
		}
		return Value{Kind: KindReference, Reference: string(s)}, nil
	}

	n := t.Len()
	if n > 0 && tableIsArray(t, n) {
		if ints, ok := tryIntVector(t, n); ok {
			return Value{Kind: KindIntVector, IntVector: ints}, nil
		}
		list := make([]Value, 0, n)
		for i := 1; i <= n; i++ {
			elem, err := ValueFromLua(t.RawGetInt(i))
			if err != nil {
				return Value{}, err
			}
			list = append(list, elem)
		}
		return Value{Kind: KindList, List: list}, nil
	}

	obj := map[string]Value{}
	var err error
	t.ForEach(func(k, val lua.LValue) {
		if err != nil {
			return
		}
		key := k.String()
		var v Value
		v, err = ValueFromLua(val)
		obj[key] = v
	})
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindObject, Object: obj}, nil
}

// tableIsArray reports whether every key in t is an integer in 1..n -
// gopher-lua's Len() already assumes this for the common case, but a
// table can mix integer and string keys, so this is checked explicitly.
func tableIsArray(t *lua.LTable, n int) bool {
	count := 0
	t.ForEach(func(k, _ lua.LValue) { count++ })
	return count == n
}

// tryIntVector reports whether every element of a length-n array table is
// a whole LNumber, returning them as int64s if so - this is how
// "vector-of-int" settings (texture_position, text_size, ...) arrive from
// Lua, which has no native integer/float distinction.
func tryIntVector(t *lua.LTable, n int) ([]int64, bool) {
	out := make([]int64, 0, n)
	for i := 1; i <= n; i++ {
		num, ok := t.RawGetInt(i).(lua.LNumber)
		if !ok || float64(num) != float64(int64(num)) {
			return nil, false
		}
		out = append(out, int64(num))
	}
	return out, true
}
