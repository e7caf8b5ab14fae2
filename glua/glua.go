// Package glua exposes polynomial differentiation to Lua scripts run by
// gopher-lua.
//
// The module provides three functions. Each returns nil and an error message
// if its input is invalid.
//
//	derive(expr [, var])       -> derivative text
//	eval(text, x [, var])      -> value of a derivative at x
//	derive_at(expr, x [, var]) -> derivative text, value at x
//
// The optional var is the variable of differentiation, default "x".
package glua

import (
	"unicode"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/zephyrtronium/deriv"
)

var exports = map[string]lua.LGFunction{
	"derive":    derive,
	"eval":      eval,
	"derive_at": deriveAt,
}

// Loader loads the module table. Use it with L.PreloadModule("deriv", Loader)
// so that scripts can require it.
func Loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), exports)
	L.Push(mod)
	return 1
}

// Open registers the module's functions as globals in L.
func Open(L *lua.LState) {
	for name, fn := range exports {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

func derive(L *lua.LState) int {
	expr := L.CheckString(1)
	vr := variable(L, 2)
	d, err := deriv.DeriveString(expr, deriv.Variable(vr))
	if err != nil {
		return fail(L, err)
	}
	L.Push(lua.LString(d))
	return 1
}

func eval(L *lua.LState) int {
	text := L.CheckString(1)
	x := float64(L.CheckNumber(2))
	vr := variable(L, 3)
	r, err := deriv.EvalString(text, x, deriv.EvalVariable(vr))
	if err != nil {
		return fail(L, err)
	}
	L.Push(lua.LNumber(r))
	return 1
}

func deriveAt(L *lua.LState) int {
	expr := L.CheckString(1)
	x := float64(L.CheckNumber(2))
	vr := variable(L, 3)
	d := deriv.New(deriv.Variable(vr))
	if err := d.FindString(expr); err != nil {
		return fail(L, err)
	}
	text, r, err := d.DerivativeAt(x)
	if err != nil {
		return fail(L, err)
	}
	L.Push(lua.LString(text))
	L.Push(lua.LNumber(r))
	return 2
}

// variable gets the optional variable argument at n. A bad variable raises a
// Lua error.
func variable(L *lua.LState, n int) rune {
	s := L.OptString(n, string(deriv.DefaultVariable))
	r, sz := utf8.DecodeRuneInString(s)
	if sz != len(s) || !unicode.IsLetter(r) {
		L.ArgError(n, "variable must be a single letter")
	}
	return r
}

func fail(L *lua.LState, err error) int {
	L.Push(lua.LNil)
	L.Push(lua.LString(err.Error()))
	return 2
}
