// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"strconv"
)

type strErr string

func (e strErr) Error() string {
	return string(e)
}

const NilToTypeErr = strErr("to type is <nil>")
const NilPtrErr = strErr("can't capture nil pointer")
const NilStringerErr = strErr("stringer is nil")
const ErrConsumed = strErr("list already consumed: a list built by Of can only be converted once")
const ErrExtraArgsAggregate = strErr("extra args are only accepted by range targets")
const ErrUnreachable = strErr("unreachable: element view of an empty list")

func invalidCastErr(fromType, toType reflect.Type) error {
	return strErr("invalid cast: can't cast type <" + getTypeString(fromType) + "> to <" + getTypeString(toType) + ">")
}

func invalidSlotErr(idx int, fromType, toType reflect.Type) error {
	return strErr("invalid list: slot " + strconv.Itoa(idx) + " of type <" + getTypeString(fromType) + "> can't initialize <" + getTypeString(toType) + ">")
}

func tooManySlotsErr(n, max int, toType reflect.Type) error {
	return strErr("invalid list: " + strconv.Itoa(n) + " values for <" + getTypeString(toType) + "> which holds at most " + strconv.Itoa(max))
}

func explicitOnlyErr(toType reflect.Type) error {
	return strErr("implicit conversion to <" + getTypeString(toType) + "> is not allowed, use To")
}

func notConstructibleErr(toType reflect.Type) error {
	return strErr("type <" + getTypeString(toType) + "> can't be built from a list")
}

func invalidExtraArgsErr(toType reflect.Type, extra []any) error {
	return strErr("type <" + getTypeString(toType) + "> can't be built with " + strconv.Itoa(len(extra)) + " extra args")
}

func invalidOpErr(op string, a, b reflect.Type) error {
	return strErr("invalid " + op + ": types <" + getTypeString(a) + "> and <" + getTypeString(b) + "> are not " + op + "-able")
}

func getTypeString(typ reflect.Type) string {
	if typ == nil {
		return "nil"
	}
	return typ.String()
}
