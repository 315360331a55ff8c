// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"unsafe"
)

func typeFor[T any]() reflect.Type {
	var v T
	if t := reflect.TypeOf(v); t != nil {
		return t // optimize for T being a non-interface kind
	}
	return reflect.TypeOf((*T)(nil)).Elem() // only for an interface kind
}

type eface struct {
	typ unsafe.Pointer
	ptr unsafe.Pointer
}

// typePtr 取 reflect.Type 内部的 *rtype，nil 时返回 nil
func typePtr(t reflect.Type) unsafe.Pointer {
	if t == nil {
		return nil
	}
	return (*eface)(unsafe.Pointer(&t)).ptr
}

func isNilableType(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

func isSignedKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUnsignedKind(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumberKind(k reflect.Kind) bool {
	return isSignedKind(k) || isUnsignedKind(k) || isFloatKind(k)
}

func offset(data unsafe.Pointer, idx int, elemSize uintptr) unsafe.Pointer {
	return unsafe.Add(data, uintptr(idx)*elemSize)
}

// typedMemMove 按 typ 把 src 指向的值拷贝到 dst
func typedMemMove(typ reflect.Type, dst, src unsafe.Pointer) {
	reflect.NewAt(typ, dst).Elem().Set(reflect.NewAt(typ, src).Elem())
}

// typedMemClr 把 dst 指向的值置为 typ 的零值
func typedMemClr(typ reflect.Type, dst unsafe.Pointer) {
	reflect.NewAt(typ, dst).Elem().SetZero()
}

// copyObject 把 v 拷贝到一块新分配的、可寻址的内存上
func copyObject(v reflect.Value) unsafe.Pointer {
	copied := reflect.New(v.Type())
	copied.Elem().Set(v)
	return copied.UnsafePointer()
}

func loadValue(typ reflect.Type, addr unsafe.Pointer) reflect.Value {
	return reflect.NewAt(typ, addr).Elem()
}

type slice struct {
	data unsafe.Pointer
	len  int
	cap  int
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
