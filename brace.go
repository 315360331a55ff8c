// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package brace 把一个元素类型各不相同的字面量列表直接构造为任意目标类型：
// slice、map、chan 等范围类型逐个构造元素，结构体、数组等聚合类型按位置构造成员。
//
//	a, b := 1, 2.5
//	s, err := brace.To[[]float64](brace.Refs(&a, &b))        // []float64{1, 2.5}
//	p, err := brace.To[Point](brace.Of(1, 2))                 // Point{X: 1, Y: 2}
//	m, err := brace.To[map[string]int](brace.Of(brace.Of("a", 1), brace.Of("b", 2)))
package brace

import (
	"reflect"
	"unsafe"
)

// To 显式地把 src 构造为 T，转换规则详见包文档
func To[T any](src Source) (to T, err error) {
	return ToWithScope[T](defaultScope, src)
}

// Assign 以赋值的方式（隐式转换）把 src 构造到 dst 上；目标类型不允许隐式转换时返回错误且不消费 src
func Assign[T any](dst *T, src Source) error {
	return AssignWithScope(defaultScope, dst, src)
}

// ReflectTo 以反射的方式，需输入要构造的类型
func ReflectTo(src Source, toType reflect.Type) (reflect.Value, error) {
	return ReflectToWithScope(defaultScope, src, toType)
}

// ToWithScope 显式地把 src 构造为 T
func ToWithScope[T any](s *Scope, src Source) (to T, err error) {
	err = convert(s, src, typeFor[T](), false, unsafe.Pointer(&to))
	return to, err
}

// AssignWithScope 以赋值的方式把 src 构造到 dst 上
func AssignWithScope[T any](s *Scope, dst *T, src Source) error {
	if dst == nil {
		return NilPtrErr
	}
	var to T
	if err := convert(s, src, typeFor[T](), true, unsafe.Pointer(&to)); err != nil {
		return err
	}
	*dst = to
	return nil
}

// ReflectToWithScope 以反射的方式，需输入要构造的类型
func ReflectToWithScope(s *Scope, src Source, toType reflect.Type) (reflect.Value, error) {
	if toType == nil {
		return reflect.Value{}, NilToTypeErr
	}
	toPtr := reflect.New(toType)
	if err := convert(s, src, toType, false, toPtr.UnsafePointer()); err != nil {
		return reflect.Value{}, err
	}
	return toPtr.Elem(), nil
}

// CanTo 判断 src 能否显式构造为 T，不会消费 src
func CanTo[T any](src Source) bool {
	return CheckWithScope(defaultScope, src, typeFor[T](), false) == nil
}

// CanAssign 判断 src 能否以赋值的方式构造为 T，不会消费 src
func CanAssign[T any](src Source) bool {
	return CheckWithScope(defaultScope, src, typeFor[T](), true) == nil
}

// CheckWithScope 返回把 src 构造为 toType 时会被拒绝的原因，允许时返回 nil，不会消费 src
func CheckWithScope(s *Scope, src Source, toType reflect.Type, implicit bool) error {
	if toType == nil {
		return NilToTypeErr
	}
	req := src.request()
	if req.used {
		return ErrConsumed
	}
	return getPlan(s, req.tab, toType).check(s, req, implicit)
}
