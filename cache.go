// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"sync/atomic"
	"unsafe"
)

// kindSlots 每个 Kind 占一格，第 0 格（reflect.Invalid）留给列表里无类型的 nil
const kindSlots = int(reflect.UnsafePointer) + 1

var builtinTypePtrs [kindSlots]unsafe.Pointer

func registerBuiltin[T any]() {
	typ := typeFor[T]()
	builtinTypePtrs[typ.Kind()] = typePtr(typ)
}

// builtinSlot 未命名的基础类型返回其 Kind，nil 返回 0，其余返回 -1
func builtinSlot(typ reflect.Type) int {
	if typ == nil {
		return 0
	}
	k := typ.Kind()
	if k == reflect.Invalid || builtinTypePtrs[k] != typePtr(typ) {
		return -1
	}
	return int(k)
}

func getCacheIdx(fromType, toType reflect.Type) int {
	from := builtinSlot(fromType)
	if from < 0 || toType == nil {
		return -1
	}
	to := builtinSlot(toType)
	if to <= 0 {
		return -1
	}
	return from*kindSlots + to
}

func init() {
	registerBuiltin[bool]()
	registerBuiltin[int]()
	registerBuiltin[int8]()
	registerBuiltin[int16]()
	registerBuiltin[int32]()
	registerBuiltin[int64]()
	registerBuiltin[uint]()
	registerBuiltin[uint8]()
	registerBuiltin[uint16]()
	registerBuiltin[uint32]()
	registerBuiltin[uint64]()
	registerBuiltin[uintptr]()
	registerBuiltin[float32]()
	registerBuiltin[float64]()
	registerBuiltin[complex64]()
	registerBuiltin[complex128]()
	registerBuiltin[string]()
	registerBuiltin[any]()
}

// kindCache 基础类型之间的转换器放在按 Kind 索引的定长数组里，免去加锁查 map
type kindCache [kindSlots * kindSlots]atomic.Pointer[casterValue]

func (c *kindCache) load(idx int) (casterValue, bool) {
	ptr := c[idx].Load()
	if ptr == nil {
		return casterValue{}, false
	}
	return *ptr, true
}

func (c *kindCache) store(idx int, value casterValue) {
	c[idx].Store(&value)
}
