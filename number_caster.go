// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"unsafe"
)

type iNumber interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr | ~float32 | ~float64
}

func numberCaster[F iNumber, T iNumber](fromAddr, toAddr unsafe.Pointer) error {
	*(*T)(toAddr) = T(*(*F)(fromAddr))
	return nil
}

// getNumberCaster 数字之间按 Go 的转换规则截断或舍入，其余类型不构造数字
func getNumberCaster[T iNumber](s *Scope, fromType, toType reflect.Type) castFunc {
	switch fromType.Kind() {
	case reflect.Int:
		return numberCaster[int, T]
	case reflect.Int8:
		return numberCaster[int8, T]
	case reflect.Int16:
		return numberCaster[int16, T]
	case reflect.Int32:
		return numberCaster[int32, T]
	case reflect.Int64:
		return numberCaster[int64, T]
	case reflect.Uint:
		return numberCaster[uint, T]
	case reflect.Uint8:
		return numberCaster[uint8, T]
	case reflect.Uint16:
		return numberCaster[uint16, T]
	case reflect.Uint32:
		return numberCaster[uint32, T]
	case reflect.Uint64:
		return numberCaster[uint64, T]
	case reflect.Uintptr:
		return numberCaster[uintptr, T]
	case reflect.Float32:
		return numberCaster[float32, T]
	case reflect.Float64:
		return numberCaster[float64, T]
	default:
		return nil
	}
}
