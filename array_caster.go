// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"unsafe"
)

// getArrayCaster 按下标逐个转换，多出的元素被丢弃，不足的元素置零
func getArrayCaster(s *Scope, fromType, toType reflect.Type) castFunc {
	switch fromType.Kind() {
	case reflect.Array:
		elemCaster, _ := getCaster(s, fromType.Elem(), toType.Elem())
		if elemCaster == nil {
			return nil
		}
		length := min(fromType.Len(), toType.Len())
		fromElemSize := fromType.Elem().Size()
		toElemSize := toType.Elem().Size()
		return func(fromAddr, toAddr unsafe.Pointer) error {
			typedMemClr(toType, toAddr)
			for i := 0; i < length; i++ {
				if err := elemCaster(offset(fromAddr, i, fromElemSize), offset(toAddr, i, toElemSize)); err != nil {
					typedMemClr(toType, toAddr)
					return err
				}
			}
			return nil
		}
	case reflect.Slice:
		elemCaster, _ := getCaster(s, fromType.Elem(), toType.Elem())
		if elemCaster == nil {
			return nil
		}
		toLen := toType.Len()
		fromElemSize := fromType.Elem().Size()
		toElemSize := toType.Elem().Size()
		return func(fromAddr, toAddr unsafe.Pointer) error {
			from := *(*slice)(fromAddr)
			length := min(from.len, toLen)
			typedMemClr(toType, toAddr)
			for i := 0; i < length; i++ {
				if err := elemCaster(offset(from.data, i, fromElemSize), offset(toAddr, i, toElemSize)); err != nil {
					typedMemClr(toType, toAddr)
					return err
				}
			}
			return nil
		}
	default:
		return nil
	}
}
