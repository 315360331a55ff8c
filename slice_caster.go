// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"unsafe"
)

func getSliceCaster(s *Scope, fromType, toType reflect.Type) castFunc {
	toElemType := toType.Elem()
	switch fromType.Kind() {
	case reflect.Array:
		elemCaster, _ := getCaster(s, fromType.Elem(), toElemType)
		if elemCaster == nil {
			return nil
		}
		length := fromType.Len()
		fromElemSize := fromType.Elem().Size()
		toElemSize := toElemType.Size()
		return func(fromAddr, toAddr unsafe.Pointer) error {
			to := reflect.MakeSlice(toType, length, length)
			data := to.UnsafePointer()
			for i := 0; i < length; i++ {
				if err := elemCaster(offset(fromAddr, i, fromElemSize), offset(data, i, toElemSize)); err != nil {
					return err
				}
			}
			loadValue(toType, toAddr).Set(to)
			return nil
		}
	case reflect.Slice:
		elemCaster, _ := getCaster(s, fromType.Elem(), toElemType)
		if elemCaster == nil {
			return nil
		}
		fromElemSize := fromType.Elem().Size()
		toElemSize := toElemType.Size()
		return func(fromAddr, toAddr unsafe.Pointer) error {
			from := *(*slice)(fromAddr)
			if from.data == nil {
				typedMemClr(toType, toAddr)
				return nil
			}
			to := reflect.MakeSlice(toType, from.len, from.len)
			data := to.UnsafePointer()
			for i := 0; i < from.len; i++ {
				if err := elemCaster(offset(from.data, i, fromElemSize), offset(data, i, toElemSize)); err != nil {
					return err
				}
			}
			loadValue(toType, toAddr).Set(to)
			return nil
		}
	case reflect.String:
		switch toElemType.Kind() {
		case reflect.Uint8:
			return func(fromAddr, toAddr unsafe.Pointer) error {
				loadValue(toType, toAddr).SetBytes([]byte(*(*string)(fromAddr)))
				return nil
			}
		case reflect.Int32:
			return func(fromAddr, toAddr unsafe.Pointer) error {
				runes := []rune(*(*string)(fromAddr))
				loadValue(toType, toAddr).Set(reflect.ValueOf(runes).Convert(toType))
				return nil
			}
		}
		return nil
	default:
		return nil
	}
}
