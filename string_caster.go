// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"fmt"
	"reflect"
	"unsafe"
)

var (
	stringType   = typeFor[string]()
	stringerType = typeFor[fmt.Stringer]()
)

func getStringCaster(s *Scope, fromType, toType reflect.Type) castFunc {
	switch fromType.Kind() {
	case reflect.String:
		return func(fromAddr, toAddr unsafe.Pointer) error {
			*(*string)(toAddr) = *(*string)(fromAddr)
			return nil
		}
	case reflect.Slice:
		switch fromType.Elem().Kind() {
		case reflect.Uint8:
			return func(fromAddr, toAddr unsafe.Pointer) error {
				*(*string)(toAddr) = string(*(*[]byte)(fromAddr))
				return nil
			}
		case reflect.Int32:
			return func(fromAddr, toAddr unsafe.Pointer) error {
				*(*string)(toAddr) = string(*(*[]rune)(fromAddr))
				return nil
			}
		}
	}
	if fromType.Implements(stringerType) {
		return func(fromAddr, toAddr unsafe.Pointer) error {
			v := loadValue(fromType, fromAddr)
			if isNilableType(fromType) && v.IsNil() {
				return NilStringerErr
			}
			from := v.Interface().(fmt.Stringer)
			*(*string)(toAddr) = from.String()
			return nil
		}
	}
	return nil
}
