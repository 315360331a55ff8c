// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"unsafe"
)

type iComplex interface {
	~complex64 | ~complex128
}

func getComplexCaster[T iComplex](s *Scope, fromType, toType reflect.Type) castFunc {
	switch fromType.Kind() {
	case reflect.Complex64:
		return func(fromAddr, toAddr unsafe.Pointer) error {
			*(*T)(toAddr) = T(*(*complex64)(fromAddr))
			return nil
		}
	case reflect.Complex128:
		return func(fromAddr, toAddr unsafe.Pointer) error {
			*(*T)(toAddr) = T(*(*complex128)(fromAddr))
			return nil
		}
	default:
		return nil
	}
}
