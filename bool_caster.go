// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"unsafe"
)

func getBoolCaster(s *Scope, fromType, toType reflect.Type) castFunc {
	if fromType.Kind() != reflect.Bool {
		return nil
	}
	return func(fromAddr, toAddr unsafe.Pointer) error {
		*(*bool)(toAddr) = *(*bool)(fromAddr)
		return nil
	}
}
