// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"unsafe"
)

func getInterfaceCaster(s *Scope, fromType, toType reflect.Type) castFunc {
	if fromType.Kind() == reflect.Interface && !fromType.Implements(toType) {
		return getDynamicCaster(s, fromType, toType)
	}
	if !fromType.Implements(toType) {
		return nil
	}
	return func(fromAddr, toAddr unsafe.Pointer) error {
		loadValue(toType, toAddr).Set(loadValue(fromType, fromAddr))
		return nil
	}
}
