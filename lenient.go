// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"time"
	"unsafe"

	"github.com/spf13/cast"
)

var (
	durationType = typeFor[time.Duration]()
	timeType     = typeFor[time.Time]()
)

func isLenientSource(k reflect.Kind) bool {
	return k == reflect.String || k == reflect.Bool || isNumberKind(k)
}

// getLenientCaster 宽松模式下交给 spf13/cast 处理 string、bool 与数字之间的互转
func getLenientCaster(s *Scope, fromType, toType reflect.Type) castFunc {
	if !isLenientSource(fromType.Kind()) {
		return nil
	}
	load := func(fromAddr unsafe.Pointer) any {
		// 具名类型先还原为基础类型，spf13/cast 只认识基础类型
		v := loadValue(fromType, fromAddr)
		switch k := v.Kind(); {
		case k == reflect.String:
			return v.String()
		case k == reflect.Bool:
			return v.Bool()
		case isSignedKind(k):
			return v.Int()
		case isUnsignedKind(k):
			return v.Uint()
		default:
			return v.Float()
		}
	}
	switch {
	case toType == durationType:
		return func(fromAddr, toAddr unsafe.Pointer) error {
			d, err := cast.ToDurationE(load(fromAddr))
			if err != nil {
				return err
			}
			*(*time.Duration)(toAddr) = d
			return nil
		}
	case toType == timeType:
		return func(fromAddr, toAddr unsafe.Pointer) error {
			t, err := cast.ToTimeE(load(fromAddr))
			if err != nil {
				return err
			}
			*(*time.Time)(toAddr) = t
			return nil
		}
	}
	switch k := toType.Kind(); {
	case k == reflect.Bool:
		return func(fromAddr, toAddr unsafe.Pointer) error {
			b, err := cast.ToBoolE(load(fromAddr))
			if err != nil {
				return err
			}
			loadValue(toType, toAddr).SetBool(b)
			return nil
		}
	case k == reflect.String:
		return func(fromAddr, toAddr unsafe.Pointer) error {
			str, err := cast.ToStringE(load(fromAddr))
			if err != nil {
				return err
			}
			loadValue(toType, toAddr).SetString(str)
			return nil
		}
	case isSignedKind(k):
		return func(fromAddr, toAddr unsafe.Pointer) error {
			i, err := cast.ToInt64E(load(fromAddr))
			if err != nil {
				return err
			}
			loadValue(toType, toAddr).SetInt(i)
			return nil
		}
	case isUnsignedKind(k):
		return func(fromAddr, toAddr unsafe.Pointer) error {
			u, err := cast.ToUint64E(load(fromAddr))
			if err != nil {
				return err
			}
			loadValue(toType, toAddr).SetUint(u)
			return nil
		}
	case isFloatKind(k):
		return func(fromAddr, toAddr unsafe.Pointer) error {
			f, err := cast.ToFloat64E(load(fromAddr))
			if err != nil {
				return err
			}
			loadValue(toType, toAddr).SetFloat(f)
			return nil
		}
	default:
		return nil
	}
}
