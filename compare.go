// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"strings"
	"unsafe"
)

// compareFunc 比较 a、b 指向的值，返回 -1、0、1
type compareFunc func(a, b unsafe.Pointer) (int, error)

// swapFunc 交换 a、b 指向的值
type swapFunc func(a, b unsafe.Pointer) error

type orderClass uint8

const (
	classNone orderClass = iota
	classSigned
	classUnsigned
	classFloat
	classString
	classBool
)

func classOf(typ reflect.Type) orderClass {
	if typ == nil {
		return classNone
	}
	switch k := typ.Kind(); {
	case isSignedKind(k):
		return classSigned
	case isUnsignedKind(k):
		return classUnsigned
	case isFloatKind(k):
		return classFloat
	case k == reflect.String:
		return classString
	case k == reflect.Bool:
		return classBool
	default:
		return classNone
	}
}

func isNumberClass(c orderClass) bool {
	return c == classSigned || c == classUnsigned || c == classFloat
}

func sign[T int64 | uint64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// getComparer 返回 a、b 两种类型之间的比较函数。
// 数字之间跨类型比较（有符号与无符号按数学值，涉及浮点时按 float64），string 之间按字典序，bool 之间 false < true；
// opEqual 还支持同一种可比较类型之间的相等判断。
func getComparer(a, b reflect.Type, op opKind) compareFunc {
	ca, cb := classOf(a), classOf(b)
	switch {
	case ca == classSigned && cb == classSigned:
		return func(x, y unsafe.Pointer) (int, error) {
			return sign(loadValue(a, x).Int(), loadValue(b, y).Int()), nil
		}
	case ca == classUnsigned && cb == classUnsigned:
		return func(x, y unsafe.Pointer) (int, error) {
			return sign(loadValue(a, x).Uint(), loadValue(b, y).Uint()), nil
		}
	case ca == classSigned && cb == classUnsigned:
		return func(x, y unsafe.Pointer) (int, error) {
			i := loadValue(a, x).Int()
			if i < 0 {
				return -1, nil
			}
			return sign(uint64(i), loadValue(b, y).Uint()), nil
		}
	case ca == classUnsigned && cb == classSigned:
		return func(x, y unsafe.Pointer) (int, error) {
			i := loadValue(b, y).Int()
			if i < 0 {
				return 1, nil
			}
			return sign(loadValue(a, x).Uint(), uint64(i)), nil
		}
	case isNumberClass(ca) && isNumberClass(cb):
		return func(x, y unsafe.Pointer) (int, error) {
			fx, fy := toFloat(loadValue(a, x)), toFloat(loadValue(b, y))
			if fx != fx || fy != fy {
				return nanOrder(fx, fy, op), nil
			}
			return sign(fx, fy), nil
		}
	case ca == classString && cb == classString:
		return func(x, y unsafe.Pointer) (int, error) {
			return strings.Compare(loadValue(a, x).String(), loadValue(b, y).String()), nil
		}
	case ca == classBool && cb == classBool:
		return func(x, y unsafe.Pointer) (int, error) {
			bx, by := loadValue(a, x).Bool(), loadValue(b, y).Bool()
			switch {
			case bx == by:
				return 0, nil
			case by:
				return -1, nil
			default:
				return 1, nil
			}
		}
	}
	if op == opEqual && a != nil && a == b && a.Comparable() {
		return func(x, y unsafe.Pointer) (int, error) {
			if loadValue(a, x).Equal(loadValue(b, y)) {
				return 0, nil
			}
			return 1, nil
		}
	}
	return nil
}

// nanOrder 至少一边是 NaN 时的结果：相等判断永远不相等；
// 排序时 NaN 小于任何数，两个 NaN 视为相同，与 cmp.Compare 一致
func nanOrder(x, y float64, op opKind) int {
	xNaN, yNaN := x != x, y != y
	switch {
	case op == opEqual:
		return 1
	case xNaN && yNaN:
		return 0
	case xNaN:
		return -1
	default:
		return 1
	}
}

func toFloat(v reflect.Value) float64 {
	switch k := v.Kind(); {
	case isSignedKind(k):
		return float64(v.Int())
	case isUnsignedKind(k):
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

// getSwapper 返回交换 a、b 两种类型的值的函数：先把两边都构造为对方的类型，全部成功后再写回，
// 任一方向构造失败时两个值都保持不变
func getSwapper(s *Scope, a, b reflect.Type) swapFunc {
	if a == nil || b == nil {
		return nil
	}
	if a == b {
		return func(x, y unsafe.Pointer) error {
			tmp := reflect.New(a).Elem()
			vx, vy := loadValue(a, x), loadValue(b, y)
			tmp.Set(vx)
			vx.Set(vy)
			vy.Set(tmp)
			return nil
		}
	}
	toB, _ := getCaster(s, a, b)
	toA, _ := getCaster(s, b, a)
	if toB == nil || toA == nil {
		return nil
	}
	return func(x, y unsafe.Pointer) error {
		newX, newY := reflect.New(a), reflect.New(b)
		if err := toA(y, newX.UnsafePointer()); err != nil {
			return err
		}
		if err := toB(x, newY.UnsafePointer()); err != nil {
			return err
		}
		typedMemMove(a, x, newX.UnsafePointer())
		typedMemMove(b, y, newY.UnsafePointer())
		return nil
	}
}
