// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"unsafe"
)

type casterKey struct {
	fromTypePtr unsafe.Pointer
	toTypePtr   unsafe.Pointer
}

// fromAddr, toAddr都不能为 nil（fromType 为 nil 时允许 fromAddr 为 nil）
// 不要求 toAddr 指向的内存为 0 值
type castFunc func(fromAddr, toAddr unsafe.Pointer) error

type casterValue struct {
	caster castFunc
	flag   uint8
}

// getCaster 返回把 fromType 的值构造为 toType 的转换器，nil 表示不允许该构造。
// fromType 为 nil 表示无类型的 nil。
func getCaster(s *Scope, fromType, toType reflect.Type) (castFunc, uint8) {
	cacheIdx := getCacheIdx(fromType, toType)
	if cacheIdx >= 0 {
		if v, ok := s.casterCache.load(cacheIdx); ok {
			return v.caster, v.flag
		}
	}
	key := casterKey{fromTypePtr: typePtr(fromType), toTypePtr: typePtr(toType)}
	s.mu.RLock()
	v, ok := s.casterMap[key]
	s.mu.RUnlock()
	if !ok {
		caster, flag := newCaster(s, fromType, toType)
		v = casterValue{caster, flag}
		s.mu.Lock()
		s.casterMap[key] = v
		s.mu.Unlock()
	}
	if cacheIdx >= 0 {
		s.casterCache.store(cacheIdx, v)
	}
	return v.caster, v.flag
}

func newCaster(s *Scope, fromType, toType reflect.Type) (castFunc, uint8) {
	// toType 不允许为空，不知道要转为什么
	if toType == nil {
		return nil, 0
	}
	if fromType == nil {
		return getNilCaster(toType)
	}
	var flag uint8
	if fromType.AssignableTo(toType) {
		flag |= flagAssignable
	}
	if fromType == toType {
		return func(fromAddr, toAddr unsafe.Pointer) error {
			typedMemMove(toType, toAddr, fromAddr)
			return nil
		}, flag
	}
	// 接口目标直接装箱列表本身，其余目标递归构造
	if isListType(fromType) && toType.Kind() != reflect.Interface {
		return getNestedListCaster(s, fromType, toType)
	}
	if fromType.Kind() == reflect.Interface && toType.Kind() != reflect.Interface {
		return getDynamicCaster(s, fromType, toType), 0
	}
	var caster castFunc
	switch toType.Kind() {
	case reflect.Bool:
		caster = getBoolCaster(s, fromType, toType)
	case reflect.Int:
		caster = getNumberCaster[int](s, fromType, toType)
	case reflect.Int8:
		caster = getNumberCaster[int8](s, fromType, toType)
	case reflect.Int16:
		caster = getNumberCaster[int16](s, fromType, toType)
	case reflect.Int32:
		caster = getNumberCaster[int32](s, fromType, toType)
	case reflect.Int64:
		caster = getNumberCaster[int64](s, fromType, toType)
	case reflect.Uint:
		caster = getNumberCaster[uint](s, fromType, toType)
	case reflect.Uint8:
		caster = getNumberCaster[uint8](s, fromType, toType)
	case reflect.Uint16:
		caster = getNumberCaster[uint16](s, fromType, toType)
	case reflect.Uint32:
		caster = getNumberCaster[uint32](s, fromType, toType)
	case reflect.Uint64:
		caster = getNumberCaster[uint64](s, fromType, toType)
	case reflect.Uintptr:
		caster = getNumberCaster[uintptr](s, fromType, toType)
	case reflect.Float32:
		caster = getNumberCaster[float32](s, fromType, toType)
	case reflect.Float64:
		caster = getNumberCaster[float64](s, fromType, toType)
	case reflect.Complex64:
		caster = getComplexCaster[complex64](s, fromType, toType)
	case reflect.Complex128:
		caster = getComplexCaster[complex128](s, fromType, toType)
	case reflect.Array:
		caster = getArrayCaster(s, fromType, toType)
	case reflect.Interface:
		caster = getInterfaceCaster(s, fromType, toType)
	case reflect.Slice:
		caster = getSliceCaster(s, fromType, toType)
	case reflect.String:
		caster = getStringCaster(s, fromType, toType)
	}
	if caster == nil && s.lenient {
		caster = getLenientCaster(s, fromType, toType)
	}
	if caster == nil {
		caster = getConvertibleCaster(fromType, toType)
	}
	if caster == nil {
		return nil, 0
	}
	return caster, flag
}

func getNilCaster(toType reflect.Type) (castFunc, uint8) {
	if !isNilableType(toType) {
		return nil, 0
	}
	return func(fromAddr, toAddr unsafe.Pointer) error {
		typedMemClr(toType, toAddr)
		return nil
	}, flagAssignable
}

// getConvertibleCaster 兜底使用 Go 自身的类型转换规则，但排除语义上并非「构造」的转换
func getConvertibleCaster(fromType, toType reflect.Type) castFunc {
	if !fromType.ConvertibleTo(toType) {
		return nil
	}
	fromKind, toKind := fromType.Kind(), toType.Kind()
	// int => string 得到的是码点，不是数字的文本
	if toKind == reflect.String && (isSignedKind(fromKind) || isUnsignedKind(fromKind)) {
		return nil
	}
	// slice => array / *array 在长度不足时会 panic
	if fromKind == reflect.Slice && (toKind == reflect.Array || toKind == reflect.Pointer) {
		return nil
	}
	return func(fromAddr, toAddr unsafe.Pointer) error {
		loadValue(toType, toAddr).Set(loadValue(fromType, fromAddr).Convert(toType))
		return nil
	}
}
