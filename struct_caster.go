// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"unsafe"
)

// position 聚合类型里按位置初始化的一个成员
type position struct {
	typ    reflect.Type
	offset uintptr
}

// getPositions 返回聚合类型 toType 按顺序可初始化的成员：
// 结构体为各字段（未导出字段仅在 WithUnexportedFields 时包含），数组为各元素，其余类型视为只有自身一个成员
func getPositions(s *Scope, toType reflect.Type) []position {
	switch toType.Kind() {
	case reflect.Struct:
		n := toType.NumField()
		positions := make([]position, 0, n)
		for i := 0; i < n; i++ {
			field := toType.Field(i)
			if field.Name == "_" || (!field.IsExported() && !s.castUnexported) {
				continue
			}
			positions = append(positions, position{typ: field.Type, offset: field.Offset})
		}
		return positions
	case reflect.Array:
		n := toType.Len()
		elemType := toType.Elem()
		elemSize := elemType.Size()
		positions := make([]position, n)
		for i := range positions {
			positions[i] = position{typ: elemType, offset: uintptr(i) * elemSize}
		}
		return positions
	default:
		return []position{{typ: toType}}
	}
}

// entryTypeOf map 的元素视为 struct{ Key K; Value V }
func entryTypeOf(mapType reflect.Type) reflect.Type {
	return reflect.StructOf([]reflect.StructField{
		{Name: "Key", Type: mapType.Key()},
		{Name: "Value", Type: mapType.Elem()},
	})
}

// getEntryCaster 把槽位构造为 map 的键值对：嵌套列表按聚合构造，两个字段的结构体与长度为 2 的数组按位置构造
func getEntryCaster(s *Scope, fromType, entryType reflect.Type) castFunc {
	if fromType == nil {
		return nil
	}
	keyType, valueType := entryType.Field(0).Type, entryType.Field(1).Type
	valueOffset := entryType.Field(1).Offset
	var keyCaster, valueCaster castFunc
	var keyOffset, fromValueOffset uintptr
	switch fromType.Kind() {
	case reflect.Struct:
		if fromType.NumField() != 2 {
			break
		}
		keyCaster, _ = getCaster(s, fromType.Field(0).Type, keyType)
		valueCaster, _ = getCaster(s, fromType.Field(1).Type, valueType)
		keyOffset, fromValueOffset = fromType.Field(0).Offset, fromType.Field(1).Offset
	case reflect.Array:
		if fromType.Len() != 2 {
			break
		}
		keyCaster, _ = getCaster(s, fromType.Elem(), keyType)
		valueCaster, _ = getCaster(s, fromType.Elem(), valueType)
		fromValueOffset = fromType.Elem().Size()
	}
	if keyCaster == nil || valueCaster == nil {
		caster, _ := getCaster(s, fromType, entryType)
		return caster
	}
	return func(fromAddr, toAddr unsafe.Pointer) error {
		if err := keyCaster(unsafe.Add(fromAddr, keyOffset), toAddr); err != nil {
			return err
		}
		return valueCaster(unsafe.Add(fromAddr, fromValueOffset), unsafe.Add(toAddr, valueOffset))
	}
}
