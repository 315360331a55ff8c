// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"sync"
	"unsafe"
)

const dynamicCacheSize = 8

// dynamicCache 拆箱后按动态类型查转换器，每次都查 scope 的 map 略慢，加一层小缓存
type dynamicCache struct {
	mu     sync.RWMutex
	keys   [dynamicCacheSize]unsafe.Pointer
	values [dynamicCacheSize]castFunc
	n      int
}

func (c *dynamicCache) load(key unsafe.Pointer) (castFunc, bool) {
	if !c.mu.TryRLock() {
		return nil, false
	}
	defer c.mu.RUnlock()
	n := min(dynamicCacheSize, c.n)
	for i := 0; i < n; i++ {
		if c.keys[i] == key {
			return c.values[i], true
		}
	}
	return nil, false
}

func (c *dynamicCache) store(key unsafe.Pointer, value castFunc) {
	if !c.mu.TryLock() {
		return
	}
	defer c.mu.Unlock()
	i := c.n % dynamicCacheSize
	c.keys[i] = key
	c.values[i] = value
	c.n++
	if c.n > 2*dynamicCacheSize {
		c.n -= dynamicCacheSize
	}
}

// getDynamicCaster 接口类型的槽位在构造前先拆箱，按动态类型派发
func getDynamicCaster(s *Scope, fromType, toType reflect.Type) castFunc {
	var c dynamicCache
	return func(fromAddr, toAddr unsafe.Pointer) error {
		from := loadValue(fromType, fromAddr)
		if from.IsNil() {
			nilCaster, _ := getCaster(s, nil, toType)
			if nilCaster == nil {
				return invalidCastErr(nil, toType)
			}
			return nilCaster(nil, toAddr)
		}
		elem := from.Elem()
		elemType := elem.Type()
		elemCaster, ok := c.load(typePtr(elemType))
		if !ok {
			elemCaster, _ = getCaster(s, elemType, toType)
			c.store(typePtr(elemType), elemCaster)
		}
		if elemCaster == nil {
			return invalidCastErr(elemType, toType)
		}
		// 接口里存的值不可寻址，拷贝一份再转换
		return elemCaster(copyObject(elem), toAddr)
	}
}

// getNestedListCaster 槽位本身是一个列表时，递归地把它构造为目标类型
func getNestedListCaster(s *Scope, fromType, toType reflect.Type) (castFunc, uint8) {
	switch fromType {
	case listPtrType:
		return func(fromAddr, toAddr unsafe.Pointer) error {
			from := *(**List)(fromAddr)
			if from == nil {
				return NilPtrErr
			}
			return convert(s, from, toType, false, toAddr)
		}, 0
	case oncePtrType:
		return func(fromAddr, toAddr unsafe.Pointer) error {
			from := *(**Once)(fromAddr)
			if from == nil {
				return NilPtrErr
			}
			return convert(s, from, toType, false, toAddr)
		}, 0
	case boundPtrType:
		return func(fromAddr, toAddr unsafe.Pointer) error {
			from := *(**Bound)(fromAddr)
			if from == nil {
				return NilPtrErr
			}
			return convert(s, from, toType, false, toAddr)
		}, 0
	default:
		return nil, 0
	}
}
