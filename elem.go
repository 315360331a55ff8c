// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"unsafe"
)

// Elem 列表中某个槽位的视图。视图不可拷贝，只能通过 *Elem 使用，
// 对同一个下标 Views 只持有一个 Elem。
type Elem struct {
	_     noCopy
	views *Views
	idx   int
}

// ElemTo 把元素构造为 T
func ElemTo[T any](e *Elem) (to T, err error) {
	err = e.ConvertAt(typeFor[T](), unsafe.Pointer(&to))
	return to, err
}

// Index 元素在列表中的下标
func (e *Elem) Index() int {
	return e.idx
}

// Type 元素的静态类型，无类型的 nil 返回 nil
func (e *Elem) Type() reflect.Type {
	return e.slot().typ
}

// Interface 以 any 返回元素当前的值
func (e *Elem) Interface() any {
	sl := e.slot()
	if sl.typ == nil {
		return nil
	}
	return loadValue(sl.typ, sl.addr).Interface()
}

func (e *Elem) slot() *slot {
	if e.views == nil || e.views.tab.len() == 0 {
		defaultScope.doTrap("element view of an empty list")
	}
	return &e.views.tab.slots[e.idx]
}

// Convert 把元素构造为 toType 类型的新值
func (e *Elem) Convert(toType reflect.Type) (reflect.Value, error) {
	if toType == nil {
		return reflect.Value{}, NilToTypeErr
	}
	to := reflect.New(toType)
	if err := e.ConvertAt(toType, to.UnsafePointer()); err != nil {
		return reflect.Value{}, err
	}
	return to.Elem(), nil
}

// ConvertAt 直接在 toAddr 上构造 toType 类型的值，toAddr 必须指向一块 toType 类型的内存
func (e *Elem) ConvertAt(toType reflect.Type, toAddr unsafe.Pointer) error {
	v := e.views
	if v == nil {
		defaultScope.doTrap("conversion through an element view of an empty list")
	}
	if toType == nil {
		return NilToTypeErr
	}
	casters, err := v.convertTable(toType)
	if err != nil {
		return err
	}
	if v.tab.len() == 0 {
		return casters[0](nil, toAddr)
	}
	return casters[e.idx](v.tab.slots[e.idx].addr, toAddr)
}

// Assign 把 value 构造为元素的静态类型后写入元素
func (e *Elem) Assign(value any) error {
	sl := e.slot()
	if value == nil {
		caster, _ := getCaster(e.views.scope, nil, sl.typ)
		if caster == nil {
			return invalidCastErr(nil, sl.typ)
		}
		return caster(nil, sl.addr)
	}
	from := reflect.ValueOf(value)
	caster := e.views.assignTable(from.Type())[e.idx]
	if caster == nil {
		return invalidCastErr(from.Type(), sl.typ)
	}
	return caster(copyObject(from), sl.addr)
}

// Compare 比较两个元素，返回 -1、0、1；两个元素的类型不可比较时返回错误
func (e *Elem) Compare(o *Elem) (int, error) {
	a, b := e.slot(), o.slot()
	cmp, err := e.comparer(o, opCompare)
	if err != nil {
		return 0, err
	}
	return cmp(a.addr, b.addr)
}

// Equal 判断两个元素是否相等
func (e *Elem) Equal(o *Elem) (bool, error) {
	a, b := e.slot(), o.slot()
	eq, err := e.comparer(o, opEqual)
	if err != nil {
		return false, err
	}
	r, err := eq(a.addr, b.addr)
	return r == 0, err
}

// Less 供排序使用，类型不可比较时 panic
func (e *Elem) Less(o *Elem) bool {
	r, err := e.Compare(o)
	if err != nil {
		panic(err)
	}
	return r < 0
}

// Swap 交换两个元素的值，各自按对方的类型构造；类型不能互相构造时返回错误，两个元素都不会被修改
func (e *Elem) Swap(o *Elem) error {
	a, b := e.slot(), o.slot()
	if e == o {
		return nil
	}
	var swapper swapFunc
	if e.views == o.views {
		i, j := e.views.pair(e.idx, o.idx)
		swapper = e.views.swapTable()[i][j]
	} else {
		swapper = getSwapper(e.views.scope, a.typ, b.typ)
	}
	if swapper == nil {
		return invalidOpErr("swap", a.typ, b.typ)
	}
	return swapper(a.addr, b.addr)
}

func (e *Elem) comparer(o *Elem, op opKind) (compareFunc, error) {
	a, b := e.slot(), o.slot()
	var cmp compareFunc
	if e.views == o.views {
		i, j := e.views.pair(e.idx, o.idx)
		cmp = e.views.compareTable(op)[i][j]
	} else {
		cmp = getComparer(a.typ, b.typ, op)
	}
	if cmp == nil {
		return nil, invalidOpErr(op.String(), a.typ, b.typ)
	}
	return cmp, nil
}
