// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"unsafe"
)

// ElemType 迭代器解引用得到的元素类型
var ElemType = typeFor[*Elem]()

// Iter 元素视图数组上的随机访问迭代器，只是一个位置，不做越界检查。
// 相等与大小比较的是视图的地址，来自不同 Views 的迭代器永不相等；Diff 要求两者来自同一个 Views。
type Iter struct {
	elems []Elem
	pos   int
}

// ElemType 返回 Iter 解引用的元素类型，供范围构造函数按元素类型查找定制点
func (it Iter) ElemType() reflect.Type {
	return ElemType
}

// Deref 当前位置的元素视图
func (it Iter) Deref() *Elem {
	return &it.elems[it.pos]
}

// At 相对当前位置偏移 k 的元素视图，k 可以为负
func (it Iter) At(k int) *Elem {
	return &it.elems[it.pos+k]
}

// Pos 当前位置相对首元素的偏移
func (it Iter) Pos() int {
	return it.pos
}

func (it *Iter) Inc() *Iter {
	it.pos++
	return it
}

func (it *Iter) Dec() *Iter {
	it.pos--
	return it
}

// PostInc 前进一步，返回前进之前的迭代器
func (it *Iter) PostInc() Iter {
	ret := *it
	it.pos++
	return ret
}

// PostDec 后退一步，返回后退之前的迭代器
func (it *Iter) PostDec() Iter {
	ret := *it
	it.pos--
	return ret
}

func (it Iter) Add(n int) Iter {
	it.pos += n
	return it
}

func (it Iter) Sub(n int) Iter {
	it.pos -= n
	return it
}

func (it *Iter) AddAssign(n int) *Iter {
	it.pos += n
	return it
}

func (it *Iter) SubAssign(n int) *Iter {
	it.pos -= n
	return it
}

// Diff 返回 it - o
func (it Iter) Diff(o Iter) int {
	return it.pos - o.pos
}

// base 视图数组的首地址
func (it Iter) base() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(it.elems)))
}

func (it Iter) Equal(o Iter) bool {
	return it.base() == o.base() && it.pos == o.pos
}

func (it Iter) Less(o Iter) bool {
	if b, ob := it.base(), o.base(); b != ob {
		return b < ob
	}
	return it.pos < o.pos
}

func (it Iter) Greater(o Iter) bool {
	return o.Less(it)
}

func (it Iter) LessEq(o Iter) bool {
	return !o.Less(it)
}

func (it Iter) GreaterEq(o Iter) bool {
	return !it.Less(o)
}
