// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"unsafe"
)

// Views 持有列表每个下标唯一的元素视图，并缓存本列表用到的派发表。
// Views 实现了 sort.Interface，排序会通过元素的交换写回原变量。
type Views struct {
	scope *Scope
	tab   *table
	elems []Elem

	lastType  unsafe.Pointer
	lastTable []castFunc
	tables    map[unsafe.Pointer][]castFunc
}

func newViews(s *Scope, tab *table) *Views {
	v := &Views{scope: s, tab: tab}
	v.elems = make([]Elem, tab.len())
	for i := range v.elems {
		v.elems[i].views = v
		v.elems[i].idx = i
	}
	return v
}

// Begin 指向第一个元素的迭代器
func (v *Views) Begin() Iter {
	return Iter{elems: v.elems}
}

// End 指向最后一个元素之后的迭代器
func (v *Views) End() Iter {
	return Iter{elems: v.elems, pos: len(v.elems)}
}

// At 下标为 i 的元素视图
func (v *Views) At(i int) *Elem {
	return &v.elems[i]
}

func (v *Views) Len() int {
	return len(v.elems)
}

func (v *Views) Less(i, j int) bool {
	return v.elems[i].Less(&v.elems[j])
}

func (v *Views) Swap(i, j int) {
	if err := v.elems[i].Swap(&v.elems[j]); err != nil {
		panic(err)
	}
}

// Sortable 检查任意两个元素之间是否都能比较与交换，用于在排序前拒绝不支持的列表，而不是排到一半 panic
func (v *Views) Sortable() error {
	cmp, swap := v.compareTable(opCompare), v.swapTable()
	types := v.tab.types()
	for i := range cmp {
		for j := range cmp[i] {
			a, b := types[i], types[j]
			if v.tab.homogeneous {
				b = a
			}
			if cmp[i][j] == nil {
				return invalidOpErr(opCompare.String(), a, b)
			}
			if swap[i][j] == nil {
				return invalidOpErr("swap", a, b)
			}
		}
	}
	return nil
}

// pair 二元派发表的下标，类型全相同时表退化为 1×1
func (v *Views) pair(i, j int) (int, int) {
	if v.tab.homogeneous {
		return 0, 0
	}
	return i, j
}

// convertTable 构造为 toType 的一元派发表，先查本视图上的缓存
func (v *Views) convertTable(toType reflect.Type) ([]castFunc, error) {
	tp := typePtr(toType)
	if v.lastTable != nil && v.lastType == tp {
		return v.lastTable, nil
	}
	casters, ok := v.tables[tp]
	if !ok {
		var err error
		casters, err = getConvertTable(v.scope, v.tab, toType)
		if err != nil {
			return nil, err
		}
		v.seed(toType, casters)
	}
	v.lastType, v.lastTable = tp, casters
	return casters, nil
}

// seed 预先放入某个目标类型的一元派发表（map 的键值对使用专门的转换器）
func (v *Views) seed(toType reflect.Type, casters []castFunc) {
	if v.tables == nil {
		v.tables = make(map[unsafe.Pointer][]castFunc)
	}
	v.tables[typePtr(toType)] = casters
}

func (v *Views) assignTable(fromType reflect.Type) []castFunc {
	return getAssignTable(v.scope, v.tab, fromType)
}

func (v *Views) compareTable(op opKind) [][]compareFunc {
	return getCompareTable(v.scope, v.tab, op)
}

func (v *Views) swapTable() [][]swapFunc {
	return getSwapTable(v.scope, v.tab)
}
