// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"unsafe"
)

type opKind uint8

const (
	opConvert opKind = iota
	opEntry
	opAssign
	opCompare
	opEqual
	opSwap
	opPlan
)

func (op opKind) String() string {
	switch op {
	case opConvert:
		return "convert"
	case opEntry:
		return "entry"
	case opAssign:
		return "assign"
	case opCompare:
		return "compare"
	case opEqual:
		return "equal"
	case opSwap:
		return "swap"
	case opPlan:
		return "plan"
	default:
		return "unknown"
	}
}

// tableKey 派发表按「类型列表 + 操作 + 目标/来源类型」缓存
type tableKey struct {
	sig string
	n   int
	op  opKind
	typ unsafe.Pointer
}

func loadTable[T any](s *Scope, key tableKey) (T, bool) {
	s.tableMu.RLock()
	v, ok := s.tableMap[key]
	s.tableMu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

func storeTable(s *Scope, key tableKey, table any) {
	s.tableMu.Lock()
	s.tableMap[key] = table
	s.tableMu.Unlock()
}

// buildUnary 为每个槽位实例化一个叶子函数
func buildUnary[F any](types []reflect.Type, leaf func(typ reflect.Type) F) []F {
	table := make([]F, len(types))
	for i, typ := range types {
		table[i] = leaf(typ)
	}
	return table
}

// buildBinary 为每对槽位实例化一个叶子函数，外层下标是左操作数，内层是右操作数。
// 所有槽位类型相同时只会有一种组合，表退化为 1×1。
func buildBinary[F any](types []reflect.Type, homogeneous bool, leaf func(a, b reflect.Type) F) [][]F {
	if len(types) == 0 {
		return nil
	}
	if homogeneous {
		return [][]F{{leaf(types[0], types[0])}}
	}
	table := make([][]F, len(types))
	for i, a := range types {
		table[i] = make([]F, len(types))
		for j, b := range types {
			table[i][j] = leaf(a, b)
		}
	}
	return table
}

// getConvertTable 把每个槽位构造为 toType 的一元派发表。任意一个槽位不能构造时整张表不可用，
// 返回的错误指出第一个不能构造的槽位。空列表的表只有一个 trap 项。
func getConvertTable(s *Scope, tab *table, toType reflect.Type) ([]castFunc, error) {
	key := tableKey{sig: tab.sig, n: tab.len(), op: opConvert, typ: typePtr(toType)}
	if casters, ok := loadTable[[]castFunc](s, key); ok {
		return casters, checkTable(tab, casters, toType)
	}
	var casters []castFunc
	if tab.len() == 0 {
		casters = []castFunc{func(fromAddr, toAddr unsafe.Pointer) error {
			s.doTrap("conversion through an element view of an empty list")
			return nil
		}}
	} else {
		casters = buildUnary(tab.types(), func(typ reflect.Type) castFunc {
			caster, _ := getCaster(s, typ, toType)
			return caster
		})
	}
	storeTable(s, key, casters)
	return casters, checkTable(tab, casters, toType)
}

// getEntryTable 与 getConvertTable 相同，但槽位按键值对构造为 map 的元素
func getEntryTable(s *Scope, tab *table, entryType reflect.Type) ([]castFunc, error) {
	key := tableKey{sig: tab.sig, n: tab.len(), op: opEntry, typ: typePtr(entryType)}
	if casters, ok := loadTable[[]castFunc](s, key); ok {
		return casters, checkTable(tab, casters, entryType)
	}
	casters := buildUnary(tab.types(), func(typ reflect.Type) castFunc {
		return getEntryCaster(s, typ, entryType)
	})
	storeTable(s, key, casters)
	return casters, checkTable(tab, casters, entryType)
}

func checkTable(tab *table, casters []castFunc, toType reflect.Type) error {
	for i := range tab.slots {
		if casters[i] == nil {
			return invalidSlotErr(i, tab.slots[i].typ, toType)
		}
	}
	return nil
}

// getAssignTable 把 fromType 的值构造为每个槽位类型的一元派发表，不能构造的项为 nil
func getAssignTable(s *Scope, tab *table, fromType reflect.Type) []castFunc {
	key := tableKey{sig: tab.sig, n: tab.len(), op: opAssign, typ: typePtr(fromType)}
	if casters, ok := loadTable[[]castFunc](s, key); ok {
		return casters
	}
	casters := buildUnary(tab.types(), func(typ reflect.Type) castFunc {
		if typ == nil {
			return nil
		}
		caster, _ := getCaster(s, fromType, typ)
		return caster
	})
	storeTable(s, key, casters)
	return casters
}

// getCompareTable op 为 opCompare 或 opEqual 的二元派发表，不支持的组合为 nil
func getCompareTable(s *Scope, tab *table, op opKind) [][]compareFunc {
	key := tableKey{sig: tab.sig, n: tab.len(), op: op}
	if table, ok := loadTable[[][]compareFunc](s, key); ok {
		return table
	}
	table := buildBinary(tab.types(), tab.homogeneous, func(a, b reflect.Type) compareFunc {
		return getComparer(a, b, op)
	})
	storeTable(s, key, table)
	return table
}

// getSwapTable 交换的二元派发表，不支持的组合为 nil
func getSwapTable(s *Scope, tab *table) [][]swapFunc {
	key := tableKey{sig: tab.sig, n: tab.len(), op: opSwap}
	if table, ok := loadTable[[][]swapFunc](s, key); ok {
		return table
	}
	table := buildBinary(tab.types(), tab.homogeneous, func(a, b reflect.Type) swapFunc {
		return getSwapper(s, a, b)
	})
	storeTable(s, key, table)
	return table
}
