// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"unsafe"
)

// slot 列表中的一个位置：静态类型与值的地址，地址不拥有所指的值
type slot struct {
	typ  reflect.Type // nil 表示无类型的 nil
	addr unsafe.Pointer
}

// table 定长的槽位表，创建后槽位的类型与地址都不再改变
type table struct {
	slots       []slot
	sig         string // 各槽位类型拼成的签名，用作派发表缓存的 key
	homogeneous bool   // 所有槽位类型相同
}

func newTable(slots []slot) *table {
	t := &table{slots: slots, homogeneous: true}
	ptrs := make([]unsafe.Pointer, len(slots))
	for i := range slots {
		ptrs[i] = typePtr(slots[i].typ)
		if slots[i].typ != slots[0].typ {
			t.homogeneous = false
		}
	}
	if len(ptrs) > 0 {
		// 签名里的类型指针不被 GC 当作引用；reflect 创建的类型（含 StructOf 构造的 map 元素类型）永不释放，指针始终有效且唯一
		t.sig = unsafe.String((*byte)(unsafe.Pointer(&ptrs[0])), len(ptrs)*int(unsafe.Sizeof(ptrs[0])))
	}
	return t
}

func (t *table) len() int {
	return len(t.slots)
}

func (t *table) types() []reflect.Type {
	types := make([]reflect.Type, len(t.slots))
	for i := range t.slots {
		types[i] = t.slots[i].typ
	}
	return types
}

// request 一次转换请求：槽位表、With 绑定的额外参数
type request struct {
	tab     *table
	extra   []any
	curried bool
	used    bool
}

// Source 可以被转换为目标类型的列表：*List、*Once 或 *Bound
type Source interface {
	Len() int
	Type(i int) reflect.Type
	request() request
	consume() error
}

// Once 由临时值构成的列表，只能被转换一次
type Once struct {
	tab  *table
	used bool
}

// Of 按参数顺序捕获 values。每个值只会被放到一块可寻址的内存上一次，之后的转换都直接从这块内存构造目标。
// 返回的列表只能转换一次。
func Of(values ...any) *Once {
	slots := make([]slot, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		rv := reflect.ValueOf(v)
		slots[i] = slot{typ: rv.Type(), addr: copyObject(rv)}
	}
	return &Once{tab: newTable(slots)}
}

func (o *Once) Len() int {
	return o.tab.len()
}

func (o *Once) Type(i int) reflect.Type {
	return o.tab.slots[i].typ
}

// Consumed 是否已经被转换过
func (o *Once) Consumed() bool {
	return o.used
}

func (o *Once) request() request {
	return request{tab: o.tab, used: o.used}
}

func (o *Once) consume() error {
	if o.used {
		return ErrConsumed
	}
	o.used = true
	return nil
}

// List 由具名变量的引用构成的列表，可重复转换与遍历，对元素的赋值与交换会写回原变量
type List struct {
	tab *table
}

// Refs 按参数顺序捕获 ptrs 指向的变量，每个参数都必须是非 nil 指针
func Refs(ptrs ...any) *List {
	slots := make([]slot, len(ptrs))
	for i, p := range ptrs {
		rv := reflect.ValueOf(p)
		if p == nil {
			panic(NilPtrErr)
		}
		if rv.Kind() != reflect.Pointer {
			panic(strErr("brace.Refs: argument " + getTypeString(rv.Type()) + " is not a pointer"))
		}
		if rv.IsNil() {
			panic(NilPtrErr)
		}
		slots[i] = slot{typ: rv.Type().Elem(), addr: rv.UnsafePointer()}
	}
	return &List{tab: newTable(slots)}
}

func (l *List) Len() int {
	return l.tab.len()
}

func (l *List) Type(i int) reflect.Type {
	return l.tab.slots[i].typ
}

// Views 返回使用默认作用域的元素视图
func (l *List) Views() *Views {
	return newViews(defaultScope, l.tab)
}

// ViewsWithScope 返回使用作用域 s 的元素视图
func (l *List) ViewsWithScope(s *Scope) *Views {
	return newViews(s, l.tab)
}

func (l *List) request() request {
	return request{tab: l.tab}
}

func (l *List) consume() error {
	return nil
}

// Bound 绑定了额外构造参数的列表，只能构造范围类型
type Bound struct {
	src   Source
	extra []any
}

// With 把 extra 作为额外参数绑定到 src 上，构造范围类型时原样传给构造函数（如 slice 的容量）
func With(src Source, extra ...any) *Bound {
	return &Bound{src: src, extra: extra}
}

func (b *Bound) Len() int {
	return b.src.Len()
}

func (b *Bound) Type(i int) reflect.Type {
	return b.src.Type(i)
}

func (b *Bound) request() request {
	req := b.src.request()
	req.extra = append(req.extra[:len(req.extra):len(req.extra)], b.extra...)
	req.curried = true
	return req
}

func (b *Bound) consume() error {
	return b.src.consume()
}

var (
	listPtrType  = typeFor[*List]()
	oncePtrType  = typeFor[*Once]()
	boundPtrType = typeFor[*Bound]()
)

func isListType(typ reflect.Type) bool {
	return typ == listPtrType || typ == oncePtrType || typ == boundPtrType
}
