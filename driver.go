// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package brace

import (
	"reflect"
	"unsafe"
)

type mode uint8

const (
	modeNone mode = iota
	modeRange
	modeAggregate
)

// nestedSlot 值为嵌套列表的槽位与它对应位置的类型
type nestedSlot struct {
	idx int
	typ reflect.Type
}

type rangeBuilder func(s *Scope, p *plan, v *Views, extra []any, toAddr unsafe.Pointer) error

type aggregateBuilder func(s *Scope, p *plan, v *Views, toAddr unsafe.Pointer) error

// plan 某个类型列表构造某个目标类型的方式，按 (类型列表, 目标类型) 缓存。
// 范围与聚合两种方式互斥，一个目标类型只会尝试其中一种。
type plan struct {
	mode     mode
	toType   reflect.Type
	elemType reflect.Type // 范围：元素类型
	casters  []castFunc   // 范围：每个槽位到元素类型；聚合：每个槽位到对应位置的类型
	offsets  []uintptr    // 聚合：每个位置在目标中的偏移
	nested   []nestedSlot // 聚合：嵌套列表的槽位，能否隐式转换要看列表本身
	implicit bool
	err      error

	buildRange     rangeBuilder
	buildAggregate aggregateBuilder
}

// IsRangeLike 判断 typ 是否按范围类型构造：slice、map、双向 chan，以及通过 WithRange 注册的类型；
// WithRangeLike 可以覆盖该判断
func (s *Scope) IsRangeLike(typ reflect.Type) bool {
	if h := s.hooks(typ); h != nil && h.rangeLike != nil {
		return *h.rangeLike
	}
	switch typ.Kind() {
	case reflect.Slice, reflect.Map:
		return true
	case reflect.Chan:
		return typ.ChanDir() == reflect.BothDir
	default:
		return false
	}
}

// ElemTypeOf 范围类型 typ 的元素类型，map 的元素是 struct{ Key K; Value V }
func (s *Scope) ElemTypeOf(typ reflect.Type) (reflect.Type, bool) {
	if h := s.hooks(typ); h != nil && h.elemType != nil {
		return h.elemType, true
	}
	switch typ.Kind() {
	case reflect.Slice, reflect.Chan:
		return typ.Elem(), true
	case reflect.Map:
		return entryTypeOf(typ), true
	default:
		return nil, false
	}
}

func getPlan(s *Scope, tab *table, toType reflect.Type) *plan {
	key := tableKey{sig: tab.sig, n: tab.len(), op: opPlan, typ: typePtr(toType)}
	if p, ok := loadTable[*plan](s, key); ok {
		return p
	}
	p := newPlan(s, tab, toType)
	storeTable(s, key, p)
	return p
}

func newPlan(s *Scope, tab *table, toType reflect.Type) *plan {
	p := &plan{toType: toType}
	h := s.hooks(toType)
	if s.IsRangeLike(toType) {
		p.mode = modeRange
		p.elemType, _ = s.ElemTypeOf(toType)
		switch {
		case h != nil && h.buildRange != nil:
			p.buildRange = h.buildRange
		case toType.Kind() == reflect.Slice:
			p.buildRange = buildSlice
		case toType.Kind() == reflect.Map:
			p.buildRange = buildMap
		case toType.Kind() == reflect.Chan:
			p.buildRange = buildChan
		}
		if p.buildRange == nil || p.elemType == nil {
			p.err = notConstructibleErr(toType)
			return p
		}
		// 字面量 []T{...}、map[K]V{...} 可以直接写，视为允许隐式转换
		p.implicit = h == nil || h.buildRange == nil
		if toType.Kind() == reflect.Chan {
			p.implicit = false
		}
		if h != nil && h.implicitRange != nil {
			p.implicit = *h.implicitRange
		}
		// 空列表不查派发表
		if tab.len() > 0 {
			if toType.Kind() == reflect.Map && (h == nil || h.buildRange == nil) {
				p.casters, p.err = getEntryTable(s, tab, p.elemType)
			} else {
				p.casters, p.err = getConvertTable(s, tab, p.elemType)
			}
		}
		return p
	}

	p.mode = modeAggregate
	if h != nil && h.buildAggregate != nil {
		p.buildAggregate = h.buildAggregate
		p.implicit = h.implicitAggregate != nil && *h.implicitAggregate
		return p
	}
	positions := getPositions(s, toType)
	if tab.len() > len(positions) {
		p.err = tooManySlotsErr(tab.len(), len(positions), toType)
		return p
	}
	p.buildAggregate = buildPositional
	p.casters = make([]castFunc, tab.len())
	p.offsets = make([]uintptr, tab.len())
	// 每个槽位都能直接赋值给对应位置时，才允许隐式转换
	p.implicit = true
	for i, sl := range tab.slots {
		caster, flag := getCaster(s, sl.typ, positions[i].typ)
		if caster == nil {
			p.err = invalidSlotErr(i, sl.typ, positions[i].typ)
			return p
		}
		p.casters[i] = caster
		p.offsets[i] = positions[i].offset
		if isListType(sl.typ) && positions[i].typ.Kind() != reflect.Interface {
			p.nested = append(p.nested, nestedSlot{idx: i, typ: positions[i].typ})
			continue
		}
		p.implicit = p.implicit && isAssignable(flag)
	}
	if h != nil && h.implicitAggregate != nil {
		p.implicit = *h.implicitAggregate
		p.nested = nil
	}
	return p
}

// check 在消费列表之前检查这次转换是否被允许，不被允许的转换不会碰到任何元素。
// 嵌套列表的元素类型只有拿到列表本身才知道，隐式转换时逐个递归检查。
func (p *plan) check(s *Scope, req request, implicit bool) error {
	if p.err != nil {
		return p.err
	}
	if implicit && !p.implicit {
		return explicitOnlyErr(p.toType)
	}
	if req.curried && p.mode == modeAggregate {
		return ErrExtraArgsAggregate
	}
	if !implicit {
		return nil
	}
	for _, n := range p.nested {
		inner := nestedSource(req.tab.slots[n.idx])
		if inner == nil {
			return NilPtrErr
		}
		if err := CheckWithScope(s, inner, n.typ, true); err != nil {
			return err
		}
	}
	return nil
}

// nestedSource 取出槽位里的列表，nil 指针返回 nil
func nestedSource(sl slot) Source {
	switch sl.typ {
	case listPtrType:
		if l := *(**List)(sl.addr); l != nil {
			return l
		}
	case oncePtrType:
		if o := *(**Once)(sl.addr); o != nil {
			return o
		}
	case boundPtrType:
		if b := *(**Bound)(sl.addr); b != nil {
			return b
		}
	}
	return nil
}

func (p *plan) run(s *Scope, req request, toAddr unsafe.Pointer) error {
	v := newViews(s, req.tab)
	if p.mode == modeAggregate {
		return p.buildAggregate(s, p, v, toAddr)
	}
	if p.casters != nil {
		v.seed(p.elemType, p.casters)
	}
	return p.buildRange(s, p, v, req.extra, toAddr)
}

// convert 把 src 构造为 toType，写到 toAddr。implicit 为 true 时只接受允许隐式转换的目标。
// Once 在检查通过之后、构造任何元素之前被标记为已消费，构造中途失败也不能再次转换。
func convert(s *Scope, src Source, toType reflect.Type, implicit bool, toAddr unsafe.Pointer) error {
	if toType == nil {
		return NilToTypeErr
	}
	req := src.request()
	if req.used {
		return ErrConsumed
	}
	p := getPlan(s, req.tab, toType)
	if err := p.check(s, req, implicit); err != nil {
		return err
	}
	if err := src.consume(); err != nil {
		return err
	}
	return p.run(s, req, toAddr)
}

// capacityArg 解析 slice、map、chan 的额外参数：至多一个 int，表示容量且不小于 n
func capacityArg(toType reflect.Type, n int, extra []any) (int, error) {
	switch len(extra) {
	case 0:
		return n, nil
	case 1:
		c, ok := extra[0].(int)
		if !ok || c < 0 {
			return 0, invalidExtraArgsErr(toType, extra)
		}
		return max(c, n), nil
	default:
		return 0, invalidExtraArgsErr(toType, extra)
	}
}

// buildSlice 直接在 slice 的底层数组上构造每个元素
func buildSlice(s *Scope, p *plan, v *Views, extra []any, toAddr unsafe.Pointer) error {
	n := v.Len()
	c, err := capacityArg(p.toType, n, extra)
	if err != nil {
		return err
	}
	to := reflect.MakeSlice(p.toType, n, c)
	data := to.UnsafePointer()
	elemSize := p.elemType.Size()
	for it, end := v.Begin(), v.End(); it.Less(end); it.Inc() {
		if err := it.Deref().ConvertAt(p.elemType, offset(data, it.Pos(), elemSize)); err != nil {
			return err
		}
	}
	loadValue(p.toType, toAddr).Set(to)
	return nil
}

func buildMap(s *Scope, p *plan, v *Views, extra []any, toAddr unsafe.Pointer) error {
	hint, err := capacityArg(p.toType, v.Len(), extra)
	if err != nil {
		return err
	}
	to := reflect.MakeMapWithSize(p.toType, hint)
	entry := reflect.New(p.elemType).Elem()
	for it, end := v.Begin(), v.End(); it.Less(end); it.Inc() {
		if err := it.Deref().ConvertAt(p.elemType, entry.Addr().UnsafePointer()); err != nil {
			return err
		}
		to.SetMapIndex(entry.Field(0), entry.Field(1))
	}
	loadValue(p.toType, toAddr).Set(to)
	return nil
}

// buildChan 构造带缓冲的 chan，容量至少为元素个数，元素按顺序写入
func buildChan(s *Scope, p *plan, v *Views, extra []any, toAddr unsafe.Pointer) error {
	c, err := capacityArg(p.toType, v.Len(), extra)
	if err != nil {
		return err
	}
	to := reflect.MakeChan(p.toType, c)
	for it, end := v.Begin(), v.End(); it.Less(end); it.Inc() {
		elem, err := it.Deref().Convert(p.elemType)
		if err != nil {
			return err
		}
		to.Send(elem)
	}
	loadValue(p.toType, toAddr).Set(to)
	return nil
}

// buildPositional 按位置把第 i 个槽位构造到目标的第 i 个成员上，未提供的成员保持零值
func buildPositional(s *Scope, p *plan, v *Views, toAddr unsafe.Pointer) error {
	typedMemClr(p.toType, toAddr)
	for i, caster := range p.casters {
		if err := caster(v.tab.slots[i].addr, unsafe.Add(toAddr, p.offsets[i])); err != nil {
			typedMemClr(p.toType, toAddr)
			return err
		}
	}
	return nil
}
