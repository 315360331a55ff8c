package brace

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type point struct {
	X, Y float64
}

type hidden struct {
	a int
	B int
}

type bag struct {
	items []int
	extra []any
}

func buildBag(begin, end Iter, extra ...any) (bag, error) {
	b := bag{extra: extra}
	for it := begin; it.Less(end); it.Inc() {
		v, err := ElemTo[int](it.Deref())
		if err != nil {
			return bag{}, err
		}
		b.items = append(b.items, v)
	}
	return b, nil
}

func TestToSlice(t *testing.T) {
	a, b := 1, 2.5
	s, err := To[[]float64](Refs(&a, &b))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{1, 2.5}, s); diff != "" {
		t.Fatal(diff)
	}

	ints, err := To[[]int64](Of(1, int8(2), uint16(3), 4.9))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{1, 2, 3, 4}, ints); diff != "" {
		t.Fatal(diff)
	}
}

func TestToSliceRejectsBeforeTouching(t *testing.T) {
	o := Of(1, "x", 3)
	if _, err := To[[]int](o); err == nil {
		t.Fatal("string slot should be rejected")
	}
	if o.Consumed() {
		t.Fatal("rejected conversion consumed the list")
	}
	s, err := To[[]any](o)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{1, "x", 3}, s); diff != "" {
		t.Fatal(diff)
	}
}

func TestEmptyList(t *testing.T) {
	s, err := To[[]int](Of())
	if err != nil || s == nil || len(s) != 0 {
		t.Fatal(s, err)
	}
	m, err := To[map[string]int](Refs())
	if err != nil || m == nil || len(m) != 0 {
		t.Fatal(m, err)
	}
	p, err := To[point](Of())
	if err != nil || p != (point{}) {
		t.Fatal(p, err)
	}
	arr, err := To[[0]int](Of())
	if err != nil || arr != [0]int{} {
		t.Fatal(arr, err)
	}
	i, err := To[int](Of())
	if err != nil || i != 0 {
		t.Fatal(i, err)
	}
}

func TestOnceConsumed(t *testing.T) {
	o := Of(1, 2)
	if _, err := To[[]int](o); err != nil {
		t.Fatal(err)
	}
	if !o.Consumed() {
		t.Fatal()
	}
	if _, err := To[[]int](o); !errors.Is(err, ErrConsumed) {
		t.Fatal(err)
	}
	if CanTo[[]int](o) {
		t.Fatal()
	}

	// With 转换时消费的是被绑定的列表
	o = Of(1, 2)
	if _, err := To[[]int](With(o, 4)); err != nil {
		t.Fatal(err)
	}
	if _, err := To[[]int](o); !errors.Is(err, ErrConsumed) {
		t.Fatal(err)
	}
}

func TestListRepeatable(t *testing.T) {
	a, b, c := 1, int8(2), 3.0
	l := Refs(&a, &b, &c)
	first, err := To[[]int](l)
	if err != nil {
		t.Fatal(err)
	}
	second, err := To[[]int](l)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatal(diff)
	}
	// 引用的是变量本身
	a = 10
	third, err := To[[]int](l)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{10, 2, 3}, third); diff != "" {
		t.Fatal(diff)
	}
}

func TestNestedOnceInsideList(t *testing.T) {
	inner := Of(1, 2)
	outer := Refs(&inner)
	s, err := To[[][]int](outer)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]int{{1, 2}}, s); diff != "" {
		t.Fatal(diff)
	}
	if _, err := To[[][]int](outer); !errors.Is(err, ErrConsumed) {
		t.Fatal(err)
	}
}

func TestNestedLists(t *testing.T) {
	a, b, c := 1, 2, 3
	s, err := To[[][]int](Of(Refs(&a, &b), Refs(&c), Of(int8(4), 5.0)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]int{{1, 2}, {3}, {4, 5}}, s); diff != "" {
		t.Fatal(diff)
	}

	points, err := To[[]point](Of(Of(1, 2), Of(3.5)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]point{{1, 2}, {3.5, 0}}, points); diff != "" {
		t.Fatal(diff)
	}

	// 接口目标直接装箱列表
	boxed, err := To[[]any](Of(Of(1)))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := boxed[0].(*Once); !ok {
		t.Fatal(boxed)
	}
}

func TestWithCapacity(t *testing.T) {
	s, err := To[[]int](With(Of(1, 2), 10))
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 2 || cap(s) != 10 {
		t.Fatal(len(s), cap(s))
	}
	s, err = To[[]int](With(Of(1, 2, 3), 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 3 || cap(s) != 3 {
		t.Fatal(len(s), cap(s))
	}
	if _, err = To[[]int](With(Of(1), "x")); err == nil {
		t.Fatal()
	}
	if _, err = To[[]int](With(Of(1), 1, 2)); err == nil {
		t.Fatal()
	}
}

func TestToMap(t *testing.T) {
	type kv struct {
		K string
		V int
	}
	if _, err := To[map[string]int](Of(kv{"a", 1}, [2]string{"c", "x"})); err == nil {
		t.Fatal("[2]string value should not convert to int")
	}
	m, err := To[map[string]int](Of(kv{"a", 1}, Of("b", int8(2))))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]int{"a": 1, "b": 2}, m); diff != "" {
		t.Fatal(diff)
	}

	pairs, err := To[map[int]int64](Of([2]int{1, 2}, [2]int{3, 4}))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[int]int64{1: 2, 3: 4}, pairs); diff != "" {
		t.Fatal(diff)
	}

	// 重复的键后写入的生效
	dup, err := To[map[string]int](Of(Of("a", 1), Of("a", 2)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]int{"a": 2}, dup); diff != "" {
		t.Fatal(diff)
	}

	if _, err := To[map[string]int](Of(1)); err == nil {
		t.Fatal()
	}
}

func TestToChan(t *testing.T) {
	ch, err := To[chan int](Of(1, int8(2), 3.0))
	if err != nil {
		t.Fatal(err)
	}
	if cap(ch) != 3 {
		t.Fatal(cap(ch))
	}
	for _, want := range []int{1, 2, 3} {
		if got := <-ch; got != want {
			t.Fatal(got, want)
		}
	}
	var dst chan int
	if err := Assign(&dst, Of(1)); err == nil {
		t.Fatal("chan should be explicit only")
	}
	ch, err = To[chan int](With(Of(1), 5))
	if err != nil || cap(ch) != 5 {
		t.Fatal(err)
	}
}

func TestToAggregate(t *testing.T) {
	p, err := To[point](Of(1, 2.5))
	if err != nil {
		t.Fatal(err)
	}
	if p != (point{1, 2.5}) {
		t.Fatal(p)
	}
	p, err = To[point](Of(1))
	if err != nil || p != (point{1, 0}) {
		t.Fatal(p, err)
	}
	if _, err = To[point](Of(1, 2, 3)); err == nil {
		t.Fatal()
	}

	arr, err := To[[3]int](Of(1, 2.0))
	if err != nil {
		t.Fatal(err)
	}
	if arr != [3]int{1, 2, 0} {
		t.Fatal(arr)
	}
	if _, err = To[[3]int](Of(1, 2, 3, 4)); err == nil {
		t.Fatal()
	}

	i, err := To[int](Of(int8(5)))
	if err != nil || i != 5 {
		t.Fatal(i, err)
	}
	if _, err = To[int](Of(1, 2)); err == nil {
		t.Fatal()
	}
	ptr, err := To[*int](Of(nil))
	if err != nil || ptr != nil {
		t.Fatal(ptr, err)
	}
}

func TestAggregateRuntimeErrorLeavesZero(t *testing.T) {
	s := NewScope(WithLenient())
	p, err := ToWithScope[point](s, Of(1, "x"))
	if err == nil {
		t.Fatal()
	}
	if p != (point{}) {
		t.Fatal(p)
	}
}

func TestUnexportedFields(t *testing.T) {
	h, err := To[hidden](Of(7))
	if err != nil || h != (hidden{B: 7}) {
		t.Fatal(h, err)
	}
	s := NewScope(WithUnexportedFields())
	h, err = ToWithScope[hidden](s, Of(7, 8))
	if err != nil || h != (hidden{a: 7, B: 8}) {
		t.Fatal(h, err)
	}
	if !s.CastUnexported() {
		t.Fatal()
	}
}

func TestImplicitExplicitMatrix(t *testing.T) {
	// 内置范围类型：显式、隐式都可以，也接受额外参数
	if !CanTo[[]int](Of(1, int8(2))) || !CanAssign[[]int](Of(1, int8(2))) {
		t.Fatal()
	}
	if !CanTo[[]int](With(Of(1), 4)) || !CanAssign[[]int](With(Of(1), 4)) {
		t.Fatal()
	}

	// 聚合类型：每个槽位都能直接赋值时才允许隐式
	if !CanTo[point](Of(1.0, 2.0)) || !CanAssign[point](Of(1.0, 2.0)) {
		t.Fatal()
	}
	if !CanTo[point](Of(1, 2)) || CanAssign[point](Of(1, 2)) {
		t.Fatal()
	}
	if err := CheckWithScope(defaultScope, With(Of(1.0, 2.0)), typeFor[point](), false); !errors.Is(err, ErrExtraArgsAggregate) {
		t.Fatal(err)
	}

	var p point
	o := Of(1, 2)
	if err := Assign(&p, o); err == nil {
		t.Fatal()
	}
	if o.Consumed() {
		t.Fatal("rejected implicit conversion consumed the list")
	}
	if err := Assign(&p, Of(1.0, 2.0)); err != nil || p != (point{1, 2}) {
		t.Fatal(p, err)
	}

	// 自定义范围类型默认只允许显式
	s := NewScope(WithRange[bag, int](buildBag))
	if err := CheckWithScope(s, Of(1), typeFor[bag](), false); err != nil {
		t.Fatal(err)
	}
	if err := CheckWithScope(s, Of(1), typeFor[bag](), true); err == nil {
		t.Fatal()
	}
	s = NewScope(WithRange[bag, int](buildBag), WithImplicitRange[bag](true))
	if err := CheckWithScope(s, With(Of(1), "x"), typeFor[bag](), true); err != nil {
		t.Fatal(err)
	}

	s = NewScope(WithImplicitAggregate[point](true))
	if err := CheckWithScope(s, Of(1, 2), typeFor[point](), true); err != nil {
		t.Fatal(err)
	}
	s = NewScope(WithImplicitAggregate[point](false))
	if err := CheckWithScope(s, Of(1.0, 2.0), typeFor[point](), true); err == nil {
		t.Fatal()
	}
	s = NewScope(WithImplicitRange[[]int](false))
	if err := CheckWithScope(s, Of(1), typeFor[[]int](), true); err == nil {
		t.Fatal()
	}
}

type line struct {
	A, B point
}

func TestNestedImplicitAggregate(t *testing.T) {
	if !CanAssign[line](Of(Of(1.0, 2.0), Of(3.0, 4.0))) {
		t.Fatal()
	}
	if !CanAssign[[2]point](Of(Of(1.0, 2.0), Of(3.0))) {
		t.Fatal()
	}
	// 内层 int 不能直接赋值给 float64，只能显式
	if CanAssign[line](Of(Of(1, 2), Of(3.0, 4.0))) || !CanTo[line](Of(Of(1, 2), Of(3.0, 4.0))) {
		t.Fatal()
	}
	if CanAssign[line](Of(With(Of(1.0, 2.0)), Of(3.0, 4.0))) {
		t.Fatal()
	}
	var nilList *List
	if CanAssign[line](Of(nilList)) {
		t.Fatal()
	}

	var l line
	inner := Of(1, 2)
	o := Of(inner, Of(3.0, 4.0))
	if err := Assign(&l, o); err == nil {
		t.Fatal()
	}
	if o.Consumed() || inner.Consumed() {
		t.Fatal("rejected implicit conversion consumed a list")
	}
	x, y := 5.0, 6.0
	if err := Assign(&l, Of(Refs(&x, &y), Of(7.0))); err != nil {
		t.Fatal(err)
	}
	if l != (line{point{5, 6}, point{7, 0}}) {
		t.Fatal(l)
	}

	var nested struct{ L line }
	if err := Assign(&nested, Of(Of(Of(1.0, 2.0)))); err != nil || nested.L.A != (point{1, 2}) {
		t.Fatal(nested, err)
	}

	s := NewScope(WithImplicitAggregate[line](false))
	if err := CheckWithScope(s, Of(Of(1.0, 2.0)), typeFor[line](), true); err == nil {
		t.Fatal()
	}
}

func TestCustomRange(t *testing.T) {
	s := NewScope(WithRange[bag, int](buildBag))
	if !s.IsRangeLike(typeFor[bag]()) {
		t.Fatal()
	}
	if elemType, ok := s.ElemTypeOf(typeFor[bag]()); !ok || elemType != typeFor[int]() {
		t.Fatal(elemType)
	}
	b, err := ToWithScope[bag](s, With(Of(1, 2.0, int8(3)), "cap", 8))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(bag{items: []int{1, 2, 3}, extra: []any{"cap", 8}}, b, cmp.AllowUnexported(bag{})); diff != "" {
		t.Fatal(diff)
	}
	if _, err = ToWithScope[bag](s, Of("x")); err == nil {
		t.Fatal()
	}

	s = NewScope(WithRange[bag, int](func(begin, end Iter, extra ...any) (bag, error) {
		if len(extra) != 0 {
			return bag{}, invalidExtraArgsErr(typeFor[bag](), extra)
		}
		return buildBag(begin, end)
	}))
	if _, err = ToWithScope[bag](s, With(Of(1), 2)); err == nil {
		t.Fatal()
	}
}

func TestCustomAggregate(t *testing.T) {
	type ints []int
	var called int
	s := NewScope(WithAggregate[ints](func(elems ...*Elem) (ints, error) {
		called++
		out := ints{len(elems)}
		for _, e := range elems {
			v, err := ElemTo[int](e)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}))
	if s.IsRangeLike(typeFor[ints]()) {
		t.Fatal()
	}
	v, err := ToWithScope[ints](s, Of(4, 5.0))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ints{2, 4, 5}, v); diff != "" {
		t.Fatal(diff)
	}
	if called != 1 {
		t.Fatal(called)
	}
	var dst ints
	if err := AssignWithScope(s, &dst, Of(1)); err == nil {
		t.Fatal("custom aggregate defaults to explicit only")
	}
	if _, err := ToWithScope[ints](s, With(Of(1), 2)); !errors.Is(err, ErrExtraArgsAggregate) {
		t.Fatal(err)
	}
}

func TestRangeLikeOverride(t *testing.T) {
	s := NewScope(WithRangeLike[[]int](false))
	v, err := ToWithScope[[]int](s, Of([]int{1, 2}))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1, 2}, v); diff != "" {
		t.Fatal(diff)
	}
	if _, err = ToWithScope[[]int](s, Of(1)); err == nil {
		t.Fatal()
	}
	if _, err = ToWithScope[[]int](s, With(Of([]int{1}), 3)); !errors.Is(err, ErrExtraArgsAggregate) {
		t.Fatal(err)
	}
}

func TestReflectTo(t *testing.T) {
	v, err := ReflectTo(Of(1, 2), reflect.TypeOf([]uint8(nil)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint8{1, 2}, v.Interface()); diff != "" {
		t.Fatal(diff)
	}
	if _, err = ReflectTo(Of(1), nil); !errors.Is(err, NilToTypeErr) {
		t.Fatal(err)
	}
	if err = AssignWithScope[int](defaultScope, nil, Of(1)); !errors.Is(err, NilPtrErr) {
		t.Fatal(err)
	}
}

func TestHeterogeneousSort(t *testing.T) {
	a, b, c := 3, 2.0, 1
	views := Refs(&a, &b, &c).Views()
	if err := views.Sortable(); err != nil {
		t.Fatal(err)
	}
	sort.Sort(views)
	if a != 1 || b != 2.0 || c != 3 {
		t.Fatal(a, b, c)
	}
}

func TestSortMixedKinds(t *testing.T) {
	a, b, c := int8(4), -1.0, uint(2)
	views := Refs(&a, &b, &c).Views()
	sort.Sort(views)
	if a != -1 || b != 2.0 || c != 4 {
		t.Fatal(a, b, c)
	}
	if !sort.IsSorted(views) {
		t.Fatal()
	}
}

func TestSortableRejects(t *testing.T) {
	i, s := 1, "a"
	if err := Refs(&i, &s).Views().Sortable(); err == nil {
		t.Fatal()
	}
	x, y := 1, 2
	if err := Refs(&x, &y).Views().Sortable(); err != nil {
		t.Fatal(err)
	}
}
