package brace

import (
	"sort"
	"testing"
	"unsafe"
)

func TestHomogeneousCollapse(t *testing.T) {
	a, b, c := 1, 2, 3
	tab := Refs(&a, &b, &c).tab
	if !tab.homogeneous {
		t.Fatal()
	}
	s := NewScope()
	cmp := getCompareTable(s, tab, opCompare)
	if len(cmp) != 1 || len(cmp[0]) != 1 || cmp[0][0] == nil {
		t.Fatal(len(cmp))
	}
	swap := getSwapTable(s, tab)
	if len(swap) != 1 || len(swap[0]) != 1 || swap[0][0] == nil {
		t.Fatal(len(swap))
	}

	x, y, z := 1, 2.0, "3"
	mixed := Refs(&x, &y, &z).tab
	if mixed.homogeneous {
		t.Fatal()
	}
	cmp = getCompareTable(s, mixed, opCompare)
	if len(cmp) != 3 || len(cmp[0]) != 3 {
		t.Fatal(len(cmp))
	}
	// 数字之间可比较，数字与 string 不可比较
	if cmp[0][1] == nil || cmp[1][0] == nil || cmp[0][2] != nil || cmp[2][1] != nil || cmp[2][2] == nil {
		t.Fatal()
	}
}

func TestTableCache(t *testing.T) {
	s := NewScope()
	a, b, c, d := 1, "x", 2, "y"
	t1, err := getConvertTable(s, Refs(&a, &b).tab, typeFor[any]())
	if err != nil {
		t.Fatal(err)
	}
	// 类型列表相同的不同列表共用派发表
	t2, err := getConvertTable(s, Refs(&c, &d).tab, typeFor[any]())
	if err != nil {
		t.Fatal(err)
	}
	if &t1[0] != &t2[0] {
		t.Fatal("table not shared")
	}
	t3, err := getConvertTable(s, Refs(&b, &a).tab, typeFor[any]())
	if err != nil {
		t.Fatal(err)
	}
	if &t1[0] == &t3[0] {
		t.Fatal("different type lists share a table")
	}
	if _, err = getConvertTable(s, Refs(&a, &b).tab, typeFor[int]()); err == nil {
		t.Fatal()
	}
}

func TestSignature(t *testing.T) {
	if Of(1, "a").tab.sig == Of("a", 1).tab.sig {
		t.Fatal()
	}
	if Of(1, 2).tab.sig != Of(3, 4).tab.sig {
		t.Fatal()
	}
	if Of(1).tab.sig == Of(1, 1).tab.sig {
		t.Fatal()
	}
	if Of().tab.sig != "" {
		t.Fatal()
	}
	// 运行时构造的类型同样得到稳定的签名
	e1, e2 := entryTypeOf(typeFor[map[string]int]()), entryTypeOf(typeFor[map[string]int]())
	s1 := newTable([]slot{{typ: e1}, {typ: typeFor[int]()}}).sig
	s2 := newTable([]slot{{typ: e2}, {typ: typeFor[int]()}}).sig
	if e1 != e2 || s1 != s2 {
		t.Fatal()
	}
	if s1 == newTable([]slot{{typ: entryTypeOf(typeFor[map[string]int8]())}, {typ: typeFor[int]()}}).sig {
		t.Fatal()
	}
}

func TestEmptyConvertTable(t *testing.T) {
	s := NewScope()
	casters, err := getConvertTable(s, newTable(nil), typeFor[int]())
	if err != nil || len(casters) != 1 {
		t.Fatal(err)
	}
	defer func() {
		if r := recover(); r != ErrUnreachable {
			t.Fatal(r)
		}
	}()
	var x int
	_ = casters[0](nil, unsafe.Pointer(&x))
}

func TestOpKindString(t *testing.T) {
	for op, want := range map[opKind]string{
		opConvert:  "convert",
		opEqual:    "equal",
		opSwap:     "swap",
		opKind(99): "unknown",
	} {
		if op.String() != want {
			t.Fatal(op.String(), want)
		}
	}
}

func BenchmarkToSlice(b *testing.B) {
	x, y, z := 1, int8(2), 3.5
	l := Refs(&x, &y, &z)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = To[[]float64](l)
	}
}

func BenchmarkToStruct(b *testing.B) {
	x, y := 1, 2.5
	l := Refs(&x, &y)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = To[point](l)
	}
}

func BenchmarkOf(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = To[[]int](Of(1, 2, 3))
	}
}

func BenchmarkSortViews(b *testing.B) {
	for i := 0; i < b.N; i++ {
		x, y, z, w := 4, 3.0, int8(2), uint(1)
		sort.Sort(Refs(&x, &y, &z, &w).Views())
	}
}
