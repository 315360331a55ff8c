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

// Scope 保存转换器缓存、派发表缓存与各目标类型的定制点
type Scope struct {
	casterCache kindCache
	casterMap   map[casterKey]casterValue
	mu          sync.RWMutex // 读多写少的场景，sync.RWMutex的效率比sync.Map更高

	tableMap map[tableKey]any
	tableMu  sync.RWMutex

	targets map[unsafe.Pointer]*targetHooks // 冻结后只读
	frozen  bool

	castUnexported bool // 聚合初始化时包含未导出字段
	lenient        bool // 宽松转换，string 与数字、bool 等互转
	trap           func(msg string)
}

// targetHooks 某个目标类型的定制点，未设置的项使用默认规则
type targetHooks struct {
	rangeLike         *bool
	implicitRange     *bool
	implicitAggregate *bool
	elemType          reflect.Type
	buildRange        rangeBuilder
	buildAggregate    aggregateBuilder
}

func (s *Scope) CastUnexported() bool {
	return s.castUnexported
}

func (s *Scope) Lenient() bool {
	return s.lenient
}

type ScopeOption func(s *Scope)

// NewScope 创建新的作用域
func NewScope(options ...ScopeOption) *Scope {
	scope := &Scope{
		casterMap: make(map[casterKey]casterValue),
		tableMap:  make(map[tableKey]any),
		targets:   make(map[unsafe.Pointer]*targetHooks),
	}
	for _, option := range options {
		option(scope)
	}
	scope.frozen = true
	return scope
}

var defaultScope = NewScope()

// SetDefaultScope ！！慎用！！设置默认作用域，可以改变默认行为
func SetDefaultScope(s *Scope) {
	defaultScope = s
}

func (s *Scope) hooks(typ reflect.Type) *targetHooks {
	return s.targets[typePtr(typ)]
}

func (s *Scope) mutableHooks(typ reflect.Type) *targetHooks {
	h := s.targets[typePtr(typ)]
	if h == nil {
		h = &targetHooks{}
		s.targets[typePtr(typ)] = h
	}
	return h
}

func (s *Scope) doTrap(msg string) {
	if s.trap != nil {
		s.trap(msg)
	}
	panic(ErrUnreachable)
}

// WithCaster 注册自定义的单值转换器，影响列表元素到目标元素的转换。允许传入nil，表示禁止这两个类型之间的转换
func WithCaster[F any, T any](caster func(s *Scope, from F) (to T, err error)) ScopeOption {
	fromType, toType := typeFor[F](), typeFor[T]()
	key := casterKey{fromTypePtr: typePtr(fromType), toTypePtr: typePtr(toType)}
	return func(s *Scope) {
		if s.frozen {
			return
		}
		var wrappedCaster castFunc
		if caster != nil {
			wrappedCaster = func(fromAddr, toAddr unsafe.Pointer) error {
				var err error
				*(*T)(toAddr), err = caster(s, *(*F)(fromAddr))
				return err
			}
		}
		s.casterMap[key] = casterValue{wrappedCaster, flagCustom}
	}
}

// WithRange 把 T 注册为以元素类型 E 构造的范围类型，build 接收首尾迭代器与 With 绑定的额外参数
func WithRange[T any, E any](build func(begin, end Iter, extra ...any) (T, error)) ScopeOption {
	toType, elemType := typeFor[T](), typeFor[E]()
	return func(s *Scope) {
		if s.frozen {
			return
		}
		h := s.mutableHooks(toType)
		yes := true
		h.rangeLike = &yes
		h.elemType = elemType
		h.buildRange = func(s *Scope, p *plan, v *Views, extra []any, toAddr unsafe.Pointer) error {
			to, err := build(v.Begin(), v.End(), extra...)
			if err != nil {
				return err
			}
			*(*T)(toAddr) = to
			return nil
		}
	}
}

// WithAggregate 自定义聚合类型 T 的构造方式，build 按位置接收每个元素视图
func WithAggregate[T any](build func(elems ...*Elem) (T, error)) ScopeOption {
	toType := typeFor[T]()
	return func(s *Scope) {
		if s.frozen {
			return
		}
		h := s.mutableHooks(toType)
		no := false
		h.rangeLike = &no
		h.buildAggregate = func(s *Scope, p *plan, v *Views, toAddr unsafe.Pointer) error {
			elems := make([]*Elem, v.Len())
			for i := range elems {
				elems[i] = v.At(i)
			}
			to, err := build(elems...)
			if err != nil {
				return err
			}
			*(*T)(toAddr) = to
			return nil
		}
	}
}

// WithRangeLike 覆盖 T 是否按范围类型构造的判断
func WithRangeLike[T any](rangeLike bool) ScopeOption {
	toType := typeFor[T]()
	return func(s *Scope) {
		if s.frozen {
			return
		}
		s.mutableHooks(toType).rangeLike = &rangeLike
	}
}

// WithImplicitRange 覆盖范围类型 T 是否允许隐式转换（Assign）
func WithImplicitRange[T any](implicit bool) ScopeOption {
	toType := typeFor[T]()
	return func(s *Scope) {
		if s.frozen {
			return
		}
		s.mutableHooks(toType).implicitRange = &implicit
	}
}

// WithImplicitAggregate 覆盖聚合类型 T 是否允许隐式转换（Assign）
func WithImplicitAggregate[T any](implicit bool) ScopeOption {
	toType := typeFor[T]()
	return func(s *Scope) {
		if s.frozen {
			return
		}
		s.mutableHooks(toType).implicitAggregate = &implicit
	}
}

// WithUnexportedFields 聚合初始化结构体时包含未导出字段
func WithUnexportedFields() ScopeOption {
	return func(s *Scope) {
		if s.frozen {
			return
		}
		s.castUnexported = true
	}
}

// WithLenient 允许 string 与数字、bool、time.Duration、time.Time 之间的宽松转换
func WithLenient() ScopeOption {
	return func(s *Scope) {
		if s.frozen {
			return
		}
		s.lenient = true
	}
}

// WithTrap 设置不可达状态（空列表的元素视图被转换）时调用的函数，trap 返回后仍会 panic
func WithTrap(trap func(msg string)) ScopeOption {
	return func(s *Scope) {
		if s.frozen {
			return
		}
		s.trap = trap
	}
}
