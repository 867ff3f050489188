package collection

import (
	"bytes"
	"fmt"
	"io"
	"reflect"

	"github.com/mangohow/gostack/errors"
	"go.uber.org/multierr"
)

const (
	InitialCapacity = 16
	MaxCapacity     = 32768
	// MaxElementSize 配置了 sizer 时元素字节数的上界(不含)
	MaxElementSize = 1024
)

// BoundedStack 容量在 [InitialCapacity, MaxCapacity] 之间自动扩缩的栈.
// 满时容量翻倍, 元素数量低于容量的 1/4 时容量减半.
// 非并发安全, 需要并发访问时使用 NewSyncStack 包装.
type BoundedStack[T any] struct {
	// len(elems) 即容量, [top, len(elems)) 始终为零值
	elems     []T
	top       int
	allocator Allocator[T]
	sizer     func(T) int
	clone     func(T) T
	nilable   bool
	destroyed bool
	log       Logger
}

var _ Stack[int] = (*BoundedStack[int])(nil)

type Option[T any] func(s *BoundedStack[T])

func WithAllocator[T any](allocator Allocator[T]) Option[T] {
	return func(s *BoundedStack[T]) {
		s.allocator = allocator
	}
}

// WithElementSizer 设置元素的字节数计算函数, 超过 MaxElementSize 的元素会被拒绝
func WithElementSizer[T any](sizer func(T) int) Option[T] {
	return func(s *BoundedStack[T]) {
		s.sizer = sizer
	}
}

// WithCloneFunc 入栈时保存元素的副本
func WithCloneFunc[T any](clone func(T) T) Option[T] {
	return func(s *BoundedStack[T]) {
		s.clone = clone
	}
}

func WithLogger[T any](log Logger) Option[T] {
	return func(s *BoundedStack[T]) {
		s.log = log
	}
}

func NewBoundedStack[T any](opts ...Option[T]) (*BoundedStack[T], error) {
	s := &BoundedStack[T]{
		nilable: nilableType[T](),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.allocator == nil {
		s.allocator = HeapAllocator[T]{}
	}

	if s.log == nil {
		s.log = nopLogger{}
	}

	elems, err := s.allocator.Allocate(InitialCapacity)
	if err != nil {
		return nil, errors.Wrap(ErrAllocationFailure, err)
	}
	s.elems = elems

	return s, nil
}

func NewStringStack(opts ...Option[string]) (*BoundedStack[string], error) {
	opts = append([]Option[string]{
		WithElementSizer(func(s string) int { return len(s) }),
	}, opts...)

	return NewBoundedStack[string](opts...)
}

func NewBytesStack(opts ...Option[[]byte]) (*BoundedStack[[]byte], error) {
	opts = append([]Option[[]byte]{
		WithElementSizer(func(b []byte) int { return len(b) }),
		WithCloneFunc(bytes.Clone),
	}, opts...)

	return NewBoundedStack[[]byte](opts...)
}

func (s *BoundedStack[T]) Push(item T) error {
	if s == nil {
		return ErrInvalidArgument
	}

	if s.destroyed {
		return ErrStackDestroyed
	}

	if s.nilable && isNil(item) {
		return ErrInvalidArgument
	}

	if s.sizer != nil {
		if n := s.sizer(item); n >= MaxElementSize {
			return errors.Wrap(ErrElementTooLarge, fmt.Errorf("element is %d bytes, limit is %d", n, MaxElementSize-1))
		}
	}

	if s.top >= len(s.elems) {
		if len(s.elems) >= MaxCapacity {
			return ErrStackFull
		}

		newCap := min(len(s.elems)*2, MaxCapacity)
		if err := s.resize(newCap); err != nil {
			return err
		}
		s.log.Debugf("collection: stack grew to %d slots", newCap)
	}

	if s.clone != nil {
		item = s.clone(item)
	}
	s.elems[s.top] = item
	s.top++

	return nil
}

// Pop 弹出栈顶元素, 栈不再持有该元素的引用.
// 缩容失败不影响弹出结果, 只记录日志.
func (s *BoundedStack[T]) Pop() (T, error) {
	var zero T
	if s == nil || s.top == 0 {
		return zero, ErrStackEmpty
	}

	s.top--
	item := s.elems[s.top]
	s.elems[s.top] = zero

	if c := len(s.elems); c > InitialCapacity && s.top < c/4 {
		newCap := max(c/2, InitialCapacity)
		if err := s.resize(newCap); err != nil {
			s.log.Warnf("collection: shrink from %d to %d slots failed, keeping larger buffer: %v", c, newCap, err)
		} else {
			s.log.Debugf("collection: stack shrank to %d slots", newCap)
		}
	}

	return item, nil
}

func (s *BoundedStack[T]) Peek() (T, error) {
	if s == nil || s.top == 0 {
		return *new(T), ErrStackEmpty
	}

	return s.elems[s.top-1], nil
}

func (s *BoundedStack[T]) Size() int {
	if s == nil {
		return 0
	}

	return s.top
}

func (s *BoundedStack[T]) Empty() bool {
	if s == nil {
		return true
	}

	return s.top == 0
}

// Full 仅反映当前是否已经耗尽, 容量未达到 MaxCapacity 时总是 false
func (s *BoundedStack[T]) Full() bool {
	if s == nil {
		return false
	}

	return len(s.elems) >= MaxCapacity && s.top >= len(s.elems)
}

func (s *BoundedStack[T]) Cap() int {
	if s == nil {
		return 0
	}

	return len(s.elems)
}

// Destroy 释放所有元素和缓冲区, 实现了 io.Closer 的元素从栈顶开始依次关闭.
// 重复调用是安全的.
func (s *BoundedStack[T]) Destroy() error {
	if s == nil || s.destroyed {
		return nil
	}

	var (
		err  error
		zero T
	)
	for i := s.top - 1; i >= 0; i-- {
		if c, ok := any(s.elems[i]).(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
		s.elems[i] = zero
	}

	s.allocator.Release(s.elems)
	s.elems = nil
	s.top = 0
	s.destroyed = true

	return err
}

// resize 先分配新缓冲区并拷贝, 成功后才替换旧缓冲区
func (s *BoundedStack[T]) resize(newCap int) error {
	if newCap > MaxCapacity {
		return ErrStackFull
	}

	elems, err := s.allocator.Allocate(newCap)
	if err != nil {
		return errors.Wrap(ErrAllocationFailure, err)
	}

	if len(elems) != newCap {
		s.allocator.Release(elems)
		return errors.Wrap(ErrAllocationFailure, fmt.Errorf("allocator returned %d slots, want %d", len(elems), newCap))
	}

	copy(elems, s.elems[:s.top])
	old := s.elems
	s.elems = elems
	s.allocator.Release(old)

	return nil
}

func nilableType[T any]() bool {
	switch reflect.TypeOf((*T)(nil)).Elem().Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	}

	return false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rv.IsNil()
	}

	return false
}
