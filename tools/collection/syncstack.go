package collection

import (
	"sync"
)

// syncStack 用一把互斥锁保护整个栈, 每个操作持锁直到完成
type syncStack[T any] struct {
	mu    sync.Mutex
	stack Stack[T]
}

func NewSyncStack[T any](stack Stack[T]) Stack[T] {
	if stack == nil {
		panic("stack is nil")
	}

	return &syncStack[T]{
		stack: stack,
	}
}

func (s *syncStack[T]) Push(e T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Push(e)
}

func (s *syncStack[T]) Pop() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Pop()
}

func (s *syncStack[T]) Peek() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Peek()
}

func (s *syncStack[T]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Size()
}

func (s *syncStack[T]) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Empty()
}

func (s *syncStack[T]) Full() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Full()
}

func (s *syncStack[T]) Cap() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Cap()
}

func (s *syncStack[T]) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Destroy()
}
