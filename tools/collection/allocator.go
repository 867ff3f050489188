package collection

import (
	"fmt"
	"sync"
)

// HeapAllocator 直接在堆上分配, 把 makeslice 的 panic 转换为错误
type HeapAllocator[T any] struct{}

func (HeapAllocator[T]) Allocate(n int) (buf []T, err error) {
	if n <= 0 || n > MaxCapacity {
		return nil, fmt.Errorf("allocator: invalid slot count %d", n)
	}

	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("allocator: %v", r)
		}
	}()

	return make([]T, n), nil
}

func (HeapAllocator[T]) Release([]T) {}

// BudgetAllocator 限制同时存活的槽位总数, 可在多个栈之间共享
type BudgetAllocator[T any] struct {
	mu    sync.Mutex
	limit int
	inUse int
}

func NewBudgetAllocator[T any](slots int) *BudgetAllocator[T] {
	if slots < 0 {
		panic("negative slot budget")
	}

	return &BudgetAllocator[T]{
		limit: slots,
	}
}

func (b *BudgetAllocator[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		return nil, fmt.Errorf("allocator: invalid slot count %d", n)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inUse+n > b.limit {
		return nil, fmt.Errorf("allocator: budget exhausted: %d slots in use, %d requested, limit %d", b.inUse, n, b.limit)
	}

	b.inUse += n
	return make([]T, n), nil
}

func (b *BudgetAllocator[T]) Release(buf []T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inUse -= len(buf)
	if b.inUse < 0 {
		b.inUse = 0
	}
}

func (b *BudgetAllocator[T]) InUse() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inUse
}

func (b *BudgetAllocator[T]) Limit() int {
	return b.limit
}
