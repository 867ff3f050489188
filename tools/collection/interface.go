package collection

// Stack 有界的后进先出容器, 失败时返回错误而不是 panic
type Stack[T any] interface {
	Push(T) error
	Pop() (T, error)
	Peek() (T, error)
	Size() int
	Empty() bool
	Full() bool
	Cap() int
	Destroy() error
}

// Allocator 为栈分配底层缓冲区, Allocate 允许失败
type Allocator[T any] interface {
	Allocate(n int) ([]T, error)
	Release(buf []T)
}

type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}

func (nopLogger) Warnf(string, ...any) {}
