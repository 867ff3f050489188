package service

import (
	"context"
	"sync"

	"github.com/mangohow/gostack/llog"
	"github.com/mangohow/gostack/tools/collection"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// StackService 按名称管理字符串栈, 栈在第一次 push 时创建.
// 每个栈由 collection.NewSyncStack 加锁, 注册表本身由 mu 保护.
type StackService struct {
	mu        sync.Mutex
	stacks    map[string]collection.Stack[string]
	allocator collection.Allocator[string]
	log       *zap.SugaredLogger
}

type Option func(s *StackService)

// WithSlotBudget 所有栈共享的槽位上限, 超出时 push 返回 ALLOCATION_FAILURE
func WithSlotBudget(slots int) Option {
	return func(s *StackService) {
		if slots > 0 {
			s.allocator = collection.NewBudgetAllocator[string](slots)
		}
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *StackService) {
		s.log = log
	}
}

func NewStackService(opts ...Option) *StackService {
	s := &StackService{
		stacks: make(map[string]collection.Stack[string]),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = llog.GetLogger()
	}

	return s
}

func (s *StackService) Push(ctx context.Context, req *PushRequest) (*StackInfo, error) {
	if req.Item == nil {
		return nil, collection.ErrInvalidArgument
	}

	stack, err := s.pushOrCreate(ctx, req.Name, *req.Item)
	if err != nil {
		return nil, err
	}

	return info(req.Name, stack), nil
}

func (s *StackService) Pop(ctx context.Context, req *StackRequest) (*wrapperspb.StringValue, error) {
	stack, err := s.get(req.Name)
	if err != nil {
		return nil, err
	}

	item, err := stack.Pop()
	if err != nil {
		return nil, err
	}

	return wrapperspb.String(item), nil
}

func (s *StackService) Peek(ctx context.Context, req *StackRequest) (*wrapperspb.StringValue, error) {
	stack, err := s.get(req.Name)
	if err != nil {
		return nil, err
	}

	item, err := stack.Peek()
	if err != nil {
		return nil, err
	}

	return wrapperspb.String(item), nil
}

func (s *StackService) Info(ctx context.Context, req *StackRequest) (*StackInfo, error) {
	stack, err := s.get(req.Name)
	if err != nil {
		return nil, err
	}

	return info(req.Name, stack), nil
}

func (s *StackService) Destroy(ctx context.Context, req *StackRequest) (*emptypb.Empty, error) {
	s.mu.Lock()
	stack, ok := s.stacks[req.Name]
	delete(s.stacks, req.Name)
	s.mu.Unlock()

	if !ok {
		return nil, ErrStackNotFound
	}

	if err := stack.Destroy(); err != nil {
		return nil, err
	}
	llog.FromContext(ctx).Infow("stack destroyed", "name", req.Name)

	return &emptypb.Empty{}, nil
}

// Close 销毁所有栈, 用于服务退出
func (s *StackService) Close() error {
	s.mu.Lock()
	stacks := s.stacks
	s.stacks = make(map[string]collection.Stack[string])
	s.mu.Unlock()

	var err error
	for _, stack := range stacks {
		err = multierr.Append(err, stack.Destroy())
	}

	return err
}

func (s *StackService) get(name string) (collection.Stack[string], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stack, ok := s.stacks[name]
	if !ok {
		return nil, ErrStackNotFound
	}

	return stack, nil
}

// pushOrCreate 栈不存在时创建, 只有第一次 push 成功后才注册
func (s *StackService) pushOrCreate(ctx context.Context, name, item string) (collection.Stack[string], error) {
	s.mu.Lock()
	stack, ok := s.stacks[name]
	if ok {
		s.mu.Unlock()
		if err := stack.Push(item); err != nil {
			return nil, err
		}
		return stack, nil
	}
	defer s.mu.Unlock()

	opts := []collection.Option[string]{
		collection.WithLogger[string](s.log.With("stack", name)),
	}
	if s.allocator != nil {
		opts = append(opts, collection.WithAllocator[string](s.allocator))
	}

	inner, err := collection.NewStringStack(opts...)
	if err != nil {
		return nil, err
	}

	if err := inner.Push(item); err != nil {
		_ = inner.Destroy()
		return nil, err
	}

	stack = collection.NewSyncStack[string](inner)
	s.stacks[name] = stack
	llog.FromContext(ctx).Infow("stack created", "name", name)

	return stack, nil
}

func info(name string, stack collection.Stack[string]) *StackInfo {
	return &StackInfo{
		Name:     name,
		Size:     stack.Size(),
		Capacity: stack.Cap(),
		Empty:    stack.Empty(),
		Full:     stack.Full(),
	}
}
