package http

import (
	"context"
)

type Handler func(ctx context.Context, req any) (resp any, err error)

type Middleware func(ctx context.Context, req any, handler Handler) (any, error)

// MethodHandler 负责绑定请求参数, 并经过中间件调用服务实现
type MethodHandler func(ctx context.Context, srv any, middleware Middleware) (any, error)

type ServiceDesc struct {
	HandlerType any
	Methods     []MethodDesc
}

type MethodDesc struct {
	Method  string
	Path    string
	Handler MethodHandler
}
