package service

import (
	"context"
	"net/http"

	"github.com/mangohow/gostack/errors"
	"github.com/mangohow/gostack/tools/collection"
	transport "github.com/mangohow/gostack/transport/http"
)

// maxPushBodySize 留出 JSON 转义的空间, 元素本身的大小由栈检查
const maxPushBodySize = 8 * collection.MaxElementSize

func RegisterStackHTTPServer(s *transport.Server, srv StackServer) {
	s.RegisterService(&StackServiceDesc, srv)
}

var StackServiceDesc = transport.ServiceDesc{
	HandlerType: (*StackServer)(nil),
	Methods: []transport.MethodDesc{
		{
			Method:  http.MethodPost,
			Path:    "/v1/stacks/{name}/items",
			Handler: _Stack_Push_HTTP_Handler,
		},
		{
			Method:  http.MethodDelete,
			Path:    "/v1/stacks/{name}/items",
			Handler: _Stack_Pop_HTTP_Handler,
		},
		{
			Method:  http.MethodGet,
			Path:    "/v1/stacks/{name}/top",
			Handler: _Stack_Peek_HTTP_Handler,
		},
		{
			Method:  http.MethodGet,
			Path:    "/v1/stacks/{name}",
			Handler: _Stack_Info_HTTP_Handler,
		},
		{
			Method:  http.MethodDelete,
			Path:    "/v1/stacks/{name}",
			Handler: _Stack_Destroy_HTTP_Handler,
		},
	},
}

func bindStackRequest(ctx context.Context) (*StackRequest, error) {
	req := new(StackRequest)
	if err := transport.FromContext(ctx).BindPathVar(req); err != nil {
		return nil, errors.Wrap(transport.ErrBadRequest, err)
	}

	return req, nil
}

func _Stack_Push_HTTP_Handler(ctx context.Context, srv any, middleware transport.Middleware) (any, error) {
	c := transport.FromContext(ctx)
	req := new(PushRequest)
	if err := c.BindPathVar(req); err != nil {
		return nil, errors.Wrap(transport.ErrBadRequest, err)
	}

	r := c.Request()
	r.Body = http.MaxBytesReader(c.ResponseWriter(), r.Body, maxPushBodySize)
	if err := c.Bind(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errors.Wrap(collection.ErrElementTooLarge, err)
		}
		return nil, errors.Wrap(transport.ErrBadRequest, err)
	}

	return middleware(ctx, req, func(ctx context.Context, req any) (any, error) {
		return srv.(StackServer).Push(ctx, req.(*PushRequest))
	})
}

func _Stack_Pop_HTTP_Handler(ctx context.Context, srv any, middleware transport.Middleware) (any, error) {
	req, err := bindStackRequest(ctx)
	if err != nil {
		return nil, err
	}

	return middleware(ctx, req, func(ctx context.Context, req any) (any, error) {
		return srv.(StackServer).Pop(ctx, req.(*StackRequest))
	})
}

func _Stack_Peek_HTTP_Handler(ctx context.Context, srv any, middleware transport.Middleware) (any, error) {
	req, err := bindStackRequest(ctx)
	if err != nil {
		return nil, err
	}

	return middleware(ctx, req, func(ctx context.Context, req any) (any, error) {
		return srv.(StackServer).Peek(ctx, req.(*StackRequest))
	})
}

func _Stack_Info_HTTP_Handler(ctx context.Context, srv any, middleware transport.Middleware) (any, error) {
	req, err := bindStackRequest(ctx)
	if err != nil {
		return nil, err
	}

	return middleware(ctx, req, func(ctx context.Context, req any) (any, error) {
		return srv.(StackServer).Info(ctx, req.(*StackRequest))
	})
}

func _Stack_Destroy_HTTP_Handler(ctx context.Context, srv any, middleware transport.Middleware) (any, error) {
	req, err := bindStackRequest(ctx)
	if err != nil {
		return nil, err
	}

	return middleware(ctx, req, func(ctx context.Context, req any) (any, error) {
		return srv.(StackServer).Destroy(ctx, req.(*StackRequest))
	})
}
