package http

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/mangohow/gostack/errors"
	"github.com/mangohow/gostack/serialize"
	"github.com/mangohow/gostack/transport/binding"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

var (
	ErrRouteNotFound    = errors.New(404, http.StatusNotFound, "ROUTE_NOT_FOUND", "route not found")
	ErrMethodNotAllowed = errors.New(405, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	ErrBadRequest       = errors.New(400, http.StatusBadRequest, "BAD_REQUEST", "malformed request")
)

type Server struct {
	server *http.Server
	router *routeWrapper
	addr   string

	log            *logrus.Logger
	errorEncoder   EncodeErrorFunc
	queryBinding   binding.Binding
	formBinding    binding.Binding
	pathVarBinding binding.Binding
	bodyBinding    binding.Binding

	resultEncoder EncodeResultFunc

	middlewares []Middleware
}

// EncodeErrorFunc 错误处理函数
type EncodeErrorFunc func(ctx *Context, err error)

// DefaultEncodeErrorFunc 默认错误处理函数
func DefaultEncodeErrorFunc(ctx *Context, err error) {
	e := errors.FromAny(err)
	err = ctx.JSON(int(e.HttpStatus()), serialize.Response{
		Error: e,
	})
	if err != nil && ctx.s != nil {
		ctx.s.log.Warnf("encode error response: %v", err)
	}
}

type EncodeResultFunc func(ctx *Context, arg any)

// DefaultEncodeResultFunc proto 消息使用 protojson 编码, 其他类型使用 encoding/json
func DefaultEncodeResultFunc(ctx *Context, arg any) {
	data := arg
	if m, ok := arg.(proto.Message); ok {
		b, err := protojson.Marshal(m)
		if err != nil {
			DefaultEncodeErrorFunc(ctx, err)
			return
		}
		data = json.RawMessage(b)
	}

	if err := ctx.JSON(http.StatusOK, serialize.Response{Data: data}); err != nil && ctx.s != nil {
		ctx.s.log.Warnf("encode response: %v", err)
	}
}

type Option func(s *Server)

func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

func WithEncodeErrorFunc(fn EncodeErrorFunc) Option {
	return func(s *Server) {
		s.errorEncoder = fn
	}
}

func WithEncodeResultFunc(fn EncodeResultFunc) Option {
	return func(s *Server) {
		s.resultEncoder = fn
	}
}

func WithQueryBinding(bind binding.Binding) Option {
	return func(s *Server) {
		s.queryBinding = bind
	}
}

func WithFormBinding(bind binding.Binding) Option {
	return func(s *Server) {
		s.formBinding = bind
	}
}

func WithPathVarBinding(bind binding.Binding) Option {
	return func(s *Server) {
		s.pathVarBinding = bind
	}
}

func WithBodyBinding(bind binding.Binding) Option {
	return func(s *Server) {
		s.bodyBinding = bind
	}
}

func WithLogger(log *logrus.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

func WithMiddleware(middleware ...Middleware) Option {
	return func(s *Server) {
		s.middlewares = append(s.middlewares, middleware...)
	}
}

func New(opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}

	if s.queryBinding == nil {
		s.queryBinding = binding.QueryBinding{Tag: "json"}
	}

	if s.formBinding == nil {
		s.formBinding = binding.FormBinding{}
	}

	if s.pathVarBinding == nil {
		s.pathVarBinding = binding.PathVarBinding{}
	}

	if s.bodyBinding == nil {
		s.bodyBinding = binding.JsonBinding{}
	}

	if s.errorEncoder == nil {
		s.errorEncoder = DefaultEncodeErrorFunc
	}

	if s.resultEncoder == nil {
		s.resultEncoder = DefaultEncodeResultFunc
	}

	if s.log == nil {
		s.log = logrus.StandardLogger()
	}

	if s.addr == "" {
		s.addr = ":8000"
	}

	s.router = newRouterWrapper(s.errorEncoder, s)
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}

	return s
}

func (s *Server) HttpServer() *http.Server {
	return s.server
}

// Handler 返回路由, 用于测试或挂载到其他 http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) RegisterService(sd *ServiceDesc, srv any) {
	if srv != nil {
		ht := reflect.TypeOf(sd.HandlerType).Elem()
		st := reflect.TypeOf(srv)
		if !st.Implements(ht) {
			s.log.Fatalf("handler type %v not implement %v", st, ht)
		}
	}

	s.register(sd, srv)
}

func (s *Server) register(sd *ServiceDesc, srv any) {
	for _, d := range sd.Methods {
		handler := d.Handler
		s.handle(d.Method, d.Path, func(ctx context.Context, req any) (resp any, err error) {
			return handler(ctx, srv, chainHandler(s.middlewares))
		})
		s.log.Debugf("route registered: %s %s", d.Method, d.Path)
	}
}

func chainHandler(middlewares []Middleware) Middleware {
	if len(middlewares) == 0 {
		return func(ctx context.Context, req any, handler Handler) (any, error) {
			return handler(ctx, req)
		}
	}

	return func(ctx context.Context, req any, handler Handler) (any, error) {
		return middlewares[0](ctx, req, getChainMiddleware(middlewares, 0, handler))
	}
}

func getChainMiddleware(middlewares []Middleware, cur int, handler Handler) Handler {
	if cur >= len(middlewares)-1 {
		return handler
	}

	return func(ctx context.Context, req any) (any, error) {
		return middlewares[cur+1](ctx, req, getChainMiddleware(middlewares, cur+1, handler))
	}
}

func (s *Server) handle(method, relativePath string, handler Handler) {
	s.router.HandleFunc(method, relativePath, s.handlerConvert(handler))
}

func (s *Server) handlerConvert(handler Handler) HandlerFunc {
	return func(c *Context) error {
		ctx := context.WithValue(c.Request().Context(), ctxKey{}, c)
		resp, err := handler(ctx, nil)
		if err != nil {
			return err
		}

		s.resultEncoder(c, resp)

		return nil
	}
}

func (s *Server) Middleware(middleware ...Middleware) {
	s.middlewares = append(s.middlewares, middleware...)
}

func (s *Server) Start() error {
	s.log.Info("server listen at ", s.addr)
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}

	return err
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("server shutting down")
	return s.server.Shutdown(ctx)
}
