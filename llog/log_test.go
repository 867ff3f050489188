package llog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mangohow/gostack/errors"
	transport "github.com/mangohow/gostack/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initBufferLogger(t *testing.T, opts ...LoggerOption) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	_, sync, err := InitLogger(append([]LoggerOption{WithOutput(buf), WithLevel("debug")}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(sync)
	return buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestInitLogger(t *testing.T) {
	buf := initBufferLogger(t, WithServiceName("stackd"))

	GetLogger().Infof("pushed %d items", 3)

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "pushed 3 items", got[0]["msg"])
	assert.Equal(t, "info", got[0]["level"])
	assert.Equal(t, "stackd", got[0]["service"])
}

func TestInitLoggerInvalid(t *testing.T) {
	_, _, err := InitLogger(WithLevel("loud"))
	assert.Error(t, err)

	_, _, err = InitLogger(WithEncoding("xml"))
	assert.Error(t, err)
}

func TestSetLevel(t *testing.T) {
	buf := initBufferLogger(t)

	require.NoError(t, SetLevel("warn"))
	GetLogger().Infof("hidden")
	GetLogger().Warnf("shown")

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "shown", got[0]["msg"])
	assert.Error(t, SetLevel("loud"))
}

func TestFromContextDefault(t *testing.T) {
	initBufferLogger(t)
	assert.Same(t, GetLogger(), FromContext(context.Background()))
}

type pingServer interface {
	Ping(ctx context.Context) (any, error)
}

type pingImpl struct{}

func (pingImpl) Ping(ctx context.Context) (any, error) {
	FromContext(ctx).Infof("ping")
	if transport.FromContext(ctx).Request().URL.Query().Get("fail") != "" {
		return nil, errors.New(1, http.StatusTeapot, "TEAPOT", "no coffee")
	}
	return "pong", nil
}

var pingDesc = transport.ServiceDesc{
	HandlerType: (*pingServer)(nil),
	Methods: []transport.MethodDesc{
		{
			Method: http.MethodGet,
			Path:   "/ping",
			Handler: func(ctx context.Context, srv any, middleware transport.Middleware) (any, error) {
				return middleware(ctx, nil, func(ctx context.Context, _ any) (any, error) {
					return srv.(pingServer).Ping(ctx)
				})
			},
		},
	},
}

func TestMiddlewares(t *testing.T) {
	buf := initBufferLogger(t)

	s := transport.New(transport.WithMiddleware(LoggerInjectMiddleware(""), RequestLoggingMiddleware()))
	s.RegisterService(&pingDesc, pingImpl{})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rid-1", rec.Header().Get("X-Request-ID"))

	got := lines(t, buf)
	require.Len(t, got, 2)
	assert.Equal(t, "ping", got[0]["msg"])
	assert.Equal(t, "rid-1", got[0]["requestId"])
	assert.Equal(t, "Request", got[1]["msg"])
	assert.Equal(t, "/ping", got[1]["path"])

	buf.Reset()
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping?fail=1", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	got = lines(t, buf)
	require.Len(t, got, 2)
	assert.Equal(t, "Request failed", got[1]["msg"])
	assert.Equal(t, "warn", got[1]["level"])
	assert.Equal(t, "TEAPOT", got[1]["errReason"])
}
