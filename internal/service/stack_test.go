package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mangohow/gostack/tools/collection"
	transport "github.com/mangohow/gostack/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

type response struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Reason string `json:"reason"`
	} `json:"error"`
}

type client struct {
	t *testing.T
	h http.Handler
}

func newClient(t *testing.T, opts ...Option) *client {
	s := transport.New()
	RegisterStackHTTPServer(s, NewStackService(opts...))
	return &client{t: t, h: s.Handler()}
}

func (c *client) do(method, path, body string) (int, response) {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)

	var resp response
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func (c *client) reason(resp response) string {
	c.t.Helper()
	require.NotNil(c.t, resp.Error)
	return resp.Error.Reason
}

func TestStackHTTPScenario(t *testing.T) {
	c := newClient(t)

	code, resp := c.do(http.MethodPost, "/v1/stacks/jobs/items", `{"item":"a"}`)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"name":"jobs","size":1,"capacity":16,"empty":false,"full":false}`, string(resp.Data))

	code, _ = c.do(http.MethodPost, "/v1/stacks/jobs/items", `{"item":"b"}`)
	require.Equal(t, http.StatusOK, code)

	code, resp = c.do(http.MethodGet, "/v1/stacks/jobs/top", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `"b"`, string(resp.Data))

	code, resp = c.do(http.MethodDelete, "/v1/stacks/jobs/items", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `"b"`, string(resp.Data))

	code, resp = c.do(http.MethodGet, "/v1/stacks/jobs", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"name":"jobs","size":1,"capacity":16,"empty":false,"full":false}`, string(resp.Data))

	code, resp = c.do(http.MethodDelete, "/v1/stacks/jobs/items", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `"a"`, string(resp.Data))

	code, resp = c.do(http.MethodDelete, "/v1/stacks/jobs/items", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "STACK_EMPTY", c.reason(resp))
}

func TestStackHTTPErrors(t *testing.T) {
	c := newClient(t)

	code, resp := c.do(http.MethodGet, "/v1/stacks/missing", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "STACK_NOT_FOUND", c.reason(resp))

	code, resp = c.do(http.MethodDelete, "/v1/stacks/missing/items", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "STACK_NOT_FOUND", c.reason(resp))

	big, err := json.Marshal(map[string]string{"item": strings.Repeat("x", collection.MaxElementSize)})
	require.NoError(t, err)
	code, resp = c.do(http.MethodPost, "/v1/stacks/jobs/items", string(big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.Equal(t, "ELEMENT_TOO_LARGE", c.reason(resp))

	// a rejected first push does not leave an empty stack behind
	code, resp = c.do(http.MethodGet, "/v1/stacks/jobs", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "STACK_NOT_FOUND", c.reason(resp))

	huge, err := json.Marshal(map[string]string{"item": strings.Repeat("x", 16*collection.MaxElementSize)})
	require.NoError(t, err)
	code, resp = c.do(http.MethodPost, "/v1/stacks/jobs/items", string(huge))
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.Equal(t, "ELEMENT_TOO_LARGE", c.reason(resp))

	code, resp = c.do(http.MethodPost, "/v1/stacks/jobs/items", `{"item":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", c.reason(resp))
}

func TestStackHTTPMissingItem(t *testing.T) {
	c := newClient(t)

	code, resp := c.do(http.MethodPost, "/v1/stacks/jobs/items", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_ARGUMENT", c.reason(resp))

	code, _ = c.do(http.MethodPost, "/v1/stacks/jobs/items", `{"item":"a"}`)
	require.Equal(t, http.StatusOK, code)

	for _, body := range []string{`{}`, `{"item":null}`} {
		code, resp = c.do(http.MethodPost, "/v1/stacks/jobs/items", body)
		assert.Equal(t, http.StatusBadRequest, code, body)
		assert.Equal(t, "INVALID_ARGUMENT", c.reason(resp), body)
	}

	code, _ = c.do(http.MethodPost, "/v1/stacks/jobs/items", `{"item":""}`)
	require.Equal(t, http.StatusOK, code)

	code, resp = c.do(http.MethodGet, "/v1/stacks/jobs", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"name":"jobs","size":2,"capacity":16,"empty":false,"full":false}`, string(resp.Data))
}

func TestStackHTTPDestroy(t *testing.T) {
	c := newClient(t)

	code, _ := c.do(http.MethodPost, "/v1/stacks/jobs/items", `{"item":"a"}`)
	require.Equal(t, http.StatusOK, code)

	code, resp := c.do(http.MethodDelete, "/v1/stacks/jobs", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{}`, string(resp.Data))

	code, resp = c.do(http.MethodDelete, "/v1/stacks/jobs", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "STACK_NOT_FOUND", c.reason(resp))
}

func TestSlotBudget(t *testing.T) {
	s := NewStackService(WithSlotBudget(collection.InitialCapacity * 2))
	ctx := context.Background()

	_, err := s.Push(ctx, &PushRequest{Name: "big", Item: proto.String(strings.Repeat("x", collection.MaxElementSize))})
	assert.ErrorIs(t, err, collection.ErrElementTooLarge)
	_, err = s.Info(ctx, &StackRequest{Name: "big"})
	assert.ErrorIs(t, err, ErrStackNotFound)

	_, err = s.Push(ctx, &PushRequest{Name: "a", Item: proto.String("x")})
	require.NoError(t, err)
	_, err = s.Push(ctx, &PushRequest{Name: "b", Item: proto.String("y")})
	require.NoError(t, err)

	_, err = s.Push(ctx, &PushRequest{Name: "c", Item: proto.String("z")})
	assert.ErrorIs(t, err, collection.ErrAllocationFailure)

	_, err = s.Info(ctx, &StackRequest{Name: "c"})
	assert.ErrorIs(t, err, ErrStackNotFound)

	_, err = s.Destroy(ctx, &StackRequest{Name: "a"})
	require.NoError(t, err)
	_, err = s.Push(ctx, &PushRequest{Name: "c", Item: proto.String("z")})
	assert.NoError(t, err)

	assert.NoError(t, s.Close())
	_, err = s.Info(ctx, &StackRequest{Name: "b"})
	assert.ErrorIs(t, err, ErrStackNotFound)
}
