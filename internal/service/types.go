package service

import (
	"context"
	"net/http"

	"github.com/mangohow/gostack/errors"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var (
	ErrStackNotFound = errors.New(2001, http.StatusNotFound, "STACK_NOT_FOUND", "stack not found")
)

type StackServer interface {
	Push(ctx context.Context, req *PushRequest) (*StackInfo, error)
	Pop(ctx context.Context, req *StackRequest) (*wrapperspb.StringValue, error)
	Peek(ctx context.Context, req *StackRequest) (*wrapperspb.StringValue, error)
	Info(ctx context.Context, req *StackRequest) (*StackInfo, error)
	Destroy(ctx context.Context, req *StackRequest) (*emptypb.Empty, error)
}

type StackRequest struct {
	Name string `path:"name" json:"-"`
}

type PushRequest struct {
	Name string `path:"name" json:"-"`
	Item *string `json:"item"`
}

type StackInfo struct {
	Name     string `json:"name"`
	Size     int    `json:"size"`
	Capacity int    `json:"capacity"`
	Empty    bool   `json:"empty"`
	Full     bool   `json:"full"`
}
