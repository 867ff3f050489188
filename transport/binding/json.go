package binding

import (
	"encoding/json"
	"errors"
	"net/http"
)

type JsonBinding struct{}

func (j JsonBinding) Bind(r *http.Request, obj any) error {
	if r == nil || r.Body == nil {
		return wrapErr("json", errors.New("invalid request body"))
	}
	if obj == nil {
		return wrapErr("json", errors.New("obj is nil"))
	}
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(obj); err != nil {
		return wrapErr("json", err)
	}

	return nil
}

func (j JsonBinding) Name() string {
	return "json"
}
