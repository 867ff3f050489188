package binding

import (
	"net/http"
)

type FormBinding struct{}

func (f FormBinding) Bind(r *http.Request, obj any) error {
	if err := r.ParseForm(); err != nil {
		return wrapErr("form", err)
	}

	if err := mapValues(r.PostForm, "form", obj); err != nil {
		return wrapErr("form", err)
	}

	return nil
}

func (f FormBinding) Name() string {
	return "x-www-form-urlencoded"
}
