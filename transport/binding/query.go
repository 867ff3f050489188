package binding

import (
	"net/http"
)

type QueryBinding struct {
	Tag string
}

func (q QueryBinding) Bind(r *http.Request, obj any) error {
	if err := mapValues(r.URL.Query(), q.Tag, obj); err != nil {
		return wrapErr("query", err)
	}

	return nil
}

func (q QueryBinding) Name() string {
	return "query"
}
