package binding

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
)

// PathVarBinding 绑定 mux 路由中的路径参数, 字段使用 path 标签
type PathVarBinding struct{}

func (p PathVarBinding) Bind(r *http.Request, obj any) error {
	vars := mux.Vars(r)
	values := make(url.Values, len(vars))
	for k, v := range vars {
		values.Set(k, v)
	}

	if err := mapValues(values, "path", obj); err != nil {
		return wrapErr("path", err)
	}

	return nil
}

func (p PathVarBinding) Name() string {
	return "path"
}
