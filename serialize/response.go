package serialize

import "github.com/mangohow/gostack/errors"

type Response struct {
	Data  any          `json:"data,omitempty"`
	Error errors.Error `json:"error,omitempty"`
}
