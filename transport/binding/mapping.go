package binding

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

func wrapErr(name string, err error) error {
	return fmt.Errorf("bind %s failed: %w", name, err)
}

// mapValues 将 url.Values 按 tag 映射到结构体字段, 标签为空时使用字段名
func mapValues(values url.Values, tag string, obj any) error {
	if len(values) == 0 {
		return nil
	}

	if tag == "" {
		return errors.New("empty tag provided")
	}

	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("obj must be a non-nil pointer")
	}

	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return errors.New("obj must be a pointer of struct")
	}

	elemType := elem.Type()
	for i := 0; i < elemType.NumField(); i++ {
		field := elemType.Field(i)
		key := field.Tag.Get(tag)
		if key == "-" {
			continue
		}
		if key == "" {
			key = field.Name
		}

		fv := elem.Field(i)
		// 跳过不可导出的字段和嵌套结构体
		if !fv.CanSet() || fv.Kind() == reflect.Struct {
			continue
		}

		params := values[key]
		if len(params) == 0 {
			continue
		}

		if err := setField(fv, params); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}

	return nil
}

func setField(fv reflect.Value, params []string) error {
	param := params[0]
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(param)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(param, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", param)
		}
		fv.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(param, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", param)
		}
		fv.SetUint(v)
	case reflect.Bool:
		v, err := strconv.ParseBool(param)
		if err != nil {
			return fmt.Errorf("invalid bool value %q", param)
		}
		fv.SetBool(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(param, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q", param)
		}
		fv.SetFloat(v)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return errors.New("only string slices are supported")
		}
		fv.Set(reflect.ValueOf(append([]string(nil), params...)).Convert(fv.Type()))
	default:
		return fmt.Errorf("unsupported field type %s", fv.Kind())
	}

	return nil
}
