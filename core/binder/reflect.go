package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// bindValues populates struct fields tagged with tagName from the given
// lookup of request values. Fields without the tag or tagged "-" are
// skipped. Missing values leave the field untouched.
func bindValues(v any, tagName string, values map[string][]string) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidTarget
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return ErrInvalidTarget
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Tag.Get(tagName)
		if name == "" || name == "-" {
			continue
		}
		name, _, _ = strings.Cut(name, ",")

		vals, ok := values[name]
		if !ok || len(vals) == 0 {
			continue
		}

		if err := setField(rv.Field(i), field.Name, vals); err != nil {
			return err
		}
	}
	return nil
}

func setField(fv reflect.Value, fieldName string, vals []string) error {
	// Slices consume all values, scalars only the first.
	if fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.String {
		fv.Set(reflect.ValueOf(append([]string(nil), vals...)))
		return nil
	}

	raw := strings.TrimSpace(vals[0])

	if fv.Kind() == reflect.Pointer {
		if raw == "" {
			return nil
		}
		elem := reflect.New(fv.Type().Elem())
		if err := setScalar(elem.Elem(), fieldName, raw); err != nil {
			return err
		}
		fv.Set(elem)
		return nil
	}

	return setScalar(fv, fieldName, raw)
}

func setScalar(fv reflect.Value, fieldName, raw string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Bool:
		b, err := parseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: field %s: %v", ErrParseFailure, fieldName, err)
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: field %s: %v", ErrParseFailure, fieldName, err)
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: field %s: %v", ErrParseFailure, fieldName, err)
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: field %s: %v", ErrParseFailure, fieldName, err)
		}
		fv.SetFloat(f)
	default:
		return fmt.Errorf("%w: field %s (%s)", ErrUnsupportedType, fieldName, fv.Kind())
	}
	return nil
}

// parseBool accepts the usual strconv forms plus the "on" value that HTML
// checkboxes submit.
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(raw)
}
