package assert

import "reflect"

// NotNil panics when value is nil, including typed nil pointers, maps,
// slices and funcs hidden behind an interface.
func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			panic("expected value to be not nil")
		}
	}
}

// NotEmptyStr panics on an empty string.
func NotEmptyStr(str string) {
	if str == "" {
		panic("expected string to be non-empty")
	}
}
