package host

import (
	"cmp"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
)

// Iterate runs body once per element of v, each time in a child of scope
// with the loop variables bound.
//
// With one name the variable is bound to the element of a slice, array or
// string, the key of a map, or the counter of an integer. With two names
// the first is bound to the index, key or counter and the second to the
// element. Map keys are visited in sorted order. A nil value iterates zero
// times.
func Iterate(scope *Scope, v any, names []string, body func(*Scope) error) error {
	step := func(key, value any, mapKey bool) error {
		child := scope.Child()

		switch len(names) {
		case 1:
			if mapKey {
				child.Set(names[0], key)
			} else {
				child.Set(names[0], value)
			}
		case 2:
			child.Set(names[0], key)
			child.Set(names[1], value)
		}

		return body(child)
	}

	if s, ok := v.(string); ok {
		for i, r := range s {
			if err := step(i, string(r), false); err != nil {
				return err
			}
		}

		return nil
	}

	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			if err := step(i, rv.Index(i).Interface(), false); err != nil {
				return err
			}
		}

	case reflect.Map:
		keys := rv.MapKeys()
		slices.SortFunc(keys, compareValues)

		for _, k := range keys {
			if err := step(k.Interface(), rv.MapIndex(k).Interface(), true); err != nil {
				return err
			}
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		for i := range int(rv.Int()) {
			if err := step(i, i, false); err != nil {
				return err
			}
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		for i := range int(rv.Uint()) {
			if err := step(i, i, false); err != nil {
				return err
			}
		}

	default:
		return ErrNotIterable.With(slog.String("type", fmt.Sprintf("%T", v)))
	}

	return nil
}

func compareValues(a, b reflect.Value) int {
	switch {
	case a.Kind() == reflect.String && b.Kind() == reflect.String:
		return cmp.Compare(a.String(), b.String())
	case a.CanInt() && b.CanInt():
		return cmp.Compare(a.Int(), b.Int())
	case a.CanUint() && b.CanUint():
		return cmp.Compare(a.Uint(), b.Uint())
	case a.CanFloat() && b.CanFloat():
		return cmp.Compare(a.Float(), b.Float())
	}

	return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
}
