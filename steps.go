package hugodist

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// StepsFrom returns all exported methods of a namespace as steps named after
// the methods. The namespace type must be a struct; methods not following the
// signature func(ctx context.Context) error are ignored. Methods are returned
// in lexicographic order.
//
// Example:
//
//	type Dist struct{}
//
//	func (Dist) Build(ctx context.Context) error { ... }
//	func (Dist) Wheel(ctx context.Context) error { ... }
//
//	func All(ctx context.Context) error {
//	    return p.Execute(ctx, StepsFrom[Dist]()...)
//	}
func StepsFrom[T any]() []Step {
	var ns T

	steps, err := stepsFromNamespace(ns)
	if err != nil {
		return nil
	}

	return steps
}

// AsSteps wraps plain functions and method expressions as steps, keeping the
// given order. Anything with another signature makes it return nil.
func AsSteps(fns ...any) []Step {
	steps, err := stepsFromFuncs(fns)
	if err != nil {
		return nil
	}

	return steps
}

func stepsFromNamespace(namespace any) ([]Step, error) {
	val, typ := reflect.ValueOf(namespace), reflect.TypeOf(namespace)

	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("namespace must be a struct, got %T", namespace)
	}

	var steps []Step

	for i := range typ.NumMethod() {
		method := typ.Method(i)

		if !method.IsExported() || !isMethodStep(method.Type) {
			continue
		}

		fn := val.Method(i)
		steps = append(steps, Do(method.Name, func(ctx context.Context) error {
			return returnedError(fn.Call([]reflect.Value{reflect.ValueOf(ctx)}))
		}))
	}

	if len(steps) == 0 {
		return nil, fmt.Errorf("no steps found in namespace %T", namespace)
	}

	return steps, nil
}

func stepsFromFuncs(fns []any) ([]Step, error) {
	steps := make([]Step, 0, len(fns))

	for _, fn := range fns {
		val := reflect.ValueOf(fn)
		if val.Kind() != reflect.Func {
			return nil, fmt.Errorf("%T is not a function", fn)
		}

		typ := val.Type()
		name := funcName(val)

		switch {
		case isFuncStep(typ):
			steps = append(steps, Do(name, func(ctx context.Context) error {
				return returnedError(val.Call([]reflect.Value{reflect.ValueOf(ctx)}))
			}))

		case isMethodStep(typ):
			receiver := reflect.New(typ.In(0)).Elem()
			steps = append(steps, Do(name, func(ctx context.Context) error {
				return returnedError(val.Call([]reflect.Value{receiver, reflect.ValueOf(ctx)}))
			}))

		default:
			return nil, fmt.Errorf("invalid signature for %s: expected func(context.Context) error", name)
		}
	}

	return steps, nil
}

// funcName is the bare name of a function, e.g. Build for main.Dist.Build.
func funcName(fn reflect.Value) string {
	name := runtime.FuncForPC(fn.Pointer()).Name()
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// isFuncStep matches func(ctx context.Context) error.
func isFuncStep(t reflect.Type) bool {
	return t.Kind() == reflect.Func &&
		t.NumIn() == 1 && t.NumOut() == 1 &&
		t.In(0) == reflect.TypeFor[context.Context]() &&
		t.Out(0) == reflect.TypeFor[error]()
}

// isMethodStep matches method expressions, func(receiver, ctx context.Context) error,
// where the receiver is a struct.
func isMethodStep(t reflect.Type) bool {
	return t.Kind() == reflect.Func &&
		t.NumIn() == 2 && t.NumOut() == 1 &&
		t.In(0).Kind() == reflect.Struct &&
		t.In(1) == reflect.TypeFor[context.Context]() &&
		t.Out(0) == reflect.TypeFor[error]()
}

func returnedError(out []reflect.Value) error {
	if len(out) == 0 || out[0].IsNil() {
		return nil
	}
	return out[0].Interface().(error)
}
