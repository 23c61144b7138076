// Package inject is the property injector: it validates and binds a flat
// namespace of externally supplied values against a module's declared
// property schema before invoking a constructor.
//
// Binding is driven by an explicit, statically declared parameter list per
// constructor instead of runtime signature inspection. For each declared
// parameter name the resolution priority is:
//
//  1. an extra with that name (named dependency instances and
//     engine-provided context objects such as "module", "engine" and
//     "test_data"), which is consumed;
//  2. the property schema, looking up the raw value in the supplied bag,
//     falling back to the unset sentinel and running the declaration's
//     default/required/coercion rule;
//  3. otherwise the invocation fails with UndefinedPropertyError.
//
// Extras that no parameter consumed are still passed through and remain
// reachable on the Call.
package inject

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Constructor is a callable that produces a capability or test-double
// instance from its resolved arguments.
type Constructor func(call *Call) (any, error)

// Call carries the resolved arguments of one constructor invocation, in
// declaration order.
type Call struct {
	params []string
	values map[string]cty.Value
	extras map[string]any
}

// Params returns the declared parameter names in declaration order.
func (c *Call) Params() []string {
	out := make([]string, len(c.params))
	copy(out, c.params)
	return out
}

// Value returns the resolved property value bound to a declared parameter.
// Asking for a name that was not resolved as a property is a programmer
// error and panics.
func (c *Call) Value(name string) cty.Value {
	v, ok := c.values[name]
	if !ok {
		panic(fmt.Sprintf("inject: no property argument %q in this call", name))
	}
	return v
}

// Decode converts the resolved property value bound to name into the pointed-
// to Go value via gocty.
func (c *Call) Decode(name string, out any) error {
	return gocty.FromCtyValue(c.Value(name), out)
}

// Extra returns the extra bound to name, whether it was consumed by a
// declared parameter or passed through, and whether it exists.
func (c *Call) Extra(name string) (any, bool) {
	v, ok := c.extras[name]
	return v, ok
}

// Invoke resolves the constructor's declared parameters against the extras,
// schema and supplied property bag, then calls it.
func Invoke(fn Constructor, params []string, schema map[string]Property, supplied map[string]cty.Value, extras map[string]any) (any, error) {
	call := &Call{
		params: append([]string(nil), params...),
		values: make(map[string]cty.Value, len(params)),
		extras: make(map[string]any, len(extras)),
	}

	remaining := make(map[string]any, len(extras))
	for k, v := range extras {
		remaining[k] = v
	}

	for _, name := range params {
		if v, ok := remaining[name]; ok {
			call.extras[name] = v
			delete(remaining, name)
			continue
		}

		prop, ok := schema[name]
		if !ok {
			return nil, &UndefinedPropertyError{Name: name}
		}

		raw := cty.NilVal
		if v, ok := supplied[name]; ok {
			raw = v
		}
		resolved, err := prop.Interpret(raw)
		if err != nil {
			return nil, err
		}
		call.values[name] = resolved
	}

	// Unconsumed extras pass through so constructors can reach
	// engine-provided objects they did not declare.
	for k, v := range remaining {
		call.extras[k] = v
	}

	return fn(call)
}
