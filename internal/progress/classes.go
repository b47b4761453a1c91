// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

import (
	"github.com/nlpodyssey/gopickle/types"
)

// findClass resolves the classes a pickle stream references that the
// decoder has no native type for. The collections dict subclasses become
// mappings; every other class yields opaque objects so that arbitrary
// example payloads still decode.
func findClass(module, name string) (any, error) {
	c := &class{module: module, name: name}
	if module == "collections" {
		switch name {
		case "defaultdict", "Counter", "OrderedDict":
			c.mapping = true
		}
	}
	return c, nil
}

// class is a Python class that can be called (REDUCE) or instantiated
// through __new__ (NEWOBJ).
type class struct {
	module, name string
	mapping      bool
}

var (
	_ types.Callable  = (*class)(nil)
	_ types.PyNewable = (*class)(nil)
)

func (c *class) Call(args ...any) (any, error) {
	o := &Object{Module: c.module, Name: c.name, Args: args, mapping: c.mapping}
	// Counter(dict) and OrderedDict(items) carry their content as the
	// constructor argument. defaultdict's argument is its factory.
	if c.mapping && c.name != "defaultdict" && len(args) == 1 {
		if items, ok := entries(args[0]); ok {
			o.items = append(o.items, items...)
		}
	}
	return o, nil
}

func (c *class) PyNew(args ...any) (any, error) {
	return c.Call(args...)
}

// Object is an instance of a class decoded without a native Go type.
// Instances that receive dictionary items behave as mappings.
type Object struct {
	Module string
	Name   string
	Args   []any
	State  any
	Elems  []any

	items   []entry
	mapping bool
}

var (
	_ types.DictSetter      = (*Object)(nil)
	_ types.ListAppender    = (*Object)(nil)
	_ types.PyStateSettable = (*Object)(nil)
)

// Set records a dictionary item, as pickled dict subclasses do.
func (o *Object) Set(key, value any) {
	o.items = append(o.items, entry{key, value})
	o.mapping = true
}

// Append records a list element, as pickled list subclasses do.
func (o *Object) Append(v any) {
	o.Elems = append(o.Elems, v)
}

// PySetState keeps the instance state unexamined.
func (o *Object) PySetState(state any) error {
	o.State = state
	return nil
}
