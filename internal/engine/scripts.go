package engine

import (
	"fmt"
	"reflect"
	"sort"
)

// Scripts are behaviour components configured from a loose props map in the
// scene file, e.g. {"type": "Script", "name": "Bomb", "props": {"fuse": 2}}.
// Each script is registered under a name and its concrete Go type, so saving
// finds the name without asking every script.

type scriptEntry struct {
	create    func(props map[string]any) Component
	serialize func(c Component) map[string]any
}

var (
	scriptsByName = map[string]scriptEntry{}
	scriptsByType = map[reflect.Type]string{}
)

// RegisterScript registers script type T under name. serialize may be nil for
// scripts without props. Registering a name or a type twice panics.
func RegisterScript[T Component](name string, create func(props map[string]any) T, serialize func(T) map[string]any) {
	if _, exists := scriptsByName[name]; exists {
		panic(fmt.Sprintf("script %q already registered", name))
	}
	typ := reflect.TypeFor[T]()
	if other, exists := scriptsByType[typ]; exists {
		panic(fmt.Sprintf("%v already registered as script %q", typ, other))
	}

	entry := scriptEntry{
		create: func(props map[string]any) Component { return create(props) },
	}
	if serialize != nil {
		entry.serialize = func(c Component) map[string]any { return serialize(c.(T)) }
	}
	scriptsByName[name] = entry
	scriptsByType[typ] = name
}

// CreateScript builds the named script from props, or returns nil for an
// unknown name.
func CreateScript(name string, props map[string]any) Component {
	entry, ok := scriptsByName[name]
	if !ok {
		return nil
	}
	if props == nil {
		props = map[string]any{}
	}
	return entry.create(props)
}

// SerializeScript returns the script name and props for c. ok is false when
// c's type is not a registered script.
func SerializeScript(c Component) (name string, props map[string]any, ok bool) {
	if c == nil {
		return "", nil, false
	}
	name, ok = scriptsByType[reflect.TypeOf(c)]
	if !ok {
		return "", nil, false
	}
	if s := scriptsByName[name].serialize; s != nil {
		props = s(c)
	}
	return name, props, true
}

// GetRegisteredScripts returns the script names, sorted.
func GetRegisteredScripts() []string {
	names := make([]string, 0, len(scriptsByName))
	for name := range scriptsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PropFloat reads a numeric prop, falling back when missing or mistyped.
func PropFloat(props map[string]any, key string, fallback float32) float32 {
	switch v := props[key].(type) {
	case float64:
		return float32(v)
	case float32:
		return v
	case int:
		return float32(v)
	}
	return fallback
}

// PropBool reads a boolean prop.
func PropBool(props map[string]any, key string, fallback bool) bool {
	if v, ok := props[key].(bool); ok {
		return v
	}
	return fallback
}
