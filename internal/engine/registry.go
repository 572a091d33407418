package engine

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Serializable is implemented by built-in components that round-trip through
// the scene file under a fixed type name.
type Serializable interface {
	Component
	TypeName() string
	Serialize() map[string]any
	Deserialize(data map[string]any) error
}

var componentRegistry = map[string]func() Serializable{}

// RegisterComponent registers a constructor for a built-in component type.
func RegisterComponent(typeName string, ctor func() Serializable) {
	if _, exists := componentRegistry[typeName]; exists {
		panic(fmt.Sprintf("component %q already registered", typeName))
	}
	componentRegistry[typeName] = ctor
}

// CreateComponent builds a registered component and loads data into it.
func CreateComponent(typeName string, data map[string]any) (Serializable, error) {
	ctor, ok := componentRegistry[typeName]
	if !ok {
		return nil, errors.Errorf("unknown component type %q", typeName)
	}
	c := ctor()
	if err := c.Deserialize(data); err != nil {
		return nil, errors.Wrap(err, typeName)
	}
	return c, nil
}

func RegisteredComponents() []string {
	names := make([]string, 0, len(componentRegistry))
	for name := range componentRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
