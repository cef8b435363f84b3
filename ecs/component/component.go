// Package component holds the data attached to ghostwave entities. Each type
// is registered once through NewComponent, which hands out the typed kind the
// ecs package uses to find its store.
package component

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID indexes a component store. Zero is never issued.
type ComponentID uint32

// ComponentKind is the typed key for components of type T. The zero value is
// invalid and rejected by every ecs accessor.
type ComponentKind[T any] struct {
	id ComponentID
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }

func (k ComponentKind[T]) Valid() bool { return k.id != 0 }

// String names the component type, e.g. "component.Shield".
func (k ComponentKind[T]) String() string {
	if !k.Valid() {
		return "component.<invalid>"
	}
	return Name(k.id)
}

// Component is the package-level handle each component file declares.
type Component[T any] struct {
	kind ComponentKind[T]
}

func (c Component[T]) Kind() ComponentKind[T] { return c.kind }

var registry struct {
	sync.Mutex
	names []string
}

// NewComponent registers T and returns its handle. Registering the same type
// twice yields two unrelated stores, so handles live in package-level vars.
func NewComponent[T any]() Component[T] {
	name := reflect.TypeOf((*T)(nil)).Elem().String()

	registry.Lock()
	defer registry.Unlock()
	registry.names = append(registry.names, name)
	return Component[T]{kind: ComponentKind[T]{id: ComponentID(len(registry.names))}}
}

// Name returns the registered type name for id.
func Name(id ComponentID) string {
	registry.Lock()
	defer registry.Unlock()
	if id == 0 || int(id) > len(registry.names) {
		return fmt.Sprintf("component.#%d", id)
	}
	return registry.names[id-1]
}

// Registered lists every registered component type in registration order.
func Registered() []string {
	registry.Lock()
	defer registry.Unlock()
	return append([]string(nil), registry.names...)
}
