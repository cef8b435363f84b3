package component

import (
	"slices"
	"testing"
)

func TestKindNames(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"shield", ShieldComponent.Kind().String(), "component.Shield"},
		{"boss runtime", BossRuntimeComponent.Kind().String(), "component.BossRuntime"},
		{"zero kind", ComponentKind[Shield]{}.String(), "component.<invalid>"},
		{"unknown id", Name(ComponentID(1 << 20)), "component.#1048576"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestRegisteredKindsAreDistinct(t *testing.T) {
	names := Registered()
	if !slices.Contains(names, "component.Transform") || !slices.Contains(names, "component.Pickup") {
		t.Fatalf("registry missing core components: %v", names)
	}
	if ShieldComponent.Kind().ID() == BossComponent.Kind().ID() {
		t.Fatalf("two components share an id")
	}
	if !TransformComponent.Kind().Valid() || (ComponentKind[Transform]{}).Valid() {
		t.Fatalf("validity mismatch")
	}
}
