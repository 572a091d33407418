package engine

import "testing"

func TestGameObjectRefResolvesThroughScene(t *testing.T) {
	scene := NewScene("Sandbox")
	crate := NewGameObject("Crate")
	scene.AddGameObject(crate)

	var focus GameObjectRef
	if focus.IsValid() || focus.Get(scene) != nil {
		t.Error("Zero ref should point at nothing")
	}

	focus.Set(crate)
	if focus.Get(scene) != crate {
		t.Error("Expected the crate")
	}
	if focus.Get(nil) != nil {
		t.Error("Ref without a scene should resolve to nil")
	}
	if (GameObjectRef{UID: crate.UID + 1000}).Get(scene) != nil {
		t.Error("Unknown UID should resolve to nil")
	}

	focus.Set(nil)
	if focus.IsValid() {
		t.Error("Set(nil) should clear the ref")
	}
	focus.Set(crate)
	focus.Clear()
	if focus.UID != 0 {
		t.Errorf("Expected UID 0 after Clear, got %d", focus.UID)
	}
}

func TestGameObjectRefAfterRemoval(t *testing.T) {
	scene := NewScene("Sandbox")
	bomb := NewGameObject("Bomb")
	scene.AddGameObject(bomb)

	focus := GameObjectRef{UID: bomb.UID}
	scene.RemoveGameObject(bomb)

	if focus.Get(scene) != nil {
		t.Error("Ref to a removed object should resolve to nil")
	}
	if !focus.IsValid() {
		t.Error("Get should leave a stale ref alone")
	}
	if focus.Resolve(scene) != nil {
		t.Error("Resolve should not find the removed bomb")
	}
	if focus.IsValid() {
		t.Error("Resolve should clear a stale ref")
	}
}

func TestGameObjectRefResolveWithoutScene(t *testing.T) {
	bomb := NewGameObject("Bomb")
	focus := GameObjectRef{UID: bomb.UID}

	if focus.Resolve(nil) != nil {
		t.Error("Expected nil without a scene")
	}
	if !focus.IsValid() {
		t.Error("Resolve without a scene should keep the ref")
	}
}

func TestGameObjectRefsAreIndependent(t *testing.T) {
	scene := NewScene("Sandbox")
	ground := NewGameObject("Ground")
	crate := NewGameObject("Crate")
	scene.AddGameObject(ground)
	scene.AddGameObject(crate)

	a := GameObjectRef{UID: ground.UID}
	b := GameObjectRef{UID: crate.UID}
	scene.RemoveGameObject(crate)

	if a.Resolve(scene) != ground {
		t.Error("Ground ref should still resolve")
	}
	if b.Resolve(scene) != nil || b.IsValid() {
		t.Error("Crate ref should be cleared")
	}
}
