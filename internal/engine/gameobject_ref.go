package engine

// GameObjectRef is a reference to a GameObject by UID. It does not keep the
// object alive; resolve it through the scene each time it is used.
//
// The world uses one to follow a focus object:
//
//	w.Physics.FocusTarget.Set(player)
//	if target := w.Physics.FocusTarget.Get(scene); target != nil {
//	    // recenter on target
//	}
type GameObjectRef struct {
	UID uint64 // 0 = none
}

// Get resolves the reference. Returns nil if the reference is empty or the
// object has left the scene.
func (r GameObjectRef) Get(scene *Scene) *GameObject {
	if r.UID == 0 || scene == nil {
		return nil
	}
	return scene.FindByUID(r.UID)
}

// Resolve is Get, but it also clears the reference once the object has left
// the scene.
func (r *GameObjectRef) Resolve(scene *Scene) *GameObject {
	g := r.Get(scene)
	if g == nil && scene != nil {
		r.UID = 0
	}
	return g
}

// IsValid returns true if the reference points to something (UID != 0).
// Note: This doesn't check if the GameObject actually exists in the scene.
func (r GameObjectRef) IsValid() bool {
	return r.UID != 0
}

// Set points the reference at g. Pass nil to clear it.
func (r *GameObjectRef) Set(g *GameObject) {
	if g == nil {
		r.UID = 0
	} else {
		r.UID = g.UID
	}
}

func (r *GameObjectRef) Clear() {
	r.UID = 0
}
