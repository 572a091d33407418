package engine

import (
	"sprite2d/internal/sector"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RaycastResult holds information about a raycast hit.
// Defined here to avoid circular imports with the world package.
type RaycastResult struct {
	GameObject *GameObject
	Point      sector.Point
	Normal     rl.Vector2
	Distance   float32
}

// WorldAccess provides components with access to world-level operations
// without creating circular import dependencies.
type WorldAccess interface {
	GetCollidableObjects() []*GameObject
	SpawnObject(g *GameObject)
	Destroy(g *GameObject)
	Raycast(origin sector.Point, direction rl.Vector2, maxDistance float32) (RaycastResult, bool)
	// ApplyPointImpulse pushes every sprite within radius of point and
	// returns how many were hit.
	ApplyPointImpulse(point sector.Point, radius, force float32, diminishing bool) int
}
