package main

import (
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func randomOffset(rng *rand.Rand, size float64) rl.Vector2 {
	return rl.Vector2{
		X: float32(rng.Float64()*size - size/2),
		Y: float32(rng.Float64()*size - size/2),
	}
}

func triangle(r float32) []rl.Vector2 {
	return []rl.Vector2{
		{X: 0, Y: -r},
		{X: r, Y: r},
		{X: -r, Y: r},
	}
}
