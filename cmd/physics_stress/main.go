// Stress test comparing the CPU grid and the GPU broad-phase, first on raw
// pair finding and then on full physics steps.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"sprite2d/internal/components"
	"sprite2d/internal/compute"
	"sprite2d/internal/engine"
	"sprite2d/internal/physics"
	"sprite2d/internal/sector"
	"sprite2d/internal/world"
)

func main() {
	steps := flag.Int("steps", 30, "physics steps timed per object count")
	flag.Parse()

	info, err := compute.Initialize()
	gpu := err == nil
	if gpu {
		defer compute.Get().Release()
		fmt.Printf("GPU: %s | %s | %s\n\n", info.Backend, info.Vendor, info.Name)
	} else {
		fmt.Printf("GPU unavailable (%v), CPU only\n\n", err)
	}

	// Test various object counts
	testCounts := []int{100, 500, 1000, 2000, 5000, 10000}

	if gpu {
		fmt.Println("Broad-phase pairs")
		for _, count := range testCounts {
			testBroadPhase(count)
		}
		fmt.Println()
	}

	fmt.Println("World steps")
	for _, count := range testCounts {
		testWorld(count, *steps, gpu)
	}
}

// spawnSize keeps density roughly constant as the count grows.
func spawnSize(count int) float32 {
	return 50 + float32(count)/20
}

func testBroadPhase(count int) {
	rng := rand.New(rand.NewSource(42)) // Consistent results
	size := spawnSize(count)

	circles := make([]compute.Circle, count)
	for i := range circles {
		circles[i] = compute.Circle{
			X:      rng.Float32()*size - size/2,
			Y:      rng.Float32()*size - size/2,
			Radius: 0.5 + rng.Float32()*0.5,
		}
	}

	bp, err := compute.NewBroadPhase(uint32(count), uint32(count*20))
	if err != nil {
		fmt.Printf("%5d objects: GPU ERROR: %v\n", count, err)
		return
	}
	defer bp.Release()

	// Warm up
	bp.DetectPairs(circles)

	const iterations = 10
	gpuStart := time.Now()
	var gpuPairs []compute.CollisionPair
	for i := 0; i < iterations; i++ {
		if gpuPairs, err = bp.DetectPairs(circles); err != nil {
			fmt.Printf("%5d objects: GPU ERROR: %v\n", count, err)
			return
		}
	}
	gpuTime := time.Since(gpuStart) / iterations

	// Brute force with the same box test the world uses
	cpuStart := time.Now()
	var cpuPairCount int
	for iter := 0; iter < iterations; iter++ {
		cpuPairCount = 0
		for i := range circles {
			for j := i + 1; j < len(circles); j++ {
				a, b := circles[i], circles[j]
				r := a.Radius + b.Radius
				if abs(a.X-b.X) <= r && abs(a.Y-b.Y) <= r {
					cpuPairCount++
				}
			}
		}
	}
	cpuTime := time.Since(cpuStart) / iterations

	speedup := float64(cpuTime) / float64(gpuTime)
	fmt.Printf("%5d objects: GPU %8v (%4d pairs) | CPU %10v (%4d pairs) | %.1fx speedup\n",
		count, gpuTime.Round(time.Microsecond), len(gpuPairs),
		cpuTime.Round(time.Microsecond), cpuPairCount, speedup)
}

func testWorld(count, steps int, gpu bool) {
	cpuTime, cpuContacts := timeWorld(count, steps, false)
	line := fmt.Sprintf("%5d objects: grid %8v/step (%5d contacts)", count, cpuTime.Round(time.Microsecond), cpuContacts)
	if gpu {
		gpuTime, gpuContacts := timeWorld(count, steps, true)
		line += fmt.Sprintf(" | gpu %8v/step (%5d contacts)", gpuTime.Round(time.Microsecond), gpuContacts)
	}
	fmt.Println(line)
}

// timeWorld scatters random boxes and triangles far from the origin and
// times Step. The count of contacts in the last step is a cross-check between
// the two broad-phases.
func timeWorld(count, steps int, gpu bool) (time.Duration, int) {
	settings := world.DefaultSettings()
	settings.Gravity = [2]float32{}
	if gpu {
		settings.GPUThreshold = 0
	} else {
		settings.GPUThreshold = world.MaxPhysicsObjects + 1
	}

	pw := world.NewPhysicsWorld(settings, physics.DefaultConfig())
	if gpu {
		pw.InitGPU()
		defer pw.Release()
	}

	rng := rand.New(rand.NewSource(7))
	size := float64(spawnSize(count))
	base := sector.NewPoint(1e7, -1e7)
	for i := 0; i < count; i++ {
		g := engine.NewGameObject(fmt.Sprintf("Obj_%d", i))
		g.SetPosition(base.Add(randomOffset(rng, size)))
		g.SetRotation(rng.Float32() * 360)

		shape := components.RectShape(0.5+rng.Float32(), 0.5+rng.Float32())
		if i%3 == 0 {
			shape = components.PolygonShape(triangle(0.4 + rng.Float32()*0.6)...)
		}
		cs := components.NewCollisionSprite(shape)
		cs.CanSleep = false
		g.AddComponent(cs)
		pw.AddObject(g)
	}
	pw.Focus = base

	// Warm up
	pw.Step(settings.FixedStep)

	start := time.Now()
	for i := 0; i < steps; i++ {
		pw.Step(settings.FixedStep)
	}
	return time.Since(start) / time.Duration(steps), len(pw.Contacts())
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
