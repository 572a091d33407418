package world

import (
	"log"

	"sprite2d/internal/compute"
)

// gpuEnv forces the GPU broad-phase on where it is off by default.
const gpuEnv = "SPRITE2D_GPU"

// startCompute brings up WebGPU and hands the broad-phase to it. On failure
// the CPU grid stays in use.
func (w *World) startCompute() {
	info, err := compute.Initialize()
	if err != nil {
		log.Printf("Compute: unavailable: %v", err)
		return
	}
	log.Printf("Compute: %s | %s | %s | %s", info.Backend, info.Vendor, info.Name, info.DeviceType)
	w.Physics.InitGPU()
}
