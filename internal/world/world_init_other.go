//go:build !darwin

package world

import (
	"log"
	"os"
)

// Off unless asked for: on Linux the EGL context raylib creates fights WebGPU
// on NVIDIA drivers under X11.
func (w *World) initializeCompute() {
	if os.Getenv(gpuEnv) != "1" {
		log.Printf("Compute: disabled, using the CPU grid (set %s=1 to enable)", gpuEnv)
		return
	}
	w.startCompute()
}
