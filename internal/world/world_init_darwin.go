//go:build darwin

package world

// Metal is the reliable WebGPU backend, so the GPU broad-phase is on by default.
func (w *World) initializeCompute() {
	w.startCompute()
}
