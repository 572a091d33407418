// Package compute runs the collision broad-phase on the GPU through WebGPU.
// It is independent of raylib's OpenGL context.
package compute

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// System owns the WebGPU device. Initialize once at startup.
type System struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	mu       sync.Mutex
	released bool
}

// Buffer wraps a GPU buffer with its size.
type Buffer struct {
	buffer *wgpu.Buffer
	size   uint64
}

var (
	globalSystem *System
	initOnce     sync.Once
	initErr      error
)

// AdapterInfo describes the selected GPU.
type AdapterInfo struct {
	Name       string
	Vendor     string
	Backend    string
	DeviceType string
}

// Initialize sets up the compute system. Safe to call more than once; later
// calls return the first result.
func Initialize() (AdapterInfo, error) {
	initOnce.Do(func() {
		globalSystem, initErr = newSystem()
	})
	if initErr != nil {
		return AdapterInfo{}, initErr
	}
	info := globalSystem.adapter.GetInfo()
	return AdapterInfo{
		Name:       info.Name,
		Vendor:     info.VendorName,
		Backend:    info.BackendType.String(),
		DeviceType: info.AdapterType.String(),
	}, nil
}

// Get returns the global system, or nil before a successful Initialize.
func Get() *System {
	return globalSystem
}

func newSystem() (*System, error) {
	instance := wgpu.CreateInstance(nil)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, errors.Wrap(err, "request GPU adapter")
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, errors.Wrap(err, "request GPU device")
	}

	return &System{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
	}, nil
}

func (s *System) createBuffer(label string, size uint64, usage wgpu.BufferUsage) (*Buffer, error) {
	buf, err := s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create buffer %s", label)
	}
	return &Buffer{buffer: buf, size: size}, nil
}

func (s *System) writeBuffer(buf *Buffer, data []byte) {
	s.queue.WriteBuffer(buf.buffer, 0, data)
}

// readBuffer copies the first n bytes of buf back to the CPU. buf needs
// BufferUsageCopySrc.
func (s *System) readBuffer(buf *Buffer, n uint64) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if n > buf.size {
		n = buf.size
	}
	// copy sizes must be 4-byte aligned
	n = (n + 3) &^ 3

	staging, err := s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "staging_read",
		Size:  n,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create staging buffer")
	}
	defer staging.Release()

	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, errors.Wrap(err, "create command encoder")
	}
	encoder.CopyBufferToBuffer(buf.buffer, 0, staging, 0, n)
	commands, err := encoder.Finish(nil)
	if err != nil {
		return nil, errors.Wrap(err, "finish encoder")
	}
	s.queue.Submit(commands)
	commands.Release()

	done := make(chan error, 1)
	err = staging.MapAsync(wgpu.MapModeRead, 0, n, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			done <- errors.Errorf("map buffer: %v", status)
			return
		}
		done <- nil
	})
	if err != nil {
		return nil, err
	}

	s.device.Poll(true, nil)
	if err := <-done; err != nil {
		return nil, err
	}

	mapped := staging.GetMappedRange(0, uint(n))
	result := make([]byte, len(mapped))
	copy(result, mapped)
	staging.Unmap()
	return result, nil
}

// Release frees the device. The system cannot be used afterwards.
func (s *System) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	s.queue.Release()
	s.device.Release()
	s.adapter.Release()
	s.instance.Release()
}

func (b *Buffer) Release() {
	b.buffer.Release()
}

func (b *Buffer) Size() uint64 {
	return b.size
}
