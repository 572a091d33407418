package compute

import (
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// BroadPhase finds candidate collision pairs on the GPU from bounding circles.
type BroadPhase struct {
	system   *System
	layout   *wgpu.BindGroupLayout
	pipeline *wgpu.ComputePipeline
	shader   *wgpu.ShaderModule
	plLayout *wgpu.PipelineLayout

	circleBuffer *Buffer // in: centers + radii
	pairBuffer   *Buffer // out: candidate pairs
	countBuffer  *Buffer // out: number of pairs found
	objectBuffer *Buffer // uniform: number of circles

	maxObjects uint32
	maxPairs   uint32
}

// Circle is a bounding circle in the resolution frame, packed as a vec4 so
// the layout matches the shader struct.
type Circle struct {
	X, Y   float32
	Radius float32
	_      float32
}

// CollisionPair holds two circle indices with A < B.
type CollisionPair struct {
	A, B uint32
}

const workgroupSize = 256

// Capacity errors. Callers fall back to a CPU broad-phase; pairs are never
// silently dropped.
var (
	ErrTooManyObjects = errors.New("too many objects for the GPU broad-phase")
	ErrPairOverflow   = errors.New("GPU pair buffer overflowed")
)

// The test matches physics.BoxRadiiIntersect so the narrow phase sees the same
// candidates on either path.
const broadPhaseShader = `
struct Circle {
    pos: vec2<f32>,
    radius: f32,
    pad: f32,
}

struct Pair {
    a: u32,
    b: u32,
}

@group(0) @binding(0) var<storage, read> circles: array<Circle>;
@group(0) @binding(1) var<storage, read_write> pairs: array<Pair>;
@group(0) @binding(2) var<storage, read_write> pairCount: atomic<u32>;
@group(0) @binding(3) var<uniform> objectCount: u32;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= objectCount) {
        return;
    }

    let a = circles[i];
    for (var j = i + 1u; j < objectCount; j = j + 1u) {
        let b = circles[j];
        let d = abs(a.pos - b.pos);
        let r = a.radius + b.radius;
        if (d.x <= r && d.y <= r) {
            let idx = atomicAdd(&pairCount, 1u);
            if (idx < arrayLength(&pairs)) {
                pairs[idx] = Pair(i, j);
            }
        }
    }
}
`

// NewBroadPhase compiles the broad-phase pipeline. It returns nil, nil when
// the compute system was never initialized.
func NewBroadPhase(maxObjects, maxPairs uint32) (*BroadPhase, error) {
	sys := Get()
	if sys == nil {
		return nil, nil
	}

	bp := &BroadPhase{system: sys, maxObjects: maxObjects, maxPairs: maxPairs}
	if err := bp.createPipeline(); err != nil {
		bp.Release()
		return nil, err
	}
	if err := bp.createBuffers(); err != nil {
		bp.Release()
		return nil, err
	}
	return bp, nil
}

func (bp *BroadPhase) createPipeline() error {
	device := bp.system.device

	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "broadphase_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
			{Binding: 1, Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
			{Binding: 2, Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
			{Binding: 3, Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
		},
	})
	if err != nil {
		return errors.Wrap(err, "create bind group layout")
	}
	bp.layout = layout

	plLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "broadphase_pipeline_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return errors.Wrap(err, "create pipeline layout")
	}
	bp.plLayout = plLayout

	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "broadphase_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: broadPhaseShader},
	})
	if err != nil {
		return errors.Wrap(err, "create shader module")
	}
	bp.shader = shader

	pipeline, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "broadphase_pipeline",
		Layout: plLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shader,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return errors.Wrap(err, "create compute pipeline")
	}
	bp.pipeline = pipeline
	return nil
}

func (bp *BroadPhase) createBuffers() error {
	sys := bp.system
	var err error

	bp.circleBuffer, err = sys.createBuffer("circles", uint64(bp.maxObjects)*16,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	bp.pairBuffer, err = sys.createBuffer("pairs", uint64(bp.maxPairs)*8,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	if err != nil {
		return err
	}
	bp.countBuffer, err = sys.createBuffer("pairCount", 4,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	// uniforms are padded to 16 bytes
	bp.objectBuffer, err = sys.createBuffer("objectCount", 16,
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	return err
}

// DetectPairs returns every pair whose bounding boxes overlap, sorted by
// (A, B) so results are stable across frames. More circles than maxObjects,
// or more pairs than maxPairs, is an error rather than a partial result.
func (bp *BroadPhase) DetectPairs(circles []Circle) ([]CollisionPair, error) {
	if len(circles) < 2 {
		return nil, nil
	}
	if err := checkObjectCount(len(circles), bp.maxObjects); err != nil {
		return nil, err
	}
	n := uint32(len(circles))

	bp.system.writeBuffer(bp.circleBuffer, wgpu.ToBytes(circles))
	bp.system.writeBuffer(bp.countBuffer, wgpu.ToBytes([]uint32{0}))
	bp.system.writeBuffer(bp.objectBuffer, wgpu.ToBytes([]uint32{n, 0, 0, 0}))

	if err := bp.dispatch(n); err != nil {
		return nil, err
	}

	countData, err := bp.system.readBuffer(bp.countBuffer, 4)
	if err != nil {
		return nil, err
	}
	count := wgpu.FromBytes[uint32](countData)[0]
	if count == 0 {
		return nil, nil
	}
	if err := checkPairCount(count, bp.maxPairs); err != nil {
		return nil, err
	}

	pairData, err := bp.system.readBuffer(bp.pairBuffer, uint64(count)*8)
	if err != nil {
		return nil, err
	}
	pairs := make([]CollisionPair, count)
	copy(pairs, wgpu.FromBytes[CollisionPair](pairData))
	sortPairs(pairs)
	return pairs, nil
}

func checkObjectCount(n int, maxObjects uint32) error {
	if n > int(maxObjects) {
		return errors.Wrapf(ErrTooManyObjects, "%d > %d", n, maxObjects)
	}
	return nil
}

// checkPairCount rejects a count the shader could not store. The shader keeps
// counting past the buffer, so count is the true number of pairs.
func checkPairCount(count, maxPairs uint32) error {
	if count > maxPairs {
		return errors.Wrapf(ErrPairOverflow, "%d pairs > %d", count, maxPairs)
	}
	return nil
}

func (bp *BroadPhase) dispatch(n uint32) error {
	device := bp.system.device

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "broadphase_bindgroup",
		Layout: bp.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: bp.circleBuffer.buffer, Size: bp.circleBuffer.size},
			{Binding: 1, Buffer: bp.pairBuffer.buffer, Size: bp.pairBuffer.size},
			{Binding: 2, Buffer: bp.countBuffer.buffer, Size: bp.countBuffer.size},
			{Binding: 3, Buffer: bp.objectBuffer.buffer, Size: bp.objectBuffer.size},
		},
	})
	if err != nil {
		return errors.Wrap(err, "create bind group")
	}
	defer bindGroup.Release()

	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		return errors.Wrap(err, "create command encoder")
	}

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(bp.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(workgroupCount(n), 1, 1)
	pass.End()
	pass.Release()

	commands, err := encoder.Finish(nil)
	if err != nil {
		return errors.Wrap(err, "finish encoder")
	}
	defer commands.Release()

	bp.system.queue.Submit(commands)
	return nil
}

// Release frees GPU resources. Safe on a partly built broad-phase.
func (bp *BroadPhase) Release() {
	for _, b := range []*Buffer{bp.circleBuffer, bp.pairBuffer, bp.countBuffer, bp.objectBuffer} {
		if b != nil {
			b.Release()
		}
	}
	bp.circleBuffer, bp.pairBuffer, bp.countBuffer, bp.objectBuffer = nil, nil, nil, nil

	if bp.pipeline != nil {
		bp.pipeline.Release()
		bp.pipeline = nil
	}
	if bp.shader != nil {
		bp.shader.Release()
		bp.shader = nil
	}
	if bp.plLayout != nil {
		bp.plLayout.Release()
		bp.plLayout = nil
	}
	if bp.layout != nil {
		bp.layout.Release()
		bp.layout = nil
	}
}

func (bp *BroadPhase) MaxObjects() uint32 {
	return bp.maxObjects
}

func workgroupCount(n uint32) uint32 {
	return (n + workgroupSize - 1) / workgroupSize
}

// sortPairs orders pairs the way a nested i<j loop would visit them.
func sortPairs(pairs []CollisionPair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
}
