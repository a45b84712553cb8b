package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/light"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-scene/engine/sky"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Bind group indices shared by every pipeline.
const (
	frameGroup    = 0
	materialGroup = 1
	objectGroup   = 2
)

// Frame uniform bindings within group 0.
const (
	cameraBinding = iota
	ambientBinding
	lightsBinding
	clipBinding
)

var frameBindingSizes = [...]uint64{
	cameraBinding:  uint64(unsafe.Sizeof(camera.GPUCameraUniform{})),
	ambientBinding: uint64(unsafe.Sizeof(sky.GPUAmbient{})),
	lightsBinding:  uint64(light.GPULightHeaderSize + light.MaxGPULights*light.GPULightSize),
	clipBinding:    uint64(unsafe.Sizeof(mgl32.Vec4{})),
}

var materialUniformSize = uint64(unsafe.Sizeof(material.GPUMaterial{}))

// minObjectCapacity is the smallest object buffer allocated by Reserve.
const minObjectCapacity = 64

// wgpuTarget holds the attachments of one render target. The default surface target
// has no color texture of its own; its color view is acquired from the surface each frame.
type wgpuTarget struct {
	label         string
	width, height int

	color     *wgpu.Texture
	colorView *wgpu.TextureView
	msaa      *wgpu.Texture
	msaaView  *wgpu.TextureView
	depth     *wgpu.Texture
	depthView *wgpu.TextureView
}

func (t *wgpuTarget) Label() string { return t.label }
func (t *wgpuTarget) Width() int    { return t.width }
func (t *wgpuTarget) Height() int   { return t.height }

// ColorView returns the resolved color view of an off-screen target, for sampling in later passes.
//
// Returns:
//   - *wgpu.TextureView: the color view, nil for the default surface target
func (t *wgpuTarget) ColorView() *wgpu.TextureView { return t.colorView }

func (t *wgpuTarget) release() {
	for _, v := range []*wgpu.TextureView{t.colorView, t.msaaView, t.depthView} {
		if v != nil {
			v.Release()
		}
	}
	for _, tex := range []*wgpu.Texture{t.color, t.msaa, t.depth} {
		if tex != nil {
			tex.Release()
		}
	}
	t.color, t.colorView = nil, nil
	t.msaa, t.msaaView = nil, nil
	t.depth, t.depthView = nil, nil
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat *wgpu.TextureFormat
	surfaceTarget *wgpuTarget
	targets       []*wgpuTarget

	presentMode wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)
	sampleCount MSAASampleCount  // MSAA sample count for every pass

	frameLayout    *wgpu.BindGroupLayout
	materialLayout *wgpu.BindGroupLayout
	objectLayout   *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout

	pipelines map[string]pipeline.Pipeline
	clips     map[string]mgl32.Vec4
	materials []material.Material
	models    []model.Model

	objects        bind_group_provider.BindGroupProvider
	objectStaging  []byte
	objectCapacity int
	objectCount    int
	indexCount     int

	// Frame state for the pass being recorded
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) *wgpuRendererBackendImpl {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: sampleCount,
		pipelines:   make(map[string]pipeline.Pipeline),
		clips:       make(map[string]mgl32.Vec4),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	limits := wgpu.DefaultLimits()
	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	if err := w.createLayouts(); err != nil {
		panic(err)
	}
	return w
}

// createLayouts builds the three bind group layouts and the pipeline layout every shader shares.
func (b *wgpuRendererBackendImpl) createLayouts() error {
	visibility := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment

	frameEntries := make([]wgpu.BindGroupLayoutEntry, len(frameBindingSizes))
	for i, size := range frameBindingSizes {
		frameEntries[i] = wgpu.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: visibility,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: size,
			},
		}
	}
	var err error
	b.frameLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Frame Bind Group Layout",
		Entries: frameEntries,
	})
	if err != nil {
		return fmt.Errorf("failed to create frame bind group layout: %w", err)
	}

	b.materialLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Material Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: visibility,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: materialUniformSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create material bind group layout: %w", err)
	}

	b.objectLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Object Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: visibility,
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: true,
				MinBindingSize:   ObjectUniformSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create object bind group layout: %w", err)
	}

	b.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Scene Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.frameLayout, b.materialLayout, b.objectLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}
	return nil
}

// createAttachments creates the MSAA and depth attachments of a target. The depth texture
// sample count must match the color attachment.
func (b *wgpuRendererBackendImpl) createAttachments(t *wgpuTarget) error {
	count := uint32(b.sampleCount)
	size := wgpu.Extent3D{
		Width:              uint32(t.width),
		Height:             uint32(t.height),
		DepthOrArrayLayers: 1,
	}

	if count > 1 {
		// The pass draws into the MSAA texture; the resolved result lands in the color view.
		msaa, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         t.label + " MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return err
		}
		t.msaa = msaa
		if t.msaaView, err = msaa.CreateView(nil); err != nil {
			return err
		}
	}

	depth, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         t.label + " Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	t.depth = depth
	t.depthView, err = depth.CreateView(nil)
	return err
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if b.surfaceTarget != nil {
		b.surfaceTarget.release()
	}
	b.surfaceTarget = &wgpuTarget{label: "Surface", width: width, height: height}
	if err := b.createAttachments(b.surfaceTarget); err != nil {
		panic(err)
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) Reserve(objects int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if objects <= b.objectCapacity {
		return nil
	}
	capacity := max(objects, b.objectCapacity*2, minObjectCapacity)

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Object Uniform Buffer",
		Size:  uint64(capacity * ObjectStride),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Object Bind Group",
		Layout: b.objectLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  buf,
			Offset:  0,
			Size:    ObjectUniformSize,
		}},
	})
	if err != nil {
		buf.Release()
		return err
	}

	if b.objects != nil {
		b.objects.Release()
	}
	b.objects = bind_group_provider.NewBindGroupProvider("Objects",
		bind_group_provider.WithBindGroupLayout(b.objectLayout),
		bind_group_provider.WithBuffer(0, buf),
	)
	b.objects.SetBindGroup(bindGroup)
	b.objectStaging = make([]byte, capacity*ObjectStride)
	b.objectCapacity = capacity
	return nil
}

func (b *wgpuRendererBackendImpl) CreateTarget(label string, width, height int) (Target, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surfaceFormat == nil {
		return nil, errors.New("surface is not configured")
	}
	t := &wgpuTarget{label: label, width: width, height: height}
	color, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label + " Color Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        *b.surfaceFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, err
	}
	t.color = color
	if t.colorView, err = color.CreateView(nil); err != nil {
		t.release()
		return nil, err
	}
	if err := b.createAttachments(t); err != nil {
		t.release()
		return nil, err
	}
	b.targets = append(b.targets, t)
	return t, nil
}

func (b *wgpuRendererBackendImpl) BeginPass(target Target, clear common.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.surfaceTarget
	var view *wgpu.TextureView
	if target == nil {
		// The surface image stays acquired across passes until Present.
		if b.frameSurface == nil {
			surfaceTexture, err := b.surface.GetCurrentTexture()
			if err != nil {
				return err
			}
			v, err := surfaceTexture.CreateView(nil)
			if err != nil {
				surfaceTexture.Release()
				return err
			}
			b.frameSurface, b.frameView = surfaceTexture, v
		}
		view = b.frameView
	} else {
		wt, ok := target.(*wgpuTarget)
		if !ok {
			return fmt.Errorf("target %q was not created by the wgpu backend", target.Label())
		}
		t, view = wt, wt.colorView
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}

	attachment := wgpu.RenderPassColorAttachment{
		View:       view,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: wgpu.Color{R: float64(clear.R), G: float64(clear.G), B: float64(clear.B), A: float64(clear.A)},
	}
	if b.sampleCount > 1 {
		attachment.View = t.msaaView
		attachment.ResolveTarget = view
		attachment.StoreOp = wgpu.StoreOpDiscard
	}

	b.frameEncoder = encoder
	b.framePass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            t.label + " Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{attachment},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            t.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	b.objectCount = 0
	b.indexCount = 0
	return nil
}

func (b *wgpuRendererBackendImpl) SetViewport(x, y, width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.framePass.SetViewport(float32(x), float32(y), float32(width), float32(height), 0, 1)
}

// pipelineFor returns the pipeline compiled for s, creating it and its frame uniforms on first use.
func (b *wgpuRendererBackendImpl) pipelineFor(s shader.Shader) (pipeline.Pipeline, error) {
	if p, ok := b.pipelines[s.Key()]; ok {
		return p, nil
	}

	p := pipeline.NewPipeline(s)
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: s.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.Source(),
		},
	})
	if err != nil {
		return nil, err
	}
	defer module.Release()

	colorTarget := wgpu.ColorTargetState{
		Format:    *b.surfaceFormat,
		WriteMask: p.WriteMask(),
	}
	if p.BlendEnabled() {
		colorTarget.Blend = p.BlendState()
	}
	depthCompare := wgpu.CompareFunctionLess
	if !p.DepthTestEnabled() {
		depthCompare = wgpu.CompareFunctionAlways
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  s.Key() + " Render Pipeline",
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: s.VertexEntryPoint(),
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: model.VertexStride,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x3, Offset: model.NormalOffset, ShaderLocation: 1},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: s.FragmentEntryPoint(),
			Targets:    []wgpu.ColorTargetState{colorTarget},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return nil, err
	}
	p.SetRenderPipeline(created)

	frame := bind_group_provider.NewBindGroupProvider(s.Key()+" Frame", bind_group_provider.WithBindGroupLayout(b.frameLayout))
	entries := make([]wgpu.BindGroupEntry, len(frameBindingSizes))
	for i, size := range frameBindingSizes {
		buf, bufErr := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("%s Frame Buffer %d", s.Key(), i),
			Size:  size,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if bufErr != nil {
			frame.Release()
			p.Release()
			return nil, bufErr
		}
		frame.SetBuffer(i, buf)
		entries[i] = wgpu.BindGroupEntry{Binding: uint32(i), Buffer: buf, Offset: 0, Size: wgpu.WholeSize}
	}
	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   s.Key() + " Frame Bind Group",
		Layout:  b.frameLayout,
		Entries: entries,
	})
	if err != nil {
		frame.Release()
		p.Release()
		return nil, err
	}
	frame.SetBindGroup(bindGroup)
	p.SetFrame(frame)

	// fresh buffers hold nothing yet
	s.Invalidate()
	delete(b.clips, s.Key())
	b.pipelines[s.Key()] = p
	return p, nil
}

func (b *wgpuRendererBackendImpl) UseShader(s shader.Shader, state FrameState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, err := b.pipelineFor(s)
	if err != nil {
		return err
	}
	frame := p.Frame()

	stale := s.States().Refresh(state.CameraState(), state.AmbientState(), state.LightingState())
	if stale.Camera {
		u := state.CameraUniform()
		b.queue.WriteBuffer(frame.Buffer(cameraBinding), 0, u.Marshal())
	}
	if stale.Ambient {
		u := state.AmbientUniform()
		b.queue.WriteBuffer(frame.Buffer(ambientBinding), 0, u.Marshal())
	}
	if stale.Lighting {
		b.queue.WriteBuffer(frame.Buffer(lightsBinding), 0, state.LightsUniform())
	}
	clip := state.ClipPlane()
	if last, ok := b.clips[s.Key()]; !ok || last != clip {
		b.clips[s.Key()] = clip
		b.queue.WriteBuffer(frame.Buffer(clipBinding), 0, common.SliceToBytes(clip[:]))
	}

	b.framePass.SetPipeline(p.Pipeline())
	b.framePass.SetBindGroup(frameGroup, frame.BindGroup(), nil)
	return nil
}

func (b *wgpuRendererBackendImpl) BindMesh(m model.Model) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	provider := m.MeshProvider()
	if provider == nil {
		vertexData, indexData := m.VertexData(), m.IndexData()
		if len(vertexData) == 0 || len(indexData) == 0 {
			return fmt.Errorf("model %q has no geometry", m.Name())
		}
		vbuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: m.Name() + " Vertex Buffer",
			Size:  uint64(len(vertexData)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		b.queue.WriteBuffer(vbuf, 0, vertexData)

		ibuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: m.Name() + " Index Buffer",
			Size:  uint64(len(indexData)),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			vbuf.Release()
			return err
		}
		b.queue.WriteBuffer(ibuf, 0, indexData)

		provider = bind_group_provider.NewBindGroupProvider(m.Name(), bind_group_provider.WithMesh(vbuf, ibuf, m.IndexCount()))
		m.SetMeshProvider(provider)
		b.models = append(b.models, m)
	}

	b.framePass.SetVertexBuffer(0, provider.VertexBuffer(), 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(provider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.indexCount = provider.IndexCount()
	return nil
}

func (b *wgpuRendererBackendImpl) BindMaterial(m material.Material) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	res := m.Resources()
	if res == nil {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: m.Name() + " Material Buffer",
			Size:  materialUniformSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  m.Name() + " Material Bind Group",
			Layout: b.materialLayout,
			Entries: []wgpu.BindGroupEntry{{
				Binding: 0,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}},
		})
		if err != nil {
			buf.Release()
			return err
		}
		res = bind_group_provider.NewBindGroupProvider(m.Name(),
			bind_group_provider.WithBindGroupLayout(b.materialLayout),
			bind_group_provider.WithBuffer(0, buf),
		)
		res.SetBindGroup(bindGroup)
		m.SetResources(res)
		b.materials = append(b.materials, m)
	}

	if v, ok := res.Uploaded(); !ok || v != m.Version() {
		u := m.Uniform()
		b.queue.WriteBuffer(res.Buffer(0), 0, u.Marshal())
		res.MarkUploaded(m.Version())
	}
	b.framePass.SetBindGroup(materialGroup, res.BindGroup(), nil)
	return nil
}

func (b *wgpuRendererBackendImpl) Draw(u ObjectUniform) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.objectCount >= b.objectCapacity {
		return ErrObjectCapacity
	}
	offset := b.objectCount * ObjectStride
	u.Marshal(b.objectStaging[offset : offset+ObjectStride])
	b.framePass.SetBindGroup(objectGroup, b.objects.BindGroup(), []uint32{uint32(offset)})
	b.framePass.DrawIndexed(uint32(b.indexCount), 1, 0, 0, 0)
	b.objectCount++
	return nil
}

func (b *wgpuRendererBackendImpl) EndPass() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Object uniforms are queued ahead of this pass's submission.
	if b.objectCount > 0 {
		b.queue.WriteBuffer(b.objects.Buffer(0), 0, b.objectStaging[:b.objectCount*ObjectStride])
	}
	b.framePass.End()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, p := range b.pipelines {
		p.Release()
		delete(b.pipelines, key)
	}
	clear(b.clips)
	for _, m := range b.materials {
		if res := m.Resources(); res != nil {
			res.Release()
			m.SetResources(nil)
		}
	}
	b.materials = nil
	for _, m := range b.models {
		if provider := m.MeshProvider(); provider != nil {
			provider.Release()
			m.SetMeshProvider(nil)
		}
	}
	b.models = nil
	if b.objects != nil {
		b.objects.Release()
		b.objects = nil
		b.objectCapacity = 0
	}
	for _, t := range b.targets {
		t.release()
	}
	b.targets = nil
	if b.surfaceTarget != nil {
		b.surfaceTarget.release()
		b.surfaceTarget = nil
	}
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}

	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
	}
	for _, l := range []*wgpu.BindGroupLayout{b.frameLayout, b.materialLayout, b.objectLayout} {
		if l != nil {
			l.Release()
		}
	}
	b.pipelineLayout, b.frameLayout, b.materialLayout, b.objectLayout = nil, nil, nil, nil

	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
