package pipeline

import (
	"log/slog"
	"sync"

	"github.com/valerio/go-camrate/camrate/camera"
	"github.com/valerio/go-camrate/camrate/video"
)

// Drawer is a camera the software pipeline knows how to render.
type Drawer interface {
	camera.Camera
	Draw(dst *video.FrameBuffer)
}

// Software is a CPU pipeline that draws Drawer cameras into framebuffers.
type Software struct {
	mu         sync.Mutex
	defaultFB  *video.FrameBuffer
	submitted  uint64
	rejected   uint64
	continuous uint64
}

// NewSoftware creates a pipeline whose default framebuffer is width x height.
func NewSoftware(width, height uint) *Software {
	return &Software{
		defaultFB: video.NewFrameBuffer(width, height),
	}
}

// DefaultFramebuffer is where cameras without a target end up.
func (s *Software) DefaultFramebuffer() *video.FrameBuffer {
	return s.defaultFB
}

func (s *Software) SupportsRequest(cam camera.Camera, req *Request) bool {
	if req == nil || !camera.Valid(cam) {
		return false
	}
	_, ok := cam.(Drawer)
	return ok
}

func (s *Software) SubmitRequest(cam camera.Camera, req *Request) {
	if !s.SupportsRequest(cam, req) {
		s.mu.Lock()
		s.rejected++
		s.mu.Unlock()
		slog.Debug("Render request rejected", "camera", cameraName(cam))
		return
	}

	s.draw(cam.(Drawer), req.Destination)

	s.mu.Lock()
	s.submitted++
	s.mu.Unlock()
}

// RenderContinuous is the host's own per-tick pass: every valid camera with
// continuous rendering enabled is drawn once into its target. It returns the
// number of cameras drawn.
func (s *Software) RenderContinuous(cams ...camera.Camera) int {
	drawn := 0
	for _, cam := range cams {
		if !camera.Valid(cam) || !cam.RenderingEnabled() {
			continue
		}
		d, ok := cam.(Drawer)
		if !ok {
			continue
		}
		s.draw(d, cam.RenderTarget())
		drawn++
	}

	s.mu.Lock()
	s.continuous += uint64(drawn)
	s.mu.Unlock()

	return drawn
}

func (s *Software) draw(d Drawer, dst *video.FrameBuffer) {
	if dst == nil {
		dst = s.defaultFB
	}
	d.Draw(dst)
}

// Submitted returns the number of on-demand requests rendered.
func (s *Software) Submitted() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// Rejected returns the number of submissions refused as unsupported.
func (s *Software) Rejected() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rejected
}

// ContinuousFrames returns the number of frames drawn by RenderContinuous.
func (s *Software) ContinuousFrames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.continuous
}

func cameraName(cam camera.Camera) string {
	if n, ok := cam.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "unnamed"
}

var _ Pipeline = (*Software)(nil)
