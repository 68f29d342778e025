package camera

import (
	"sync"

	"github.com/valerio/go-camrate/camrate/video"
)

// Virtual is a software camera. Like a freshly created engine camera it
// starts with continuous rendering enabled.
type Virtual struct {
	mu        sync.Mutex
	name      string
	enabled   bool
	destroyed bool
	target    *video.FrameBuffer
	scene     video.Pattern
	frames    uint64
}

// NewVirtual creates a camera drawing scene into target (nil for the
// default framebuffer).
func NewVirtual(name string, target *video.FrameBuffer, scene video.Pattern) *Virtual {
	return &Virtual{
		name:    name,
		enabled: true,
		target:  target,
		scene:   scene,
	}
}

func (v *Virtual) Name() string { return v.name }

func (v *Virtual) RenderingEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.enabled
}

func (v *Virtual) SetRenderingEnabled(enabled bool) {
	v.mu.Lock()
	v.enabled = enabled
	v.mu.Unlock()
}

func (v *Virtual) RenderTarget() *video.FrameBuffer {
	return v.target
}

// Draw renders the camera's scene into dst and counts the frame.
func (v *Virtual) Draw(dst *video.FrameBuffer) {
	v.mu.Lock()
	v.frames++
	frame := v.frames
	scene := v.scene
	v.mu.Unlock()

	scene.Draw(dst, frame)
}

func (v *Virtual) Scene() video.Pattern {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scene
}

// SetScene switches what the camera draws from its next frame on.
func (v *Virtual) SetScene(scene video.Pattern) {
	v.mu.Lock()
	v.scene = scene
	v.mu.Unlock()
}

// Frames returns how many times the camera has been drawn.
func (v *Virtual) Frames() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frames
}

// Destroy invalidates the camera. Holders are expected to check Valid.
func (v *Virtual) Destroy() {
	v.mu.Lock()
	v.destroyed = true
	v.mu.Unlock()
}

func (v *Virtual) Destroyed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.destroyed
}

var (
	_ Camera      = (*Virtual)(nil)
	_ Destroyable = (*Virtual)(nil)
)
