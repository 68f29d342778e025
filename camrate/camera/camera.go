// Package camera describes the slice of a host camera that a render gate
// touches: its continuous-rendering flag and its render target.
package camera

import "github.com/valerio/go-camrate/camrate/video"

// Camera is the capability set consumed by render gates.
type Camera interface {
	// RenderingEnabled reports whether the host renders this camera on
	// every tick by itself.
	RenderingEnabled() bool
	SetRenderingEnabled(enabled bool)

	// RenderTarget is the camera's off-screen destination. Nil means the
	// default framebuffer.
	RenderTarget() *video.FrameBuffer
}

// Destroyable is implemented by cameras whose host object can go away while
// something still holds a reference to it.
type Destroyable interface {
	Destroyed() bool
}

// Valid reports whether c may still be used.
func Valid(c Camera) bool {
	if c == nil {
		return false
	}
	if d, ok := c.(Destroyable); ok {
		return !d.Destroyed()
	}
	return true
}
