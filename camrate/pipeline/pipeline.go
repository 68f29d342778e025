// Package pipeline is the host render pipeline seen by render gates: a
// capability query plus a synchronous render-to-destination request.
package pipeline

import (
	"github.com/valerio/go-camrate/camrate/camera"
	"github.com/valerio/go-camrate/camrate/video"
)

// Request is a standard synchronous render request.
type Request struct {
	// Destination receives the rendered image. Nil means the default
	// framebuffer.
	Destination *video.FrameBuffer
}

func NewStandardRequest() *Request {
	return &Request{}
}

// Pipeline renders cameras on demand.
type Pipeline interface {
	// SupportsRequest reports whether req can be submitted for cam. It is a
	// capability query with no side effects.
	SupportsRequest(cam camera.Camera, req *Request) bool

	// SubmitRequest renders cam once into req.Destination before returning.
	SubmitRequest(cam camera.Camera, req *Request)
}
