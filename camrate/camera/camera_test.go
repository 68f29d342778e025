package camera_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-camrate/camrate/camera"
	"github.com/valerio/go-camrate/camrate/video"
)

type plainCamera struct{ enabled bool }

func (p *plainCamera) RenderingEnabled() bool            { return p.enabled }
func (p *plainCamera) SetRenderingEnabled(enabled bool)  { p.enabled = enabled }
func (p *plainCamera) RenderTarget() *video.FrameBuffer { return nil }

func TestValid(t *testing.T) {
	t.Run("nil camera", func(t *testing.T) {
		assert.False(t, camera.Valid(nil))
	})

	t.Run("camera without destroy support", func(t *testing.T) {
		assert.True(t, camera.Valid(&plainCamera{}))
	})

	t.Run("destroyed virtual camera", func(t *testing.T) {
		v := camera.NewVirtual("main", nil, video.Checkerboard)
		assert.True(t, camera.Valid(v))
		v.Destroy()
		assert.False(t, camera.Valid(v))
	})
}

func TestVirtualCamera(t *testing.T) {
	target := video.NewFrameBuffer(16, 16)
	v := camera.NewVirtual("minimap", target, video.Stripes)

	assert.Equal(t, "minimap", v.Name())
	assert.True(t, v.RenderingEnabled(), "cameras start rendering continuously")
	assert.Same(t, target, v.RenderTarget())

	v.SetRenderingEnabled(false)
	assert.False(t, v.RenderingEnabled())

	v.Draw(target)
	v.Draw(target)
	assert.Equal(t, uint64(2), v.Frames())
	assert.Equal(t, uint64(2), target.Frames())
}

func TestVirtualSetScene(t *testing.T) {
	target := video.NewFrameBuffer(16, 16)
	cam := camera.NewVirtual("minimap", target, video.Checkerboard)
	assert.Equal(t, video.Checkerboard, cam.Scene())

	cam.SetScene(video.Stripes)
	assert.Equal(t, video.Stripes, cam.Scene())

	cam.Draw(target)
	want := video.NewFrameBuffer(16, 16)
	video.Stripes.Draw(want, 1)
	assert.Equal(t, want.ToSlice(), target.ToSlice())
}
