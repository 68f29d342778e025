package video

// Color is a packed 0xAARRGGBB pixel.
type Color uint32

const (
	WhiteColor     Color = 0xFFFFFFFF
	LightGreyColor Color = 0xFF989898
	DarkGreyColor  Color = 0xFF4C4C4C
	BlackColor     Color = 0xFF000000
)

// Shades lists the palette from darkest to lightest.
var Shades = [4]Color{BlackColor, DarkGreyColor, LightGreyColor, WhiteColor}

const (
	// DefaultWidth and DefaultHeight size the pipeline's default framebuffer.
	DefaultWidth  = 160
	DefaultHeight = 144
)

// FrameBuffer is a render destination. Cameras without an off-screen target
// draw into the pipeline's default framebuffer.
type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint32
	frames uint64
}

// NewFrameBuffer creates a frame buffer with the specified size.
func NewFrameBuffer(width, height uint) *FrameBuffer {
	colorSlice := make([]uint32, width*height)

	return &FrameBuffer{
		width:  width,
		height: height,
		buffer: colorSlice,
	}
}

func (fb *FrameBuffer) Width() uint  { return fb.width }
func (fb *FrameBuffer) Height() uint { return fb.height }

func (fb *FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, color Color) {
	fb.buffer[y*fb.width+x] = uint32(color)
}

// Fill sets every pixel to color.
func (fb *FrameBuffer) Fill(color Color) {
	for i := range fb.buffer {
		fb.buffer[i] = uint32(color)
	}
}

func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}

// Frames returns how many times the buffer has been drawn into.
func (fb *FrameBuffer) Frames() uint64 {
	return fb.frames
}

// Present marks the end of a draw into the buffer.
func (fb *FrameBuffer) Present() {
	fb.frames++
}
