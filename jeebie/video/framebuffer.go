package video

const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

// Byte layout of a packed pixel.
const (
	BytesPerPixel = 4
	RedShift      = 24
	GreenShift    = 16
	BlueShift     = 8
	ChannelMask   = 0xFF
)

// GBColor is a packed RGBA pixel (0xRRGGBBAA).
type GBColor uint32

const (
	WhiteColor     GBColor = 0xFFFFFFFF
	LightGreyColor GBColor = 0x989898FF
	DarkGreyColor  GBColor = 0x4C4C4CFF
	BlackColor     GBColor = 0x000000FF
)

// Shades lists the four DMG colors from lightest to darkest.
var Shades = [4]GBColor{WhiteColor, LightGreyColor, DarkGreyColor, BlackColor}

// FrameBuffer holds one 160x144 frame. The presenter only ever reads the
// most recent one, so producers may reuse the same buffer.
type FrameBuffer struct {
	buffer []uint32
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		buffer: make([]uint32, FramebufferSize),
	}
}

func (fb *FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*FramebufferWidth+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, color GBColor) {
	fb.buffer[y*FramebufferWidth+x] = uint32(color)
}

// Fill sets every pixel to color.
func (fb *FrameBuffer) Fill(color GBColor) {
	for i := range fb.buffer {
		fb.buffer[i] = uint32(color)
	}
}

func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}

// Clone returns an independent copy of the frame.
func (fb *FrameBuffer) Clone() *FrameBuffer {
	out := NewFrameBuffer()
	copy(out.buffer, fb.buffer)
	return out
}

// Equal reports whether both frames hold the same pixels.
func (fb *FrameBuffer) Equal(other *FrameBuffer) bool {
	if other == nil {
		return false
	}
	for i, p := range fb.buffer {
		if other.buffer[i] != p {
			return false
		}
	}
	return true
}
