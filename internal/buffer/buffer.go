// Package buffer holds the raw pixel data every other engine component
// operates on: a rectangular grid of 8-bit samples, row-major, with a
// fixed channel count of 3 (RGB) or 4 (RGBA).
package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch reports construction with inconsistent
	// dimensions and sample data.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrOutOfBounds reports explicit pixel access outside the buffer extent.
	ErrOutOfBounds = errors.New("out of bounds")
)

// Rect is a sub-rectangle of a buffer in pixel coordinates.
type Rect struct {
	X, Y, W, H int
}

// Bounds returns the full-extent rectangle of a w by h buffer.
func Bounds(w, h int) Rect {
	return Rect{X: 0, Y: 0, W: w, H: h}
}

// Grow expands the rectangle by margin pixels on every side.
func (r Rect) Grow(margin int) Rect {
	return Rect{X: r.X - margin, Y: r.Y - margin, W: r.W + 2*margin, H: r.H + 2*margin}
}

// Clip intersects the rectangle with a w by h extent anchored at the origin.
func (r Rect) Clip(w, h int) Rect {
	x0 := max(r.X, 0)
	y0 := max(r.Y, 0)
	x1 := min(r.X+r.W, w)
	y1 := min(r.Y+r.H, h)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Buffer owns a grid of Width by Height pixels with Channels samples each.
// Dimensions are immutable after construction; the invariant
// len(Pix) == Width*Height*Channels always holds.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// New constructs a buffer around existing sample data. The data length must
// equal width*height*channels and channels must be 3 or 4.
func New(width, height, channels int, pix []uint8) (*Buffer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: non-positive dimensions %dx%d", ErrDimensionMismatch, width, height)
	}
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("%w: unsupported channel count %d", ErrDimensionMismatch, channels)
	}
	if len(pix) != width*height*channels {
		return nil, fmt.Errorf("%w: %d samples for %dx%dx%d", ErrDimensionMismatch, len(pix), width, height, channels)
	}
	return &Buffer{Width: width, Height: height, Channels: channels, Pix: pix}, nil
}

// NewEmpty allocates a zeroed buffer of the given shape.
func NewEmpty(width, height, channels int) (*Buffer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: non-positive dimensions %dx%d", ErrDimensionMismatch, width, height)
	}
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("%w: unsupported channel count %d", ErrDimensionMismatch, channels)
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// NewLike allocates a zeroed buffer with the same shape as src.
func NewLike(src *Buffer) *Buffer {
	return &Buffer{
		Width:    src.Width,
		Height:   src.Height,
		Channels: src.Channels,
		Pix:      make([]uint8, len(src.Pix)),
	}
}

// Clone returns an independent copy.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Channels: b.Channels, Pix: pix}
}

// Offset returns the index of the first sample of pixel (x, y).
// Callers are responsible for bounds.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * b.Channels
}

// At returns a copy of the channel values of pixel (x, y).
func (b *Buffer) At(x, y int) ([]uint8, error) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return nil, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, b.Width, b.Height)
	}
	off := b.Offset(x, y)
	px := make([]uint8, b.Channels)
	copy(px, b.Pix[off:off+b.Channels])
	return px, nil
}

// Set writes the channel values of pixel (x, y).
func (b *Buffer) Set(x, y int, px []uint8) error {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, b.Width, b.Height)
	}
	if len(px) != b.Channels {
		return fmt.Errorf("%w: %d channel values for %d channels", ErrDimensionMismatch, len(px), b.Channels)
	}
	copy(b.Pix[b.Offset(x, y):], px)
	return nil
}

// Sample reads channel c of pixel (x, y) with border replication: out-of-range
// coordinates clamp to the nearest valid pixel. Kernel interiors use this for
// every neighbor read so edge handling never fails mid-computation.
func (b *Buffer) Sample(x, y, c int) uint8 {
	if x < 0 {
		x = 0
	} else if x >= b.Width {
		x = b.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= b.Height {
		y = b.Height - 1
	}
	return b.Pix[(y*b.Width+x)*b.Channels+c]
}

// SubRect copies rect into a standalone buffer. rect must lie inside the
// extent; clip before extracting. The copy holds only real pixels, so a
// sub-buffer edge that coincides with the source edge clamps exactly like
// the source does there, and nowhere else.
func (b *Buffer) SubRect(rect Rect) *Buffer {
	out := &Buffer{
		Width:    rect.W,
		Height:   rect.H,
		Channels: b.Channels,
		Pix:      make([]uint8, rect.W*rect.H*b.Channels),
	}
	rowLen := rect.W * b.Channels
	for row := 0; row < rect.H; row++ {
		srcOff := b.Offset(rect.X, rect.Y+row)
		copy(out.Pix[row*rowLen:(row+1)*rowLen], b.Pix[srcOff:srcOff+rowLen])
	}
	return out
}

// CopyRect copies srcRect from src into this buffer at (dstX, dstY).
// The regions must lie inside their respective buffers and the channel
// counts must match; the scheduler guarantees both.
func (b *Buffer) CopyRect(src *Buffer, srcRect Rect, dstX, dstY int) {
	rowLen := srcRect.W * b.Channels
	for row := 0; row < srcRect.H; row++ {
		srcOff := src.Offset(srcRect.X, srcRect.Y+row)
		dstOff := b.Offset(dstX, dstY+row)
		copy(b.Pix[dstOff:dstOff+rowLen], src.Pix[srcOff:srcOff+rowLen])
	}
}

// Equal reports whether two buffers have identical shape and samples.
func Equal(a, b *Buffer) bool {
	if a.Width != b.Width || a.Height != b.Height || a.Channels != b.Channels {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}
