package dynview

import (
	"fmt"
	"math"
	"math/bits"
)

// Layout describes the geometry and byte layout of a pixel buffer whose
// element type is not known at compile time.
//
// The row at y starts StrideBytes*y bytes after the base address. StrideBytes
// may include trailing padding but is never smaller than RowBytes().
type Layout struct {
	Width             int
	Height            int
	NrChannels        int16
	NrBytesPerChannel int16
	StrideBytes       int
}

func NewLayout(width, height int, nrChannels, nrBytesPerChannel int16, strideBytes int) Layout {
	return Layout{
		Width:             width,
		Height:            height,
		NrChannels:        nrChannels,
		NrBytesPerChannel: nrBytesPerChannel,
		StrideBytes:       strideBytes,
	}
}

// PackedLayout returns a layout without row padding.
func PackedLayout(width, height int, nrChannels, nrBytesPerChannel int16) Layout {
	l := Layout{
		Width:             width,
		Height:            height,
		NrChannels:        nrChannels,
		NrBytesPerChannel: nrBytesPerChannel,
	}
	l.StrideBytes = l.RowBytes()
	return l
}

func (l Layout) NrBytesPerPixel() int {
	return int(l.NrChannels) * int(l.NrBytesPerChannel)
}

// RowBytes returns the size of one row without padding.
func (l Layout) RowBytes() int {
	return l.Width * l.NrBytesPerPixel()
}

// TotalBytes returns StrideBytes*Height, padding of the last row included.
func (l Layout) TotalBytes() int {
	return l.StrideBytes * l.Height
}

func (l Layout) IsPacked() bool {
	return l.StrideBytes == l.RowBytes()
}

// Validate reports whether the layout respects its invariants. The
// accessors never call it; it is meant for the layer constructing views.
func (l Layout) Validate() error {
	switch {
	case l.Width < 0 || l.Height < 0:
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidLayout, l.Width, l.Height)
	case l.NrChannels < 0 || l.NrBytesPerChannel < 0:
		return fmt.Errorf("%w: negative pixel size %d channels x %d bytes", ErrInvalidLayout,
			l.NrChannels, l.NrBytesPerChannel)
	case mulOverflows(l.Width, l.NrBytesPerPixel()):
		return fmt.Errorf("%w: row of %d pixels x %d bytes overflows int", ErrInvalidLayout,
			l.Width, l.NrBytesPerPixel())
	case l.StrideBytes < l.RowBytes():
		return fmt.Errorf("%w: stride %d < row size %d", ErrInvalidStride, l.StrideBytes, l.RowBytes())
	case mulOverflows(l.StrideBytes, l.Height):
		return fmt.Errorf("%w: %d rows x %d bytes overflows int", ErrInvalidLayout, l.Height, l.StrideBytes)
	}
	return nil
}

// mulOverflows reports whether a*b does not fit in int. Both must be >= 0.
func mulOverflows(a, b int) bool {
	hi, lo := bits.Mul(uint(a), uint(b))
	return hi != 0 || lo > math.MaxInt
}
