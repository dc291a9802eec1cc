// Package dynimage provides an owning pixel buffer whose layout is chosen at
// run time. All pixel access goes through dynview views.
package dynimage

import (
	"errors"
	"fmt"
	"math/bits"

	"pixview/dynview"
)

var (
	// ErrInvalidAlignment is returned when a row alignment is not a power of two.
	ErrInvalidAlignment = errors.New("dynimage: alignment must be a power of two")

	// ErrGeometryMismatch is returned when two views of different geometry are combined.
	ErrGeometryMismatch = errors.New("dynimage: view geometry mismatch")
)

// Image owns the memory its views alias. Views obtained from an Image stay
// valid as long as the Image is reachable and not reset.
type Image struct {
	data      []byte
	layout    dynview.Layout
	semantics dynview.Semantics
}

// New allocates layout.TotalBytes() zeroed bytes.
func New(layout dynview.Layout, semantics dynview.Semantics) (*Image, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Image{
		data:      make([]byte, layout.TotalBytes()),
		layout:    layout,
		semantics: semantics,
	}, nil
}

// FromBytes takes ownership of buf, which must hold layout.TotalBytes() bytes.
func FromBytes(buf []byte, layout dynview.Layout, semantics dynview.Semantics) (*Image, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if len(buf) < layout.TotalBytes() {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", dynview.ErrBufferTooSmall, len(buf), layout.TotalBytes())
	}
	return &Image{data: buf[:layout.TotalBytes()], layout: layout, semantics: semantics}, nil
}

// NewAligned allocates an image whose stride is the row size rounded up to a
// multiple of align bytes. An align of 0 or 1 gives a packed image.
func NewAligned(width, height int, nrChannels, nrBytesPerChannel int16, align int,
	semantics dynview.Semantics,
) (*Image, error) {
	layout := dynview.PackedLayout(width, height, nrChannels, nrBytesPerChannel)
	stride, err := AlignStride(layout.RowBytes(), align)
	if err != nil {
		return nil, err
	}
	layout.StrideBytes = stride
	return New(layout, semantics)
}

// AlignStride rounds rowBytes up to a multiple of align.
func AlignStride(rowBytes, align int) (int, error) {
	switch {
	case align <= 1:
		return rowBytes, nil
	case bits.OnesCount(uint(align)) != 1:
		return 0, fmt.Errorf("%w: %d", ErrInvalidAlignment, align)
	}
	return (rowBytes + align - 1) &^ (align - 1), nil
}

func (im *Image) Layout() dynview.Layout       { return im.layout }
func (im *Image) Semantics() dynview.Semantics { return im.semantics }
func (im *Image) Width() int                   { return im.layout.Width }
func (im *Image) Height() int                  { return im.layout.Height }

// Bytes returns the whole buffer, row padding included.
func (im *Image) Bytes() []byte { return im.data }

func (im *Image) IsEmpty() bool {
	return len(im.data) == 0 || im.layout.Width == 0 || im.layout.Height == 0
}

// View returns a writable view of the image.
func (im *Image) View() dynview.MutableView {
	if len(im.data) == 0 {
		return dynview.NewMutable(nil, im.layout, im.semantics)
	}
	return dynview.FromBytes(im.data, im.layout, im.semantics)
}

// ConstantView returns a read-only view of the image.
func (im *Image) ConstantView() dynview.ConstantView {
	return im.View().ConstantView()
}

// Reset releases the buffer and returns the image to its zero state.
func (im *Image) Reset() {
	*im = Image{}
}

// Copy copies the RowBytes() bytes of every row of src into dst. Both views
// must have the same width, height and row size; padding is not touched.
func Copy[M dynview.Modifiability](dst dynview.MutableView, src dynview.View[M]) error {
	if dst.Width() != src.Width() || dst.Height() != src.Height() || dst.RowBytes() != src.RowBytes() {
		return fmt.Errorf("%w: %dx%d (%d bytes/row) into %dx%d (%d bytes/row)", ErrGeometryMismatch,
			src.Width(), src.Height(), src.RowBytes(), dst.Width(), dst.Height(), dst.RowBytes())
	}
	if dst.IsEmpty() || src.IsEmpty() {
		return nil
	}
	if dst.IsPacked() && src.IsPacked() {
		copy(dst.Bytes(), src.Bytes())
		return nil
	}
	for y := range src.Height() {
		copy(dst.RowData(y), src.RowData(y))
	}
	return nil
}

// Clone copies src into a newly allocated image with the same semantics and
// a stride aligned to align bytes.
func Clone[M dynview.Modifiability](src dynview.View[M], align int) (*Image, error) {
	l := src.Layout()
	im, err := NewAligned(l.Width, l.Height, l.NrChannels, l.NrBytesPerChannel, align, src.Semantics())
	if err != nil {
		return nil, err
	}
	if err := Copy(im.View(), src); err != nil {
		return nil, err
	}
	return im, nil
}
