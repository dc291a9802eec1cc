// Package dynview provides a non-owning, strided view over pixel memory whose
// element type, channel count and row stride are only known at run time.
//
// A View stores a base address, a Layout and a Semantics value. Pixels are
// addressed as
//
//	base + y*StrideBytes + x*NrChannels*NrBytesPerChannel
//
// and reinterpreted as a caller-chosen Go type at the call site:
//
//	v := dynview.FromBytes(buf, dynview.PackedLayout(640, 480, 3, 1), sem)
//	px := dynview.PixelRef[[3]uint8](v, 10, 20)
//	px[0] = 0xff
//
// Whether a view may be written through is part of its type: View[Mutable]
// and View[Constant]. Every writing accessor takes a View[Mutable], so a
// View[Constant] can only be read. ConstantView converts in one direction,
// the reverse conversion does not exist.
//
// The unchecked accessors perform no bounds or type checks. Out of range
// coordinates, or a pixel type whose size differs from the layout's pixel
// size, corrupt memory. The Checked* functions validate first and report
// ErrOutOfRange or ErrPixelSize.
//
// The backing memory is owned by the caller and must stay valid for as long
// as any view or iterator over it is used. Views are plain values; no
// synchronisation is performed between views aliasing the same bytes.
package dynview

import "unsafe"

// Constant marks a read-only view.
type Constant struct{}

// Mutable marks a view that may be written through.
type Mutable struct{}

// Modifiability is the compile-time variant of a View.
type Modifiability interface {
	Constant | Mutable
}

// View aliases Layout.TotalBytes() bytes starting at its base address.
//
// The zero value is the empty view.
type View[M Modifiability] struct {
	ptr       unsafe.Pointer
	layout    Layout
	semantics Semantics
}

type (
	ConstantView = View[Constant]
	MutableView  = View[Mutable]
)

// NewConstant returns a read-only view over ptr. No validation is performed.
func NewConstant(ptr unsafe.Pointer, layout Layout, semantics Semantics) ConstantView {
	return ConstantView{ptr: ptr, layout: layout, semantics: semantics}
}

// NewMutable returns a writable view over ptr. No validation is performed.
func NewMutable(ptr unsafe.Pointer, layout Layout, semantics Semantics) MutableView {
	return MutableView{ptr: ptr, layout: layout, semantics: semantics}
}

// FromBytes returns a writable view over buf. The caller guarantees that buf
// holds at least layout.TotalBytes() bytes; FromBytesChecked verifies it.
func FromBytes(buf []byte, layout Layout, semantics Semantics) MutableView {
	return NewMutable(unsafe.Pointer(unsafe.SliceData(buf)), layout, semantics)
}

// FromConstantBytes is the read-only counterpart of FromBytes.
func FromConstantBytes(buf []byte, layout Layout, semantics Semantics) ConstantView {
	return NewConstant(unsafe.Pointer(unsafe.SliceData(buf)), layout, semantics)
}

func (v View[M]) Layout() Layout       { return v.layout }
func (v View[M]) Semantics() Semantics { return v.semantics }

func (v View[M]) Width() int               { return v.layout.Width }
func (v View[M]) Height() int              { return v.layout.Height }
func (v View[M]) NrChannels() int16        { return v.layout.NrChannels }
func (v View[M]) NrBytesPerChannel() int16 { return v.layout.NrBytesPerChannel }
func (v View[M]) NrBytesPerPixel() int     { return v.layout.NrBytesPerPixel() }
func (v View[M]) StrideBytes() int         { return v.layout.StrideBytes }
func (v View[M]) RowBytes() int            { return v.layout.RowBytes() }
func (v View[M]) TotalBytes() int          { return v.layout.TotalBytes() }

func (v View[M]) PixelFormat() PixelFormat   { return v.semantics.PixelFormat }
func (v View[M]) SampleFormat() SampleFormat { return v.semantics.SampleFormat }

// IsPacked reports whether rows follow each other without padding, i.e.
// whether the whole view can be copied as one block.
func (v View[M]) IsPacked() bool {
	return v.layout.IsPacked()
}

// IsEmpty reports whether the base address is nil or a dimension is zero.
func (v View[M]) IsEmpty() bool {
	return v.ptr == nil || v.layout.Width == 0 || v.layout.Height == 0
}

func (v View[M]) IsValid() bool {
	return !v.IsEmpty()
}

// IsModifiable reports whether v is a View[Mutable].
func (v View[M]) IsModifiable() bool {
	var m M
	_, ok := any(m).(Mutable)
	return ok
}

// Offset returns the byte offset of row y. y == Height is allowed and yields
// the offset one past the last row.
func (v View[M]) Offset(y int) int {
	return v.layout.StrideBytes * y
}

// OffsetAt returns the byte offset of pixel (x, y), for 0 <= x <= Width and
// 0 <= y <= Height.
func (v View[M]) OffsetAt(x, y int) int {
	return v.layout.StrideBytes*y + v.layout.NrBytesPerPixel()*x
}

// BytePtr returns the base address.
func (v View[M]) BytePtr() unsafe.Pointer {
	return v.ptr
}

// BytePtrRow returns the address of the first byte of row y.
//
// Go does not allow pointers one past an allocation, so y must address a
// byte inside the view; use Offset for the end-of-image position.
func (v View[M]) BytePtrRow(y int) unsafe.Pointer {
	return unsafe.Add(v.ptr, v.Offset(y))
}

// BytePtrAt returns the address of the first byte of pixel (x, y). The same
// restriction as for BytePtrRow applies.
func (v View[M]) BytePtrAt(x, y int) unsafe.Pointer {
	return unsafe.Add(v.ptr, v.OffsetAt(x, y))
}

// RowData returns the RowBytes() bytes of row y, padding excluded. The slice
// aliases the view's memory; on a View[Constant] it must not be written.
func (v View[M]) RowData(y int) []byte {
	n := v.layout.RowBytes()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(v.BytePtrRow(y)), n)
}

// Bytes returns the aliased memory from the base address to the end of the
// last row's pixels; the last row's padding is not included. For a packed
// view this is the whole image as one block.
func (v View[M]) Bytes() []byte {
	n := RequiredBytes(v.layout)
	if n == 0 || v.ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(v.ptr), n)
}

// View returns v itself.
func (v View[M]) View() View[M] {
	return v
}

// ConstantView returns a read-only view of the same memory, geometry and
// semantics. It is the only conversion between the two variants.
func (v View[M]) ConstantView() ConstantView {
	return ConstantView{ptr: v.ptr, layout: v.layout, semantics: v.semantics}
}

// Clear resets v to the empty view. The memory is left untouched. Iterators
// created from v observe the reset.
func (v *View[M]) Clear() {
	*v = View[M]{}
}
