package dynview

import (
	"errors"
	"fmt"
	"unsafe"
)

// Errors reported by the checked layer. The unchecked accessors never
// return errors.
var (
	// ErrOutOfRange is returned when coordinates fall outside the view.
	ErrOutOfRange = errors.New("dynview: coordinates out of range")

	// ErrPixelSize is returned when a pixel type does not match the layout's pixel size.
	ErrPixelSize = errors.New("dynview: pixel type size does not match layout")

	// ErrInvalidLayout is returned for negative sizes and sizes overflowing int.
	ErrInvalidLayout = errors.New("dynview: invalid layout")

	// ErrInvalidStride is returned when the stride is smaller than a row.
	ErrInvalidStride = errors.New("dynview: stride smaller than row size")

	// ErrBufferTooSmall is returned when a buffer cannot hold the layout.
	ErrBufferTooSmall = errors.New("dynview: buffer too small for layout")

	// ErrEmptyView is returned when pixels are requested from an empty view.
	ErrEmptyView = errors.New("dynview: empty view")

	// ErrMisaligned is returned when the base address or stride of a view
	// is not a multiple of the pixel type's alignment.
	ErrMisaligned = errors.New("dynview: pixel type misaligned for view")
)

// CheckPixelType verifies that T has the pixel size described by l.
func CheckPixelType[T any](l Layout) error {
	var p T
	if size := int(unsafe.Sizeof(p)); size != l.NrBytesPerPixel() {
		return fmt.Errorf("%w: %T is %d bytes, layout has %d", ErrPixelSize, p, size, l.NrBytesPerPixel())
	}
	return nil
}

// CheckPixelAlignment verifies that every pixel of v is addressable as a *T.
// CheckPixelType must hold as well: a matching size keeps the pixels of a
// row aligned once the row start is.
func CheckPixelAlignment[T any, M Modifiability](v View[M]) error {
	var p T
	align := uintptr(unsafe.Alignof(p))
	if addr := uintptr(v.BytePtr()); addr%align != 0 {
		return fmt.Errorf("%w: %T needs %d byte alignment, base address is %#x", ErrMisaligned, p, align, addr)
	}
	if v.Height() > 1 && uintptr(v.StrideBytes())%align != 0 {
		return fmt.Errorf("%w: %T needs %d byte alignment, stride is %d", ErrMisaligned, p, align, v.StrideBytes())
	}
	return nil
}

func checkPixelAccess[T any, M Modifiability](v View[M]) error {
	if err := CheckPixelType[T](v.Layout()); err != nil {
		return err
	}
	return CheckPixelAlignment[T](v)
}

// RequiredBytes returns the smallest buffer size able to hold l: the last
// row does not need its trailing padding.
func RequiredBytes(l Layout) int {
	if l.Height == 0 || l.Width == 0 {
		return 0
	}
	return (l.Height-1)*l.StrideBytes + l.RowBytes()
}

// FromBytesChecked is FromBytes with the layout validated against buf.
func FromBytesChecked(buf []byte, layout Layout, semantics Semantics) (MutableView, error) {
	if err := layout.Validate(); err != nil {
		return MutableView{}, err
	}
	if need := RequiredBytes(layout); len(buf) < need {
		return MutableView{}, fmt.Errorf("%w: have %d bytes, need %d", ErrBufferTooSmall, len(buf), need)
	}
	return FromBytes(buf, layout, semantics), nil
}

func checkPoint[M Modifiability](v View[M], x, y int) error {
	if v.IsEmpty() {
		return ErrEmptyView
	}
	if x < 0 || x >= v.Width() || y < 0 || y >= v.Height() {
		return fmt.Errorf("%w: (%d, %d) not in %dx%d", ErrOutOfRange, x, y, v.Width(), v.Height())
	}
	return nil
}

func checkRow[M Modifiability](v View[M], y int) error {
	if v.IsEmpty() {
		return ErrEmptyView
	}
	if y < 0 || y >= v.Height() {
		return fmt.Errorf("%w: row %d not in [0, %d)", ErrOutOfRange, y, v.Height())
	}
	return nil
}

// CheckedBytePtrAt is BytePtrAt with bounds validation.
func CheckedBytePtrAt[M Modifiability](v View[M], x, y int) (unsafe.Pointer, error) {
	if err := checkPoint(v, x, y); err != nil {
		return nil, err
	}
	return v.BytePtrAt(x, y), nil
}

// CheckedPixel is Pixel with bounds, pixel size and alignment validation.
func CheckedPixel[T any, M Modifiability](v View[M], x, y int) (T, error) {
	var zero T
	if err := checkPoint(v, x, y); err != nil {
		return zero, err
	}
	if err := checkPixelAccess[T](v); err != nil {
		return zero, err
	}
	return Pixel[T](v, x, y), nil
}

// CheckedPixelRef is PixelRef with bounds, pixel size and alignment validation.
func CheckedPixelRef[T any](v MutableView, x, y int) (*T, error) {
	if err := checkPoint(v, x, y); err != nil {
		return nil, err
	}
	if err := checkPixelAccess[T](v); err != nil {
		return nil, err
	}
	return PixelRef[T](v, x, y), nil
}

// CheckedRowSlice is RowSlice with bounds, pixel size and alignment validation.
func CheckedRowSlice[T any](v MutableView, y int) ([]T, error) {
	if err := checkRow(v, y); err != nil {
		return nil, err
	}
	if err := checkPixelAccess[T](v); err != nil {
		return nil, err
	}
	return RowSlice[T](v, y), nil
}
