package dynview

import "unsafe"

// The functions below reinterpret view memory as the pixel type T chosen by
// the caller. By choosing T the caller asserts that unsafe.Sizeof(T) equals
// NrBytesPerPixel() and that T's field order matches the channel order;
// CheckPixelType verifies the size. T must also be aligned for the view's base
// address and stride, which CheckPixelAlignment verifies.

// Pixel returns a copy of pixel (x, y). It works on both variants.
func Pixel[T any, M Modifiability](v View[M], x, y int) T {
	return *(*T)(v.BytePtrAt(x, y))
}

// AppendRow appends the Width pixels of row y to dst.
func AppendRow[T any, M Modifiability](dst []T, v View[M], y int) []T {
	w := v.layout.Width
	if w == 0 {
		return dst
	}
	return append(dst, unsafe.Slice((*T)(v.BytePtrRow(y)), w)...)
}

// RowValues returns a copy of row y.
func RowValues[T any, M Modifiability](v View[M], y int) []T {
	return AppendRow(make([]T, 0, v.layout.Width), v, y)
}

// Data returns the base address as *T.
func Data[T any](v MutableView) *T {
	return (*T)(v.ptr)
}

// DataRow returns the address of the first pixel of row y.
func DataRow[T any](v MutableView, y int) *T {
	return (*T)(v.BytePtrRow(y))
}

// DataAt returns the address of pixel (x, y).
func DataAt[T any](v MutableView, x, y int) *T {
	return (*T)(v.BytePtrAt(x, y))
}

// PixelRef returns a reference to pixel (x, y) through which it can be
// modified.
func PixelRef[T any](v MutableView, x, y int) *T {
	return DataAt[T](v, x, y)
}

func SetPixel[T any](v MutableView, x, y int, p T) {
	*DataAt[T](v, x, y) = p
}

// RowSlice returns row y as a slice of Width pixels aliasing the view.
func RowSlice[T any](v MutableView, y int) []T {
	w := v.layout.Width
	if w == 0 {
		return nil
	}
	return unsafe.Slice(DataRow[T](v, y), w)
}

// Zero sets the RowBytes() bytes of every row to zero. Row padding is left
// as is.
func Zero(v MutableView) {
	for y := range v.layout.Height {
		clear(v.RowData(y))
	}
}
