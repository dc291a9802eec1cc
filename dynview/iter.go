package dynview

import (
	"image"
	"iter"
)

// Row is a handle on one row of a view, addressable as Len() pixels of
// type T. It refers to the view, so clearing or reassigning the view
// invalidates it.
type Row[T any, M Modifiability] struct {
	view *View[M]
	y    int
}

func (r Row[T, M]) Index() int { return r.y }
func (r Row[T, M]) Len() int   { return r.view.layout.Width }

// At returns a copy of the pixel at column x.
func (r Row[T, M]) At(x int) T {
	return Pixel[T](*r.view, x, r.y)
}

// Bytes returns the row's bytes without padding.
func (r Row[T, M]) Bytes() []byte {
	return r.view.RowData(r.y)
}

func (r Row[T, M]) Begin() PixelIterator[T, M] {
	return PixelIterator[T, M]{row: r}
}

// End returns the position one past the last pixel. It must not be
// dereferenced.
func (r Row[T, M]) End() PixelIterator[T, M] {
	return PixelIterator[T, M]{row: r, x: r.Len()}
}

// All yields every pixel of the row with its column.
func (r Row[T, M]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for it, end := r.Begin(), r.End(); it.Less(end); it.Next() {
			if !yield(it.Index(), it.Value()) {
				return
			}
		}
	}
}

// RowPixels returns the pixels of a writable row as a slice aliasing the view.
func RowPixels[T any](r Row[T, Mutable]) []T {
	return RowSlice[T](*r.view, r.y)
}

func SetAt[T any](r Row[T, Mutable], x int, p T) {
	SetPixel(*r.view, x, r.y, p)
}

// RowIterator walks the rows of a view by index. Begin is row 0, End is row
// Height. Moving past End or dereferencing it is not checked.
//
// Comparing iterators of different views is meaningless.
type RowIterator[T any, M Modifiability] struct {
	view *View[M]
	y    int
}

func Begin[T any, M Modifiability](v *View[M]) RowIterator[T, M] {
	return RowIterator[T, M]{view: v}
}

func End[T any, M Modifiability](v *View[M]) RowIterator[T, M] {
	return RowIterator[T, M]{view: v, y: v.layout.Height}
}

func (it RowIterator[T, M]) Index() int { return it.y }

// Row dereferences the iterator.
func (it RowIterator[T, M]) Row() Row[T, M] {
	return Row[T, M]{view: it.view, y: it.y}
}

func (it *RowIterator[T, M]) Next()         { it.y++ }
func (it *RowIterator[T, M]) Prev()         { it.y-- }
func (it *RowIterator[T, M]) Advance(n int) { it.y += n }

// Offset returns a copy of it moved by n rows.
func (it RowIterator[T, M]) Offset(n int) RowIterator[T, M] {
	it.y += n
	return it
}

// Distance returns the number of rows from it to o.
func (it RowIterator[T, M]) Distance(o RowIterator[T, M]) int { return o.y - it.y }

func (it RowIterator[T, M]) Equal(o RowIterator[T, M]) bool { return it.y == o.y }
func (it RowIterator[T, M]) Less(o RowIterator[T, M]) bool  { return it.y < o.y }

// PixelIterator walks the pixels of one row. End is column Len().
type PixelIterator[T any, M Modifiability] struct {
	row Row[T, M]
	x   int
}

func (it PixelIterator[T, M]) Index() int { return it.x }

// Value dereferences the iterator.
func (it PixelIterator[T, M]) Value() T {
	return it.row.At(it.x)
}

func (it *PixelIterator[T, M]) Next()         { it.x++ }
func (it *PixelIterator[T, M]) Prev()         { it.x-- }
func (it *PixelIterator[T, M]) Advance(n int) { it.x += n }

func (it PixelIterator[T, M]) Offset(n int) PixelIterator[T, M] {
	it.x += n
	return it
}

func (it PixelIterator[T, M]) Distance(o PixelIterator[T, M]) int { return o.x - it.x }

func (it PixelIterator[T, M]) Equal(o PixelIterator[T, M]) bool { return it.x == o.x }
func (it PixelIterator[T, M]) Less(o PixelIterator[T, M]) bool  { return it.x < o.x }

// Ref returns a writable reference to the pixel under a mutable iterator.
func Ref[T any](it PixelIterator[T, Mutable]) *T {
	return DataAt[T](*it.row.view, it.x, it.row.y)
}

// Rows yields every row of v in order. Each call starts from row 0.
func Rows[T any, M Modifiability](v *View[M]) iter.Seq2[int, Row[T, M]] {
	return func(yield func(int, Row[T, M]) bool) {
		for it, end := Begin[T](v), End[T](v); it.Less(end); it.Next() {
			if !yield(it.Index(), it.Row()) {
				return
			}
		}
	}
}

// Pixels yields every pixel of v in row-major order with its coordinates.
func Pixels[T any, M Modifiability](v *View[M]) iter.Seq2[image.Point, T] {
	return func(yield func(image.Point, T) bool) {
		for y, row := range Rows[T](v) {
			for x, p := range row.All() {
				if !yield(image.Pt(x, y), p) {
					return
				}
			}
		}
	}
}
