package dynview

import "bytes"

// Equal reports whether a and b hold the same raw content.
//
// Two views that both have a zero width or height are equal. Otherwise the
// widths, heights and row sizes must match and every row must hold the same
// RowBytes() bytes; row padding is never compared. How a pixel splits into
// channels and the semantics are not compared, so identical bytes declared
// as RGBA8 and as YA16 are equal. Use EqualSemantics to include them.
func Equal[M0, M1 Modifiability](a View[M0], b View[M1]) bool {
	if (a.Width() == 0 || a.Height() == 0) && (b.Width() == 0 || b.Height() == 0) {
		return true
	}
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	if a.RowBytes() != b.RowBytes() {
		return false
	}
	for y := range a.Height() {
		if !bytes.Equal(a.RowData(y), b.RowData(y)) {
			return false
		}
	}
	return true
}

// EqualSemantics is Equal with the declared pixel layout and semantics
// required to match as well.
func EqualSemantics[M0, M1 Modifiability](a View[M0], b View[M1]) bool {
	if a.NrChannels() != b.NrChannels() ||
		a.NrBytesPerChannel() != b.NrBytesPerChannel() ||
		a.Semantics() != b.Semantics() {
		return false
	}
	return Equal(a, b)
}
