package dynimage

import (
	"errors"
	"testing"

	"pixview/dynview"

	"github.com/google/go-cmp/cmp"
)

var graySemantics = dynview.NewSemantics(dynview.PixelFormatY, dynview.SampleFormatUnsignedInteger)

func TestAlignStride(t *testing.T) {
	tests := []struct {
		rowBytes, align int
		want            int
		wantErr         error
	}{
		{12, 0, 12, nil},
		{12, 1, 12, nil},
		{12, 4, 12, nil},
		{12, 16, 16, nil},
		{17, 8, 24, nil},
		{0, 64, 0, nil},
		{12, 12, 0, ErrInvalidAlignment},
	}
	for _, tt := range tests {
		got, err := AlignStride(tt.rowBytes, tt.align)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("AlignStride(%d, %d) error = %v, wantErr %v", tt.rowBytes, tt.align, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("AlignStride(%d, %d) = %d, want %d", tt.rowBytes, tt.align, got, tt.want)
		}
	}
}

func TestNewAligned(t *testing.T) {
	im, err := NewAligned(5, 3, 3, 1, 16, graySemantics)
	if err != nil {
		t.Fatalf("NewAligned() error = %v", err)
	}
	want := dynview.NewLayout(5, 3, 3, 1, 16)
	if diff := cmp.Diff(want, im.Layout()); diff != "" {
		t.Errorf("Layout() mismatch (-want +got):\n%s", diff)
	}
	if len(im.Bytes()) != 48 {
		t.Errorf("len(Bytes()) = %d, want 48", len(im.Bytes()))
	}
	v := im.View()
	if v.IsEmpty() || v.IsPacked() {
		t.Errorf("view empty = %v, packed = %v", v.IsEmpty(), v.IsPacked())
	}

	if _, err := NewAligned(5, 3, 3, 1, 6, graySemantics); !errors.Is(err, ErrInvalidAlignment) {
		t.Errorf("NewAligned(align 6) error = %v, want ErrInvalidAlignment", err)
	}
	if _, err := New(dynview.NewLayout(5, 3, 3, 1, 2), graySemantics); !errors.Is(err, dynview.ErrInvalidStride) {
		t.Errorf("New(short stride) error = %v, want dynview.ErrInvalidStride", err)
	}
	if _, err := New(dynview.PackedLayout(1<<30, 1<<30, 4, 4), graySemantics); !errors.Is(err, dynview.ErrInvalidLayout) {
		t.Errorf("New(wrapping size) error = %v, want dynview.ErrInvalidLayout", err)
	}
}

func TestViewsAliasImage(t *testing.T) {
	im, err := New(dynview.PackedLayout(4, 4, 1, 1), graySemantics)
	if err != nil {
		t.Fatal(err)
	}

	dynview.SetPixel[uint8](im.View(), 2, 3, 0x80)
	if got := dynview.Pixel[uint8](im.ConstantView(), 2, 3); got != 0x80 {
		t.Errorf("Pixel(2, 3) = %#x, want 0x80", got)
	}
	if im.Bytes()[3*4+2] != 0x80 {
		t.Error("write did not reach the image buffer")
	}

	im.Reset()
	if !im.IsEmpty() || !im.View().IsEmpty() {
		t.Error("Reset() image is not empty")
	}
}

func fillGradient(v dynview.MutableView) {
	for y := range v.Height() {
		row := v.RowData(y)
		for i := range row {
			row[i] = byte(y*31 + i)
		}
	}
}

func TestCopyAndClone(t *testing.T) {
	src, err := NewAligned(7, 5, 2, 1, 32, graySemantics)
	if err != nil {
		t.Fatal(err)
	}
	fillGradient(src.View())

	for _, align := range []int{0, 4, 64} {
		dst, err := Clone(src.ConstantView(), align)
		if err != nil {
			t.Fatalf("Clone(align %d) error = %v", align, err)
		}
		if !dynview.EqualSemantics(src.View(), dst.View()) {
			t.Errorf("Clone(align %d) content differs", align)
		}
		if align == 0 && !dst.View().IsPacked() {
			t.Error("Clone(align 0) is not packed")
		}
	}

	packed, _ := New(dynview.PackedLayout(7, 5, 2, 1), graySemantics)
	fillGradient(packed.View())
	other, _ := New(dynview.PackedLayout(7, 5, 2, 1), graySemantics)
	if err := Copy(other.View(), packed.View()); err != nil {
		t.Fatalf("Copy(packed) error = %v", err)
	}
	if diff := cmp.Diff(packed.Bytes(), other.Bytes()); diff != "" {
		t.Errorf("packed Copy mismatch (-want +got):\n%s", diff)
	}

	wrong, _ := New(dynview.PackedLayout(7, 4, 2, 1), graySemantics)
	if err := Copy(wrong.View(), src.View()); !errors.Is(err, ErrGeometryMismatch) {
		t.Errorf("Copy(wrong size) error = %v, want ErrGeometryMismatch", err)
	}
}

func TestCopyLeavesPadding(t *testing.T) {
	src, _ := New(dynview.PackedLayout(3, 2, 1, 1), graySemantics)
	fillGradient(src.View())
	dst, _ := New(dynview.NewLayout(3, 2, 1, 1, 8), graySemantics)
	for i := range dst.Bytes() {
		dst.Bytes()[i] = 0xAA
	}

	if err := Copy(dst.View(), src.ConstantView()); err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 1, 2, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 31, 32, 33, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA}
	if diff := cmp.Diff(want, dst.Bytes()); diff != "" {
		t.Errorf("Copy() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromBytes(t *testing.T) {
	buf := make([]byte, 20)
	im, err := FromBytes(buf, dynview.NewLayout(3, 2, 1, 1, 8), graySemantics)
	if err != nil {
		t.Fatal(err)
	}
	if len(im.Bytes()) != 16 {
		t.Errorf("len(Bytes()) = %d, want 16", len(im.Bytes()))
	}
	dynview.SetPixel[uint8](im.View(), 1, 1, 9)
	if buf[9] != 9 {
		t.Error("image does not own the given buffer")
	}

	if _, err := FromBytes(buf[:10], dynview.NewLayout(3, 2, 1, 1, 8), graySemantics); !errors.Is(err, dynview.ErrBufferTooSmall) {
		t.Errorf("FromBytes(short) error = %v, want ErrBufferTooSmall", err)
	}
}
