// Package imgconv moves pixels between the standard library's image types
// and dynview views.
package imgconv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	"pixview/dynimage"
	"pixview/dynview"

	"golang.org/x/image/draw"
)

// ErrUnsupported is returned for layouts and semantics that have no image.Image
// counterpart.
var ErrUnsupported = errors.New("imgconv: unsupported pixel layout")

var (
	graySemantics = dynview.NewSemantics(dynview.PixelFormatY, dynview.SampleFormatUnsignedInteger)
	rgbaSemantics = dynview.NewSemantics(dynview.PixelFormatRGBA, dynview.SampleFormatUnsignedInteger)
	maskSemantics = dynview.NewSemantics(dynview.PixelFormatX, dynview.SampleFormatUnsignedInteger)
)

// ViewOf returns a view aliasing the pixel buffer of img without copying. It
// reports false for image types whose memory is not a single interleaved
// plane.
//
// 16-bit images keep their big endian byte order and RGBA kinds keep their
// premultiplied samples; the returned view is meant for byte level work such
// as Equal or rawfile.Write. Use Import for typed access.
func ViewOf(img image.Image) (dynview.MutableView, bool) {
	var (
		pix       []byte
		stride    int
		ch, bpc   int16
		semantics dynview.Semantics
		r         = img.Bounds()
		off       int
	)

	switch m := img.(type) {
	case *image.Gray:
		pix, stride, ch, bpc, semantics = m.Pix, m.Stride, 1, 1, graySemantics
		off = m.PixOffset(r.Min.X, r.Min.Y)
	case *image.Gray16:
		pix, stride, ch, bpc, semantics = m.Pix, m.Stride, 1, 2, graySemantics
		off = m.PixOffset(r.Min.X, r.Min.Y)
	case *image.Alpha:
		pix, stride, ch, bpc, semantics = m.Pix, m.Stride, 1, 1, maskSemantics
		off = m.PixOffset(r.Min.X, r.Min.Y)
	case *image.RGBA:
		pix, stride, ch, bpc, semantics = m.Pix, m.Stride, 4, 1, rgbaSemantics
		off = m.PixOffset(r.Min.X, r.Min.Y)
	case *image.NRGBA:
		pix, stride, ch, bpc, semantics = m.Pix, m.Stride, 4, 1, rgbaSemantics
		off = m.PixOffset(r.Min.X, r.Min.Y)
	case *image.RGBA64:
		pix, stride, ch, bpc, semantics = m.Pix, m.Stride, 4, 2, rgbaSemantics
		off = m.PixOffset(r.Min.X, r.Min.Y)
	case *image.NRGBA64:
		pix, stride, ch, bpc, semantics = m.Pix, m.Stride, 4, 2, rgbaSemantics
		off = m.PixOffset(r.Min.X, r.Min.Y)
	default:
		return dynview.MutableView{}, false
	}

	layout := dynview.NewLayout(r.Dx(), r.Dy(), ch, bpc, stride)
	if r.Empty() {
		return dynview.NewMutable(nil, layout, semantics), true
	}
	v, err := dynview.FromBytesChecked(pix[off:], layout, semantics)
	if err != nil {
		return dynview.MutableView{}, false
	}
	return v, true
}

// Import copies img into a packed image with non-premultiplied samples. 8-bit
// gray and NRGBA kinds are copied row by row, 16-bit kinds are converted to
// native endian uint16 samples and every other image type is first drawn into
// an NRGBA image. Premultiplied RGBA and RGBA64 images are drawn into NRGBA
// and NRGBA64 first.
func Import(img image.Image) (*dynimage.Image, error) {
	switch img.(type) {
	case *image.Gray, *image.Alpha, *image.NRGBA:
		v, _ := ViewOf(img)
		return dynimage.Clone(v, 0)
	case *image.Gray16, *image.NRGBA64:
		v, _ := ViewOf(img)
		return importWide(v)
	case *image.RGBA64:
		v, _ := ViewOf(unpremultiply(img, image.NewNRGBA64))
		return importWide(v)
	}

	v, _ := ViewOf(unpremultiply(img, image.NewNRGBA))
	im, err := dynimage.Clone(v, 0)
	if err != nil {
		return nil, fmt.Errorf("could not import %T: %w", img, err)
	}
	return im, nil
}

// unpremultiply draws img at the origin of a new image made by newImage.
func unpremultiply[I draw.Image](img image.Image, newImage func(image.Rectangle) I) I {
	r := img.Bounds()
	dst := newImage(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Copy(dst, image.Point{}, img, r, draw.Src, nil)
	return dst
}

func importWide(src dynview.MutableView) (*dynimage.Image, error) {
	l := src.Layout()
	im, err := dynimage.New(dynview.PackedLayout(l.Width, l.Height, l.NrChannels, 2), src.Semantics())
	if err != nil {
		return nil, err
	}
	dst := im.View()
	for y := range src.Height() {
		in, out := src.RowData(y), dst.RowData(y)
		for i := 0; i+1 < len(in); i += 2 {
			binary.NativeEndian.PutUint16(out[i:], binary.BigEndian.Uint16(in[i:]))
		}
	}
	return im, nil
}
