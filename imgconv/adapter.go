package imgconv

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"pixview/dynview"
)

// channelOrder gives the position of each colour channel inside a pixel. a is
// -1 for formats without alpha; gray formats only use r.
type channelOrder struct {
	r, g, b, a int
	gray       bool
}

var channelOrders = map[dynview.PixelFormat]channelOrder{
	dynview.PixelFormatY:    {r: 0, a: -1, gray: true},
	dynview.PixelFormatYA:   {r: 0, a: 1, gray: true},
	dynview.PixelFormatRGB:  {r: 0, g: 1, b: 2, a: -1},
	dynview.PixelFormatBGR:  {r: 2, g: 1, b: 0, a: -1},
	dynview.PixelFormatRGBA: {r: 0, g: 1, b: 2, a: 3},
	dynview.PixelFormatBGRA: {r: 2, g: 1, b: 0, a: 3},
	dynview.PixelFormatARGB: {r: 1, g: 2, b: 3, a: 0},
	dynview.PixelFormatABGR: {r: 3, g: 2, b: 1, a: 0},
}

// Adapter presents a view as an image.Image with bounds (0, 0)-(Width, Height).
// Colours are non-premultiplied; 16-bit samples are read in native byte order.
type Adapter[M dynview.Modifiability] struct {
	view  dynview.View[M]
	order channelOrder
	wide  bool
}

// NewAdapter wraps v. It fails with ErrUnsupported unless v holds unsigned
// 8 or 16-bit samples in one of the Y, YA, RGB, BGR, RGBA, BGRA, ARGB or ABGR
// formats.
func NewAdapter[M dynview.Modifiability](v dynview.View[M]) (*Adapter[M], error) {
	l := v.Layout()
	if err := l.Validate(); err != nil {
		return nil, err
	}

	order, ok := channelOrders[v.PixelFormat()]
	switch {
	case !ok:
		return nil, fmt.Errorf("%w: pixel format %v", ErrUnsupported, v.PixelFormat())
	case l.NrChannels != v.PixelFormat().NrChannels():
		return nil, fmt.Errorf("%w: %d channels for %v", ErrUnsupported, l.NrChannels, v.PixelFormat())
	case l.NrBytesPerChannel != 1 && l.NrBytesPerChannel != 2:
		return nil, fmt.Errorf("%w: %d bytes per channel", ErrUnsupported, l.NrBytesPerChannel)
	case v.SampleFormat() != dynview.SampleFormatUnsignedInteger && v.SampleFormat() != dynview.SampleFormatUnknown:
		return nil, fmt.Errorf("%w: sample format %v", ErrUnsupported, v.SampleFormat())
	}

	return &Adapter[M]{view: v, order: order, wide: l.NrBytesPerChannel == 2}, nil
}

// View returns the adapted view.
func (a *Adapter[M]) View() dynview.View[M] { return a.view }

func (a *Adapter[M]) ColorModel() color.Model {
	switch {
	case a.order.gray && a.order.a < 0 && a.wide:
		return color.Gray16Model
	case a.order.gray && a.order.a < 0:
		return color.GrayModel
	case a.wide:
		return color.NRGBA64Model
	default:
		return color.NRGBAModel
	}
}

func (a *Adapter[M]) Bounds() image.Rectangle {
	if a.view.IsEmpty() {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, a.view.Width(), a.view.Height())
}

func (a *Adapter[M]) pixel(x, y int) []byte {
	bpp := a.view.NrBytesPerPixel()
	return a.view.RowData(y)[x*bpp : (x+1)*bpp]
}

func (a *Adapter[M]) sample(px []byte, ch int) uint16 {
	if a.wide {
		return binary.NativeEndian.Uint16(px[2*ch:])
	}
	return uint16(px[ch]) * 0x101
}

func (a *Adapter[M]) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(a.Bounds())) {
		return a.ColorModel().Convert(color.NRGBA64{})
	}

	px := a.pixel(x, y)
	alpha := uint16(0xffff)
	if a.order.a >= 0 {
		alpha = a.sample(px, a.order.a)
	}
	c := color.NRGBA64{R: a.sample(px, a.order.r), A: alpha}
	if a.order.gray {
		c.G, c.B = c.R, c.R
	} else {
		c.G, c.B = a.sample(px, a.order.g), a.sample(px, a.order.b)
	}

	switch {
	case a.order.gray && a.order.a < 0 && a.wide:
		return color.Gray16{Y: c.R}
	case a.order.gray && a.order.a < 0:
		return color.Gray{Y: uint8(c.R >> 8)}
	case a.wide:
		return c
	default:
		return color.NRGBA{R: uint8(c.R >> 8), G: uint8(c.G >> 8), B: uint8(c.B >> 8), A: uint8(c.A >> 8)}
	}
}

// Opaque reports whether every pixel is fully opaque.
func (a *Adapter[M]) Opaque() bool {
	if a.order.a < 0 {
		return true
	}
	for y := range a.view.Height() {
		for x := range a.view.Width() {
			if a.sample(a.pixel(x, y), a.order.a) != 0xffff {
				return false
			}
		}
	}
	return true
}

// MutableAdapter is an Adapter that also implements draw.Image.
type MutableAdapter struct {
	Adapter[dynview.Mutable]
}

// NewMutableAdapter wraps v with the same restrictions as NewAdapter.
func NewMutableAdapter(v dynview.MutableView) (*MutableAdapter, error) {
	a, err := NewAdapter(v)
	if err != nil {
		return nil, err
	}
	return &MutableAdapter{Adapter: *a}, nil
}

func (a *MutableAdapter) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(a.Bounds())) {
		return
	}

	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	px := a.pixel(x, y)
	if a.order.gray {
		g := color.Gray16Model.Convert(color.NRGBA64{R: n.R, G: n.G, B: n.B, A: 0xffff}).(color.Gray16)
		a.put(px, a.order.r, g.Y)
	} else {
		a.put(px, a.order.r, n.R)
		a.put(px, a.order.g, n.G)
		a.put(px, a.order.b, n.B)
	}
	if a.order.a >= 0 {
		a.put(px, a.order.a, n.A)
	}
}

func (a *MutableAdapter) put(px []byte, ch int, v uint16) {
	if a.wide {
		binary.NativeEndian.PutUint16(px[2*ch:], v)
		return
	}
	px[ch] = uint8(v >> 8)
}
