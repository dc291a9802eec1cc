package dynview

// PixelFormat tags the meaning of a pixel's channels. It is metadata only and
// never takes part in addressing.
type PixelFormat uint8

const (
	PixelFormatUnknown PixelFormat = iota
	PixelFormatY
	PixelFormatYA
	PixelFormatRGB
	PixelFormatBGR
	PixelFormatYCbCr
	PixelFormatCIELab
	PixelFormatICCLab
	PixelFormatRGBA
	PixelFormatBGRA
	PixelFormatARGB
	PixelFormatABGR
	PixelFormatCMYK
	PixelFormatYCCK
	PixelFormatX
	PixelFormatXX
	PixelFormatXXX
	PixelFormatXXXX
	PixelFormatInvalid

	pixelFormatCount
)

var pixelFormatInfo = [pixelFormatCount]struct {
	name       string
	nrChannels int16
}{
	PixelFormatUnknown: {"Unknown", 0},
	PixelFormatY:       {"Y", 1},
	PixelFormatYA:      {"YA", 2},
	PixelFormatRGB:     {"RGB", 3},
	PixelFormatBGR:     {"BGR", 3},
	PixelFormatYCbCr:   {"YCbCr", 3},
	PixelFormatCIELab:  {"CIELab", 3},
	PixelFormatICCLab:  {"ICCLab", 3},
	PixelFormatRGBA:    {"RGBA", 4},
	PixelFormatBGRA:    {"BGRA", 4},
	PixelFormatARGB:    {"ARGB", 4},
	PixelFormatABGR:    {"ABGR", 4},
	PixelFormatCMYK:    {"CMYK", 4},
	PixelFormatYCCK:    {"YCCK", 4},
	PixelFormatX:       {"X", 1},
	PixelFormatXX:      {"XX", 2},
	PixelFormatXXX:     {"XXX", 3},
	PixelFormatXXXX:    {"XXXX", 4},
	PixelFormatInvalid: {"Invalid", 0},
}

func (f PixelFormat) String() string {
	if f >= pixelFormatCount {
		return "Invalid"
	}
	return pixelFormatInfo[f].name
}

// NrChannels returns the channel count implied by the format, or 0 when the
// format does not imply one.
func (f PixelFormat) NrChannels() int16 {
	if f >= pixelFormatCount {
		return 0
	}
	return pixelFormatInfo[f].nrChannels
}

// SampleFormat tags the numeric type of each channel.
type SampleFormat uint8

const (
	SampleFormatUnknown SampleFormat = iota
	SampleFormatUnsignedInteger
	SampleFormatSignedInteger
	SampleFormatFloatingPoint
)

func (f SampleFormat) String() string {
	switch f {
	case SampleFormatUnsignedInteger:
		return "UnsignedInteger"
	case SampleFormatSignedInteger:
		return "SignedInteger"
	case SampleFormatFloatingPoint:
		return "FloatingPoint"
	default:
		return "Unknown"
	}
}

// Semantics is carried next to a Layout but is never consulted by addressing
// arithmetic or by Equal.
type Semantics struct {
	PixelFormat  PixelFormat
	SampleFormat SampleFormat
}

func NewSemantics(pf PixelFormat, sf SampleFormat) Semantics {
	return Semantics{PixelFormat: pf, SampleFormat: sf}
}
