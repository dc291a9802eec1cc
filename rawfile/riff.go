// Package rawfile stores a single pixel view in a RIFF container:
//
//	RIFF <size> DYNV
//	  LAYT  width u32, height u32, channels u16, bytes per channel u16
//	  SEMA  pixel format u8, sample format u8, 2 reserved bytes
//	  data  height rows of width*channels*bytes per channel bytes
//
// All integers are little endian. Row padding is never stored, the rows of
// the data chunk are packed.
package rawfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"

	"pixview/dynimage"
	"pixview/dynview"

	"golang.org/x/image/riff"
)

// Ext is the file extension used for DYNV files.
const Ext = ".dynv"

// ErrFormat is returned for malformed DYNV content.
var ErrFormat = errors.New("rawfile: invalid DYNV data")

var (
	riffType   = riff.FourCC{'R', 'I', 'F', 'F'}
	formType   = riff.FourCC{'D', 'Y', 'N', 'V'}
	layoutType = riff.FourCC{'L', 'A', 'Y', 'T'}
	semType    = riff.FourCC{'S', 'E', 'M', 'A'}
	dataType   = riff.FourCC{'d', 'a', 't', 'a'}
)

const (
	layoutChunkSize = 4 + 4 + 2 + 2
	semChunkSize    = 4
)

// Read decodes a DYNV stream into a packed image.
func Read(r io.Reader) (*dynimage.Image, error) {
	form, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if form != formType {
		return nil, fmt.Errorf("%w: unsupported RIFF content type %q", ErrFormat, string(form[:]))
	}

	var (
		layout    *dynview.Layout
		semantics dynview.Semantics
		img       *dynimage.Image
	)
	for {
		id, size, data, err := rd.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("could not read chunk: %w", err)
		}

		switch id {
		case layoutType:
			if layout, err = readLayout(data, size); err != nil {
				return nil, err
			}
		case semType:
			if semantics, err = readSemantics(data, size); err != nil {
				return nil, err
			}
		case dataType:
			if layout == nil {
				return nil, fmt.Errorf("%w: data chunk before LAYT", ErrFormat)
			}
			if img, err = readPixels(data, size, *layout); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: unsupported chunk type %q", ErrFormat, string(id[:]))
		}
	}

	if img == nil {
		return nil, fmt.Errorf("%w: missing data chunk", ErrFormat)
	}
	return dynimage.FromBytes(img.Bytes(), img.Layout(), semantics)
}

func readLayout(r io.Reader, size uint32) (*dynview.Layout, error) {
	if size != layoutChunkSize {
		return nil, fmt.Errorf("%w: LAYT chunk has %d bytes, want %d", ErrFormat, size, layoutChunkSize)
	}
	buf := make([]byte, layoutChunkSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("could not read LAYT chunk: %w", err)
	}

	width := binary.LittleEndian.Uint32(buf[0:])
	height := binary.LittleEndian.Uint32(buf[4:])
	channels := binary.LittleEndian.Uint16(buf[8:])
	bpc := binary.LittleEndian.Uint16(buf[10:])
	if width > 1<<30 || height > 1<<30 || channels > 1<<14 || bpc > 1<<14 {
		return nil, fmt.Errorf("%w: layout %dx%d, %d channels x %d bytes out of range", ErrFormat,
			width, height, channels, bpc)
	}

	l := dynview.PackedLayout(int(width), int(height), int16(channels), int16(bpc))
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return &l, nil
}

func readSemantics(r io.Reader, size uint32) (dynview.Semantics, error) {
	if size != semChunkSize {
		return dynview.Semantics{}, fmt.Errorf("%w: SEMA chunk has %d bytes, want %d", ErrFormat, size, semChunkSize)
	}
	buf := make([]byte, semChunkSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return dynview.Semantics{}, fmt.Errorf("could not read SEMA chunk: %w", err)
	}
	return dynview.NewSemantics(dynview.PixelFormat(buf[0]), dynview.SampleFormat(buf[1])), nil
}

func readPixels(r io.Reader, size uint32, layout dynview.Layout) (*dynimage.Image, error) {
	hi, want := bits.Mul64(uint64(layout.RowBytes()), uint64(layout.Height))
	if hi != 0 || uint64(size) != want {
		return nil, fmt.Errorf("%w: data chunk has %d bytes, layout %dx%d has rows of %d bytes", ErrFormat,
			size, layout.Width, layout.Height, layout.RowBytes())
	}

	img, err := dynimage.New(layout, dynview.Semantics{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if _, err := io.ReadFull(r, img.Bytes()); err != nil {
		return nil, fmt.Errorf("could not read %d pixel bytes: %w", size, err)
	}
	return img, nil
}

// Write encodes v as a DYNV stream and returns the number of bytes written.
// Only the RowBytes() bytes of each row are stored.
func Write[M dynview.Modifiability](w io.Writer, v dynview.View[M]) (int64, error) {
	l := v.Layout()
	if err := l.Validate(); err != nil {
		return 0, err
	}
	if l.Width > 1<<30 || l.Height > 1<<30 {
		return 0, fmt.Errorf("%w: %dx%d too large", ErrFormat, l.Width, l.Height)
	}
	dataSize := l.RowBytes() * l.Height
	if dataSize > 0 && v.BytePtr() == nil {
		return 0, dynview.ErrEmptyView
	}
	if uint64(dataSize) > 1<<32-64 {
		return 0, fmt.Errorf("%w: %d pixel bytes do not fit a RIFF chunk", ErrFormat, dataSize)
	}

	cw := &countingWriter{w: w}
	size := 4 + chunkSize(layoutChunkSize) + chunkSize(semChunkSize) + chunkSize(dataSize)

	header := append(riffType[:], binary.LittleEndian.AppendUint32(nil, uint32(size))...)
	header = append(header, formType[:]...)
	if err := writeBytes(cw, header); err != nil {
		return cw.n, fmt.Errorf("could not write RIFF header: %w", err)
	}

	layout := binary.LittleEndian.AppendUint32(nil, uint32(l.Width))
	layout = binary.LittleEndian.AppendUint32(layout, uint32(l.Height))
	layout = binary.LittleEndian.AppendUint16(layout, uint16(l.NrChannels))
	layout = binary.LittleEndian.AppendUint16(layout, uint16(l.NrBytesPerChannel))
	if err := writeChunk(cw, layoutType, layout); err != nil {
		return cw.n, fmt.Errorf("could not write LAYT chunk: %w", err)
	}

	sem := []byte{byte(v.PixelFormat()), byte(v.SampleFormat()), 0, 0}
	if err := writeChunk(cw, semType, sem); err != nil {
		return cw.n, fmt.Errorf("could not write SEMA chunk: %w", err)
	}

	if err := writeChunkHeader(cw, dataType, dataSize); err != nil {
		return cw.n, fmt.Errorf("could not write data chunk: %w", err)
	}
	if dataSize > 0 {
		if v.IsPacked() {
			if err := writeBytes(cw, v.Bytes()); err != nil {
				return cw.n, fmt.Errorf("could not write pixels: %w", err)
			}
		} else {
			for y := range v.Height() {
				if err := writeBytes(cw, v.RowData(y)); err != nil {
					return cw.n, fmt.Errorf("could not write row %d/%d: %w", y, v.Height(), err)
				}
			}
		}
	}
	if dataSize%2 == 1 {
		if err := writeBytes(cw, []byte{0}); err != nil {
			return cw.n, fmt.Errorf("could not write padding: %w", err)
		}
	}

	return cw.n, nil
}

// chunkSize returns the size of a chunk with n payload bytes, header and
// padding to an even size included.
func chunkSize(n int) int {
	return 8 + n + n%2
}

func writeChunkHeader(w io.Writer, id riff.FourCC, n int) error {
	return writeBytes(w, binary.LittleEndian.AppendUint32(id[:], uint32(n)))
}

func writeChunk(w io.Writer, id riff.FourCC, payload []byte) error {
	if err := writeChunkHeader(w, id, len(payload)); err != nil {
		return err
	}
	if err := writeBytes(w, payload); err != nil {
		return err
	}
	if len(payload)%2 == 1 {
		return writeBytes(w, []byte{0})
	}
	return nil
}

func writeBytes(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	} else if n != len(b) {
		return fmt.Errorf("wrote only %d/%d bytes", n, len(b))
	}

	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
