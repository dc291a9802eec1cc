package convert

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pixview/dynimage"
	"pixview/imgconv"
	"pixview/rawfile"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// outputFormat resolves the --format value against the source format. The
// "unsup:" prefix only converts sources that have no encoder.
func outputFormat(imgType, outType string) string {
	outType, unsupOnly := strings.CutPrefix(outType, "unsup:")
	if (unsupOnly && (imgType != "webp")) || (outType == "same") {
		outType = imgType
	}
	return outType
}

func save(im *dynimage.Image, outType, destDir, srcName string) (destName string, err error) {
	oldExt := filepath.Ext(srcName)
	destName = fmt.Sprintf("%s.%s", srcName[:len(srcName)-len(oldExt)], outType)

	var img image.Image
	if outType != imgconv.FormatDynv {
		if img, err = imgconv.NewAdapter(im.ConstantView()); err != nil {
			return destName, fmt.Errorf("cannot encode %q as %s: %w", destName, outType, err)
		}
	}

	outFile, err := os.CreateTemp(destDir, destName)
	if err != nil {
		return destName, fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), filepath.Join(destDir, destName)); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		} else {
			_ = os.Remove(outFile.Name())
		}
	}()

	switch outType {
	case "gif":
		if err = gif.Encode(outFile, img, nil); err != nil {
			return destName, fmt.Errorf("could not encode GIF destination %q: %w", destName, err)
		}
	case "jpeg":
		if err = jpeg.Encode(outFile, img, &jpeg.Options{Quality: 100}); err != nil {
			return destName, fmt.Errorf("could not encode JPEG destination %q: %w", destName, err)
		}
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err = enc.Encode(outFile, img); err != nil {
			return destName, fmt.Errorf("could not encode PNG destination %q: %w", destName, err)
		}
	case "bmp":
		if err = bmp.Encode(outFile, img); err != nil {
			return destName, fmt.Errorf("could not encode BMP destination %q: %w", destName, err)
		}
	case "tiff":
		if err = tiff.Encode(outFile, img, nil); err != nil {
			return destName, fmt.Errorf("could not encode TIFF destination %q: %w", destName, err)
		}
	case imgconv.FormatDynv:
		if _, err = rawfile.Write(outFile, im.ConstantView()); err != nil {
			return destName, fmt.Errorf("could not write DYNV destination %q: %w", destName, err)
		}
	default:
		return destName, fmt.Errorf("unsupported output format: %s", outType)
	}

	canRename = true
	return destName, nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
