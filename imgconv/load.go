package imgconv

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pixview/dynimage"
	"pixview/rawfile"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// FormatDynv is the format name Load reports for DYNV files.
const FormatDynv = "dynv"

// Load reads the image at path into a packed image and returns it together
// with the name of its format. Files with the .dynv extension are read with
// rawfile, everything else goes through image.Decode.
func Load(logger *slog.Logger, path string) (*dynimage.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logger.Error("could not close image", "error", closeErr)
		}
	}()

	if strings.EqualFold(filepath.Ext(path), rawfile.Ext) {
		im, err := rawfile.Read(f)
		if err != nil {
			return nil, "", fmt.Errorf("could not read %q: %w", path, err)
		}
		return im, FormatDynv, nil
	}

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image %q: %w", path, err)
	}
	logger.Debug("decoded", "format", format, "type", fmt.Sprintf("%T", img), "bounds", img.Bounds())

	im, err := Import(img)
	if err != nil {
		return nil, "", err
	}
	return im, format, nil
}
