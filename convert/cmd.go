package convert

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"pixview/dynimage"
	"pixview/imgconv"
	"pixview/parallel"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Scan      string      `help:"Source folder to scan" default:"."`
	Dest      string      `help:"Destination folder for converted pictures. Relative to scan dir if not absolute." default:"converted"`
	Align     int         `help:"Align pixel rows to this many bytes (power of two, 0 keeps rows packed)" default:"0"`
	Resize    bool        `help:"Resize image" default:"false" group:"resize"`
	Width     int         `help:"Max width" group:"resize"`
	Height    int         `help:"Max height" group:"resize"`
	Crop      bool        `help:"Crop image to maintain requested aspect ratio" default:"false" group:"resize"`
	Fill      string      `help:"If given and not cropping, will fill background with this color to maintain destination aspect ratio" group:"resize"`
	Format    string      `help:"Output format of converted image. If prefixed with 'unsup:' will convert only unsupported formats" enum:"same,gif,unsup:gif,jpeg,unsup:jpeg,png,unsup:png,bmp,unsup:bmp,tiff,unsup:tiff,dynv" default:"unsup:png"`
	FillColor color.Color `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}
	if c.Dest == c.Scan {
		return fmt.Errorf("destination folder must differ from scan folder %q", c.Scan)
	}

	if _, err := dynimage.AlignStride(0, c.Align); err != nil || c.Align < 0 {
		return fmt.Errorf("invalid row alignment: %d", c.Align)
	}

	if c.Resize {
		switch {
		case (c.Width < 0):
			return fmt.Errorf("invalid resize width: %d", c.Width)
		case (c.Height < 0):
			return fmt.Errorf("invalid resize height: %d", c.Height)
		case (c.Width == 0) && (c.Height == 0):
			return fmt.Errorf("no resize dimensions given")
		}
	}

	if (!c.Crop) && (c.Fill != "") {
		if c.FillColor, err = parseHexToColor(c.Fill); err != nil {
			return err
		}
	}

	return nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	for _, file := range files {
		if !file.Type().IsRegular() {
			continue
		}

		pool.Go(func() error {
			return c.convertFile(file.Name())
		})
	}

	err = pool.Wait()
	processed, errCount := pool.Stats()
	slog.Info("stats", "processed", processed, "errors", errCount, "total", processed+errCount)

	if err != nil {
		return fmt.Errorf("error processing %d files: %w", errCount, err)
	}
	return nil
}

func (c *CLICmd) convertFile(fileName string) error {
	filePath := filepath.Join(c.Scan, fileName)
	logger := slog.Default().With("file", filePath)

	im, imgType, err := imgconv.Load(logger, filePath)
	if err != nil {
		logger.Error("could not load image", "error", err)
		return err
	}

	if c.Resize {
		im, err = resize(logger, im.ConstantView(), c.Width, c.Height, c.Align, c.Crop, c.FillColor)
		if err != nil {
			logger.Error("could not resize image", "error", err)
			return err
		}
	} else if c.Align > 1 {
		if im, err = dynimage.Clone(im.ConstantView(), c.Align); err != nil {
			logger.Error("could not align image", "align", c.Align, "error", err)
			return err
		}
	}
	logger.Debug("layout", "width", im.Width(), "height", im.Height(), "stride", im.Layout().StrideBytes)

	destName, err := save(im, outputFormat(imgType, c.Format), c.Dest, fileName)
	if err != nil {
		logger.Error("could not save image", "dir", c.Dest, "error", err)
		return err
	}
	logger.Info("converted", "to", filepath.Join(c.Dest, destName))
	return nil
}

func parseHexToColor(s string) (color.Color, error) {
	var c color.RGBA
	switch len(s) {
	case 4:
		n, err := fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		if err != nil {
			return nil, fmt.Errorf("could not read color: %w", err)
		} else if n < 3 {
			return nil, fmt.Errorf("insufficient fill color fields: %d", n)
		}

		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A = 0xFF
	case 5:
		n, err := fmt.Sscanf(s, "#%1x%1x%1x%1x", &c.R, &c.G, &c.B, &c.A)
		if err != nil {
			return nil, fmt.Errorf("could not read color: %w", err)
		} else if n < 4 {
			return nil, fmt.Errorf("insufficient fill color fields: %d", n)
		}

		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A |= c.A << 4
	case 7:
		n, err := fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
		if err != nil {
			return nil, fmt.Errorf("could not read color: %w", err)
		} else if n < 3 {
			return nil, fmt.Errorf("insufficient fill color fields: %d", n)
		}

		c.A = 0xFF
	case 9:
		n, err := fmt.Sscanf(s, "#%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
		if err != nil {
			return nil, fmt.Errorf("could not read color: %w", err)
		} else if n < 4 {
			return nil, fmt.Errorf("insufficient fill color fields: %d", n)
		}
	default:
		return nil, fmt.Errorf("invalid fill color, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA")
	}

	// The hex notation is not premultiplied.
	if c.A != 0xFF {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return c, nil
}
