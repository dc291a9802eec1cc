package inspect

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pixview/dynimage"
	"pixview/imgconv"
	"pixview/parallel"
	"pixview/rawfile"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Paths []string `arg:"" optional:"" help:"Image files or folders to inspect. Folders are not scanned recursively." type:"path"`
	Dump  string   `help:"Folder to write a .dynv copy of every image into. Existing files are not overwritten." type:"path"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if len(c.Paths) == 0 {
		c.Paths = []string{"."}
	}

	for i, p := range c.Paths {
		abs, err := filepath.Abs(p)
		if err == nil {
			_, err = os.Stat(abs)
		}
		if err != nil {
			return fmt.Errorf("invalid path %q: %w", p, err)
		}
		c.Paths[i] = abs
	}

	if c.Dump != "" {
		dump, err := filepath.Abs(c.Dump)
		if err != nil {
			return fmt.Errorf("invalid dump path %q: %w", c.Dump, err)
		}
		c.Dump = dump
	}

	return nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	if c.Dump != "" {
		if err := os.MkdirAll(c.Dump, 0o755); err != nil {
			return fmt.Errorf("unable to create dump folder %q: %w", c.Dump, err)
		}
	}

	files, err := collectFiles(c.Paths)
	if err != nil {
		return err
	}

	for _, filePath := range files {
		pool.Go(func() error {
			logger := slog.Default().With("file", filePath)

			im, format, err := imgconv.Load(logger, filePath)
			if err != nil {
				logger.Error("could not load image", "error", err)
				return err
			}
			report(logger, im, format)

			if c.Dump == "" {
				return nil
			}
			name := filepath.Base(filePath)
			dest := filepath.Join(c.Dump, strings.TrimSuffix(name, filepath.Ext(name))+rawfile.Ext)
			if err := dumpFile(logger, im, dest); err != nil {
				logger.Error("could not dump image", "to", dest, "error", err)
				return err
			}
			return nil
		})
	}

	err = pool.Wait()
	done, failed := pool.Stats()
	slog.Info("stats", "inspected", done, "errors", failed, "total", done+failed)

	if err != nil {
		return fmt.Errorf("error processing %d files: %w", failed, err)
	}
	return nil
}

func report(logger *slog.Logger, im *dynimage.Image, format string) {
	v := im.ConstantView()
	logger.Info("image",
		"format", format,
		"width", v.Width(),
		"height", v.Height(),
		"channels", v.NrChannels(),
		"bytes_per_channel", v.NrBytesPerChannel(),
		"stride", v.StrideBytes(),
		"packed", v.IsPacked(),
		"pixel_format", v.PixelFormat().String(),
		"sample_format", v.SampleFormat().String(),
	)
}

// collectFiles expands folders into the regular files they contain.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot stat %q: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("unable to read folder %q: %w", p, err)
		}
		for _, e := range entries {
			if e.Type().IsRegular() {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
	}
	return files, nil
}
