package inspect

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"pixview/dynimage"
	"pixview/rawfile"
)

// dumpFile writes im to a temporary file next to dest and renames it once
// complete.
func dumpFile(logger *slog.Logger, im *dynimage.Image, dest string) (err error) {
	logger.Info("dumping", "to", dest)

	if err := checkDest(dest); err != nil {
		return err
	}

	outFile, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination for %q: %w", dest, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", outFile.Name(), defErr)
		}
		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), dest); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", dest, defErr)
			}
		}
		if err != nil {
			if rmErr := os.Remove(outFile.Name()); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				logger.Error("could not remove temporary file", "name", outFile.Name(), "error", rmErr)
			}
		}
	}()

	n, err := rawfile.Write(outFile, im.ConstantView())
	if err != nil {
		return fmt.Errorf("could not write %q: %w", dest, err)
	}
	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush temporary destination %q: %w", outFile.Name(), err)
	}
	logger.Debug("dumped", "to", dest, "bytes", n)

	canRename = true
	return nil
}

func checkDest(dest string) error {
	destFileInfo, err := os.Stat(dest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", dest, err)
		}
	} else {
		return fmt.Errorf("destination file already exists: %q", destFileInfo.Name())
	}

	return nil
}
