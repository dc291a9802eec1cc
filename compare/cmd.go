package compare

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"pixview/dynview"
	"pixview/imgconv"
	"pixview/parallel"

	"github.com/alecthomas/kong"
)

// ErrDiffer is returned for a pair whose pixels differ.
var ErrDiffer = errors.New("images differ")

type CLICmd struct {
	A      string `arg:"" help:"First image, or folder of images" type:"path"`
	B      string `arg:"" help:"Second image, or folder of images paired with the first by name without extension" type:"path"`
	Strict bool   `help:"Also require equal channel count, bytes per channel and pixel semantics" default:"false"`

	dirs bool `kong:"-"`
}

type pair struct {
	a, b string
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	var dirs [2]bool
	for i, p := range []*string{&c.A, &c.B} {
		abs, err := filepath.Abs(*p)
		var info os.FileInfo
		if err == nil {
			info, err = os.Stat(abs)
		}
		if err != nil {
			return fmt.Errorf("invalid path %q: %w", *p, err)
		}
		*p = abs
		dirs[i] = info.IsDir()
	}

	if dirs[0] != dirs[1] {
		return fmt.Errorf("cannot compare a file with a folder: %q, %q", c.A, c.B)
	}
	c.dirs = dirs[0]
	return nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	pairs := []pair{{c.A, c.B}}
	if c.dirs {
		var err error
		if pairs, err = pairFiles(c.A, c.B); err != nil {
			return err
		}
	}

	for _, p := range pairs {
		pool.Go(func() error {
			return c.comparePair(p)
		})
	}

	err := pool.Wait()
	equal, differ := pool.Stats()
	slog.Info("stats", "equal", equal, "different", differ, "total", equal+differ)

	if err != nil {
		return fmt.Errorf("%d of %d pairs do not match: %w", differ, equal+differ, err)
	}
	return nil
}

func (c *CLICmd) comparePair(p pair) error {
	logger := slog.Default().With("a", p.a, "b", p.b)
	if p.a == "" || p.b == "" {
		err := fmt.Errorf("%w: no counterpart for %q", ErrDiffer, p.a+p.b)
		logger.Error("unpaired file", "error", err)
		return err
	}

	a, _, err := imgconv.Load(logger, p.a)
	if err != nil {
		logger.Error("could not load image", "error", err)
		return err
	}
	b, _, err := imgconv.Load(logger, p.b)
	if err != nil {
		logger.Error("could not load image", "error", err)
		return err
	}

	equal := dynview.Equal(a.ConstantView(), b.ConstantView())
	if c.Strict {
		equal = dynview.EqualSemantics(a.ConstantView(), b.ConstantView())
	}
	if !equal {
		logger.Warn("different",
			"a_size", fmt.Sprintf("%dx%d", a.Width(), a.Height()),
			"b_size", fmt.Sprintf("%dx%d", b.Width(), b.Height()),
			"a_pixel_format", a.Semantics().PixelFormat.String(),
			"b_pixel_format", b.Semantics().PixelFormat.String())
		return fmt.Errorf("%w: %q and %q", ErrDiffer, p.a, p.b)
	}

	logger.Info("equal")
	return nil
}

// pairFiles matches the regular files of two folders by their name without
// extension. Files without a counterpart get a pair with an empty side.
func pairFiles(dirA, dirB string) ([]pair, error) {
	a, err := filesByStem(dirA)
	if err != nil {
		return nil, err
	}
	b, err := filesByStem(dirB)
	if err != nil {
		return nil, err
	}

	var pairs []pair
	for stem, pathA := range a {
		pairs = append(pairs, pair{a: pathA, b: b[stem]})
	}
	for stem, pathB := range b {
		if _, ok := a[stem]; !ok {
			pairs = append(pairs, pair{b: pathB})
		}
	}
	slices.SortFunc(pairs, func(x, y pair) int {
		return strings.Compare(x.a+x.b, y.a+y.b)
	})
	return pairs, nil
}

func filesByStem(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read folder %q: %w", dir, err)
	}

	files := make(map[string]string, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if prev, ok := files[stem]; ok {
			return nil, fmt.Errorf("ambiguous name %q in %q: %q and %q", stem, dir, filepath.Base(prev), name)
		}
		files[stem] = filepath.Join(dir, name)
	}
	return files, nil
}
