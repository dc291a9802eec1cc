package compare

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"pixview/dynimage"
	"pixview/dynview"
	"pixview/imgconv"
	"pixview/parallel"
	"pixview/rawfile"

	"github.com/google/go-cmp/cmp"
)

func grayImage(w, h int, seed uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = seed + uint8(i)
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func writeDynv(t *testing.T, path string, v dynview.ConstantView) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rawfile.Write(f, v); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func run(t *testing.T, cmd *CLICmd) error {
	t.Helper()
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}
	return cmd.Run(parallel.Start(2))
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	src := grayImage(6, 4, 3)
	writePNG(t, filepath.Join(dir, "a.png"), src)

	// Same pixels stored with a padded stride and a different label.
	v, _ := imgconv.ViewOf(src)
	padded, err := dynimage.Clone(v, 16)
	if err != nil {
		t.Fatal(err)
	}
	relabelled, _ := dynimage.FromBytes(padded.Bytes(), padded.Layout(),
		dynview.NewSemantics(dynview.PixelFormatX, dynview.SampleFormatUnsignedInteger))
	writeDynv(t, filepath.Join(dir, "a.dynv"), relabelled.ConstantView())

	writePNG(t, filepath.Join(dir, "c.png"), grayImage(6, 4, 4))

	if err := run(t, &CLICmd{A: filepath.Join(dir, "a.png"), B: filepath.Join(dir, "a.dynv")}); err != nil {
		t.Errorf("raw compare error = %v", err)
	}

	err = run(t, &CLICmd{A: filepath.Join(dir, "a.png"), B: filepath.Join(dir, "a.dynv"), Strict: true})
	if !errors.Is(err, ErrDiffer) {
		t.Errorf("strict compare error = %v, want ErrDiffer", err)
	}

	err = run(t, &CLICmd{A: filepath.Join(dir, "a.png"), B: filepath.Join(dir, "c.png")})
	if !errors.Is(err, ErrDiffer) {
		t.Errorf("different content error = %v, want ErrDiffer", err)
	}
}

func TestCompareDirs(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	for i, name := range []string{"x", "y"} {
		img := grayImage(3, 3, uint8(i*50))
		writePNG(t, filepath.Join(dirA, name+".png"), img)
		v, _ := imgconv.ViewOf(img)
		writeDynv(t, filepath.Join(dirB, name+rawfile.Ext), v.ConstantView())
	}

	if err := run(t, &CLICmd{A: dirA, B: dirB}); err != nil {
		t.Errorf("Run() error = %v", err)
	}

	writePNG(t, filepath.Join(dirA, "z.png"), grayImage(1, 1, 0))
	err := run(t, &CLICmd{A: dirA, B: dirB})
	if !errors.Is(err, ErrDiffer) {
		t.Errorf("Run() with unpaired file error = %v, want ErrDiffer", err)
	}
}

func TestPairFiles(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	for _, p := range []string{filepath.Join(dirA, "one.png"), filepath.Join(dirA, "two.png"),
		filepath.Join(dirB, "two.dynv"), filepath.Join(dirB, "three.bmp")} {
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := pairFiles(dirA, dirB)
	if err != nil {
		t.Fatal(err)
	}
	// t.TempDir names are numbered, so dirA sorts before dirB.
	want := []pair{
		{a: filepath.Join(dirA, "one.png")},
		{a: filepath.Join(dirA, "two.png"), b: filepath.Join(dirB, "two.dynv")},
		{b: filepath.Join(dirB, "three.bmp")},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(pair{})); diff != "" {
		t.Errorf("pairFiles() mismatch (-want +got):\n%s", diff)
	}

	if err := os.WriteFile(filepath.Join(dirA, "one.gif"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := pairFiles(dirA, dirB); err == nil {
		t.Error("pairFiles() with ambiguous names error = nil")
	}
}

func TestValidateMixed(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.png")
	writePNG(t, file, grayImage(1, 1, 0))
	if err := (&CLICmd{A: dir, B: file}).Validate(nil); err == nil {
		t.Error("Validate(folder, file) error = nil")
	}
}
