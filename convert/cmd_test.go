package convert

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"pixview/dynimage"
	"pixview/dynview"
	"pixview/imgconv"
	"pixview/parallel"

	"github.com/google/go-cmp/cmp"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var rgbaSemantics = dynview.NewSemantics(dynview.PixelFormatRGBA, dynview.SampleFormatUnsignedInteger)

func solid(t *testing.T, w, h int, c [4]uint8) *dynimage.Image {
	t.Helper()
	im, err := dynimage.New(dynview.PackedLayout(w, h, 4, 1), rgbaSemantics)
	if err != nil {
		t.Fatal(err)
	}
	v := im.View()
	for y := range h {
		for x := range w {
			dynview.SetPixel(v, x, y, c)
		}
	}
	return im
}

func TestParseHexToColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.Color
		wantErr bool
	}{
		{"#fff", color.RGBA{0xff, 0xff, 0xff, 0xff}, false},
		{"#1a2", color.RGBA{0x11, 0xaa, 0x22, 0xff}, false},
		{"#1a28", color.NRGBA{0x11, 0xaa, 0x22, 0x88}, false},
		{"#10a020", color.RGBA{0x10, 0xa0, 0x20, 0xff}, false},
		{"#10a02080", color.NRGBA{0x10, 0xa0, 0x20, 0x80}, false},
		{"#10a020ff", color.RGBA{0x10, 0xa0, 0x20, 0xff}, false},
		{"red", nil, true},
		{"#xyz", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseHexToColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHexToColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseHexToColor(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestOutputFormat(t *testing.T) {
	tests := []struct{ imgType, outType, want string }{
		{"png", "same", "png"},
		{"webp", "unsup:png", "png"},
		{"jpeg", "unsup:png", "jpeg"},
		{"jpeg", "tiff", "tiff"},
		{"dynv", "same", "dynv"},
		{"png", "dynv", "dynv"},
	}
	for _, tt := range tests {
		if got := outputFormat(tt.imgType, tt.outType); got != tt.want {
			t.Errorf("outputFormat(%q, %q) = %q, want %q", tt.imgType, tt.outType, got, tt.want)
		}
	}
}

func TestResize(t *testing.T) {
	red := [4]uint8{0xff, 0, 0, 0xff}
	tests := []struct {
		name          string
		w, h          int
		crop          bool
		fill          color.Color
		wantW, wantH  int
		wantCornerRed bool
	}{
		{"keep aspect", 50, 50, false, nil, 50, 25, true},
		{"crop", 50, 50, true, nil, 50, 50, true},
		{"fill", 50, 50, false, color.RGBA{0, 0, 0xff, 0xff}, 50, 50, false},
		{"width only", 20, 0, false, nil, 20, 10, true},
		{"same size", 100, 50, false, nil, 100, 50, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := solid(t, 100, 50, red)
			got, err := resize(discard, src.ConstantView(), tt.w, tt.h, 16, tt.crop, tt.fill)
			if err != nil {
				t.Fatalf("resize() error = %v", err)
			}
			if got.Width() != tt.wantW || got.Height() != tt.wantH {
				t.Fatalf("resize() = %dx%d, want %dx%d", got.Width(), got.Height(), tt.wantW, tt.wantH)
			}
			if got.Layout().StrideBytes%16 != 0 {
				t.Errorf("stride %d not aligned to 16", got.Layout().StrideBytes)
			}
			if diff := cmp.Diff(src.Semantics(), got.Semantics()); diff != "" {
				t.Errorf("Semantics() mismatch (-want +got):\n%s", diff)
			}

			centre := dynview.Pixel[[4]uint8](got.View(), tt.wantW/2, tt.wantH/2)
			if !near(centre, red) {
				t.Errorf("centre pixel = %v, want red", centre)
			}
			corner := dynview.Pixel[[4]uint8](got.View(), 0, 0)
			if near(corner, red) != tt.wantCornerRed {
				t.Errorf("corner pixel = %v, want red %v", corner, tt.wantCornerRed)
			}
		})
	}
}

func near(a, b [4]uint8) bool {
	for i := range a {
		if d := int(a[i]) - int(b[i]); d < -2 || d > 2 {
			return false
		}
	}
	return true
}

func TestResizeUnsupported(t *testing.T) {
	im, _ := dynimage.New(dynview.PackedLayout(4, 4, 4, 1),
		dynview.NewSemantics(dynview.PixelFormatCMYK, dynview.SampleFormatUnsignedInteger))
	if _, err := resize(discard, im.ConstantView(), 2, 2, 0, false, nil); err == nil {
		t.Error("resize(CMYK) error = nil")
	}
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

func TestRun(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for i := range src.Pix {
		src.Pix[i] = uint8(i)
	}
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 0xff
	}
	writePNG(t, filepath.Join(dir, "a.png"), src)
	writePNG(t, filepath.Join(dir, "b.png"), src.SubImage(image.Rect(2, 0, 6, 4)))

	for _, format := range []string{"dynv", "bmp", "tiff", "png"} {
		t.Run(format, func(t *testing.T) {
			cmd := &CLICmd{Scan: dir, Dest: "out-" + format, Align: 32, Format: format}
			if err := cmd.Validate(nil); err != nil {
				t.Fatal(err)
			}
			if err := cmd.Run(parallel.Start(2)); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			got, gotType, err := imgconv.Load(discard, filepath.Join(dir, "out-"+format, "a."+format))
			if err != nil {
				t.Fatal(err)
			}
			if gotType != format {
				t.Errorf("output format = %q, want %q", gotType, format)
			}
			want, _ := imgconv.ViewOf(src)
			if !dynview.Equal(want, got.View()) {
				t.Error("converted pixels differ from source")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cmd  CLICmd
	}{
		{"missing scan", CLICmd{Scan: filepath.Join(dir, "nope"), Dest: "out"}},
		{"bad align", CLICmd{Scan: dir, Dest: "out", Align: 12}},
		{"negative align", CLICmd{Scan: dir, Dest: "out", Align: -4}},
		{"resize without size", CLICmd{Scan: dir, Dest: "out", Resize: true}},
		{"bad fill", CLICmd{Scan: dir, Dest: "out", Fill: "#12"}},
		{"dest is scan", CLICmd{Scan: dir, Dest: dir}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(nil); err == nil {
				t.Error("Validate() error = nil")
			}
		})
	}
}
