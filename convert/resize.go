package convert

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"pixview/dynimage"
	"pixview/dynview"
	"pixview/imgconv"

	"golang.org/x/image/draw"
)

// resize scales src into a new image with the same channel layout and
// semantics. Width or height 0 keeps the source size on that axis. Without
// crop the aspect ratio is kept by shrinking the destination, or by centring
// the picture on fillColor when one is given.
func resize[M dynview.Modifiability](logger *slog.Logger, src dynview.View[M], width, height, align int,
	crop bool, fillColor color.Color,
) (*dynimage.Image, error) {
	srcImg, err := imgconv.NewAdapter(src)
	if err != nil {
		return nil, fmt.Errorf("could not read source pixels: %w", err)
	}

	srcBounds := srcImg.Bounds()
	srcWidth := float64(srcBounds.Dx())
	srcHeight := float64(srcBounds.Dy())
	if srcBounds.Empty() {
		return nil, fmt.Errorf("cannot resize empty image")
	}

	destWidth := float64(width)
	if destWidth == 0 {
		destWidth = srcWidth
	}

	destHeight := float64(height)
	if destHeight == 0 {
		destHeight = srcHeight
	}

	if (srcWidth == destWidth) && (srcHeight == destHeight) {
		return dynimage.Clone(src, align)
	}

	destSize := image.Rect(0, 0, int(destWidth), int(destHeight))
	destBounds := image.Rect(0, 0, int(destWidth), int(destHeight))

	srcAR := srcWidth / srcHeight
	destAR := destWidth / destHeight
	var fill bool
	if crop {
		if srcAR < destAR {
			dh := int(math.Round((srcHeight - srcWidth/destAR) / 2))
			srcBounds.Min.Y += dh
			srcBounds.Max.Y -= dh
		} else if srcAR > destAR {
			dw := int(math.Round((srcWidth - srcHeight*destAR) / 2))
			srcBounds.Min.X += dw
			srcBounds.Max.X -= dw
		}
	} else {
		if srcAR < destAR {
			dw := destHeight * srcAR
			if fillColor == nil {
				destSize.Max.X = max(1, int(math.Round(dw)))
				destBounds.Max.X = destSize.Max.X
			} else if fill = destWidth > dw; fill {
				idw := int(math.Round((destWidth - dw) / 2))
				destBounds.Min.X += idw
				destBounds.Max.X -= idw
			}
		} else if srcAR > destAR {
			dh := destWidth / srcAR
			if fillColor == nil {
				destSize.Max.Y = max(1, int(math.Round(dh)))
				destBounds.Max.Y = destSize.Max.Y
			} else if fill = destHeight > dh; fill {
				idh := int(math.Round((destHeight - dh) / 2))
				destBounds.Min.Y += idh
				destBounds.Max.Y -= idh
			}
		}
	}

	l := src.Layout()
	dest, err := dynimage.NewAligned(destSize.Dx(), destSize.Dy(), l.NrChannels, l.NrBytesPerChannel, align,
		src.Semantics())
	if err != nil {
		return nil, err
	}
	destImg, err := imgconv.NewMutableAdapter(dest.View())
	if err != nil {
		return nil, err
	}

	logger.Info("resizing", "width", destBounds.Dx(), "height", destBounds.Dy())
	if fill {
		draw.Draw(destImg, destSize, image.NewUniform(fillColor), destSize.Min, draw.Src)
	}
	draw.CatmullRom.Scale(destImg, destBounds, srcImg, srcBounds, draw.Src, nil)

	return dest, nil
}
