package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Renderer applies an edit payload to a full-resolution image, reading the
// source from r and writing the rendered result to w.
type Renderer interface {
	Render(ctx context.Context, r io.Reader, w io.Writer, edit ExportPayload) error
}

// ImagingRenderer renders edits with the disintegration/imaging library.
// Output is JPEG by default; set Format to "webp" for lossy WebP.
type ImagingRenderer struct {
	Format  string
	Quality int
}

// NewImagingRenderer creates a renderer producing JPEG at quality 92.
func NewImagingRenderer() *ImagingRenderer {
	return &ImagingRenderer{Format: "jpeg", Quality: 92}
}

// Render implements the Renderer interface. It decodes the source image,
// applies rotation, the effective crop window and the color adjustments, and
// encodes the result.
func (rd *ImagingRenderer) Render(ctx context.Context, r io.Reader, w io.Writer, edit ExportPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	img := applyEdit(src, edit)

	switch rd.Format {
	case "webp":
		return webp.Encode(w, img, &webp.Options{Quality: float32(rd.Quality)})
	default:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(rd.Quality))
	}
}

// applyEdit runs the edit pipeline: rotation first (it changes the canvas
// the crop coordinates refer to), then the effective crop window, then the
// adjustment sliders.
func applyEdit(src image.Image, edit ExportPayload) *image.NRGBA {
	img := imaging.Clone(src)

	if deg := wrapDegrees(edit.Rotation); deg != 0 {
		// Positive rotation turns the image clockwise on screen.
		img = imaging.Rotate(img, float64(-deg), color.Black)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return img
	}

	eff := edit.EffectiveBox(float64(width) / float64(height))
	rect := pixelRect(eff, width, height)
	if rect != bounds {
		img = imaging.Crop(img, rect)
	}

	return applyAdjustments(img, edit.Adjustments)
}

// pixelRect converts a normalized box to a pixel rectangle inside a
// width×height image, never smaller than one pixel.
func pixelRect(b Box, width, height int) image.Rectangle {
	b = b.Normalize()
	x0 := int(math.Round(b.X * float64(width)))
	y0 := int(math.Round(b.Y * float64(height)))
	x1 := int(math.Round((b.X + b.W) * float64(width)))
	y1 := int(math.Round((b.Y + b.H) * float64(height)))

	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return image.Rect(x0, y0, x1, y1).Intersect(image.Rect(0, 0, width, height))
}

func applyAdjustments(img *image.NRGBA, a Adjustments) *image.NRGBA {
	if a.IsZero() {
		return img
	}

	// Exposure folds into brightness at reduced weight.
	if f := float64(a.Brightness) + 0.6*float64(a.Exposure); f != 0 {
		img = imaging.AdjustBrightness(img, clamp(f, -100, 100))
	}
	if a.Contrast != 0 {
		img = imaging.AdjustContrast(img, clamp(float64(a.Contrast), -100, 100))
	}
	if a.Saturation != 0 {
		img = imaging.AdjustSaturation(img, clamp(float64(a.Saturation), -100, 100))
	}
	if a.Shadows != 0 || a.Highlights != 0 {
		img = adjustTone(img, float64(a.Shadows)/100, float64(a.Highlights)/100)
	}
	if a.Temperature != 0 || a.Tint != 0 {
		img = adjustWhiteBalance(img, float64(a.Temperature), float64(a.Tint))
	}
	if a.Sharpen > 0 {
		img = imaging.Sharpen(img, clamp(float64(a.Sharpen), 0, 100)/25)
	}
	return img
}

// adjustTone lifts or drops the dark and bright halves of the tonal range
// independently, pivoting around middle gray.
func adjustTone(img *image.NRGBA, shadows, highlights float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.R = toneChannel(c.R, shadows, highlights)
		c.G = toneChannel(c.G, shadows, highlights)
		c.B = toneChannel(c.B, shadows, highlights)
		return c
	})
}

func toneChannel(v uint8, shadows, highlights float64) uint8 {
	f := float64(v)
	if f < 128 {
		f += shadows * (128 - f) / 2
	} else {
		f += highlights * (f - 128) / 2
	}
	return clamp8(f)
}

// adjustWhiteBalance applies per-channel gains: temperature trades red
// against blue, tint pushes green against magenta.
func adjustWhiteBalance(img *image.NRGBA, temperature, tint float64) *image.NRGBA {
	rGain := 1 + temperature/200
	bGain := 1 - temperature/400
	gGain := 1 + tint/200
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.R = clamp8(float64(c.R) * rGain)
		c.G = clamp8(float64(c.G) * gGain)
		c.B = clamp8(float64(c.B) * bGain)
		return c
	})
}

func clamp8(f float64) uint8 {
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f + 0.5)
}
