package main

import "math"

// minBoxDim is the smallest allowed normalized box dimension. It keeps
// downstream divisions (surface scaling, ratio resolution) away from zero.
const minBoxDim = 1e-4

// Box is a sub-rectangle of an image in normalized coordinates: all fields
// are fractions of the full image size, so {0,0,1,1} is the whole image.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// FullBox returns the box covering the entire image.
func FullBox() Box {
	return Box{X: 0, Y: 0, W: 1, H: 1}
}

// Normalize clamps the box into the unit square and guarantees positive,
// in-range dimensions. A box with non-positive width or height collapses to
// the full image. Normalize is idempotent.
func (b Box) Normalize() Box {
	x := clamp(b.X, 0, 1)
	y := clamp(b.Y, 0, 1)
	w := clamp(b.W, 0, 1)
	h := clamp(b.H, 0, 1)

	if w <= 0 || h <= 0 {
		return FullBox()
	}
	if x+w > 1 {
		w = 1 - x
	}
	if y+h > 1 {
		h = 1 - y
	}
	if w < minBoxDim {
		w = minBoxDim
		if x+w > 1 {
			x = 1 - w
		}
	}
	if h < minBoxDim {
		h = minBoxDim
		if y+h > 1 {
			y = 1 - h
		}
	}
	return Box{X: x, Y: y, W: w, H: h}
}

// Ratio returns the box's own aspect ratio in image-relative units. Multiply
// by the image aspect to get the ratio in real pixels.
func (b Box) Ratio() float64 {
	n := b.Normalize()
	return n.W / n.H
}

// Contains reports whether other lies fully inside b, with a small tolerance
// for float rounding.
func (b Box) Contains(other Box) bool {
	const eps = 1e-9
	return other.X >= b.X-eps &&
		other.Y >= b.Y-eps &&
		other.X+other.W <= b.X+b.W+eps &&
		other.Y+other.H <= b.Y+b.H+eps
}

// CenterBoxByRatio returns the largest centered box with aspect targetRatio
// that fits inside a full image of aspect imageRatio. Degenerate ratios fall
// back to the full image.
func CenterBoxByRatio(imageRatio, targetRatio float64) Box {
	if !isPositiveFinite(imageRatio) || !isPositiveFinite(targetRatio) {
		return FullBox()
	}
	if imageRatio >= targetRatio {
		// Image is wider than the target: width is constrained.
		w := targetRatio / imageRatio
		return Box{X: (1 - w) / 2, Y: 0, W: w, H: 1}.Normalize()
	}
	h := imageRatio / targetRatio
	return Box{X: 0, Y: (1 - h) / 2, W: 1, H: h}.Normalize()
}

// Pan is a normalized pan offset. Each axis ranges over [-1,1] and moves the
// zoom window across the available slack inside the base crop box.
type Pan struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Clamp limits both axes to [-1,1].
func (p Pan) Clamp() Pan {
	return Pan{X: clamp(p.X, -1, 1), Y: clamp(p.Y, -1, 1)}
}

// EffectiveBox derives the currently visible sub-rectangle from a base crop
// box, a zoom level and a pan offset. Zoom acts as a magnifier confined to
// the base box: the result is always fully contained in the normalized base,
// so panning can never expose pixels outside the crop.
func EffectiveBox(base Box, zoom float64, pan Pan) Box {
	base = base.Normalize()
	if zoom <= 1 || math.IsNaN(zoom) {
		return base
	}
	pan = pan.Clamp()

	// Floor the shrunk dimensions before deriving slack: a window thinner
	// than the minimum would be re-inflated by Normalize after clamping,
	// pushing it past the base edge.
	w := math.Max(base.W/zoom, minBoxDim)
	h := math.Max(base.H/zoom, minBoxDim)
	slackX := (base.W - w) / 2
	slackY := (base.H - h) / 2

	cx := base.X + base.W/2 + pan.X*slackX
	cy := base.Y + base.H/2 + pan.Y*slackY

	x := clamp(cx-w/2, base.X, base.X+base.W-w)
	y := clamp(cy-h/2, base.Y, base.Y+base.H-h)

	return Box{X: x, Y: y, W: w, H: h}.Normalize()
}

// SurfaceStyle positions and scales a full source image so that a chosen
// sub-rectangle exactly fills a target area. ScaleX and ScaleY are the pixel
// dimensions the whole source must render at; OffsetX and OffsetY shift it so
// the sub-rectangle lands at the target's origin.
type SurfaceStyle struct {
	ScaleX  float64 `json:"scale_x"`
	ScaleY  float64 `json:"scale_y"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// MapSurface computes the style that renders box filling a targetW×targetH
// area. Rotation is not part of the mapping; it is a display-only transform
// applied around the target's own center.
func MapSurface(box Box, targetW, targetH float64) SurfaceStyle {
	box = box.Normalize()
	sx := targetW / box.W
	sy := targetH / box.H
	return SurfaceStyle{
		ScaleX:  sx,
		ScaleY:  sy,
		OffsetX: -box.X * sx,
		OffsetY: -box.Y * sy,
	}
}

// FitViewport sizes a viewport of the given aspect ratio inside a bounding
// area, as large as possible without overflow.
func FitViewport(ratio, maxW, maxH float64) (w, h float64) {
	if !isPositiveFinite(ratio) || maxW <= 0 || maxH <= 0 {
		return maxW, maxH
	}
	if maxW/maxH >= ratio {
		return maxH * ratio, maxH
	}
	return maxW, maxW / ratio
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
