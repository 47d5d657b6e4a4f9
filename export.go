package main

import (
	"strconv"
	"strings"
)

// PresetFree is the default crop preset: the box is user-drawn or absent.
const PresetFree = "free"

// PresetCustom marks a preset whose ratio comes from explicit dimensions.
const PresetCustom = "custom"

// NamedPresets lists the fixed-ratio presets the editor offers.
var NamedPresets = []string{"1:1", "4:3", "3:4", "16:9", "9:16", "3:2", "2:3"}

// CropPreset selects how the crop box is determined: drawn freely, computed
// from a named a:b ratio, or computed from custom dimensions.
type CropPreset struct {
	Name   string  `json:"preset"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// FreePreset returns the free-crop preset.
func FreePreset() CropPreset {
	return CropPreset{Name: PresetFree}
}

// IsFree reports whether the preset leaves the box user-drawn. An unknown or
// empty name behaves as free.
func (p CropPreset) IsFree() bool {
	switch p.Name {
	case "", PresetFree:
		return true
	case PresetCustom:
		return false
	}
	return !strings.Contains(p.Name, ":")
}

// Ratio resolves the preset's target aspect ratio. imageRatio is the source
// image's width/height; drawn is the committed free-crop box, if any. A
// fixed ratio with a zero denominator reports false. Invalid custom
// dimensions fall back to behaving like free.
func (p CropPreset) Ratio(imageRatio float64, drawn *Box) (float64, bool) {
	switch {
	case p.Name == PresetCustom:
		if isPositiveFinite(p.Width) && isPositiveFinite(p.Height) {
			return p.Width / p.Height, true
		}
		return imageRatio, true
	case strings.Contains(p.Name, ":"):
		a, b, ok := splitRatio(p.Name)
		if !ok || b == 0 {
			return 0, false
		}
		return a / b, true
	default:
		if drawn != nil {
			return drawn.Ratio() * imageRatio, true
		}
		return imageRatio, true
	}
}

// BaseBox computes the crop box before zoom and pan are applied. Free crops
// use the drawn box (or the whole image when none is drawn); ratio presets
// use the largest centered box of the target aspect. An unresolvable ratio
// falls back to the full image.
func (p CropPreset) BaseBox(imageRatio float64, drawn *Box) Box {
	if p.IsFree() {
		if drawn != nil {
			return drawn.Normalize()
		}
		return FullBox()
	}
	ratio, ok := p.Ratio(imageRatio, drawn)
	if !ok {
		return FullBox()
	}
	return CenterBoxByRatio(imageRatio, ratio)
}

func splitRatio(name string) (a, b float64, ok bool) {
	parts := strings.SplitN(name, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	a, errA := strconv.ParseFloat(parts[0], 64)
	b, errB := strconv.ParseFloat(parts[1], 64)
	if errA != nil || errB != nil || a <= 0 || b < 0 {
		return 0, 0, false
	}
	return a, b, true
}

// Adjustments holds the color adjustment sliders. All values are integers
// centered on zero; the renderer maps them to filter strengths.
type Adjustments struct {
	Brightness  int `json:"brightness"`
	Contrast    int `json:"contrast"`
	Saturation  int `json:"saturation"`
	Exposure    int `json:"exposure"`
	Shadows     int `json:"shadows"`
	Highlights  int `json:"highlights"`
	Temperature int `json:"temperature"`
	Tint        int `json:"tint"`
	Sharpen     int `json:"sharpen"`
}

// IsZero reports whether every slider is at its neutral position.
func (a Adjustments) IsZero() bool {
	return a == Adjustments{}
}

// ExportPayload is the final edit description handed to the renderer (or an
// external backend). CropBox is present only for a free preset with a drawn
// box.
type ExportPayload struct {
	Crop        CropPreset  `json:"crop"`
	CropBox     *Box        `json:"crop_box,omitempty"`
	Rotation    int         `json:"rotation"`
	Zoom        float64     `json:"zoom"`
	Pan         Pan         `json:"pan"`
	Adjustments Adjustments `json:"adjustments"`
}

// EffectiveBox resolves the payload's visible sub-rectangle of an image with
// the given aspect ratio.
func (p ExportPayload) EffectiveBox(imageRatio float64) Box {
	base := p.Crop.BaseBox(imageRatio, p.CropBox)
	return EffectiveBox(base, clamp(p.Zoom, 1, maxZoom), p.Pan)
}
