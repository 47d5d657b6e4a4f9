package main

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestCropPresetRatio(t *testing.T) {
	imageRatio := 4.0 / 3.0
	drawn := &Box{0.1, 0.1, 0.6, 0.3}

	tests := []struct {
		name   string
		preset CropPreset
		drawn  *Box
		want   float64
		wantOK bool
	}{
		{"free without box uses image ratio", FreePreset(), nil, imageRatio, true},
		{"free with box uses box aspect in pixels", FreePreset(), drawn, 0.6 / 0.3 * imageRatio, true},
		{"named 4:3", CropPreset{Name: "4:3"}, nil, 4.0 / 3.0, true},
		{"named 9:16", CropPreset{Name: "9:16"}, nil, 9.0 / 16.0, true},
		{"zero denominator fails", CropPreset{Name: "4:0"}, nil, 0, false},
		{"custom dimensions", CropPreset{Name: PresetCustom, Width: 300, Height: 200}, nil, 1.5, true},
		{"invalid custom falls back to image ratio", CropPreset{Name: PresetCustom, Width: 0, Height: 200}, nil, imageRatio, true},
		{"custom with infinite width falls back", CropPreset{Name: PresetCustom, Width: math.Inf(1), Height: 200}, nil, imageRatio, true},
		{"unknown name behaves as free", CropPreset{Name: "auto"}, nil, imageRatio, true},
	}

	for _, tt := range tests {
		got, ok := tt.preset.Ratio(imageRatio, tt.drawn)
		if ok != tt.wantOK {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.wantOK)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: ratio = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCropPresetBaseBox(t *testing.T) {
	imageRatio := 4.0 / 3.0

	// Free preset without a drawn box covers the whole image.
	if got := FreePreset().BaseBox(imageRatio, nil); !boxesEqual(got, FullBox()) {
		t.Errorf("free preset without box: got %+v, want full box", got)
	}

	// Free preset with a drawn box normalizes it.
	drawn := &Box{0.2, 0.2, 0.9, 0.5}
	got := FreePreset().BaseBox(imageRatio, drawn)
	if !boxesEqual(got, Box{0.2, 0.2, 0.8, 0.5}) {
		t.Errorf("free preset with box: got %+v", got)
	}

	// A ratio preset centers the box; drawn boxes are ignored.
	got = CropPreset{Name: "16:9"}.BaseBox(imageRatio, drawn)
	if !boxesEqual(got, Box{0, 0.125, 1, 0.75}) {
		t.Errorf("16:9 on 4:3 image: got %+v, want {0, 0.125, 1, 0.75}", got)
	}

	// An unresolvable ratio falls back to the full image.
	got = CropPreset{Name: "1:0"}.BaseBox(imageRatio, nil)
	if !boxesEqual(got, FullBox()) {
		t.Errorf("unresolvable ratio: got %+v, want full box", got)
	}
}

func TestExportPayloadJSON(t *testing.T) {
	box := Box{0.25, 0.25, 0.5, 0.5}
	payload := ExportPayload{
		Crop:     FreePreset(),
		CropBox:  &box,
		Rotation: 90,
		Zoom:     2,
		Pan:      Pan{X: 0.5, Y: -0.5},
		Adjustments: Adjustments{
			Brightness: 10,
			Contrast:   -5,
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{"crop", "crop_box", "rotation", "zoom", "pan", "adjustments"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("payload JSON missing key %q", key)
		}
	}

	crop, ok := decoded["crop"].(map[string]any)
	if !ok || crop["preset"] != "free" {
		t.Errorf("expected crop.preset = free, got %v", decoded["crop"])
	}
	if strings.Contains(string(data), `"width"`) {
		t.Errorf("free preset should omit custom dimensions: %s", data)
	}
}

func TestExportPayloadOmitsNilCropBox(t *testing.T) {
	payload := ExportPayload{Crop: CropPreset{Name: "1:1"}, Zoom: 1}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "crop_box") {
		t.Errorf("crop_box should be omitted when nil: %s", data)
	}
}

func TestExportPayloadEffectiveBox(t *testing.T) {
	box := Box{0.25, 0.25, 0.5, 0.5}
	payload := ExportPayload{
		Crop:    FreePreset(),
		CropBox: &box,
		Zoom:    2,
	}

	eff := payload.EffectiveBox(1)
	if !box.Normalize().Contains(eff) {
		t.Errorf("effective box %+v escapes crop box %+v", eff, box)
	}
	if !almostEqual(eff.W, 0.25) || !almostEqual(eff.H, 0.25) {
		t.Errorf("zoom 2 should halve the crop box, got %+v", eff)
	}
}
