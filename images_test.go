package main

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func TestWalkImages(t *testing.T) {
	root := t.TempDir()
	writeTestJPEG(t, filepath.Join(root, "a.jpg"), 320, 240)

	if err := os.MkdirAll(filepath.Join(root, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	png := fillImage(100, 50, color.NRGBA{255, 0, 0, 255})
	if err := imaging.Save(png, filepath.Join(root, "nested", "b.png")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("skip me"), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err := walkImages(root)
	if err != nil {
		t.Fatalf("walkImages failed: %v", err)
	}

	if len(dir.Files) != 2 {
		t.Fatalf("found %d files, want 2: %+v", len(dir.Files), dir.Files)
	}

	byName := map[string]FileInfo{}
	for _, f := range dir.Files {
		byName[f.Name] = f
	}

	a, ok := byName["a.jpg"]
	if !ok {
		t.Fatal("a.jpg not found")
	}
	if a.Image.Width != 320 || a.Image.Height != 240 {
		t.Errorf("a.jpg dimensions = %dx%d, want 320x240", a.Image.Width, a.Image.Height)
	}

	b, ok := byName[filepath.Join("nested", "b.png")]
	if !ok {
		t.Fatal("nested/b.png not found")
	}
	if b.Image.Width != 100 || b.Image.Height != 50 {
		t.Errorf("b.png dimensions = %dx%d, want 100x50", b.Image.Width, b.Image.Height)
	}
}

func TestIsImagePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"photo.jpg", true},
		{"PHOTO.JPEG", true},
		{"shot.png", true},
		{"anim.webp", true},
		{"doc.pdf", false},
		{"archive.tar.gz", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := isImagePath(tt.path); got != tt.want {
			t.Errorf("isImagePath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestReadImageDimensions(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "dims.jpg")
	writeTestJPEG(t, path, 640, 480)

	w, h, err := readImageDimensions(path)
	if err != nil {
		t.Fatalf("readImageDimensions failed: %v", err)
	}
	if w != 640 || h != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480", w, h)
	}

	if _, _, err := readImageDimensions(filepath.Join(root, "missing.jpg")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
