package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

// thumbSize is the bounding box rendered thumbnails are fitted into.
const thumbSize = 400

// Exports is a batch of export operations received from the editor.
type Exports = []ExportOperation

// ExportOperation asks for one source image to be rendered with an edit
// payload and saved as a new version.
type ExportOperation struct {
	Filename string        `json:"filename"`
	Edit     ExportPayload `json:"edit"`
}

// ExportResult describes where an executed export landed on disk.
type ExportResult struct {
	Source    string `json:"source"`
	Version   string `json:"version"`
	Thumbnail string `json:"thumbnail"`
}

// ExportExecutor renders export operations against files under BaseDir and
// writes versioned outputs plus thumbnails to OutputDir.
type ExportExecutor struct {
	BaseDir   string
	OutputDir string
	Renderer  Renderer
}

// Exec runs all operations on a bounded worker pool. It returns the first
// error encountered; every operation is still attempted.
func (e ExportExecutor) Exec(ctx context.Context, ops Exports) error {
	if len(ops) == 0 {
		log.Ctx(ctx).Warn().Msg("no exports to execute")
		return nil
	}

	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", e.OutputDir, err)
	}

	pooler := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(runtime.NumCPU())
	for _, op := range ops {
		pooler.Go(func(ctx context.Context) error {
			result, err := e.exportOne(ctx, op)
			if err != nil {
				log.Ctx(ctx).Error().Err(err).
					Str("filename", op.Filename).
					Msg("failed to export")
				return err
			}
			log.Ctx(ctx).Info().
				Str("source", result.Source).
				Str("version", result.Version).
				Msg("exported")
			return nil
		})
	}

	if err := pooler.Wait(); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("finished with errors")
		return err
	}
	return nil
}

func (e ExportExecutor) exportOne(ctx context.Context, op ExportOperation) (ExportResult, error) {
	sourcePath := filepath.Join(e.BaseDir, op.Filename)
	f, err := os.Open(sourcePath)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to open file %s: %w", sourcePath, err)
	}
	defer f.Close()

	var rendered bytes.Buffer
	if err := e.Renderer.Render(ctx, f, &rendered, op.Edit); err != nil {
		return ExportResult{}, fmt.Errorf("failed to render %s: %w", op.Filename, err)
	}

	token := versionToken()
	base := strings.TrimSuffix(filepath.Base(op.Filename), filepath.Ext(op.Filename))
	versionName := fmt.Sprintf("%s-ver_%s%s", base, token, e.outputExt())
	thumbName := fmt.Sprintf("%s-ver_%s_thumb.jpg", base, token)

	versionPath := filepath.Join(e.OutputDir, versionName)
	if err := os.WriteFile(versionPath, rendered.Bytes(), 0644); err != nil {
		return ExportResult{}, fmt.Errorf("failed to write version %s: %w", versionName, err)
	}

	thumbPath := filepath.Join(e.OutputDir, thumbName)
	if err := writeThumbnail(rendered.Bytes(), thumbPath); err != nil {
		// A missing thumbnail never fails the export itself.
		log.Ctx(ctx).Error().Err(err).Str("filename", op.Filename).Msg("failed to write thumbnail")
		thumbPath = ""
	}

	return ExportResult{Source: op.Filename, Version: versionPath, Thumbnail: thumbPath}, nil
}

func (e ExportExecutor) outputExt() string {
	if r, ok := e.Renderer.(*ImagingRenderer); ok && r.Format == "webp" {
		return ".webp"
	}
	return ".jpg"
}

// versionToken returns the random hex token version filenames carry.
func versionToken() string {
	u := uuid.New()
	return fmt.Sprintf("%x", u[:])
}

func writeThumbnail(rendered []byte, path string) error {
	img, err := imaging.Decode(bytes.NewReader(rendered))
	if err != nil {
		return fmt.Errorf("failed to decode rendered image: %w", err)
	}
	thumb := imaging.Fit(img, thumbSize, thumbSize, imaging.Lanczos)
	if err := imaging.Save(thumb, path, imaging.JPEGQuality(85)); err != nil {
		return fmt.Errorf("failed to save thumbnail %s: %w", path, err)
	}
	return nil
}
