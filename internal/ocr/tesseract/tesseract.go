// Package tesseract provides the default OCR engine backed by the gosseract
// Tesseract bindings.
package tesseract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ajatt-tools/mangaocrd/internal/ocr"
)

// Engine implements ocr.Engine using a fresh gosseract client per call, so a
// failed recognition never leaves a wedged client behind.
type Engine struct {
	clientFactory func() *gosseract.Client
	languages     []string
}

// New constructs a Tesseract-backed engine. Tesseract is CPU-only; ForceCPU
// additionally caps its OpenMP parallelism at one thread so the option has
// an observable effect.
func New(opts ocr.Options) *Engine {
	if opts.ForceCPU {
		os.Setenv("OMP_THREAD_LIMIT", "1")
	}
	return &Engine{
		clientFactory: gosseract.NewClient,
		languages:     opts.Languages,
	}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize runs OCR over the image file at imagePath and returns the
// recognized text with surrounding whitespace trimmed.
func (e *Engine) Recognize(ctx context.Context, imagePath string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image %s: %w", imagePath, err)
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}
