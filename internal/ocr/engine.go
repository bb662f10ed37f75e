// Package ocr defines the recognition engine contract the daemon dispatches
// through. Engines are black boxes: one image file in, recognized text out.
package ocr

import "context"

// Engine is the OCR provider contract.
//
// Recognition failures are considered fatal by the caller: a broken engine
// state is not safely recoverable mid-session, so errors propagate instead
// of being swallowed.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Options carries engine construction knobs shared by all providers.
type Options struct {
	// Languages are trained-data hints (e.g. "jpn", "jpn_vert").
	Languages []string
	// ForceCPU pins the engine to CPU-only, single-threaded operation.
	ForceCPU bool
}
