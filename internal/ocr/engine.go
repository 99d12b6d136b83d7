// Package ocr is the text-recognition boundary: an image goes in, raw
// text comes out. The engine itself is a black box behind the Engine
// interface; this package owns its lifecycle (lazy init, reuse, explicit
// release) and the distinct recognition-failure error kind.
package ocr

import (
	"context"
	"errors"
)

// ErrRecognition marks engine failures (init or recognize). It is
// distinct from "no amount detected", which is a successful recognition
// with no extraction candidate.
var ErrRecognition = errors.New("text recognition failed")

// Engine converts an image into raw text. Recognition can take seconds;
// implementations must honor context cancellation.
type Engine interface {
	Recognize(ctx context.Context, image []byte, mimeType string) (string, error)
	Close() error
}

// Factory creates a fresh Engine. Called at most once per manager
// generation (first use, or first use after a Terminate).
type Factory func(ctx context.Context) (Engine, error)
