// Package provider defines the encoder and generation capability interfaces
// consumed by the search and CLI layers, plus their OpenAI-backed
// implementation. One interface per capability so a caller depends only on
// what it actually invokes.
package provider

import (
	"context"
	"errors"
)

// ErrUnsupportedOperation indicates the provider does not implement the
// requested capability.
var ErrUnsupportedOperation = errors.New("operation not supported by this provider")

// ErrNotConfigured indicates the provider is missing required configuration
// (typically an API key).
var ErrNotConfigured = errors.New("provider not configured")

// Encoder maps text or raw image bytes into the shared embedding space.
// Implementations may return ErrUnsupportedOperation for a modality they
// cannot serve; callers then supply precomputed vectors instead.
type Encoder interface {
	EncodeText(ctx context.Context, text string) ([]float64, error)
	EncodeImage(ctx context.Context, image []byte) ([]float64, error)
}

// TextGenerator produces a free-text description from a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ImageGenerator produces an in-memory image from a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}
