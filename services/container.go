package services

import (
	"context"

	"github.com/aivora/aivora-backend/logger"
)

// FileStorage keeps uploaded originals and generated audio.
type FileStorage interface {
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, publicURL string) error
}

// Synthesizer turns text into MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string, rate float64) ([]byte, error)
}

// Container holds the collaborators handlers reach through the gin context.
// Storage, Speech and Google are optional and stay nil when not configured.
type Container struct {
	AI           Generator
	Storage      FileStorage
	Speech       Synthesizer
	Google       GoogleVerifier
	Log          *logger.Logger
	CookieSecure bool
}
