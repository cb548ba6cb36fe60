package services

import (
	"context"
	"errors"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
)

const (
	DefaultVoice    = "en-US-Neural2-F"
	ttsLanguage     = "en-US"
	ttsChunkBytes   = 4500 // API limit is 5000 bytes per request
	MaxSpeechLength = 20000
)

// GoogleSpeech synthesizes MP3 audio with Cloud Text-to-Speech.
type GoogleSpeech struct {
	client *texttospeech.Client
}

func NewGoogleSpeech(ctx context.Context, credentialsPath string) (*GoogleSpeech, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create tts client: %w", err)
	}
	return &GoogleSpeech{client: client}, nil
}

func (g *GoogleSpeech) Close() error {
	return g.client.Close()
}

func (g *GoogleSpeech) Synthesize(ctx context.Context, text, voice string, rate float64) ([]byte, error) {
	if len(text) == 0 {
		return nil, errors.New("text is empty")
	}
	if voice == "" {
		voice = DefaultVoice
	}
	if rate <= 0 {
		rate = 1.0
	}

	var audio []byte
	for _, chunk := range splitTextToChunksByByte(text, ttsChunkBytes) {
		req := &texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{Text: chunk},
			},
			Voice: &texttospeechpb.VoiceSelectionParams{
				LanguageCode: ttsLanguage,
				Name:         voice,
			},
			AudioConfig: &texttospeechpb.AudioConfig{
				AudioEncoding: texttospeechpb.AudioEncoding_MP3,
				SpeakingRate:  rate,
			},
		}
		resp, err := g.client.SynthesizeSpeech(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("synthesize: %w", err)
		}
		audio = append(audio, resp.AudioContent...)
	}
	return audio, nil
}

// splitTextToChunksByByte cuts text at sentence ends where possible and never
// inside a UTF-8 sequence.
func splitTextToChunksByByte(text string, maxBytes int) []string {
	var chunks []string
	remaining := text

	for len(remaining) > 0 {
		if len(remaining) <= maxBytes {
			chunks = append(chunks, remaining)
			break
		}

		cutPos := maxBytes
		for i := cutPos; i > 0; i-- {
			c := remaining[i-1]
			if c == '.' || c == '!' || c == '?' || c == '\n' {
				cutPos = i
				break
			}
		}
		for cutPos > 0 && (remaining[cutPos]&0xC0) == 0x80 {
			cutPos--
		}
		if cutPos == 0 {
			cutPos = maxBytes
			for cutPos < len(remaining) && (remaining[cutPos]&0xC0) == 0x80 {
				cutPos++
			}
		}

		chunks = append(chunks, remaining[:cutPos])
		remaining = remaining[cutPos:]
	}
	return chunks
}
