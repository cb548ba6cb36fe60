package services

import (
	"context"
	"errors"
)

type fakeAI struct {
	text      string
	err       error
	prompts   []string
	imageMIME string
}

func (f *fakeAI) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func (f *fakeAI) GenerateFromImage(_ context.Context, prompt string, _ []byte, mimeType string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.imageMIME = mimeType
	return f.text, f.err
}

var errProvider = errors.New("provider down")
