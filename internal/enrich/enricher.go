package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kalambet/grokwords/internal/llm"
)

var (
	// ErrEmptyContent is returned when the provider reply has no text.
	ErrEmptyContent = errors.New("no content returned from API")
	// ErrUnexpectedFormat is returned when a word-info reply has fewer than four fields.
	ErrUnexpectedFormat = errors.New("unexpected response format from API")
	// ErrNoImage is returned when image generation yields no URL.
	ErrNoImage = errors.New("no image URL returned from API")
)

// Provider is the subset of the LLM client the enricher uses.
type Provider interface {
	Chat(ctx context.Context, prompt string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Failure tags a provider error with the operation it broke.
type Failure struct {
	Op  string
	Err error
}

func (f *Failure) Error() string {
	var apiErr *llm.APIError
	if errors.As(f.Err, &apiErr) {
		return fmt.Sprintf("failed to %s - %s", f.Op, apiErr.Reason)
	}
	return fmt.Sprintf("failed to %s: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Enricher requests word content from a provider.
type Enricher struct {
	provider Provider
}

// New returns an Enricher backed by p.
func New(p Provider) *Enricher {
	return &Enricher{provider: p}
}

// Info fetches part of speech, phonetic, definition and translation.
func (e *Enricher) Info(ctx context.Context, word, language string) (Info, error) {
	content, err := e.provider.Chat(ctx, InfoPrompt(word, language))
	if err != nil {
		return Info{}, &Failure{Op: "fetch word info", Err: err}
	}
	if strings.TrimSpace(content) == "" {
		return Info{}, ErrEmptyContent
	}

	res := ParseInfo(content)
	if !res.Ok {
		return Info{}, fmt.Errorf("%w: %q", ErrUnexpectedFormat, res.Raw)
	}
	return res.Info, nil
}

// Example fetches and cleans an example sentence block.
func (e *Enricher) Example(ctx context.Context, word, pos, language string) (string, error) {
	content, err := e.provider.Chat(ctx, ExamplePrompt(word, pos, language))
	if err != nil {
		return "", &Failure{Op: "generate example", Err: err}
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	return CleanExample(content, language), nil
}

// Image renders a flashcard for the word and returns its URL.
func (e *Enricher) Image(ctx context.Context, word, definition, example string) (string, error) {
	url, err := e.provider.GenerateImage(ctx, ImagePrompt(word, definition, example))
	if err != nil {
		return "", &Failure{Op: "generate image", Err: err}
	}
	if url == "" {
		return "", ErrNoImage
	}
	return url, nil
}
