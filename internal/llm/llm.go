package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model produced no text candidates.
var ErrEmptyResponse = errors.New("llm: empty response from model")

// LLMClient produces text from a prompt. Calls may fail; callers decide how
// to degrade.
type LLMClient interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
	Close() error
}

type ctxKeySection struct{}

// WithSection tags ctx with the document section a call is generating.
func WithSection(ctx context.Context, section string) context.Context {
	return context.WithValue(ctx, ctxKeySection{}, section)
}

// SectionFrom returns the section tag stored in ctx.
func SectionFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeySection{}).(string); ok {
		return v
	}
	return "unknown"
}
