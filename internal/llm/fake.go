package llm

import (
	"context"
	"sync"
)

// FakeClient answers prompts with a caller-supplied function, for offline use
// and tests. It records every prompt it receives.
type FakeClient struct {
	respond func(ctx context.Context, prompt string) (string, error)

	mu    sync.Mutex
	calls []string
}

func NewFakeClient(respond func(ctx context.Context, prompt string) (string, error)) *FakeClient {
	if respond == nil {
		respond = func(context.Context, string) (string, error) { return "", nil }
	}
	return &FakeClient{respond: respond}
}

// NewStaticClient returns a FakeClient that always answers text.
func NewStaticClient(text string) *FakeClient {
	return NewFakeClient(func(context.Context, string) (string, error) { return text, nil })
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, prompt)
	f.mu.Unlock()
	return f.respond(ctx, prompt)
}

// Calls returns a copy of the prompts received so far.
func (f *FakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
