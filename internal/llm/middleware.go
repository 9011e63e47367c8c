package llm

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Middleware decorates an LLMClient with a cross-cutting concern.
type Middleware func(LLMClient) LLMClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner LLMClient, mws ...Middleware) LLMClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Timeout --------

// WithTimeout bounds every call to d. Zero or negative disables it.
func WithTimeout(d time.Duration) Middleware {
	return func(next LLMClient) LLMClient {
		if d <= 0 {
			return next
		}
		return &timeoutClient{next: next, d: d}
	}
}

type timeoutClient struct {
	next LLMClient
	d    time.Duration
}

func (c *timeoutClient) Name() string { return c.next.Name() }
func (c *timeoutClient) Close() error { return c.next.Close() }
func (c *timeoutClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.d)
	defer cancel()
	return c.next.GenerateText(ctx, prompt)
}

// -------- Rate limiting --------

// RateLimit throttles calls to rps with the given burst.
// If rps <= 0, the limiter is disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next LLMClient) LLMClient {
		if rps <= 0 {
			return next
		}
		if burst <= 0 {
			burst = 1
		}
		return &rateLimited{next: next, rl: rate.NewLimiter(rate.Limit(rps), burst)}
	}
}

type rateLimited struct {
	next LLMClient
	rl   *rate.Limiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error { return c.next.Close() }
func (c *rateLimited) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}
	return c.next.GenerateText(ctx, prompt)
}

// -------- Logging --------

// WithLogging logs request size, latency and errors. A nil log uses the
// standard logrus logger.
func WithLogging(log logger.FieldLogger) Middleware {
	if log == nil {
		log = logger.StandardLogger()
	}
	return func(next LLMClient) LLMClient {
		return &logging{next: next, log: log}
	}
}

type logging struct {
	next LLMClient
	log  logger.FieldLogger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }
func (l *logging) GenerateText(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	entry := l.log.WithFields(logger.Fields{
		"model":   l.next.Name(),
		"section": SectionFrom(ctx),
	})
	entry.Debugf("LLM request: %d bytes", len(prompt))
	out, err := l.next.GenerateText(ctx, prompt)
	if err != nil {
		entry.WithError(err).Warnf("LLM error after %s", time.Since(start))
		return out, err
	}
	entry.Debugf("LLM response: %d bytes in %s", len(out), time.Since(start))
	return out, nil
}
