package model

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedOptions configures a RateLimited model.
type RateLimitedOptions struct {
	// RPS is the sustained request rate allowed against the wrapped model.
	RPS float64
	// Burst is the number of requests that may be issued back-to-back.
	Burst int
}

// RateLimited wraps a Model with a token-bucket limiter so concurrent agents
// cannot exceed a provider's request quota. Calls block in Wait until a slot
// frees up or ctx is done.
type RateLimited struct {
	inner   Model
	limiter *rate.Limiter
}

// NewRateLimited wraps inner with a limiter allowing 1 request/second by
// default.
func NewRateLimited(inner Model, optFns ...func(o *RateLimitedOptions)) *RateLimited {
	opts := RateLimitedOptions{
		RPS:   1,
		Burst: 1,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Burst < 1 {
		opts.Burst = 1
	}

	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(opts.RPS), opts.Burst),
	}
}

// Generate implements Model.
func (r *RateLimited) Generate(ctx context.Context, prompt string, optFns ...func(p *Parameters)) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	return r.inner.Generate(ctx, prompt, optFns...)
}

// Converse implements Model.
func (r *RateLimited) Converse(ctx context.Context, messages []ChatMessage, optFns ...func(p *Parameters)) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	return r.inner.Converse(ctx, messages, optFns...)
}

// GenerateWithFunctions implements FunctionCaller when the wrapped model does.
func (r *RateLimited) GenerateWithFunctions(ctx context.Context, messages []ChatMessage, functions []Function, optFns ...func(p *Parameters)) (*Response, error) {
	fc, ok := r.inner.(FunctionCaller)
	if !ok {
		return nil, fmt.Errorf("model %q does not support function calling", r.inner.Info().Name)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	return fc.GenerateWithFunctions(ctx, messages, functions, optFns...)
}

// Info implements Model.
func (r *RateLimited) Info() Info { return r.inner.Info() }
