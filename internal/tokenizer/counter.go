// Package tokenizer counts LLM tokens. An exact back-end is preferred; when it
// is missing or fails, counting degrades to a character-ratio estimate.
package tokenizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// CharsPerToken is the divisor used by the approximate counter.
const CharsPerToken = 3

// Back-end name constants.
const (
	BackendAnthropic = "anthropic"
	BackendTiktoken  = "tiktoken"
	BackendEmbedded  = "tiktoken-embedded"
	BackendSimple    = "simple"
)

var (
	// ErrUnavailable means the exact back-end cannot be used in this environment.
	ErrUnavailable = errors.New("tokenizer unavailable")
	// ErrFailed means the exact back-end was reachable but returned an error.
	ErrFailed = errors.New("tokenizer failed")
)

// Counter is a token counting strategy.
type Counter interface {
	Count(ctx context.Context, text string) (int, error)
	Name() string
}

// Simple estimates tokens as the rune count divided by CharsPerToken.
// It never fails.
type Simple struct{}

func (Simple) Name() string { return BackendSimple }

func (Simple) Count(_ context.Context, text string) (int, error) {
	return EstimateTokens(text), nil
}

// EstimateTokens returns utf8.RuneCountInString(text) / CharsPerToken.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / CharsPerToken
}

// Fallback tries Primary and falls back to Simple on any error. Failures are
// reported to Warn and never returned to the caller.
type Fallback struct {
	Primary Counter
	// PrimaryErr records why Primary could not be constructed. When set,
	// Primary is ignored.
	PrimaryErr error
	Warn       io.Writer

	fellBack bool
}

// Count returns a non-negative token count for text.
func (f *Fallback) Count(ctx context.Context, text string) int {
	if f.PrimaryErr != nil {
		f.warnf("%v", f.PrimaryErr)
		return f.simple(ctx, text)
	}
	if f.Primary == nil {
		return f.simple(ctx, text)
	}

	n, err := f.Primary.Count(ctx, text)
	if err == nil && n < 0 {
		err = fmt.Errorf("%w: %s returned negative count %d", ErrFailed, f.Primary.Name(), n)
	}
	if err != nil {
		f.warnf("Error using %s tokenizer: %v", f.Primary.Name(), err)
		return f.simple(ctx, text)
	}
	return n
}

// Method reports which strategy produced the last count.
func (f *Fallback) Method() string {
	if f.fellBack || f.Primary == nil || f.PrimaryErr != nil {
		return BackendSimple
	}
	return f.Primary.Name()
}

func (f *Fallback) simple(ctx context.Context, text string) int {
	f.fellBack = true
	n, _ := Simple{}.Count(ctx, text)
	return n
}

func (f *Fallback) warnf(format string, args ...any) {
	if f.Warn == nil {
		return
	}
	fmt.Fprintf(f.Warn, "⚠️  Warning: "+format+"\n", args...)
	fmt.Fprintln(f.Warn, "   Falling back to simple estimation.")
	fmt.Fprintln(f.Warn)
}
