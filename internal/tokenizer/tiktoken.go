package tokenizer

import (
	"context"
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
	embedded "github.com/tiktoken-go/tokenizer"
)

// DefaultEncoding is the BPE encoding used by the tiktoken back-ends.
const DefaultEncoding = "cl100k_base"

// TiktokenCounter counts tokens with pkoukk/tiktoken-go. The BPE ranks are
// fetched on first use and cached under TIKTOKEN_CACHE_DIR; the fetch is
// bounded by the context passed to Count.
type TiktokenCounter struct {
	encoding    string
	enc         *tiktoken.Tiktoken
	getEncoding func(string) (*tiktoken.Tiktoken, error)
}

// NewTiktoken creates a TiktokenCounter for the named encoding. Nothing is
// loaded until the first Count.
func NewTiktoken(encoding string) *TiktokenCounter {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &TiktokenCounter{encoding: encoding, getEncoding: tiktoken.GetEncoding}
}

func (t *TiktokenCounter) Name() string { return BackendTiktoken }

func (t *TiktokenCounter) Count(ctx context.Context, text string) (int, error) {
	if t.enc == nil {
		enc, err := t.load(ctx)
		if err != nil {
			return 0, err
		}
		t.enc = enc
	}
	return len(t.enc.Encode(text, nil, nil)), nil
}

// load runs the encoding lookup, which may download, until ctx is done.
func (t *TiktokenCounter) load(ctx context.Context) (*tiktoken.Tiktoken, error) {
	type result struct {
		enc *tiktoken.Tiktoken
		err error
	}
	ch := make(chan result, 1)
	go func() {
		enc, err := t.getEncoding(t.encoding)
		ch <- result{enc, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("%w: tiktoken: get encoding %q: %w", ErrUnavailable, t.encoding, r.err)
		}
		return r.enc, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: tiktoken: get encoding %q: %w", ErrUnavailable, t.encoding, ctx.Err())
	}
}

// EmbeddedCounter counts tokens with tiktoken-go/tokenizer, whose
// vocabularies are compiled into the binary.
type EmbeddedCounter struct {
	codec embedded.Codec
}

// NewEmbedded creates an EmbeddedCounter for the named encoding.
func NewEmbedded(encoding string) (*EmbeddedCounter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	codec, err := embedded.Get(embedded.Encoding(encoding))
	if err != nil {
		return nil, fmt.Errorf("%w: tiktoken-embedded: get encoding %q: %w", ErrUnavailable, encoding, err)
	}
	return &EmbeddedCounter{codec: codec}, nil
}

func (e *EmbeddedCounter) Name() string { return BackendEmbedded }

func (e *EmbeddedCounter) Count(_ context.Context, text string) (int, error) {
	ids, _, err := e.codec.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("%w: tiktoken-embedded: encode: %w", ErrFailed, err)
	}
	return len(ids), nil
}
