package tokenizer

import (
	"fmt"
	"io"
	"strings"
)

// Options selects and configures the exact back-end.
type Options struct {
	Backend  string // "anthropic", "tiktoken", "tiktoken-embedded" or "simple"
	Model    string // Anthropic model name
	Encoding string // tiktoken encoding name
	APIKey   string
	BaseURL  string
}

// ValidBackends lists the accepted Options.Backend values.
func ValidBackends() []string {
	return []string{BackendAnthropic, BackendTiktoken, BackendEmbedded, BackendSimple}
}

// New builds a Fallback around the back-end named in opts. Only an unknown
// back-end name is an error; a back-end that cannot be constructed is
// recorded in PrimaryErr and reported on first use.
func New(opts Options, warn io.Writer) (*Fallback, error) {
	f := &Fallback{Warn: warn}

	switch strings.ToLower(opts.Backend) {
	case BackendAnthropic, "":
		c, err := NewAnthropic(opts.APIKey, opts.Model, opts.BaseURL)
		f.setPrimary(c, err)
	case BackendTiktoken:
		f.Primary = NewTiktoken(opts.Encoding)
	case BackendEmbedded:
		c, err := NewEmbedded(opts.Encoding)
		f.setPrimary(c, err)
	case BackendSimple:
		f.Primary = Simple{}
	default:
		return nil, fmt.Errorf("tokenizer: unknown backend %q; valid backends: %s",
			opts.Backend, strings.Join(ValidBackends(), ", "))
	}
	return f, nil
}

func (f *Fallback) setPrimary(c Counter, err error) {
	if err != nil {
		f.PrimaryErr = err
		return
	}
	f.Primary = c
}
