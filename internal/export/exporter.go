// Package export renders a FileTokenReport for people and for tools.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tokgauge/tokgauge/internal/analyzer"
)

// Exporter renders a report to a string in a specific format.
type Exporter interface {
	Export(rep analyzer.FileTokenReport) (string, error)
}

// Options tune how an Exporter renders. Formats ignore options they do not use.
type Options struct {
	// Color enables ANSI styling of the status line.
	Color bool
	// Method names the counting strategy that produced the count.
	Method string
}

// registry maps format names to Exporter constructors.
var registry = map[string]func(Options) Exporter{
	"text": func(o Options) Exporter { return &TextExporter{Color: o.Color, Method: o.Method} },
	"json": func(Options) Exporter { return &JSONExporter{} },
}

// New returns the Exporter registered under name.
func New(name string, opts Options) (Exporter, error) {
	newExporter, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("export: unknown format %q; valid formats: %s",
			name, strings.Join(ValidFormats(), ", "))
	}
	return newExporter(opts), nil
}

// ValidFormats returns the supported format names in sorted order.
func ValidFormats() []string {
	formats := make([]string, 0, len(registry))
	for k := range registry {
		formats = append(formats, k)
	}
	sort.Strings(formats)
	return formats
}
