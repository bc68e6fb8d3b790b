// Package analyzer measures how much of a model context window a file would
// consume and classifies the result.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Fixed budget constants. Downstream tooling depends on these exact values.
const (
	ContextWindow    = 200_000 // tokens
	WarningThreshold = 10.0    // percent of ContextWindow
	DangerThreshold  = 25.0    // percent of ContextWindow
)

// ErrFileNotFound is matched by *FileNotFoundError.
var ErrFileNotFound = errors.New("file not found")

// FileNotFoundError reports a path that does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string { return "File not found: " + e.Path }

func (e *FileNotFoundError) Is(target error) bool { return target == ErrFileNotFound }

// TokenCounter is the counting capability the analyzer needs. It must not fail.
type TokenCounter interface {
	Count(ctx context.Context, text string) int
}

// Analyzer builds FileTokenReports.
type Analyzer struct {
	counter TokenCounter
}

// New creates an Analyzer that counts tokens with counter.
func New(counter TokenCounter) *Analyzer {
	return &Analyzer{counter: counter}
}

// Analyze reads path and returns its report.
func (a *Analyzer) Analyze(ctx context.Context, path string) (FileTokenReport, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return FileTokenReport{}, &FileNotFoundError{Path: path}
	}
	if err != nil {
		return FileTokenReport{}, fmt.Errorf("analyzer: stat: %w", err)
	}

	content, err := ReadText(path)
	if err != nil {
		return FileTokenReport{}, err
	}

	tokens := a.counter.Count(ctx, content)
	return NewReport(path, info.Size(), content, tokens), nil
}

// ReadText reads path as UTF-8. Invalid byte sequences are replaced with
// U+FFFD rather than reported. Line endings are normalised to "\n".
func ReadText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("analyzer: read: %w", err)
	}

	var s string
	if utf8.Valid(b) {
		s = string(b)
	} else {
		decoded, err := unicode.UTF8.NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("analyzer: decode: %w", err)
		}
		s = string(decoded)
	}
	return normalizeNewlines(s), nil
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// round2 rounds to two decimal places, halves to even: 0.125 -> 0.12.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
