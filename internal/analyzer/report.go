package analyzer

import (
	"strings"
	"unicode/utf8"
)

// Status classifies context window usage.
type Status string

const (
	StatusSafe    Status = "SAFE"
	StatusWarning Status = "WARNING"
	StatusDanger  Status = "DANGER"
)

// Color is the display colour tag for s.
func (s Status) Color() string {
	switch s {
	case StatusWarning:
		return "yellow"
	case StatusDanger:
		return "red"
	default:
		return "green"
	}
}

// Classify maps a context usage percentage to a Status.
//
//	p < 10        SAFE
//	10 <= p < 25  WARNING
//	p >= 25       DANGER
func Classify(percentage float64) Status {
	switch {
	case percentage < WarningThreshold:
		return StatusSafe
	case percentage < DangerThreshold:
		return StatusWarning
	default:
		return StatusDanger
	}
}

// FileTokenReport is the result of analysing one file. Build it with
// NewReport and treat it as read-only.
type FileTokenReport struct {
	FilePath           string  `json:"file_path"`
	FileSizeKB         float64 `json:"file_size_kb"`
	CharCount          int     `json:"char_count"`
	LineCount          int     `json:"line_count"`
	TokenCount         int     `json:"token_count"`
	CharsPerToken      float64 `json:"chars_per_token"`
	ContextWindowTotal int     `json:"context_window_total"`
	ContextPercentage  float64 `json:"context_percentage"`
	TokensRemaining    int     `json:"tokens_remaining"`
	Status             Status  `json:"status"`
	StatusColor        string  `json:"status_color"`
}

// NewReport derives every statistic from the file's size, decoded content
// and token count. Neither TokensRemaining nor ContextPercentage is clamped.
func NewReport(path string, sizeBytes int64, content string, tokens int) FileTokenReport {
	chars := utf8.RuneCountInString(content)
	percentage := float64(tokens) / ContextWindow * 100

	var cpt float64
	if tokens > 0 {
		cpt = round2(float64(chars) / float64(tokens))
	}

	status := Classify(percentage)
	return FileTokenReport{
		FilePath:           path,
		FileSizeKB:         round2(float64(sizeBytes) / 1024),
		CharCount:          chars,
		LineCount:          strings.Count(content, "\n") + 1,
		TokenCount:         tokens,
		CharsPerToken:      cpt,
		ContextWindowTotal: ContextWindow,
		ContextPercentage:  round2(percentage),
		TokensRemaining:    ContextWindow - tokens,
		Status:             status,
		StatusColor:        status.Color(),
	}
}
