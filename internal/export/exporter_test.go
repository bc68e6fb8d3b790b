package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tokgauge/tokgauge/internal/analyzer"
)

func sampleReport(tokens int) analyzer.FileTokenReport {
	return analyzer.NewReport("src/mapper.py", 12800, strings.Repeat("a", 36000), tokens)
}

func TestNew_ValidFormats(t *testing.T) {
	for _, name := range []string{"text", "json"} {
		exp, err := New(name, Options{})
		if err != nil || exp == nil {
			t.Errorf("New(%q) returned %v, %v", name, exp, err)
		}
	}
}

func TestNew_InvalidFormat(t *testing.T) {
	_, err := New("markdown", Options{})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "json, text") {
		t.Errorf("error should list valid formats: %v", err)
	}
}

func TestNew_TextOptions(t *testing.T) {
	exp, err := New("text", Options{Color: true, Method: "tiktoken"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	te, ok := exp.(*TextExporter)
	if !ok {
		t.Fatalf("expected *TextExporter, got %T", exp)
	}
	if !te.Color || te.Method != "tiktoken" {
		t.Errorf("options not applied: %+v", te)
	}
}

func TestValidFormats(t *testing.T) {
	got := ValidFormats()
	if len(got) != 2 || got[0] != "json" || got[1] != "text" {
		t.Errorf("got %v, want [json text]", got)
	}
}

func TestTextExporter_Safe(t *testing.T) {
	result, err := (&TextExporter{}).Export(sampleReport(12000))
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}

	checks := []string{
		"CONTEXT TOKEN ANALYSIS",
		"📁 File: src/mapper.py",
		"Size: 12.5 KB",
		"Lines: 1",
		"Characters: 36,000",
		"Token Count: 12,000 tokens",
		"Characters per token: 3.0",
		"Total available: 200,000 tokens",
		"This file uses: 12,000 tokens (6.0%)",
		"Remaining: 188,000 tokens",
		"Status: ✅ SAFE",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("text export missing %q\n%s", check, result)
		}
	}
	if strings.Contains(result, "RECOMMENDATION") || strings.Contains(result, "NOTE:") {
		t.Error("safe report should not carry a recommendation block")
	}
	if strings.Contains(result, "\x1b[") {
		t.Error("colour disabled but output contains escape codes")
	}
}

func TestTextExporter_Warning(t *testing.T) {
	result, _ := (&TextExporter{}).Export(sampleReport(30000))

	for _, check := range []string{"⚠️  WARNING", "💡 NOTE:", ">10% of the context window"} {
		if !strings.Contains(result, check) {
			t.Errorf("warning export missing %q", check)
		}
	}
	if strings.Contains(result, "RECOMMENDATION") {
		t.Error("warning report should not carry the danger recommendation")
	}
}

func TestTextExporter_Danger(t *testing.T) {
	result, _ := (&TextExporter{}).Export(sampleReport(250000))

	checks := []string{
		"🔴 DANGER",
		"RECOMMENDATION:",
		">25% of the context window",
		"Breaking it into smaller modules",
		"Using summarization",
		"Processing in chunks",
		"Remaining: -50,000 tokens",
		"(125.0%)",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("danger export missing %q", check)
		}
	}
}

func TestTextExporter_JustBelowDangerCutoff(t *testing.T) {
	// 49,999 tokens prints as 25.0% but is still WARNING; the block follows the status.
	result, _ := (&TextExporter{}).Export(sampleReport(49999))

	for _, check := range []string{"(25.0%)", "⚠️  WARNING", "💡 NOTE:"} {
		if !strings.Contains(result, check) {
			t.Errorf("export missing %q\n%s", check, result)
		}
	}
	if strings.Contains(result, "RECOMMENDATION") {
		t.Error("a WARNING report should not carry the danger recommendation")
	}
}

func TestTextExporter_ColorAndMethod(t *testing.T) {
	result, _ := (&TextExporter{Color: true, Method: "simple"}).Export(sampleReport(250000))

	if !strings.Contains(result, "\x1b[") {
		t.Error("expected ANSI escape codes when colour is enabled")
	}
	if !strings.Contains(result, "Counted with: simple") {
		t.Error("expected counting method line")
	}
}

func TestJSONExporter(t *testing.T) {
	result, err := (&JSONExporter{}).Export(sampleReport(30000))
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(result), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, result)
	}

	want := []string{
		"file_path", "file_size_kb", "char_count", "line_count", "token_count",
		"chars_per_token", "context_window_total", "context_percentage",
		"tokens_remaining", "status", "status_color",
	}
	if len(parsed) != len(want) {
		t.Errorf("expected %d keys, got %d: %v", len(want), len(parsed), parsed)
	}
	for _, k := range want {
		if _, ok := parsed[k]; !ok {
			t.Errorf("missing key %q", k)
		}
	}
	if parsed["status"] != "WARNING" || parsed["status_color"] != "yellow" {
		t.Errorf("status: got %v/%v", parsed["status"], parsed["status_color"])
	}
	if parsed["token_count"] != float64(30000) {
		t.Errorf("token_count: got %v", parsed["token_count"])
	}
	if !strings.HasSuffix(result, "\n") {
		t.Error("expected trailing newline")
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"src/mapper.py", "src/mapper.tokens.json"},
		{"README.md", "README.tokens.json"},
		{"Makefile", "Makefile.tokens.json"},
		{"archive.tar.gz", "archive.tar.tokens.json"},
		{"/home/u/.bashrc", "/home/u/.bashrc.tokens.json"},
		{"docs.v2/notes", "docs.v2/notes.tokens.json"},
	}
	for _, tt := range tests {
		if got := ArtifactPath(tt.in); got != filepath.FromSlash(tt.want) && got != tt.want {
			t.Errorf("ArtifactPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteArtifact(t *testing.T) {
	dir := t.TempDir()
	rep := analyzer.NewReport(filepath.Join(dir, "big.go"), 2048, "abc", 1)

	path, err := WriteArtifact(rep)
	if err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}
	if path != filepath.Join(dir, "big.tokens.json") {
		t.Errorf("path: got %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var got analyzer.FileTokenReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != rep {
		t.Errorf("artifact mismatch:\n got %+v\nwant %+v", got, rep)
	}
}

func TestWriteArtifact_UnwritableDir(t *testing.T) {
	rep := analyzer.NewReport(filepath.Join(t.TempDir(), "missing", "f.txt"), 0, "", 0)
	if _, err := WriteArtifact(rep); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
