package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tokgauge/tokgauge/internal/analyzer"
)

// ArtifactSuffix replaces the analysed file's extension in the artifact name.
const ArtifactSuffix = ".tokens.json"

// JSONExporter renders a report as an indented JSON object holding exactly
// the report fields.
type JSONExporter struct{}

func (e *JSONExporter) Export(rep analyzer.FileTokenReport) (string, error) {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

// ArtifactPath derives the artifact location from the analysed file's path:
// "src/mapper.py" becomes "src/mapper.tokens.json". Names without an
// extension, including dotfiles such as ".bashrc", get the suffix appended.
func ArtifactPath(path string) string {
	dir, base := filepath.Split(path)
	stem := base
	if ext := filepath.Ext(base); ext != "" && ext != base {
		stem = strings.TrimSuffix(base, ext)
	}
	return dir + stem + ArtifactSuffix
}

// WriteArtifact writes the JSON rendering of rep next to the analysed file
// and returns the path written.
func WriteArtifact(rep analyzer.FileTokenReport) (string, error) {
	exp, err := New("json", Options{})
	if err != nil {
		return "", err
	}
	out, err := exp.Export(rep)
	if err != nil {
		return "", fmt.Errorf("export: render json: %w", err)
	}

	path := ArtifactPath(rep.FilePath)
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return "", fmt.Errorf("export: write artifact: %w", err)
	}
	return path, nil
}
