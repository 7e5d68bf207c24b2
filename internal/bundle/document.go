// Package bundle imports and exports the whole configuration as one file.
package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/opencode-ai/templage/internal/models"
)

// FileExtension marks configuration files.
const FileExtension = ".templageConfig"

// DefaultImportedName is used when an imported file has no name.
const DefaultImportedName = "Imported configuration"

// ErrMalformed reports a file that cannot be imported.
var ErrMalformed = errors.New("malformed configuration file")

// Document is the import/export file layout.
type Document struct {
	ConfigName string            `json:"configName"`
	Tokens     []models.Token    `json:"tokens"`
	Models     []models.Template `json:"models"`
	// Timestamp is the export time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

type rawDocument struct {
	ConfigName *string         `json:"configName"`
	Tokens     json.RawMessage `json:"tokens"`
	Models     json.RawMessage `json:"models"`
	Timestamp  int64           `json:"timestamp"`
}

// Parse decodes and checks a configuration file. Missing token or template
// lists become empty, a missing name becomes DefaultImportedName and missing
// ids are generated.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	doc := &Document{
		ConfigName: DefaultImportedName,
		Tokens:     []models.Token{},
		Models:     []models.Template{},
		Timestamp:  raw.Timestamp,
	}
	if raw.ConfigName != nil && strings.TrimSpace(*raw.ConfigName) != "" {
		doc.ConfigName = strings.TrimSpace(*raw.ConfigName)
	}

	if err := decodeList(raw.Tokens, &doc.Tokens); err != nil {
		return nil, fmt.Errorf("%w: tokens: %v", ErrMalformed, err)
	}
	if err := decodeList(raw.Models, &doc.Models); err != nil {
		return nil, fmt.Errorf("%w: models: %v", ErrMalformed, err)
	}

	seen := make(map[string]struct{}, len(doc.Tokens))
	for i := range doc.Tokens {
		tok := &doc.Tokens[i]
		if tok.ID == "" {
			tok.ID = uuid.New().String()
		}
		if tok.InputType == "" {
			tok.InputType = models.InputTypeText
		}
		if err := tok.Validate(); err != nil {
			return nil, fmt.Errorf("%w: tokens[%d]: %v", ErrMalformed, i, err)
		}
		if _, dup := seen[tok.Token]; dup {
			return nil, fmt.Errorf("%w: duplicate token %s", ErrMalformed, tok.Token)
		}
		seen[tok.Token] = struct{}{}
	}

	for i := range doc.Models {
		tmpl := &doc.Models[i]
		if tmpl.ID == "" {
			tmpl.ID = uuid.New().String()
		}
		if tmpl.Type == "" {
			tmpl.Type = models.TemplateTypeOther
		}
		for j := range tmpl.Variants {
			if tmpl.Variants[j].ID == "" {
				tmpl.Variants[j].ID = uuid.New().String()
			}
		}
		if err := tmpl.Validate(); err != nil {
			return nil, fmt.Errorf("%w: models[%d]: %v", ErrMalformed, i, err)
		}
	}

	return doc, nil
}

// ReadFile reads and parses a configuration file.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// WriteFile writes doc as indented JSON, replacing path atomically.
func WriteFile(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

var unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}._ -]+`)

// FileName derives an export file name from a configuration name.
func FileName(configName string) string {
	base := strings.Trim(unsafeFileChars.ReplaceAllString(configName, "_"), " _")
	if base == "" {
		base = "configuration"
	}
	return base + FileExtension
}

func decodeList(raw json.RawMessage, dst any) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if !strings.HasPrefix(trimmed, "[") {
		return fmt.Errorf("expected an array")
	}
	return json.Unmarshal(raw, dst)
}
