// Package source reads upstream weekly snapshot records from JSON or YAML files.
package source

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/schema"
	"gopkg.in/yaml.v3"
)

// Supported source formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinPath makes the loader read from standard input.
const StdinPath = "-"

// FileLoader implements contract.SourceLoader for local files.
type FileLoader struct {
	stdin io.Reader
}

var _ contract.SourceLoader = &FileLoader{} // Compile-time check

// NewFileLoader creates a loader that reads files from disk.
func NewFileLoader() *FileLoader {
	return &FileLoader{stdin: os.Stdin}
}

// Load reads and decodes the source at path.
func (l *FileLoader) Load(ctx context.Context, path string) (*schema.SourceBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, contract.ErrNoSource
	}

	var (
		data []byte
		err  error
	)
	if path == StdinPath {
		data, err = io.ReadAll(l.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read source %s: %w", path, err)
	}
	return Decode(path, data)
}

// Decode parses raw source bytes. The format comes from the file extension
// and falls back to sniffing the content. Both a bare list of records and an
// object with a "records" field are accepted.
func Decode(path string, data []byte) (*schema.SourceBundle, error) {
	format := DetectFormat(path, data)

	var (
		records   []schema.SourceRecord
		malformed int
		err       error
	)
	switch format {
	case FormatYAML:
		records, malformed, err = decodeYAML(data)
	default:
		records, malformed, err = decodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s source %s: %w", format, path, err)
	}
	if len(records)+malformed == 0 {
		return nil, fmt.Errorf("%s: %w", path, contract.ErrEmptySource)
	}

	return &schema.SourceBundle{
		Path:      path,
		Format:    format,
		Digest:    Digest(data),
		Records:   records,
		Malformed: malformed,
	}, nil
}

// DetectFormat picks the source format for a file.
func DetectFormat(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatYAML
}

// Digest returns the hex SHA-256 of the raw source bytes.
func Digest(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// decodeJSON decodes each record separately and counts the ones that do not
// fit the record type.
func decodeJSON(data []byte) ([]schema.SourceRecord, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, 0, nil
	}

	var raw []json.RawMessage
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, 0, err
		}
	} else {
		var doc struct {
			Records []json.RawMessage `json:"records"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, 0, err
		}
		raw = doc.Records
	}

	records := make([]schema.SourceRecord, 0, len(raw))
	malformed := 0
	for _, msg := range raw {
		dec := json.NewDecoder(bytes.NewReader(msg))
		dec.UseNumber()
		var record schema.SourceRecord
		if err := dec.Decode(&record); err != nil {
			malformed++
			continue
		}
		records = append(records, record)
	}
	return records, malformed, nil
}

// decodeYAML mirrors decodeJSON over the nodes of the record sequence.
func decodeYAML(data []byte) ([]schema.SourceRecord, int, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, 0, err
	}
	if len(node.Content) == 0 {
		return nil, 0, nil
	}

	root := node.Content[0]
	var items []*yaml.Node
	switch root.Kind {
	case yaml.SequenceNode:
		items = root.Content
	case yaml.MappingNode:
		var doc struct {
			Records yaml.Node `yaml:"records"`
		}
		if err := root.Decode(&doc); err != nil {
			return nil, 0, err
		}
		switch doc.Records.Kind {
		case 0:
		case yaml.SequenceNode:
			items = doc.Records.Content
		default:
			return nil, 0, fmt.Errorf("line %d: records must be a list", doc.Records.Line)
		}
	default:
		return nil, 0, fmt.Errorf("line %d: expected a list of records or a records field", root.Line)
	}

	records := make([]schema.SourceRecord, 0, len(items))
	malformed := 0
	for _, item := range items {
		var record schema.SourceRecord
		if err := item.Decode(&record); err != nil {
			malformed++
			continue
		}
		records = append(records, record)
	}
	return records, malformed, nil
}
