package taskfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a task file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format by extension. Anything that is not YAML,
// including "-" for stdin, is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads a scheduling request from path, or from stdin when path is "-".
func Load(path string) (*Request, error) {
	if path == "-" {
		return Read(os.Stdin, FormatJSON)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	req, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

// Read parses a request from r.
func Read(r io.Reader, format Format) (*Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes a request. Both the {"tasks": [...]} envelope and a bare
// list of tasks are accepted.
func Parse(data []byte, format Format) (*Request, error) {
	switch format {
	case FormatYAML:
		return parseYAML(data)
	case FormatJSON, "":
		return parseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func parseJSON(data []byte) (*Request, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	switch {
	case root.IsArray():
		var buf bytes.Buffer
		buf.WriteString(`{"tasks":`)
		buf.WriteString(root.Raw)
		buf.WriteString(`}`)
		data = buf.Bytes()
	case root.IsObject():
		if !root.Get("tasks").Exists() {
			return nil, fmt.Errorf(`missing "tasks" array`)
		}
	default:
		return nil, fmt.Errorf("expected an object or array, got %s", root.Type)
	}

	if err := ValidateJSON(data); err != nil {
		return nil, err
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return &req, nil
}

func parseYAML(data []byte) (*Request, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty YAML document")
	}

	var req Request
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&req.Tasks); err != nil {
			return nil, fmt.Errorf("decode tasks: %w", err)
		}
	case yaml.MappingNode:
		if err := root.Decode(&req); err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}
	default:
		return nil, fmt.Errorf("line %d: expected a mapping or sequence", root.Line)
	}
	return &req, nil
}
