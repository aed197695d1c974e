// Package dataset reads record files (JSON, JSON lines, YAML or CSV) from
// disk and writes the JSON lines form back out.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"classreport/internal/record"
)

var ErrUnsupportedFormat = errors.New("dataset: unsupported file format")

// Extensions lists the file extensions LoadDir picks up.
var Extensions = []string{".json", ".jsonl", ".ndjson", ".yaml", ".yml", ".csv"}

const maxLineBytes = 1 << 20

// document is the wrapped form shared by JSON and YAML files.
type document struct {
	Records []record.Record `json:"records" yaml:"records"`
}

// Load reads path as a single file or, when it is a directory, every
// supported file inside it.
func Load(path string, v record.Validator) ([]record.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path, v)
	}
	return LoadFile(path, v)
}

// LoadFile reads a record file. Format is detected by extension
// (.json, .jsonl/.ndjson, .yaml/.yml, .csv).
func LoadFile(path string, v record.Validator) ([]record.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	records, err := Parse(data, filepath.Ext(path), v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// LoadDir loads every supported file in dir (not recursive) in lexical
// order and concatenates their records.
func LoadDir(dir string, v record.Validator) ([]record.Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("dataset: list %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !supported(filepath.Ext(e.Name())) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var out []record.Record
	for _, name := range names {
		rs, err := LoadFile(filepath.Join(dir, name), v)
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
	}
	return out, nil
}

// Parse decodes and validates records. ext is the format hint; an empty
// ext detects JSON from a leading '{' or '[' and falls back to YAML.
func Parse(data []byte, ext string, v record.Validator) ([]record.Record, error) {
	switch normalizeExt(ext, data) {
	case ".json":
		return parseJSON(data, v)
	case ".jsonl":
		return parseJSONLines(data, v)
	case ".yaml":
		raw, err := parseYAML(data)
		if err != nil {
			return nil, err
		}
		return v.ValidateAll(raw)
	case ".csv":
		raw, err := parseCSV(data)
		if err != nil {
			return nil, err
		}
		return v.ValidateAll(raw)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

func normalizeExt(ext string, data []byte) string {
	ext = strings.ToLower(ext)
	switch ext {
	case ".yml":
		return ".yaml"
	case ".ndjson":
		return ".jsonl"
	case "":
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
			return ".json"
		}
		return ".yaml"
	}
	return ext
}

func supported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// parseJSON accepts {"records": [...]} or a bare array.
func parseJSON(data []byte, v record.Validator) ([]record.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		rs, err := record.DecodeAll(trimmed, v)
		if err != nil {
			return nil, fmt.Errorf("dataset: parse json: %w", err)
		}
		return rs, nil
	}
	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("dataset: parse json: %w", err)
	}
	return v.ValidateAll(doc.Records)
}

// parseJSONLines reads one record object per line. Blank lines are skipped.
func parseJSONLines(data []byte, v record.Validator) ([]record.Record, error) {
	var out []record.Record
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for line := 1; sc.Scan(); line++ {
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		r, err := record.Decode(text, v)
		if err != nil {
			return nil, fmt.Errorf("dataset: jsonl line %d: %w", line, err)
		}
		out = append(out, r)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dataset: read jsonl: %w", err)
	}
	return out, nil
}

// WriteJSONLines writes one encoded record per line, the format
// parseJSONLines reads back.
func WriteJSONLines(w io.Writer, records []record.Record) error {
	for _, r := range records {
		data, err := record.Encode(r)
		if err != nil {
			return err
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// parseYAML accepts a records: mapping or a bare sequence.
func parseYAML(data []byte) ([]record.Record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("dataset: parse yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var rs []record.Record
		if err := root.Decode(&rs); err != nil {
			return nil, fmt.Errorf("dataset: parse yaml: %w", err)
		}
		return rs, nil
	}
	var doc document
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("dataset: parse yaml: %w", err)
	}
	return doc.Records, nil
}
