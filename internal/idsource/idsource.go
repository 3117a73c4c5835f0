// Package idsource loads work item identifiers from files.
//
// Supported formats are chosen by file extension:
//   - .csv: header row, identifiers taken from the named column
//   - .json: an array of strings, numbers, or objects carrying the named field
//   - anything else: one identifier per line, '#' starts a comment
//
// Blank identifiers are skipped; duplicates are kept.
package idsource

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrFieldNotFound is returned when the identifier column or field is missing.
var ErrFieldNotFound = errors.New("identifier field not found")

// Load reads identifiers from path. field names the CSV column or JSON object
// key holding the identifier.
func Load(path, field string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ids file: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(file, field)
	case ".json":
		return ReadJSON(file, field)
	default:
		return ReadLines(file)
	}
}

// ReadCSV reads identifiers from the named column of a CSV document whose
// first row is the header.
func ReadCSV(r io.Reader, field string) ([]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	column := -1
	for i, name := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(name), field) {
			column = i
			break
		}
	}
	if column < 0 {
		return nil, fmt.Errorf("%w: CSV header has no %q column", ErrFieldNotFound, field)
	}

	ids := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if id := strings.TrimSpace(row[column]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ReadJSON reads identifiers from a JSON array.
func ReadJSON(r io.Reader, field string) ([]string, error) {
	var entries []json.RawMessage
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for i, raw := range entries {
		id, err := jsonIdentifier(raw, field)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func jsonIdentifier(raw json.RawMessage, field string) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return "", err
		}
		value, ok := obj[field]
		if !ok {
			return "", fmt.Errorf("%w: object has no %q key", ErrFieldNotFound, field)
		}
		return jsonIdentifier(value, field)
	case 'n':
		return "", nil
	case '[', 't', 'f':
		return "", fmt.Errorf("unsupported identifier value %s", raw)
	default:
		// Numbers are kept verbatim so large IDs are not rounded.
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}

// ReadLines reads one identifier per line.
func ReadLines(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ids: %w", err)
	}
	return ids, nil
}
