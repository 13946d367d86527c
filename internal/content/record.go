// Package content holds the Content Index: the ordered list of post records
// the site build publishes as search.json, plus the builder that produces it.
package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Record is one searchable post. Records are immutable once loaded.
type Record struct {
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Date    string   `json:"date"`
	Tags    []string `json:"tags"`
	Content string   `json:"content"`
}

// FetchError reports an index resource that could not be reached or decoded.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch content index %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Decode parses a JSON array of records. A null tag list decodes as empty.
func Decode(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Tags == nil {
			records[i].Tags = []string{}
		}
	}
	return records, nil
}

// WriteIndex writes records as a JSON array to path, creating parent
// directories as needed.
func WriteIndex(records []Record, path string) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling index: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
