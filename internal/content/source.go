package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Source yields the full record list in one call.
type Source interface {
	Load(ctx context.Context) ([]Record, error)
}

// FileSource reads a search.json from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) ([]Record, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &FetchError{Source: s.Path, Err: err}
	}
	records, err := Decode(data)
	if err != nil {
		return nil, &FetchError{Source: s.Path, Err: fmt.Errorf("decode: %w", err)}
	}
	return records, nil
}

// HTTPSource fetches the index with a single GET.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Load(ctx context.Context) ([]Record, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &FetchError{Source: s.URL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: s.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Source: s.URL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Source: s.URL, Err: fmt.Errorf("read body: %w", err)}
	}
	records, err := Decode(data)
	if err != nil {
		return nil, &FetchError{Source: s.URL, Err: fmt.Errorf("decode: %w", err)}
	}
	return records, nil
}
