// Package catalog merges stored words with the static CEFR word list.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Entry is one row of the static word list.
type Entry struct {
	Headword string
	CEFR     string
	TOEFL    string
	IELTS    string
}

// ParseFeed reads the word list CSV. The first row is a header. Rows are
// (headword, cefr, toefl, ielts); missing trailing columns are empty. For
// headwords with alternative forms ("color/colour") only the first form is kept.
func ParseFeed(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var entries []Entry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		headword := strings.TrimSpace(field(record, 0))
		if i := strings.Index(headword, "/"); i >= 0 {
			headword = strings.TrimSpace(headword[:i])
		}
		if headword == "" {
			continue
		}

		entries = append(entries, Entry{
			Headword: headword,
			CEFR:     strings.TrimSpace(field(record, 1)),
			TOEFL:    strings.TrimSpace(field(record, 2)),
			IELTS:    strings.TrimSpace(field(record, 3)),
		})
	}
	return entries, nil
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

// FileFeed reads the word list from a local path or an http(s) URL.
type FileFeed struct {
	Location   string
	HTTPClient *http.Client
}

// Entries implements Feed.
func (f FileFeed) Entries(ctx context.Context) ([]Entry, error) {
	if f.Location == "" {
		return nil, nil
	}
	if strings.HasPrefix(f.Location, "http://") || strings.HasPrefix(f.Location, "https://") {
		return f.fetch(ctx)
	}

	file, err := os.Open(f.Location)
	if err != nil {
		return nil, fmt.Errorf("opening word list: %w", err)
	}
	defer file.Close()
	return ParseFeed(file)
}

func (f FileFeed) fetch(ctx context.Context) ([]Entry, error) {
	client := f.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Location, nil)
	if err != nil {
		return nil, fmt.Errorf("creating word list request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching word list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching word list: unexpected status %d", resp.StatusCode)
	}
	return ParseFeed(resp.Body)
}
