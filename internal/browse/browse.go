// Package browse filters and paginates the word catalog for display.
package browse

import (
	"fmt"
	"strings"

	"github.com/kalambet/grokwords/internal/vocab"
)

// DefaultPageSize is used when a request does not set one.
const DefaultPageSize = 100

// Level filter values besides the numeric levels.
const (
	LevelAll   = "all"
	LevelTOEFL = "toefl"
	LevelIELTS = "ielts"
)

// Status narrows the catalog by grok progress.
type Status string

const (
	StatusAll        Status = "all"
	StatusUngrokked  Status = "ungrokked"
	StatusGrokked    Status = "grokked"
	StatusUnderstood Status = "understood"
)

// ParseStatus validates a status filter. An empty string means StatusAll.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(s)); st {
	case "":
		return StatusAll, nil
	case StatusAll, StatusUngrokked, StatusGrokked, StatusUnderstood:
		return st, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// ParseLevel validates a level filter. An empty string means LevelAll.
func ParseLevel(s string) (string, error) {
	switch l := strings.ToLower(s); l {
	case "":
		return LevelAll, nil
	case LevelAll, "1", "2", "3", LevelTOEFL, LevelIELTS:
		return l, nil
	default:
		return "", fmt.Errorf("unknown level %q", s)
	}
}

// Filter is a conjunction of conditions. Zero values match everything.
type Filter struct {
	Level      string
	Status     Status
	Search     string
	ReviewDate string
}

// Match reports whether w passes every condition.
func (f Filter) Match(w vocab.Word) bool {
	switch f.Level {
	case "", LevelAll:
	case LevelTOEFL:
		if w.TOEFL != "1" {
			return false
		}
	case LevelIELTS:
		if w.IELTS != "1" {
			return false
		}
	default:
		if fmt.Sprint(w.Level) != f.Level {
			return false
		}
	}

	switch f.Status {
	case "", StatusAll:
	case StatusGrokked:
		if w.Definition == "" {
			return false
		}
	case StatusUnderstood:
		if !w.Understood() {
			return false
		}
	case StatusUngrokked:
		if w.POS != "" {
			return false
		}
	}

	if f.Search != "" && !strings.HasPrefix(vocab.Key(w.Word), vocab.Key(f.Search)) {
		return false
	}

	if f.ReviewDate != "" && w.CohortDate() != strings.ReplaceAll(f.ReviewDate, "-", "/") {
		return false
	}
	return true
}

// Page is one page of filtered results.
type Page struct {
	Words      []vocab.Word `json:"words"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
}

// Paginate filters words in order and returns the requested 1-based page.
// Out-of-range pages are clamped.
func Paginate(words []vocab.Word, f Filter, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var matched []vocab.Word
	for _, w := range words {
		if f.Match(w) {
			matched = append(matched, w)
		}
	}

	totalPages := (len(matched) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(matched))

	out := []vocab.Word{}
	if start < end {
		out = matched[start:end]
	}
	return Page{
		Words:      out,
		Page:       page,
		PageSize:   pageSize,
		Total:      len(matched),
		TotalPages: totalPages,
	}
}
