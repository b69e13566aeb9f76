// Package vocab holds the word and review records shared by every layer,
// together with the helpers that read and write their derived fields.
package vocab

import (
	"strings"
	"time"
)

// Word is a single catalog entry. Enrichment fields stay empty until the
// word is grokked.
type Word struct {
	ID         string `json:"id"`
	Word       string `json:"word"`
	Level      int    `json:"level"`
	LevelLabel string `json:"level_label"`
	POS        string `json:"pos"`
	Phonetic   string `json:"phonetic"`
	Definition string `json:"definition"`
	Example    string `json:"example"`
	ImageURL   string `json:"image_url,omitempty"`
	GrokkedAt  string `json:"grokked_at,omitempty"`
	TOEFL      string `json:"toefl,omitempty"`
	IELTS      string `json:"ielts,omitempty"`
}

// Review is the latest completed checkpoint for a word. Date is the cohort
// date of the word, not the date the review happened.
type Review struct {
	Word   string  `json:"word"`
	Day    int     `json:"day"`
	Date   string  `json:"date"`
	Reward float64 `json:"reward"`
}

// UnderstoodPOS marks a word the learner dismissed without enrichment.
const UnderstoodPOS = "-"

// Key returns the case-insensitive catalog key of a word.
func Key(word string) string {
	return strings.ToLower(word)
}

// Grokked reports whether the word has enrichment content.
func (w Word) Grokked() bool {
	return w.Definition != ""
}

// Understood reports whether the word was marked understood.
func (w Word) Understood() bool {
	return w.POS == UnderstoodPOS
}

// StampGrokked sets GrokkedAt once. Later calls leave the first stamp in place.
func (w *Word) StampGrokked(now time.Time) bool {
	if w.GrokkedAt != "" {
		return false
	}
	w.GrokkedAt = now.UTC().Format(TimestampLayout)
	return true
}

// CohortDate returns the YYYY/MM/DD cohort key of the word, or "" when it has
// never been grokked.
func (w Word) CohortDate() string {
	return DateKey(w.GrokkedAt)
}
