package catalog

import (
	"github.com/kalambet/grokwords/internal/vocab"
)

// Merge combines stored words with feed entries by case-insensitive word text.
// Stored words come first in their original order, followed by new feed words
// in feed order. Enrichment on stored words is never touched; only level and
// level label follow the feed. The second result holds the words that must be
// written back, so a merge over unchanged input returns none.
func Merge(stored []vocab.Word, feed []Entry, newID func() string) ([]vocab.Word, []vocab.Word) {
	merged := make([]vocab.Word, 0, len(stored)+len(feed))
	index := make(map[string]int, len(stored)+len(feed))
	dirty := make(map[int]bool)

	for _, w := range stored {
		key := vocab.Key(w.Word)
		if _, ok := index[key]; ok {
			continue
		}
		index[key] = len(merged)
		merged = append(merged, w)
	}

	for _, e := range feed {
		level, label := vocab.LevelFromCEFR(e.CEFR)
		key := vocab.Key(e.Headword)

		i, ok := index[key]
		if !ok {
			index[key] = len(merged)
			dirty[len(merged)] = true
			merged = append(merged, vocab.Word{
				ID:         newID(),
				Word:       e.Headword,
				Level:      level,
				LevelLabel: label,
				TOEFL:      e.TOEFL,
				IELTS:      e.IELTS,
			})
			continue
		}

		if merged[i].Level != level {
			merged[i].Level = level
			merged[i].LevelLabel = label
			dirty[i] = true
		}
	}

	changed := make([]vocab.Word, 0, len(dirty))
	for i, w := range merged {
		if dirty[i] {
			changed = append(changed, w)
		}
	}
	return merged, changed
}
