package catalog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/grokwords/internal/vocab"
)

// WordStore is the subset of the durable store the catalog needs.
type WordStore interface {
	AllWords(ctx context.Context) ([]vocab.Word, error)
	PutWords(ctx context.Context, words []vocab.Word) error
}

// Feed supplies the static word list.
type Feed interface {
	Entries(ctx context.Context) ([]Entry, error)
}

// Loader builds the in-memory catalog.
type Loader struct {
	Store  WordStore
	Feed   Feed
	Logger *slog.Logger
	NewID  func() string
}

// Load reads stored words and the feed concurrently, merges them and writes
// back the new or re-levelled words. Storage and feed failures are logged and
// treated as empty input, so Load always returns a usable catalog.
func (l *Loader) Load(ctx context.Context) []vocab.Word {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	newID := l.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	var stored []vocab.Word
	var feed []Entry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		words, err := l.Store.AllWords(gctx)
		if err != nil {
			logger.Warn("loading stored words", "error", err)
			return nil
		}
		stored = words
		return nil
	})
	if l.Feed != nil {
		g.Go(func() error {
			entries, err := l.Feed.Entries(gctx)
			if err != nil {
				logger.Warn("loading word list", "error", err)
				return nil
			}
			feed = entries
			return nil
		})
	}
	_ = g.Wait()

	merged, changed := Merge(stored, feed, newID)
	if len(changed) > 0 {
		if err := l.Store.PutWords(ctx, changed); err != nil {
			logger.Warn("saving merged words", "count", len(changed), "error", err)
		} else {
			logger.Debug("saved merged words", "count", len(changed))
		}
	}
	return merged
}
