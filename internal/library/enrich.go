package library

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/grokwords/internal/enrich"
	"github.com/kalambet/grokwords/internal/vocab"
)

func (l *Library) enricher() (*enrich.Enricher, Settings, error) {
	s := l.Settings()
	if s.APIKey == "" || l.provider == nil {
		return nil, s, ErrMissingAPIKey
	}
	return enrich.New(l.provider(s.APIKey)), s, nil
}

// Grok fetches word info, stores it, then generates the example sentence.
// A failed example is logged and does not fail the call.
func (l *Library) Grok(ctx context.Context, id string) (vocab.Word, error) {
	e, s, err := l.enricher()
	if err != nil {
		return vocab.Word{}, err
	}
	w, err := l.Word(id)
	if err != nil {
		return vocab.Word{}, err
	}

	info, err := e.Info(ctx, w.Word, s.NativeLanguage)
	if err != nil {
		return vocab.Word{}, err
	}
	w, err = l.update(ctx, id, func(w *vocab.Word) { info.Apply(w, l.stamp) })
	if err != nil {
		return vocab.Word{}, err
	}
	l.logger.Debug("word grokked", "word", w.Word, "pos", w.POS)

	example, err := e.Example(ctx, w.Word, info.POS, s.NativeLanguage)
	if err != nil {
		l.logger.Error("generating example", "word", w.Word, "error", err)
		return w, nil
	}
	return l.update(ctx, id, func(w *vocab.Word) { w.Example = example })
}

// GrokResult is the outcome for one word of GrokMany.
type GrokResult struct {
	Word vocab.Word
	Err  error
}

// GrokMany groks words with at most limit in flight. Each word still runs its
// info and example requests in order.
func (l *Library) GrokMany(ctx context.Context, ids []string, limit int) []GrokResult {
	results := make([]GrokResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, id := range ids {
		g.Go(func() error {
			w, err := l.Grok(gctx, id)
			if err != nil {
				w, _ = l.Word(id)
			}
			results[i] = GrokResult{Word: w, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// MarkUnderstood records that the learner knows the word without enrichment.
// Words that already carry a part of speech are rejected with ErrAlreadyGrokked.
func (l *Library) MarkUnderstood(ctx context.Context, id string) (vocab.Word, error) {
	w, err := l.Word(id)
	if err != nil {
		return vocab.Word{}, err
	}
	if stored, err := l.store.GetWord(ctx, id); err == nil {
		w = stored
	}
	if w.POS != "" {
		return vocab.Word{}, fmt.Errorf("%w: %s", ErrAlreadyGrokked, w.Word)
	}
	return l.update(ctx, id, func(w *vocab.Word) {
		w.POS = vocab.UnderstoodPOS
		l.stamp(w)
	})
}

// GenerateImage renders a flashcard image for a word that has an example.
func (l *Library) GenerateImage(ctx context.Context, id string) (vocab.Word, error) {
	e, _, err := l.enricher()
	if err != nil {
		return vocab.Word{}, err
	}
	w, err := l.Word(id)
	if err != nil {
		return vocab.Word{}, err
	}
	if strings.TrimSpace(w.Example) == "" {
		return vocab.Word{}, ErrNoExample
	}

	url, err := e.Image(ctx, w.Word, w.Definition, w.Example)
	if err != nil {
		return vocab.Word{}, err
	}
	return l.update(ctx, id, func(w *vocab.Word) { w.ImageURL = url })
}

// Share returns the post link for a grokked word.
func (l *Library) Share(id string) (string, error) {
	w, err := l.Word(id)
	if err != nil {
		return "", err
	}
	if !w.Grokked() {
		return "", ErrNotGrokked
	}
	return vocab.ShareURL(w), nil
}
