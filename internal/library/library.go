// Package library owns the in-memory catalog, the review records and the
// review session, and keeps them in step with the durable store.
package library

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/grokwords/internal/catalog"
	"github.com/kalambet/grokwords/internal/enrich"
	"github.com/kalambet/grokwords/internal/review"
	"github.com/kalambet/grokwords/internal/storage"
	"github.com/kalambet/grokwords/internal/vocab"
)

var (
	ErrWordNotFound   = errors.New("word not found")
	ErrMissingAPIKey  = errors.New("please set your xAI API key in settings first")
	ErrNoExample      = errors.New("please generate an example sentence first")
	ErrNotGrokked     = errors.New("word has not been grokked yet")
	ErrAlreadyGrokked = errors.New("word already has content")
	ErrBadCheckpoint  = errors.New("not a review checkpoint")
	ErrNoCohort       = errors.New("no words were grokked on that date")
	ErrNotSelectable  = errors.New("checkpoint is neither due nor completed")
	ErrNoSelection    = errors.New("no checkpoint selected")
	ErrNotInSelection = errors.New("word is not part of the selected cohort")
)

// Store is the durable store the library writes through to.
type Store interface {
	AllWords(ctx context.Context) ([]vocab.Word, error)
	PutWords(ctx context.Context, words []vocab.Word) error
	PutWord(ctx context.Context, w vocab.Word) error
	GetWord(ctx context.Context, id string) (vocab.Word, error)
	AllReviews(ctx context.Context) ([]vocab.Review, error)
	PutReview(ctx context.Context, r vocab.Review) error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Settings are the learner preferences that affect enrichment and rewards.
type Settings struct {
	APIKey         string  `json:"-"`
	NativeLanguage string  `json:"native_language"`
	Reward         float64 `json:"reward"`
}

// ProviderFactory builds a provider for an API key.
type ProviderFactory func(apiKey string) enrich.Provider

// Options configure a Library.
type Options struct {
	Store    Store
	Feed     catalog.Feed
	Provider ProviderFactory
	Clock    Clock
	Logger   *slog.Logger
	Settings Settings
	NewID    func() string
}

// Library is safe for concurrent use.
type Library struct {
	store    Store
	feed     catalog.Feed
	provider ProviderFactory
	clock    Clock
	logger   *slog.Logger
	newID    func() string

	mu       sync.RWMutex
	words    []vocab.Word
	index    map[string]int
	reviews  map[string]vocab.Review
	session  *review.Session
	settings Settings
}

// New creates an empty Library. Call Load to populate it.
func New(opts Options) *Library {
	l := &Library{
		store:    opts.Store,
		feed:     opts.Feed,
		provider: opts.Provider,
		clock:    opts.Clock,
		logger:   opts.Logger,
		newID:    opts.NewID,
		index:    make(map[string]int),
		reviews:  make(map[string]vocab.Review),
		session:  review.NewSession(),
		settings: opts.Settings,
	}
	if l.clock == nil {
		l.clock = realClock{}
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.settings.NativeLanguage == "" {
		l.settings.NativeLanguage = "english"
	}
	return l
}

// Load merges stored words with the word list and reads the review records.
// Storage failures leave the affected part empty.
func (l *Library) Load(ctx context.Context) {
	var words []vocab.Word
	var reviews []vocab.Review

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loader := &catalog.Loader{Store: l.store, Feed: l.feed, Logger: l.logger, NewID: l.newID}
		words = loader.Load(gctx)
		return nil
	})
	g.Go(func() error {
		rs, err := l.store.AllReviews(gctx)
		if err != nil {
			l.logger.Warn("loading reviews", "error", err)
			return nil
		}
		reviews = rs
		return nil
	})
	_ = g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.words = words
	l.index = make(map[string]int, len(words))
	for i, w := range words {
		l.index[w.ID] = i
	}
	l.reviews = make(map[string]vocab.Review, len(reviews))
	for _, r := range reviews {
		l.reviews[r.Word] = r
	}
	l.session.Clear()
	l.logger.Info("library loaded", "words", len(words), "reviews", len(reviews))
}

// Settings returns the current settings.
func (l *Library) Settings() Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.settings
}

// SetSettings replaces the settings. An empty language keeps the current one.
func (l *Library) SetSettings(s Settings) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s.NativeLanguage == "" {
		s.NativeLanguage = l.settings.NativeLanguage
	}
	l.settings = s
}

// Words returns a copy of the catalog in display order.
func (l *Library) Words() []vocab.Word {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]vocab.Word, len(l.words))
	copy(out, l.words)
	return out
}

// Word returns the word with the given id.
func (l *Library) Word(id string) (vocab.Word, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i, ok := l.index[id]
	if !ok {
		return vocab.Word{}, ErrWordNotFound
	}
	return l.words[i], nil
}

// Lookup finds a word by case-insensitive text.
func (l *Library) Lookup(text string) (vocab.Word, error) {
	key := vocab.Key(text)
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, w := range l.words {
		if vocab.Key(w.Word) == key {
			return w, nil
		}
	}
	return vocab.Word{}, ErrWordNotFound
}

// Resolve accepts either an id or a word text.
func (l *Library) Resolve(ref string) (vocab.Word, error) {
	if w, err := l.Word(ref); err == nil {
		return w, nil
	}
	return l.Lookup(ref)
}

// Reviews returns every review record.
func (l *Library) Reviews() []vocab.Review {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]vocab.Review, 0, len(l.reviews))
	for _, r := range l.reviews {
		out = append(out, r)
	}
	return out
}

// update applies fn to the freshest copy of the word and writes it through.
// The stored row wins over the in-memory one, so another process sharing the
// data directory never has its enrichment or grok stamp overwritten.
// Storage failures are logged; the in-memory change stands.
func (l *Library) update(ctx context.Context, id string, fn func(*vocab.Word)) (vocab.Word, error) {
	stored, getErr := l.store.GetWord(ctx, id)

	l.mu.Lock()
	i, ok := l.index[id]
	if !ok {
		l.mu.Unlock()
		return vocab.Word{}, ErrWordNotFound
	}
	if getErr == nil {
		l.words[i] = stored
	} else if !errors.Is(getErr, storage.ErrNotFound) {
		l.logger.Warn("refreshing word", "id", id, "error", getErr)
	}
	fn(&l.words[i])
	w := l.words[i]
	l.mu.Unlock()

	if err := l.store.PutWord(ctx, w); err != nil {
		l.logger.Warn("saving word", "word", w.Word, "error", err)
	}
	return w, nil
}

func (l *Library) stamp(w *vocab.Word) {
	w.StampGrokked(l.clock.Now())
}
