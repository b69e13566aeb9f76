package library

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/kalambet/grokwords/internal/review"
	"github.com/kalambet/grokwords/internal/vocab"
)

// SessionState is a snapshot of the review session.
type SessionState struct {
	Selection review.Selection `json:"selection"`
	Revealed  []string         `json:"revealed"`
	Words     []vocab.Word     `json:"words"`
}

// Schedule returns the review rows for every cohort, newest first.
func (l *Library) Schedule() []review.Cohort {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.scheduleLocked()
}

func (l *Library) scheduleLocked() []review.Cohort {
	reviews := make([]vocab.Review, 0, len(l.reviews))
	for _, r := range l.reviews {
		reviews = append(reviews, r)
	}
	return review.Schedule(l.words, reviews, l.clock.Now(), l.session.Selection())
}

// Session returns the current session snapshot.
func (l *Library) Session() SessionState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sessionLocked()
}

func (l *Library) sessionLocked() SessionState {
	st := SessionState{Selection: l.session.Selection(), Revealed: l.session.RevealedIDs()}
	slices.Sort(st.Revealed)
	if st.Selection.Set {
		if c, ok := review.Find(l.scheduleLocked(), st.Selection.Date); ok {
			st.Words = c.Words
		}
	}
	return st
}

// Select toggles the active checkpoint. Only due or fully completed
// checkpoints can be opened; the active one can always be closed.
func (l *Library) Select(date string, day int) (SessionState, error) {
	if !review.IsCheckpoint(day) {
		return SessionState{}, fmt.Errorf("%w: %d", ErrBadCheckpoint, day)
	}

	date = strings.ReplaceAll(date, "-", "/")

	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := review.Find(l.scheduleLocked(), date)
	if !ok {
		return SessionState{}, fmt.Errorf("%w: %s", ErrNoCohort, date)
	}
	cp, _ := c.Checkpoint(day)
	if !cp.Selectable && !cp.Active {
		return SessionState{}, fmt.Errorf("%w: %s day %d", ErrNotSelectable, date, day)
	}
	l.session.Select(c, day)
	return l.sessionLocked(), nil
}

// Reveal toggles a word in the active session. Unmasking a word records the
// selected checkpoint for it; masking again writes nothing.
func (l *Library) Reveal(ctx context.Context, id string) (SessionState, error) {
	l.mu.Lock()
	sel := l.session.Selection()
	if !sel.Set {
		l.mu.Unlock()
		return SessionState{}, ErrNoSelection
	}
	i, ok := l.index[id]
	if !ok {
		l.mu.Unlock()
		return SessionState{}, ErrWordNotFound
	}
	w := l.words[i]
	if !w.Grokked() || w.CohortDate() != sel.Date {
		l.mu.Unlock()
		return SessionState{}, ErrNotInSelection
	}

	var rec vocab.Review
	revealed := l.session.Toggle(id)
	if revealed {
		rec = vocab.Review{Word: w.Word, Day: sel.Day, Date: w.CohortDate(), Reward: l.settings.Reward}
		l.reviews[rec.Word] = rec
	}
	st := l.sessionLocked()
	l.mu.Unlock()

	if revealed {
		l.persistReview(ctx, rec)
	}
	return st, nil
}

// MarkReviewed records a completed checkpoint for a grokked word outside a
// session. The record is dated with the word's own cohort date.
func (l *Library) MarkReviewed(ctx context.Context, ref string, day int) (vocab.Review, error) {
	if !review.IsCheckpoint(day) {
		return vocab.Review{}, fmt.Errorf("%w: %d", ErrBadCheckpoint, day)
	}
	w, err := l.Resolve(ref)
	if err != nil {
		return vocab.Review{}, err
	}
	if !w.Grokked() || w.CohortDate() == "" {
		return vocab.Review{}, ErrNotGrokked
	}

	l.mu.Lock()
	rec := vocab.Review{Word: w.Word, Day: day, Date: w.CohortDate(), Reward: l.settings.Reward}
	l.reviews[rec.Word] = rec
	l.mu.Unlock()

	l.persistReview(ctx, rec)
	return rec, nil
}

func (l *Library) persistReview(ctx context.Context, r vocab.Review) {
	if err := l.store.PutReview(ctx, r); err != nil {
		l.logger.Warn("saving review", "word", r.Word, "day", r.Day, "error", err)
	}
}
