package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kalambet/grokwords/internal/vocab"
)

const wordColumns = `id, word, level, level_label, pos, phonetic, definition, example, image_url, grokked_at, toefl, ielts`

const upsertWord = `
	INSERT INTO words (` + wordColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		word = excluded.word,
		level = excluded.level,
		level_label = excluded.level_label,
		pos = excluded.pos,
		phonetic = excluded.phonetic,
		definition = excluded.definition,
		example = excluded.example,
		image_url = excluded.image_url,
		grokked_at = CASE WHEN words.grokked_at <> '' THEN words.grokked_at ELSE excluded.grokked_at END,
		toefl = excluded.toefl,
		ielts = excluded.ielts`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putWord(ctx context.Context, ex execer, w vocab.Word) error {
	_, err := ex.ExecContext(ctx, upsertWord,
		w.ID, w.Word, w.Level, w.LevelLabel, w.POS, w.Phonetic, w.Definition,
		w.Example, w.ImageURL, w.GrokkedAt, w.TOEFL, w.IELTS,
	)
	return err
}

// PutWord inserts or replaces a word by id.
func (s *Store) PutWord(ctx context.Context, w vocab.Word) error {
	if err := putWord(ctx, s.db, w); err != nil {
		return fmt.Errorf("saving word %q: %w", w.Word, err)
	}
	return nil
}

// PutWords saves a batch of words in one transaction.
func (s *Store) PutWords(ctx context.Context, words []vocab.Word) error {
	if len(words) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning words transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertWord)
	if err != nil {
		return fmt.Errorf("preparing word upsert: %w", err)
	}
	defer stmt.Close()

	for _, w := range words {
		if _, err := stmt.ExecContext(ctx,
			w.ID, w.Word, w.Level, w.LevelLabel, w.POS, w.Phonetic, w.Definition,
			w.Example, w.ImageURL, w.GrokkedAt, w.TOEFL, w.IELTS,
		); err != nil {
			return fmt.Errorf("saving word %q: %w", w.Word, err)
		}
	}
	return tx.Commit()
}

// GetWord returns the word stored under id.
func (s *Store) GetWord(ctx context.Context, id string) (vocab.Word, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+wordColumns+` FROM words WHERE id = ?`, id)
	w, err := scanWord(row)
	if err == sql.ErrNoRows {
		return vocab.Word{}, ErrNotFound
	}
	if err != nil {
		return vocab.Word{}, fmt.Errorf("loading word %s: %w", id, err)
	}
	return w, nil
}

// AllWords returns every stored word. Order is unspecified.
func (s *Store) AllWords(ctx context.Context) ([]vocab.Word, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+wordColumns+` FROM words`)
	if err != nil {
		return nil, fmt.Errorf("querying words: %w", err)
	}
	defer rows.Close()

	var words []vocab.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning word: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWord(sc scanner) (vocab.Word, error) {
	var w vocab.Word
	err := sc.Scan(&w.ID, &w.Word, &w.Level, &w.LevelLabel, &w.POS, &w.Phonetic,
		&w.Definition, &w.Example, &w.ImageURL, &w.GrokkedAt, &w.TOEFL, &w.IELTS)
	return w, err
}
