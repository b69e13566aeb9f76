package storage

import (
	"context"
	"fmt"

	"github.com/kalambet/grokwords/internal/vocab"
)

// PutReview records the latest checkpoint for a word, replacing any earlier one.
func (s *Store) PutReview(ctx context.Context, r vocab.Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (word, day, date, reward) VALUES (?, ?, ?, ?)
		ON CONFLICT(word) DO UPDATE SET day = excluded.day, date = excluded.date, reward = excluded.reward`,
		r.Word, r.Day, r.Date, r.Reward,
	)
	if err != nil {
		return fmt.Errorf("saving review for %q: %w", r.Word, err)
	}
	return nil
}

// AllReviews returns every review record.
func (s *Store) AllReviews(ctx context.Context) ([]vocab.Review, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT word, day, date, reward FROM reviews`)
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}
	defer rows.Close()

	var reviews []vocab.Review
	for rows.Next() {
		var r vocab.Review
		if err := rows.Scan(&r.Word, &r.Day, &r.Date, &r.Reward); err != nil {
			return nil, fmt.Errorf("scanning review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
