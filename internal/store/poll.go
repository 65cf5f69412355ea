package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pavelanni/studybuddy/internal/model"
	"github.com/pavelanni/studybuddy/internal/poll"
)

var _ poll.Store = (*Store)(nil)

// Get returns a poll with its options in display order.
func (s *Store) Get(ctx context.Context, id string) (model.Poll, error) {
	return getPoll(ctx, s.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func getPoll(ctx context.Context, q querier, id string) (model.Poll, error) {
	var p model.Poll
	err := q.QueryRowContext(ctx,
		`SELECT id, question, active, created_at FROM polls WHERE id = ?`, id,
	).Scan(&p.ID, &p.Question, &p.Active, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Poll{}, poll.ErrNotFound
	}
	if err != nil {
		return model.Poll{}, err
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, text, votes FROM poll_options WHERE poll_id = ? ORDER BY position`, id)
	if err != nil {
		return model.Poll{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var o model.PollOption
		if err := rows.Scan(&o.ID, &o.Text, &o.Votes); err != nil {
			return model.Poll{}, err
		}
		p.Options = append(p.Options, o)
		p.TotalVotes += o.Votes
	}
	return p, rows.Err()
}

// Put creates or replaces a poll and its options.
func (s *Store) Put(ctx context.Context, p model.Poll) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO polls (id, question, active, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET question = excluded.question, active = excluded.active`,
		p.ID, p.Question, p.Active, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert poll: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_options WHERE poll_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clear options: %w", err)
	}
	for i, o := range p.Options {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO poll_options (poll_id, id, position, text, votes) VALUES (?, ?, ?, ?, ?)`,
			p.ID, o.ID, i, o.Text, o.Votes,
		)
		if err != nil {
			return fmt.Errorf("insert option %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Increment adds one vote to optionID and returns the updated poll.
func (s *Store) Increment(ctx context.Context, id, optionID string) (model.Poll, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Poll{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE poll_options SET votes = votes + 1 WHERE poll_id = ? AND id = ?`, id, optionID)
	if err != nil {
		return model.Poll{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Poll{}, err
	}
	if n == 0 {
		if _, err := getPoll(ctx, tx, id); err != nil {
			return model.Poll{}, err
		}
		return model.Poll{}, poll.ErrUnknownOption
	}

	p, err := getPoll(ctx, tx, id)
	if err != nil {
		return model.Poll{}, err
	}
	return p, tx.Commit()
}
