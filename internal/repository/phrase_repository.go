package repository

import (
	"context"
	"database/sql"

	"github.com/2gazb/BargainDrivingServer/internal/model"
)

// PhraseStore is the storage contract for the phrase resource.
type PhraseStore interface {
	List(ctx context.Context) ([]model.Phrase, error)
	Get(ctx context.Context, id uint64) (model.Phrase, error)
	Create(ctx context.Context, p model.Phrase) (model.Phrase, error)
	Update(ctx context.Context, p model.Phrase) (model.Phrase, error)
}

// PhraseRepo is the MySQL implementation of PhraseStore over the
// 'phrases' table.
type PhraseRepo struct{ DB *sql.DB }

func NewPhraseRepo(db *sql.DB) *PhraseRepo { return &PhraseRepo{DB: db} }

// List returns all phrases in storage order.
func (r *PhraseRepo) List(ctx context.Context) ([]model.Phrase, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, title, message FROM phrases")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phrases []model.Phrase
	for rows.Next() {
		var p model.Phrase
		if err := rows.Scan(&p.ID, &p.Title, &p.Message); err != nil {
			return nil, err
		}
		phrases = append(phrases, p)
	}
	return phrases, rows.Err()
}

// Get fetches a phrase by id.
func (r *PhraseRepo) Get(ctx context.Context, id uint64) (model.Phrase, error) {
	var p model.Phrase
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, title, message FROM phrases WHERE id=? LIMIT 1", id).
		Scan(&p.ID, &p.Title, &p.Message)
	if err == sql.ErrNoRows {
		return model.Phrase{}, ErrNotFound
	}
	return p, err
}

// Create inserts a phrase and returns it with the assigned ID.
func (r *PhraseRepo) Create(ctx context.Context, p model.Phrase) (model.Phrase, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO phrases (title, message) VALUES (?,?)", p.Title, p.Message)
	if err != nil {
		return model.Phrase{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Phrase{}, err
	}
	p.ID = uint64(id)
	return p, nil
}

// Update rewrites the title and message of an existing phrase.
func (r *PhraseRepo) Update(ctx context.Context, p model.Phrase) (model.Phrase, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE phrases SET title=?, message=? WHERE id=?", p.Title, p.Message, p.ID)
	if err != nil {
		return model.Phrase{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Distinguish "no such phrase" from "no change" before reporting.
		if _, err := r.Get(ctx, p.ID); err != nil {
			return model.Phrase{}, err
		}
	}
	return p, nil
}
