package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresProfileStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresProfileStorage(pool *pgxpool.Pool) *PostgresProfileStorage {
	return &PostgresProfileStorage{pool: pool}
}

func (s *PostgresProfileStorage) Get(ctx context.Context, userID string) (*Profile, error) {
	query := `SELECT user_id, email, username, interests, photo_url, created_at, updated_at FROM profiles WHERE user_id = $1`
	var p Profile
	err := s.pool.QueryRow(ctx, query, userID).Scan(&p.UserID, &p.Email, &p.Username, &p.Interests, &p.PhotoURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Upsert merges the profile into any existing row; created_at is kept.
func (s *PostgresProfileStorage) Upsert(ctx context.Context, p *Profile) error {
	interests := p.Interests
	if interests == nil {
		interests = []string{}
	}
	query := `INSERT INTO profiles (user_id, email, username, interests, photo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			username = EXCLUDED.username,
			interests = EXCLUDED.interests,
			photo_url = EXCLUDED.photo_url,
			updated_at = EXCLUDED.updated_at`
	_, err := s.pool.Exec(ctx, query, p.UserID, p.Email, p.Username, interests, p.PhotoURL, p.CreatedAt, p.UpdatedAt)
	return err
}

func (s *PostgresProfileStorage) ListFavorites(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT image_id FROM favorites WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (s *PostgresProfileStorage) AddFavorite(ctx context.Context, userID, imageID string) error {
	query := `INSERT INTO favorites (user_id, image_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	_, err := s.pool.Exec(ctx, query, userID, imageID)
	return err
}

func (s *PostgresProfileStorage) RemoveFavorite(ctx context.Context, userID, imageID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND image_id = $2`, userID, imageID)
	return err
}

func (s *PostgresProfileStorage) IsFavorite(ctx context.Context, userID, imageID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND image_id = $2)`
	err := s.pool.QueryRow(ctx, query, userID, imageID).Scan(&exists)
	return exists, err
}
