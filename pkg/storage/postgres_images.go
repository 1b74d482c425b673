package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const imageColumns = `id, owner_id, image_url, media_key, title, description, category, is_public, created_at`

type PostgresImageStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresImageStorage(pool *pgxpool.Pool) *PostgresImageStorage {
	return &PostgresImageStorage{pool: pool}
}

func (s *PostgresImageStorage) Create(ctx context.Context, image *Image) error {
	query := `INSERT INTO images (` + imageColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.pool.Exec(ctx, query, image.ID, image.OwnerID, image.ImageURL, image.MediaKey, image.Title, image.Description, image.Category, image.IsPublic, image.CreatedAt)
	return err
}

func (s *PostgresImageStorage) GetByID(ctx context.Context, id string) (*Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE id = $1`
	image, err := scanImage(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return image, nil
}

func (s *PostgresImageStorage) ListByOwner(ctx context.Context, ownerID string) ([]*Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE owner_id = $1 ORDER BY created_at DESC`
	return s.list(ctx, query, ownerID)
}

func (s *PostgresImageStorage) ListByIDs(ctx context.Context, ids []string) ([]*Image, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + imageColumns + ` FROM images WHERE id = ANY($1) ORDER BY created_at DESC`
	return s.list(ctx, query, ids)
}

func (s *PostgresImageStorage) ListPublicByCategories(ctx context.Context, categories []string) ([]*Image, error) {
	if len(categories) == 0 {
		return nil, nil
	}
	query := `SELECT ` + imageColumns + ` FROM images WHERE is_public AND category = ANY($1) ORDER BY created_at DESC`
	return s.list(ctx, query, categories)
}

func (s *PostgresImageStorage) SetVisibility(ctx context.Context, id string, public bool) error {
	query := `UPDATE images SET is_public = $2 WHERE id = $1`
	_, err := s.pool.Exec(ctx, query, id, public)
	return err
}

// Delete removes the image and every favorite pointing at it in one transaction.
func (s *PostgresImageStorage) Delete(ctx context.Context, id string) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM favorites WHERE image_id = $1`, id); err != nil {
			return fmt.Errorf("delete favorites: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM images WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete image: %w", err)
		}
		return nil
	})
}

func (s *PostgresImageStorage) list(ctx context.Context, query string, args ...any) ([]*Image, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []*Image{}
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func scanImage(row pgx.Row) (*Image, error) {
	var image Image
	err := row.Scan(&image.ID, &image.OwnerID, &image.ImageURL, &image.MediaKey, &image.Title, &image.Description, &image.Category, &image.IsPublic, &image.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &image, nil
}
