package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shareColumns = `token, image_id, passcode_hash, expires_at, created_at, created_by`

type PostgresShareStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresShareStorage(pool *pgxpool.Pool) *PostgresShareStorage {
	return &PostgresShareStorage{pool: pool}
}

func (s *PostgresShareStorage) Create(ctx context.Context, share *ShareRecord) error {
	query := `INSERT INTO shared_links (` + shareColumns + `) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (token) DO UPDATE SET
			image_id = EXCLUDED.image_id,
			passcode_hash = EXCLUDED.passcode_hash,
			expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at,
			created_by = EXCLUDED.created_by`
	_, err := s.pool.Exec(ctx, query, share.Token, share.ImageID, share.PasscodeHash, share.ExpiresAt, share.CreatedAt, share.CreatedBy)
	return err
}

func (s *PostgresShareStorage) GetByToken(ctx context.Context, token string) (*ShareRecord, error) {
	query := `SELECT ` + shareColumns + ` FROM shared_links WHERE token = $1`
	share, err := scanShare(s.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return share, nil
}

func (s *PostgresShareStorage) ListByImage(ctx context.Context, imageID string) ([]*ShareRecord, error) {
	query := `SELECT ` + shareColumns + ` FROM shared_links WHERE image_id = $1 ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query, imageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shares := []*ShareRecord{}
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	return shares, rows.Err()
}

func (s *PostgresShareStorage) Delete(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM shared_links WHERE token = $1`, token)
	return err
}

func (s *PostgresShareStorage) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM shared_links WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanShare(row pgx.Row) (*ShareRecord, error) {
	var share ShareRecord
	err := row.Scan(&share.Token, &share.ImageID, &share.PasscodeHash, &share.ExpiresAt, &share.CreatedAt, &share.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &share, nil
}
