package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAssetStore keeps uploaded flyers and documents in the database
// and serves them under baseURL/assets/{publicId}.
type PostgresAssetStore struct {
	db      *pgxpool.Pool
	baseURL string
}

func NewPostgresAssetStore(db *pgxpool.Pool, baseURL string) *PostgresAssetStore {
	return &PostgresAssetStore{
		db:      db,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (p *PostgresAssetStore) url(id uuid.UUID) string {
	return p.baseURL + "/assets/" + id.String()
}

func (p *PostgresAssetStore) Upload(ctx context.Context, data []byte, mimeType, folder string) (*domain.Asset, error) {
	asset := &domain.Asset{
		PublicID: uuid.New(),
		Folder:   folder,
		MimeType: mimeType,
		Size:     len(data),
	}

	err := p.db.QueryRow(ctx, `
		INSERT INTO assets (public_id, folder, mime_type, size, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, pgID(asset.PublicID), folder, mimeType, asset.Size, data).Scan(&asset.CreatedAt)
	if err != nil {
		return nil, err
	}

	asset.URL = p.url(asset.PublicID)

	return asset, nil
}

// Delete reports whether an asset was actually removed.
func (p *PostgresAssetStore) Delete(ctx context.Context, publicID uuid.UUID) (bool, error) {
	tag, err := p.db.Exec(ctx, `DELETE FROM assets WHERE public_id = $1`, pgID(publicID))
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (p *PostgresAssetStore) Get(ctx context.Context, publicID uuid.UUID) (*domain.Asset, error) {
	var (
		asset domain.Asset
		id    pgtype.UUID
	)

	err := p.db.QueryRow(ctx, `
		SELECT public_id, folder, mime_type, size, data, created_at
		FROM assets
		WHERE public_id = $1
	`, pgID(publicID)).Scan(&id, &asset.Folder, &asset.MimeType, &asset.Size, &asset.Data, &asset.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	asset.PublicID = uuid.UUID(id.Bytes)
	asset.URL = p.url(asset.PublicID)

	return &asset, nil
}
