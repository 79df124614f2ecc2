package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Asset struct {
	PublicID  uuid.UUID
	Folder    string
	MimeType  string
	Size      int
	Data      []byte
	URL       string
	CreatedAt time.Time
}

type AssetStore interface {
	Upload(ctx context.Context, data []byte, mimeType, folder string) (*Asset, error)
	Delete(ctx context.Context, publicID uuid.UUID) (bool, error)
	Get(ctx context.Context, publicID uuid.UUID) (*Asset, error)
}
