package repository

import (
	"context"

	"github.com/abhinimbalkar96-spec/blak-website/internal/domain"
)

// Mirror persists a best-effort copy of each session's cart. The in-memory
// store stays authoritative; the mirror only seeds it on first touch and
// absorbs writes afterwards. Load reports an empty cart (nil items, no error)
// when no usable snapshot exists.
type Mirror interface {
	Load(ctx context.Context, sessionID string) ([]domain.LineItem, error)
	Save(ctx context.Context, sessionID string, items []domain.LineItem) error
	Clear(ctx context.Context, sessionID string) error
}
